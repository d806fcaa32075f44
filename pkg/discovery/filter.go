package discovery

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// binaryExtensions lists extensions skipped unless binary scanning is
// explicitly enabled.
var binaryExtensions = map[string]bool{
	"exe": true, "dll": true, "so": true, "dylib": true, "bin": true,
	"jpg": true, "jpeg": true, "png": true, "gif": true, "bmp": true,
	"mp3": true, "mp4": true, "avi": true, "mov": true,
	"zip": true, "tar": true, "gz": true,
}

// FileFilter decides whether a path should be scanned, based on
// extension rules and optional glob patterns.
type FileFilter struct {
	scanBinary        bool
	allowedExtensions []string
	excludeGlobs      []string
}

// NewFileFilter returns a filter with binary extensions excluded and
// no allow-list.
func NewFileFilter() *FileFilter {
	return &FileFilter{}
}

// ScanBinary enables scanning of files with binary extensions.
func (f *FileFilter) ScanBinary(scan bool) *FileFilter {
	f.scanBinary = scan
	return f
}

// AllowedExtensions restricts scanning to the given extensions
// (lower-case, without the leading dot).
func (f *FileFilter) AllowedExtensions(extensions []string) *FileFilter {
	f.allowedExtensions = extensions
	return f
}

// ExcludeGlobs skips paths matching any of the given doublestar
// patterns, e.g. "**/node_modules/**".
func (f *FileFilter) ExcludeGlobs(patterns []string) *FileFilter {
	f.excludeGlobs = patterns
	return f
}

// ShouldScan reports whether the file at path passes all filters.
func (f *FileFilter) ShouldScan(path string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))

	if len(f.allowedExtensions) > 0 {
		if ext == "" {
			return false
		}
		allowed := false
		for _, a := range f.allowedExtensions {
			if ext == a {
				allowed = true
				break
			}
		}
		if !allowed {
			return false
		}
	}

	if !f.scanBinary && binaryExtensions[ext] {
		return false
	}

	slashPath := filepath.ToSlash(path)
	for _, pattern := range f.excludeGlobs {
		if matched, err := doublestar.Match(pattern, slashPath); err == nil && matched {
			return false
		}
	}

	return true
}
