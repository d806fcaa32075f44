// Package discovery walks a directory tree and yields the files a scan
// should visit, honoring ignore files, size limits, and extension
// filters.
package discovery

import (
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	ignore "github.com/sabhiram/go-gitignore"
	"golang.org/x/sync/errgroup"
)

// pii-specific ignore file, recognized alongside .gitignore with the
// same semantics.
const piiIgnoreFile = ".pii-ignore"

// DefaultMaxFilesize caps per-file work at 100 MiB; larger files are
// silently skipped.
const DefaultMaxFilesize = 100 * 1024 * 1024

// Walker traverses a directory tree. Configure with the chained
// setters, then call Walk or WalkParallel.
type Walker struct {
	root        string
	hidden      bool // skip hidden files/dirs when true
	maxDepth    int  // 0 means unlimited
	threads     int
	maxFilesize int64
	filter      *FileFilter
}

// NewWalker returns a walker with the defaults: hidden files skipped,
// unlimited depth, one thread per CPU, 100 MiB file-size cap, binary
// extensions excluded.
func NewWalker(root string) *Walker {
	return &Walker{
		root:        root,
		hidden:      true,
		threads:     runtime.NumCPU(),
		maxFilesize: DefaultMaxFilesize,
		filter:      NewFileFilter(),
	}
}

// Hidden controls whether hidden files and directories are skipped
// (true, the default) or included (false).
func (w *Walker) Hidden(skip bool) *Walker {
	w.hidden = skip
	return w
}

// MaxDepth limits recursion depth; the root's direct children are at
// depth 1.
func (w *Walker) MaxDepth(depth int) *Walker {
	w.maxDepth = depth
	return w
}

// Threads sets the parallelism of WalkParallel.
func (w *Walker) Threads(n int) *Walker {
	if n > 0 {
		w.threads = n
	}
	return w
}

// MaxFilesize sets the per-file size cap in bytes.
func (w *Walker) MaxFilesize(size int64) *Walker {
	w.maxFilesize = size
	return w
}

// Filter replaces the extension filter.
func (w *Walker) Filter(f *FileFilter) *Walker {
	w.filter = f
	return w
}

// ignoreSet is a stack of compiled ignore files, each anchored at the
// directory that contained it.
type ignoreSet struct {
	matchers []anchoredIgnore
}

type anchoredIgnore struct {
	base    string
	matcher *ignore.GitIgnore
}

func (s ignoreSet) withDir(dir string) ignoreSet {
	matchers := s.matchers
	for _, name := range []string{".gitignore", piiIgnoreFile} {
		path := filepath.Join(dir, name)
		if matcher, err := ignore.CompileIgnoreFile(path); err == nil && matcher != nil {
			matchers = append(matchers[:len(matchers):len(matchers)], anchoredIgnore{base: dir, matcher: matcher})
		}
	}
	return ignoreSet{matchers: matchers}
}

func (s ignoreSet) ignored(path string) bool {
	for _, m := range s.matchers {
		rel, err := filepath.Rel(m.base, path)
		if err != nil {
			continue
		}
		if m.matcher.MatchesPath(filepath.ToSlash(rel)) {
			return true
		}
	}
	return false
}

// Walk traverses the tree sequentially and returns the scannable file
// paths in traversal order.
func (w *Walker) Walk() ([]string, error) {
	if _, err := os.Stat(w.root); err != nil {
		return nil, err
	}

	var files []string
	err := w.walkSubtree(w.root, 0, ignoreSet{}.withDir(w.root), func(path string) {
		files = append(files, path)
	})
	return files, err
}

// WalkParallel traverses the root's immediate subdirectories
// concurrently. No ordering guarantee is made across runs.
func (w *Walker) WalkParallel() ([]string, error) {
	if _, err := os.Stat(w.root); err != nil {
		return nil, err
	}

	rootIgnores := ignoreSet{}.withDir(w.root)

	entries, err := os.ReadDir(w.root)
	if err != nil {
		return nil, err
	}

	var mu sync.Mutex
	var files []string
	appendFile := func(path string) {
		mu.Lock()
		files = append(files, path)
		mu.Unlock()
	}

	var g errgroup.Group
	g.SetLimit(w.threads)

	for _, entry := range entries {
		path := filepath.Join(w.root, entry.Name())

		if w.skipEntry(entry.Name(), path, entry.IsDir(), 1, rootIgnores) {
			continue
		}

		if entry.IsDir() {
			g.Go(func() error {
				return w.walkSubtree(path, 1, rootIgnores.withDir(path), appendFile)
			})
			continue
		}

		if w.acceptFile(path, entry) {
			appendFile(path)
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}

// walkSubtree walks dir at the given depth, emitting accepted files.
func (w *Walker) walkSubtree(dir string, depth int, ignores ignoreSet, emit func(string)) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		// Unreadable directories are skipped, matching best-effort
		// scan semantics.
		if os.IsPermission(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		entryDepth := depth + 1

		if w.skipEntry(entry.Name(), path, entry.IsDir(), entryDepth, ignores) {
			continue
		}

		if entry.IsDir() {
			if err := w.walkSubtree(path, entryDepth, ignores.withDir(path), emit); err != nil {
				return err
			}
			continue
		}

		if w.acceptFile(path, entry) {
			emit(path)
		}
	}

	return nil
}

// skipEntry applies the filters shared by files and directories:
// hidden names, depth, the .git metadata directory, and ignore rules.
func (w *Walker) skipEntry(name, path string, isDir bool, depth int, ignores ignoreSet) bool {
	if w.hidden && strings.HasPrefix(name, ".") {
		return true
	}
	if isDir && name == ".git" {
		return true
	}
	if w.maxDepth > 0 && depth > w.maxDepth {
		return true
	}
	return ignores.ignored(path)
}

// acceptFile applies the per-file filters: size cap and the extension
// filter.
func (w *Walker) acceptFile(path string, entry fs.DirEntry) bool {
	info, err := entry.Info()
	if err != nil {
		return false
	}
	if w.maxFilesize > 0 && info.Size() > w.maxFilesize {
		return false
	}
	return w.filter.ShouldScan(path)
}
