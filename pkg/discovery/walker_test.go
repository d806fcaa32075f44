package discovery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestWalkerBasic(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "test.txt", "test content")

	files, err := NewWalker(dir).Walk()
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestWalkerMissingRoot(t *testing.T) {
	_, err := NewWalker("/does/not/exist").Walk()
	assert.Error(t, err)
}

func TestWalkerSkipsHiddenByDefault(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "visible.txt", "a")
	writeFile(t, dir, ".env", "SECRET=1")

	files, err := NewWalker(dir).Walk()
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Contains(t, files[0], "visible.txt")

	files, err = NewWalker(dir).Hidden(false).Walk()
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestWalkerRespectsPiiIgnore(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".pii-ignore", "*.secret\n")
	writeFile(t, dir, "normal.txt", "content")
	writeFile(t, dir, "hidden.secret", "secret")

	files, err := NewWalker(dir).Walk()
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Contains(t, files[0], "normal.txt")
}

func TestWalkerRespectsGitignore(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".gitignore", "build/\n*.log\n")
	writeFile(t, dir, "keep.txt", "x")
	writeFile(t, dir, "debug.log", "x")
	writeFile(t, dir, "build/out.txt", "x")

	files, err := NewWalker(dir).Walk()
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Contains(t, files[0], "keep.txt")
}

func TestWalkerNestedIgnoreFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "root.txt", "x")
	writeFile(t, dir, "sub/.pii-ignore", "*.csv\n")
	writeFile(t, dir, "sub/data.csv", "x")
	writeFile(t, dir, "sub/data.txt", "x")

	files, err := NewWalker(dir).Hidden(true).Walk()
	require.NoError(t, err)

	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, filepath.Base(f))
	}
	assert.ElementsMatch(t, []string{"root.txt", "data.txt"}, names)
}

func TestWalkerMaxDepth(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "root.txt", "root")
	writeFile(t, dir, "sub/sub.txt", "sub")

	files, err := NewWalker(dir).MaxDepth(1).Walk()
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Contains(t, files[0], "root.txt")
}

func TestWalkerMaxFilesize(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "small.txt", "tiny")
	writeFile(t, dir, "large.txt", string(make([]byte, 2048)))

	files, err := NewWalker(dir).MaxFilesize(1024).Walk()
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Contains(t, files[0], "small.txt")
}

func TestWalkerSkipsGitDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "code.go", "package main")
	writeFile(t, dir, ".git/config", "[core]")

	files, err := NewWalker(dir).Hidden(false).Walk()
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Contains(t, files[0], "code.go")
}

func TestWalkParallelFindsSameFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "x")
	writeFile(t, dir, "one/b.txt", "x")
	writeFile(t, dir, "two/c.txt", "x")
	writeFile(t, dir, "two/deep/d.txt", "x")

	serial, err := NewWalker(dir).Walk()
	require.NoError(t, err)

	parallel, err := NewWalker(dir).Threads(4).WalkParallel()
	require.NoError(t, err)

	assert.ElementsMatch(t, serial, parallel)
	assert.Len(t, parallel, 4)
}

func TestFileFilterBinaryExtensions(t *testing.T) {
	filter := NewFileFilter()

	assert.True(t, filter.ShouldScan("test.txt"))
	assert.True(t, filter.ShouldScan("config.json"))
	assert.False(t, filter.ShouldScan("image.jpg"))
	assert.False(t, filter.ShouldScan("video.mp4"))
	assert.False(t, filter.ShouldScan("archive.zip"))

	binary := NewFileFilter().ScanBinary(true)
	assert.True(t, binary.ShouldScan("image.jpg"))
}

func TestFileFilterAllowedExtensions(t *testing.T) {
	filter := NewFileFilter().AllowedExtensions([]string{"txt", "json"})

	assert.True(t, filter.ShouldScan("test.txt"))
	assert.True(t, filter.ShouldScan("config.json"))
	assert.False(t, filter.ShouldScan("script.py"))
	assert.False(t, filter.ShouldScan("noextension"))
}

func TestFileFilterExcludeGlobs(t *testing.T) {
	filter := NewFileFilter().ExcludeGlobs([]string{"**/node_modules/**", "**/*.min.js"})

	assert.False(t, filter.ShouldScan("web/node_modules/pkg/index.js"))
	assert.False(t, filter.ShouldScan("dist/app.min.js"))
	assert.True(t, filter.ShouldScan("src/app.js"))
}

func TestWalkerAllowedExtensionsIntegration(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "keep.txt", "x")
	writeFile(t, dir, "skip.py", "x")

	filter := NewFileFilter().AllowedExtensions([]string{"txt"})
	files, err := NewWalker(dir).Filter(filter).Walk()
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Contains(t, files[0], "keep.txt")
}
