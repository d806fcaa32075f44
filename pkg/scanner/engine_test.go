package scanner

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silv3rshi3ld/gdpr-pii-scanner/pkg/detection"
	"github.com/silv3rshi3ld/gdpr-pii-scanner/pkg/extraction"
)

func newTestEngine() *Engine {
	return NewEngine(detection.DefaultRegistry()).ShowProgress(false)
}

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestScanFileWithBSN(t *testing.T) {
	engine := newTestEngine()
	dir := t.TempDir()
	path := writeTestFile(t, dir, "test.txt", "Patient BSN: 111222333")

	result := engine.ScanFile(path)
	require.Empty(t, result.Error)
	require.Len(t, result.Matches, 1)
	assert.Equal(t, "nl_bsn", result.Matches[0].DetectorID)
	assert.Equal(t, uint64(22), result.SizeBytes)
}

func TestScanFileContextUpgrade(t *testing.T) {
	engine := newTestEngine()
	dir := t.TempDir()
	path := writeTestFile(t, dir, "test.txt", "Patient BSN: 111222333 diagnosed with cancer")

	result := engine.ScanFile(path)
	require.Len(t, result.Matches, 1)

	m := result.Matches[0]
	require.NotNil(t, m.Context)
	assert.Equal(t, detection.SeverityCritical, m.Severity)
	assert.True(t, m.GdprCategory.IsSpecial())
	assert.Equal(t, detection.CategoryMedical, m.GdprCategory.Category)
	assert.Contains(t, m.GdprCategory.DetectedKeywords, "patient")
	assert.Contains(t, m.GdprCategory.DetectedKeywords, "cancer")
	assert.Equal(t, "111****33", m.ValueMasked)
}

func TestScanFileContextDisabled(t *testing.T) {
	engine := newTestEngine().EnableContext(false)
	dir := t.TempDir()
	path := writeTestFile(t, dir, "test.txt", "Patient BSN: 111222333 diagnosed with cancer")

	result := engine.ScanFile(path)
	require.Len(t, result.Matches, 1)
	assert.Nil(t, result.Matches[0].Context)
	assert.False(t, result.Matches[0].GdprCategory.IsSpecial())
}

func TestScanFileReadError(t *testing.T) {
	engine := newTestEngine()

	result := engine.ScanFile("/nonexistent/file.txt")
	assert.True(t, strings.HasPrefix(result.Error, "Failed to read file: "), result.Error)
	assert.Empty(t, result.Matches)
}

func TestScanFileNonUTF8(t *testing.T) {
	engine := newTestEngine()
	dir := t.TempDir()
	path := filepath.Join(dir, "binary.txt")
	require.NoError(t, os.WriteFile(path, []byte{0xff, 0xfe, 0x00, 0x01}, 0o644))

	result := engine.ScanFile(path)
	assert.True(t, strings.HasPrefix(result.Error, "Failed to read file: "), result.Error)
}

func TestScanDirectory(t *testing.T) {
	engine := newTestEngine()
	dir := t.TempDir()
	writeTestFile(t, dir, "file1.txt", "BSN: 111222333")
	writeTestFile(t, dir, "file2.txt", "Email: test@example.com")

	results, err := engine.ScanDirectory(dir)
	require.NoError(t, err)

	assert.Equal(t, 2, results.TotalFiles)
	assert.GreaterOrEqual(t, results.TotalMatches, 2)
	assert.NotEmpty(t, results.ScanID)
}

func TestScanDirectoryHistograms(t *testing.T) {
	engine := newTestEngine()
	dir := t.TempDir()
	writeTestFile(t, dir, "a.txt", "BSN: 111222333")
	writeTestFile(t, dir, "b.txt", "IBAN NL91ABNA0417164300 and card 4532015112830366")

	results, err := engine.ScanDirectory(dir)
	require.NoError(t, err)

	sum := 0
	for _, f := range results.Files {
		sum += len(f.Matches)
	}
	assert.Equal(t, results.TotalMatches, sum)
	assert.Equal(t, results.TotalMatches, results.BySeverity.Total())

	countrySum := 0
	for _, n := range results.ByCountry {
		countrySum += n
	}
	assert.Equal(t, results.TotalMatches, countrySum)
}

func TestScanDirectoryMissingRoot(t *testing.T) {
	engine := newTestEngine()
	_, err := engine.ScanDirectory("/does/not/exist")
	assert.Error(t, err)
}

func TestScanDirectoryWithExtractors(t *testing.T) {
	engine := newTestEngine().WithExtractors(extraction.DefaultRegistry())
	dir := t.TempDir()
	writeTestFile(t, dir, "plain.txt", "BSN: 111222333")
	// A corrupt PDF: extraction is attempted and fails.
	writeTestFile(t, dir, "broken.pdf", "This is not a valid PDF file")

	results, err := engine.ScanDirectory(dir)
	require.NoError(t, err)

	assert.Equal(t, 2, results.TotalFiles)
	assert.Equal(t, 1, results.ExtractedFiles)
	assert.Equal(t, 1, results.ExtractionFailures)

	for _, f := range results.Files {
		if strings.HasSuffix(f.Path, ".pdf") {
			assert.True(t, strings.HasPrefix(f.Error, "Extraction failed: "), f.Error)
			assert.Empty(t, f.Matches)
		}
	}
}

func TestScanDirectoryExtractorsDisabled(t *testing.T) {
	engine := newTestEngine()
	dir := t.TempDir()
	writeTestFile(t, dir, "plain.txt", "BSN: 111222333")
	writeTestFile(t, dir, "doc.pdf", "%PDF-1.4 not really")

	results, err := engine.ScanDirectory(dir)
	require.NoError(t, err)

	assert.Equal(t, 0, results.ExtractedFiles)
	assert.Equal(t, 0, results.ExtractionFailures)
}

func TestScanDirectoryDocxExtraction(t *testing.T) {
	engine := newTestEngine().WithExtractors(extraction.DefaultRegistry())
	dir := t.TempDir()

	// Build a minimal DOCX with PII in the body.
	docxPath := filepath.Join(dir, "record.docx")
	buildDocx(t, docxPath, "Patient BSN: 111222333")

	results, err := engine.ScanDirectory(dir)
	require.NoError(t, err)

	assert.Equal(t, 1, results.ExtractedFiles)
	assert.Equal(t, 0, results.ExtractionFailures)
	assert.GreaterOrEqual(t, results.TotalMatches, 1)
}

// buildDocx writes a minimal DOCX container holding one paragraph.
func buildDocx(t *testing.T, path, paragraph string) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := zip.NewWriter(f)
	doc, err := w.Create("word/document.xml")
	require.NoError(t, err)
	_, err = doc.Write([]byte(`<?xml version="1.0"?><w:document><w:body><w:p><w:r><w:t>` +
		paragraph + `</w:t></w:r></w:p></w:body></w:document>`))
	require.NoError(t, err)
	require.NoError(t, w.Close())
}

func TestScanText(t *testing.T) {
	engine := newTestEngine()

	result := engine.ScanText("api://endpoint", "card 4532015112830366")
	require.Len(t, result.Matches, 1)
	assert.Equal(t, "api://endpoint", result.Path)
	assert.Equal(t, uint64(21), result.SizeBytes)
}

func TestScanFileExampleKeySuppressed(t *testing.T) {
	engine := newTestEngine()
	dir := t.TempDir()
	path := writeTestFile(t, dir, "config.md", "# Example API key: your_api_key_here_1234567890")

	result := engine.ScanFile(path)
	assert.Empty(t, result.Matches)
}

func TestScanFilePasswordSecretDetected(t *testing.T) {
	engine := newTestEngine()
	dir := t.TempDir()
	path := writeTestFile(t, dir, "settings.py",
		`password = "dGhpc2lzYXZlcnlsb25nYmFzZTY0ZW5jb2RlZHNlY3JldGtleQ=="`)

	result := engine.ScanFile(path)
	require.NotEmpty(t, result.Matches)
	assert.Equal(t, "api_key", result.Matches[0].DetectorID)
	assert.Equal(t, detection.ConfidenceHigh, result.Matches[0].Confidence)
}
