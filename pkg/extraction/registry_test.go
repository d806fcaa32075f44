package extraction

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockExtractor is a test double.
type mockExtractor struct {
	name       string
	extensions []string
	text       string
	err        error
}

func (m *mockExtractor) Extract(string) (string, error) { return m.text, m.err }
func (m *mockExtractor) SupportedExtensions() []string  { return m.extensions }
func (m *mockExtractor) Name() string                   { return m.name }

func TestRegistryRegisterAndLookup(t *testing.T) {
	r := NewRegistry()
	r.Register(&mockExtractor{name: "PDF", extensions: []string{"pdf"}})

	assert.True(t, r.Supports("pdf"))
	assert.True(t, r.Supports("PDF"), "lookup is case-insensitive")
	assert.False(t, r.Supports("docx"))

	require.NotNil(t, r.ByExtension("pdf"))
	assert.Equal(t, "PDF", r.ByExtension("pdf").Name())
	assert.Nil(t, r.ByExtension("docx"))
}

func TestRegistryMultipleExtensions(t *testing.T) {
	r := NewRegistry()
	r.Register(&mockExtractor{name: "Office", extensions: []string{"docx", "xlsx"}})

	assert.Equal(t, 1, r.Count())
	assert.Len(t, r.Extensions(), 2)
	assert.Equal(t, "Office", r.ByExtension("xlsx").Name())
}

func TestRegistryOverwrite(t *testing.T) {
	r := NewRegistry()
	r.Register(&mockExtractor{name: "First", extensions: []string{"txt"}})
	r.Register(&mockExtractor{name: "Second", extensions: []string{"txt"}})

	assert.Equal(t, "Second", r.ByExtension("txt").Name())
}

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()

	for _, ext := range []string{"pdf", "docx", "xlsx", "xlsm", "xlsb", "xls"} {
		assert.True(t, r.Supports(ext), ext)
	}
	assert.Equal(t, 3, r.Count())
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "unsupported file format", (&Error{Kind: KindUnsupportedFormat}).Error())
	assert.Contains(t, (&Error{Kind: KindCorruptedFile, Reason: "bad zip"}).Error(), "corrupted")
	assert.Contains(t, (&Error{Kind: KindIO, Reason: "denied"}).Error(), "io error")
	assert.Contains(t, (&Error{Kind: KindExtractionFailed, Reason: "page 3"}).Error(), "extraction failed")
}

func TestPDFExtractorCorruptFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.pdf")
	require.NoError(t, os.WriteFile(path, []byte("This is not a valid PDF file"), 0o644))

	_, err := NewPDFExtractor().Extract(path)
	require.Error(t, err)

	var extErr *Error
	require.ErrorAs(t, err, &extErr)
	assert.Equal(t, KindCorruptedFile, extErr.Kind)
}

// writeDocx builds a minimal DOCX container with the given body
// paragraphs and one header.
func writeDocx(t *testing.T, path string, paragraphs []string, header string) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := zip.NewWriter(f)

	var body string
	for _, p := range paragraphs {
		body += `<w:p><w:r><w:t>` + p + `</w:t></w:r></w:p>`
	}
	doc, err := w.Create("word/document.xml")
	require.NoError(t, err)
	_, err = doc.Write([]byte(`<?xml version="1.0"?><w:document><w:body>` + body + `</w:body></w:document>`))
	require.NoError(t, err)

	if header != "" {
		h, err := w.Create("word/header1.xml")
		require.NoError(t, err)
		_, err = h.Write([]byte(`<?xml version="1.0"?><w:hdr><w:p><w:r><w:t>` + header + `</w:t></w:r></w:p></w:hdr>`))
		require.NoError(t, err)
	}

	require.NoError(t, w.Close())
}

func TestDocxExtractor(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.docx")
	writeDocx(t, path, []string{"BSN: 111222333", "Second paragraph"}, "Confidential header")

	text, err := NewDocxExtractor().Extract(path)
	require.NoError(t, err)

	assert.Contains(t, text, "BSN: 111222333")
	assert.Contains(t, text, "Second paragraph")
	assert.Contains(t, text, "Confidential header")
	// Paragraph boundaries become newlines.
	assert.Contains(t, text, "BSN: 111222333\n")
}

func TestDocxExtractorCorruptFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.docx")
	require.NoError(t, os.WriteFile(path, []byte("not a zip"), 0o644))

	_, err := NewDocxExtractor().Extract(path)
	require.Error(t, err)

	var extErr *Error
	require.ErrorAs(t, err, &extErr)
	assert.Equal(t, KindCorruptedFile, extErr.Kind)
}

func TestXlsxExtractorCorruptFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("not a workbook"), 0o644))

	_, err := NewXlsxExtractor().Extract(path)
	assert.Error(t, err)
}
