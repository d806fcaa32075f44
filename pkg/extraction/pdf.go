package extraction

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog/log"
)

// PDFExtractor extracts text page by page. A page that fails to decode
// is logged and skipped so one bad page does not lose the rest of the
// document.
type PDFExtractor struct{}

// NewPDFExtractor returns the PDF extractor.
func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

func (e *PDFExtractor) Name() string { return "PDF Extractor" }

func (e *PDFExtractor) SupportedExtensions() []string { return []string{"pdf"} }

func (e *PDFExtractor) Extract(path string) (string, error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return "", corruptedErr(fmt.Sprintf("failed to load PDF: %v", err), err)
	}
	defer file.Close()

	var text strings.Builder

	total := reader.NumPage()
	for pageNum := 1; pageNum <= total; pageNum++ {
		pageText, err := extractPage(reader, pageNum)
		if err != nil {
			log.Warn().Str("file", path).Int("page", pageNum).Err(err).Msg("skipping PDF page")
			continue
		}
		text.WriteString(pageText)
		text.WriteByte('\n')
	}

	return text.String(), nil
}

// extractPage isolates per-page decoding, converting panics from the
// underlying parser into errors.
func extractPage(reader *pdf.Reader, pageNum int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = failedErr(fmt.Sprintf("PDF page %d: %v", pageNum, r), nil)
		}
	}()

	page := reader.Page(pageNum)
	if page.V.IsNull() {
		return "", nil
	}

	text, err = page.GetPlainText(nil)
	if err != nil {
		return "", failedErr(fmt.Sprintf("PDF page %d: %v", pageNum, err), err)
	}
	return text, nil
}
