package extraction

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// XlsxExtractor iterates all sheets of an Excel workbook. Non-empty
// rows are joined with " | "; each sheet is introduced by a
// "=== Sheet: <name> ===" delimiter and separated by a blank line.
type XlsxExtractor struct{}

// NewXlsxExtractor returns the Excel extractor.
func NewXlsxExtractor() *XlsxExtractor {
	return &XlsxExtractor{}
}

func (e *XlsxExtractor) Name() string { return "Excel Extractor" }

func (e *XlsxExtractor) SupportedExtensions() []string {
	return []string{"xlsx", "xlsm", "xlsb", "xls"}
}

func (e *XlsxExtractor) Extract(path string) (string, error) {
	workbook, err := excelize.OpenFile(path)
	if err != nil {
		return "", corruptedErr(fmt.Sprintf("failed to open workbook: %v", err), err)
	}
	defer workbook.Close()

	var text strings.Builder

	for i, sheet := range workbook.GetSheetList() {
		if i > 0 {
			text.WriteByte('\n')
		}
		fmt.Fprintf(&text, "=== Sheet: %s ===\n", sheet)

		rows, err := workbook.GetRows(sheet)
		if err != nil {
			return "", failedErr(fmt.Sprintf("sheet %q: %v", sheet, err), err)
		}

		for _, row := range rows {
			if rowIsEmpty(row) {
				continue
			}
			text.WriteString(strings.Join(row, " | "))
			text.WriteByte('\n')
		}
	}

	return text.String(), nil
}

func rowIsEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
