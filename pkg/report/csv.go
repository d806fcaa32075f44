package report

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/silv3rshi3ld/gdpr-pii-scanner/pkg/detection"
)

// CSVReporter writes one row per match.
type CSVReporter struct{}

// NewCSVReporter returns the CSV reporter.
func NewCSVReporter() *CSVReporter {
	return &CSVReporter{}
}

var csvHeader = []string{
	"file", "line", "column", "detector_id", "detector_name", "country",
	"severity", "confidence", "value_masked", "gdpr_category", "special_category", "keywords",
}

func (r *CSVReporter) Write(w io.Writer, results *detection.ScanResults) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(csvHeader); err != nil {
		return err
	}

	for _, file := range results.Files {
		for _, m := range file.Matches {
			specialCategory := ""
			keywords := ""
			if m.GdprCategory.IsSpecial() {
				specialCategory = m.GdprCategory.Category.DisplayName()
				keywords = strings.Join(m.GdprCategory.DetectedKeywords, ";")
			}

			record := []string{
				file.Path,
				strconv.Itoa(m.Location.Line),
				strconv.Itoa(m.Location.Column),
				m.DetectorID,
				m.DetectorName,
				m.Country,
				m.Severity.String(),
				m.Confidence.String(),
				m.ValueMasked,
				m.GdprCategory.Type,
				specialCategory,
				keywords,
			}
			if err := writer.Write(record); err != nil {
				return err
			}
		}
	}

	writer.Flush()
	return writer.Error()
}
