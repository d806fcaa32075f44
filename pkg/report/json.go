package report

import (
	"encoding/json"
	"io"

	"github.com/silv3rshi3ld/gdpr-pii-scanner/pkg/detection"
)

// JSONReporter emits the ScanResults wire format, pretty-printed or
// compact.
type JSONReporter struct {
	pretty bool
}

// NewJSONReporter returns a JSON reporter.
func NewJSONReporter(pretty bool) *JSONReporter {
	return &JSONReporter{pretty: pretty}
}

func (r *JSONReporter) Write(w io.Writer, results *detection.ScanResults) error {
	encoder := json.NewEncoder(w)
	if r.pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(results)
}
