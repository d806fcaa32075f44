// Package report renders ScanResults in the supported output formats:
// terminal, JSON (pretty and compact), CSV, HTML and SARIF.
package report

import (
	"fmt"
	"io"

	"github.com/silv3rshi3ld/gdpr-pii-scanner/pkg/detection"
)

// Reporter renders scan results to a writer.
type Reporter interface {
	Write(w io.Writer, results *detection.ScanResults) error
}

// ForFormat returns the reporter for a format name.
func ForFormat(format string, opts Options) (Reporter, error) {
	switch format {
	case "", "terminal":
		return NewTerminalReporter(opts), nil
	case "json":
		return NewJSONReporter(true), nil
	case "json-compact":
		return NewJSONReporter(false), nil
	case "csv":
		return NewCSVReporter(), nil
	case "html":
		return NewHTMLReporter(), nil
	case "sarif":
		return NewSARIFReporter(), nil
	}
	return nil, fmt.Errorf("unknown output format: %q", format)
}

// Options carries presentation settings shared by reporters.
type Options struct {
	// FullPaths shows paths as-is instead of shortening them.
	FullPaths bool
}
