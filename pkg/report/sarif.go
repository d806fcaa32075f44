package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/silv3rshi3ld/gdpr-pii-scanner/pkg/detection"
)

// SARIF constants for the 2.1.0 schema.
const (
	sarifVersion = "2.1.0"
	sarifSchema  = "https://json.schemastore.org/sarif-2.1.0.json"
	toolName     = "gdpr-pii-scanner"
)

// SARIFReporter emits findings as a SARIF 2.1.0 log, consumable by
// code-scanning platforms.
type SARIFReporter struct{}

// NewSARIFReporter returns the SARIF reporter.
func NewSARIFReporter() *SARIFReporter {
	return &SARIFReporter{}
}

type sarifLog struct {
	Version string     `json:"version"`
	Schema  string     `json:"$schema"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name  string      `json:"name"`
	Rules []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	ShortDescription sarifText        `json:"shortDescription"`
	Properties       map[string]any   `json:"properties,omitempty"`
}

type sarifText struct {
	Text string `json:"text"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   sarifText       `json:"message"`
	Locations []sarifLocation `json:"locations"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           sarifRegion           `json:"region"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   int `json:"startLine"`
	StartColumn int `json:"startColumn"`
}

func sarifLevel(s detection.Severity) string {
	switch s {
	case detection.SeverityCritical, detection.SeverityHigh:
		return "error"
	case detection.SeverityMedium:
		return "warning"
	default:
		return "note"
	}
}

func (r *SARIFReporter) Write(w io.Writer, results *detection.ScanResults) error {
	ruleIndex := make(map[string]bool)
	var rules []sarifRule
	var sarifResults []sarifResult

	for _, file := range results.Files {
		for _, m := range file.Matches {
			if !ruleIndex[m.DetectorID] {
				ruleIndex[m.DetectorID] = true
				rules = append(rules, sarifRule{
					ID:               m.DetectorID,
					Name:             m.DetectorName,
					ShortDescription: sarifText{Text: m.DetectorName},
					Properties:       map[string]any{"country": m.Country},
				})
			}

			message := fmt.Sprintf("%s detected: %s", m.DetectorName, m.ValueMasked)
			if m.GdprCategory.IsSpecial() {
				message += fmt.Sprintf(" [GDPR special category: %s]", m.GdprCategory.Category.DisplayName())
			}

			sarifResults = append(sarifResults, sarifResult{
				RuleID:  m.DetectorID,
				Level:   sarifLevel(m.Severity),
				Message: sarifText{Text: message},
				Locations: []sarifLocation{{
					PhysicalLocation: sarifPhysicalLocation{
						ArtifactLocation: sarifArtifactLocation{URI: file.Path},
						Region: sarifRegion{
							StartLine:   m.Location.Line,
							StartColumn: m.Location.Column + 1,
						},
					},
				}},
			})
		}
	}

	if sarifResults == nil {
		sarifResults = []sarifResult{}
	}

	log := sarifLog{
		Version: sarifVersion,
		Schema:  sarifSchema,
		Runs: []sarifRun{{
			Tool:    sarifTool{Driver: sarifDriver{Name: toolName, Rules: rules}},
			Results: sarifResults,
		}},
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(log)
}
