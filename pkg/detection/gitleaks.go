package detection

import (
	"fmt"
	"strings"

	"github.com/zricethezav/gitleaks/v8/detect"
	"github.com/zricethezav/gitleaks/v8/report"

	"github.com/silv3rshi3ld/gdpr-pii-scanner/pkg/masking"
)

// gitleaksDetector wraps the gitleaks ruleset as an optional secrets
// detector. It complements the built-in api_key detector with the full
// community rule catalog and is only registered when enabled in the
// scan configuration.
type gitleaksDetector struct {
	detector *detect.Detector
}

// NewGitleaksDetector creates a detector backed by the default
// gitleaks configuration.
func NewGitleaksDetector() (Detector, error) {
	d, err := detect.NewDetectorDefaultConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gitleaks: %w", err)
	}

	return &gitleaksDetector{detector: d}, nil
}

func (g *gitleaksDetector) ID() string             { return "gitleaks" }
func (g *gitleaksDetector) Name() string           { return "Gitleaks Secret" }
func (g *gitleaksDetector) Country() string        { return CountryUniversal }
func (g *gitleaksDetector) BaseSeverity() Severity { return SeverityCritical }

func (g *gitleaksDetector) Description() string {
	return "Detects hardcoded secrets using the gitleaks rule catalog " +
		"(cloud provider keys, tokens, connection strings, private keys)."
}

// Validate always returns true; gitleaks rules have no standalone
// value validation.
func (g *gitleaksDetector) Validate(string) bool { return true }

func (g *gitleaksDetector) Detect(text, filePath string) []Match {
	fragment := detect.Fragment{
		Raw:      text,
		FilePath: filePath,
	}

	findings := g.detector.Detect(fragment)

	matches := make([]Match, 0, len(findings))
	for _, f := range findings {
		matches = append(matches, g.convertFinding(f, text, filePath))
	}
	return matches
}

// convertFinding maps a gitleaks finding onto the Match model. The
// secret itself is masked before it is stored.
func (g *gitleaksDetector) convertFinding(f report.Finding, text, filePath string) Match {
	secret := f.Secret
	if secret == "" {
		secret = f.Match
	}

	line := f.StartLine + 1
	column := f.StartColumn
	if column > 0 {
		// Gitleaks columns are 1-based; ours are 0-based.
		column--
	}

	start, end := byteRangeOf(text, line, column, len(secret))

	return Match{
		DetectorID:   g.ID(),
		DetectorName: fmt.Sprintf("%s (%s)", g.Name(), f.RuleID),
		Country:      CountryUniversal,
		ValueMasked:  masking.MaskValue(secret),
		Location: Location{
			FilePath:  filePath,
			Line:      line,
			Column:    column,
			StartByte: start,
			EndByte:   end,
		},
		Confidence:   ConfidenceHigh,
		Severity:     g.BaseSeverity(),
		GdprCategory: RegularCategory(),
	}
}

// byteRangeOf recomputes byte offsets from a 1-based line and 0-based
// column, clamped to the text bounds.
func byteRangeOf(text string, line, column, length int) (int, int) {
	offset := 0
	for i, l := range strings.Split(text, "\n") {
		if i+1 == line {
			start := offset + column
			if start > len(text) {
				start = len(text)
			}
			end := start + length
			if end > len(text) {
				end = len(text)
			}
			return start, end
		}
		offset += len(l) + 1
	}
	return 0, 0
}
