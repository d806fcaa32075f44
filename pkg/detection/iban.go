package detection

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/silv3rshi3ld/gdpr-pii-scanner/pkg/masking"
	"github.com/silv3rshi3ld/gdpr-pii-scanner/pkg/validation"
)

// ibanPattern matches 2 letters (country) + 2 check digits + up to 30
// alphanumerics, e.g. NL91ABNA0417164300.
var ibanPattern = regexp.MustCompile(`\b[A-Z]{2}\d{2}[A-Z0-9]{1,30}\b`)

// ibanDetector finds IBANs for all SEPA countries. Although registered
// as universal, each match reports the country taken from the IBAN's
// first two characters.
type ibanDetector struct{}

// NewIBANDetector returns the IBAN detector.
func NewIBANDetector() Detector {
	return &ibanDetector{}
}

func (d *ibanDetector) ID() string             { return "iban" }
func (d *ibanDetector) Name() string           { return "IBAN (International Bank Account Number)" }
func (d *ibanDetector) Country() string        { return CountryUniversal }
func (d *ibanDetector) BaseSeverity() Severity { return SeverityHigh }

func (d *ibanDetector) Description() string {
	return "Detects IBAN (International Bank Account Numbers) for all EU/SEPA countries. " +
		"Uses modulo-97 validation to minimize false positives. The reported country is " +
		"derived from the IBAN country code."
}

func (d *ibanDetector) Validate(value string) bool {
	return validation.ValidateIBAN(value)
}

func (d *ibanDetector) Detect(text, filePath string) []Match {
	var matches []Match

	scanLines(text, ibanPattern, func(pos linePos, value string) {
		if !validation.ValidateIBAN(value) {
			return
		}

		countryCode := value[:2]

		matches = append(matches, Match{
			DetectorID:   d.ID(),
			DetectorName: fmt.Sprintf("%s (%s)", d.Name(), countryCode),
			Country:      strings.ToLower(countryCode),
			ValueMasked:  masking.MaskIBAN(value),
			Location: Location{
				FilePath:  filePath,
				Line:      pos.line,
				Column:    pos.column,
				StartByte: pos.startByte,
				EndByte:   pos.endByte,
			},
			Confidence:   ConfidenceHigh,
			Severity:     d.BaseSeverity(),
			GdprCategory: RegularCategory(),
		})
	})

	return matches
}
