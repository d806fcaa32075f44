package detection

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/silv3rshi3ld/gdpr-pii-scanner/pkg/masking"
	"github.com/silv3rshi3ld/gdpr-pii-scanner/pkg/validation"
)

// Card-family patterns plus a 13-19 digit catch-all. The same number is
// often hit by both a family pattern and the generic one; duplicates
// are removed by start offset after sorting.
var (
	visaPattern        = regexp.MustCompile(`\b4\d{3}[\s-]?\d{4}[\s-]?\d{4}[\s-]?\d{4}\b`)
	mastercardPattern  = regexp.MustCompile(`\b5[1-5]\d{2}[\s-]?\d{4}[\s-]?\d{4}[\s-]?\d{4}\b`)
	amexPattern        = regexp.MustCompile(`\b3[47]\d{2}[\s-]?\d{6}[\s-]?\d{5}\b`)
	genericCardPattern = regexp.MustCompile(`\b\d{4}[\s-]?\d{4}[\s-]?\d{4}[\s-]?\d{1,7}\b`)
)

type creditCardDetector struct{}

// NewCreditCardDetector returns the payment-card detector.
func NewCreditCardDetector() Detector {
	return &creditCardDetector{}
}

func (d *creditCardDetector) ID() string             { return "creditcard" }
func (d *creditCardDetector) Name() string           { return "Credit Card" }
func (d *creditCardDetector) Country() string        { return CountryUniversal }
func (d *creditCardDetector) BaseSeverity() Severity { return SeverityHigh }

func (d *creditCardDetector) Description() string {
	return "Detects credit card numbers (Visa, Mastercard, American Express, etc.). " +
		"Uses Luhn algorithm validation to minimize false positives. " +
		"Supports 13-19 digit card numbers."
}

func (d *creditCardDetector) Validate(value string) bool {
	return validation.ValidateLuhn(value)
}

// cardFamily infers the card brand from the leading digits.
func cardFamily(digits string) string {
	switch {
	case strings.HasPrefix(digits, "4"):
		return "Visa"
	case len(digits) >= 2 && digits[0] == '5' && digits[1] >= '1' && digits[1] <= '5':
		return "Mastercard"
	case len(digits) >= 4 && digits[:4] >= "2221" && digits[:4] <= "2720":
		return "Mastercard"
	case strings.HasPrefix(digits, "34") || strings.HasPrefix(digits, "37"):
		return "American Express"
	default:
		return "Unknown"
	}
}

func (d *creditCardDetector) Detect(text, filePath string) []Match {
	var matches []Match

	patterns := []*regexp.Regexp{visaPattern, mastercardPattern, amexPattern, genericCardPattern}
	for _, pattern := range patterns {
		scanLines(text, pattern, func(pos linePos, value string) {
			digits := extractDigits(value)
			if !validation.ValidateLuhn(digits) {
				return
			}

			matches = append(matches, Match{
				DetectorID:   d.ID(),
				DetectorName: fmt.Sprintf("%s (%s)", d.Name(), cardFamily(digits)),
				Country:      CountryUniversal,
				ValueMasked:  masking.MaskCreditCard(digits),
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
	}

	// Deduplicate hits from overlapping patterns by start offset.
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Location.StartByte < matches[j].Location.StartByte
	})
	deduped := make([]Match, 0, len(matches))
	for _, m := range matches {
		if n := len(deduped); n > 0 && deduped[n-1].Location.StartByte == m.Location.StartByte {
			continue
		}
		deduped = append(deduped, m)
	}

	return deduped
}
