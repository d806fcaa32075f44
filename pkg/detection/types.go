// Package detection defines the detector contract, the registry of
// built-in detectors, and the result model produced by a scan.
package detection

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Confidence expresses how certain a detector is about a match.
// The order Low < Medium < High is meaningful and used for filtering.
type Confidence int

const (
	// ConfidenceLow marks a pattern match without validation.
	ConfidenceLow Confidence = iota
	// ConfidenceMedium marks a pattern match with partial validation.
	ConfidenceMedium
	// ConfidenceHigh marks a pattern match with full validation, such
	// as a passed checksum.
	ConfidenceHigh
)

func (c Confidence) String() string {
	switch c {
	case ConfidenceLow:
		return "low"
	case ConfidenceMedium:
		return "medium"
	case ConfidenceHigh:
		return "high"
	}
	return "unknown"
}

// ParseConfidence converts a config/CLI string to a Confidence.
func ParseConfidence(s string) (Confidence, error) {
	switch strings.ToLower(s) {
	case "low":
		return ConfidenceLow, nil
	case "medium":
		return ConfidenceMedium, nil
	case "high":
		return ConfidenceHigh, nil
	}
	return ConfidenceLow, fmt.Errorf("invalid confidence level: %q (expected low, medium or high)", s)
}

func (c Confidence) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Confidence) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseConfidence(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Severity expresses the impact of a finding. Context analysis may
// upgrade a match to SeverityCritical.
type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	}
	return "unknown"
}

// ParseSeverity converts a config string to a Severity.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(s) {
	case "low":
		return SeverityLow, nil
	case "medium":
		return SeverityMedium, nil
	case "high":
		return SeverityHigh, nil
	case "critical":
		return SeverityCritical, nil
	}
	return SeverityLow, fmt.Errorf("invalid severity level: %q (expected low, medium, high or critical)", s)
}

func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Severity) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := ParseSeverity(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// SpecialCategory identifies the GDPR special-category type that
// context analysis attached to a match (Art. 9, or Art. 10 for
// criminal data).
type SpecialCategory string

const (
	CategoryMedical      SpecialCategory = "medical"
	CategoryBiometric    SpecialCategory = "biometric"
	CategoryGenetic      SpecialCategory = "genetic"
	CategoryCriminal     SpecialCategory = "criminal"
	CategoryRacialEthnic SpecialCategory = "racialethnic"
	CategoryPolitical    SpecialCategory = "political"
	CategoryReligious    SpecialCategory = "religious"
	CategoryTradeUnion   SpecialCategory = "tradeunion"
	CategorySexual       SpecialCategory = "sexual"
)

// DisplayName returns the human-readable label used in reports.
func (c SpecialCategory) DisplayName() string {
	switch c {
	case CategoryMedical:
		return "Medical/Health Data"
	case CategoryBiometric:
		return "Biometric Data"
	case CategoryGenetic:
		return "Genetic Data"
	case CategoryCriminal:
		return "Criminal Records"
	case CategoryRacialEthnic:
		return "Racial/Ethnic Data"
	case CategoryPolitical:
		return "Political Opinions"
	case CategoryReligious:
		return "Religious Beliefs"
	case CategoryTradeUnion:
		return "Trade Union Membership"
	case CategorySexual:
		return "Sexual Orientation"
	}
	return string(c)
}

// GdprCategory classifies a match as regular personal data or special
// category data. Use RegularCategory or SpecialGdpr to construct one.
type GdprCategory struct {
	Type             string          `json:"type"` // "regular" or "special"
	Category         SpecialCategory `json:"category,omitempty"`
	DetectedKeywords []string        `json:"detected_keywords,omitempty"`
}

// RegularCategory returns the GDPR classification for ordinary
// personal data (Art. 6).
func RegularCategory() GdprCategory {
	return GdprCategory{Type: "regular"}
}

// SpecialGdpr returns the classification for special-category data
// along with the keywords that triggered it.
func SpecialGdpr(category SpecialCategory, keywords []string) GdprCategory {
	return GdprCategory{Type: "special", Category: category, DetectedKeywords: keywords}
}

// IsSpecial reports whether the match carries Art. 9/10 data.
func (g GdprCategory) IsSpecial() bool {
	return g.Type == "special"
}

// Location pins a match inside the scanned text. Lines are 1-indexed,
// columns and byte offsets 0-indexed; offsets are measured from the
// start of the text handed to the detector (the extracted text for
// document formats).
type Location struct {
	FilePath  string `json:"file_path"`
	Line      int    `json:"line"`
	Column    int    `json:"column"`
	StartByte int    `json:"start_byte"`
	EndByte   int    `json:"end_byte"`
}

// ContextInfo carries the text window and keywords the context
// analyzer found around a match.
type ContextInfo struct {
	Before   string          `json:"before"`
	After    string          `json:"after"`
	Keywords []string        `json:"keywords"`
	Category SpecialCategory `json:"category,omitempty"`
}

// Match is a single suspected PII occurrence. The raw value is never
// stored; ValueMasked holds the surrogate produced by pkg/masking.
type Match struct {
	DetectorID   string       `json:"detector_id"`
	DetectorName string       `json:"detector_name"`
	Country      string       `json:"country"`
	ValueMasked  string       `json:"value_masked"`
	Location     Location     `json:"location"`
	Confidence   Confidence   `json:"confidence"`
	Severity     Severity     `json:"severity"`
	Context      *ContextInfo `json:"context,omitempty"`
	GdprCategory GdprCategory `json:"gdpr_category"`
}
