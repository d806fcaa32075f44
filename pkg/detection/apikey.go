package detection

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/silv3rshi3ld/gdpr-pii-scanner/pkg/entropy"
	"github.com/silv3rshi3ld/gdpr-pii-scanner/pkg/masking"
)

// providerPattern couples a known secret format with its provider
// label. Hits from these patterns are always reported.
type providerPattern struct {
	provider string
	pattern  *regexp.Regexp
}

var providerPatterns = []providerPattern{
	{"AWS", regexp.MustCompile(`\b(?:A3T[A-Z0-9]|AKIA|ASIA|ABIA|ACCA)[A-Z0-9]{16}\b`)},
	{"GitHub", regexp.MustCompile(`\bgh[pousr]_[A-Za-z0-9]{36,255}\b`)},
	{"Stripe", regexp.MustCompile(`\b[sp]k_(?:test|live)_[A-Za-z0-9]{24,99}\b`)},
	{"OpenAI", regexp.MustCompile(`\bsk-[A-Za-z0-9]{20}T3BlbkFJ[A-Za-z0-9]{20}\b`)},
	{"Google", regexp.MustCompile(`\bAIza[0-9A-Za-z_-]{35}\b`)},
	{"Slack", regexp.MustCompile(`\bxox[baprs]-[0-9A-Za-z-]{10,250}\b`)},
	{"JWT", regexp.MustCompile(`\beyJ[A-Za-z0-9_-]{10,}\.[A-Za-z0-9._-]{10,}`)},
	{"PEM", regexp.MustCompile(`-----BEGIN [A-Z ]*PRIVATE KEY-----`)},
}

// Candidate patterns for the entropy pass: long base64 or hex runs.
var (
	base64CandidatePattern = regexp.MustCompile(`[A-Za-z0-9+/]{32,512}={0,2}`)
	hexCandidatePattern    = regexp.MustCompile(`\b[a-fA-F0-9]{32,512}\b`)
)

// Keywords examined in the 100 characters preceding an entropy hit.
// Secret indicators raise confidence to High; false-positive
// indicators force Low, which suppresses the match.
var (
	secretKeywords = []string{
		"password", "secret", "token", "key", "api", "auth", "credential",
		"access", "private", "bearer", "authorization", "passwd", "pwd",
	}
	falsePositiveKeywords = []string{
		"example", "sample", "test", "dummy", "placeholder", "demo", "fake",
		"xxxx", "todo", "changeme", "your_key_here", "insert_key",
	}
)

// apiKeyDetector finds provider API keys, tokens, and generic
// high-entropy secrets. The entropy pass is strictly gated by nearby
// secret-indicator keywords.
type apiKeyDetector struct{}

// NewAPIKeyDetector returns the API key / secret detector.
func NewAPIKeyDetector() Detector {
	return &apiKeyDetector{}
}

func (d *apiKeyDetector) ID() string             { return "api_key" }
func (d *apiKeyDetector) Name() string           { return "API Key / Secret" }
func (d *apiKeyDetector) Country() string        { return CountryUniversal }
func (d *apiKeyDetector) BaseSeverity() Severity { return SeverityCritical }

func (d *apiKeyDetector) Description() string {
	return "Detects API keys and secrets: known provider formats (AWS, GitHub, Stripe, " +
		"OpenAI, Google, Slack, JWT, PEM private keys) plus high-entropy base64/hex " +
		"strings whose surrounding context indicates a credential."
}

// Validate reports whether the value looks like a secret at all; used
// for standalone checks, not by Detect.
func (d *apiKeyDetector) Validate(value string) bool {
	for _, p := range providerPatterns {
		if p.pattern.MatchString(value) {
			return true
		}
	}
	return entropy.IsLikelyBase64Secret(value) || entropy.IsLikelyHexSecret(value)
}

func (d *apiKeyDetector) Detect(text, filePath string) []Match {
	var matches []Match
	seen := make(map[int]bool)

	// Pass 1: known provider formats.
	for _, p := range providerPatterns {
		scanLines(text, p.pattern, func(pos linePos, value string) {
			if seen[pos.startByte] {
				return
			}
			seen[pos.startByte] = true
			matches = append(matches, d.newMatch(p.provider, value, filePath, pos, ConfidenceHigh))
		})
	}

	// Pass 2: generic high-entropy strings, gated by context keywords.
	entropyPass := []struct {
		label   string
		pattern *regexp.Regexp
		likely  func(string) bool
	}{
		{"High Entropy", base64CandidatePattern, entropy.IsLikelyBase64Secret},
		{"High Entropy", hexCandidatePattern, entropy.IsLikelyHexSecret},
	}

	for _, pass := range entropyPass {
		scanLines(text, pass.pattern, func(pos linePos, value string) {
			if seen[pos.startByte] || !pass.likely(value) {
				return
			}

			confidence := contextConfidence(text, pos.startByte)
			if confidence == ConfidenceLow {
				return
			}

			seen[pos.startByte] = true
			matches = append(matches, d.newMatch(pass.label, value, filePath, pos, confidence))
		})
	}

	return matches
}

func (d *apiKeyDetector) newMatch(provider, value, filePath string, pos linePos, confidence Confidence) Match {
	return Match{
		DetectorID:   d.ID(),
		DetectorName: fmt.Sprintf("%s (%s)", d.Name(), provider),
		Country:      CountryUniversal,
		ValueMasked:  masking.MaskValue(value),
		Location: Location{
			FilePath:  filePath,
			Line:      pos.line,
			Column:    pos.column,
			StartByte: pos.startByte,
			EndByte:   pos.endByte,
		},
		Confidence:   confidence,
		Severity:     d.BaseSeverity(),
		GdprCategory: RegularCategory(),
	}
}

// contextConfidence inspects the 100 characters before the candidate,
// case-insensitively. False-positive keywords win over secret
// keywords, and a candidate with no secret indicator nearby stays at
// Low, which suppresses it.
func contextConfidence(text string, startByte int) Confidence {
	windowStart := startByte - 100
	if windowStart < 0 {
		windowStart = 0
	}
	window := strings.ToLower(text[windowStart:startByte])

	for _, kw := range falsePositiveKeywords {
		if strings.Contains(window, kw) {
			return ConfidenceLow
		}
	}
	for _, kw := range secretKeywords {
		if strings.Contains(window, kw) {
			return ConfidenceHigh
		}
	}
	return ConfidenceLow
}
