package detection

import (
	"regexp"
	"strings"
)

// patternDetector is the shared implementation behind the country
// detectors: one compiled regex, an extractor that normalizes the raw
// match (usually down to its digits), a validator, and a masker.
// Candidates failing validation are suppressed rather than reported at
// low confidence (strict mode).
type patternDetector struct {
	id           string
	name         string
	country      string
	severity     Severity
	description  string
	pattern      *regexp.Regexp
	extract      func(string) string
	validateFunc func(string) bool
	mask         func(string) string

	// confidence assigned to emitted matches; zero means ConfidenceHigh
	// (detectors that emit without validation set ConfidenceMedium).
	confidence Confidence
}

func (d *patternDetector) emitConfidence() Confidence {
	if d.confidence == ConfidenceLow {
		return ConfidenceHigh
	}
	return d.confidence
}

func (d *patternDetector) ID() string             { return d.id }
func (d *patternDetector) Name() string           { return d.name }
func (d *patternDetector) Country() string        { return d.country }
func (d *patternDetector) BaseSeverity() Severity { return d.severity }
func (d *patternDetector) Description() string    { return d.description }

func (d *patternDetector) Validate(value string) bool {
	if d.validateFunc == nil {
		return true
	}
	return d.validateFunc(value)
}

func (d *patternDetector) Detect(text, filePath string) []Match {
	var matches []Match

	scanLines(text, d.pattern, func(pos linePos, value string) {
		candidate := value
		if d.extract != nil {
			candidate = d.extract(value)
		}

		if d.validateFunc != nil && !d.validateFunc(candidate) {
			return
		}

		matches = append(matches, Match{
			DetectorID:   d.id,
			DetectorName: d.name,
			Country:      d.country,
			ValueMasked:  d.mask(candidate),
			Location: Location{
				FilePath:  filePath,
				Line:      pos.line,
				Column:    pos.column,
				StartByte: pos.startByte,
				EndByte:   pos.endByte,
			},
			Confidence:   d.emitConfidence(),
			Severity:     d.severity,
			GdprCategory: RegularCategory(),
		})
	})

	return matches
}

// linePos locates one regex hit: 1-indexed line, 0-indexed column,
// byte offsets from the start of the scanned text.
type linePos struct {
	line      int
	column    int
	startByte int
	endByte   int
}

// scanLines walks text line by line, applying re to each line and
// invoking fn for every hit. Byte offsets accumulate len(line)+1 per
// line to account for the newline separator.
func scanLines(text string, re *regexp.Regexp, fn func(pos linePos, value string)) {
	byteOffset := 0

	for lineNum, line := range strings.Split(text, "\n") {
		for _, loc := range re.FindAllStringIndex(line, -1) {
			fn(linePos{
				line:      lineNum + 1,
				column:    loc[0],
				startByte: byteOffset + loc[0],
				endByte:   byteOffset + loc[1],
			}, line[loc[0]:loc[1]])
		}
		byteOffset += len(line) + 1
	}
}

// extractDigits keeps only ASCII digits from a raw regex match.
func extractDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
