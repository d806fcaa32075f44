package detection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMatch(confidence Confidence, severity Severity, country string) Match {
	return Match{
		DetectorID:   "test",
		DetectorName: "Test Detector",
		Country:      country,
		ValueMasked:  "test****",
		Location: Location{
			FilePath:  "test.txt",
			Line:      1,
			Column:    0,
			StartByte: 0,
			EndByte:   10,
		},
		Confidence:   confidence,
		Severity:     severity,
		GdprCategory: RegularCategory(),
	}
}

func TestAggregate(t *testing.T) {
	f1 := NewFileResult("file1.txt")
	f1.SizeBytes = 100
	f1.ScanTimeMs = 5
	f1.Matches = append(f1.Matches,
		testMatch(ConfidenceHigh, SeverityCritical, "nl"),
		testMatch(ConfidenceMedium, SeverityHigh, "nl"),
	)

	f2 := NewFileResult("file2.txt")
	f2.SizeBytes = 50
	f2.ScanTimeMs = 2
	f2.Matches = append(f2.Matches, testMatch(ConfidenceLow, SeverityMedium, "gb"))

	results := Aggregate([]FileResult{f1, f2})

	assert.Equal(t, 2, results.TotalFiles)
	assert.Equal(t, uint64(150), results.TotalBytes)
	assert.Equal(t, 3, results.TotalMatches)
	assert.Equal(t, 1, results.BySeverity.Critical)
	assert.Equal(t, 1, results.BySeverity.High)
	assert.Equal(t, 1, results.BySeverity.Medium)
	assert.Equal(t, 0, results.BySeverity.Low)
	assert.Equal(t, 2, results.ByCountry["nl"])
	assert.Equal(t, 1, results.ByCountry["gb"])
	assert.NotEmpty(t, results.ScanID)
}

func TestAggregateHistogramInvariants(t *testing.T) {
	f1 := NewFileResult("a.txt")
	f1.Matches = append(f1.Matches,
		testMatch(ConfidenceHigh, SeverityCritical, "nl"),
		testMatch(ConfidenceHigh, SeverityCritical, "gb"),
		testMatch(ConfidenceMedium, SeverityLow, "es"),
	)

	results := Aggregate([]FileResult{f1})

	sumMatches := 0
	for _, f := range results.Files {
		sumMatches += len(f.Matches)
	}
	assert.Equal(t, results.TotalMatches, sumMatches)
	assert.Equal(t, results.TotalMatches, results.BySeverity.Total())

	countrySum := 0
	for _, n := range results.ByCountry {
		countrySum += n
	}
	assert.Equal(t, results.TotalMatches, countrySum)
}

func TestFilterByConfidence(t *testing.T) {
	f1 := NewFileResult("file1.txt")
	f1.SizeBytes = 1000
	f1.ScanTimeMs = 50
	f1.Matches = append(f1.Matches,
		testMatch(ConfidenceHigh, SeverityCritical, "nl"),
		testMatch(ConfidenceMedium, SeverityHigh, "nl"),
		testMatch(ConfidenceLow, SeverityMedium, "es"),
	)

	results := Aggregate([]FileResult{f1})
	results.TotalTimeMs = 123
	results.ExtractedFiles = 2
	results.ExtractionFailures = 1

	filtered := results.FilterByConfidence(ConfidenceHigh)
	assert.Equal(t, 1, filtered.TotalMatches)
	assert.Equal(t, 1, filtered.BySeverity.Critical)
	assert.Equal(t, 0, filtered.BySeverity.High)
	assert.NotContains(t, filtered.ByCountry, "es", "country histogram must drop filtered matches")

	// Totals unrelated to matches carry over unchanged.
	assert.Equal(t, 1, filtered.TotalFiles)
	assert.Equal(t, uint64(1000), filtered.TotalBytes)
	assert.Equal(t, uint64(123), filtered.TotalTimeMs)
	assert.Equal(t, 2, filtered.ExtractedFiles)
	assert.Equal(t, 1, filtered.ExtractionFailures)
	assert.Equal(t, results.ScanID, filtered.ScanID)
}

func TestFilterByConfidenceIdempotentAndMonotone(t *testing.T) {
	f1 := NewFileResult("file1.txt")
	f1.Matches = append(f1.Matches,
		testMatch(ConfidenceHigh, SeverityCritical, "nl"),
		testMatch(ConfidenceMedium, SeverityHigh, "nl"),
		testMatch(ConfidenceLow, SeverityMedium, "es"),
	)
	results := Aggregate([]FileResult{f1})

	once := results.FilterByConfidence(ConfidenceMedium)
	twice := once.FilterByConfidence(ConfidenceMedium)

	assert.Equal(t, once.TotalMatches, twice.TotalMatches)
	assert.Equal(t, once.BySeverity, twice.BySeverity)
	assert.LessOrEqual(t, once.TotalMatches, results.TotalMatches)

	// Low keeps everything.
	assert.Equal(t, results.TotalMatches, results.FilterByConfidence(ConfidenceLow).TotalMatches)
	// High keeps the least.
	assert.LessOrEqual(t, results.FilterByConfidence(ConfidenceHigh).TotalMatches, once.TotalMatches)
}

func TestSpecialCategoryImpliesCritical(t *testing.T) {
	m := testMatch(ConfidenceHigh, SeverityCritical, "nl")
	m.GdprCategory = SpecialGdpr(CategoryMedical, []string{"patient", "cancer"})

	require.True(t, m.GdprCategory.IsSpecial())
	assert.Equal(t, SeverityCritical, m.Severity)
	assert.Equal(t, "Medical/Health Data", m.GdprCategory.Category.DisplayName())
}

func TestConfidenceOrdering(t *testing.T) {
	assert.True(t, ConfidenceLow < ConfidenceMedium)
	assert.True(t, ConfidenceMedium < ConfidenceHigh)
	assert.True(t, SeverityLow < SeverityMedium)
	assert.True(t, SeverityHigh < SeverityCritical)
}

func TestConfidenceJSONRoundTrip(t *testing.T) {
	for _, c := range []Confidence{ConfidenceLow, ConfidenceMedium, ConfidenceHigh} {
		data, err := c.MarshalJSON()
		require.NoError(t, err)

		var back Confidence
		require.NoError(t, back.UnmarshalJSON(data))
		assert.Equal(t, c, back)
	}
}
