package detection

import "github.com/google/uuid"

// FileResult holds every match found in one file (or pseudo-file for
// the HTTP and database adapters). When Error is set, Matches is empty
// and SizeBytes/ScanTimeMs reflect what was measured before the
// failure.
type FileResult struct {
	Path       string  `json:"path"`
	Matches    []Match `json:"matches"`
	SizeBytes  uint64  `json:"size_bytes"`
	ScanTimeMs uint64  `json:"scan_time_ms"`
	Error      string  `json:"error,omitempty"`
}

// NewFileResult returns an empty result for the given path.
func NewFileResult(path string) FileResult {
	return FileResult{Path: path, Matches: []Match{}}
}

// FileResultError returns a result that records a scan failure.
func FileResultError(path, errMsg string) FileResult {
	return FileResult{Path: path, Matches: []Match{}, Error: errMsg}
}

// SeverityCounts is the per-severity histogram of a scan.
type SeverityCounts struct {
	Low      int `json:"low"`
	Medium   int `json:"medium"`
	High     int `json:"high"`
	Critical int `json:"critical"`
}

// Total returns the sum over all severities.
func (s SeverityCounts) Total() int {
	return s.Low + s.Medium + s.High + s.Critical
}

// ScanResults aggregates all FileResults of one scan together with
// exact match histograms. Its JSON encoding is the public wire format.
type ScanResults struct {
	ScanID             string         `json:"scan_id"`
	Files              []FileResult   `json:"files"`
	TotalFiles         int            `json:"total_files"`
	TotalBytes         uint64         `json:"total_bytes"`
	TotalTimeMs        uint64         `json:"total_time_ms"`
	TotalMatches       int            `json:"total_matches"`
	BySeverity         SeverityCounts `json:"by_severity"`
	ByCountry          map[string]int `json:"by_country"`
	ExtractedFiles     int            `json:"extracted_files"`
	ExtractionFailures int            `json:"extraction_failures"`
}

// Aggregate builds a ScanResults from individual file results. The
// total time is the sum of per-file times; callers that know the
// wall-clock duration overwrite TotalTimeMs afterwards.
func Aggregate(files []FileResult) ScanResults {
	results := ScanResults{
		ScanID:    uuid.NewString(),
		Files:     files,
		ByCountry: make(map[string]int),
	}

	results.TotalFiles = len(files)
	for _, f := range files {
		results.TotalBytes += f.SizeBytes
		results.TotalTimeMs += f.ScanTimeMs
		results.TotalMatches += len(f.Matches)

		for _, m := range f.Matches {
			switch m.Severity {
			case SeverityLow:
				results.BySeverity.Low++
			case SeverityMedium:
				results.BySeverity.Medium++
			case SeverityHigh:
				results.BySeverity.High++
			case SeverityCritical:
				results.BySeverity.Critical++
			}
			results.ByCountry[m.Country]++
		}
	}

	return results
}

// FilterByConfidence returns a new ScanResults keeping only matches at
// or above min. The histograms are recomputed; file counts, byte and
// time totals, the scan id, and the extraction counters carry over
// unchanged.
func (r ScanResults) FilterByConfidence(min Confidence) ScanResults {
	filteredFiles := make([]FileResult, 0, len(r.Files))
	for _, f := range r.Files {
		kept := make([]Match, 0, len(f.Matches))
		for _, m := range f.Matches {
			if m.Confidence >= min {
				kept = append(kept, m)
			}
		}
		f.Matches = kept
		filteredFiles = append(filteredFiles, f)
	}

	filtered := Aggregate(filteredFiles)
	filtered.ScanID = r.ScanID
	filtered.TotalBytes = r.TotalBytes
	filtered.TotalTimeMs = r.TotalTimeMs
	filtered.ExtractedFiles = r.ExtractedFiles
	filtered.ExtractionFailures = r.ExtractionFailures

	return filtered
}
