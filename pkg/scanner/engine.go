// Package scanner orchestrates the scan pipeline: walk, read or
// extract, detect, analyze context, aggregate.
package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"

	gdprcontext "github.com/silv3rshi3ld/gdpr-pii-scanner/pkg/context"
	"github.com/silv3rshi3ld/gdpr-pii-scanner/pkg/detection"
	"github.com/silv3rshi3ld/gdpr-pii-scanner/pkg/discovery"
	"github.com/silv3rshi3ld/gdpr-pii-scanner/pkg/extraction"
)

// Error prefixes recorded in FileResult.Error. The extraction prefix
// also drives the extraction-failure counter.
const (
	extractionErrPrefix = "Extraction failed: "
	readErrPrefix       = "Failed to read file: "
)

// Engine runs detectors over files and aggregates results. The
// registry and analyzer are shared read-only across workers; the
// engine itself holds no per-scan mutable state.
type Engine struct {
	registry      *detection.Registry
	analyzer      *gdprcontext.Analyzer
	extractors    *extraction.Registry
	walker        *discovery.Walker
	enableContext bool
	showProgress  bool
	threads       int
}

// NewEngine returns an engine with context analysis and progress
// display enabled.
func NewEngine(registry *detection.Registry) *Engine {
	return &Engine{
		registry:      registry,
		analyzer:      gdprcontext.NewAnalyzer(),
		enableContext: true,
		showProgress:  true,
		threads:       runtime.NumCPU(),
	}
}

// EnableContext toggles GDPR context analysis.
func (e *Engine) EnableContext(enable bool) *Engine {
	e.enableContext = enable
	return e
}

// ShowProgress toggles the progress display.
func (e *Engine) ShowProgress(show bool) *Engine {
	e.showProgress = show
	return e
}

// WithExtractors enables document extraction with the given registry.
func (e *Engine) WithExtractors(registry *extraction.Registry) *Engine {
	e.extractors = registry
	return e
}

// WithWalker replaces the walker used by ScanDirectory.
func (e *Engine) WithWalker(walker *discovery.Walker) *Engine {
	e.walker = walker
	return e
}

// Threads sets the size of the detection worker pool.
func (e *Engine) Threads(n int) *Engine {
	if n > 0 {
		e.threads = n
	}
	return e
}

// ScanFile scans a single file and never returns an error: failures
// are recorded in FileResult.Error and the scan moves on.
func (e *Engine) ScanFile(path string) detection.FileResult {
	start := time.Now()
	result := detection.NewFileResult(path)

	if info, err := os.Stat(path); err == nil {
		result.SizeBytes = uint64(info.Size())
	}

	text, errMsg := e.resolveText(path)
	if errMsg != "" {
		result.Error = errMsg
		result.ScanTimeMs = uint64(time.Since(start).Milliseconds())
		return result
	}

	result.Matches = e.detect(text, path)
	result.ScanTimeMs = uint64(time.Since(start).Milliseconds())
	return result
}

// ScanText runs the detector pipeline over in-memory text under a
// pseudo path. The HTTP and database adapters reuse this entry point.
func (e *Engine) ScanText(pseudoPath, text string) detection.FileResult {
	start := time.Now()
	result := detection.NewFileResult(pseudoPath)
	result.SizeBytes = uint64(len(text))
	result.Matches = e.detect(text, pseudoPath)
	result.ScanTimeMs = uint64(time.Since(start).Milliseconds())
	return result
}

// resolveText picks the text source for a path: a registered extractor
// for the extension when extraction is enabled, otherwise a plain
// UTF-8 read. The returned message is empty on success.
func (e *Engine) resolveText(path string) (string, string) {
	if e.extractors != nil {
		if extractor := e.extractorFor(path); extractor != nil {
			text, err := extractor.Extract(path)
			if err != nil {
				return "", extractionErrPrefix + err.Error()
			}
			return text, ""
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", readErrPrefix + err.Error()
	}
	if !utf8.Valid(data) {
		return "", readErrPrefix + "invalid UTF-8 data"
	}
	return string(data), ""
}

// extractorFor returns the registered extractor for a path's
// extension, or nil.
func (e *Engine) extractorFor(path string) extraction.Extractor {
	if e.extractors == nil {
		return nil
	}
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return nil
	}
	return e.extractors.ByExtension(ext)
}

// detect runs every registered detector over the text and applies the
// context upgrade.
func (e *Engine) detect(text, path string) []detection.Match {
	matches := []detection.Match{}

	for _, detector := range e.registry.All() {
		found := detector.Detect(text, path)

		if e.enableContext {
			for i := range found {
				e.applyContext(text, &found[i])
			}
		}

		matches = append(matches, found...)
	}

	return matches
}

// applyContext attaches context info to a match; a special-category
// hit upgrades severity to critical.
func (e *Engine) applyContext(text string, m *detection.Match) {
	info := e.analyzer.Analyze(text, m.Location.StartByte, m.Location.EndByte)
	if info == nil {
		return
	}

	if info.Category != "" {
		m.Severity = detection.SeverityCritical
		m.GdprCategory = detection.SpecialGdpr(info.Category, info.Keywords)
	}
	m.Context = info
}

// ScanDirectory walks root and scans every yielded file with a worker
// pool. Per-file failures are recorded in their FileResult; only a
// failed walk returns an error.
func (e *Engine) ScanDirectory(root string) (detection.ScanResults, error) {
	overallStart := time.Now()

	walker := e.walker
	if walker == nil {
		walker = discovery.NewWalker(root)
	}

	paths, err := walker.WalkParallel()
	if err != nil {
		return detection.ScanResults{}, fmt.Errorf("walking %s: %w", root, err)
	}

	log.Debug().Int("files", len(paths)).Int("threads", e.threads).Msg("starting directory scan")

	var extractedCount, failureCount, matchesCount atomic.Int64

	var bar *progressbar.ProgressBar
	if e.showProgress {
		bar = progressbar.NewOptions(len(paths),
			progressbar.OptionSetDescription("Scanning..."),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	results := make([]detection.FileResult, len(paths))

	var g errgroup.Group
	g.SetLimit(e.threads)

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if e.extractorFor(path) != nil {
				extractedCount.Add(1)
			}

			result := e.ScanFile(path)

			if len(result.Matches) > 0 {
				matchesCount.Add(int64(len(result.Matches)))
			}
			if strings.HasPrefix(result.Error, extractionErrPrefix) {
				failureCount.Add(1)
			}

			if bar != nil {
				_ = bar.Add(1)
				if n := matchesCount.Load(); n > 0 {
					bar.Describe(fmt.Sprintf("%d PII matches found", n))
				}
			}

			results[i] = result
			return nil
		})
	}

	// Workers never return errors; Wait is a barrier.
	_ = g.Wait()

	if bar != nil {
		_ = bar.Finish()
	}

	scanResults := detection.Aggregate(results)
	scanResults.TotalTimeMs = uint64(time.Since(overallStart).Milliseconds())
	scanResults.ExtractedFiles = int(extractedCount.Load())
	scanResults.ExtractionFailures = int(failureCount.Load())

	return scanResults, nil
}
