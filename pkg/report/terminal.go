package report

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/silv3rshi3ld/gdpr-pii-scanner/pkg/detection"
)

// TerminalReporter renders a styled summary plus the per-file
// findings.
type TerminalReporter struct {
	opts Options
}

// NewTerminalReporter returns the terminal reporter.
func NewTerminalReporter(opts Options) *TerminalReporter {
	return &TerminalReporter{opts: opts}
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	fileStyle     = lipgloss.NewStyle().Bold(true)
	criticalStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	highStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	mediumStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	lowStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	dimStyle      = lipgloss.NewStyle().Faint(true)
	specialStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

func severityStyle(s detection.Severity) lipgloss.Style {
	switch s {
	case detection.SeverityCritical:
		return criticalStyle
	case detection.SeverityHigh:
		return highStyle
	case detection.SeverityMedium:
		return mediumStyle
	default:
		return lowStyle
	}
}

func (r *TerminalReporter) Write(w io.Writer, results *detection.ScanResults) error {
	fmt.Fprintln(w, titleStyle.Render("PII Scan Report"))
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Files scanned:   %d (%s)\n", results.TotalFiles, formatBytes(results.TotalBytes))
	fmt.Fprintf(w, "Scan time:       %d ms\n", results.TotalTimeMs)
	fmt.Fprintf(w, "Total matches:   %d\n", results.TotalMatches)
	if results.ExtractedFiles > 0 {
		fmt.Fprintf(w, "Extracted docs:  %d (%d failed)\n", results.ExtractedFiles, results.ExtractionFailures)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "By severity:     %s %d  %s %d  %s %d  %s %d\n",
		criticalStyle.Render("critical"), results.BySeverity.Critical,
		highStyle.Render("high"), results.BySeverity.High,
		mediumStyle.Render("medium"), results.BySeverity.Medium,
		lowStyle.Render("low"), results.BySeverity.Low,
	)

	if len(results.ByCountry) > 0 {
		countries := make([]string, 0, len(results.ByCountry))
		for c := range results.ByCountry {
			countries = append(countries, c)
		}
		sort.Strings(countries)

		parts := make([]string, 0, len(countries))
		for _, c := range countries {
			parts = append(parts, fmt.Sprintf("%s %d", c, results.ByCountry[c]))
		}
		fmt.Fprintf(w, "By country:      %s\n", strings.Join(parts, "  "))
	}
	fmt.Fprintln(w)

	for _, file := range results.Files {
		if file.Error != "" {
			fmt.Fprintf(w, "%s\n  %s\n", fileStyle.Render(r.displayPath(file.Path)),
				errorStyle.Render(file.Error))
			continue
		}
		if len(file.Matches) == 0 {
			continue
		}

		fmt.Fprintln(w, fileStyle.Render(r.displayPath(file.Path)))
		for _, m := range file.Matches {
			fmt.Fprintf(w, "  %s:%d  %s  %s  %s\n",
				dimStyle.Render(fmt.Sprintf("%d", m.Location.Line)),
				m.Location.Column,
				severityStyle(m.Severity).Render(strings.ToUpper(m.Severity.String())),
				m.DetectorName,
				m.ValueMasked,
			)
			if m.GdprCategory.IsSpecial() {
				fmt.Fprintf(w, "       %s %s (keywords: %s)\n",
					specialStyle.Render("GDPR special category:"),
					m.GdprCategory.Category.DisplayName(),
					strings.Join(m.GdprCategory.DetectedKeywords, ", "),
				)
			}
		}
		fmt.Fprintln(w)
	}

	if results.TotalMatches == 0 {
		fmt.Fprintln(w, lowStyle.Render("No PII found."))
	}

	return nil
}

func (r *TerminalReporter) displayPath(path string) string {
	if r.opts.FullPaths {
		return path
	}
	if rel, err := filepath.Rel(".", path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return path
}

func formatBytes(n uint64) string {
	switch {
	case n >= 1<<30:
		return fmt.Sprintf("%.1f GiB", float64(n)/(1<<30))
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
