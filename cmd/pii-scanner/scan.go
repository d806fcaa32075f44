package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/silv3rshi3ld/gdpr-pii-scanner/pkg/config"
	"github.com/silv3rshi3ld/gdpr-pii-scanner/pkg/detection"
	"github.com/silv3rshi3ld/gdpr-pii-scanner/pkg/discovery"
	"github.com/silv3rshi3ld/gdpr-pii-scanner/pkg/extraction"
	"github.com/silv3rshi3ld/gdpr-pii-scanner/pkg/report"
	"github.com/silv3rshi3ld/gdpr-pii-scanner/pkg/scanner"
)

func newScanCmd() *cobra.Command {
	var (
		configFile string
		overrides  config.CLIOverrides
	)

	cmd := &cobra.Command{
		Use:   "scan <path>",
		Short: "Scan a directory tree for PII",
		Long: `Scan a directory tree for PII. Exits with code 1 when any match
remains after confidence filtering, 0 when the scan is clean.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				return err
			}
			cfg.MergeCLI(overrides)

			results, err := runDirectoryScan(args[0], cfg)
			if err != nil {
				return err
			}

			if err := writeReport(cfg, results); err != nil {
				return err
			}

			if results.TotalMatches > 0 {
				os.Exit(1)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&configFile, "config", "c", "", "Configuration file (TOML)")
	flags.StringVarP(&overrides.Format, "format", "f", "", "Output format (terminal|json|json-compact|csv|html|sarif)")
	flags.StringVarP(&overrides.Output, "output", "o", "", "Write the report to a file")
	flags.StringVar(&overrides.Countries, "countries", "", "Comma-separated ISO country codes to scan for")
	flags.StringVar(&overrides.MinConfidence, "min-confidence", "", "Minimum confidence to report (low|medium|high)")
	flags.BoolVar(&overrides.NoContext, "no-context", false, "Disable GDPR context analysis")
	flags.BoolVar(&overrides.ExtractDocuments, "extract-documents", false, "Extract text from PDF/DOCX/XLSX documents")
	flags.BoolVar(&overrides.NoProgress, "no-progress", false, "Disable the progress bar")
	flags.BoolVar(&overrides.FullPaths, "full-paths", false, "Show full file paths in the report")
	flags.IntVar(&overrides.MaxDepth, "max-depth", 0, "Maximum directory recursion depth")
	flags.IntVarP(&overrides.Threads, "threads", "t", 0, "Number of scan workers (default: CPU count)")
	flags.Int64Var(&overrides.MaxFilesizeMB, "max-filesize", 0, "Maximum file size to scan in MiB")
	flags.StringVar(&overrides.PluginDir, "plugin-dir", "", "Directory with custom detector plugins")

	return cmd
}

// buildRegistry assembles the detector registry from the country
// filter, the plugin directories, and the optional gitleaks detector.
func buildRegistry(cfg *config.Config) (*detection.Registry, error) {
	registry := detection.RegistryForCountries(cfg.Scan.Countries)

	if cfg.Plugins != nil && (cfg.Plugins.Enabled || len(cfg.Plugins.Directories) > 0) {
		for _, dir := range cfg.Plugins.Directories {
			plugins, err := detection.LoadPluginsFromDirectory(dir)
			if err != nil {
				return nil, fmt.Errorf("loading plugins from %s: %w", dir, err)
			}
			for _, plugin := range plugins {
				registry.Register(plugin)
			}
		}
	}

	if cfg.Scan.EnableGitleaks {
		gitleaks, err := detection.NewGitleaksDetector()
		if err != nil {
			return nil, err
		}
		registry.Register(gitleaks)
		log.Debug().Msg("gitleaks detector enabled")
	}

	return registry, nil
}

// buildEngine wires the registry, walker, and extractors per config.
func buildEngine(root string, cfg *config.Config) (*scanner.Engine, error) {
	registry, err := buildRegistry(cfg)
	if err != nil {
		return nil, err
	}

	engine := scanner.NewEngine(registry).
		EnableContext(!cfg.Scan.NoContext).
		ShowProgress(!cfg.Output.NoProgress)

	if cfg.Scan.MaxThreads > 0 {
		engine.Threads(cfg.Scan.MaxThreads)
	}

	if cfg.Scan.ExtractDocuments {
		engine.WithExtractors(extraction.DefaultRegistry())
	}

	filter := discovery.NewFileFilter().
		ScanBinary(cfg.Filters.ScanBinary).
		AllowedExtensions(cfg.Filters.AllowedExtensions).
		ExcludeGlobs(cfg.Filters.ExcludeGlobs)

	walker := discovery.NewWalker(root).
		Hidden(!cfg.Filters.ScanHidden).
		Filter(filter)
	if cfg.Filters.MaxDepth > 0 {
		walker.MaxDepth(cfg.Filters.MaxDepth)
	}
	if cfg.Filters.MaxFilesizeMB > 0 {
		walker.MaxFilesize(cfg.Filters.MaxFilesizeMB * 1024 * 1024)
	}
	if cfg.Scan.MaxThreads > 0 {
		walker.Threads(cfg.Scan.MaxThreads)
	}
	engine.WithWalker(walker)

	return engine, nil
}

func runDirectoryScan(root string, cfg *config.Config) (*detection.ScanResults, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("cannot scan %s: %w", root, err)
	}

	engine, err := buildEngine(root, cfg)
	if err != nil {
		return nil, err
	}

	results, err := engine.ScanDirectory(root)
	if err != nil {
		return nil, err
	}

	return applyConfidenceFilter(&results, cfg)
}

// applyConfidenceFilter drops matches below the configured threshold.
func applyConfidenceFilter(results *detection.ScanResults, cfg *config.Config) (*detection.ScanResults, error) {
	minConfidence := detection.ConfidenceHigh
	if cfg.Scan.MinConfidence != "" {
		parsed, err := detection.ParseConfidence(cfg.Scan.MinConfidence)
		if err != nil {
			return nil, err
		}
		minConfidence = parsed
	}

	filtered := results.FilterByConfidence(minConfidence)
	return &filtered, nil
}

// writeReport renders the results in the configured format, to stdout
// or the configured output file.
func writeReport(cfg *config.Config, results *detection.ScanResults) error {
	reporter, err := report.ForFormat(cfg.Output.Format, report.Options{FullPaths: cfg.Output.FullPaths})
	if err != nil {
		return err
	}

	var out io.Writer = os.Stdout
	if cfg.Output.OutputPath != "" {
		file, err := os.Create(cfg.Output.OutputPath)
		if err != nil {
			return fmt.Errorf("cannot create output file: %w", err)
		}
		defer file.Close()
		out = file
	}

	return reporter.Write(out, results)
}
