package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/silv3rshi3ld/gdpr-pii-scanner/pkg/config"
	"github.com/silv3rshi3ld/gdpr-pii-scanner/pkg/scanner"
)

func newAPICmd() *cobra.Command {
	var (
		configFile string
		overrides  config.CLIOverrides
		method     string
		headers    []string
		body       string
		timeout    int
	)

	cmd := &cobra.Command{
		Use:   "api <url>...",
		Short: "Scan HTTP endpoint responses for PII",
		Long: `Fetch one or more HTTP endpoints and scan the response bodies.
Each endpoint is reported as a pseudo-file named after its URL.
Endpoints can also be defined in the [api] config section; URLs given
on the command line are scanned in addition.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				return err
			}
			cfg.MergeCLI(overrides)

			apiCfg := scanner.DefaultAPIScanConfig()
			apiCfg.Method = method
			apiCfg.Body = config.ExpandEnvString(body)
			if timeout > 0 {
				apiCfg.TimeoutSecs = timeout
			}
			apiCfg.Headers = map[string]string{}
			for _, h := range headers {
				key, value, found := strings.Cut(h, ":")
				if !found {
					return fmt.Errorf("invalid header %q (expected 'Name: value')", h)
				}
				apiCfg.Headers[strings.TrimSpace(key)] = config.ExpandEnvString(strings.TrimSpace(value))
			}

			endpoints := make([]string, 0, len(args))
			for _, url := range args {
				endpoints = append(endpoints, config.ExpandEnvString(url))
			}
			if cfg.API != nil {
				for _, e := range cfg.API.Endpoints {
					endpoints = append(endpoints, e.URL)
				}
			}
			if len(endpoints) == 0 {
				return fmt.Errorf("no endpoints given (pass URLs or configure [api] endpoints)")
			}

			registry, err := buildRegistry(cfg)
			if err != nil {
				return err
			}
			engine := scanner.NewEngine(registry).
				EnableContext(!cfg.Scan.NoContext).
				ShowProgress(false)

			results := engine.ScanEndpoints(endpoints, apiCfg)

			filtered, err := applyConfidenceFilter(&results, cfg)
			if err != nil {
				return err
			}
			if err := writeReport(cfg, filtered); err != nil {
				return err
			}

			if filtered.TotalMatches > 0 {
				os.Exit(1)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&configFile, "config", "c", "", "Configuration file (TOML)")
	flags.StringVarP(&overrides.Format, "format", "f", "", "Output format")
	flags.StringVarP(&overrides.Output, "output", "o", "", "Write the report to a file")
	flags.StringVar(&overrides.Countries, "countries", "", "Comma-separated ISO country codes")
	flags.StringVar(&overrides.MinConfidence, "min-confidence", "", "Minimum confidence to report")
	flags.BoolVar(&overrides.NoContext, "no-context", false, "Disable GDPR context analysis")
	flags.StringVarP(&method, "method", "X", "GET", "HTTP method")
	flags.StringArrayVarP(&headers, "header", "H", nil, "Request header ('Name: value', repeatable)")
	flags.StringVar(&body, "body", "", "Request body")
	flags.IntVar(&timeout, "timeout", 0, "Request timeout in seconds")

	return cmd
}
