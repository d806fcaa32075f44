// Package config loads the scanner's TOML configuration and merges it
// with CLI overrides. Configuration is looked up at
// ./.pii-scanner.toml, then ~/.pii-scanner/config.toml.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/viper"
)

// Config is the root of the TOML configuration.
type Config struct {
	Scan     ScanConfig      `mapstructure:"scan"`
	Output   OutputConfig    `mapstructure:"output"`
	Filters  FilterConfig    `mapstructure:"filters"`
	Database *DatabaseConfig `mapstructure:"database"`
	API      *APIConfig      `mapstructure:"api"`
	Plugins  *PluginConfig   `mapstructure:"plugins"`
}

// ScanConfig is the [scan] section.
type ScanConfig struct {
	// MinConfidence is the reporting threshold: low, medium or high.
	MinConfidence string `mapstructure:"min_confidence"`
	// ExtractDocuments enables PDF/DOCX/XLSX extraction.
	ExtractDocuments bool `mapstructure:"extract_documents"`
	// MaxThreads caps the detection worker pool; 0 means one per CPU.
	MaxThreads int `mapstructure:"max_threads"`
	// Countries filters detectors to these ISO codes (empty = all).
	Countries []string `mapstructure:"countries"`
	// NoContext disables GDPR context analysis.
	NoContext bool `mapstructure:"no_context"`
	// EnableGitleaks adds the gitleaks ruleset secrets detector.
	EnableGitleaks bool `mapstructure:"enable_gitleaks"`
}

// OutputConfig is the [output] section.
type OutputConfig struct {
	// Format is terminal, json, json-compact, csv, html or sarif.
	Format string `mapstructure:"format"`
	// OutputPath writes the report to a file instead of stdout.
	OutputPath string `mapstructure:"output_path"`
	// FullPaths shows absolute paths in the terminal report.
	FullPaths bool `mapstructure:"full_paths"`
	// NoProgress disables the progress bar.
	NoProgress bool `mapstructure:"no_progress"`
}

// FilterConfig is the [filters] section.
type FilterConfig struct {
	// MaxFilesizeMB caps per-file size in MiB.
	MaxFilesizeMB int64 `mapstructure:"max_filesize_mb"`
	// MaxDepth limits directory recursion; 0 = unlimited.
	MaxDepth int `mapstructure:"max_depth"`
	// ScanHidden includes hidden files.
	ScanHidden bool `mapstructure:"scan_hidden"`
	// ScanBinary includes binary-extension files.
	ScanBinary bool `mapstructure:"scan_binary"`
	// AllowedExtensions restricts scanning to these extensions.
	AllowedExtensions []string `mapstructure:"allowed_extensions"`
	// ExcludeGlobs skips matching paths (doublestar patterns).
	ExcludeGlobs []string `mapstructure:"exclude_globs"`
}

// DatabaseConfig is the [database] section.
type DatabaseConfig struct {
	Connections []DatabaseConnection `mapstructure:"connections"`
}

// DatabaseConnection describes one database to scan.
type DatabaseConnection struct {
	Name             string   `mapstructure:"name"`
	ConnectionString string   `mapstructure:"connection_string"`
	DBType           string   `mapstructure:"db_type"`
	DatabaseName     string   `mapstructure:"database_name"`
	Tables           []string `mapstructure:"tables"`
	ExcludeTables    []string `mapstructure:"exclude_tables"`
	RowLimit         int      `mapstructure:"row_limit"`
	SamplePercent    float64  `mapstructure:"sample_percent"`
	TimeoutSeconds   int      `mapstructure:"timeout_seconds"`
}

// APIConfig is the [api] section.
type APIConfig struct {
	Endpoints []APIEndpoint `mapstructure:"endpoints"`
}

// APIEndpoint describes one HTTP endpoint to scan.
type APIEndpoint struct {
	Name        string            `mapstructure:"name"`
	URL         string            `mapstructure:"url"`
	Method      string            `mapstructure:"method"`
	Headers     map[string]string `mapstructure:"headers"`
	Body        string            `mapstructure:"body"`
	ScanHeaders bool              `mapstructure:"scan_headers"`
	TimeoutSecs int               `mapstructure:"timeout_seconds"`
}

// PluginConfig is the [plugins] section.
type PluginConfig struct {
	Directories []string `mapstructure:"directories"`
	Enabled     bool     `mapstructure:"enabled"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Scan: ScanConfig{
			MinConfidence: "high",
		},
		Output: OutputConfig{
			Format: "terminal",
		},
		Filters: FilterConfig{
			MaxFilesizeMB: 100,
		},
	}
}

// LoadFile parses one TOML configuration file.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", path, err)
	}

	cfg.expandEnv()
	return cfg, nil
}

// Load returns the configuration from an explicit path, the standard
// lookup locations, or the defaults.
func Load(explicitPath string) (*Config, error) {
	if explicitPath != "" {
		return LoadFile(explicitPath)
	}

	if _, err := os.Stat(".pii-scanner.toml"); err == nil {
		return LoadFile(".pii-scanner.toml")
	}

	if home, err := os.UserHomeDir(); err == nil {
		userConfig := filepath.Join(home, ".pii-scanner", "config.toml")
		if _, err := os.Stat(userConfig); err == nil {
			return LoadFile(userConfig)
		}
	}

	return Default(), nil
}

// Validate rejects configurations the scanner cannot run with.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Scan.MinConfidence) {
	case "", "low", "medium", "high":
	default:
		return fmt.Errorf("invalid min_confidence: %q", c.Scan.MinConfidence)
	}

	switch strings.ToLower(c.Output.Format) {
	case "", "terminal", "json", "json-compact", "csv", "html", "sarif":
	default:
		return fmt.Errorf("invalid output format: %q", c.Output.Format)
	}

	if c.Filters.MaxFilesizeMB < 0 {
		return fmt.Errorf("max_filesize_mb cannot be negative")
	}
	if c.Scan.MaxThreads < 0 {
		return fmt.Errorf("max_threads cannot be negative")
	}

	return nil
}

// envVarPattern matches ${VAR} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// ExpandEnvString substitutes ${VAR} with the environment value by
// repeated replacement; unknown variables stay literal.
func ExpandEnvString(s string) string {
	// Repeated replacement handles values that themselves contain
	// placeholders; the iteration cap guards against cycles.
	for i := 0; i < 8; i++ {
		replaced := envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
			name := match[2 : len(match)-1]
			if value, ok := os.LookupEnv(name); ok {
				return value
			}
			return match
		})
		if replaced == s {
			break
		}
		s = replaced
	}
	return s
}

// expandEnv applies ${VAR} expansion to connection strings, API URLs,
// headers and bodies.
func (c *Config) expandEnv() {
	if c.Database != nil {
		for i := range c.Database.Connections {
			conn := &c.Database.Connections[i]
			conn.ConnectionString = ExpandEnvString(conn.ConnectionString)
		}
	}

	if c.API != nil {
		for i := range c.API.Endpoints {
			endpoint := &c.API.Endpoints[i]
			endpoint.URL = ExpandEnvString(endpoint.URL)
			endpoint.Body = ExpandEnvString(endpoint.Body)
			for key, value := range endpoint.Headers {
				endpoint.Headers[key] = ExpandEnvString(value)
			}
		}
	}
}

// CLIOverrides carries the command-line flags that take precedence
// over the config file.
type CLIOverrides struct {
	Countries        string
	MinConfidence    string
	ExtractDocuments bool
	NoContext        bool
	Threads          int
	Format           string
	Output           string
	NoProgress       bool
	FullPaths        bool
	MaxFilesizeMB    int64
	MaxDepth         int
	PluginDir        string
}

// MergeCLI applies the overrides; set flags win over the file.
func (c *Config) MergeCLI(o CLIOverrides) {
	if o.Countries != "" {
		parts := strings.Split(o.Countries, ",")
		countries := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.ToLower(strings.TrimSpace(p)); trimmed != "" {
				countries = append(countries, trimmed)
			}
		}
		c.Scan.Countries = countries
	}
	if o.MinConfidence != "" {
		c.Scan.MinConfidence = o.MinConfidence
	}
	if o.ExtractDocuments {
		c.Scan.ExtractDocuments = true
	}
	if o.NoContext {
		c.Scan.NoContext = true
	}
	if o.Threads > 0 {
		c.Scan.MaxThreads = o.Threads
	}
	if o.Format != "" {
		c.Output.Format = o.Format
	}
	if o.Output != "" {
		c.Output.OutputPath = o.Output
	}
	if o.NoProgress {
		c.Output.NoProgress = true
	}
	if o.FullPaths {
		c.Output.FullPaths = true
	}
	if o.MaxFilesizeMB > 0 {
		c.Filters.MaxFilesizeMB = o.MaxFilesizeMB
	}
	if o.MaxDepth > 0 {
		c.Filters.MaxDepth = o.MaxDepth
	}
	if o.PluginDir != "" {
		if c.Plugins == nil {
			c.Plugins = &PluginConfig{Enabled: true}
		}
		c.Plugins.Directories = append(c.Plugins.Directories, o.PluginDir)
	}
}
