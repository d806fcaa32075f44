package detection

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/silv3rshi3ld/gdpr-pii-scanner/pkg/masking"
)

// PluginConfig is the TOML schema for a custom detector:
//
//	[detector]
//	id = "custom_ssn"
//	name = "Custom SSN Detector"
//	country = "xx"
//	pattern = "\\b\\d{3}-\\d{2}-\\d{4}\\b"
//	severity = "high"       # default
//	confidence = "medium"   # default
//
//	[validation]
//	min_length = 11
//	max_length = 11
//	checksum = "none"       # none | luhn | mod97 | mod11
//	allowed_chars = "0123456789-"
type PluginConfig struct {
	Detector   PluginDetectorConfig   `mapstructure:"detector"`
	Validation PluginValidationConfig `mapstructure:"validation"`
}

// PluginDetectorConfig is the [detector] section.
type PluginDetectorConfig struct {
	ID          string `mapstructure:"id"`
	Name        string `mapstructure:"name"`
	Country     string `mapstructure:"country"`
	Pattern     string `mapstructure:"pattern"`
	Severity    string `mapstructure:"severity"`
	Confidence  string `mapstructure:"confidence"`
	Description string `mapstructure:"description"`
}

// PluginValidationConfig is the [validation] section.
type PluginValidationConfig struct {
	MinLength    int    `mapstructure:"min_length"`
	MaxLength    int    `mapstructure:"max_length"`
	Checksum     string `mapstructure:"checksum"`
	AllowedChars string `mapstructure:"allowed_chars"`
}

// PluginDetector is a detector defined entirely by configuration.
type PluginDetector struct {
	config     PluginConfig
	pattern    *regexp.Regexp
	severity   Severity
	confidence Confidence
}

// NewPluginDetector builds a detector from a parsed plugin config.
func NewPluginDetector(config PluginConfig) (*PluginDetector, error) {
	if config.Detector.ID == "" || config.Detector.Pattern == "" {
		return nil, fmt.Errorf("plugin detector requires id and pattern")
	}

	pattern, err := regexp.Compile(config.Detector.Pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid regex pattern: %w", err)
	}

	severity := SeverityHigh
	if config.Detector.Severity != "" {
		if severity, err = ParseSeverity(config.Detector.Severity); err != nil {
			return nil, err
		}
	}

	confidence := ConfidenceMedium
	if config.Detector.Confidence != "" {
		if confidence, err = ParseConfidence(config.Detector.Confidence); err != nil {
			return nil, err
		}
	}

	switch config.Validation.Checksum {
	case "", "none", "luhn", "mod97", "mod11":
	default:
		return nil, fmt.Errorf("unknown checksum type: %q", config.Validation.Checksum)
	}

	return &PluginDetector{
		config:     config,
		pattern:    pattern,
		severity:   severity,
		confidence: confidence,
	}, nil
}

// LoadPluginFromFile parses one plugin TOML file.
func LoadPluginFromFile(path string) (*PluginDetector, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read plugin file: %w", err)
	}

	var config PluginConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to parse plugin TOML: %w", err)
	}

	return NewPluginDetector(config)
}

// LoadPluginsFromDirectory loads every *.detector.toml or *.toml file
// in dir. A missing directory is a no-op. Individual plugin failures
// are logged as warnings and skip only that plugin.
func LoadPluginsFromDirectory(dir string) ([]Detector, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read plugin directory: %w", err)
	}

	var plugins []Detector
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".toml") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		plugin, err := LoadPluginFromFile(path)
		if err != nil {
			log.Warn().Str("plugin", entry.Name()).Err(err).Msg("skipping plugin")
			continue
		}

		log.Debug().Str("plugin", plugin.ID()).Str("file", entry.Name()).Msg("loaded plugin detector")
		plugins = append(plugins, plugin)
	}

	return plugins, nil
}

func (d *PluginDetector) ID() string             { return d.config.Detector.ID }
func (d *PluginDetector) Name() string           { return d.config.Detector.Name }
func (d *PluginDetector) BaseSeverity() Severity { return d.severity }
func (d *PluginDetector) Description() string    { return d.config.Detector.Description }

func (d *PluginDetector) Country() string {
	if d.config.Detector.Country == "" {
		return CountryUniversal
	}
	return strings.ToLower(d.config.Detector.Country)
}

// Validate applies the configured validation rules.
func (d *PluginDetector) Validate(value string) bool {
	rules := d.config.Validation

	if rules.MinLength > 0 && len(value) < rules.MinLength {
		return false
	}
	if rules.MaxLength > 0 && len(value) > rules.MaxLength {
		return false
	}
	if rules.AllowedChars != "" {
		for _, r := range value {
			if !strings.ContainsRune(rules.AllowedChars, r) {
				return false
			}
		}
	}

	switch rules.Checksum {
	case "luhn":
		return pluginLuhn(value)
	case "mod97":
		return pluginMod97(value)
	case "mod11":
		return pluginMod11(value)
	default:
		return true
	}
}

func (d *PluginDetector) Detect(text, filePath string) []Match {
	var matches []Match

	scanLines(text, d.pattern, func(pos linePos, value string) {
		if !d.Validate(value) {
			return
		}

		matches = append(matches, Match{
			DetectorID:   d.ID(),
			DetectorName: d.Name(),
			Country:      d.Country(),
			ValueMasked:  masking.MaskValue(value),
			Location: Location{
				FilePath:  filePath,
				Line:      pos.line,
				Column:    pos.column,
				StartByte: pos.startByte,
				EndByte:   pos.endByte,
			},
			Confidence:   d.confidence,
			Severity:     d.severity,
			GdprCategory: RegularCategory(),
		})
	})

	return matches
}

// Plugin checksum variants are looser than the built-in ones: any
// digit count is accepted so custom schemes can reuse them.

func pluginLuhn(value string) bool {
	digits := extractDigits(value)
	if len(digits) < 2 {
		return false
	}

	sum := 0
	for i := 0; i < len(digits); i++ {
		d := int(digits[len(digits)-1-i] - '0')
		if i%2 == 1 {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
	}
	return sum%10 == 0
}

func pluginMod97(value string) bool {
	digits := extractDigits(value)
	if digits == "" {
		return false
	}

	remainder := 0
	for i := 0; i < len(digits); i++ {
		remainder = (remainder*10 + int(digits[i]-'0')) % 97
	}
	return remainder == 1
}

func pluginMod11(value string) bool {
	digits := extractDigits(value)
	if digits == "" {
		return false
	}

	sum := 0
	for i := 0; i < len(digits); i++ {
		weight := i%6 + 2
		sum += int(digits[i]-'0') * weight
	}
	return sum%11 == 0
}
