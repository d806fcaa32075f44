package detection

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ssnPlugin = `
[detector]
id = "custom_ssn"
name = "Custom SSN Detector"
country = "xx"
pattern = '\b\d{3}-\d{2}-\d{4}\b'
severity = "critical"
confidence = "medium"

[validation]
min_length = 11
max_length = 11
`

func writePlugin(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadPluginFromFile(t *testing.T) {
	dir := t.TempDir()
	path := writePlugin(t, dir, "ssn.detector.toml", ssnPlugin)

	plugin, err := LoadPluginFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "custom_ssn", plugin.ID())
	assert.Equal(t, "Custom SSN Detector", plugin.Name())
	assert.Equal(t, "xx", plugin.Country())
	assert.Equal(t, SeverityCritical, plugin.BaseSeverity())
}

func TestPluginDetect(t *testing.T) {
	plugin, err := NewPluginDetector(PluginConfig{
		Detector: PluginDetectorConfig{
			ID:      "custom_ssn",
			Name:    "Custom SSN",
			Country: "xx",
			Pattern: `\b\d{3}-\d{2}-\d{4}\b`,
		},
	})
	require.NoError(t, err)

	matches := plugin.Detect("SSN: 123-45-6789 here", "test.txt")
	require.Len(t, matches, 1)

	m := matches[0]
	assert.Equal(t, "custom_ssn", m.DetectorID)
	assert.Equal(t, ConfidenceMedium, m.Confidence)
	assert.Equal(t, SeverityHigh, m.Severity)
	assert.NotContains(t, m.ValueMasked, "6789")
}

func TestPluginValidationRules(t *testing.T) {
	plugin, err := NewPluginDetector(PluginConfig{
		Detector: PluginDetectorConfig{
			ID:      "digits",
			Name:    "Digits",
			Pattern: `\d+`,
		},
		Validation: PluginValidationConfig{
			MinLength:    4,
			MaxLength:    6,
			AllowedChars: "0123456789",
		},
	})
	require.NoError(t, err)

	assert.True(t, plugin.Validate("1234"))
	assert.True(t, plugin.Validate("123456"))
	assert.False(t, plugin.Validate("123"))
	assert.False(t, plugin.Validate("1234567"))
	assert.False(t, plugin.Validate("12a4"))
}

func TestPluginLuhnChecksum(t *testing.T) {
	plugin, err := NewPluginDetector(PluginConfig{
		Detector:   PluginDetectorConfig{ID: "luhn", Name: "Luhn", Pattern: `\d+`},
		Validation: PluginValidationConfig{Checksum: "luhn"},
	})
	require.NoError(t, err)

	assert.True(t, plugin.Validate("4532015112830366"))
	assert.False(t, plugin.Validate("4532015112830367"))
}

func TestPluginInvalidRegexRejected(t *testing.T) {
	_, err := NewPluginDetector(PluginConfig{
		Detector: PluginDetectorConfig{ID: "bad", Name: "Bad", Pattern: `[unclosed`},
	})
	assert.Error(t, err)
}

func TestLoadPluginsFromDirectory(t *testing.T) {
	dir := t.TempDir()
	writePlugin(t, dir, "good.detector.toml", ssnPlugin)
	writePlugin(t, dir, "broken.detector.toml", "[detector]\nid = \"broken\"\npattern = '[unclosed'")
	writePlugin(t, dir, "ignored.txt", "not a plugin")

	plugins, err := LoadPluginsFromDirectory(dir)
	require.NoError(t, err)

	// The broken plugin is skipped with a warning; the good one loads.
	require.Len(t, plugins, 1)
	assert.Equal(t, "custom_ssn", plugins[0].ID())
}

func TestLoadPluginsFromMissingDirectory(t *testing.T) {
	plugins, err := LoadPluginsFromDirectory("/nonexistent/plugins")
	assert.NoError(t, err)
	assert.Empty(t, plugins)
}
