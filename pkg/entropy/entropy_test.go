package entropy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShannon(t *testing.T) {
	assert.Equal(t, 0.0, Shannon(""))
	assert.Less(t, Shannon("aaaaaaa"), 0.1)
	assert.Less(t, Shannon("1111111"), 0.1)

	medium := Shannon("abcdefg")
	assert.Greater(t, medium, 2.5)
	assert.Less(t, medium, 3.5)

	assert.Greater(t, Shannon("aK9$mP3zQ!vX2"), 3.5)
	assert.Greater(t, Shannon("dGhpcyBpcyBhIHRlc3Q="), 3.0)
}

func TestShannonUniform(t *testing.T) {
	// Four distinct equally frequent characters carry exactly 2 bits.
	assert.InDelta(t, 2.0, Shannon("abcd"), 1e-9)
}

func TestIsHighEntropy(t *testing.T) {
	assert.False(t, IsHighEntropy("hello", 4.0))
	assert.True(t, IsHighEntropy("aK9$mP3zQ!vX2", 3.5))
}

func TestIsLikelyBase64Secret(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected bool
	}{
		{
			name:     "long base64 key",
			value:    "dGhpc2lzYXZlcnlsb25nYmFzZTY0ZW5jb2RlZHNlY3JldGtleQ==",
			expected: true,
		},
		{name: "too short", value: "dGVzdA==", expected: false},
		{name: "not base64 characters", value: "this-is-not-base64-at-all!", expected: false},
		{name: "low entropy", value: "aaaaaaaaaaaaaaaaaaaaaaaa", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsLikelyBase64Secret(tt.value))
		})
	}
}

func TestIsLikelyHexSecret(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected bool
	}{
		{
			name:     "256-bit hex key",
			value:    "a1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6e7f8a9b0c1d2e3f4a5b6c7d8e9f0a1b2",
			expected: true,
		},
		{name: "too short", value: "a1b2c3d4", expected: false},
		{name: "not hex", value: "this-is-not-hex-at-all-123456789", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsLikelyHexSecret(tt.value))
		})
	}
}

func TestRandomnessScore(t *testing.T) {
	assert.LessOrEqual(t, RandomnessScore("aaaaaaa"), 3)

	medium := RandomnessScore("password123")
	assert.GreaterOrEqual(t, medium, 3)
	assert.LessOrEqual(t, medium, 6)

	assert.GreaterOrEqual(t, RandomnessScore("aK9$mP3zQ!vX2rT8nB5wL4"), 7)
}

func TestRandomnessScoreBounds(t *testing.T) {
	long := "aK9$mP3zQ!vX2rT8nB5wL4jN7mR9pS6uV3wY8zA1bC4dE7fG0hI2jK5lM8nO1pQ4rS7tU0vW3xY6zA9bC2dE5fG8hI1jK4lM7nO0pQ3rS6"
	assert.LessOrEqual(t, RandomnessScore(long), 10)
	assert.Equal(t, 1, RandomnessScore(""))
}
