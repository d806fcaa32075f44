// Package entropy measures character-level randomness of strings.
// The API-key detector uses it to separate real secrets from ordinary
// identifiers.
package entropy

import "math"

// Base64Threshold is the Shannon-entropy threshold above which a
// base64-alphabet string is considered a likely secret.
const Base64Threshold = 4.5

// HexThreshold is the corresponding threshold for hexadecimal strings,
// whose 16-symbol alphabet caps entropy at 4 bits.
const HexThreshold = 3.5

// Shannon computes the Shannon entropy of s in bits per character:
// H = -Σ p(c)·log2 p(c) over the character frequency distribution.
// The empty string has entropy 0.
func Shannon(s string) float64 {
	if s == "" {
		return 0
	}

	freq := make(map[rune]int)
	total := 0
	for _, r := range s {
		freq[r]++
		total++
	}

	var h float64
	for _, count := range freq {
		p := float64(count) / float64(total)
		h -= p * math.Log2(p)
	}

	return h
}

// IsHighEntropy reports whether s meets the given entropy threshold.
func IsHighEntropy(s string, threshold float64) bool {
	return Shannon(s) >= threshold
}

// IsLikelyBase64Secret reports whether s looks like a base64-encoded
// secret: at least 20 characters, base64 alphabet only, and entropy at
// or above Base64Threshold.
func IsLikelyBase64Secret(s string) bool {
	if len(s) < 20 {
		return false
	}
	for _, r := range s {
		if !isBase64Char(r) {
			return false
		}
	}
	return IsHighEntropy(s, Base64Threshold)
}

// IsLikelyHexSecret reports whether s looks like a hex-encoded secret:
// at least 32 characters (a 128-bit key), hex alphabet only, and
// entropy at or above HexThreshold.
func IsLikelyHexSecret(s string) bool {
	if len(s) < 32 {
		return false
	}
	for _, r := range s {
		if !isHexChar(r) {
			return false
		}
	}
	return IsHighEntropy(s, HexThreshold)
}

// RandomnessScore rates s from 0 to 10 for ranking candidate secrets.
// Entropy contributes up to 5 points, length up to 3 (≥32 chars → 3,
// ≥20 → 2, else 1), and character-class diversity (upper, lower, digit,
// symbol) up to 4; the total is clamped to 10.
func RandomnessScore(s string) int {
	score := int(Shannon(s) / 6.0 * 5.0)

	switch {
	case len(s) >= 32:
		score += 3
	case len(s) >= 20:
		score += 2
	default:
		score++
	}

	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		default:
			hasSymbol = true
		}
	}
	for _, present := range []bool{hasUpper, hasLower, hasDigit, hasSymbol} {
		if present {
			score++
		}
	}

	if score > 10 {
		return 10
	}
	return score
}

func isBase64Char(r rune) bool {
	return (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') ||
		(r >= '0' && r <= '9') || r == '+' || r == '/' || r == '='
}

func isHexChar(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}
