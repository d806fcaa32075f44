// Package masking produces safe display surrogates for raw PII values.
//
// Raw values must never appear in results, reports, or logs; every
// detector masks before building a Match. All functions are total:
// malformed input yields a fully masked string, never an error.
package masking

import "strings"

// MaskValue masks a generic value, showing a short prefix and suffix.
//
// Values of 5 characters or fewer are masked entirely. Longer values
// show min(3, len/3) leading and min(2, len/4) trailing characters.
//
//	MaskValue("111222333")          // "111****33"
//	MaskValue("ABC")                // "***"
func MaskValue(value string) string {
	n := len(value)
	if n <= 5 {
		return strings.Repeat("*", n)
	}

	showStart := min(3, n/3)
	showEnd := min(2, n/4)

	return value[:showStart] + strings.Repeat("*", n-showStart-showEnd) + value[n-showEnd:]
}

// MaskCreditCard masks a card number, keeping only the last 4 digits.
// Separators are stripped before masking.
//
//	MaskCreditCard("4532-0151-1283-0366") // "************0366"
func MaskCreditCard(value string) string {
	digits := keepDigits(value)
	n := len(digits)
	if n < 13 {
		return strings.Repeat("*", n)
	}
	return strings.Repeat("*", n-4) + digits[n-4:]
}

// MaskEmail masks the local part of an address, keeping the first
// character and the full domain. Input without an "@" is masked
// entirely.
//
//	MaskEmail("john.doe@example.com") // "j*******@example.com"
func MaskEmail(email string) string {
	at := strings.IndexByte(email, '@')
	if at < 0 {
		return strings.Repeat("*", len(email))
	}

	local, domain := email[:at], email[at:]
	if local == "" {
		return email
	}

	return local[:1] + strings.Repeat("*", len(local)-1) + domain
}

// MaskIBAN masks an IBAN, keeping the two-letter country code and the
// last 4 characters. Whitespace is stripped first.
//
//	MaskIBAN("NL91 ABNA 0417 1643 00") // "NL************4300"
func MaskIBAN(iban string) string {
	var b strings.Builder
	for _, r := range iban {
		if r != ' ' && r != '\t' {
			b.WriteRune(r)
		}
	}
	clean := b.String()

	n := len(clean)
	if n < 6 {
		return strings.Repeat("*", n)
	}

	return clean[:2] + strings.Repeat("*", n-6) + clean[n-4:]
}

// MaskPhone masks a phone number, keeping the country or area prefix
// (3 characters when the number starts with "+", otherwise 2) and the
// last 3 digits.
//
//	MaskPhone("+31612345678") // "+31******678"
func MaskPhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if (r >= '0' && r <= '9') || r == '+' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	n := len(digits)
	if n < 6 {
		return strings.Repeat("*", n)
	}

	showStart := 2
	if strings.HasPrefix(digits, "+") {
		showStart = 3
	}

	return digits[:showStart] + strings.Repeat("*", n-showStart-3) + digits[n-3:]
}

func keepDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
