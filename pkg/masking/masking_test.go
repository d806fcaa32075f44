package masking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskValue(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected string
	}{
		{name: "nine digit id", value: "111222333", expected: "111****33"},
		{name: "short value fully masked", value: "ABC", expected: "***"},
		{name: "five chars fully masked", value: "12345", expected: "*****"},
		{name: "ten chars", value: "ABCDEFGHIJ", expected: "ABC*****IJ"},
		{name: "empty", value: "", expected: ""},
		{name: "six chars", value: "ABCDEF", expected: "AB***F"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MaskValue(tt.value))
		})
	}
}

func TestMaskValueLengthPreserved(t *testing.T) {
	for _, v := range []string{"", "a", "abcdef", "111222333", "NL91ABNA0417164300"} {
		assert.Len(t, MaskValue(v), len(v))
	}
}

func TestMaskValueDeterministic(t *testing.T) {
	assert.Equal(t, MaskValue("123456782"), MaskValue("123456782"))
}

func TestMaskCreditCard(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected string
	}{
		{name: "visa", value: "4532015112830366", expected: "************0366"},
		{name: "mastercard", value: "5425233430109903", expected: "************9903"},
		{name: "formatted with spaces", value: "4532 0151 1283 0366", expected: "************0366"},
		{name: "formatted with dashes", value: "4532-0151-1283-0366", expected: "************0366"},
		{name: "amex 15 digits", value: "378282246310005", expected: "***********0005"},
		{name: "too short fully masked", value: "123456", expected: "******"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MaskCreditCard(tt.value))
		})
	}
}

func TestMaskEmail(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected string
	}{
		{name: "regular address", value: "john.doe@example.com", expected: "j*******@example.com"},
		{name: "single char local", value: "a@b.com", expected: "a@b.com"},
		{name: "uk domain", value: "admin@company.co.uk", expected: "a****@company.co.uk"},
		{name: "no at sign fully masked", value: "not-an-email", expected: "************"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MaskEmail(tt.value))
		})
	}
}

func TestMaskIBAN(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected string
	}{
		{name: "dutch", value: "NL91ABNA0417164300", expected: "NL************4300"},
		{name: "german", value: "DE89370400440532013000", expected: "DE****************3000"},
		{name: "spaced", value: "NL91 ABNA 0417 1643 00", expected: "NL************4300"},
		{name: "too short", value: "NL91", expected: "****"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MaskIBAN(tt.value))
		})
	}
}

func TestMaskPhone(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected string
	}{
		{name: "international", value: "+31612345678", expected: "+31******678"},
		{name: "national", value: "0612345678", expected: "06*****678"},
		{name: "spaced international", value: "+44 20 1234 5678", expected: "+44*******678"},
		{name: "too short", value: "12345", expected: "*****"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MaskPhone(tt.value))
		})
	}
}
