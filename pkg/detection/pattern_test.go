package detection

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanLinesOffsets(t *testing.T) {
	re := regexp.MustCompile(`\d+`)
	text := "abc 123\nxy 45 678\n9"

	type hit struct {
		value string
		pos   linePos
	}
	var hits []hit
	scanLines(text, re, func(pos linePos, value string) {
		hits = append(hits, hit{value: value, pos: pos})
	})

	require.Len(t, hits, 4)

	assert.Equal(t, "123", hits[0].value)
	assert.Equal(t, linePos{line: 1, column: 4, startByte: 4, endByte: 7}, hits[0].pos)

	assert.Equal(t, "45", hits[1].value)
	assert.Equal(t, linePos{line: 2, column: 3, startByte: 11, endByte: 13}, hits[1].pos)

	assert.Equal(t, "678", hits[2].value)
	assert.Equal(t, linePos{line: 2, column: 6, startByte: 14, endByte: 17}, hits[2].pos)

	assert.Equal(t, "9", hits[3].value)
	assert.Equal(t, linePos{line: 3, column: 0, startByte: 18, endByte: 19}, hits[3].pos)
}

func TestScanLinesEmptyText(t *testing.T) {
	re := regexp.MustCompile(`\d+`)
	calls := 0
	scanLines("", re, func(linePos, string) { calls++ })
	assert.Zero(t, calls)
}

func TestScanLinesByteRangeMatchesText(t *testing.T) {
	re := regexp.MustCompile(`\d{9}`)
	text := "line one\nBSN 111222333 here\nline three"

	scanLines(text, re, func(pos linePos, value string) {
		// The byte range indexes the original text.
		assert.Equal(t, value, text[pos.startByte:pos.endByte])
	})
}

func TestExtractDigits(t *testing.T) {
	assert.Equal(t, "123456789", extractDigits("123-45-6789"))
	assert.Equal(t, "", extractDigits("abc"))
	assert.Equal(t, "42", extractDigits(" 4 2 "))
}
