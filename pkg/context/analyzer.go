// Package context analyzes the text around a PII match for GDPR
// special-category indicators (Art. 9 and Art. 10). When keywords from
// a category appear near a match, the scan engine upgrades the match
// to critical severity and tags it with the category.
package context

import (
	_ "embed"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/silv3rshi3ld/gdpr-pii-scanner/pkg/detection"
)

//go:embed keywords.yaml
var keywordsYAML []byte

// keywordLists mirrors keywords.yaml.
type keywordLists struct {
	Medical   []string `yaml:"medical"`
	Biometric []string `yaml:"biometric"`
	Genetic   []string `yaml:"genetic"`
	Criminal  []string `yaml:"criminal"`
}

// windowSize is the number of characters inspected before and after a
// match.
const windowSize = 50

// Analyzer detects GDPR special-category context around matches. It is
// immutable after construction and safe for concurrent use.
type Analyzer struct {
	categories []categoryKeywords
}

type categoryKeywords struct {
	category detection.SpecialCategory
	keywords []string
}

// NewAnalyzer builds an analyzer from the embedded multilingual
// keyword lists.
func NewAnalyzer() *Analyzer {
	var lists keywordLists
	// The embedded file is part of the build; a parse failure is a
	// programming error.
	if err := yaml.Unmarshal(keywordsYAML, &lists); err != nil {
		panic("context: invalid embedded keywords.yaml: " + err.Error())
	}

	// Category order matters: when keywords from several categories
	// appear in one window, the last checked category wins.
	return &Analyzer{
		categories: []categoryKeywords{
			{detection.CategoryMedical, lowercaseAll(lists.Medical)},
			{detection.CategoryBiometric, lowercaseAll(lists.Biometric)},
			{detection.CategoryGenetic, lowercaseAll(lists.Genetic)},
			{detection.CategoryCriminal, lowercaseAll(lists.Criminal)},
		},
	}
}

// Analyze inspects the window around [matchStart, matchEnd) in text.
// It returns nil when no category keywords are found.
func (a *Analyzer) Analyze(text string, matchStart, matchEnd int) *detection.ContextInfo {
	if matchStart < 0 || matchEnd > len(text) || matchStart > matchEnd {
		return nil
	}

	beforeStart := matchStart - windowSize
	if beforeStart < 0 {
		beforeStart = 0
	}
	afterEnd := matchEnd + windowSize
	if afterEnd > len(text) {
		afterEnd = len(text)
	}

	before := text[beforeStart:matchStart]
	after := text[matchEnd:afterEnd]
	window := strings.ToLower(before + after)

	var (
		detected []string
		category detection.SpecialCategory
		found    bool
	)

	for _, c := range a.categories {
		for _, keyword := range c.keywords {
			if strings.Contains(window, keyword) {
				detected = append(detected, keyword)
				category = c.category
				found = true
			}
		}
	}

	if !found {
		return nil
	}

	return &detection.ContextInfo{
		Before:   before,
		After:    after,
		Keywords: detected,
		Category: category,
	}
}

func lowercaseAll(keywords []string) []string {
	out := make([]string, len(keywords))
	for i, k := range keywords {
		out[i] = strings.ToLower(k)
	}
	return out
}
