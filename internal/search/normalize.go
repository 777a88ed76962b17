package search

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Normalize canonicalizes text for search comparison: NFKC collapses
// full-width/half-width and composed variants, letters fold to lowercase,
// and Katakana folds to Hiragana so the two scripts match each other.
// Total and pure; empty input yields empty output.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ToLower(norm.NFKC.String(s))
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		// Katakana block U+30A1..U+30F6 sits 0x60 above Hiragana.
		if r >= 0x30A1 && r <= 0x30F6 {
			r -= 0x60
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Terms splits a query into normalized whitespace-delimited tokens.
// A blank or whitespace-only query produces no terms.
func Terms(query string) []string {
	return strings.Fields(Normalize(query))
}
