// Package text provides rune-aware helpers for measuring and cutting text.
// Lengths are counted in Unicode characters so Japanese summaries and emoji
// are never split in the middle of a code point.
package text

import (
	"regexp"
	"strings"
)

// CountRunes counts the number of Unicode characters (runes) in the given text.
//
// Examples:
//
//	CountRunes("hello")     // returns 5
//	CountRunes("こんにちは") // returns 5
//	CountRunes("")          // returns 0
func CountRunes(text string) int {
	return len([]rune(text))
}

// Truncate returns at most limit characters of s.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

// TruncateWithEllipsis cuts s to limit characters and appends marker only when
// something was removed.
func TruncateWithEllipsis(s string, limit int, marker string) string {
	cut := Truncate(s, limit)
	if cut == s {
		return s
	}
	return cut + marker
}

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	newlineRun    = regexp.MustCompile(`\n+`)
)

// NormalizeWhitespace collapses whitespace runs into a single space, then
// newline runs into one newline, and trims the ends.
func NormalizeWhitespace(s string) string {
	s = whitespaceRun.ReplaceAllString(s, " ")
	s = newlineRun.ReplaceAllString(s, "\n")
	return strings.TrimSpace(s)
}
