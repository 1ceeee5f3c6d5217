// Package text provides small helpers for counting and normalising user text.
// Lengths throughout the service are measured in Unicode code points, never bytes.
package text

import (
	"strings"
	"unicode/utf8"
)

// CountRunes counts the number of Unicode characters (runes) in the given text.
// Multi-byte characters such as Japanese text or emoji count as one each.
//
// Examples:
//
//	CountRunes("hello")     // returns 5
//	CountRunes("こんにちは") // returns 5
//	CountRunes("Hello👋")   // returns 6
//	CountRunes("")          // returns 0
func CountRunes(text string) int {
	return utf8.RuneCountInString(text)
}

// IsBlank reports whether text is empty or contains only whitespace.
func IsBlank(text string) bool {
	return strings.TrimSpace(text) == ""
}

// Normalize collapses every whitespace run to a single space and trims the ends.
func Normalize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
