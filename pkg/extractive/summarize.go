// Package extractive condenses free-form text into a bounded-length summary
// by selecting whole sentences from it.
//
// It is the fallback used when no ML summarizer is reachable, so it is
// deterministic, has no dependencies beyond the standard library and is
// total over all string inputs. All functions are safe for concurrent use.
//
// Usage:
//
//	budget := extractive.ResolveBudget(utf8.RuneCountInString(text), extractive.Concise, extractive.Overrides{})
//	summary := extractive.Summarize(text, budget)
package extractive

import "strings"

// Summarize returns an extractive summary of text that fits budget.
//
// Sentences are scored by term frequency and rarity with length and position
// adjustments, every paragraph contributes at least one sentence, and the
// selection is rendered in reading order. The result never exceeds
// budget.MaxLength runes. Whitespace-only input yields "". Input without any
// sentence structure yields its whitespace-normalised prefix. A summary that
// stays below budget.MinLength is padded with the normalised source.
func Summarize(text string, budget Budget) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	b := budget.sanitize()
	normalized := collapseWhitespace(text)

	sentences := Segment(text)
	if len(sentences) == 0 {
		return hardTruncate(normalized, b.MaxLength)
	}
	for i := range sentences {
		sentences[i].tokens = tokenize(sentences[i].Text)
	}

	stats := newCorpusStats(sentences)
	ranked := rank(sentences, stats)
	selected := selectSentences(ranked, desiredCount(stats.avgRunes, b), b.SentenceCountMin)

	summary := assemble(inOrder(sentences, selected), b.MaxLength)
	summary = backfillLength(summary, sentences, ranked, selected, b)

	if n := runeLen(summary); n < b.MinLength && runeLen(normalized) > n {
		summary = pad(summary, normalized)
	}
	return hardTruncate(summary, b.MaxLength)
}

// pad appends the normalised source to a summary that is still below the
// budget minimum. The caller truncates the result to the maximum.
func pad(summary, normalized string) string {
	if summary == "" {
		return normalized
	}
	return summary + " " + normalized
}
