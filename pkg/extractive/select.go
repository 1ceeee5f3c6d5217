package extractive

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// Ellipsis marks every truncation.
	Ellipsis = "…"

	// minFragmentRunes is the smallest room worth filling with a cut sentence.
	minFragmentRunes = 10

	// minAverageSentenceRunes keeps short-sentence texts from inflating the quota.
	minAverageSentenceRunes = 85
)

// desiredCount estimates how many sentences fit in the budget, biased one
// sentence upwards, then clamps to the preference's sentence range.
func desiredCount(avgRunes float64, b Budget) int {
	avg := math.Max(avgRunes, minAverageSentenceRunes)
	raw := int(math.Floor(float64(b.MaxLength)/avg)) + 1
	return clamp(raw, b.SentenceCountMin, b.SentenceCountMax)
}

// selectSentences picks sentence indexes from the ranked list. Every
// paragraph first contributes its best sentence, then the quota is filled
// from the top of the ranking, then the minimum count is backfilled.
func selectSentences(ranked []scoredSentence, desired, minCount int) map[int]bool {
	selected := make(map[int]bool, desired)

	covered := make(map[int]bool)
	for _, c := range ranked {
		if covered[c.sentence.Paragraph] {
			continue
		}
		covered[c.sentence.Paragraph] = true
		selected[c.originalIndex] = true
	}

	fill := func(target int) {
		for _, c := range ranked {
			if len(selected) >= target {
				return
			}
			selected[c.originalIndex] = true
		}
	}
	fill(desired)
	fill(minCount)

	return selected
}

// inOrder returns the selected sentences in reading order.
func inOrder(sentences []Sentence, selected map[int]bool) []Sentence {
	out := make([]Sentence, 0, len(selected))
	for _, s := range sentences {
		if selected[s.Index] {
			out = append(out, s)
		}
	}
	return out
}

// assemble joins sentences with single spaces until maxLength is reached.
// The sentence that would overflow is cut at a word boundary; if nothing fit
// yet the first sentence itself is cut.
func assemble(sentences []Sentence, maxLength int) string {
	var b strings.Builder
	length := 0
	for _, s := range sentences {
		n := runeLen(s.Text)
		if length == 0 {
			if n > maxLength {
				return truncateAtWord(s.Text, maxLength)
			}
			b.WriteString(s.Text)
			length = n
			continue
		}
		if length+1+n <= maxLength {
			b.WriteByte(' ')
			b.WriteString(s.Text)
			length += 1 + n
			continue
		}
		if room := maxLength - length - 1; room >= minFragmentRunes {
			b.WriteByte(' ')
			b.WriteString(truncateAtWord(s.Text, room))
		}
		break
	}
	return b.String()
}

// backfillLength adds unused sentences, best ranked first, while the summary
// is shorter than the budget minimum. Candidates that do not lengthen the
// re-assembled summary are put back.
func backfillLength(summary string, sentences []Sentence, ranked []scoredSentence, selected map[int]bool, b Budget) string {
	length := runeLen(summary)
	for _, c := range ranked {
		if length >= b.MinLength {
			break
		}
		if selected[c.originalIndex] {
			continue
		}
		selected[c.originalIndex] = true
		candidate := assemble(inOrder(sentences, selected), b.MaxLength)
		if n := runeLen(candidate); n > length {
			summary, length = candidate, n
			continue
		}
		delete(selected, c.originalIndex)
	}
	return summary
}

// truncateAtWord shortens s to at most limit runes, preferring to cut at the
// last space in the second half of the allowed prefix.
func truncateAtWord(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	if limit < 1 {
		return ""
	}
	cut := r[:limit-1]
	for i := len(cut) - 1; i > len(cut)/2; i-- {
		if unicode.IsSpace(cut[i]) {
			cut = cut[:i]
			break
		}
	}
	head := strings.TrimRightFunc(string(cut), func(r rune) bool {
		return unicode.IsSpace(r) || r == ',' || r == ';' || r == ':'
	})
	return head + Ellipsis
}

// hardTruncate cuts s to limit-1 runes, trims trailing whitespace and appends
// a single ellipsis. Strings within the limit are returned unchanged.
func hardTruncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	if limit < 1 {
		return ""
	}
	return strings.TrimRightFunc(string(r[:limit-1]), unicode.IsSpace) + Ellipsis
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

// Truncate applies the same hard truncation rule Summarize uses to any text,
// so callers can bound summaries produced elsewhere.
func Truncate(s string, limit int) string {
	return hardTruncate(s, limit)
}
