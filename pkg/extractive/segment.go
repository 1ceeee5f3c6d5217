package extractive

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	paragraphBreak = regexp.MustCompile(`\n[ \t\f\v]*\n`)

	// sentencePattern matches a run ending in terminal punctuation (plus any
	// closing quotes or brackets) or the unterminated tail of a paragraph.
	sentencePattern = regexp.MustCompile(`[^.!?]+[.!?]+["')\]]*|[^.!?]+$`)

	listMarker = regexp.MustCompile(`^\(?\d+[.)]+$`)
)

// Sentence is one unit produced by Segment.
type Sentence struct {
	// Text is the rendered sentence with whitespace collapsed.
	Text string
	// Paragraph is the zero-based index of the originating paragraph.
	Paragraph int
	// Index is the zero-based position in the whole document.
	Index int

	tokens []string
}

// Segment splits text into paragraphs and sentences the same way Summarize
// does. It is exported for diagnostics.
func Segment(text string) []Sentence {
	var sentences []Sentence
	for p, para := range splitParagraphs(text) {
		for _, s := range splitSentences(para) {
			sentences = append(sentences, Sentence{
				Text:      s,
				Paragraph: p,
				Index:     len(sentences),
			})
		}
	}
	return sentences
}

// splitParagraphs returns the non-empty blank-line separated blocks of text
// with whitespace collapsed. Text without blank lines is one paragraph.
func splitParagraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var out []string
	for _, block := range paragraphBreak.Split(text, -1) {
		if p := collapseWhitespace(block); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// splitSentences splits one paragraph. Standalone numeric list markers are
// absorbed by the sentence that follows them and pieces opening with a
// closing quote or bracket continue the previous sentence.
func splitSentences(paragraph string) []string {
	var (
		out     []string
		pending string
	)
	for _, raw := range sentencePattern.FindAllString(paragraph, -1) {
		piece := strings.TrimSpace(raw)
		if piece == "" {
			continue
		}
		if listMarker.MatchString(piece) {
			pending = piece
			continue
		}
		if pending == "" && len(out) > 0 && startsWithContinuation(piece) {
			sep := ""
			if r := []rune(raw); len(r) > 0 && unicode.IsSpace(r[0]) {
				sep = " "
			}
			out[len(out)-1] += sep + piece
			continue
		}
		pending = ""
		out = append(out, piece)
	}
	if pending != "" {
		out = append(out, pending)
	}
	return out
}

func startsWithContinuation(s string) bool {
	for _, r := range s {
		switch r {
		case '"', '\'', '“', '”', '‘', '’', ')', ']':
			return true
		}
		return false
	}
	return false
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
