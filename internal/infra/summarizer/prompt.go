package summarizer

import (
	"fmt"
	"log/slog"

	"forum-summarizer/internal/domain/entity"
)

// maxPromptRunes caps the text embedded in a prompt.
const maxPromptRunes = 10000

const systemPrompt = "You summarize posts and comments from a local community forum. " +
	"Reply with the summary text only, in the same language as the original, " +
	"without a preamble, quotation marks or markdown."

var preferenceHints = map[string]string{
	"concise":  "Keep only the single most important point.",
	"balanced": "Cover the main points.",
	"detailed": "Cover the main points and the most useful details.",
}

// buildPrompt constructs the user prompt for req.
//
// Example output:
//
//	"Summarize the following text in 130 to 200 characters. Cover the main points.\n\n<text>\n...\n</text>"
func buildPrompt(req entity.SummaryRequest) string {
	hint, ok := preferenceHints[req.Preference]
	if !ok {
		hint = preferenceHints["balanced"]
	}
	return fmt.Sprintf("Summarize the following text in %d to %d characters. %s\n\n<text>\n%s\n</text>",
		req.MinLength, req.MaxLength, hint, clipInput(req.Text))
}

// clipInput truncates text to maxPromptRunes on a rune boundary.
func clipInput(s string) string {
	r := []rune(s)
	if len(r) <= maxPromptRunes {
		return s
	}
	slog.Warn("text truncated for upstream prompt",
		slog.Int("original_length", len(r)),
		slog.Int("truncated_length", maxPromptRunes))
	return string(r[:maxPromptRunes])
}
