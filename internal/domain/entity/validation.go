package entity

import (
	"fmt"

	"forum-summarizer/internal/utils/text"
)

// DefaultMaxInputRunes is the input cap applied when none is configured.
const DefaultMaxInputRunes = 4000

// ValidateText checks a text submitted for summarization.
// It rejects blank input and input longer than maxRunes code points.
// A non-positive maxRunes disables the length check.
// Returned errors are *ValidationError wrapping ErrEmptyText or ErrTextTooLong.
func ValidateText(input string, maxRunes int) error {
	if text.IsBlank(input) {
		return &ValidationError{Field: "text", Message: "text is required", Err: ErrEmptyText}
	}

	// DoS protection: enforce maximum input length
	if maxRunes > 0 && text.CountRunes(input) > maxRunes {
		return &ValidationError{
			Field:   "text",
			Message: fmt.Sprintf("text must not exceed %d characters", maxRunes),
			Err:     ErrTextTooLong,
		}
	}

	return nil
}
