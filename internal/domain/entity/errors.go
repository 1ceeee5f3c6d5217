package entity

import (
	"errors"
	"fmt"
)

// Sentinel errors for summary requests.
var (
	// ErrEmptyText indicates that the submitted text is empty or whitespace only
	ErrEmptyText = errors.New("text is required")

	// ErrTextTooLong indicates that the submitted text exceeds the input cap
	ErrTextTooLong = errors.New("text exceeds maximum length")

	// ErrEmptySummary indicates that neither the upstream model nor the
	// extractive fallback produced any text
	ErrEmptySummary = errors.New("summary is empty")

	// ErrInvalidInput indicates that the provided input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrUpstreamDisabled indicates that no upstream summarizer is configured
	ErrUpstreamDisabled = errors.New("upstream summarizer disabled")

	// ErrUpstreamUnavailable indicates that the upstream summarizer rejected
	// the call without trying, e.g. because its circuit breaker is open
	ErrUpstreamUnavailable = errors.New("upstream summarizer unavailable")

	// ErrEmptyUpstreamResponse indicates that the upstream summarizer answered
	// without any text
	ErrEmptyUpstreamResponse = errors.New("upstream returned empty summary")
)

// ValidationError represents a validation error with detailed field information.
// It implements the error interface and provides context about which field failed validation.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error returns a formatted error message for the validation error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// Unwrap exposes the sentinel behind the validation failure, if any.
func (e *ValidationError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}
