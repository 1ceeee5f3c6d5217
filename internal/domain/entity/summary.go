package entity

import "strings"

// Quality selects the upstream model tier used for a summary.
type Quality string

const (
	QualityFast     Quality = "fast"
	QualityStandard Quality = "standard"
	QualityHigh     Quality = "high"
)

// ParseQuality maps a caller-supplied string to a Quality.
// Unknown or empty values resolve to QualityStandard.
func ParseQuality(s string) Quality {
	q := Quality(strings.ToLower(strings.TrimSpace(s)))
	if q.Valid() {
		return q
	}
	return QualityStandard
}

// Valid reports whether q is a known tier.
func (q Quality) Valid() bool {
	switch q {
	case QualityFast, QualityStandard, QualityHigh:
		return true
	}
	return false
}

// InputFormat describes how the submitted text is encoded.
type InputFormat string

const (
	FormatText InputFormat = "text"
	FormatHTML InputFormat = "html"
)

// ParseInputFormat maps a caller-supplied string to an InputFormat.
// Anything other than "html" is treated as plain text.
func ParseInputFormat(s string) InputFormat {
	if strings.EqualFold(strings.TrimSpace(s), string(FormatHTML)) {
		return FormatHTML
	}
	return FormatText
}

// SummaryOptions are the optional knobs a caller may send with a text.
// Nil length fields mean "derive from the length preference".
type SummaryOptions struct {
	LengthPreference string
	Quality          string
	MinLength        *int
	MaxLength        *int
	Format           string
}

// SummaryRequest is what an upstream summarizer receives once the options
// have been resolved into a concrete length window.
type SummaryRequest struct {
	Text       string
	MinLength  int
	MaxLength  int
	Preference string
	Quality    Quality
}

// ResolvedOptions echoes the effective options back to the caller.
type ResolvedOptions struct {
	LengthPreference string `json:"lengthPreference"`
	Quality          string `json:"quality"`
	Format           string `json:"format"`
	MinLength        int    `json:"minLength"`
	MaxLength        int    `json:"maxLength"`
}

// SummaryResult is the outcome of one summarization.
// Fallback is true when the extractive algorithm produced Summary.
type SummaryResult struct {
	Summary  string
	Model    string
	Options  ResolvedOptions
	Fallback bool
}

// UpstreamSummary is the text returned by an upstream model together with
// the provider and model that produced it.
type UpstreamSummary struct {
	Text     string
	Provider string
	Model    string
}
