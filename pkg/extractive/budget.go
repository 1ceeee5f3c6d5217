package extractive

import (
	"math"
	"strings"
)

// LengthPreference is the coarse summary length a caller asks for.
type LengthPreference string

const (
	// Concise asks for the shortest summaries.
	Concise LengthPreference = "concise"
	// Balanced is the default preference.
	Balanced LengthPreference = "balanced"
	// Detailed asks for the longest summaries.
	Detailed LengthPreference = "detailed"
)

const (
	// MinSummaryLength is the global floor for both ends of a budget.
	MinSummaryLength = 30

	// MaxSummaryLength is the global ceiling for the ratio-derived maximum.
	MaxSummaryLength = 560

	// minWindow is the guaranteed gap between MinLength and MaxLength.
	minWindow = 5

	// minHeadroom keeps a resolved minimum below the maximum.
	minHeadroom = 10
)

type lengthRatios struct {
	max float64
	min float64
}

type sentenceRange struct {
	min int
	max int
}

var lengthPolicy = map[LengthPreference]lengthRatios{
	Concise:  {max: 0.24, min: 0.5},
	Balanced: {max: 0.35, min: 0.65},
	Detailed: {max: 0.55, min: 0.8},
}

var sentencePolicy = map[LengthPreference]sentenceRange{
	Concise:  {min: 2, max: 4},
	Balanced: {min: 3, max: 5},
	Detailed: {min: 4, max: 6},
}

// ParseLengthPreference maps a caller-supplied string to a LengthPreference.
// Matching ignores case and surrounding whitespace. Unknown or empty values
// resolve to Balanced.
func ParseLengthPreference(s string) LengthPreference {
	p := LengthPreference(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := lengthPolicy[p]; ok {
		return p
	}
	return Balanced
}

// Valid reports whether p is one of the known preferences.
func (p LengthPreference) Valid() bool {
	_, ok := lengthPolicy[p]
	return ok
}

// Budget is the concrete length window a summary has to fit in.
// Lengths are counted in Unicode code points.
type Budget struct {
	MinLength        int
	MaxLength        int
	SentenceCountMin int
	SentenceCountMax int
	Preference       LengthPreference
}

// Overrides carries optional explicit bounds. A nil field means "derive it
// from the preference".
type Overrides struct {
	MinLength *int
	MaxLength *int
}

// ResolveBudget turns an input length and a preference into a Budget.
//
// The maximum is derived from the preference's ratio of the input length, the
// minimum from a ratio of the maximum. Explicit overrides replace the derived
// values but are clamped the same way. The result always satisfies
// MaxLength >= MinLength+5 and MinLength >= MinSummaryLength.
//
// Example:
//
//	b := ResolveBudget(1200, Concise, Overrides{})
//	// b.MaxLength == 288, b.MinLength == 144, sentences 2..4
func ResolveBudget(inputLength int, pref LengthPreference, o Overrides) Budget {
	if inputLength < 0 {
		inputLength = 0
	}
	if !pref.Valid() {
		pref = Balanced
	}
	ratios := lengthPolicy[pref]

	estimatedMax := clamp(roundHalfUp(float64(inputLength)*ratios.max), MinSummaryLength, MaxSummaryLength)

	maxLength := estimatedMax
	if o.MaxLength != nil {
		maxLength = *o.MaxLength
	}
	maxLength = clamp(maxLength, MinSummaryLength, MaxSummaryLength)

	minLength := roundHalfUp(float64(maxLength) * ratios.min)
	if o.MinLength != nil {
		minLength = *o.MinLength
	}
	minLength = clamp(minLength, MinSummaryLength, max(MinSummaryLength, maxLength-minHeadroom))

	sentences := sentencePolicy[pref]
	return Budget{
		MinLength:        minLength,
		MaxLength:        max(minLength+minWindow, maxLength),
		SentenceCountMin: sentences.min,
		SentenceCountMax: sentences.max,
		Preference:       pref,
	}
}

// sanitize makes a hand-built budget usable by Summarize. Budgets coming from
// ResolveBudget pass through unchanged.
func (b Budget) sanitize() Budget {
	if b.MaxLength < 1 {
		b.MaxLength = 1
	}
	if b.MinLength < 0 {
		b.MinLength = 0
	}
	if b.MinLength > b.MaxLength {
		b.MinLength = b.MaxLength
	}
	if b.SentenceCountMin < 1 {
		b.SentenceCountMin = 1
	}
	if b.SentenceCountMax < b.SentenceCountMin {
		b.SentenceCountMax = b.SentenceCountMin
	}
	return b
}

func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
