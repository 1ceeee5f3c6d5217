// Package summary provides the HTTP handler for summary requests.
package summary

import "forum-summarizer/internal/domain/entity"

// CreateRequest is the JSON body of POST /summaries.
type CreateRequest struct {
	Text    string      `json:"text" example:"The city council met on Tuesday evening. Members debated the new transit budget."`
	Options *OptionsDTO `json:"options,omitempty"`
}

// OptionsDTO carries the optional summary knobs. Unknown values fall back to defaults.
type OptionsDTO struct {
	LengthPreference string `json:"lengthPreference,omitempty" enums:"concise,balanced,detailed" example:"balanced"`
	Quality          string `json:"quality,omitempty" enums:"fast,standard,high" example:"standard"`
	MinLength        *int   `json:"minLength,omitempty" example:"130"`
	MaxLength        *int   `json:"maxLength,omitempty" example:"200"`
	Format           string `json:"format,omitempty" enums:"text,html" example:"text"`
}

func (o *OptionsDTO) toEntity() entity.SummaryOptions {
	if o == nil {
		return entity.SummaryOptions{}
	}
	return entity.SummaryOptions{
		LengthPreference: o.LengthPreference,
		Quality:          o.Quality,
		MinLength:        o.MinLength,
		MaxLength:        o.MaxLength,
		Format:           o.Format,
	}
}

// ResolvedOptionsDTO echoes the options that were actually applied.
type ResolvedOptionsDTO struct {
	LengthPreference string `json:"lengthPreference" example:"balanced"`
	Quality          string `json:"quality" example:"standard"`
	Format           string `json:"format" example:"text"`
	MinLength        int    `json:"minLength" example:"130"`
	MaxLength        int    `json:"maxLength" example:"200"`
}

// CreateResponse is the JSON body of a successful POST /summaries.
// Fallback is omitted unless the extractive algorithm produced the summary.
type CreateResponse struct {
	Summary  string             `json:"summary" example:"The city council met on Tuesday evening. Members debated the new transit budget."`
	Model    string             `json:"model" example:"extractive"`
	Options  ResolvedOptionsDTO `json:"options"`
	Fallback bool               `json:"fallback,omitempty" example:"true"`
}

func toResponse(r *entity.SummaryResult) CreateResponse {
	return CreateResponse{
		Summary: r.Summary,
		Model:   r.Model,
		Options: ResolvedOptionsDTO{
			LengthPreference: r.Options.LengthPreference,
			Quality:          r.Options.Quality,
			Format:           r.Options.Format,
			MinLength:        r.Options.MinLength,
			MaxLength:        r.Options.MaxLength,
		},
		Fallback: r.Fallback,
	}
}
