package summary

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"forum-summarizer/internal/domain/entity"
	"forum-summarizer/internal/handler/http/respond"
	"forum-summarizer/internal/observability/logging"
	"forum-summarizer/internal/observability/tracing"
)

// Summarizer produces a summary for a text and its options.
type Summarizer interface {
	Summarize(ctx context.Context, text string, opts entity.SummaryOptions) (*entity.SummaryResult, error)
}

var (
	errInvalidBody  = errors.New("invalid request body: malformed JSON")
	errBodyTooLarge = errors.New("request body too large")
)

const summaryFailedMsg = "failed to generate summary"

type CreateHandler struct{ Svc Summarizer }

// ServeHTTP creates a summary
// @Summary      Summarize a text
// @Description  Summarizes a post or comment. An upstream model is tried first; when it is disabled, slow or failing the extractive algorithm answers and fallback is true.
// @Tags         summaries
// @Accept       json
// @Produce      json
// @Param        request body CreateRequest true "Text and options"
// @Success      200 {object} CreateResponse
// @Failure      400 {object} respond.ErrorResponse "Malformed JSON, empty text or text over the input cap"
// @Failure      413 {object} respond.ErrorResponse "Request body too large"
// @Failure      415 {object} respond.ErrorResponse "Content-Type is not application/json"
// @Failure      429 {object} respond.ErrorResponse "Too many requests - rate limit exceeded"
// @Header       429 {integer} Retry-After "Seconds until the client should retry"
// @Failure      500 {object} respond.ErrorResponse "No summary could be produced"
// @Router       /summaries [post]
func (h CreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respond.Error(w, http.StatusRequestEntityTooLarge, errBodyTooLarge)
			return
		}
		respond.Error(w, http.StatusBadRequest, errInvalidBody)
		return
	}

	result, err := h.Svc.Summarize(r.Context(), req.Text, req.Options.toEntity())
	if err != nil {
		var verr *entity.ValidationError
		switch {
		case errors.As(err, &verr):
			respond.JSON(w, http.StatusBadRequest, respond.ErrorResponse{Error: verr.Message})
		case errors.Is(err, entity.ErrEmptySummary):
			logging.WithRequestID(r.Context(), slog.Default()).ErrorContext(r.Context(),
				"summary generation produced no text",
				slog.Int("input_bytes", len(req.Text)))
			respond.ErrorWithDetails(w, http.StatusInternalServerError, summaryFailedMsg, err.Error())
		default:
			respond.SafeError(w, http.StatusInternalServerError, err)
		}
		return
	}

	tracing.AnnotateSummary(r.Context(), result.Options.LengthPreference, result.Model, result.Fallback)
	respond.JSON(w, http.StatusOK, toResponse(result))
}
