package summarizer

import (
	"context"

	"forum-summarizer/internal/domain/entity"
)

// NoOp is the provider used when no upstream summarizer is configured.
// Every call fails with ErrProviderDisabled so callers go straight to the
// extractive fallback.
type NoOp struct{}

// NewNoOp creates a new NoOp provider.
func NewNoOp() *NoOp {
	return &NoOp{}
}

// Name returns "none".
func (n *NoOp) Name() string {
	return "none"
}

// Summarize always returns ErrProviderDisabled.
func (n *NoOp) Summarize(_ context.Context, _ entity.SummaryRequest) (entity.UpstreamSummary, error) {
	return entity.UpstreamSummary{}, ErrProviderDisabled
}
