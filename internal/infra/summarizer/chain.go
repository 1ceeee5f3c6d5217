package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sony/gobreaker"

	"forum-summarizer/internal/domain/entity"
	"forum-summarizer/internal/observability/logging"
)

// Chain tries its providers in order and returns the first success.
// Providers whose circuit breaker is open are skipped without a call.
type Chain struct {
	providers []Provider
}

// NewChain creates a Chain over providers. An empty chain behaves like NoOp.
func NewChain(providers ...Provider) *Chain {
	return &Chain{providers: providers}
}

// Name returns the provider names joined with ">" in the order they are tried.
func (c *Chain) Name() string {
	if len(c.providers) == 0 {
		return "none"
	}
	names := make([]string, len(c.providers))
	for i, p := range c.providers {
		names[i] = p.Name()
	}
	return strings.Join(names, ">")
}

// Len returns the number of providers.
func (c *Chain) Len() int {
	return len(c.providers)
}

// Summarize returns the summary of the first provider that succeeds.
// When every provider fails the error wraps ErrAllProvidersFailed and each
// provider's error. A cancelled ctx stops the chain immediately.
func (c *Chain) Summarize(ctx context.Context, req entity.SummaryRequest) (entity.UpstreamSummary, error) {
	if len(c.providers) == 0 {
		return entity.UpstreamSummary{}, ErrProviderDisabled
	}

	logger := logging.WithRequestID(ctx, slog.Default())
	var errs []error

	for _, p := range c.providers {
		if r, ok := p.(BreakerReporter); ok && r.CircuitState() == gobreaker.StateOpen {
			logger.DebugContext(ctx, "skipping provider with open circuit",
				slog.String("provider", p.Name()))
			errs = append(errs, fmt.Errorf("%s: %w", p.Name(), ErrCircuitOpen))
			continue
		}

		out, err := p.Summarize(ctx, req)
		if err == nil {
			return out, nil
		}
		errs = append(errs, err)

		if ctxErr := ctx.Err(); ctxErr != nil {
			return entity.UpstreamSummary{}, fmt.Errorf("%w: %w", ErrAllProvidersFailed, ctxErr)
		}
	}

	return entity.UpstreamSummary{}, fmt.Errorf("%w: %w", ErrAllProvidersFailed, errors.Join(errs...))
}

// Health reports each provider's circuit breaker state.
// Providers without a breaker are reported as "closed".
func (c *Chain) Health() map[string]string {
	health := make(map[string]string, len(c.providers))
	for _, p := range c.providers {
		state := gobreaker.StateClosed
		if r, ok := p.(BreakerReporter); ok {
			state = r.CircuitState()
		}
		health[p.Name()] = state.String()
	}
	return health
}

// Available reports whether at least one provider can currently be called.
func (c *Chain) Available() bool {
	for _, p := range c.providers {
		r, ok := p.(BreakerReporter)
		if !ok || r.CircuitState() != gobreaker.StateOpen {
			return true
		}
	}
	return false
}
