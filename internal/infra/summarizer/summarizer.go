// Package summarizer provides upstream (LLM-backed) summarizers.
// It includes adapters for Claude (Anthropic), OpenAI-compatible APIs and Gemini,
// a disabled NoOp provider and an ordered Chain. Every provider call runs under a
// timeout, a retry policy and a circuit breaker, and is observed through structured
// logging and Prometheus metrics.
package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"

	"forum-summarizer/internal/domain/entity"
	"forum-summarizer/internal/observability/logging"
	"forum-summarizer/internal/resilience/circuitbreaker"
	"forum-summarizer/internal/resilience/retry"
	"forum-summarizer/internal/utils/text"
)

var (
	// ErrProviderDisabled is returned when no upstream summarizer is configured.
	ErrProviderDisabled = entity.ErrUpstreamDisabled

	// ErrEmptyResponse is returned when a provider answers without any text.
	// It is retried once.
	ErrEmptyResponse = entity.ErrEmptyUpstreamResponse

	// ErrCircuitOpen is returned when a provider's circuit breaker rejects the call.
	ErrCircuitOpen = circuitbreaker.ErrOpen

	// ErrAllProvidersFailed is returned by Chain when no provider succeeded.
	ErrAllProvidersFailed = errors.New("all upstream summarizers failed")
)

// Provider is an upstream summarizer.
type Provider interface {
	// Summarize returns a summary of req.Text aiming at the req length window.
	Summarize(ctx context.Context, req entity.SummaryRequest) (entity.UpstreamSummary, error)

	// Name returns the provider name used in logs, metrics and health output.
	Name() string
}

// BreakerReporter is implemented by providers guarded by a circuit breaker.
type BreakerReporter interface {
	CircuitState() gobreaker.State
}

// guard wraps single provider requests with timeout, retry, circuit breaker,
// logging and metrics.
type guard struct {
	provider string
	breaker  *circuitbreaker.CircuitBreaker
	retry    retry.Config
	timeout  time.Duration
	metrics  SummaryMetricsRecorder
}

func newGuard(provider string, cfg ProviderConfig, metrics SummaryMetricsRecorder) guard {
	if metrics == nil {
		metrics = NewPrometheusSummaryMetrics()
	}
	return guard{
		provider: provider,
		breaker:  circuitbreaker.New(cfg.Breaker),
		retry:    cfg.Retry,
		timeout:  cfg.Timeout,
		metrics:  metrics,
	}
}

// CircuitState returns the state of the provider's circuit breaker.
func (g *guard) CircuitState() gobreaker.State {
	return g.breaker.State()
}

// call runs fn, a single request to the provider, and returns its trimmed text.
func (g *guard) call(ctx context.Context, req entity.SummaryRequest, model string, fn func(ctx context.Context) (string, error)) (entity.UpstreamSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	logger := logging.WithRequestID(ctx, slog.Default()).With(
		slog.String("call_id", uuid.New().String()),
		slog.String("provider", g.provider),
		slog.String("model", model))

	logger.InfoContext(ctx, "Starting summarization",
		slog.Int("input_length", text.CountRunes(req.Text)),
		slog.Int("min_length", req.MinLength),
		slog.Int("max_length", req.MaxLength))

	start := time.Now()
	var summary string

	retryErr := retry.WithBackoff(ctx, g.retry, logger, func() error {
		out, err := g.breaker.Summarize(func() (string, error) {
			out, err := fn(ctx)
			if err != nil {
				return "", err
			}
			out = strings.TrimSpace(out)
			if out == "" {
				return "", ErrEmptyResponse
			}
			return out, nil
		})
		if errors.Is(err, ErrCircuitOpen) {
			logger.WarnContext(ctx, "circuit breaker open, request rejected",
				slog.String("state", g.breaker.State().String()))
		}
		if err != nil {
			return err
		}

		summary = out
		return nil
	})

	duration := time.Since(start)
	g.metrics.RecordDuration(g.provider, duration)

	if retryErr != nil {
		g.metrics.RecordError(g.provider)
		logger.WarnContext(ctx, "Summarization failed",
			slog.Duration("duration", duration),
			slog.String("error", retryErr.Error()))
		return entity.UpstreamSummary{}, fmt.Errorf("%s summarize failed: %w", g.provider, retryErr)
	}

	summaryLength := text.CountRunes(summary)
	withinLimit := req.MaxLength <= 0 || summaryLength <= req.MaxLength

	logger.InfoContext(ctx, "Summarization completed",
		slog.Int("summary_length", summaryLength),
		slog.Int("max_length", req.MaxLength),
		slog.Bool("within_limit", withinLimit),
		slog.Duration("duration", duration))

	if !withinLimit {
		logger.WarnContext(ctx, "Summary exceeds character limit",
			slog.Int("summary_length", summaryLength),
			slog.Int("limit", req.MaxLength),
			slog.Int("excess", summaryLength-req.MaxLength))
	}

	g.metrics.RecordLength(g.provider, summaryLength)
	g.metrics.RecordCompliance(g.provider, withinLimit)
	if !withinLimit {
		g.metrics.RecordLimitExceeded(g.provider)
	}

	return entity.UpstreamSummary{Text: summary, Provider: g.provider, Model: model}, nil
}
