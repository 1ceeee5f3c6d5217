package summary

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"

	"forum-summarizer/internal/domain/entity"
	"forum-summarizer/internal/observability/logging"
	"forum-summarizer/internal/observability/metrics"
	"forum-summarizer/internal/observability/tracing"
	"forum-summarizer/internal/utils/text"
	"forum-summarizer/pkg/extractive"
)

// ExtractiveModel is reported as the model of fallback summaries.
const ExtractiveModel = "extractive"

// Upstream is an ML summarizer tried before the extractive fallback.
type Upstream interface {
	Summarize(ctx context.Context, req entity.SummaryRequest) (entity.UpstreamSummary, error)
	Name() string
}

// ResultCache stores finished summaries by request key.
type ResultCache interface {
	Get(key string) (entity.SummaryResult, bool)
	Set(key string, value entity.SummaryResult)
	Len() int
}

// HTMLExtractor converts HTML input into paragraph-structured plain text.
type HTMLExtractor func(html string) (string, error)

// Config holds the limits applied by Service.
type Config struct {
	// MaxInputRunes caps the input length in characters.
	MaxInputRunes int

	// UpstreamTimeout bounds waiting for an admission slot plus the upstream call.
	UpstreamTimeout time.Duration

	// MaxConcurrentUpstream is the number of upstream calls allowed in flight.
	MaxConcurrentUpstream int64
}

// DefaultConfig returns the default service limits.
func DefaultConfig() Config {
	return Config{
		MaxInputRunes:         entity.DefaultMaxInputRunes,
		UpstreamTimeout:       8 * time.Second,
		MaxConcurrentUpstream: 8,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MaxInputRunes <= 0 {
		c.MaxInputRunes = d.MaxInputRunes
	}
	if c.UpstreamTimeout <= 0 {
		c.UpstreamTimeout = d.UpstreamTimeout
	}
	if c.MaxConcurrentUpstream <= 0 {
		c.MaxConcurrentUpstream = d.MaxConcurrentUpstream
	}
	return c
}

// Service produces summaries: it tries the upstream summarizer first and
// falls back to the extractive algorithm when the upstream is disabled,
// fails, or returns nothing.
//
// Thread safety: Service is safe for concurrent use.
type Service struct {
	Upstream    Upstream      // nil disables the upstream path
	Cache       ResultCache   // nil disables caching
	ExtractHTML HTMLExtractor // nil treats html input as text

	config Config
	sem    *semaphore.Weighted
	group  singleflight.Group
}

// NewService creates a summary Service.
//
// Parameters:
//   - upstream: ML summarizer tried first (nil for extractive only)
//   - cache: finished-summary cache (nil to disable)
//   - extractHTML: HTML to text converter used for format "html" (nil to disable)
//   - cfg: limits; zero fields take DefaultConfig values
//
// Returns:
//   - *Service: Configured service ready to use
func NewService(upstream Upstream, cache ResultCache, extractHTML HTMLExtractor, cfg Config) *Service {
	cfg = cfg.withDefaults()
	return &Service{
		Upstream:    upstream,
		Cache:       cache,
		ExtractHTML: extractHTML,
		config:      cfg,
		sem:         semaphore.NewWeighted(cfg.MaxConcurrentUpstream),
	}
}

// Config returns the effective limits.
func (s *Service) Config() Config {
	return s.config
}

// Summarize returns a summary of input honoring opts.
//
// Returns:
//   - *entity.SummaryResult: the summary with the resolved options
//   - error: *entity.ValidationError wrapping ErrEmptyText or ErrTextTooLong for
//     invalid input, entity.ErrEmptySummary when no summary could be produced
//
// Upstream failures never surface as errors; they trigger the extractive fallback.
func (s *Service) Summarize(ctx context.Context, input string, opts entity.SummaryOptions) (*entity.SummaryResult, error) {
	ctx, span := tracing.GetTracer().Start(ctx, "summary.Summarize")
	defer span.End()

	start := time.Now()
	logger := logging.WithRequestID(ctx, slog.Default())

	format := entity.ParseInputFormat(opts.Format)
	if format == entity.FormatHTML && s.ExtractHTML != nil {
		converted, err := s.ExtractHTML(input)
		if err != nil {
			logger.WarnContext(ctx, "html conversion failed, using raw input",
				slog.String("error", err.Error()))
		} else {
			input = converted
		}
	}

	if err := entity.ValidateText(input, s.config.MaxInputRunes); err != nil {
		span.SetStatus(codes.Error, "invalid input")
		logger.InfoContext(ctx, "summary request rejected", slog.String("reason", err.Error()))
		return nil, err
	}

	inputLength := text.CountRunes(input)
	preference := extractive.ParseLengthPreference(opts.LengthPreference)
	quality := entity.ParseQuality(opts.Quality)
	budget := extractive.ResolveBudget(inputLength, preference, extractive.Overrides{
		MinLength: opts.MinLength,
		MaxLength: opts.MaxLength,
	})
	resolved := entity.ResolvedOptions{
		LengthPreference: string(preference),
		Quality:          string(quality),
		Format:           string(format),
		MinLength:        budget.MinLength,
		MaxLength:        budget.MaxLength,
	}

	metrics.RecordInputLength(inputLength)
	span.SetAttributes(
		attribute.Int("summary.input_length", inputLength),
		attribute.String("summary.preference", resolved.LengthPreference),
		attribute.String("summary.quality", resolved.Quality),
		attribute.Int("summary.min_length", budget.MinLength),
		attribute.Int("summary.max_length", budget.MaxLength),
	)

	key := cacheKey(input, resolved)
	if s.Cache != nil {
		if cached, ok := s.Cache.Get(key); ok {
			metrics.RecordCacheLookup(true)
			metrics.RecordSummary(metrics.SourceCache, time.Since(start), text.CountRunes(cached.Summary))
			span.SetAttributes(attribute.Bool("summary.cache_hit", true))
			logger.DebugContext(ctx, "summary served from cache", slog.String("model", cached.Model))
			return &cached, nil
		}
		metrics.RecordCacheLookup(false)
	}

	v, err, shared := s.group.Do(key, func() (interface{}, error) {
		return s.compute(ctx, key, input, budget, resolved, quality)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	result := v.(entity.SummaryResult)
	span.SetAttributes(
		attribute.String("summary.model", result.Model),
		attribute.Bool("summary.fallback", result.Fallback),
		attribute.Bool("summary.shared", shared),
	)
	return &result, nil
}

// compute runs the upstream path and, if needed, the extractive fallback.
func (s *Service) compute(ctx context.Context, key, input string, budget extractive.Budget, resolved entity.ResolvedOptions, quality entity.Quality) (entity.SummaryResult, error) {
	logger := logging.WithRequestID(ctx, slog.Default())
	start := time.Now()

	result, reason := s.tryUpstream(ctx, input, budget, resolved, quality)
	if reason == "" {
		length := text.CountRunes(result.Summary)
		metrics.RecordSummary(metrics.SourceUpstream, time.Since(start), length)
		s.store(key, result)
		logger.InfoContext(ctx, "summary created",
			slog.String("model", result.Model),
			slog.Int("summary_length", length),
			slog.Duration("duration", time.Since(start)))
		return result, nil
	}

	metrics.RecordFallback(reason)
	summary := extractive.Summarize(input, budget)
	if summary == "" {
		logger.ErrorContext(ctx, "extractive fallback produced no summary",
			slog.String("fallback_reason", reason))
		return entity.SummaryResult{}, entity.ErrEmptySummary
	}

	result = entity.SummaryResult{
		Summary:  summary,
		Model:    ExtractiveModel,
		Options:  resolved,
		Fallback: true,
	}
	length := text.CountRunes(summary)
	metrics.RecordSummary(metrics.SourceExtractive, time.Since(start), length)

	// Fallbacks after an upstream failure are not cached.
	if reason == metrics.ReasonDisabled {
		s.store(key, result)
	}

	logger.InfoContext(ctx, "summary created with extractive fallback",
		slog.String("fallback_reason", reason),
		slog.Int("summary_length", length),
		slog.Duration("duration", time.Since(start)))
	return result, nil
}

// tryUpstream calls the upstream summarizer. A non-empty reason means the
// caller must fall back; it is one of the metrics.Reason* values.
func (s *Service) tryUpstream(ctx context.Context, input string, budget extractive.Budget, resolved entity.ResolvedOptions, quality entity.Quality) (entity.SummaryResult, string) {
	if s.Upstream == nil {
		return entity.SummaryResult{}, metrics.ReasonDisabled
	}

	logger := logging.WithRequestID(ctx, slog.Default()).With(slog.String("upstream", s.Upstream.Name()))

	ctx, cancel := context.WithTimeout(ctx, s.config.UpstreamTimeout)
	defer cancel()

	if err := s.sem.Acquire(ctx, 1); err != nil {
		logger.WarnContext(ctx, "no upstream slot available, using fallback",
			slog.Int64("max_concurrent", s.config.MaxConcurrentUpstream))
		return entity.SummaryResult{}, metrics.ReasonSaturated
	}
	defer s.sem.Release(1)

	metrics.UpstreamCallStarted()
	defer metrics.UpstreamCallFinished()

	out, err := s.Upstream.Summarize(ctx, entity.SummaryRequest{
		Text:       input,
		MinLength:  budget.MinLength,
		MaxLength:  budget.MaxLength,
		Preference: string(budget.Preference),
		Quality:    quality,
	})
	if err != nil {
		reason := fallbackReason(err)
		if reason == metrics.ReasonDisabled {
			logger.DebugContext(ctx, "upstream disabled, using fallback")
		} else {
			logger.WarnContext(ctx, "upstream summarization failed, using fallback",
				slog.String("fallback_reason", reason),
				slog.String("error", err.Error()))
		}
		return entity.SummaryResult{}, reason
	}

	summary := strings.TrimSpace(out.Text)
	if summary == "" {
		return entity.SummaryResult{}, metrics.ReasonEmptyOutput
	}
	if n := text.CountRunes(summary); n > budget.MaxLength {
		logger.InfoContext(ctx, "upstream summary truncated",
			slog.Int("summary_length", n),
			slog.Int("max_length", budget.MaxLength))
		summary = extractive.Truncate(summary, budget.MaxLength)
	}

	model := out.Model
	if model == "" {
		model = out.Provider
	}
	return entity.SummaryResult{Summary: summary, Model: model, Options: resolved}, ""
}

func (s *Service) store(key string, result entity.SummaryResult) {
	if s.Cache == nil {
		return
	}
	s.Cache.Set(key, result)
	metrics.UpdateCacheEntries(s.Cache.Len())
}

// fallbackReason classifies an upstream error for metrics and logs.
func fallbackReason(err error) string {
	switch {
	case errors.Is(err, entity.ErrUpstreamDisabled):
		return metrics.ReasonDisabled
	case errors.Is(err, context.DeadlineExceeded):
		return metrics.ReasonTimeout
	case errors.Is(err, entity.ErrUpstreamUnavailable):
		return metrics.ReasonCircuitOpen
	default:
		return metrics.ReasonUpstreamErr
	}
}

// cacheKey identifies a request by its text and resolved options.
func cacheKey(input string, resolved entity.ResolvedOptions) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%s|%d|%d\x00", resolved.LengthPreference, resolved.Quality, resolved.Format, resolved.MinLength, resolved.MaxLength)
	h.Write([]byte(input))
	return hex.EncodeToString(h.Sum(nil))
}
