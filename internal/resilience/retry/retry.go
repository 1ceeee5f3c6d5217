// Package retry retries upstream summarization calls with exponential backoff
// and jitter, and decides which provider failures are worth another attempt.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net"
	"net/http"
	"syscall"
	"time"

	"forum-summarizer/internal/domain/entity"
)

// Config holds the configuration for retry logic.
type Config struct {
	// MaxAttempts is the total number of attempts, the first one included
	MaxAttempts int

	// InitialDelay is the delay before the first retry
	InitialDelay time.Duration

	// MaxDelay is the maximum delay between retries
	MaxDelay time.Duration

	// Multiplier is the multiplier for exponential backoff
	Multiplier float64

	// JitterFraction is the fraction of delay to add as random jitter (0.0 to 1.0)
	JitterFraction float64
}

// UpstreamConfig returns the retry policy for summarization calls. A summary
// request runs under a deadline of a few seconds, so it allows one retry
// after a short pause.
func UpstreamConfig() Config {
	return Config{
		MaxAttempts:    2,
		InitialDelay:   250 * time.Millisecond,
		MaxDelay:       2 * time.Second,
		Multiplier:     2.0,
		JitterFraction: 0.1,
	}
}

// WithBackoff runs fn until it succeeds, returns a non-retryable error or
// cfg.MaxAttempts is used up. Retries are logged through logger, which
// should carry the provider and call identifiers; nil uses slog.Default.
func WithBackoff(ctx context.Context, cfg Config, logger *slog.Logger, fn func() error) error {
	if logger == nil {
		logger = slog.Default()
	}

	var lastErr error
	delay := cfg.InitialDelay

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			if attempt > 1 {
				logger.InfoContext(ctx, "upstream call succeeded after retry", slog.Int("attempt", attempt))
			}
			return nil
		}

		if !IsRetryable(lastErr) {
			return lastErr
		}
		if attempt == cfg.MaxAttempts {
			break
		}

		logger.WarnContext(ctx, "upstream call failed, retrying",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", cfg.MaxAttempts),
			slog.Duration("delay", delay),
			slog.String("reason", Reason(lastErr)),
			slog.Any("error", lastErr))

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return fmt.Errorf("retry aborted: %w", ctx.Err())
		}

		delay = time.Duration(float64(delay) * cfg.Multiplier)
		if delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
		delay = addJitter(delay, cfg.JitterFraction)
	}

	return fmt.Errorf("max retry attempts (%d) exceeded: %w", cfg.MaxAttempts, lastErr)
}

// Failure reasons reported by Reason.
const (
	ReasonCanceled    = "canceled"
	ReasonCircuitOpen = "circuit_open"
	ReasonEmpty       = "empty_response"
	ReasonStatus      = "status"
	ReasonNetwork     = "network"
	ReasonOther       = "other"
)

// Reason classifies an upstream failure for logs.
func Reason(err error) string {
	var statusErr *StatusError
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ReasonCanceled
	case errors.Is(err, entity.ErrUpstreamUnavailable):
		return ReasonCircuitOpen
	case errors.Is(err, entity.ErrEmptyUpstreamResponse):
		return ReasonEmpty
	case errors.As(err, &statusErr):
		return ReasonStatus
	case isNetworkError(err):
		return ReasonNetwork
	default:
		return ReasonOther
	}
}

// IsRetryable reports whether another attempt could succeed.
//
// Cancelled calls and open circuit breakers are final. Empty model output,
// throttling, server-side failures and transient network errors are retried.
func IsRetryable(err error) bool {
	switch Reason(err) {
	case ReasonEmpty, ReasonNetwork:
		return true
	case ReasonStatus:
		var statusErr *StatusError
		errors.As(err, &statusErr)
		return retryableStatus[statusErr.StatusCode]
	default:
		return false
	}
}

// retryableStatus lists provider HTTP statuses worth retrying.
var retryableStatus = map[int]bool{
	http.StatusRequestTimeout:      true,
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
	529:                            true, // Anthropic "overloaded"
}

func isNetworkError(err error) bool {
	if err == nil {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ETIMEDOUT) ||
		errors.Is(err, syscall.ENETUNREACH)
}

// StatusError carries the HTTP status a provider SDK reported.
type StatusError struct {
	Provider   string
	StatusCode int
	Err        error
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("%s responded %d %s", e.Provider, e.StatusCode, http.StatusText(e.StatusCode))
}

// Unwrap returns the provider SDK error.
func (e *StatusError) Unwrap() error {
	return e.Err
}

// addJitter adds random jitter to a duration to prevent thundering herd.
func addJitter(duration time.Duration, jitterFraction float64) time.Duration {
	if jitterFraction <= 0 {
		return duration
	}
	if jitterFraction > 1.0 {
		jitterFraction = 1.0
	}
	// #nosec G404 -- jitter does not need cryptographic randomness.
	jitter := time.Duration(rand.Float64() * float64(duration) * jitterFraction)
	return duration + jitter
}
