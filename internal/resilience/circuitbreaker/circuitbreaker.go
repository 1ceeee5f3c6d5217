// Package circuitbreaker wraps sony/gobreaker with the settings used for
// upstream summarization providers.
package circuitbreaker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"forum-summarizer/internal/domain/entity"
)

// ErrOpen is returned without calling the provider while its breaker is open
// or its half-open quota is used up.
var ErrOpen = fmt.Errorf("circuit breaker open: %w", entity.ErrUpstreamUnavailable)

// Config holds circuit breaker settings.
type Config struct {
	// Name identifies the breaker in logs and health output.
	Name string

	// MaxRequests is the number of requests allowed through while half-open.
	MaxRequests uint32

	// Interval is the cyclic period of the closed state after which counts reset.
	Interval time.Duration

	// Timeout is how long the breaker stays open before moving to half-open.
	Timeout time.Duration

	// FailureThreshold is the failure ratio (0.0-1.0) that trips the breaker.
	FailureThreshold float64

	// MinRequests is the number of requests needed before the ratio is evaluated.
	MinRequests uint32
}

// ForProvider returns the breaker settings for a summarization provider.
//
// All providers trip after 60% of at least five calls fail. Gemini free-tier
// quotas fail in bursts, so it trips at 50% and stays open longer. Unknown
// names get the shared settings.
func ForProvider(provider string) Config {
	cfg := Config{
		Name:             provider + "-api",
		MaxRequests:      3,
		Interval:         30 * time.Second,
		Timeout:          60 * time.Second,
		FailureThreshold: 0.6,
		MinRequests:      5,
	}
	if provider == "gemini" {
		cfg.FailureThreshold = 0.5
		cfg.Timeout = 90 * time.Second
	}
	return cfg
}

// CircuitBreaker stops calling a provider while it keeps failing.
type CircuitBreaker struct {
	breaker *gobreaker.CircuitBreaker
	name    string
}

// New creates a circuit breaker from cfg. State changes are logged at warn level.
// Cancelled calls are not counted as failures.
func New(cfg Config) *CircuitBreaker {
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.FailureThreshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			slog.Warn("upstream circuit breaker state changed",
				slog.String("circuit", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	}

	return &CircuitBreaker{
		breaker: gobreaker.NewCircuitBreaker(settings),
		name:    cfg.Name,
	}
}

// Summarize runs fn, one provider request, if the breaker allows it.
// It returns ErrOpen without calling fn while the provider is shut out.
func (cb *CircuitBreaker) Summarize(fn func() (string, error)) (string, error) {
	out, err := cb.breaker.Execute(func() (interface{}, error) {
		return fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return "", ErrOpen
	}
	if err != nil {
		return "", err
	}
	return out.(string), nil
}

// State returns the current breaker state.
func (cb *CircuitBreaker) State() gobreaker.State {
	return cb.breaker.State()
}

// Counts returns the request counts of the current generation.
func (cb *CircuitBreaker) Counts() gobreaker.Counts {
	return cb.breaker.Counts()
}

// Name returns the breaker name.
func (cb *CircuitBreaker) Name() string {
	return cb.name
}
