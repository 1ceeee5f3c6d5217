package summarizer

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forum-summarizer/internal/domain/entity"
	"forum-summarizer/internal/resilience/retry"
)

func TestGuard_OpenBreakerRejectsWithoutCalling(t *testing.T) {
	cfg := testProviderConfig("")
	cfg.Breaker.MinRequests = 1
	cfg.Breaker.FailureThreshold = 0.5
	cfg.Retry.MaxAttempts = 3
	metrics := &recordingMetrics{}
	g := newGuard("test", cfg, metrics)

	calls := 0
	failing := func(context.Context) (string, error) {
		calls++
		return "", &retry.StatusError{Provider: "test", StatusCode: http.StatusServiceUnavailable, Err: errors.New("overloaded")}
	}

	_, err := g.call(context.Background(), testSummaryRequest(), "model-standard", failing)
	require.Error(t, err)
	assert.Equal(t, 1, calls, "the open breaker stops the retry")
	assert.Equal(t, gobreaker.StateOpen, g.CircuitState())

	_, err = g.call(context.Background(), testSummaryRequest(), "model-standard", failing)
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.ErrorIs(t, err, entity.ErrUpstreamUnavailable)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 2, metrics.errors)
}

func TestGuard_EmptyOutputRetriedThenSucceeds(t *testing.T) {
	g := newGuard("test", testProviderConfig(""), &recordingMetrics{})

	calls := 0
	got, err := g.call(context.Background(), testSummaryRequest(), "model-standard", func(context.Context) (string, error) {
		calls++
		if calls == 1 {
			return "  \n", nil
		}
		return "  Council approved the bus lane.  ", nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, "Council approved the bus lane.", got.Text)
	assert.Equal(t, "test", got.Provider)
	assert.Equal(t, "model-standard", got.Model)
}
