package summarizer

import (
	"sync"
	"time"

	"forum-summarizer/internal/resilience/circuitbreaker"
	"forum-summarizer/internal/resilience/retry"
)

// recordingMetrics is a SummaryMetricsRecorder that keeps every call in memory.
type recordingMetrics struct {
	mu        sync.Mutex
	lengths   []int
	exceeded  int
	compliant []bool
	durations int
	errors    int
}

func (r *recordingMetrics) RecordLength(_ string, length int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lengths = append(r.lengths, length)
}

func (r *recordingMetrics) RecordLimitExceeded(_ string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.exceeded++
}

func (r *recordingMetrics) RecordCompliance(_ string, withinLimit bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.compliant = append(r.compliant, withinLimit)
}

func (r *recordingMetrics) RecordDuration(_ string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.durations++
}

func (r *recordingMetrics) RecordError(_ string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors++
}

// testProviderConfig returns a config with fast retries pointed at baseURL.
func testProviderConfig(baseURL string) ProviderConfig {
	return ProviderConfig{
		APIKey:  "test-key",
		BaseURL: baseURL,
		Models: ModelTiers{
			Fast:     "model-fast",
			Standard: "model-standard",
			High:     "model-high",
		},
		MaxTokens: 256,
		Timeout:   5 * time.Second,
		Breaker:   circuitbreaker.ForProvider("test"),
		Retry: retry.Config{
			MaxAttempts:  2,
			InitialDelay: time.Millisecond,
			MaxDelay:     5 * time.Millisecond,
			Multiplier:   2.0,
		},
	}
}
