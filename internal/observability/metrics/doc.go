// Package metrics provides Prometheus metrics registry and recording utilities.
//
// This package centralizes the summarization business metrics: summaries by
// source, extractive fallbacks by reason, durations, lengths, cache lookups and
// upstream calls in flight. HTTP metrics live with the HTTP middleware.
//
// All metrics are automatically registered with the Prometheus default registry
// and exposed via the /metrics endpoint.
//
// Example usage:
//
//	start := time.Now()
//	summary := extractive.Summarize(text, budget)
//	metrics.RecordFallback(metrics.ReasonDisabled)
//	metrics.RecordSummary(metrics.SourceExtractive, time.Since(start), len([]rune(summary)))
package metrics
