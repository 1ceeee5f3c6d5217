// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Summary sources recorded in summary_requests_total.
const (
	SourceUpstream   = "upstream"
	SourceExtractive = "extractive"
	SourceCache      = "cache"
)

// Fallback reasons recorded in summary_fallback_total.
const (
	ReasonDisabled    = "disabled"
	ReasonUpstreamErr = "upstream_error"
	ReasonCircuitOpen = "circuit_open"
	ReasonTimeout     = "timeout"
	ReasonEmptyOutput = "empty_output"
	ReasonSaturated   = "saturated"
)

// Business metrics track summarization outcomes
var (
	// SummaryRequestsTotal counts finished summaries by the source that produced them
	SummaryRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "summary_requests_total",
			Help: "Total number of summaries returned, by source",
		},
		[]string{"source"},
	)

	// SummaryFallbackTotal counts extractive fallbacks by reason
	SummaryFallbackTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "summary_fallback_total",
			Help: "Total number of extractive fallbacks, by reason",
		},
		[]string{"reason"},
	)

	// SummaryDuration measures end-to-end summarization time by source
	SummaryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "summary_duration_seconds",
			Help:    "Time taken to produce a summary in seconds",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 2.5, 5, 10},
		},
		[]string{"source"},
	)

	// SummaryLength tracks summary length in characters
	SummaryLength = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "summary_length_characters",
			Help:    "Length of returned summaries in characters",
			Buckets: []float64{30, 60, 100, 150, 200, 300, 400, 560},
		},
	)

	// SummaryInputLength tracks input text length in characters
	SummaryInputLength = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "summary_input_length_characters",
			Help:    "Length of summarized input texts in characters",
			Buckets: prometheus.ExponentialBuckets(50, 2, 8),
		},
	)

	// SummaryCacheLookupsTotal counts cache lookups by result (hit/miss)
	SummaryCacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "summary_cache_lookups_total",
			Help: "Total number of summary cache lookups, by result",
		},
		[]string{"result"},
	)

	// SummaryCacheEntries tracks the number of cached summaries
	SummaryCacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "summary_cache_entries",
			Help: "Number of summaries currently cached",
		},
	)

	// SummaryCacheExpiredTotal counts cached summaries dropped after their TTL
	SummaryCacheExpiredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "summary_cache_expired_total",
			Help: "Total number of cached summaries dropped after their TTL",
		},
	)

	// UpstreamInFlight tracks upstream calls holding an admission slot
	UpstreamInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "summary_upstream_in_flight",
			Help: "Number of upstream summarization calls in flight",
		},
	)
)
