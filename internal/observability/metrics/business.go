package metrics

import (
	"time"
)

// RecordSummary records a finished summary produced by source.
// Source should be one of SourceUpstream, SourceExtractive or SourceCache.
func RecordSummary(source string, duration time.Duration, length int) {
	SummaryRequestsTotal.WithLabelValues(source).Inc()
	SummaryDuration.WithLabelValues(source).Observe(duration.Seconds())
	SummaryLength.Observe(float64(length))
}

// RecordFallback records that the extractive fallback was used and why.
func RecordFallback(reason string) {
	SummaryFallbackTotal.WithLabelValues(reason).Inc()
}

// RecordInputLength records the length of a validated input text.
func RecordInputLength(length int) {
	SummaryInputLength.Observe(float64(length))
}

// RecordCacheLookup records a summary cache hit or miss.
func RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	SummaryCacheLookupsTotal.WithLabelValues(result).Inc()
}

// UpdateCacheEntries updates the number of cached summaries.
// This gauge should be updated after every store and purge.
func UpdateCacheEntries(count int) {
	SummaryCacheEntries.Set(float64(count))
}

// RecordCacheExpired records summaries dropped from the cache after their TTL.
func RecordCacheExpired(count int) {
	if count > 0 {
		SummaryCacheExpiredTotal.Add(float64(count))
	}
}

// UpstreamCallStarted marks an upstream call as in flight.
func UpstreamCallStarted() {
	UpstreamInFlight.Inc()
}

// UpstreamCallFinished marks an upstream call as done.
func UpstreamCallFinished() {
	UpstreamInFlight.Dec()
}
