package summarizer

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SummaryMetricsRecorder records upstream summarization metrics per provider.
type SummaryMetricsRecorder interface {
	// RecordLength records the length of a summary in characters (runes).
	RecordLength(provider string, length int)

	// RecordLimitExceeded counts a summary longer than the requested maximum.
	RecordLimitExceeded(provider string)

	// RecordCompliance sets the compliance gauge for the latest summary.
	RecordCompliance(provider string, withinLimit bool)

	// RecordDuration records the time taken by one provider call including retries.
	RecordDuration(provider string, duration time.Duration)

	// RecordError counts a provider call that failed after retries.
	RecordError(provider string)
}

// PrometheusSummaryMetrics implements SummaryMetricsRecorder with Prometheus collectors.
type PrometheusSummaryMetrics struct {
	lengthHistogram   *prometheus.HistogramVec
	exceededCounter   *prometheus.CounterVec
	complianceGauge   *prometheus.GaugeVec
	durationHistogram *prometheus.HistogramVec
	errorCounter      *prometheus.CounterVec
}

var (
	prometheusMetricsInstance *PrometheusSummaryMetrics
	prometheusMetricsOnce     sync.Once
)

// getOrCreateHistogramVec returns the already registered collector when a
// second registration is attempted, so tests can build providers repeatedly.
func getOrCreateHistogramVec(opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	h := prometheus.NewHistogramVec(opts, labels)
	if err := prometheus.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(*prometheus.HistogramVec)
		}
		return promauto.NewHistogramVec(opts, labels)
	}
	return h
}

func getOrCreateCounterVec(opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	c := prometheus.NewCounterVec(opts, labels)
	if err := prometheus.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(*prometheus.CounterVec)
		}
		return promauto.NewCounterVec(opts, labels)
	}
	return c
}

func getOrCreateGaugeVec(opts prometheus.GaugeOpts, labels []string) *prometheus.GaugeVec {
	g := prometheus.NewGaugeVec(opts, labels)
	if err := prometheus.Register(g); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(*prometheus.GaugeVec)
		}
		return promauto.NewGaugeVec(opts, labels)
	}
	return g
}

// NewPrometheusSummaryMetrics returns the process-wide recorder, registering
// its collectors with the default registry on first use.
func NewPrometheusSummaryMetrics() *PrometheusSummaryMetrics {
	prometheusMetricsOnce.Do(func() {
		providerLabel := []string{"provider"}
		prometheusMetricsInstance = &PrometheusSummaryMetrics{
			lengthHistogram: getOrCreateHistogramVec(prometheus.HistogramOpts{
				Name:    "upstream_summary_length_characters",
				Help:    "Distribution of upstream summary lengths in characters (Unicode runes)",
				Buckets: []float64{30, 60, 100, 150, 200, 300, 400, 560, 800},
			}, providerLabel),
			exceededCounter: getOrCreateCounterVec(prometheus.CounterOpts{
				Name: "upstream_summary_limit_exceeded_total",
				Help: "Total number of upstream summaries exceeding the requested maximum length",
			}, providerLabel),
			complianceGauge: getOrCreateGaugeVec(prometheus.GaugeOpts{
				Name: "upstream_summary_limit_compliance",
				Help: "Whether the latest upstream summary was within the requested maximum (1) or not (0)",
			}, providerLabel),
			durationHistogram: getOrCreateHistogramVec(prometheus.HistogramOpts{
				Name:    "upstream_summarization_duration_seconds",
				Help:    "Time taken by an upstream summarization call including retries",
				Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
			}, providerLabel),
			errorCounter: getOrCreateCounterVec(prometheus.CounterOpts{
				Name: "upstream_summarization_errors_total",
				Help: "Total number of upstream summarization calls that failed after retries",
			}, providerLabel),
		}
	})
	return prometheusMetricsInstance
}

// RecordLength records the length of a summary.
func (p *PrometheusSummaryMetrics) RecordLength(provider string, length int) {
	p.lengthHistogram.WithLabelValues(provider).Observe(float64(length))
}

// RecordLimitExceeded increments the limit-exceeded counter.
func (p *PrometheusSummaryMetrics) RecordLimitExceeded(provider string) {
	p.exceededCounter.WithLabelValues(provider).Inc()
}

// RecordCompliance sets the compliance gauge to 1 or 0.
func (p *PrometheusSummaryMetrics) RecordCompliance(provider string, withinLimit bool) {
	if withinLimit {
		p.complianceGauge.WithLabelValues(provider).Set(1.0)
	} else {
		p.complianceGauge.WithLabelValues(provider).Set(0.0)
	}
}

// RecordDuration records a call duration.
func (p *PrometheusSummaryMetrics) RecordDuration(provider string, duration time.Duration) {
	p.durationHistogram.WithLabelValues(provider).Observe(duration.Seconds())
}

// RecordError increments the error counter.
func (p *PrometheusSummaryMetrics) RecordError(provider string) {
	p.errorCounter.WithLabelValues(provider).Inc()
}
