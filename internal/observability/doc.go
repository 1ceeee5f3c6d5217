// Package observability groups the service's logging, metrics and tracing packages.
//
// Subpackages:
//   - logging: slog logger construction and request-scoped loggers
//   - metrics: Prometheus summarization business metrics
//   - tracing: OpenTelemetry tracer provider and HTTP middleware
//
// Example usage:
//
//	import (
//	    "forum-summarizer/internal/observability/logging"
//	    "forum-summarizer/internal/observability/metrics"
//	)
//
//	func main() {
//	    slog.SetDefault(logging.New(os.Stdout, "info", logging.FormatJSON))
//	    metrics.RecordFallback(metrics.ReasonDisabled)
//	}
package observability
