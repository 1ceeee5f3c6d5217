// Package tracing provides OpenTelemetry tracing integration.
//
// Init installs a tracer provider with a parent-based ratio sampler and the
// W3C trace-context propagator. Middleware creates a server span per HTTP
// request and returns the trace ID in the X-Trace-Id header.
//
// Example usage:
//
//	shutdown, err := tracing.Init(tracing.Config{ServiceName: "forum-summarizer", SampleRatio: 0.1})
//	if err != nil {
//	    return err
//	}
//	defer shutdown(context.Background())
//
//	ctx, span := tracing.GetTracer().Start(ctx, "summary.Summarize")
//	defer span.End()
package tracing
