package tracing

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"forum-summarizer/internal/handler/http/pathutil"
	"forum-summarizer/internal/handler/http/responsewriter"
)

// Attribute keys set on request spans.
const (
	AttrRoute      = attribute.Key("http.route")
	AttrStatusCode = attribute.Key("http.status_code")
	AttrPreference = attribute.Key("summary.preference")
	AttrModel      = attribute.Key("summary.model")
	AttrFallback   = attribute.Key("summary.fallback")
)

// Middleware starts a server span for every request.
//
// The span is named after the method and the bounded route label, so unknown
// paths share one "/unmatched" name. Incoming W3C trace context is continued
// and the trace ID is echoed in the X-Trace-Id response header. 5xx responses
// mark the span as failed.
//
// Example usage:
//
//	mux := http.NewServeMux()
//	hsummary.Register(mux, svc)
//	handler := tracing.Middleware(mux)
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

		route := pathutil.NormalizePath(r.URL.Path)
		ctx, span := GetTracer().Start(ctx, r.Method+" "+route,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", r.Method),
				AttrRoute.String(route),
			),
		)
		defer span.End()

		w.Header().Set("X-Trace-Id", span.SpanContext().TraceID().String())

		rw := responsewriter.Wrap(w)
		next.ServeHTTP(rw, r.WithContext(ctx))

		status := rw.StatusCode()
		span.SetAttributes(AttrStatusCode.Int(status))
		if status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
	})
}

// AnnotateSummary records how a summary was produced on the request span
// carried by ctx. It is a no-op when ctx has no recording span.
func AnnotateSummary(ctx context.Context, preference, model string, fallback bool) {
	trace.SpanFromContext(ctx).SetAttributes(
		AttrPreference.String(preference),
		AttrModel.String(model),
		AttrFallback.Bool(fallback),
	)
}
