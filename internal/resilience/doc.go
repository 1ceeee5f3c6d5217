// Package resilience groups the fault-tolerance helpers used around upstream
// summarization providers.
//
// The subpackages provide:
//   - circuitbreaker: a gobreaker wrapper with per-provider settings
//   - retry: exponential backoff with jitter and upstream failure classification
//
// Usage Example:
//
//	cb := circuitbreaker.New(circuitbreaker.ForProvider("claude"))
//	err := retry.WithBackoff(ctx, retry.UpstreamConfig(), logger, func() error {
//	    _, err := cb.Summarize(func() (string, error) {
//	        return callProvider(ctx)
//	    })
//	    return err
//	})
package resilience
