package http

import (
	"context"
	"log/slog"
	"time"
)

// StartRateLimitCleanup periodically removes idle client buckets from limiter.
// It blocks until ctx is cancelled, so callers run it in a goroutine.
//
// Parameters:
//   - ctx: Context for cancellation (typically server's context)
//   - limiter: The rate limiter to clean up
//   - interval: How often to run cleanup (e.g., 5 minutes)
//   - idle: Buckets unused for longer than this are removed
func StartRateLimitCleanup(ctx context.Context, limiter *RateLimiter, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("rate limit cleanup started", slog.Duration("interval", interval))

	for {
		select {
		case <-ctx.Done():
			slog.Info("rate limit cleanup stopped")
			return
		case <-ticker.C:
			removed := limiter.CleanupIdle(idle)
			slog.Debug("rate limit cleanup completed",
				slog.Int("removed", removed),
				slog.Int("active_keys", limiter.ActiveKeys()))
		}
	}
}
