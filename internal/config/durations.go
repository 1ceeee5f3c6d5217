package config

import (
	"fmt"
	"time"
)

// Bounds on the request pipeline timeouts.
const (
	minRequestTimeout = time.Second
	maxRequestTimeout = 5 * time.Minute
)

// durationBound describes the accepted range of one configured duration.
// A zero max leaves the range open. Zero values pass only when allowZero is set.
type durationBound struct {
	name      string
	value     time.Duration
	min       time.Duration
	max       time.Duration
	allowZero bool
}

func (b durationBound) check() error {
	switch {
	case b.value == 0 && b.allowZero:
		return nil
	case b.value < 0:
		return fmt.Errorf("invalid %s: must not be negative, got %v", b.name, b.value)
	case b.value == 0:
		return fmt.Errorf("invalid %s: must be positive", b.name)
	case b.value < b.min:
		return fmt.Errorf("invalid %s: %v is below minimum %v", b.name, b.value, b.min)
	case b.max > 0 && b.value > b.max:
		return fmt.Errorf("invalid %s: %v exceeds maximum %v", b.name, b.value, b.max)
	}
	return nil
}

// durationBounds lists the durations Validate checks, in report order.
func (c Config) durationBounds() []durationBound {
	bounds := []durationBound{
		{name: "request timeout", value: c.Server.RequestTimeout, min: minRequestTimeout, max: maxRequestTimeout},
		{name: "shutdown timeout", value: c.Server.ShutdownTimeout},
		{name: "upstream timeout", value: c.Summary.UpstreamTimeout},
	}
	if c.Cache.Size > 0 {
		bounds = append(bounds, durationBound{name: "cache ttl", value: c.Cache.TTL, allowZero: true})
	}
	if c.RateLimit.Enabled {
		bounds = append(bounds,
			durationBound{name: "rate limit cleanup interval", value: c.RateLimit.CleanupInterval},
			durationBound{name: "rate limit idle timeout", value: c.RateLimit.IdleTimeout},
		)
	}
	return bounds
}
