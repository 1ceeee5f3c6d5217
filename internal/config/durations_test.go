package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDurationBound_Check(t *testing.T) {
	tests := []struct {
		name    string
		bound   durationBound
		wantErr string
	}{
		{name: "positive", bound: durationBound{name: "shutdown timeout", value: time.Second}},
		{name: "zero rejected", bound: durationBound{name: "shutdown timeout"}, wantErr: "invalid shutdown timeout: must be positive"},
		{name: "zero allowed", bound: durationBound{name: "cache ttl", allowZero: true}},
		{
			name:    "negative rejected even when zero allowed",
			bound:   durationBound{name: "cache ttl", value: -time.Second, allowZero: true},
			wantErr: "invalid cache ttl: must not be negative",
		},
		{
			name:    "below minimum",
			bound:   durationBound{name: "request timeout", value: 500 * time.Millisecond, min: minRequestTimeout, max: maxRequestTimeout},
			wantErr: "below minimum 1s",
		},
		{
			name:    "above maximum",
			bound:   durationBound{name: "request timeout", value: 10 * time.Minute, min: minRequestTimeout, max: maxRequestTimeout},
			wantErr: "exceeds maximum 5m0s",
		},
		{name: "open range", bound: durationBound{name: "idle timeout", value: 24 * time.Hour}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.bound.check()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestConfig_DurationBounds(t *testing.T) {
	names := func(c Config) []string {
		var out []string
		for _, b := range c.durationBounds() {
			out = append(out, b.name)
		}
		return out
	}

	cfg := Default()
	assert.Equal(t, []string{
		"request timeout", "shutdown timeout", "upstream timeout",
		"cache ttl", "rate limit cleanup interval", "rate limit idle timeout",
	}, names(cfg))

	cfg.Cache.Size = 0
	cfg.RateLimit.Enabled = false
	assert.Equal(t, []string{"request timeout", "shutdown timeout", "upstream timeout"}, names(cfg))
}
