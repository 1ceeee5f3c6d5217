package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forum-summarizer/internal/infra/summarizer"
)

var envKeys = []string{
	ConfigFileEnv, "VERSION", "PORT", "HTTP_ADDR", "GRPC_HEALTH_ADDR", "REQUEST_TIMEOUT",
	"SHUTDOWN_TIMEOUT", "MAX_BODY_BYTES", "SUMMARY_MAX_INPUT_CHARS", "SUMMARY_UPSTREAM_TIMEOUT",
	"SUMMARY_MAX_CONCURRENT_UPSTREAM", "SUMMARY_CACHE_SIZE", "SUMMARY_CACHE_TTL",
	"SUMMARY_CACHE_PURGE_SCHEDULE", "RATE_LIMIT_ENABLED", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
	"RATE_LIMIT_CLEANUP_INTERVAL", "RATE_LIMIT_IDLE_TIMEOUT", "CORS_ALLOWED_ORIGINS", "CORS_MAX_AGE",
	"TRACING_ENABLED", "TRACING_SAMPLE_RATIO", "LOG_LEVEL", "LOG_FORMAT", "SUMMARIZER_PROVIDERS",
	"ANTHROPIC_API_KEY", "OPENAI_API_KEY", "OPENAI_BASE_URL", "GEMINI_API_KEY",
	"CLAUDE_MODEL_FAST", "CLAUDE_MODEL_STANDARD", "CLAUDE_MODEL_HIGH", "CLAUDE_MAX_TOKENS", "CLAUDE_TIMEOUT",
	"OPENAI_MODEL_FAST", "OPENAI_MODEL_STANDARD", "OPENAI_MODEL_HIGH", "OPENAI_MAX_TOKENS", "OPENAI_TIMEOUT",
	"GEMINI_MODEL_FAST", "GEMINI_MODEL_STANDARD", "GEMINI_MODEL_HIGH", "GEMINI_MAX_TOKENS", "GEMINI_TIMEOUT",
}

// clearEnv blanks every variable Load reads; the helpers treat empty as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

/* ───────── Load ───────── */

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
	assert.Equal(t, ":8080", cfg.Server.HTTPAddr)
	assert.Equal(t, 8*time.Second, cfg.Summary.UpstreamTimeout)
	assert.Empty(t, cfg.Providers, "extractive only by default")
	assert.Equal(t, "*/5 * * * *", cfg.Cache.PurgeSchedule)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("SUMMARY_MAX_INPUT_CHARS", "5000")
	t.Setenv("SUMMARY_UPSTREAM_TIMEOUT", "3s")
	t.Setenv("SUMMARY_CACHE_SIZE", "0")
	t.Setenv("SUMMARY_CACHE_PURGE_SCHEDULE", "not a schedule")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://forum.example.com, https://*.example.org")
	t.Setenv("TRACING_ENABLED", "true")
	t.Setenv("TRACING_SAMPLE_RATIO", "1")
	t.Setenv("SUMMARIZER_PROVIDERS", " OpenAI ,claude")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_BASE_URL", "http://localhost:11434/v1")
	t.Setenv("OPENAI_MODEL_HIGH", "llama3")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-test")
	t.Setenv("VERSION", "1.2.3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.HTTPAddr)
	assert.Equal(t, 5000, cfg.Summary.MaxInputChars)
	assert.Equal(t, 3*time.Second, cfg.Summary.UpstreamTimeout)
	assert.Equal(t, 0, cfg.Cache.Size, "invalid schedule is ignored while the cache is disabled")
	assert.Equal(t, 2.5, cfg.RateLimit.RPS)
	assert.Equal(t, []string{"https://forum.example.com", "https://*.example.org"}, cfg.CORS.AllowedOrigins)
	assert.True(t, cfg.Tracing.Enabled)
	assert.Equal(t, 1.0, cfg.Tracing.SampleRatio)
	assert.Equal(t, []string{"openai", "claude"}, cfg.Providers)
	assert.Equal(t, "1.2.3", cfg.Version)

	openai, err := cfg.ProviderConfig(summarizer.ProviderOpenAI)
	require.NoError(t, err)
	assert.Equal(t, "sk-test", openai.APIKey)
	assert.Equal(t, "http://localhost:11434/v1", openai.BaseURL)
	assert.Equal(t, "llama3", openai.Models.High)
	assert.Equal(t, "gpt-4o-mini", openai.Models.Fast)
	assert.Equal(t, 2, openai.Retry.MaxAttempts, "retry policy keeps provider defaults")
}

func TestLoad_HTTPAddrWinsOverPort(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("HTTP_ADDR", "127.0.0.1:7000")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:7000", cfg.Server.HTTPAddr)
}

func TestLoad_YAMLFileThenEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "summary.yaml")
	yamlDoc := `
version: "from-file"
summary:
  max_input_chars: 2000
  upstream_timeout: 4s
cache:
  size: 50
  ttl: 1m
providers: [gemini]
gemini:
  models:
    fast: gemini-fast
    standard: gemini-std
    high: gemini-high
  max_tokens: 256
  timeout: 6s
`
	require.NoError(t, os.WriteFile(path, []byte(yamlDoc), 0o600))
	t.Setenv(ConfigFileEnv, path)
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("SUMMARY_MAX_INPUT_CHARS", "3000")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.Version)
	assert.Equal(t, 3000, cfg.Summary.MaxInputChars, "environment overrides the file")
	assert.Equal(t, 4*time.Second, cfg.Summary.UpstreamTimeout)
	assert.Equal(t, 50, cfg.Cache.Size)
	assert.Equal(t, time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "*/5 * * * *", cfg.Cache.PurgeSchedule, "keys absent from the file keep defaults")

	gemini, err := cfg.ProviderConfig(summarizer.ProviderGemini)
	require.NoError(t, err)
	assert.Equal(t, "g-key", gemini.APIKey)
	assert.Equal(t, "gemini-std", gemini.Models.Standard)
	assert.Equal(t, 256, gemini.MaxTokens)
	assert.Equal(t, 6*time.Second, gemini.Timeout)
}

func TestLoad_YAMLFileErrors(t *testing.T) {
	clearEnv(t)

	t.Run("missing file", func(t *testing.T) {
		t.Setenv(ConfigFileEnv, filepath.Join(t.TempDir(), "absent.yaml"))
		_, err := Load()
		assert.ErrorContains(t, err, "read config file")
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("summary: [unclosed"), 0o600))
		t.Setenv(ConfigFileEnv, path)
		_, err := Load()
		assert.ErrorContains(t, err, "parse config yaml")
	})
}

func TestLoad_ValidationErrorIsCounted(t *testing.T) {
	clearEnv(t)
	t.Setenv("TRACING_SAMPLE_RATIO", "1.5")

	before := testutil.ToFloat64(ValidationErrorsTotal)
	_, err := Load()

	require.Error(t, err)
	assert.Equal(t, before+1, testutil.ToFloat64(ValidationErrorsTotal))
}

/* ───────── Validate ───────── */

func TestValidate(t *testing.T) {
	withKeys := func(c Config) Config {
		c.Claude.APIKey = "k"
		c.OpenAI.APIKey = "k"
		c.Gemini.APIKey = "k"
		return c
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "all providers", mutate: func(c *Config) { c.Providers = []string{"claude", "openai", "gemini"} }},
		{name: "empty http addr", mutate: func(c *Config) { c.Server.HTTPAddr = "" }, wantErr: "http address"},
		{name: "zero request timeout", mutate: func(c *Config) { c.Server.RequestTimeout = 0 }, wantErr: "request timeout"},
		{name: "zero body limit", mutate: func(c *Config) { c.Server.MaxBodyBytes = 0 }, wantErr: "max body bytes"},
		{name: "zero input chars", mutate: func(c *Config) { c.Summary.MaxInputChars = 0 }, wantErr: "max input chars"},
		{
			name:    "upstream timeout not below request timeout",
			mutate:  func(c *Config) { c.Summary.UpstreamTimeout = c.Server.RequestTimeout },
			wantErr: "must be shorter than request timeout",
		},
		{name: "zero concurrency", mutate: func(c *Config) { c.Summary.MaxConcurrentUpstream = 0 }, wantErr: "max concurrent upstream"},
		{name: "negative cache size", mutate: func(c *Config) { c.Cache.Size = -1 }, wantErr: "cache size"},
		{name: "zero cache ttl never expires", mutate: func(c *Config) { c.Cache.TTL = 0 }},
		{name: "negative cache ttl", mutate: func(c *Config) { c.Cache.TTL = -time.Second }, wantErr: "cache ttl"},
		{name: "bad purge schedule", mutate: func(c *Config) { c.Cache.PurgeSchedule = "every minute" }, wantErr: "invalid purge schedule"},
		{name: "zero rps", mutate: func(c *Config) { c.RateLimit.RPS = 0 }, wantErr: "rate limit rps"},
		{name: "zero burst", mutate: func(c *Config) { c.RateLimit.Burst = 0 }, wantErr: "rate limit burst"},
		{
			name:   "rate limit disabled skips its checks",
			mutate: func(c *Config) { c.RateLimit = RateLimitConfig{Enabled: false} },
		},
		{name: "negative sample ratio", mutate: func(c *Config) { c.Tracing.SampleRatio = -0.1 }, wantErr: "sample ratio"},
		{name: "unknown log format", mutate: func(c *Config) { c.Log.Format = "xml" }, wantErr: "log format"},
		{name: "unknown provider", mutate: func(c *Config) { c.Providers = []string{"mistral"} }, wantErr: "unknown summarizer provider"},
		{name: "duplicate provider", mutate: func(c *Config) { c.Providers = []string{"openai", "openai"} }, wantErr: "listed twice"},
		{
			name: "provider without api key",
			mutate: func(c *Config) {
				c.Providers = []string{"claude"}
				c.Claude.APIKey = ""
			},
			wantErr: "invalid claude configuration: api key cannot be empty",
		},
		{
			name: "provider with missing model tier",
			mutate: func(c *Config) {
				c.Providers = []string{"gemini"}
				c.Gemini.Models.High = ""
			},
			wantErr: "invalid gemini configuration",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := withKeys(Default())
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestProviderConfig_Unknown(t *testing.T) {
	_, err := Default().ProviderConfig("mistral")

	assert.ErrorContains(t, err, "unknown summarizer provider")
}
