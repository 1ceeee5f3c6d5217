// Package config loads the runtime configuration of the summary service.
//
// Values are resolved in three layers: built-in defaults, an optional YAML file
// named by SUMMARY_CONFIG_FILE, and environment variables (a local .env file is
// loaded first when present). The result is validated before use.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"forum-summarizer/internal/domain/entity"
	"forum-summarizer/internal/infra/cache"
	"forum-summarizer/internal/infra/summarizer"
	pkgconfig "forum-summarizer/pkg/config"
)

// ConfigFileEnv names the environment variable holding the YAML file path.
const ConfigFileEnv = "SUMMARY_CONFIG_FILE"

// Config is the complete runtime configuration.
type Config struct {
	Version   string          `yaml:"version"`
	Server    ServerConfig    `yaml:"server"`
	Summary   SummaryConfig   `yaml:"summary"`
	Cache     CacheConfig     `yaml:"cache"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	CORS      CORSConfig      `yaml:"cors"`
	Tracing   TracingConfig   `yaml:"tracing"`
	Log       LogConfig       `yaml:"log"`

	// Providers lists upstream summarizers in the order they are tried.
	// Empty means extractive only.
	Providers []string `yaml:"providers"`

	Claude ProviderSettings `yaml:"claude"`
	OpenAI ProviderSettings `yaml:"openai"`
	Gemini ProviderSettings `yaml:"gemini"`
}

// ServerConfig configures the HTTP and gRPC listeners.
type ServerConfig struct {
	HTTPAddr        string        `yaml:"http_addr"`
	GRPCHealthAddr  string        `yaml:"grpc_health_addr"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"`
}

// SummaryConfig configures the summary service.
type SummaryConfig struct {
	MaxInputChars         int           `yaml:"max_input_chars"`
	UpstreamTimeout       time.Duration `yaml:"upstream_timeout"`
	MaxConcurrentUpstream int           `yaml:"max_concurrent_upstream"`
}

// CacheConfig configures the result cache. Size 0 disables it and TTL 0
// keeps entries until they are evicted.
type CacheConfig struct {
	Size          int           `yaml:"size"`
	TTL           time.Duration `yaml:"ttl"`
	PurgeSchedule string        `yaml:"purge_schedule"`
}

// RateLimitConfig configures the per-IP token bucket.
type RateLimitConfig struct {
	Enabled         bool          `yaml:"enabled"`
	RPS             float64       `yaml:"rps"`
	Burst           int           `yaml:"burst"`
	CleanupInterval time.Duration `yaml:"cleanup_interval"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
}

// CORSConfig lists browser origins allowed to call the API.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	MaxAge         int      `yaml:"max_age"`
}

// TracingConfig configures OpenTelemetry.
type TracingConfig struct {
	Enabled     bool    `yaml:"enabled"`
	SampleRatio float64 `yaml:"sample_ratio"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ProviderSettings configures one upstream provider.
// API keys are read from the environment only.
type ProviderSettings struct {
	APIKey    string                `yaml:"-"`
	BaseURL   string                `yaml:"base_url"`
	Models    summarizer.ModelTiers `yaml:"models"`
	MaxTokens int                   `yaml:"max_tokens"`
	Timeout   time.Duration         `yaml:"timeout"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Version: "dev",
		Server: ServerConfig{
			HTTPAddr:        ":8080",
			GRPCHealthAddr:  ":9090",
			RequestTimeout:  15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxBodyBytes:    1 << 20,
		},
		Summary: SummaryConfig{
			MaxInputChars:         entity.DefaultMaxInputRunes,
			UpstreamTimeout:       8 * time.Second,
			MaxConcurrentUpstream: 8,
		},
		Cache: CacheConfig{
			Size:          1000,
			TTL:           10 * time.Minute,
			PurgeSchedule: cache.DefaultPurgeSchedule,
		},
		RateLimit: RateLimitConfig{
			Enabled:         true,
			RPS:             5,
			Burst:           10,
			CleanupInterval: 5 * time.Minute,
			IdleTimeout:     10 * time.Minute,
		},
		CORS:    CORSConfig{MaxAge: 600},
		Tracing: TracingConfig{SampleRatio: 0.1},
		Log:     LogConfig{Level: "info", Format: "json"},
		Claude:  settingsFrom(summarizer.DefaultClaudeConfig()),
		OpenAI:  settingsFrom(summarizer.DefaultOpenAIConfig()),
		Gemini:  settingsFrom(summarizer.DefaultGeminiConfig()),
	}
}

func settingsFrom(p summarizer.ProviderConfig) ProviderSettings {
	return ProviderSettings{
		BaseURL:   p.BaseURL,
		Models:    p.Models,
		MaxTokens: p.MaxTokens,
		Timeout:   p.Timeout,
	}
}

// Load builds the configuration from .env, the optional YAML file and the
// environment, then validates it.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	if path := os.Getenv(ConfigFileEnv); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return Config{}, err
		}
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		recordValidationError()
		return Config{}, err
	}
	recordLoad()
	return cfg, nil
}

// mergeFile overlays the YAML file at path on c. Keys absent from the file
// keep their current values.
func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config yaml: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Version = pkgconfig.GetEnvString("VERSION", c.Version)

	if port := os.Getenv("PORT"); port != "" {
		c.Server.HTTPAddr = ":" + port
	}
	c.Server.HTTPAddr = pkgconfig.GetEnvString("HTTP_ADDR", c.Server.HTTPAddr)
	c.Server.GRPCHealthAddr = pkgconfig.GetEnvString("GRPC_HEALTH_ADDR", c.Server.GRPCHealthAddr)
	c.Server.RequestTimeout = pkgconfig.GetEnvDuration("REQUEST_TIMEOUT", c.Server.RequestTimeout)
	c.Server.ShutdownTimeout = pkgconfig.GetEnvDuration("SHUTDOWN_TIMEOUT", c.Server.ShutdownTimeout)
	c.Server.MaxBodyBytes = int64(pkgconfig.GetEnvInt("MAX_BODY_BYTES", int(c.Server.MaxBodyBytes)))

	c.Summary.MaxInputChars = pkgconfig.GetEnvInt("SUMMARY_MAX_INPUT_CHARS", c.Summary.MaxInputChars)
	c.Summary.UpstreamTimeout = pkgconfig.GetEnvDuration("SUMMARY_UPSTREAM_TIMEOUT", c.Summary.UpstreamTimeout)
	c.Summary.MaxConcurrentUpstream = pkgconfig.GetEnvInt("SUMMARY_MAX_CONCURRENT_UPSTREAM", c.Summary.MaxConcurrentUpstream)

	c.Cache.Size = pkgconfig.GetEnvInt("SUMMARY_CACHE_SIZE", c.Cache.Size)
	c.Cache.TTL = pkgconfig.GetEnvDuration("SUMMARY_CACHE_TTL", c.Cache.TTL)
	c.Cache.PurgeSchedule = pkgconfig.GetEnvString("SUMMARY_CACHE_PURGE_SCHEDULE", c.Cache.PurgeSchedule)

	c.RateLimit.Enabled = pkgconfig.GetEnvBool("RATE_LIMIT_ENABLED", c.RateLimit.Enabled)
	c.RateLimit.RPS = pkgconfig.GetEnvFloat("RATE_LIMIT_RPS", c.RateLimit.RPS)
	c.RateLimit.Burst = pkgconfig.GetEnvInt("RATE_LIMIT_BURST", c.RateLimit.Burst)
	c.RateLimit.CleanupInterval = pkgconfig.GetEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", c.RateLimit.CleanupInterval)
	c.RateLimit.IdleTimeout = pkgconfig.GetEnvDuration("RATE_LIMIT_IDLE_TIMEOUT", c.RateLimit.IdleTimeout)

	c.CORS.AllowedOrigins = pkgconfig.GetEnvStringList("CORS_ALLOWED_ORIGINS", c.CORS.AllowedOrigins)
	c.CORS.MaxAge = pkgconfig.GetEnvInt("CORS_MAX_AGE", c.CORS.MaxAge)

	c.Tracing.Enabled = pkgconfig.GetEnvBool("TRACING_ENABLED", c.Tracing.Enabled)
	c.Tracing.SampleRatio = pkgconfig.GetEnvFloat("TRACING_SAMPLE_RATIO", c.Tracing.SampleRatio)

	c.Log.Level = pkgconfig.GetEnvString("LOG_LEVEL", c.Log.Level)
	c.Log.Format = pkgconfig.GetEnvString("LOG_FORMAT", c.Log.Format)

	c.Providers = pkgconfig.GetEnvStringList("SUMMARIZER_PROVIDERS", c.Providers)
	for i, p := range c.Providers {
		c.Providers[i] = strings.ToLower(strings.TrimSpace(p))
	}

	c.Claude.applyEnv("ANTHROPIC_API_KEY", "CLAUDE")
	c.OpenAI.applyEnv("OPENAI_API_KEY", "OPENAI")
	c.OpenAI.BaseURL = pkgconfig.GetEnvString("OPENAI_BASE_URL", c.OpenAI.BaseURL)
	c.Gemini.applyEnv("GEMINI_API_KEY", "GEMINI")
}

func (p *ProviderSettings) applyEnv(keyVar, prefix string) {
	p.APIKey = pkgconfig.GetEnvString(keyVar, p.APIKey)
	p.Models.Fast = pkgconfig.GetEnvString(prefix+"_MODEL_FAST", p.Models.Fast)
	p.Models.Standard = pkgconfig.GetEnvString(prefix+"_MODEL_STANDARD", p.Models.Standard)
	p.Models.High = pkgconfig.GetEnvString(prefix+"_MODEL_HIGH", p.Models.High)
	p.MaxTokens = pkgconfig.GetEnvInt(prefix+"_MAX_TOKENS", p.MaxTokens)
	p.Timeout = pkgconfig.GetEnvDuration(prefix+"_TIMEOUT", p.Timeout)
}

// Validate reports the first inconsistent value.
func (c Config) Validate() error {
	if c.Server.HTTPAddr == "" {
		return errors.New("http address cannot be empty")
	}
	for _, b := range c.durationBounds() {
		if err := b.check(); err != nil {
			return err
		}
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("max body bytes must be positive, got %d", c.Server.MaxBodyBytes)
	}

	if c.Summary.MaxInputChars <= 0 {
		return fmt.Errorf("max input chars must be positive, got %d", c.Summary.MaxInputChars)
	}
	if c.Summary.UpstreamTimeout >= c.Server.RequestTimeout {
		return fmt.Errorf("upstream timeout (%v) must be shorter than request timeout (%v)",
			c.Summary.UpstreamTimeout, c.Server.RequestTimeout)
	}
	if c.Summary.MaxConcurrentUpstream <= 0 {
		return fmt.Errorf("max concurrent upstream must be positive, got %d", c.Summary.MaxConcurrentUpstream)
	}

	if c.Cache.Size < 0 {
		return fmt.Errorf("cache size cannot be negative, got %d", c.Cache.Size)
	}
	if c.Cache.Size > 0 {
		if err := cache.ValidateSchedule(c.Cache.PurgeSchedule); err != nil {
			return err
		}
	}

	if c.RateLimit.Enabled {
		if c.RateLimit.RPS <= 0 {
			return fmt.Errorf("rate limit rps must be positive, got %v", c.RateLimit.RPS)
		}
		if c.RateLimit.Burst < 1 {
			return fmt.Errorf("rate limit burst must be at least 1, got %d", c.RateLimit.Burst)
		}
	}

	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		return fmt.Errorf("tracing sample ratio must be between 0 and 1, got %v", c.Tracing.SampleRatio)
	}

	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("log format must be json or text, got %q", c.Log.Format)
	}

	seen := make(map[string]bool, len(c.Providers))
	for _, name := range c.Providers {
		if !slices.Contains(knownProviders, name) {
			return fmt.Errorf("unknown summarizer provider %q (want one of %s)", name, strings.Join(knownProviders, ", "))
		}
		if seen[name] {
			return fmt.Errorf("summarizer provider %q listed twice", name)
		}
		seen[name] = true

		if _, err := c.ProviderConfig(name); err != nil {
			return err
		}
	}
	return nil
}

var knownProviders = []string{summarizer.ProviderClaude, summarizer.ProviderOpenAI, summarizer.ProviderGemini}

// ProviderConfig returns the validated settings of the named provider merged
// over its built-in defaults.
func (c Config) ProviderConfig(name string) (summarizer.ProviderConfig, error) {
	var (
		base summarizer.ProviderConfig
		s    ProviderSettings
	)
	switch name {
	case summarizer.ProviderClaude:
		base, s = summarizer.DefaultClaudeConfig(), c.Claude
	case summarizer.ProviderOpenAI:
		base, s = summarizer.DefaultOpenAIConfig(), c.OpenAI
	case summarizer.ProviderGemini:
		base, s = summarizer.DefaultGeminiConfig(), c.Gemini
	default:
		return summarizer.ProviderConfig{}, fmt.Errorf("unknown summarizer provider %q", name)
	}

	base.APIKey = s.APIKey
	base.BaseURL = s.BaseURL
	base.Models = s.Models
	base.MaxTokens = s.MaxTokens
	base.Timeout = s.Timeout

	if err := base.Validate(); err != nil {
		return summarizer.ProviderConfig{}, fmt.Errorf("invalid %s configuration: %w", name, err)
	}
	return base, nil
}
