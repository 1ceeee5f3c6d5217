package summarizer

import (
	"fmt"
	"time"

	"forum-summarizer/internal/domain/entity"
	"forum-summarizer/internal/resilience/circuitbreaker"
	"forum-summarizer/internal/resilience/retry"
)

// Provider names accepted in SUMMARIZER_PROVIDERS.
const (
	ProviderClaude = "claude"
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// ModelTiers maps each quality tier to a concrete model name.
type ModelTiers struct {
	Fast     string `yaml:"fast"`
	Standard string `yaml:"standard"`
	High     string `yaml:"high"`
}

// For returns the model configured for q. Unknown tiers use Standard.
func (m ModelTiers) For(q entity.Quality) string {
	switch q {
	case entity.QualityFast:
		return m.Fast
	case entity.QualityHigh:
		return m.High
	default:
		return m.Standard
	}
}

// ProviderConfig holds the settings shared by every upstream provider.
type ProviderConfig struct {
	// APIKey authenticates against the provider.
	APIKey string

	// BaseURL overrides the API endpoint. Empty means the SDK default.
	// For OpenAI this allows self-hosted OpenAI-compatible servers.
	BaseURL string

	// Models selects a model per quality tier.
	Models ModelTiers

	// MaxTokens bounds the response size.
	MaxTokens int

	// Timeout bounds a single provider call including retries.
	Timeout time.Duration

	// Breaker configures the provider's circuit breaker.
	Breaker circuitbreaker.Config

	// Retry configures retries inside the breaker.
	Retry retry.Config
}

// Validate validates the configuration and returns an error if invalid.
//
// Returns:
//   - nil if the configuration can be used to build a provider
//   - error describing the first invalid field otherwise
func (c ProviderConfig) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("api key cannot be empty")
	}
	if c.Models.Fast == "" || c.Models.Standard == "" || c.Models.High == "" {
		return fmt.Errorf("a model must be configured for every quality tier")
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max tokens must be positive, got %d", c.MaxTokens)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry max attempts must be at least 1, got %d", c.Retry.MaxAttempts)
	}
	return nil
}

// DefaultClaudeConfig returns Claude settings without an API key.
func DefaultClaudeConfig() ProviderConfig {
	return ProviderConfig{
		Models: ModelTiers{
			Fast:     "claude-haiku-4-5",
			Standard: "claude-sonnet-4-5",
			High:     "claude-opus-4-1",
		},
		MaxTokens: 512,
		Timeout:   10 * time.Second,
		Breaker:   circuitbreaker.ForProvider(ProviderClaude),
		Retry:     retry.UpstreamConfig(),
	}
}

// DefaultOpenAIConfig returns OpenAI settings without an API key.
func DefaultOpenAIConfig() ProviderConfig {
	return ProviderConfig{
		Models: ModelTiers{
			Fast:     "gpt-4o-mini",
			Standard: "gpt-4o-mini",
			High:     "gpt-4o",
		},
		MaxTokens: 512,
		Timeout:   10 * time.Second,
		Breaker:   circuitbreaker.ForProvider(ProviderOpenAI),
		Retry:     retry.UpstreamConfig(),
	}
}

// DefaultGeminiConfig returns Gemini settings without an API key.
func DefaultGeminiConfig() ProviderConfig {
	return ProviderConfig{
		Models: ModelTiers{
			Fast:     "gemini-2.0-flash-lite",
			Standard: "gemini-2.0-flash",
			High:     "gemini-2.5-pro",
		},
		MaxTokens: 512,
		Timeout:   10 * time.Second,
		Breaker:   circuitbreaker.ForProvider(ProviderGemini),
		Retry:     retry.UpstreamConfig(),
	}
}
