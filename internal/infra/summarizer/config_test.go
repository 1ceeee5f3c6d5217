package summarizer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"forum-summarizer/internal/domain/entity"
)

func TestModelTiers_For(t *testing.T) {
	tiers := ModelTiers{Fast: "f", Standard: "s", High: "h"}

	assert.Equal(t, "f", tiers.For(entity.QualityFast))
	assert.Equal(t, "s", tiers.For(entity.QualityStandard))
	assert.Equal(t, "h", tiers.For(entity.QualityHigh))
	assert.Equal(t, "s", tiers.For(entity.Quality("unknown")))
}

func TestProviderConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*ProviderConfig)
		wantErr string
	}{
		{name: "valid", modify: func(*ProviderConfig) {}},
		{name: "missing key", modify: func(c *ProviderConfig) { c.APIKey = "" }, wantErr: "api key"},
		{name: "missing tier", modify: func(c *ProviderConfig) { c.Models.High = "" }, wantErr: "every quality tier"},
		{name: "zero tokens", modify: func(c *ProviderConfig) { c.MaxTokens = 0 }, wantErr: "max tokens"},
		{name: "zero timeout", modify: func(c *ProviderConfig) { c.Timeout = 0 }, wantErr: "timeout"},
		{name: "no attempts", modify: func(c *ProviderConfig) { c.Retry.MaxAttempts = 0 }, wantErr: "retry max attempts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testProviderConfig("")
			tt.modify(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestDefaultConfigs(t *testing.T) {
	for name, cfg := range map[string]ProviderConfig{
		"claude": DefaultClaudeConfig(),
		"openai": DefaultOpenAIConfig(),
		"gemini": DefaultGeminiConfig(),
	} {
		t.Run(name, func(t *testing.T) {
			cfg.APIKey = "key"

			assert.NoError(t, cfg.Validate())
			assert.Equal(t, 10*time.Second, cfg.Timeout)
			assert.Contains(t, cfg.Breaker.Name, name)
		})
	}
}
