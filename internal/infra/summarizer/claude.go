package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"forum-summarizer/internal/domain/entity"
	"forum-summarizer/internal/resilience/retry"
)

// Claude implements Provider using Anthropic's Messages API.
type Claude struct {
	guard
	client anthropic.Client
	config ProviderConfig
}

// NewClaude creates a Claude provider. SDK-level retries are disabled so that
// retries are governed by cfg.Retry inside the circuit breaker.
// A nil metrics recorder uses the shared Prometheus recorder.
func NewClaude(cfg ProviderConfig, metrics SummaryMetricsRecorder) *Claude {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	slog.Info("Initialized Claude summarizer with configuration",
		slog.String("model_standard", cfg.Models.Standard),
		slog.Int("max_tokens", cfg.MaxTokens),
		slog.Duration("timeout", cfg.Timeout))

	return &Claude{
		guard:  newGuard(ProviderClaude, cfg, metrics),
		client: anthropic.NewClient(opts...),
		config: cfg,
	}
}

// Name returns "claude".
func (c *Claude) Name() string {
	return ProviderClaude
}

// Summarize generates a summary of req.Text using Claude.
func (c *Claude) Summarize(ctx context.Context, req entity.SummaryRequest) (entity.UpstreamSummary, error) {
	model := c.config.Models.For(req.Quality)

	return c.call(ctx, req, model, func(ctx context.Context) (string, error) {
		message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
			Model:     anthropic.Model(model),
			MaxTokens: int64(c.config.MaxTokens),
			System:    []anthropic.TextBlockParam{{Text: systemPrompt}},
			Messages: []anthropic.MessageParam{
				anthropic.NewUserMessage(anthropic.NewTextBlock(buildPrompt(req))),
			},
		})
		if err != nil {
			return "", fmt.Errorf("claude api error: %w", classifyClaudeError(err))
		}
		return claudeText(message), nil
	})
}

// claudeText concatenates the text blocks of a response.
func claudeText(message *anthropic.Message) string {
	if message == nil {
		return ""
	}
	var b strings.Builder
	for _, block := range message.Content {
		if textBlock, ok := block.AsAny().(anthropic.TextBlock); ok {
			b.WriteString(textBlock.Text)
		}
	}
	return b.String()
}

// classifyClaudeError exposes the HTTP status of API errors to retry.IsRetryable.
func classifyClaudeError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return &retry.StatusError{Provider: ProviderClaude, StatusCode: apiErr.StatusCode, Err: err}
	}
	return err
}
