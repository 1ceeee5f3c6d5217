package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	openai "github.com/sashabaranov/go-openai"

	"forum-summarizer/internal/domain/entity"
	"forum-summarizer/internal/resilience/retry"
)

// OpenAI implements Provider using the Chat Completions API. With a BaseURL
// it talks to any OpenAI-compatible server (vLLM, Ollama, LiteLLM, ...).
type OpenAI struct {
	guard
	client *openai.Client
	config ProviderConfig
}

// NewOpenAI creates an OpenAI provider.
// A nil metrics recorder uses the shared Prometheus recorder.
func NewOpenAI(cfg ProviderConfig, metrics SummaryMetricsRecorder) *OpenAI {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	slog.Info("Initialized OpenAI summarizer with configuration",
		slog.String("model_standard", cfg.Models.Standard),
		slog.String("base_url", clientConfig.BaseURL),
		slog.Int("max_tokens", cfg.MaxTokens),
		slog.Duration("timeout", cfg.Timeout))

	return &OpenAI{
		guard:  newGuard(ProviderOpenAI, cfg, metrics),
		client: openai.NewClientWithConfig(clientConfig),
		config: cfg,
	}
}

// Name returns "openai".
func (o *OpenAI) Name() string {
	return ProviderOpenAI
}

// Summarize generates a summary of req.Text using a chat completion.
func (o *OpenAI) Summarize(ctx context.Context, req entity.SummaryRequest) (entity.UpstreamSummary, error) {
	model := o.config.Models.For(req.Quality)

	return o.call(ctx, req, model, func(ctx context.Context) (string, error) {
		resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:     model,
			MaxTokens: o.config.MaxTokens,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: buildPrompt(req)},
			},
		})
		if err != nil {
			return "", fmt.Errorf("openai api error: %w", classifyOpenAIError(err))
		}
		if len(resp.Choices) == 0 {
			return "", ErrEmptyResponse
		}
		return resp.Choices[0].Message.Content, nil
	})
}

// classifyOpenAIError exposes the HTTP status of API errors to retry.IsRetryable.
func classifyOpenAIError(err error) error {
	status := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}
	if status == 0 {
		return err
	}
	return &retry.StatusError{Provider: ProviderOpenAI, StatusCode: status, Err: err}
}
