package summarizer

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"forum-summarizer/internal/domain/entity"
	"forum-summarizer/internal/resilience/retry"
)

// geminiTemperature keeps summaries close to the source wording.
const geminiTemperature float32 = 0.2

// Gemini implements Provider using the Gemini API.
type Gemini struct {
	guard
	client *genai.Client
	config ProviderConfig
}

// NewGemini creates a Gemini provider.
// A nil metrics recorder uses the shared Prometheus recorder.
func NewGemini(ctx context.Context, cfg ProviderConfig, metrics SummaryMetricsRecorder) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
		APIKey:  cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	slog.Info("Initialized Gemini summarizer with configuration",
		slog.String("model_standard", cfg.Models.Standard),
		slog.Int("max_tokens", cfg.MaxTokens),
		slog.Duration("timeout", cfg.Timeout))

	return &Gemini{
		guard:  newGuard(ProviderGemini, cfg, metrics),
		client: client,
		config: cfg,
	}, nil
}

// Name returns "gemini".
func (g *Gemini) Name() string {
	return ProviderGemini
}

// Summarize generates a summary of req.Text using Gemini.
func (g *Gemini) Summarize(ctx context.Context, req entity.SummaryRequest) (entity.UpstreamSummary, error) {
	model := g.config.Models.For(req.Quality)

	return g.call(ctx, req, model, func(ctx context.Context) (string, error) {
		resp, err := g.client.Models.GenerateContent(ctx, model,
			[]*genai.Content{genai.NewContentFromText(buildPrompt(req), "user")},
			g.generateConfig())
		if err != nil {
			return "", fmt.Errorf("gemini api error: %w", classifyGeminiError(err))
		}
		return geminiText(resp), nil
	})
}

func (g *Gemini) generateConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, "user"),
		MaxOutputTokens:   ptr(int32(g.config.MaxTokens)),
		Temperature:       ptr(geminiTemperature),
	}
}

// geminiText concatenates the text parts of the first candidate, skipping
// thinking parts.
func geminiText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		b.WriteString(part.Text)
	}
	return b.String()
}

// geminiStatusPatterns maps error text to HTTP status. The genai client
// reports API failures as formatted errors only.
var geminiStatusPatterns = []struct {
	pattern string
	status  int
}{
	{"resource_exhausted", http.StatusTooManyRequests},
	{"429", http.StatusTooManyRequests},
	{"unavailable", http.StatusServiceUnavailable},
	{"503", http.StatusServiceUnavailable},
	{"502", http.StatusBadGateway},
	{"504", http.StatusGatewayTimeout},
	{"internal", http.StatusInternalServerError},
	{"500", http.StatusInternalServerError},
}

// classifyGeminiError exposes retryable API failures to retry.IsRetryable.
func classifyGeminiError(err error) error {
	msg := strings.ToLower(err.Error())
	for _, p := range geminiStatusPatterns {
		if strings.Contains(msg, p.pattern) {
			return &retry.StatusError{Provider: ProviderGemini, StatusCode: p.status, Err: err}
		}
	}
	return err
}

func ptr[T any](v T) *T {
	return &v
}
