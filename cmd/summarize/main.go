// Package main provides a CLI command for summarizing a single text.
// Usage: summarize [-file path] [-preference concise|balanced|detailed] [-offline] [-explain] [-output json]
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"
	"unicode/utf8"

	"forum-summarizer/internal/config"
	"forum-summarizer/internal/domain/entity"
	"forum-summarizer/internal/infra/htmltext"
	"forum-summarizer/internal/infra/summarizer"
	"forum-summarizer/internal/observability/logging"
	summaryUC "forum-summarizer/internal/usecase/summary"
	"forum-summarizer/pkg/extractive"
)

// SummaryOutput represents the JSON output format for summary results.
type SummaryOutput struct {
	Summary  string                 `json:"summary"`
	Model    string                 `json:"model"`
	Fallback bool                   `json:"fallback"`
	Options  entity.ResolvedOptions `json:"options"`
	Length   int                    `json:"length"`
}

type options struct {
	file       string
	preference string
	quality    string
	minLength  int
	maxLength  int
	format     string
	offline    bool
	explain    bool
	output     string
	timeout    time.Duration
}

func main() {
	var opts options
	flag.StringVar(&opts.file, "file", "", "Read the text from this file instead of stdin")
	flag.StringVar(&opts.preference, "preference", "balanced", "Length preference: concise, balanced or detailed")
	flag.StringVar(&opts.quality, "quality", "standard", "Upstream model tier: fast, standard or high")
	flag.IntVar(&opts.minLength, "min", 0, "Minimum summary length in characters (0 derives it from -preference)")
	flag.IntVar(&opts.maxLength, "max", 0, "Maximum summary length in characters (0 derives it from -preference)")
	flag.StringVar(&opts.format, "format", "text", "Input format: text or html")
	flag.BoolVar(&opts.offline, "offline", false, "Use the extractive summarizer only")
	flag.BoolVar(&opts.explain, "explain", false, "Print the length budget and sentence segmentation to stderr")
	flag.StringVar(&opts.output, "output", "text", "Output format: text or json")
	flag.DurationVar(&opts.timeout, "timeout", 30*time.Second, "Overall timeout")
	flag.Parse()

	if opts.output != "text" && opts.output != "json" {
		fmt.Fprintf(os.Stderr, "Error: Invalid output '%s' (must be 'text' or 'json')\n", opts.output)
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Usage: summarize [-file path] [-preference concise|balanced|detailed] [-offline] [-explain] [-output json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Examples:")
		fmt.Fprintln(os.Stderr, "  summarize -file post.txt")
		fmt.Fprintln(os.Stderr, "  cat thread.html | summarize -format html -preference detailed")
		fmt.Fprintln(os.Stderr, "  summarize -file post.txt -offline -max 120 -explain")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// Logs go to stderr so stdout carries only the summary.
	logger := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(logger)

	text, err := readInput(opts.file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to read input: %v\n", err)
		os.Exit(1)
	}

	var upstream summaryUC.Upstream = summarizer.NewNoOp()
	if !opts.offline {
		chain, err := buildChain(cfg)
		if err != nil {
			logger.Error("failed to create upstream summarizers", slog.Any("error", err))
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		upstream = chain
	}

	svc := summaryUC.NewService(upstream, nil, htmltext.Extract, summaryUC.Config{
		MaxInputRunes:         cfg.Summary.MaxInputChars,
		UpstreamTimeout:       cfg.Summary.UpstreamTimeout,
		MaxConcurrentUpstream: 1,
	})

	summaryOpts := entity.SummaryOptions{
		LengthPreference: opts.preference,
		Quality:          opts.quality,
		MinLength:        positive(opts.minLength),
		MaxLength:        positive(opts.maxLength),
		Format:           opts.format,
	}

	if opts.explain {
		explain(os.Stderr, text, summaryOpts)
	}

	ctx, cancel := context.WithTimeout(context.Background(), opts.timeout)
	defer cancel()

	result, err := svc.Summarize(ctx, text, summaryOpts)
	if err != nil {
		var verr *entity.ValidationError
		if errors.As(err, &verr) {
			fmt.Fprintf(os.Stderr, "Error: %s\n", verr.Message)
		} else {
			fmt.Fprintf(os.Stderr, "Error: Summarize failed: %v\n", err)
		}
		os.Exit(1)
	}

	if opts.output == "json" {
		outputJSON(result)
	} else {
		outputText(result)
	}
}

// readInput reads the whole file, or stdin when path is empty.
func readInput(path string) (string, error) {
	if path == "" {
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	return string(data), err
}

// buildChain creates the configured upstream providers in order.
func buildChain(cfg config.Config) (*summarizer.Chain, error) {
	metrics := summarizer.NewPrometheusSummaryMetrics()
	providers := make([]summarizer.Provider, 0, len(cfg.Providers))

	for _, name := range cfg.Providers {
		pcfg, err := cfg.ProviderConfig(name)
		if err != nil {
			return nil, err
		}
		switch name {
		case summarizer.ProviderClaude:
			providers = append(providers, summarizer.NewClaude(pcfg, metrics))
		case summarizer.ProviderOpenAI:
			providers = append(providers, summarizer.NewOpenAI(pcfg, metrics))
		case summarizer.ProviderGemini:
			g, err := summarizer.NewGemini(context.Background(), pcfg, metrics)
			if err != nil {
				return nil, fmt.Errorf("create gemini client: %w", err)
			}
			providers = append(providers, g)
		}
	}
	return summarizer.NewChain(providers...), nil
}

func positive(n int) *int {
	if n <= 0 {
		return nil
	}
	return &n
}

// explain prints the budget the extractive summarizer would use and the
// sentences it would choose from.
func explain(w io.Writer, text string, opts entity.SummaryOptions) {
	if entity.ParseInputFormat(opts.Format) == entity.FormatHTML {
		extracted, err := htmltext.Extract(text)
		if err != nil {
			fmt.Fprintf(w, "html extraction failed: %v\n", err)
			return
		}
		text = extracted
	}

	budget := extractive.ResolveBudget(utf8.RuneCountInString(text),
		extractive.ParseLengthPreference(opts.LengthPreference),
		extractive.Overrides{MinLength: opts.MinLength, MaxLength: opts.MaxLength})

	fmt.Fprintf(w, "Budget: %d-%d characters, %d-%d sentences (%s)\n",
		budget.MinLength, budget.MaxLength, budget.SentenceCountMin, budget.SentenceCountMax, budget.Preference)

	sentences := extractive.Segment(text)
	fmt.Fprintf(w, "Sentences: %d\n", len(sentences))
	for _, s := range sentences {
		fmt.Fprintf(w, "  [p%d #%d] %s\n", s.Paragraph, s.Index, s.Text)
	}
	fmt.Fprintln(w)
}

// outputText prints the summary in human-readable format.
func outputText(result *entity.SummaryResult) {
	fmt.Println(result.Summary)
	fmt.Fprintf(os.Stderr, "\nmodel: %s, fallback: %t, length: %d (%d-%d)\n",
		result.Model, result.Fallback, utf8.RuneCountInString(result.Summary),
		result.Options.MinLength, result.Options.MaxLength)
}

// outputJSON prints the summary in JSON format.
func outputJSON(result *entity.SummaryResult) {
	output := SummaryOutput{
		Summary:  result.Summary,
		Model:    result.Model,
		Fallback: result.Fallback,
		Options:  result.Options,
		Length:   utf8.RuneCountInString(result.Summary),
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(output); err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to encode JSON: %v\n", err)
		os.Exit(1)
	}
}
