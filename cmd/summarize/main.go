// Package main fetches one article and prints the summary the digest would use.
// Usage: weekly-ai-summarize --url URL [--title TITLE] [--output json]
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"weekly-ai-news/internal/domain/entity"
	"weekly-ai-news/internal/infra/fetcher"
	"weekly-ai-news/internal/infra/summarizer"
	"weekly-ai-news/internal/observability/logging"
	"weekly-ai-news/internal/usecase/content"
	"weekly-ai-news/internal/usecase/summarize"
	envconfig "weekly-ai-news/pkg/config"
)

// SummaryOutput is the JSON output format.
type SummaryOutput struct {
	URL           string `json:"url"`
	Title         string `json:"title"`
	ContentLength int    `json:"content_length"`
	Summary       string `json:"summary"`
	Outcome       string `json:"outcome"`
}

func main() {
	var (
		pageURL      string
		title        string
		outputFormat string
	)
	flag.StringVar(&pageURL, "url", "", "Article URL to fetch and summarize")
	flag.StringVar(&title, "title", "", "Article title used in the prompt (defaults to the URL)")
	flag.StringVar(&outputFormat, "output", "text", "Output format: text or json")
	flag.Parse()

	if pageURL == "" {
		fmt.Fprintln(os.Stderr, "Usage: weekly-ai-summarize --url URL [--title TITLE] [--output json]")
		os.Exit(1)
	}
	if title == "" {
		title = pageURL
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Error: failed to read .env: %v\n", err)
		os.Exit(1)
	}
	// stdout carries the result only
	logger := logging.NewLoggerTo(os.Stderr)
	slog.SetDefault(logger)

	generator, err := summarizer.NewFromEnv(envconfig.GetEnvString("SUMMARIZER_TYPE", summarizer.ProviderClaude))
	if err != nil {
		logger.Error("failed to create summarizer", slog.Any("error", err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fetchCfg, err := fetcher.LoadConfigFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	article := entity.Article{Title: title, URL: pageURL}
	articles := content.NewService(fetcher.NewHTMLFetcher(fetchCfg), content.NewPacer(0)).
		FetchAll(ctx, []entity.Article{article})

	svc := summarize.NewService(generator, content.NewPacer(0),
		envconfig.GetEnvString("SUMMARY_LANGUAGE", summarize.DefaultLanguage))
	summarized, stats := svc.SummarizeAll(ctx, articles)
	result := summarized[0]

	outcome := "generated"
	switch {
	case stats.Skipped > 0:
		outcome = "skipped"
	case stats.Fallbacks > 0:
		outcome = "fallback"
	}

	if outputFormat == "json" {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(SummaryOutput{
			URL:           result.URL,
			Title:         result.Title,
			ContentLength: len([]rune(result.Content)),
			Summary:       result.Summary,
			Outcome:       outcome,
		}); err != nil {
			fmt.Fprintf(os.Stderr, "Error: Failed to encode JSON: %v\n", err)
			os.Exit(1)
		}
		return
	}

	fmt.Printf("%s\n%s\n\n", result.Title, result.URL)
	fmt.Printf("Content: %d characters (%s)\n\n", len([]rune(result.Content)), outcome)
	fmt.Println(result.Summary)
}
