// Package summarize attaches a generated summary to every article.
package summarize

import (
	"context"
	"log/slog"
	"strings"

	"weekly-ai-news/internal/domain/entity"
	"weekly-ai-news/internal/observability/metrics"
)

const (
	// MinContentLength is the body length below which no model call is made.
	MinContentLength = 100

	// ContentUnavailable is the summary when neither body nor description exist.
	ContentUnavailable = "コンテンツを取得できませんでした。"

	// SummaryUnavailable is the summary when the model fails and no description exists.
	SummaryUnavailable = "要約を生成できませんでした。"
)

// Generator produces text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Pacer spaces out model calls. *rate.Limiter satisfies it.
type Pacer interface {
	Wait(ctx context.Context) error
}

// Stats counts how each summary was obtained.
type Stats struct {
	Generated int
	Skipped   int
	Fallbacks int
}

// Service summarizes articles one at a time.
type Service struct {
	generator Generator
	pacer     Pacer
	language  string
}

// NewService creates a Service. An empty language means DefaultLanguage.
func NewService(generator Generator, pacer Pacer, language string) *Service {
	if language == "" {
		language = DefaultLanguage
	}
	return &Service{generator: generator, pacer: pacer, language: language}
}

// SummarizeAll returns a copy of articles with Summary set on every element.
// It never fails: short content skips the model, and model errors fall back
// to the description or a fixed placeholder.
func (s *Service) SummarizeAll(ctx context.Context, articles []entity.Article) ([]entity.Article, Stats) {
	out := make([]entity.Article, len(articles))
	var stats Stats

	for i, a := range articles {
		summary, outcome := s.summarizeOne(ctx, a)
		switch outcome {
		case metrics.SummaryGenerated:
			stats.Generated++
		case metrics.SummarySkipped:
			stats.Skipped++
		default:
			stats.Fallbacks++
		}
		metrics.RecordArticleSummarized(outcome)
		out[i] = a.WithSummary(summary)
	}

	slog.Info("summarization finished",
		slog.Int("total", len(articles)),
		slog.Int("generated", stats.Generated),
		slog.Int("skipped", stats.Skipped),
		slog.Int("fallbacks", stats.Fallbacks))

	return out, stats
}

func (s *Service) summarizeOne(ctx context.Context, a entity.Article) (string, string) {
	if !a.HasContent(MinContentLength) {
		return fallback(a.Description, ContentUnavailable), metrics.SummarySkipped
	}

	if s.pacer != nil {
		if err := s.pacer.Wait(ctx); err != nil {
			slog.Warn("summarization pacing interrupted",
				slog.String("title", a.Title),
				slog.Any("error", err))
			return fallback(a.Description, SummaryUnavailable), metrics.SummaryFallback
		}
	}

	slog.Debug("summarizing article", slog.String("title", a.Title))

	summary, err := s.generator.Generate(ctx, BuildPrompt(s.language, a.Title, a.Content))
	if err != nil {
		slog.Error("error summarizing article",
			slog.String("title", a.Title),
			slog.String("url", a.URL),
			slog.Any("error", err))
		return fallback(a.Description, SummaryUnavailable), metrics.SummaryFallback
	}

	summary = strings.TrimSpace(summary)
	if summary == "" {
		slog.Warn("model returned empty summary", slog.String("title", a.Title))
		return fallback(a.Description, SummaryUnavailable), metrics.SummaryFallback
	}

	return summary, metrics.SummaryGenerated
}

func fallback(description, placeholder string) string {
	if d := strings.TrimSpace(description); d != "" {
		return d
	}
	return placeholder
}
