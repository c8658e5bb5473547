// Package digest runs one weekly pipeline: collect, fetch content,
// summarize, render the deck, then announce it.
package digest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"weekly-ai-news/internal/domain/entity"
	"weekly-ai-news/internal/observability/logging"
	"weekly-ai-news/internal/observability/metrics"
	"weekly-ai-news/internal/observability/tracing"
	"weekly-ai-news/internal/usecase/notify"
	"weekly-ai-news/internal/usecase/summarize"
)

// Run statuses recorded by metrics.RecordDigestRun.
const (
	StatusSuccess = "success"
	StatusEmpty   = "empty"
	StatusFailure = "failure"
)

// Collector returns the merged candidate list.
type Collector interface {
	Collect(ctx context.Context) ([]entity.Article, error)
}

// ContentFetcher attaches page text to each article.
type ContentFetcher interface {
	FetchAll(ctx context.Context, articles []entity.Article) []entity.Article
}

// Summarizer attaches a summary to each article.
type Summarizer interface {
	SummarizeAll(ctx context.Context, articles []entity.Article) ([]entity.Article, summarize.Stats)
}

// Renderer writes the deck and returns its URL.
type Renderer interface {
	Render(ctx context.Context, articles []entity.Article) (string, error)
}

// Announcer publishes the finished deck. Optional.
type Announcer interface {
	AnnounceDeck(ctx context.Context, deck notify.Deck) error
}

// RunStats summarizes one run.
type RunStats struct {
	Collected       int
	WithContent     int
	Summarized      int
	Fallbacks       int
	PresentationURL string
	Duration        time.Duration

	// Empty is true when no article was collected; nothing was rendered.
	Empty bool
}

// Service wires the pipeline stages.
type Service struct {
	collector  Collector
	fetcher    ContentFetcher
	summarizer Summarizer
	renderer   Renderer
	announcer  Announcer
	location   *time.Location
	now        func() time.Time
}

// NewService creates the pipeline. announcer may be nil.
func NewService(c Collector, f ContentFetcher, s Summarizer, r Renderer, a Announcer, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		collector:  c,
		fetcher:    f,
		summarizer: s,
		renderer:   r,
		announcer:  a,
		location:   loc,
		now:        time.Now,
	}
}

// Run executes every stage once. An empty collection ends the run early
// without error. A render failure is returned; a notification failure is
// only logged.
func (s *Service) Run(ctx context.Context) (*RunStats, error) {
	start := time.Now()
	stats := &RunStats{}
	logger := logging.FromContext(ctx)

	ctx, span := tracing.StartStage(ctx, "run")
	defer span.End()

	finish := func(status string, err error) (*RunStats, error) {
		stats.Duration = time.Since(start)
		metrics.RecordDigestRun(status)
		span.SetAttributes(attribute.String("digest.status", status))
		tracing.RecordError(span, err)
		return stats, err
	}

	// collect
	articles, err := stage(ctx, "collect", func(ctx context.Context) ([]entity.Article, error) {
		return s.collector.Collect(ctx)
	})
	if err != nil {
		return finish(StatusFailure, fmt.Errorf("collect articles: %w", err))
	}
	stats.Collected = len(articles)
	logger.Info("articles collected", slog.Int("count", stats.Collected))

	if len(articles) == 0 {
		stats.Empty = true
		logger.Warn("no articles collected, skipping render")
		return finish(StatusEmpty, nil)
	}

	// content
	articles, _ = stage(ctx, "content", func(ctx context.Context) ([]entity.Article, error) {
		return s.fetcher.FetchAll(ctx, articles), nil
	})
	for _, a := range articles {
		if a.Content != "" {
			stats.WithContent++
		}
	}
	logger.Info("content fetched",
		slog.Int("with_content", stats.WithContent),
		slog.Int("total", len(articles)))

	// summarize
	var sumStats summarize.Stats
	articles, _ = stage(ctx, "summarize", func(ctx context.Context) ([]entity.Article, error) {
		out, st := s.summarizer.SummarizeAll(ctx, articles)
		sumStats = st
		return out, nil
	})
	stats.Summarized = sumStats.Generated
	stats.Fallbacks = sumStats.Fallbacks
	logger.Info("summaries generated",
		slog.Int("generated", sumStats.Generated),
		slog.Int("skipped", sumStats.Skipped),
		slog.Int("fallbacks", sumStats.Fallbacks))

	// render
	var url string
	_, err = stage(ctx, "render", func(ctx context.Context) ([]entity.Article, error) {
		var rerr error
		url, rerr = s.renderer.Render(ctx, articles)
		return nil, rerr
	})
	if err != nil {
		return finish(StatusFailure, fmt.Errorf("render presentation: %w", err))
	}
	stats.PresentationURL = url
	logger.Info("presentation rendered", slog.String("url", url))

	// notify
	if s.announcer != nil {
		_, nerr := stage(ctx, "notify", func(ctx context.Context) ([]entity.Article, error) {
			now := s.now().In(s.location)
			return nil, s.announcer.AnnounceDeck(ctx, notify.Deck{
				Title:       entity.DeckTitle(now),
				URL:         url,
				Articles:    articles,
				PublishedAt: now,
			})
		})
		if nerr != nil {
			logger.Warn("deck announcement failed", slog.Any("error", nerr))
		}
	}

	return finish(StatusSuccess, nil)
}

// stage runs fn inside a span and records its duration.
func stage(ctx context.Context, name string, fn func(context.Context) ([]entity.Article, error)) ([]entity.Article, error) {
	ctx, span := tracing.StartStage(ctx, name)
	defer span.End()

	start := time.Now()
	out, err := fn(ctx)
	metrics.RecordStage(name, time.Since(start))

	span.SetAttributes(attribute.Int("digest.articles", len(out)))
	tracing.RecordError(span, err)
	return out, err
}
