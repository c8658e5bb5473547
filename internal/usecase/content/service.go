// Package content fills in the full page text of collected articles.
package content

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"weekly-ai-news/internal/domain/entity"
	"weekly-ai-news/internal/observability/metrics"
	"weekly-ai-news/internal/utils/text"
)

// SuccessThreshold is the length a fetched body must exceed to count as a
// success in the run log.
const SuccessThreshold = 100

// Fetcher downloads a page and returns its main text.
type Fetcher interface {
	FetchContent(ctx context.Context, url string) (string, error)
}

// Pacer spaces out requests. *rate.Limiter satisfies it.
type Pacer interface {
	Wait(ctx context.Context) error
}

// NewPacer returns a limiter allowing one event per interval.
// A non-positive interval disables pacing.
func NewPacer(interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}

// Service fetches article pages one after another.
type Service struct {
	fetcher Fetcher
	pacer   Pacer
}

// NewService creates a Service. pacer may be nil.
func NewService(fetcher Fetcher, pacer Pacer) *Service {
	return &Service{fetcher: fetcher, pacer: pacer}
}

// FetchAll returns a copy of articles with Content set. A failed fetch leaves
// Content empty and never aborts the run.
func (s *Service) FetchAll(ctx context.Context, articles []entity.Article) []entity.Article {
	out := make([]entity.Article, len(articles))
	succeeded := 0

	for i, a := range articles {
		out[i] = a.WithContent(s.fetchOne(ctx, a))
		if text.CountRunes(out[i].Content) > SuccessThreshold {
			succeeded++
		}
	}

	slog.Info("content fetching finished",
		slog.String("success", fmt.Sprintf("%d/%d", succeeded, len(articles))))

	return out
}

func (s *Service) fetchOne(ctx context.Context, a entity.Article) string {
	if s.pacer != nil {
		if err := s.pacer.Wait(ctx); err != nil {
			slog.Warn("content fetch pacing interrupted",
				slog.String("url", a.URL),
				slog.Any("error", err))
			return ""
		}
	}

	slog.Debug("fetching content", slog.String("url", a.URL))

	start := time.Now()
	body, err := s.fetcher.FetchContent(ctx, a.URL)
	duration := time.Since(start)

	if err != nil {
		metrics.RecordContentFetchFailure(duration)
		slog.Error("error fetching content",
			slog.String("url", a.URL),
			slog.String("title", a.Title),
			slog.Any("error", err))
		return ""
	}

	metrics.RecordContentFetchSuccess(duration, len(body))
	return body
}
