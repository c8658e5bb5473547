// Package collect gathers candidate articles from every source and merges
// them into one deduplicated, newest-first list.
package collect

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"weekly-ai-news/internal/domain/entity"
	"weekly-ai-news/internal/observability/metrics"
)

// Source yields articles from one provider.
type Source interface {
	Name() string
	Collect(ctx context.Context) ([]entity.Article, error)
}

// Service runs all sources concurrently and merges their results.
type Service struct {
	sources []Source
}

// NewService creates a Service. Results are merged in the order sources are
// given, so on a URL clash the later source wins.
func NewService(sources ...Source) *Service {
	return &Service{sources: sources}
}

// Collect runs every source, isolating failures, and returns Merge of the
// results. An empty result is valid. Only context cancellation is an error.
func (s *Service) Collect(ctx context.Context) ([]entity.Article, error) {
	results := make([][]entity.Article, len(s.sources))

	eg, egCtx := errgroup.WithContext(ctx)
	for i, src := range s.sources {
		eg.Go(func() error {
			start := time.Now()
			articles, err := src.Collect(egCtx)
			metrics.RecordSourceDuration(src.Name(), time.Since(start))
			if err != nil {
				slog.Error("error collecting from source",
					slog.String("source", src.Name()),
					slog.Any("error", err))
				metrics.RecordSourceError(src.Name(), "collect")
				return nil
			}
			results[i] = articles
			return nil
		})
	}
	_ = eg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	merged := Merge(results...)

	slog.Info("collection finished",
		slog.Int("sources", len(s.sources)),
		slog.Int("articles", len(merged)))

	return merged, nil
}

// Merge concatenates lists, keeps the last article seen for each URL, and
// sorts newest first. Ties keep their concatenation order.
func Merge(lists ...[]entity.Article) []entity.Article {
	var all []entity.Article
	for _, l := range lists {
		all = append(all, l...)
	}

	byURL := make(map[string]int, len(all))
	unique := make([]entity.Article, 0, len(all))
	for _, a := range all {
		if idx, ok := byURL[a.URL]; ok {
			unique[idx] = a
			continue
		}
		byURL[a.URL] = len(unique)
		unique = append(unique, a)
	}

	sort.SliceStable(unique, func(i, j int) bool {
		return unique[i].PublishedAt.After(unique[j].PublishedAt)
	})
	return unique
}
