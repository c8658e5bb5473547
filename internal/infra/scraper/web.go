package scraper

import (
	"context"
	"log/slog"
	"time"

	"weekly-ai-news/internal/domain/entity"
	"weekly-ai-news/internal/observability/metrics"
)

// SourceName labels the combined web source in logs and metrics.
const SourceName = "web"

// WebSource scrapes every registered listing page, then every feed, one after
// another. A failing site is logged and contributes nothing.
type WebSource struct {
	html    *HTMLScraper
	feeds   *FeedReader
	targets []entity.ScrapeTarget
	feedSrc []entity.FeedTarget
}

// NewWebSource wires the scrapers to the registry's targets.
func NewWebSource(html *HTMLScraper, feeds *FeedReader, targets []entity.ScrapeTarget, feedTargets []entity.FeedTarget) *WebSource {
	return &WebSource{html: html, feeds: feeds, targets: targets, feedSrc: feedTargets}
}

// Name implements the collector's source interface.
func (w *WebSource) Name() string { return SourceName }

// Collect returns the concatenated results of all targets in registry order.
// It only fails when ctx is done.
func (w *WebSource) Collect(ctx context.Context) ([]entity.Article, error) {
	var results []entity.Article

	for _, target := range w.targets {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		slog.Info("scraping source", slog.String("source", target.Name))

		start := time.Now()
		articles, err := w.html.Scrape(ctx, target)
		metrics.RecordSourceDuration(target.Name, time.Since(start))
		if err != nil {
			slog.Error("error scraping source",
				slog.String("source", target.Name),
				slog.String("url", target.URL),
				slog.Any("error", err))
			metrics.RecordSourceError(target.Name, "scrape")
			continue
		}
		metrics.RecordArticlesCollected(target.Name, len(articles))
		results = append(results, articles...)
	}

	for _, feed := range w.feedSrc {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		slog.Info("reading feed", slog.String("source", feed.Name))

		start := time.Now()
		articles, err := w.feeds.Read(ctx, feed)
		metrics.RecordSourceDuration(feed.Name, time.Since(start))
		if err != nil {
			slog.Error("error reading feed",
				slog.String("source", feed.Name),
				slog.String("url", feed.URL),
				slog.Any("error", err))
			metrics.RecordSourceError(feed.Name, "feed")
			continue
		}
		metrics.RecordArticlesCollected(feed.Name, len(articles))
		results = append(results, articles...)
	}

	return results, nil
}
