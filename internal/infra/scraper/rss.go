package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"github.com/sony/gobreaker"

	"weekly-ai-news/internal/domain/entity"
	"weekly-ai-news/internal/resilience/circuitbreaker"
	"weekly-ai-news/internal/resilience/retry"
	"weekly-ai-news/internal/utils/text"
)

// FeedReader reads RSS/Atom feeds with gofeed.
// It includes circuit breaker and retry logic for improved reliability.
type FeedReader struct {
	client         *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
	now            func() time.Time
}

// NewFeedReader creates a FeedReader with the given HTTP client.
func NewFeedReader(client *http.Client) *FeedReader {
	return &FeedReader{
		client:         client,
		circuitBreaker: circuitbreaker.New(circuitbreaker.FeedFetchConfig()),
		retryConfig:    retry.WebScraperConfig(),
		now:            time.Now,
	}
}

// Read returns up to MaxItemsPerSource articles from the feed.
func (f *FeedReader) Read(ctx context.Context, feed entity.FeedTarget) ([]entity.Article, error) {
	var articles []entity.Article

	retryErr := retry.WithBackoff(ctx, f.retryConfig, func() error {
		cbResult, err := f.circuitBreaker.Execute(func() (interface{}, error) {
			return f.doRead(ctx, feed)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("feed fetch circuit breaker open, request rejected",
					slog.String("service", "feed-fetch"),
					slog.String("source", feed.Name),
					slog.String("state", f.circuitBreaker.State().String()))
			}
			return err
		}

		articles = cbResult.([]entity.Article)
		return nil
	})
	if retryErr != nil {
		return nil, retryErr
	}

	return articles, nil
}

func (f *FeedReader) doRead(ctx context.Context, feed entity.FeedTarget) ([]entity.Article, error) {
	fp := gofeed.NewParser()
	fp.UserAgent = BrowserUserAgent
	fp.Client = f.client

	parsed, err := fp.ParseURLWithContext(feed.URL, ctx)
	if err != nil {
		var httpErr gofeed.HTTPError
		if errors.As(err, &httpErr) {
			return nil, &retry.HTTPError{StatusCode: httpErr.StatusCode, Message: httpErr.Status}
		}
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	items := parsed.Items
	if len(items) > MaxItemsPerSource {
		items = items[:MaxItemsPerSource]
	}

	articles := make([]entity.Article, 0, len(items))
	for _, it := range items {
		title := strings.TrimSpace(it.Title)
		link := strings.TrimSpace(it.Link)
		if title == "" || link == "" {
			continue
		}

		pubAt := f.now()
		if it.PublishedParsed != nil {
			pubAt = *it.PublishedParsed
		} else if it.UpdatedParsed != nil {
			pubAt = *it.UpdatedParsed
		}

		article := entity.Article{
			Title:       title,
			URL:         link,
			Source:      feed.Name,
			PublishedAt: pubAt,
			Description: text.Truncate(plainText(it.Description), MaxDescriptionLength),
		}
		if it.Image != nil {
			article.ImageURL = it.Image.URL
		}
		articles = append(articles, article)
	}

	return articles, nil
}

// plainText strips markup from feed descriptions, which often embed HTML.
func plainText(s string) string {
	if !strings.Contains(s, "<") {
		return strings.TrimSpace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return text.NormalizeWhitespace(doc.Text())
}
