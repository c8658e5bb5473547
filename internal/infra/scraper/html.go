// Package scraper collects articles from sites that publish no API: HTML
// listing pages parsed with CSS selectors, and RSS/Atom feeds.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sony/gobreaker"

	"weekly-ai-news/internal/domain/entity"
	"weekly-ai-news/internal/resilience/circuitbreaker"
	"weekly-ai-news/internal/resilience/retry"
	"weekly-ai-news/internal/utils/text"
)

const (
	maxBodySize = 10 * 1024 * 1024 // 10MB

	// BrowserUserAgent is sent with every scrape; several sites reject bot agents.
	BrowserUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"

	// MaxItemsPerSource caps the article elements read from one listing page.
	MaxItemsPerSource = 10

	// MaxDescriptionLength is the description cut, in characters.
	MaxDescriptionLength = 200
)

// HTMLScraper extracts articles from a listing page using a target's selectors.
type HTMLScraper struct {
	client         *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
	now            func() time.Time
}

// NewHTMLScraper creates an HTMLScraper. The client should carry the 10s scrape timeout.
func NewHTMLScraper(client *http.Client) *HTMLScraper {
	return &HTMLScraper{
		client:         client,
		circuitBreaker: circuitbreaker.New(circuitbreaker.WebScraperConfig()),
		retryConfig:    retry.WebScraperConfig(),
		now:            time.Now,
	}
}

// Scrape fetches target.URL and returns up to MaxItemsPerSource articles.
// Elements without a title or link are skipped.
func (s *HTMLScraper) Scrape(ctx context.Context, target entity.ScrapeTarget) ([]entity.Article, error) {
	var articles []entity.Article

	retryErr := retry.WithBackoff(ctx, s.retryConfig, func() error {
		cbResult, err := s.circuitBreaker.Execute(func() (interface{}, error) {
			return s.doScrape(ctx, target)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("web scraper circuit breaker open, request rejected",
					slog.String("service", "web-scraper"),
					slog.String("source", target.Name),
					slog.String("state", s.circuitBreaker.State().String()))
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

func (s *HTMLScraper) doScrape(ctx context.Context, target entity.ScrapeTarget) ([]entity.Article, error) {
	doc, err := s.fetchHTML(ctx, target.URL)
	if err != nil {
		return nil, fmt.Errorf("fetch HTML failed: %w", err)
	}
	return s.extractArticles(doc, target), nil
}

// fetchHTML fetches and parses HTML from the given URL.
func (s *HTMLScraper) fetchHTML(ctx context.Context, urlStr string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", BrowserUserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &retry.HTTPError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("unexpected status: %s", resp.Status),
		}
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}
	return doc, nil
}

func (s *HTMLScraper) extractArticles(doc *goquery.Document, target entity.ScrapeTarget) []entity.Article {
	sel := target.Selectors
	var articles []entity.Article

	items := doc.Find(sel.Article)
	if items.Length() > MaxItemsPerSource {
		items = items.Slice(0, MaxItemsPerSource)
	}

	items.Each(func(i int, el *goquery.Selection) {
		title := strings.TrimSpace(el.Find(sel.Title).Text())
		link, _ := el.Find(sel.Link).Attr("href")
		link = strings.TrimSpace(link)

		if title == "" || link == "" {
			slog.Debug("skipping element without title or link",
				slog.String("source", target.Name),
				slog.Int("index", i))
			return
		}

		article := entity.Article{
			Title:       title,
			URL:         makeAbsoluteURL(link, target.BaseURL),
			Source:      target.Name,
			PublishedAt: s.now(),
		}

		if sel.Description != "" {
			desc := strings.TrimSpace(el.Find(sel.Description).Text())
			article.Description = text.Truncate(desc, MaxDescriptionLength)
		}
		if sel.Date != "" {
			if dt, ok := el.Find(sel.Date).Attr("datetime"); ok {
				article.PublishedAt = parseDate(dt, s.now)
			}
		}
		if sel.Image != "" {
			if src, ok := el.Find(sel.Image).Attr("src"); ok {
				article.ImageURL = src
			}
		}

		articles = append(articles, article)
	})

	return articles
}

// parseDate parses a machine-readable date. Falls back to now if parsing fails.
func parseDate(dateStr string, now func() time.Time) time.Time {
	dateStr = strings.TrimSpace(dateStr)
	if dateStr == "" {
		return now()
	}

	formats := []string{
		time.RFC3339,
		"2006-01-02T15:04:05Z0700",
		"2006-01-02T15:04:05",
		"2006-01-02",
		time.RFC1123Z,
		time.RFC1123,
	}
	for _, f := range formats {
		if t, err := time.Parse(f, dateStr); err == nil {
			return t
		}
	}

	slog.Debug("failed to parse date, using current time", slog.String("date_str", dateStr))
	return now()
}

// makeAbsoluteURL prefixes relative links with baseURL.
func makeAbsoluteURL(urlStr string, baseURL string) string {
	if strings.HasPrefix(urlStr, "http") || baseURL == "" {
		return urlStr
	}
	if strings.HasPrefix(urlStr, "//") {
		return "https:" + urlStr
	}
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(urlStr, "/")
}
