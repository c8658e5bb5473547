// Package newsapi searches the NewsAPI "everything" endpoint for recent AI articles.
package newsapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"weekly-ai-news/internal/config"
	"weekly-ai-news/internal/domain/entity"
	"weekly-ai-news/internal/resilience/circuitbreaker"
	"weekly-ai-news/internal/resilience/retry"
)

// DefaultBaseURL is the production endpoint.
const DefaultBaseURL = "https://newsapi.org/v2/everything"

// SourceName labels NewsAPI in logs and metrics.
const SourceName = "NewsAPI"

const maxResponseSize = 5 * 1024 * 1024

// ErrNonOKStatus is returned by Search when the API answers with a status other than "ok".
var ErrNonOKStatus = errors.New("newsapi returned non-ok status")

// Client queries NewsAPI with the registry's keywords and domain filter.
type Client struct {
	apiKey         string
	baseURL        string
	registry       config.SourceRegistry
	client         *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
	now            func() time.Time
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL points the client at another endpoint (tests use httptest).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithClock overrides the clock used for the from-date.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// WithRetryConfig overrides the retry policy.
func WithRetryConfig(cfg retry.Config) Option {
	return func(c *Client) { c.retryConfig = cfg }
}

// NewClient creates a NewsAPI client. httpClient should carry the request timeout.
func NewClient(apiKey string, registry config.SourceRegistry, httpClient *http.Client, opts ...Option) *Client {
	c := &Client{
		apiKey:         apiKey,
		baseURL:        DefaultBaseURL,
		registry:       registry,
		client:         httpClient,
		circuitBreaker: circuitbreaker.New(circuitbreaker.NewsAPIConfig()),
		retryConfig:    retry.NewsAPIConfig(),
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name implements the collector's source interface.
func (c *Client) Name() string { return SourceName }

// Collect searches NewsAPI. A non-ok API status is logged and yields no articles.
func (c *Client) Collect(ctx context.Context) ([]entity.Article, error) {
	articles, err := c.Search(ctx)
	if errors.Is(err, ErrNonOKStatus) {
		slog.Error("NewsAPI returned non-ok status", slog.Any("error", err))
		return nil, nil
	}
	return articles, err
}

// Search runs one query through the circuit breaker with retry.
func (c *Client) Search(ctx context.Context) ([]entity.Article, error) {
	var articles []entity.Article

	retryErr := retry.WithBackoff(ctx, c.retryConfig, func() error {
		cbResult, err := c.circuitBreaker.Execute(func() (interface{}, error) {
			return c.doSearch(ctx)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("newsapi circuit breaker open, request rejected",
					slog.String("service", "newsapi"),
					slog.String("state", c.circuitBreaker.State().String()))
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

type apiArticle struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	URL         string  `json:"url"`
	Source      struct {
		Name string `json:"name"`
	} `json:"source"`
	PublishedAt string  `json:"publishedAt"`
	URLToImage  *string `json:"urlToImage"`
}

type apiResponse struct {
	Status       string       `json:"status"`
	Code         string       `json:"code"`
	Message      string       `json:"message"`
	TotalResults int          `json:"totalResults"`
	Articles     []apiArticle `json:"articles"`
}

func (c *Client) requestURL() (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("parse base URL: %w", err)
	}

	from := c.now().AddDate(0, 0, -config.LookbackDays).Format("2006-01-02")

	q := u.Query()
	q.Set("q", c.registry.Query())
	q.Set("from", from)
	q.Set("sortBy", "publishedAt")
	q.Set("language", "en")
	q.Set("domains", c.registry.DomainsParam())
	q.Set("pageSize", strconv.Itoa(config.NewsAPIPageSize))
	u.RawQuery = q.Encode()

	return u.String(), nil
}

func (c *Client) doSearch(ctx context.Context) ([]entity.Article, error) {
	reqURL, err := c.requestURL()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
		return nil, &retry.HTTPError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("unexpected status: %s", resp.Status),
		}
	}

	var body apiResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode response (HTTP %d): %w", resp.StatusCode, err)
	}

	if body.Status != "ok" {
		return nil, fmt.Errorf("%w: status=%q code=%q message=%q", ErrNonOKStatus, body.Status, body.Code, body.Message)
	}

	articles := make([]entity.Article, 0, len(body.Articles))
	for _, a := range body.Articles {
		articles = append(articles, toArticle(a))
	}

	slog.Debug("newsapi search complete",
		slog.Int("total_results", body.TotalResults),
		slog.Int("returned", len(articles)))

	return articles, nil
}

func toArticle(a apiArticle) entity.Article {
	published, err := time.Parse(time.RFC3339, a.PublishedAt)
	if err != nil {
		slog.Debug("unparseable publishedAt, using zero time",
			slog.String("url", a.URL),
			slog.String("published_at", a.PublishedAt))
	}

	article := entity.Article{
		Title:       a.Title,
		URL:         a.URL,
		Source:      a.Source.Name,
		PublishedAt: published,
	}
	if a.Description != nil {
		article.Description = *a.Description
	}
	if a.URLToImage != nil {
		article.ImageURL = *a.URLToImage
	}
	return article
}
