package fetcher

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"weekly-ai-news/internal/resilience/retry"
)

// BrowserUserAgent is sent with every page request.
const BrowserUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// HTMLFetcher downloads article pages and extracts their main text.
// HTTP 429 is retried with linear backoff; every other failure is final and
// affects only the page being fetched.
//
// Thread safety: HTMLFetcher is safe for concurrent use.
type HTMLFetcher struct {
	client      *http.Client
	retryConfig retry.Config
	extractor   Extractor
	config      Config
}

// Option customizes an HTMLFetcher.
type Option func(*HTMLFetcher)

// WithTransport replaces the HTTP transport, e.g. with a tracing round tripper.
func WithTransport(rt http.RoundTripper) Option {
	return func(f *HTMLFetcher) {
		f.client.Transport = rt
	}
}

// WithExtractor overrides the extractor chosen by Config.Extractor.
func WithExtractor(e Extractor) Option {
	return func(f *HTMLFetcher) {
		f.extractor = e
	}
}

// NewHTMLFetcher creates a fetcher. Redirect targets are re-validated
// against the same SSRF rules as the original URL.
func NewHTMLFetcher(cfg Config, opts ...Option) *HTMLFetcher {
	extractor, err := NewExtractor(cfg.Extractor)
	if err != nil {
		slog.Warn("unknown content extractor, using selector policy",
			slog.String("extractor", cfg.Extractor))
		extractor = SelectorExtractor{}
	}

	f := &HTMLFetcher{
		retryConfig: cfg.RetryConfig(),
		extractor:   extractor,
		config:      cfg,
	}

	f.client = &http.Client{
		Timeout: cfg.Timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= f.config.MaxRedirects {
				return fmt.Errorf("%w: %d redirects", ErrTooManyRedirects, len(via))
			}
			if err := validateURL(req.URL.String(), f.config.DenyPrivateIPs); err != nil {
				return fmt.Errorf("redirect target validation failed: %w", err)
			}
			return nil
		},
	}

	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchContent returns the extracted main text of the page at urlStr, at most
// MaxContentLength characters. Exhausted 429 retries yield ErrRateLimited.
func (f *HTMLFetcher) FetchContent(ctx context.Context, urlStr string) (string, error) {
	if err := validateURL(urlStr, f.config.DenyPrivateIPs); err != nil {
		return "", err
	}

	var content string
	err := retry.WithBackoff(ctx, f.retryConfig, func() error {
		var err error
		content, err = f.doFetch(ctx, urlStr)
		return err
	})
	if err != nil {
		if retry.IsRateLimited(err) {
			return "", fmt.Errorf("%w: %s: %w", ErrRateLimited, urlStr, err)
		}
		return "", err
	}

	return content, nil
}

func (f *HTMLFetcher) doFetch(ctx context.Context, urlStr string) (string, error) {
	reqCtx, cancel := context.WithTimeout(ctx, f.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, urlStr, nil)
	if err != nil {
		return "", fmt.Errorf("%w: failed to create request: %v", ErrInvalidURL, err)
	}
	req.Header.Set("User-Agent", BrowserUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: request exceeded %v", ErrTimeout, f.config.Timeout)
		}
		var urlErr *url.Error
		if errors.As(err, &urlErr) && urlErr.Err != nil {
			return "", urlErr.Err
		}
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return "", &retry.HTTPError{StatusCode: resp.StatusCode, Message: resp.Status}
	}

	htmlBytes, err := io.ReadAll(io.LimitReader(resp.Body, f.config.MaxBodySize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(htmlBytes)) > f.config.MaxBodySize {
		return "", fmt.Errorf("%w: response size %d bytes exceeds limit %d bytes",
			ErrBodyTooLarge, len(htmlBytes), f.config.MaxBodySize)
	}

	var pageURL *url.URL
	if resp.Request != nil {
		pageURL = resp.Request.URL
	}
	return f.extractor.Extract(htmlBytes, pageURL)
}
