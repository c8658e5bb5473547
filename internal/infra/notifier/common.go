package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"weekly-ai-news/internal/utils/text"
)

type contextKey string

const requestIDKey contextKey = "request_id"

const (
	maxWebhookAttempts = 2
	defaultRetryDelay  = 5 * time.Second
	defaultRetryAfter  = 5 * time.Second
	truncationSuffix   = "..."
)

// RateLimitError represents a 429 response from a webhook service.
type RateLimitError struct {
	RetryAfter time.Duration
	Message    string
}

func (e *RateLimitError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s (retry after %v)", e.Message, e.RetryAfter)
	}
	return fmt.Sprintf("rate limit exceeded (retry after %v)", e.RetryAfter)
}

// ClientError represents a non-429 4xx response. It is never retried.
type ClientError struct {
	StatusCode int
	Message    string
}

func (e *ClientError) Error() string {
	return e.Message
}

// ServerError represents a 5xx response.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return e.Message
}

func is429Error(err error) (*RateLimitError, bool) {
	var rateLimitErr *RateLimitError
	if errors.As(err, &rateLimitErr) {
		return rateLimitErr, true
	}
	return nil, false
}

// isRetryableError reports whether err is a server or transport failure.
func isRetryableError(err error) bool {
	var serverErr *ServerError
	if errors.As(err, &serverErr) {
		return true
	}
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return false
	}
	if _, ok := is429Error(err); ok {
		return false
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// retryAfterBody matches both Slack and Discord 429 bodies.
type retryAfterBody struct {
	RetryAfter float64 `json:"retry_after"`
}

// extractRetryAfter reads retry_after (seconds) from the JSON body, then the
// Retry-After header, and defaults to five seconds.
func extractRetryAfter(resp *http.Response, body []byte) time.Duration {
	var parsed retryAfterBody
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.RetryAfter > 0 {
		return time.Duration(parsed.RetryAfter * float64(time.Second))
	}
	if h := resp.Header.Get("Retry-After"); h != "" {
		if seconds, err := strconv.Atoi(h); err == nil && seconds > 0 {
			return time.Duration(seconds) * time.Second
		}
	}
	return defaultRetryAfter
}

// truncate cuts s to maxLength characters including the suffix.
func truncate(s string, maxLength int) string {
	if text.CountRunes(s) <= maxLength {
		return s
	}
	keep := maxLength - text.CountRunes(truncationSuffix)
	if keep < 0 {
		keep = 0
	}
	return text.Truncate(s, keep) + truncationSuffix
}

// webhook is the HTTP plumbing shared by the Slack and Discord notifiers.
type webhook struct {
	service     string
	url         string
	client      *http.Client
	rateLimiter *RateLimiter
	retryDelay  time.Duration
}

// post sends one JSON payload and classifies the response.
func (w *webhook) post(ctx context.Context, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("execute http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return &RateLimitError{
			Message:    w.service + " rate limit exceeded",
			RetryAfter: extractRetryAfter(resp, body),
		}
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return &ClientError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("%s API client error: %s", w.service, string(body)),
		}
	case resp.StatusCode >= 500:
		return &ServerError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("%s API server error: %s", w.service, string(body)),
		}
	}
	return fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(body))
}

// send waits for the rate limiter, then posts with up to two attempts.
// A 429 waits for retry_after; 5xx and transport errors wait retryDelay*attempt.
func (w *webhook) send(ctx context.Context, payload any, deckURL string) error {
	requestID, _ := ctx.Value(requestIDKey).(string)
	logger := slog.With(
		slog.String("service", w.service),
		slog.String("request_id", requestID),
		slog.String("presentation_url", deckURL))

	if err := w.rateLimiter.Allow(ctx); err != nil {
		return fmt.Errorf("rate limiter error: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= maxWebhookAttempts; attempt++ {
		err := w.post(ctx, payload)
		if err == nil {
			logger.Info("webhook notification sent", slog.Int("attempt", attempt))
			return nil
		}
		lastErr = err

		var delay time.Duration
		if rl, ok := is429Error(err); ok {
			delay = rl.RetryAfter
			logger.Warn("webhook rate limit hit, backing off",
				slog.Duration("retry_after", delay),
				slog.Int("attempt", attempt))
		} else if !isRetryableError(err) {
			logger.Error("webhook notification failed with non-retryable error",
				slog.Any("error", err),
				slog.Int("attempt", attempt))
			return err
		} else {
			delay = w.retryDelay * time.Duration(attempt)
			logger.Warn("webhook request failed, retrying",
				slog.Any("error", err),
				slog.Int("attempt", attempt),
				slog.Duration("delay", delay))
		}

		if attempt == maxWebhookAttempts {
			break
		}

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("context canceled during retry backoff: %w", ctx.Err())
		}
	}

	logger.Error("webhook notification failed after all retries",
		slog.Any("error", lastErr),
		slog.Int("max_attempts", maxWebhookAttempts))
	return fmt.Errorf("%s notification failed after %d attempts: %w", w.service, maxWebhookAttempts, lastErr)
}

func retryDelayOrDefault(d time.Duration) time.Duration {
	if d <= 0 {
		return defaultRetryDelay
	}
	return d
}
