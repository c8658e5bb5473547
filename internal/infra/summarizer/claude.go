// Package summarizer adapts generative-text APIs to the summarize.Generator
// interface. Each adapter wraps its SDK with a circuit breaker, retries and
// Prometheus metrics.
package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/google/uuid"
	"github.com/sony/gobreaker"

	"weekly-ai-news/internal/resilience/circuitbreaker"
	"weekly-ai-news/internal/resilience/retry"
	"weekly-ai-news/internal/utils/text"
)

// ErrEmptyResponse indicates the model answered without any text.
var ErrEmptyResponse = errors.New("model returned empty response")

// Claude generates text with Anthropic's Messages API.
type Claude struct {
	client          anthropic.Client
	circuitBreaker  *circuitbreaker.CircuitBreaker
	retryConfig     retry.Config
	config          Config
	metricsRecorder GenerationMetricsRecorder
}

// NewClaude creates a Claude adapter. SDK-level retries are disabled; retries
// go through retry.WithBackoff instead.
func NewClaude(apiKey string, cfg Config) *Claude {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	slog.Info("Initialized Claude summarizer",
		slog.String("model", cfg.Model),
		slog.Int("max_tokens", cfg.MaxTokens))

	return &Claude{
		client:          anthropic.NewClient(opts...),
		circuitBreaker:  circuitbreaker.New(circuitbreaker.ClaudeAPIConfig()),
		retryConfig:     retry.AIAPIConfig(),
		config:          cfg,
		metricsRecorder: NewPrometheusGenerationMetrics(),
	}
}

// Generate sends prompt as a single user turn and returns the trimmed answer.
func (c *Claude) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	var result string

	retryErr := retry.WithBackoff(ctx, c.retryConfig, func() error {
		cbResult, err := c.circuitBreaker.Execute(func() (interface{}, error) {
			return c.doGenerate(ctx, prompt)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("claude api circuit breaker open, request rejected",
					slog.String("service", "claude-api"),
					slog.String("state", c.circuitBreaker.State().String()))
				return fmt.Errorf("claude api unavailable: circuit breaker open")
			}
			return err
		}

		result = cbResult.(string)
		return nil
	})

	if retryErr != nil {
		return "", fmt.Errorf("claude generate failed: %w", retryErr)
	}

	return result, nil
}

func (c *Claude) doGenerate(ctx context.Context, prompt string) (string, error) {
	requestID := uuid.New().String()

	slog.DebugContext(ctx, "Starting generation",
		slog.String("request_id", requestID),
		slog.String("provider", ProviderClaude),
		slog.Int("prompt_length", text.CountRunes(prompt)))

	start := time.Now()

	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.config.Model),
		MaxTokens: int64(c.config.MaxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})

	duration := time.Since(start)
	c.metricsRecorder.RecordDuration(ProviderClaude, duration)

	if err != nil {
		c.metricsRecorder.RecordFailure(ProviderClaude)
		slog.ErrorContext(ctx, "Generation failed",
			slog.String("request_id", requestID),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))

		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("claude api error: %w", &retry.HTTPError{
				StatusCode: apiErr.StatusCode,
				Message:    err.Error(),
			})
		}
		return "", fmt.Errorf("claude api error: %w", err)
	}

	var b strings.Builder
	for _, block := range message.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok {
			b.WriteString(tb.Text)
		}
	}
	out := strings.TrimSpace(b.String())
	if out == "" {
		c.metricsRecorder.RecordFailure(ProviderClaude)
		return "", fmt.Errorf("claude api: %w", ErrEmptyResponse)
	}

	length := text.CountRunes(out)
	c.metricsRecorder.RecordLength(ProviderClaude, length)

	slog.InfoContext(ctx, "Generation completed",
		slog.String("request_id", requestID),
		slog.String("provider", ProviderClaude),
		slog.Int("length", length),
		slog.Duration("duration", duration))

	return out, nil
}
