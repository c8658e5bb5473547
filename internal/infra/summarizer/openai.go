package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"

	"weekly-ai-news/internal/resilience/circuitbreaker"
	"weekly-ai-news/internal/resilience/retry"
	"weekly-ai-news/internal/utils/text"
)

// OpenAI generates text with the Chat Completions API.
type OpenAI struct {
	client          *openai.Client
	circuitBreaker  *circuitbreaker.CircuitBreaker
	retryConfig     retry.Config
	config          Config
	metricsRecorder GenerationMetricsRecorder
}

// NewOpenAI creates an OpenAI adapter.
func NewOpenAI(apiKey string, cfg Config) *OpenAI {
	clientCfg := openai.DefaultConfig(apiKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	slog.Info("Initialized OpenAI summarizer",
		slog.String("model", cfg.Model),
		slog.Int("max_tokens", cfg.MaxTokens))

	return &OpenAI{
		client:          openai.NewClientWithConfig(clientCfg),
		circuitBreaker:  circuitbreaker.New(circuitbreaker.OpenAIAPIConfig()),
		retryConfig:     retry.AIAPIConfig(),
		config:          cfg,
		metricsRecorder: NewPrometheusGenerationMetrics(),
	}
}

// Generate sends prompt as a single user message and returns the trimmed answer.
func (o *OpenAI) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.config.Timeout)
	defer cancel()

	var result string

	retryErr := retry.WithBackoff(ctx, o.retryConfig, func() error {
		cbResult, err := o.circuitBreaker.Execute(func() (interface{}, error) {
			return o.doGenerate(ctx, prompt)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("openai api circuit breaker open, request rejected",
					slog.String("service", "openai-api"),
					slog.String("state", o.circuitBreaker.State().String()))
				return fmt.Errorf("openai api unavailable: circuit breaker open")
			}
			return err
		}

		result = cbResult.(string)
		return nil
	})

	if retryErr != nil {
		return "", fmt.Errorf("openai generate failed: %w", retryErr)
	}

	return result, nil
}

func (o *OpenAI) doGenerate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     o.config.Model,
		MaxTokens: o.config.MaxTokens,
		Messages: []openai.ChatCompletionMessage{{
			Role:    openai.ChatMessageRoleUser,
			Content: prompt,
		}},
	})

	duration := time.Since(start)
	o.metricsRecorder.RecordDuration(ProviderOpenAI, duration)

	if err != nil {
		o.metricsRecorder.RecordFailure(ProviderOpenAI)
		slog.ErrorContext(ctx, "Generation failed",
			slog.String("provider", ProviderOpenAI),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))

		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("openai api error: %w", &retry.HTTPError{
				StatusCode: apiErr.HTTPStatusCode,
				Message:    apiErr.Message,
			})
		}
		return "", fmt.Errorf("openai api error: %w", err)
	}

	if len(resp.Choices) == 0 {
		o.metricsRecorder.RecordFailure(ProviderOpenAI)
		return "", fmt.Errorf("openai api: %w", ErrEmptyResponse)
	}

	out := strings.TrimSpace(resp.Choices[0].Message.Content)
	if out == "" {
		o.metricsRecorder.RecordFailure(ProviderOpenAI)
		return "", fmt.Errorf("openai api: %w", ErrEmptyResponse)
	}

	length := text.CountRunes(out)
	o.metricsRecorder.RecordLength(ProviderOpenAI, length)

	slog.InfoContext(ctx, "Generation completed",
		slog.String("provider", ProviderOpenAI),
		slog.Int("length", length),
		slog.Duration("duration", duration))

	return out, nil
}
