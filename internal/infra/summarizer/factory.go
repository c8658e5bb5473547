package summarizer

import (
	"context"
	"fmt"
	"log/slog"

	"weekly-ai-news/internal/config"
)

// Generator is implemented by every adapter in this package.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// NewFromEnv builds the adapter named by provider (SUMMARIZER_TYPE), reading
// its API key from the environment. A missing key wraps config.ErrMissingCredential.
func NewFromEnv(provider string) (Generator, error) {
	switch provider {
	case "", ProviderClaude:
		apiKey, err := config.RequireEnv("ANTHROPIC_API_KEY")
		if err != nil {
			return nil, err
		}
		cfg := LoadClaudeConfig()
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid claude configuration: %w", err)
		}
		return NewClaude(apiKey, cfg), nil

	case ProviderOpenAI:
		apiKey, err := config.RequireEnv("OPENAI_API_KEY")
		if err != nil {
			return nil, err
		}
		cfg := LoadOpenAIConfig()
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid openai configuration: %w", err)
		}
		return NewOpenAI(apiKey, cfg), nil

	case ProviderNoOp:
		slog.Warn("using no-op summarizer, summaries will be article excerpts")
		return NewNoOp(), nil

	default:
		return nil, fmt.Errorf("unknown SUMMARIZER_TYPE %q (want %s, %s or %s)",
			provider, ProviderClaude, ProviderOpenAI, ProviderNoOp)
	}
}
