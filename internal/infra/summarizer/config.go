package summarizer

import (
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	openai "github.com/sashabaranov/go-openai"

	"weekly-ai-news/internal/pkg/config"
)

const (
	// ProviderClaude selects the Anthropic adapter.
	ProviderClaude = "claude"
	// ProviderOpenAI selects the OpenAI adapter.
	ProviderOpenAI = "openai"
	// ProviderNoOp selects the offline adapter used for dry runs.
	ProviderNoOp = "noop"

	defaultMaxTokens = 1024
	defaultTimeout   = 60 * time.Second
)

// Config holds the settings shared by the model adapters.
type Config struct {
	// Model is the provider's model identifier.
	Model string

	// MaxTokens caps the response length.
	MaxTokens int

	// Timeout bounds one model call, retries included.
	Timeout time.Duration

	// BaseURL overrides the provider endpoint. Empty uses the SDK default.
	BaseURL string
}

// Validate checks the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if c.Model == "" {
		return fmt.Errorf("model cannot be empty")
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max tokens must be positive, got %d", c.MaxTokens)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	return nil
}

// LoadClaudeConfig reads CLAUDE_MODEL, ANTHROPIC_BASE_URL and the shared
// SUMMARIZER_MAX_TOKENS / SUMMARIZER_TIMEOUT settings.
func LoadClaudeConfig() Config {
	return loadConfig("CLAUDE_MODEL", string(anthropic.ModelClaudeSonnet4_5_20250929), "ANTHROPIC_BASE_URL")
}

// LoadOpenAIConfig reads OPENAI_MODEL, OPENAI_BASE_URL and the shared settings.
func LoadOpenAIConfig() Config {
	return loadConfig("OPENAI_MODEL", openai.GPT4oMini, "OPENAI_BASE_URL")
}

func loadConfig(modelKey, defaultModel, baseURLKey string) Config {
	cfg := Config{
		Model:   config.LoadEnvString(modelKey, defaultModel),
		BaseURL: config.LoadEnvString(baseURLKey, ""),
	}

	result := config.LoadEnvInt("SUMMARIZER_MAX_TOKENS", defaultMaxTokens, config.IntRange(64, 8192))
	result.LogWarnings("summarizer")
	cfg.MaxTokens = result.Value.(int)

	result = config.LoadEnvDuration("SUMMARIZER_TIMEOUT", defaultTimeout, config.DurationRange(5*time.Second, 5*time.Minute))
	result.LogWarnings("summarizer")
	cfg.Timeout = result.Value.(time.Duration)

	return cfg
}
