package fetcher

import (
	"fmt"
	"log/slog"
	"time"

	"weekly-ai-news/internal/pkg/config"
	"weekly-ai-news/internal/resilience/retry"
)

const (
	// ExtractorSelector walks a fixed list of content-container selectors.
	ExtractorSelector = "selector"

	// ExtractorReadability runs Mozilla's Readability algorithm.
	ExtractorReadability = "readability"
)

// Config controls how article pages are downloaded and reduced to text.
type Config struct {
	// Timeout bounds a single page request.
	// Default: 15s
	Timeout time.Duration

	// MaxBodySize rejects responses larger than this many bytes.
	// Default: 10MB
	MaxBodySize int64

	// MaxRedirects is the redirect limit; every hop is re-validated.
	// Default: 5
	MaxRedirects int

	// DenyPrivateIPs blocks hosts resolving to internal addresses.
	// Default: true
	DenyPrivateIPs bool

	// MaxRetries is the number of extra attempts after an HTTP 429.
	// Default: 3
	MaxRetries int

	// RetryStep is the linear backoff unit: retry n waits n*RetryStep.
	// Default: 3s
	RetryStep time.Duration

	// Extractor selects ExtractorSelector or ExtractorReadability.
	Extractor string
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		Timeout:        15 * time.Second,
		MaxBodySize:    10 * 1024 * 1024, // 10MB
		MaxRedirects:   5,
		DenyPrivateIPs: true,
		MaxRetries:     3,
		RetryStep:      3 * time.Second,
		Extractor:      ExtractorSelector,
	}
}

// Validate checks if the configuration values are valid and safe.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}

	minBodySize := int64(1024)              // 1KB
	maxBodySize := int64(100 * 1024 * 1024) // 100MB
	if c.MaxBodySize < minBodySize || c.MaxBodySize > maxBodySize {
		return fmt.Errorf("max body size must be between %d and %d bytes, got %d", minBodySize, maxBodySize, c.MaxBodySize)
	}

	if c.MaxRedirects < 0 || c.MaxRedirects > 10 {
		return fmt.Errorf("max redirects must be between 0 and 10, got %d", c.MaxRedirects)
	}

	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("max retries must be between 0 and 10, got %d", c.MaxRetries)
	}

	if c.RetryStep < 0 {
		return fmt.Errorf("retry step must be non-negative, got %v", c.RetryStep)
	}

	if c.Extractor != ExtractorSelector && c.Extractor != ExtractorReadability {
		return fmt.Errorf("unknown extractor %q (want %q or %q)", c.Extractor, ExtractorSelector, ExtractorReadability)
	}

	return nil
}

// RetryConfig converts the 429 policy into a retry.Config.
func (c *Config) RetryConfig() retry.Config {
	cfg := retry.ContentFetchConfig()
	cfg.MaxAttempts = c.MaxRetries + 1
	cfg.InitialDelay = c.RetryStep
	return cfg
}

// LoadConfigFromEnv reads CONTENT_FETCH_* settings. Invalid values fall back
// to defaults with a warning.
//
// Environment variables:
//   - CONTENT_FETCH_TIMEOUT (15s)
//   - CONTENT_FETCH_MAX_RETRIES (3)
//   - CONTENT_FETCH_RETRY_STEP (3s)
//   - CONTENT_FETCH_DENY_PRIVATE_IPS (true)
//   - CONTENT_EXTRACTOR (selector)
func LoadConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	result := config.LoadEnvDuration("CONTENT_FETCH_TIMEOUT", cfg.Timeout, config.DurationRange(time.Second, 2*time.Minute))
	result.LogWarnings("content_fetch")
	cfg.Timeout = result.Value.(time.Duration)

	result = config.LoadEnvInt("CONTENT_FETCH_MAX_RETRIES", cfg.MaxRetries, config.IntRange(0, 10))
	result.LogWarnings("content_fetch")
	cfg.MaxRetries = result.Value.(int)

	result = config.LoadEnvDuration("CONTENT_FETCH_RETRY_STEP", cfg.RetryStep, config.ValidateNonNegativeDuration)
	result.LogWarnings("content_fetch")
	cfg.RetryStep = result.Value.(time.Duration)

	result = config.LoadEnvBool("CONTENT_FETCH_DENY_PRIVATE_IPS", cfg.DenyPrivateIPs)
	result.LogWarnings("content_fetch")
	cfg.DenyPrivateIPs = result.Value.(bool)

	cfg.Extractor = config.LoadEnvString("CONTENT_EXTRACTOR", cfg.Extractor)

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("configuration validation failed: %w", err)
	}

	if !cfg.DenyPrivateIPs {
		slog.Warn("content fetcher SSRF protection disabled")
	}

	return cfg, nil
}
