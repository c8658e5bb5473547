package fetcher_test

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weekly-ai-news/internal/infra/fetcher"
)

type stubExtractor string

func (s stubExtractor) Extract(_ []byte, _ *url.URL) (string, error) { return string(s), nil }

func TestDefaultConfig(t *testing.T) {
	cfg := fetcher.DefaultConfig()

	assert.Equal(t, 15*time.Second, cfg.Timeout)
	assert.Equal(t, int64(10*1024*1024), cfg.MaxBodySize)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, 3*time.Second, cfg.RetryStep)
	assert.True(t, cfg.DenyPrivateIPs)
	assert.Equal(t, fetcher.ExtractorSelector, cfg.Extractor)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*fetcher.Config)
	}{
		{"zero timeout", func(c *fetcher.Config) { c.Timeout = 0 }},
		{"tiny body", func(c *fetcher.Config) { c.MaxBodySize = 10 }},
		{"too many redirects", func(c *fetcher.Config) { c.MaxRedirects = 11 }},
		{"negative retries", func(c *fetcher.Config) { c.MaxRetries = -1 }},
		{"unknown extractor", func(c *fetcher.Config) { c.Extractor = "magic" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := fetcher.DefaultConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestConfig_RetryConfig(t *testing.T) {
	cfg := fetcher.DefaultConfig()
	cfg.MaxRetries = 2
	cfg.RetryStep = time.Second

	rc := cfg.RetryConfig()

	assert.Equal(t, 3, rc.MaxAttempts)
	assert.Equal(t, time.Second, rc.InitialDelay)
	assert.True(t, rc.Linear)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("CONTENT_FETCH_TIMEOUT", "20s")
	t.Setenv("CONTENT_FETCH_MAX_RETRIES", "5")
	t.Setenv("CONTENT_FETCH_RETRY_STEP", "not-a-duration")
	t.Setenv("CONTENT_FETCH_DENY_PRIVATE_IPS", "false")
	t.Setenv("CONTENT_EXTRACTOR", "readability")

	cfg, err := fetcher.LoadConfigFromEnv()
	require.NoError(t, err)

	assert.Equal(t, 20*time.Second, cfg.Timeout)
	assert.Equal(t, 5, cfg.MaxRetries)
	assert.Equal(t, 3*time.Second, cfg.RetryStep, "invalid value falls back")
	assert.False(t, cfg.DenyPrivateIPs)
	assert.Equal(t, fetcher.ExtractorReadability, cfg.Extractor)
}

func TestLoadConfigFromEnv_UnknownExtractor(t *testing.T) {
	t.Setenv("CONTENT_EXTRACTOR", "magic")

	_, err := fetcher.LoadConfigFromEnv()
	assert.Error(t, err)
}
