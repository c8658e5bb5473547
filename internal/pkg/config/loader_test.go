package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnvString(t *testing.T) {
	t.Setenv("TEST_STRING", "")
	assert.Equal(t, "default", LoadEnvString("TEST_STRING", "default"))

	t.Setenv("TEST_STRING", "value")
	assert.Equal(t, "value", LoadEnvString("TEST_STRING", "default"))
}

func TestLoadEnvWithFallback(t *testing.T) {
	tests := []struct {
		name         string
		envValue     string
		wantValue    string
		wantFallback bool
	}{
		{name: "unset uses default silently", envValue: "", wantValue: "0 9 * * 1", wantFallback: false},
		{name: "valid value", envValue: "30 6 * * 1", wantValue: "30 6 * * 1", wantFallback: false},
		{name: "invalid value falls back", envValue: "not a cron", wantValue: "0 9 * * 1", wantFallback: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_CRON", tt.envValue)

			result := LoadEnvWithFallback("TEST_CRON", "0 9 * * 1", ValidateCronSchedule)

			assert.Equal(t, tt.wantValue, result.Value)
			assert.Equal(t, tt.wantFallback, result.FallbackApplied)
			if tt.wantFallback {
				require.Len(t, result.Warnings, 1)
				assert.Contains(t, result.Warnings[0], "TEST_CRON")
			} else {
				assert.Empty(t, result.Warnings)
			}
		})
	}
}

func TestLoadEnvDuration(t *testing.T) {
	tests := []struct {
		name         string
		envValue     string
		want         time.Duration
		wantFallback bool
	}{
		{name: "unset", envValue: "", want: time.Second, wantFallback: false},
		{name: "valid", envValue: "1500ms", want: 1500 * time.Millisecond, wantFallback: false},
		{name: "unparseable", envValue: "soon", want: time.Second, wantFallback: true},
		{name: "fails validator", envValue: "-1s", want: time.Second, wantFallback: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_DURATION", tt.envValue)

			result := LoadEnvDuration("TEST_DURATION", time.Second, ValidatePositiveDuration)

			assert.Equal(t, tt.want, result.Value.(time.Duration))
			assert.Equal(t, tt.wantFallback, result.FallbackApplied)
		})
	}
}

func TestLoadEnvInt(t *testing.T) {
	t.Setenv("TEST_INT", "7")
	result := LoadEnvInt("TEST_INT", 3, IntRange(0, 10))
	assert.Equal(t, 7, result.Value.(int))
	assert.False(t, result.FallbackApplied)

	t.Setenv("TEST_INT", "42")
	result = LoadEnvInt("TEST_INT", 3, IntRange(0, 10))
	assert.Equal(t, 3, result.Value.(int))
	assert.True(t, result.FallbackApplied)

	t.Setenv("TEST_INT", "abc")
	result = LoadEnvInt("TEST_INT", 3, nil)
	assert.Equal(t, 3, result.Value.(int))
	assert.True(t, result.FallbackApplied)
}

func TestLoadEnvBool(t *testing.T) {
	t.Setenv("TEST_BOOL", "false")
	assert.False(t, LoadEnvBool("TEST_BOOL", true).Value.(bool))

	t.Setenv("TEST_BOOL", "maybe")
	result := LoadEnvBool("TEST_BOOL", true)
	assert.True(t, result.Value.(bool))
	assert.True(t, result.FallbackApplied)
}
