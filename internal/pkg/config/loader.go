// Package config loads validated settings from the environment.
//
// Every loader returns a ConfigLoadResult instead of an error: an invalid value
// is replaced by the default and reported as a warning, so a typo in an
// optional setting never stops the weekly run.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// ConfigLoadResult represents the result of loading a configuration value.
//
// Example:
//
//	result := LoadEnvDuration("CONTENT_FETCH_DELAY", time.Second, ValidatePositiveDuration)
//	result.LogWarnings("content_fetch")
//	delay := result.Value.(time.Duration)
type ConfigLoadResult struct {
	Value           interface{}
	Warnings        []string
	FallbackApplied bool
}

// LogWarnings emits one slog warning per fallback applied while loading.
func (r ConfigLoadResult) LogWarnings(component string) {
	for _, w := range r.Warnings {
		slog.Warn("configuration fallback applied",
			slog.String("component", component),
			slog.String("warning", w))
	}
}

func fallback(envKey, raw string, err error, defaultValue interface{}) ConfigLoadResult {
	return ConfigLoadResult{
		Value: defaultValue,
		Warnings: []string{fmt.Sprintf(
			"Invalid %s='%s': %v, falling back to default '%v'",
			envKey, raw, err, defaultValue,
		)},
		FallbackApplied: true,
	}
}

// LoadEnvString loads a string value from an environment variable.
// No validation is performed.
func LoadEnvString(envKey, defaultValue string) string {
	value := os.Getenv(envKey)
	if value == "" {
		return defaultValue
	}
	return value
}

// LoadEnvWithFallback loads a string value and validates it.
// Unset means default without a warning; an invalid value means default with a warning.
//
// Example:
//
//	result := LoadEnvWithFallback("CRON_SCHEDULE", "0 9 * * 1", ValidateCronSchedule)
//	schedule := result.Value.(string)
func LoadEnvWithFallback(envKey, defaultValue string, validator func(string) error) ConfigLoadResult {
	value := os.Getenv(envKey)
	if value == "" {
		return ConfigLoadResult{Value: defaultValue}
	}

	if validator != nil {
		if err := validator(value); err != nil {
			return fallback(envKey, value, err, defaultValue)
		}
	}

	return ConfigLoadResult{Value: value}
}

// LoadEnvDuration loads a time.Duration (Go duration syntax such as "3s").
func LoadEnvDuration(envKey string, defaultValue time.Duration, validator func(time.Duration) error) ConfigLoadResult {
	valueStr := os.Getenv(envKey)
	if valueStr == "" {
		return ConfigLoadResult{Value: defaultValue}
	}

	parsed, err := time.ParseDuration(strings.TrimSpace(valueStr))
	if err != nil {
		return fallback(envKey, valueStr, err, defaultValue)
	}

	if validator != nil {
		if err := validator(parsed); err != nil {
			return fallback(envKey, valueStr, err, defaultValue)
		}
	}

	return ConfigLoadResult{Value: parsed}
}

// LoadEnvInt loads an integer.
func LoadEnvInt(envKey string, defaultValue int, validator func(int) error) ConfigLoadResult {
	valueStr := os.Getenv(envKey)
	if valueStr == "" {
		return ConfigLoadResult{Value: defaultValue}
	}

	parsed, err := strconv.Atoi(strings.TrimSpace(valueStr))
	if err != nil {
		return fallback(envKey, valueStr, err, defaultValue)
	}

	if validator != nil {
		if err := validator(parsed); err != nil {
			return fallback(envKey, valueStr, err, defaultValue)
		}
	}

	return ConfigLoadResult{Value: parsed}
}

// LoadEnvBool loads a boolean using strconv.ParseBool.
func LoadEnvBool(envKey string, defaultValue bool) ConfigLoadResult {
	valueStr := os.Getenv(envKey)
	if valueStr == "" {
		return ConfigLoadResult{Value: defaultValue}
	}

	parsed, err := strconv.ParseBool(strings.TrimSpace(valueStr))
	if err != nil {
		return fallback(envKey, valueStr, err, defaultValue)
	}

	return ConfigLoadResult{Value: parsed}
}
