// Package config reads typed values from the environment. A malformed value
// falls back to the default and logs a warning.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// GetEnvString returns the variable, or defaultValue when unset or empty.
//
//	lang := GetEnvString("SUMMARY_LANGUAGE", "日本語")
func GetEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetEnvInt parses the variable as a decimal integer.
func GetEnvInt(key string, defaultValue int) int {
	return parseEnv(key, defaultValue, strconv.Atoi)
}

// GetEnvDuration parses the variable with time.ParseDuration.
//
//	delay := GetEnvDuration("CONTENT_FETCH_DELAY", time.Second) // "1500ms" -> 1.5s
func GetEnvDuration(key string, defaultValue time.Duration) time.Duration {
	return parseEnv(key, defaultValue, time.ParseDuration)
}

// GetEnvStringList splits a comma-separated variable into trimmed, non-empty
// parts. A variable with no usable parts yields defaultValue.
//
//	// NEWSAPI_DOMAINS="techcrunch.com, wired.com"
//	domains := GetEnvStringList("NEWSAPI_DOMAINS", nil) // ["techcrunch.com", "wired.com"]
func GetEnvStringList(key string, defaultValue []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}

	var result []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return defaultValue
	}
	return result
}

func parseEnv[T any](key string, defaultValue T, parse func(string) (T, error)) T {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}

	value, err := parse(strings.TrimSpace(raw))
	if err != nil {
		slog.Warn("invalid value for environment variable, using default",
			slog.String("key", key),
			slog.String("value", raw),
			slog.Any("default", defaultValue))
		return defaultValue
	}
	return value
}
