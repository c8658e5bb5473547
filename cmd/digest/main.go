// Package main runs the weekly AI news digest once and prints the deck URL.
// Usage: weekly-ai-digest
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"weekly-ai-news/internal/app"
	"weekly-ai-news/internal/observability/logging"
	envconfig "weekly-ai-news/pkg/config"
)

func main() {
	os.Exit(run())
}

func run() int {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Error: failed to read .env: %v\n", err)
		return 1
	}

	logger := logging.NewLogger()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loc := app.LoadLocation(logger, envconfig.GetEnvString("DIGEST_TIMEZONE", app.DefaultTimezone))

	pipeline, err := app.Build(ctx, logger, loc)
	if err != nil {
		logger.Error("failed to configure pipeline", slog.String("error", logging.SanitizeError(err)))
		fmt.Fprintf(os.Stderr, "Error: %s\n", logging.SanitizeError(err))
		return 1
	}

	ctx, cancel := context.WithTimeout(ctx, pipeline.RunTimeout)
	defer cancel()
	ctx = logging.WithRunID(logging.WithLogger(ctx, logger), uuid.New().String())

	stats, err := pipeline.Digest.Run(ctx)
	if err != nil {
		logging.FromContext(ctx).Error("digest run failed", slog.String("error", logging.SanitizeError(err)))
		fmt.Fprintf(os.Stderr, "Error: %s\n", logging.SanitizeError(err))
		return 1
	}

	if stats.Empty {
		logging.FromContext(ctx).Warn("no articles found, nothing rendered")
		fmt.Println("No articles found.")
		return 0
	}

	logging.FromContext(ctx).Info("digest completed",
		slog.Int("collected", stats.Collected),
		slog.Int("with_content", stats.WithContent),
		slog.Int("summarized", stats.Summarized),
		slog.Int("fallbacks", stats.Fallbacks),
		slog.Duration("duration", stats.Duration),
		slog.String("url", stats.PresentationURL))
	fmt.Println(stats.PresentationURL)
	return 0
}
