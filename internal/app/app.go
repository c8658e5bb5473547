// Package app assembles the digest pipeline from environment configuration.
// Both entry points (one-shot digest and the scheduled worker) build their
// pipeline through Build.
package app

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"weekly-ai-news/internal/config"
	"weekly-ai-news/internal/infra/fetcher"
	"weekly-ai-news/internal/infra/newsapi"
	"weekly-ai-news/internal/infra/notifier"
	"weekly-ai-news/internal/infra/scraper"
	"weekly-ai-news/internal/infra/slides"
	"weekly-ai-news/internal/infra/summarizer"
	"weekly-ai-news/internal/observability/tracing"
	"weekly-ai-news/internal/usecase/collect"
	"weekly-ai-news/internal/usecase/content"
	"weekly-ai-news/internal/usecase/digest"
	"weekly-ai-news/internal/usecase/notify"
	"weekly-ai-news/internal/usecase/summarize"
	envconfig "weekly-ai-news/pkg/config"
)

const (
	newsAPITimeout = 15 * time.Second
	scrapeTimeout  = 10 * time.Second

	// DefaultTimezone is used for slide dates and the worker schedule.
	DefaultTimezone   = "Asia/Tokyo"
	defaultRunTimeout = 30 * time.Minute
)

// Pipeline is a fully wired digest run plus the services the worker exposes.
type Pipeline struct {
	Digest     *digest.Service
	Notify     notify.Service
	RunTimeout time.Duration
}

// Build reads credentials and settings from the environment and wires every
// stage. It fails before any network call when a required credential is missing.
func Build(ctx context.Context, logger *slog.Logger, loc *time.Location) (*Pipeline, error) {
	creds, err := config.LoadCredentials()
	if err != nil {
		return nil, err
	}

	registry, err := config.LoadRegistry(envconfig.GetEnvString("SOURCES_FILE", ""))
	if err != nil {
		return nil, fmt.Errorf("load source registry: %w", err)
	}

	generator, err := summarizer.NewFromEnv(envconfig.GetEnvString("SUMMARIZER_TYPE", summarizer.ProviderClaude))
	if err != nil {
		return nil, err
	}

	fetchCfg, err := fetcher.LoadConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("content fetch configuration: %w", err)
	}

	slidesSvc, err := slides.NewGoogleService(ctx,
		slides.ServiceAccountClient(ctx, creds.ServiceAccountEmail, creds.PrivateKey))
	if err != nil {
		return nil, fmt.Errorf("create google slides client: %w", err)
	}

	if loc == nil {
		loc = time.Local
	}

	collector := collect.NewService(
		newsapi.NewClient(creds.NewsAPIKey, registry, newHTTPClient(newsAPITimeout)),
		scraper.NewWebSource(
			scraper.NewHTMLScraper(newHTTPClient(scrapeTimeout)),
			scraper.NewFeedReader(newHTTPClient(scrapeTimeout)),
			registry.ScrapeTargets,
			registry.Feeds,
		),
	)

	contentSvc := content.NewService(
		fetcher.NewHTMLFetcher(fetchCfg, fetcher.WithTransport(tracing.NewTransport(newTransport()))),
		content.NewPacer(envconfig.GetEnvDuration("CONTENT_FETCH_DELAY", time.Second)),
	)

	summarizeSvc := summarize.NewService(
		generator,
		content.NewPacer(envconfig.GetEnvDuration("SUMMARIZER_DELAY", time.Second)),
		envconfig.GetEnvString("SUMMARY_LANGUAGE", summarize.DefaultLanguage),
	)

	renderer := slides.NewRenderer(slidesSvc, slides.Config{
		PresentationID: creds.PresentationID,
		FolderID:       creds.DriveFolderID,
		Location:       loc,
	})

	notifySvc := notify.NewService([]notify.Channel{
		notify.NewSlackChannel(notifier.LoadSlackConfig(logger)),
		notify.NewDiscordChannel(notifier.LoadDiscordConfig(logger)),
	}, notify.WithTopHeadlines(envconfig.GetEnvInt("NOTIFY_TOP_HEADLINES", 5)))

	logger.Info("pipeline configured",
		slog.Int("keywords", len(registry.Keywords)),
		slog.Int("scrape_targets", len(registry.ScrapeTargets)),
		slog.Int("feeds", len(registry.Feeds)),
		slog.String("extractor", fetchCfg.Extractor),
		slog.Bool("existing_presentation", creds.PresentationID != ""),
		slog.String("timezone", loc.String()))

	return &Pipeline{
		Digest:     digest.NewService(collector, contentSvc, summarizeSvc, renderer, notifySvc, loc),
		Notify:     notifySvc,
		RunTimeout: envconfig.GetEnvDuration("RUN_TIMEOUT", defaultRunTimeout),
	}, nil
}

// LoadLocation resolves name, falling back to UTC with a warning.
func LoadLocation(logger *slog.Logger, name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		logger.Error("invalid timezone, using UTC", slog.String("timezone", name), slog.Any("error", err))
		return time.UTC
	}
	return loc
}

func newTransport() *http.Transport {
	return &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	}
}

func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: tracing.NewTransport(newTransport()),
	}
}
