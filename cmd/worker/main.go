// Package main runs the digest on a cron schedule and serves health and
// Prometheus endpoints until SIGINT or SIGTERM.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"weekly-ai-news/internal/app"
	workerPkg "weekly-ai-news/internal/infra/worker"
	"weekly-ai-news/internal/observability/logging"
	"weekly-ai-news/internal/usecase/digest"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Error: failed to read .env: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load worker configuration (fail-open strategy)
	workerMetrics := workerPkg.NewWorkerMetrics()
	workerConfig, err := workerPkg.LoadConfigFromEnv(logger, workerMetrics)
	if err != nil {
		logger.Error("failed to load worker configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("worker configuration loaded",
		slog.String("cron_schedule", workerConfig.CronSchedule),
		slog.String("timezone", workerConfig.Timezone),
		slog.Duration("run_timeout", workerConfig.RunTimeout),
		slog.Int("health_port", workerConfig.HealthPort),
		slog.Bool("run_on_start", workerConfig.RunOnStart))

	loc := app.LoadLocation(logger, workerConfig.Timezone)

	pipeline, err := app.Build(ctx, logger, loc)
	if err != nil {
		logger.Error("failed to configure pipeline", slog.String("error", logging.SanitizeError(err)))
		os.Exit(1)
	}

	startMetricsServer(ctx, logger, pipeline.Notify)

	healthAddr := fmt.Sprintf(":%d", workerConfig.HealthPort)
	healthServer := workerPkg.NewHealthServer(healthAddr, logger)
	go func() {
		if err := healthServer.Start(ctx); err != nil && err != http.ErrServerClosed {
			logger.Error("health server failed", slog.Any("error", err))
		}
	}()

	job := &digestJob{
		logger:  logger,
		svc:     pipeline.Digest,
		timeout: workerConfig.RunTimeout,
		metrics: workerMetrics,
		health:  healthServer,
	}

	// Scheduled and on-start runs share one wrapper, so they never overlap.
	scheduled := job.cronJob(ctx)
	c := cron.New(cron.WithLocation(loc))
	if _, err := c.AddJob(workerConfig.CronSchedule, scheduled); err != nil {
		logger.Error("failed to add cron job", slog.Any("error", err))
		os.Exit(1)
	}
	c.Start()

	healthServer.SetReady(true)
	logger.Info("worker started",
		slog.String("schedule", workerConfig.CronSchedule),
		slog.String("timezone", loc.String()))

	if workerConfig.RunOnStart {
		go scheduled.Run()
	}

	<-ctx.Done()
	logger.Info("shutdown signal received, waiting for running job")
	healthServer.SetReady(false)
	<-c.Stop().Done()
	logger.Info("worker stopped")
}

type pipelineRunner interface {
	Run(ctx context.Context) (*digest.RunStats, error)
}

// digestJob runs one pipeline execution with timeout, metrics and health reporting.
type digestJob struct {
	logger  *slog.Logger
	svc     pipelineRunner
	timeout time.Duration
	metrics *workerPkg.WorkerMetrics
	health  *workerPkg.HealthServer
}

// cronJob wraps run so that a fire while a run is in progress is skipped.
func (j *digestJob) cronJob(ctx context.Context) cron.Job {
	return cron.NewChain(cron.SkipIfStillRunning(cron.DefaultLogger)).
		Then(cron.FuncJob(func() { j.run(ctx) }))
}

func (j *digestJob) run(parent context.Context) {
	start := time.Now()
	runID := uuid.New().String()

	ctx, cancel := context.WithTimeout(parent, j.timeout)
	defer cancel()
	ctx = logging.WithRunID(logging.WithLogger(ctx, j.logger), runID)
	logger := logging.FromContext(ctx)

	logger.Info("digest run started")

	stats, err := j.svc.Run(ctx)
	report := workerPkg.RunReport{FinishedAt: time.Now()}

	switch {
	case err != nil:
		report.Status = digest.StatusFailure
		logger.Error("digest run failed", slog.String("error", logging.SanitizeError(err)))
	case stats.Empty:
		report.Status = digest.StatusEmpty
		logger.Warn("digest run found no articles")
	default:
		report.Status = digest.StatusSuccess
		report.PresentationURL = stats.PresentationURL
		report.Articles = stats.Collected
		logger.Info("digest run completed",
			slog.Int("collected", stats.Collected),
			slog.Int("with_content", stats.WithContent),
			slog.Int("summarized", stats.Summarized),
			slog.Int("fallbacks", stats.Fallbacks),
			slog.String("url", stats.PresentationURL),
			slog.Duration("duration", stats.Duration))
	}

	j.metrics.RecordJobRun(report.Status, time.Since(start).Seconds())
	j.health.RecordRun(report)
}
