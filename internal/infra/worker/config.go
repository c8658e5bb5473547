package worker

import (
	"fmt"
	"log/slog"
	"time"

	"weekly-ai-news/internal/pkg/config"
)

// WorkerConfig holds the scheduler settings for the long-running digest worker.
type WorkerConfig struct {
	// CronSchedule is a 5-field cron expression evaluated in Timezone.
	CronSchedule string

	Timezone string

	// RunTimeout bounds one whole digest run.
	RunTimeout time.Duration

	HealthPort int

	// RunOnStart triggers one digest immediately after startup.
	RunOnStart bool
}

// DefaultConfig returns the worker defaults: every Monday at 09:00 JST.
func DefaultConfig() WorkerConfig {
	return WorkerConfig{
		CronSchedule: "0 9 * * 1",
		Timezone:     "Asia/Tokyo",
		RunTimeout:   30 * time.Minute,
		HealthPort:   9091,
		RunOnStart:   false,
	}
}

// Validate checks every field and reports all problems at once.
func (c *WorkerConfig) Validate() error {
	var errs []error

	if err := config.ValidateCronSchedule(c.CronSchedule); err != nil {
		errs = append(errs, fmt.Errorf("cron schedule: %w", err))
	}
	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	if err := config.ValidateDuration(c.RunTimeout, time.Minute, 4*time.Hour); err != nil {
		errs = append(errs, fmt.Errorf("run timeout: %w", err))
	}
	if err := config.ValidateIntRange(c.HealthPort, 1024, 65535); err != nil {
		errs = append(errs, fmt.Errorf("health port: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed: %v", errs)
	}
	return nil
}

// LoadConfigFromEnv reads the worker settings. Invalid values fall back to
// defaults with a warning and are counted in metrics.
func LoadConfigFromEnv(logger *slog.Logger, metrics *WorkerMetrics) (*WorkerConfig, error) {
	cfg := DefaultConfig()
	var fallbacks []string

	track := func(field string, result config.ConfigLoadResult) {
		if !result.FallbackApplied {
			return
		}
		fallbacks = append(fallbacks, field)
		for _, warning := range result.Warnings {
			logger.Warn("Configuration fallback applied",
				slog.String("field", field),
				slog.String("warning", warning))
		}
	}

	result := config.LoadEnvWithFallback("CRON_SCHEDULE", cfg.CronSchedule, config.ValidateCronSchedule)
	cfg.CronSchedule = result.Value.(string)
	track("cron_schedule", result)

	result = config.LoadEnvWithFallback("WORKER_TIMEZONE", cfg.Timezone, config.ValidateTimezone)
	cfg.Timezone = result.Value.(string)
	track("timezone", result)

	result = config.LoadEnvDuration("RUN_TIMEOUT", cfg.RunTimeout, config.DurationRange(time.Minute, 4*time.Hour))
	cfg.RunTimeout = result.Value.(time.Duration)
	track("run_timeout", result)

	result = config.LoadEnvInt("WORKER_HEALTH_PORT", cfg.HealthPort, config.IntRange(1024, 65535))
	cfg.HealthPort = result.Value.(int)
	track("health_port", result)

	result = config.LoadEnvBool("WORKER_RUN_ON_START", cfg.RunOnStart)
	cfg.RunOnStart = result.Value.(bool)
	track("run_on_start", result)

	if metrics != nil {
		metrics.Observe(fallbacks)
	}

	return &cfg, nil
}
