package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"weekly-ai-news/internal/pkg/config"
)

// WorkerMetrics provides Prometheus metrics for the scheduled digest worker.
//
//   - worker_config_*: configuration load and fallback state
//   - worker_cron_job_runs_total{status}: scheduled runs by outcome
//   - worker_cron_job_duration_seconds: wall time of one run
//   - worker_cron_job_last_success_timestamp: Unix time of the last published deck
type WorkerMetrics struct {
	*config.ConfigMetrics

	CronJobRunsTotal            *prometheus.CounterVec
	CronJobDurationSeconds      prometheus.Histogram
	CronJobLastSuccessTimestamp prometheus.Gauge
}

// NewWorkerMetrics creates and registers the worker metrics with the default registry.
func NewWorkerMetrics() *WorkerMetrics {
	return newWorkerMetrics(promauto.With(prometheus.DefaultRegisterer), config.NewConfigMetrics("worker"))
}

func newWorkerMetrics(factory promauto.Factory, cm *config.ConfigMetrics) *WorkerMetrics {
	return &WorkerMetrics{
		ConfigMetrics: cm,

		CronJobRunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_cron_job_runs_total",
			Help: "Total number of cron job runs by status (success/empty/failure)",
		}, []string{"status"}),

		CronJobDurationSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "worker_cron_job_duration_seconds",
			Help:    "Duration of cron job execution in seconds",
			Buckets: []float64{5, 30, 60, 300, 900, 1800, 3600},
		}),

		CronJobLastSuccessTimestamp: factory.NewGauge(prometheus.GaugeOpts{
			Name: "worker_cron_job_last_success_timestamp",
			Help: "Unix timestamp of the last successful cron job run",
		}),
	}
}

// RecordJobRun records one finished run.
func (m *WorkerMetrics) RecordJobRun(status string, seconds float64) {
	m.CronJobRunsTotal.WithLabelValues(status).Inc()
	m.CronJobDurationSeconds.Observe(seconds)
	if status == "success" {
		m.CronJobLastSuccessTimestamp.SetToCurrentTime()
	}
}
