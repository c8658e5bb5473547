package summarizer

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// GenerationMetricsRecorder records per-call model metrics.
// Tests inject a fake; production uses PrometheusGenerationMetrics.
type GenerationMetricsRecorder interface {
	// RecordLength records the generated text length in characters.
	RecordLength(provider string, length int)

	RecordDuration(provider string, duration time.Duration)

	// RecordFailure counts a failed model call, before any retry.
	RecordFailure(provider string)
}

// PrometheusGenerationMetrics implements GenerationMetricsRecorder.
type PrometheusGenerationMetrics struct {
	lengthHistogram   *prometheus.HistogramVec
	durationHistogram *prometheus.HistogramVec
	failureCounter    *prometheus.CounterVec
}

var (
	prometheusMetricsInstance *PrometheusGenerationMetrics
	prometheusMetricsOnce     sync.Once
)

func getOrCreateHistogramVec(opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	h := prometheus.NewHistogramVec(opts, labels)
	if err := prometheus.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(*prometheus.HistogramVec)
		}
		return promauto.NewHistogramVec(opts, labels)
	}
	return h
}

func getOrCreateCounterVec(opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	c := prometheus.NewCounterVec(opts, labels)
	if err := prometheus.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(*prometheus.CounterVec)
		}
		return promauto.NewCounterVec(opts, labels)
	}
	return c
}

// NewPrometheusGenerationMetrics returns the process-wide recorder.
// Registration happens once so several adapters can share it.
func NewPrometheusGenerationMetrics() *PrometheusGenerationMetrics {
	prometheusMetricsOnce.Do(func() {
		prometheusMetricsInstance = &PrometheusGenerationMetrics{
			lengthHistogram: getOrCreateHistogramVec(prometheus.HistogramOpts{
				Name:    "summary_generation_length_characters",
				Help:    "Distribution of generated summary lengths in characters (Unicode runes)",
				Buckets: []float64{50, 100, 200, 300, 500, 800, 1200},
			}, []string{"provider"}),
			durationHistogram: getOrCreateHistogramVec(prometheus.HistogramOpts{
				Name:    "summary_generation_duration_seconds",
				Help:    "Time taken by one model call",
				Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
			}, []string{"provider"}),
			failureCounter: getOrCreateCounterVec(prometheus.CounterOpts{
				Name: "summary_generation_failures_total",
				Help: "Total number of failed model calls",
			}, []string{"provider"}),
		}
	})
	return prometheusMetricsInstance
}

// RecordLength implements GenerationMetricsRecorder.
func (p *PrometheusGenerationMetrics) RecordLength(provider string, length int) {
	p.lengthHistogram.WithLabelValues(provider).Observe(float64(length))
}

// RecordDuration implements GenerationMetricsRecorder.
func (p *PrometheusGenerationMetrics) RecordDuration(provider string, duration time.Duration) {
	p.durationHistogram.WithLabelValues(provider).Observe(duration.Seconds())
}

// RecordFailure implements GenerationMetricsRecorder.
func (p *PrometheusGenerationMetrics) RecordFailure(provider string) {
	p.failureCounter.WithLabelValues(provider).Inc()
}
