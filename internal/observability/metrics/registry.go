package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collection metrics track what each source contributed
var (
	// ArticlesCollectedTotal counts articles returned per source before dedup
	ArticlesCollectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "articles_collected_total",
			Help: "Total number of articles returned by each source",
		},
		[]string{"source"},
	)

	// SourceErrorsTotal counts source failures that were isolated
	SourceErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "source_errors_total",
			Help: "Total number of failed source collections",
		},
		[]string{"source", "error_type"},
	)

	// SourceDuration measures time spent collecting one source
	SourceDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "source_collect_duration_seconds",
			Help:    "Time taken to collect one source",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		},
		[]string{"source"},
	)
)

// Content metrics
var (
	// ContentFetchAttemptsTotal counts content fetch outcomes
	ContentFetchAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "content_fetch_attempts_total",
			Help: "Total number of content fetch attempts",
		},
		[]string{"result"}, // success, failure
	)

	// ContentFetchDuration measures time to fetch article content, retries included
	ContentFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "content_fetch_duration_seconds",
			Help:    "Time taken to fetch article content",
			Buckets: []float64{0.1, 0.2, 0.4, 0.8, 1.6, 3.2, 6.4, 12.8, 25.6},
		},
	)

	// ContentFetchSize measures extracted text size in characters
	ContentFetchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "content_fetch_size_chars",
			Help:    "Extracted article content size in characters",
			Buckets: []float64{100, 200, 500, 1000, 2000, 4000, 8000},
		},
	)
)

// Summary metrics
var (
	// ArticlesSummarizedTotal counts summaries by how they were produced
	ArticlesSummarizedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "articles_summarized_total",
			Help: "Total number of article summaries by outcome",
		},
		[]string{"outcome"}, // generated, skipped, fallback
	)
)

// Render and run metrics
var (
	// RenderDuration measures the presentation build and submit time
	RenderDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "render_duration_seconds",
			Help:    "Time taken to render the presentation",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 8),
		},
	)

	// SlidesRendered is the slide count of the last rendered deck
	SlidesRendered = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slides_rendered",
			Help: "Number of slides in the most recently rendered deck",
		},
	)

	// DigestRunsTotal counts pipeline runs by status
	DigestRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "digest_runs_total",
			Help: "Total number of digest pipeline runs",
		},
		[]string{"status"}, // success, empty, failure
	)

	// StageDuration measures each pipeline stage
	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "digest_stage_duration_seconds",
			Help:    "Duration of each digest stage",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200},
		},
		[]string{"stage"},
	)
)
