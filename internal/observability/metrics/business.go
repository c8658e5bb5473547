package metrics

import (
	"time"
)

// RecordArticlesCollected records how many articles a source returned.
func RecordArticlesCollected(source string, count int) {
	ArticlesCollectedTotal.WithLabelValues(source).Add(float64(count))
}

// RecordSourceError records an isolated source failure.
func RecordSourceError(source, errorType string) {
	SourceErrorsTotal.WithLabelValues(source, errorType).Inc()
}

// RecordSourceDuration records the collection time of one source.
func RecordSourceDuration(source string, duration time.Duration) {
	SourceDuration.WithLabelValues(source).Observe(duration.Seconds())
}

// RecordContentFetchSuccess records a successful content fetch and its size in characters.
func RecordContentFetchSuccess(duration time.Duration, size int) {
	ContentFetchAttemptsTotal.WithLabelValues("success").Inc()
	ContentFetchDuration.Observe(duration.Seconds())
	ContentFetchSize.Observe(float64(size))
}

// RecordContentFetchFailure records a failed content fetch.
func RecordContentFetchFailure(duration time.Duration) {
	ContentFetchAttemptsTotal.WithLabelValues("failure").Inc()
	ContentFetchDuration.Observe(duration.Seconds())
}

// Summary outcomes.
const (
	SummaryGenerated = "generated"
	SummarySkipped   = "skipped"
	SummaryFallback  = "fallback"
)

// RecordArticleSummarized records how a summary was produced.
func RecordArticleSummarized(outcome string) {
	ArticlesSummarizedTotal.WithLabelValues(outcome).Inc()
}

// RecordRender records the render duration and resulting slide count.
func RecordRender(duration time.Duration, slides int) {
	RenderDuration.Observe(duration.Seconds())
	SlidesRendered.Set(float64(slides))
}

// RecordStage records the duration of one pipeline stage.
func RecordStage(stage string, duration time.Duration) {
	StageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordDigestRun records the final status of a run.
func RecordDigestRun(status string) {
	DigestRunsTotal.WithLabelValues(status).Inc()
}
