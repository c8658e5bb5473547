// Package observability groups the logging, metrics and tracing helpers used
// by every stage of a digest run.
//
// Subpackages:
//   - logging: slog JSON logger and run-scoped context helpers
//   - metrics: Prometheus collectors for collection, content, summaries and rendering
//   - tracing: OpenTelemetry tracer access, stage spans and an outbound HTTP transport
//
// Example usage:
//
//	logger := logging.NewLogger()
//	ctx = logging.WithRunID(ctx, runID)
//
//	ctx, span := tracing.StartStage(ctx, "collect")
//	defer span.End()
//	metrics.RecordArticlesCollected("NewsAPI", 30)
package observability
