package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "weekly-ai-news"

// GetTracer returns the tracer for creating spans.
// It resolves the global provider at call time so a provider installed after
// package initialization is honored.
func GetTracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}

// StartStage starts a span for one pipeline stage.
func StartStage(ctx context.Context, stage string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, attribute.String("digest.stage", stage))
	return GetTracer().Start(ctx, "digest."+stage, trace.WithAttributes(attrs...))
}

// RecordError marks span as failed with err. A nil err is ignored.
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
