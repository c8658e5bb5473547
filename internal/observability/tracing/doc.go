// Package tracing provides OpenTelemetry tracing for digest runs.
//
// Each pipeline stage runs inside a span started with StartStage, and every
// outbound HTTP client wraps its transport with NewTransport so page fetches
// and API calls appear as child spans.
//
//	ctx, span := tracing.StartStage(ctx, "summarize")
//	defer span.End()
//
//	client := &http.Client{Transport: tracing.NewTransport(nil)}
package tracing
