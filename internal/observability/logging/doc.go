// Package logging provides structured logging helpers built on log/slog.
//
// Logs are JSON on stdout. LOG_LEVEL=debug enables debug output. A run ID
// stored in the context ties together every line written during one digest.
//
//	logger := logging.NewLogger()
//	slog.SetDefault(logger)
//
//	ctx = logging.WithRunID(ctx, uuid.NewString())
//	logging.FromContext(ctx).Info("collecting articles")
package logging
