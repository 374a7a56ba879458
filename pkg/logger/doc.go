// Package logger builds the structured logger used across the edge server.
//
// Logs are JSON lines on stdout produced by log/slog. A [ContextExtractor]
// pulls request-scoped values (request ID, host) out of the context on every
// log call, and when a Sentry DSN is configured, warnings and errors are also
// forwarded to Sentry.
//
// # Basic Usage
//
//	log := logger.New(logger.Config{Level: "debug"}, middlewares.RequestIDExtractor())
//	log.InfoContext(ctx, "server starting", slog.String("address", addr))
//
// # Sentry
//
// If Config.SentryDSN is empty, or Sentry fails to initialize, the logger
// falls back to stdout only, so the same code path runs locally and in
// production.
//
// # Defaults
//
// Library packages default to [NewNope], which discards everything.
package logger
