// Package middlewares provides the server-level HTTP middleware of the edge
// server. Every middleware has the chi-compatible shape
// func(http.Handler) http.Handler and runs before host dispatch.
//
// # Request ID
//
// RequestID reuses an upstream X-Request-ID (or X-Correlation-ID) header or
// generates a UUID, stores it in the request context and echoes it in the
// response. RequestIDExtractor adds it to every log line:
//
//	log := logger.New(cfg, middlewares.RequestIDExtractor())
//	r.Use(middlewares.RequestID())
//
// # Recover
//
// Recover is the outermost safety net. Panics inside host handlers are
// already turned into 500 responses by the host router; Recover catches
// anything that escapes other middleware.
//
// # Access Log
//
// AccessLog writes one INFO line per request with host, method, path,
// status, bytes and duration.
//
// # CORS
//
// CORS lets the static front-end call the API host from the browser:
//
//	r.Use(middlewares.CORS(middlewares.WithAllowOrigins("https://www.example.com")))
package middlewares
