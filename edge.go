package edge

import (
	"net/http"

	"github.com/dmitrymomot/edge/pkg/health"
	"github.com/dmitrymomot/edge/pkg/hostrouter"
	"github.com/dmitrymomot/edge/pkg/logger"
)

// Type aliases - public API
type (
	// Handler serves the requests of one virtual host.
	Handler = hostrouter.Handler

	// HandlerFunc adapts a function to Handler.
	HandlerFunc = hostrouter.HandlerFunc

	// Middleware wraps the whole host-routed handler.
	Middleware = func(http.Handler) http.Handler

	// CheckFunc is a readiness check.
	CheckFunc = health.CheckFunc

	// ContextExtractor extracts a slog attribute from context.
	// Used with logger.New to add request-scoped values to logs.
	ContextExtractor = logger.ContextExtractor
)

// FromHTTP adapts a net/http handler to Handler.
func FromHTTP(h http.Handler) Handler {
	return hostrouter.FromHTTP(h)
}
