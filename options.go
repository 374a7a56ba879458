package edge

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/edge/pkg/health"
)

// Option configures the application.
type Option func(*App)

// WithContext sets a custom base context for signal handling.
// Useful for testing or when integrating with existing context hierarchies.
// Defaults to context.Background() if not set.
func WithContext(ctx context.Context) Option {
	return func(a *App) {
		if ctx != nil {
			a.baseCtx = ctx
		}
	}
}

// WithLogger sets the application logger.
// If nil, logging is disabled.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithAddress sets the listen address.
// Defaults to "0.0.0.0:80".
func WithAddress(addr string) Option {
	return func(a *App) {
		if addr != "" {
			a.address = addr
		}
	}
}

// WithAdminAddress enables a second listener serving health endpoints.
// It is kept apart from the public listener so health paths never
// shadow the paths of a virtual host.
func WithAdminAddress(addr string) Option {
	return func(a *App) {
		a.adminAddress = addr
	}
}

// WithHost registers the handler for a host pattern.
// Patterns: "api.example.com" (exact) or "*.example.com" (wildcard).
// Registering the same pattern twice keeps the last handler.
func WithHost(pattern string, h Handler) Option {
	return func(a *App) {
		a.hosts = append(a.hosts, hostRoute{pattern: pattern, handler: h})
	}
}

// WithHTTPHost registers a net/http handler for a host pattern.
func WithHTTPHost(pattern string, h http.Handler) Option {
	return func(a *App) {
		var handler Handler
		if h != nil {
			handler = FromHTTP(h)
		}
		a.hosts = append(a.hosts, hostRoute{pattern: pattern, handler: handler})
	}
}

// WithNotFound sets the handler for requests to unknown hosts.
// Defaults to 404 "Not Found".
func WithNotFound(h Handler) Option {
	return func(a *App) {
		if h != nil {
			a.notFound = h
		}
	}
}

// WithMiddleware appends middleware applied to every request before host
// dispatch. The first middleware is the outermost.
//
// Example:
//
//	edge.WithMiddleware(
//	    middlewares.Recover(log),
//	    middlewares.RequestID(),
//	    middlewares.AccessLog(log),
//	)
func WithMiddleware(mw ...Middleware) Option {
	return func(a *App) {
		a.middlewares = append(a.middlewares, mw...)
	}
}

// WithShutdownTimeout sets the timeout for graceful shutdown.
// This applies to both the HTTP servers and shutdown hooks.
// Defaults to 30 seconds.
func WithShutdownTimeout(d time.Duration) Option {
	return func(a *App) {
		if d > 0 {
			a.shutdownTimeout = d
		}
	}
}

// WithShutdownHook registers a cleanup function to run during shutdown.
// Hooks are called in the order they were registered, after the servers
// have stopped. Each hook receives a context with the shutdown timeout.
//
// Example:
//
//	edge.WithShutdownHook(redis.Shutdown(client))
func WithShutdownHook(fn func(context.Context) error) Option {
	return func(a *App) {
		if fn != nil {
			a.shutdownHooks = append(a.shutdownHooks, fn)
		}
	}
}

// healthConfig holds health check endpoint configuration.
type healthConfig struct {
	livenessPath  string
	readinessPath string
	checks        health.Checks
}

// Default health check paths.
const (
	defaultLivenessPath  = "/health/live"
	defaultReadinessPath = "/health/ready"
)

func newHealthConfig() *healthConfig {
	return &healthConfig{
		livenessPath:  defaultLivenessPath,
		readinessPath: defaultReadinessPath,
		checks:        make(health.Checks),
	}
}

// HealthOption configures health check endpoints.
type HealthOption func(*healthConfig)

// WithLivenessPath sets a custom liveness endpoint path.
// Defaults to "/health/live".
func WithLivenessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.livenessPath = path
		}
	}
}

// WithReadinessPath sets a custom readiness endpoint path.
// Defaults to "/health/ready".
func WithReadinessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.readinessPath = path
		}
	}
}

// WithReadinessCheck adds a named readiness check.
// Checks run in parallel during each readiness request.
//
// Example:
//
//	edge.WithReadinessCheck("redis", redis.Healthcheck(client))
func WithReadinessCheck(name string, fn CheckFunc) HealthOption {
	return func(c *healthConfig) {
		if fn != nil {
			c.checks[name] = fn
		}
	}
}

// WithHealthChecks configures the admin health endpoints.
// Liveness (/health/live): Always returns OK if process is running.
// Readiness (/health/ready): Runs all configured checks.
//
// Example:
//
//	edge.WithHealthChecks(
//	    edge.WithReadinessCheck("redis", redis.Healthcheck(client)),
//	)
func WithHealthChecks(opts ...HealthOption) Option {
	return func(a *App) {
		for _, opt := range opts {
			opt(a.healthConfig)
		}
	}
}
