package edge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/edge/internal"
	"github.com/dmitrymomot/edge/middlewares"
	"github.com/dmitrymomot/edge/pkg/health"
	"github.com/dmitrymomot/edge/pkg/hostrouter"
	"github.com/dmitrymomot/edge/pkg/logger"
)

const defaultAddress = "0.0.0.0:80"

// App orchestrates the edge server lifecycle.
// It owns the host registry, the middleware chain, the optional admin
// listener for health checks, and graceful shutdown.
// App is immutable after creation - all configuration is done via New().
type App struct {
	// Base context for signal handling (defaults to context.Background())
	baseCtx context.Context

	logger *slog.Logger

	address      string
	adminAddress string

	hosts       []hostRoute
	notFound    Handler
	middlewares []Middleware

	healthConfig *healthConfig

	shutdownTimeout time.Duration
	shutdownHooks   []func(ctx context.Context) error

	registry *hostrouter.Registry
	handler  http.Handler
	admin    http.Handler

	mu        sync.Mutex
	addr      net.Addr
	adminAddr net.Addr
	ready     chan struct{}

	done     chan struct{} // for programmatic shutdown via Stop()
	stopOnce sync.Once
}

// hostRoute is a pending registration, applied once all options are known.
type hostRoute struct {
	pattern string
	handler Handler
}

// New creates a new edge server with the given options.
// Host registration errors are returned here, so a misconfigured server
// never starts.
//
// Example:
//
//	app, err := edge.New(
//	    edge.WithLogger(log),
//	    edge.WithAddress("0.0.0.0:80"),
//	    edge.WithHost("www.example.com", site),
//	    edge.WithHost("api.example.com", api),
//	)
func New(opts ...Option) (*App, error) {
	a := &App{
		baseCtx:         context.Background(),
		logger:          logger.NewNope(),
		address:         defaultAddress,
		shutdownTimeout: internal.DefaultShutdownTimeout,
		healthConfig:    newHealthConfig(),
		ready:           make(chan struct{}),
		done:            make(chan struct{}),
	}

	for _, opt := range opts {
		opt(a)
	}

	if len(a.hosts) == 0 && a.notFound == nil {
		return nil, ErrNoHosts
	}

	a.registry = hostrouter.NewRegistry(hostrouter.WithRegistryLogger(a.logger))
	var errs []error
	for _, h := range a.hosts {
		if err := a.registry.Register(h.pattern, h.handler); err != nil {
			errs = append(errs, fmt.Errorf("%w %q: %w", ErrRegisterHost, h.pattern, err))
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	routerOpts := []hostrouter.Option{hostrouter.WithLogger(a.logger)}
	if a.notFound != nil {
		routerOpts = append(routerOpts, hostrouter.WithNotFound(a.notFound))
	}
	a.handler = chi.Chain(a.middlewares...).Handler(hostrouter.New(a.registry, routerOpts...))
	a.admin = a.adminRouter()

	return a, nil
}

// Handler returns the host-routed handler with the middleware chain applied.
func (a *App) Handler() http.Handler {
	return a.handler
}

// AdminHandler returns the handler served on the admin address:
// liveness and readiness endpoints.
func (a *App) AdminHandler() http.Handler {
	return a.admin
}

// Hosts returns the registered host patterns in sorted order.
func (a *App) Hosts() []string {
	return a.registry.Hosts()
}

// Ready is closed once the listeners are bound.
func (a *App) Ready() <-chan struct{} {
	return a.ready
}

// Addr returns the server's listening address.
// Returns empty string if the server hasn't started yet.
func (a *App) Addr() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.addr == nil {
		return ""
	}
	return a.addr.String()
}

// AdminAddr returns the admin listener address, or empty string when the
// admin listener is disabled or not started.
func (a *App) AdminAddr() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.adminAddr == nil {
		return ""
	}
	return a.adminAddr.String()
}

func (a *App) adminRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(middlewares.Recover(a.logger))

	cfg := a.healthConfig
	r.Get(cfg.livenessPath, health.LivenessHandler())
	r.Get(cfg.readinessPath, health.ReadinessHandler(cfg.checks, health.WithLogger(a.logger)))
	return r
}

func (a *App) setListening(addr, adminAddr net.Addr) {
	a.mu.Lock()
	a.addr = addr
	a.adminAddr = adminAddr
	a.mu.Unlock()
	close(a.ready)
}
