package hostrouter

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"runtime"

	"github.com/dmitrymomot/edge/internal"
	"github.com/dmitrymomot/edge/pkg/logger"
)

// stackSize is the maximum stack trace captured for a panicking handler.
const stackSize = 4096

// ErrorHandler writes the client response for a failed handler.
// The error has already been logged by the Router.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// Router routes requests based on the Host header.
// It is immutable after New and safe for concurrent use.
type Router struct {
	exact    map[string]Handler // "api.example.com" -> handler
	wildcard map[string]Handler // "example.com" -> handler (for *.example.com)
	notFound Handler
	onError  ErrorHandler
	logger   *slog.Logger
}

// Option configures a Router.
type Option func(*Router)

// WithLogger sets the logger for dispatch diagnostics and handler failures.
func WithLogger(l *slog.Logger) Option {
	return func(r *Router) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithNotFound replaces the default 404 "Not Found" response for unknown hosts.
// Errors from this handler are treated like any other handler failure.
func WithNotFound(h Handler) Option {
	return func(r *Router) {
		if h != nil {
			r.notFound = h
		}
	}
}

// WithErrorHandler replaces the default 500 "Internal Server Error" response.
func WithErrorHandler(fn ErrorHandler) Option {
	return func(r *Router) {
		if fn != nil {
			r.onError = fn
		}
	}
}

// New creates a router from a snapshot of the registry.
// Registrations made after New do not affect the returned Router.
func New(reg *Registry, opts ...Option) *Router {
	r := &Router{
		notFound: HandlerFunc(notFound),
		onError:  internalError,
		logger:   logger.NewNope(),
	}
	if reg != nil {
		r.exact, r.wildcard = reg.snapshot()
	} else {
		r.exact = map[string]Handler{}
		r.wildcard = map[string]Handler{}
	}

	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Match returns the handler that would serve the given host.
func (rt *Router) Match(host string) (Handler, bool) {
	return match(rt.exact, rt.wildcard, NormalizeHost(host))
}

// ServeHTTP routes requests based on the Host header.
func (rt *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	_ = rt.Handle(w, req)
}

// Handle dispatches the request to the handler registered for its host.
// It always writes a response and always returns nil, so a Router can be
// registered as a handler of another Router.
func (rt *Router) Handle(w http.ResponseWriter, req *http.Request) error {
	ctx := req.Context()

	if !validHost(req.Host) {
		rt.logger.DebugContext(ctx, "invalid host header",
			slog.String("host", req.Host),
			slog.String("method", req.Method),
			slog.String("path", req.URL.Path),
		)
		writeStatus(w, http.StatusBadRequest)
		return nil
	}

	host := NormalizeHost(req.Host)
	rt.logger.DebugContext(ctx, "dispatch",
		slog.String("host", host),
		slog.String("method", req.Method),
		slog.String("path", req.URL.Path),
	)

	h, ok := match(rt.exact, rt.wildcard, host)
	if !ok {
		rt.logger.DebugContext(ctx, "unknown host", slog.String("host", host))
		h = rt.notFound
	}

	rt.serve(w, req, host, h)
	return nil
}

// serve calls the handler once and converts its failure into a response.
func (rt *Router) serve(w http.ResponseWriter, req *http.Request, host string, h Handler) {
	rw := internal.NewResponseWriter(w)

	err := call(h, rw, req)
	if err == nil {
		return
	}

	ctx := req.Context()
	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		rt.logger.DebugContext(ctx, "request canceled",
			slog.String("host", host),
			slog.String("method", req.Method),
			slog.String("path", req.URL.Path),
		)
		return
	}

	attrs := []any{
		slog.String("host", host),
		slog.String("method", req.Method),
		slog.String("path", req.URL.Path),
		slog.String("error", err.Error()),
	}
	if pe, ok := AsPanicError(err); ok {
		attrs = append(attrs, slog.String("stack", string(pe.Stack)))
	}
	rt.logger.ErrorContext(ctx, "host handler failed", attrs...)

	if rw.Written() {
		return
	}
	rt.onError(rw, req, err)
}

// call runs the handler, turning a panic into a *PanicError.
// http.ErrAbortHandler is re-raised so net/http can abort the connection.
func call(h Handler, w http.ResponseWriter, req *http.Request) (err error) {
	defer func() {
		v := recover()
		if v == nil {
			return
		}
		if v == http.ErrAbortHandler {
			panic(v)
		}
		stack := make([]byte, stackSize)
		stack = stack[:runtime.Stack(stack, false)]
		err = &PanicError{Value: v, Stack: stack}
	}()

	return h.Handle(w, req)
}
