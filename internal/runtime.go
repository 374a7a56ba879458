package internal

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/dmitrymomot/edge/pkg/logger"
)

// Server defaults.
const (
	defaultReadTimeout       = 15 * time.Second
	defaultWriteTimeout      = 30 * time.Second
	defaultIdleTimeout       = 120 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
	defaultMaxHeaderBytes    = 1 << 20 // 1 MB
	defaultShutdownTimeout   = 30 * time.Second
)

// DefaultShutdownTimeout is the grace period given to in-flight requests.
const DefaultShutdownTimeout = defaultShutdownTimeout

// Serve serves handler on ln until ctx is done, then shuts the server down
// gracefully. The listener is owned by Serve and closed on return.
//
// A serve failure is returned immediately. After ctx is done, the returned
// error is the shutdown error, if any.
func Serve(ctx context.Context, ln net.Listener, handler http.Handler, opts ...RunOption) error {
	cfg := buildRunConfig(opts...)

	log := cfg.logger
	if log == nil {
		log = logger.NewNope()
	}

	server := &http.Server{
		Handler:           handler,
		ReadTimeout:       defaultReadTimeout,
		WriteTimeout:      defaultWriteTimeout,
		IdleTimeout:       defaultIdleTimeout,
		ReadHeaderTimeout: defaultReadHeaderTimeout,
		MaxHeaderBytes:    defaultMaxHeaderBytes,
		ErrorLog:          slog.NewLogLogger(log.Handler(), slog.LevelWarn),
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down server", slog.String("address", ln.Addr().String()))
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		// Connections still open after the grace period are dropped.
		_ = server.Close()
		return err
	}
	return nil
}

// RunHooks calls the shutdown hooks in registration order under one timeout
// and joins their errors.
func RunHooks(ctx context.Context, timeout time.Duration, log *slog.Logger, hooks ...func(context.Context) error) error {
	if len(hooks) == 0 {
		return nil
	}
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	if log == nil {
		log = logger.NewNope()
	}

	hookCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	var errs []error
	for _, hook := range hooks {
		if err := hook(hookCtx); err != nil {
			errs = append(errs, err)
			log.Error("shutdown hook failed", slog.String("error", err.Error()))
		}
	}
	return errors.Join(errs...)
}
