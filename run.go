package edge

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/edge/internal"
)

// Run binds the listeners and serves until SIGINT, SIGTERM, Stop, or
// cancellation of the base context. It handles graceful shutdown and then
// runs the shutdown hooks.
//
// A bind failure is returned before anything is served. Returns nil on clean
// shutdown, or the joined server and hook errors.
func (a *App) Run() error {
	ctx, cancel := signal.NotifyContext(a.baseCtx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	ln, err := net.Listen("tcp", a.address)
	if err != nil {
		return errors.Join(ErrListen, err)
	}

	var adminLn net.Listener
	var adminAddr net.Addr
	if a.adminAddress != "" {
		adminLn, err = net.Listen("tcp", a.adminAddress)
		if err != nil {
			_ = ln.Close()
			return errors.Join(ErrListen, err)
		}
		adminAddr = adminLn.Addr()
	}
	a.setListening(ln.Addr(), adminAddr)

	attrs := []any{
		slog.String("url", internal.DisplayURL(ln.Addr().String())),
		slog.Any("hosts", a.registry.Hosts()),
	}
	if adminAddr != nil {
		attrs = append(attrs, slog.String("admin", internal.DisplayURL(adminAddr.String())))
	}
	a.logger.Info("server started", attrs...)

	go func() {
		select {
		case <-a.done:
			cancel()
		case <-ctx.Done():
		}
	}()

	runOpts := []internal.RunOption{
		internal.Logger(a.logger),
		internal.ShutdownTimeout(a.shutdownTimeout),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return internal.Serve(gctx, ln, a.handler, runOpts...)
	})
	if adminLn != nil {
		g.Go(func() error {
			return internal.Serve(gctx, adminLn, a.admin, runOpts...)
		})
	}
	serveErr := g.Wait()
	if serveErr != nil {
		a.logger.Error("server failed", slog.String("error", serveErr.Error()))
	}

	hookErr := internal.RunHooks(context.WithoutCancel(ctx), a.shutdownTimeout, a.logger, a.shutdownHooks...)

	if err := errors.Join(serveErr, hookErr); err != nil {
		a.logger.Error("shutdown completed with errors")
		return err
	}

	a.logger.Info("shutdown completed")
	return nil
}

// Stop triggers graceful shutdown programmatically.
// Useful for testing or when shutdown needs to be initiated from code.
func (a *App) Stop() error {
	a.stopOnce.Do(func() { close(a.done) })
	return nil
}
