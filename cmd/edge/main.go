// Command edge serves a static site on www.<domain> and a call counter on
// api.<domain>, plus any hosts listed in EDGE_HOSTS_FILE.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/dmitrymomot/edge"
	"github.com/dmitrymomot/edge/internal"
	"github.com/dmitrymomot/edge/middlewares"
	"github.com/dmitrymomot/edge/pkg/logger"
)

func main() {
	cfg, err := internal.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "edge:", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log, middlewares.RequestIDExtractor()).With("app", "edge")

	if err := run(context.Background(), cfg, log); err != nil {
		log.Error("server error", slog.String("error", err.Error()))
		sentry.Flush(2 * time.Second)
		os.Exit(1)
	}
	sentry.Flush(2 * time.Second)
}

func run(ctx context.Context, cfg internal.Config, log *slog.Logger) error {
	opts, release, err := buildOptions(ctx, cfg, log)
	if err != nil {
		return err
	}

	app, err := edge.New(opts...)
	if err != nil {
		return errors.Join(err, release())
	}
	return app.Run()
}
