package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/dmitrymomot/edge"
	"github.com/dmitrymomot/edge/internal"
	"github.com/dmitrymomot/edge/middlewares"
	"github.com/dmitrymomot/edge/pkg/counter"
	"github.com/dmitrymomot/edge/pkg/hostrouter"
	"github.com/dmitrymomot/edge/pkg/redis"
	"github.com/dmitrymomot/edge/pkg/static"
)

// openRedis connects the Redis counter store.
var openRedis = redis.Open

// buildOptions turns the configuration into server options.
// Any misconfiguration is returned so the process exits before binding.
// release frees resources opened here when the server never runs; on error
// they are already freed.
func buildOptions(ctx context.Context, cfg internal.Config, log *slog.Logger) (opts []edge.Option, release func() error, err error) {
	opts = []edge.Option{
		edge.WithLogger(log),
		edge.WithAddress(cfg.Address()),
		edge.WithAdminAddress(cfg.AdminAddr),
		edge.WithShutdownTimeout(cfg.ShutdownTimeout),
		edge.WithMiddleware(
			middlewares.Recover(log),
			middlewares.RequestID(),
			middlewares.AccessLog(log),
		),
	}

	store, storeOpts, release, err := counterStore(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		if err != nil {
			_ = release()
		}
	}()
	opts = append(opts, storeOpts...)

	api := hostrouter.Wrap(
		counter.NewHandler(store),
		middlewares.CORS(middlewares.WithAllowOrigins(cfg.AllowedOrigins()...)),
	)

	site, err := static.New(cfg.StaticRoot, staticOptions(cfg.SPAFallback)...)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", cfg.WWWHost(), err)
	}

	opts = append(opts,
		edge.WithHost(cfg.WWWHost(), site),
		edge.WithHost(cfg.APIHost(), api),
	)

	if cfg.HostsFile == "" {
		return opts, release, nil
	}

	entries, err := internal.LoadHosts(cfg.HostsFile, cfg.WWWHost(), cfg.APIHost())
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", cfg.HostsFile, err)
	}
	base := filepath.Dir(cfg.HostsFile)
	for _, e := range entries {
		if e.API {
			opts = append(opts, edge.WithHost(e.Host, api))
			continue
		}

		root := e.Static
		if !filepath.IsAbs(root) {
			root = filepath.Join(base, root)
		}
		h, err := static.New(root, staticOptions(e.SPA)...)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", e.Host, err)
		}
		opts = append(opts, edge.WithHost(e.Host, h))
	}

	return opts, release, nil
}

// counterStore picks Redis when REDIS_URL is set, memory otherwise.
// release closes the Redis client.
func counterStore(ctx context.Context, cfg internal.Config, log *slog.Logger) (counter.Store, []edge.Option, func() error, error) {
	if cfg.Redis.URL == "" {
		log.Info("counter store", slog.String("backend", "memory"))
		return counter.NewMemory(), nil, func() error { return nil }, nil
	}

	client, err := openRedis(ctx, cfg.Redis)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("counter store: %w", err)
	}
	log.Info("counter store", slog.String("backend", "redis"))

	return counter.NewRedis(client), []edge.Option{
		edge.WithHealthChecks(edge.WithReadinessCheck("redis", redis.Healthcheck(client))),
		edge.WithShutdownHook(redis.Shutdown(client)),
	}, client.Close, nil
}

func staticOptions(spa bool) []static.Option {
	if spa {
		return []static.Option{static.WithSPAFallback()}
	}
	return nil
}
