// Package edge is a small HTTP edge server that routes every request to a
// handler chosen by its Host header.
//
// Each virtual host is served by a [Handler]: a function that writes a
// response or returns an error. The server turns errors and panics into a
// 500, unknown hosts into a 404 and malformed Host headers into a 400, so a
// failing handler never takes the process down.
//
// # Quick Start
//
//	app, err := edge.New(
//	    edge.WithLogger(log),
//	    edge.WithAddress("0.0.0.0:80"),
//	    edge.WithHost("www.example.com", site),
//	    edge.WithHost("api.example.com", counter.NewHandler(counter.NewMemory())),
//	)
//	if err != nil {
//	    log.Error("invalid configuration", "error", err)
//	    os.Exit(1)
//	}
//
//	if err := app.Run(); err != nil {
//	    os.Exit(1)
//	}
//
// # Host Patterns
//
// Patterns are matched case-insensitively and without the port.
// "api.example.com" matches one host; "*.example.com" matches any subdomain
// that has no exact registration. Registering a pattern twice keeps the
// last handler and logs a warning.
//
// # Middleware
//
// [WithMiddleware] wraps the whole server with net/http middleware, such as
// the ones in the middlewares package. To wrap a single host, use
// hostrouter.Wrap, which keeps handler errors flowing to the router.
//
// # Health Checks
//
// Liveness and readiness endpoints are served on a separate admin listener
// enabled with [WithAdminAddress]:
//
//	edge.WithAdminAddress("127.0.0.1:9090"),
//	edge.WithHealthChecks(
//	    edge.WithReadinessCheck("redis", redis.Healthcheck(client)),
//	),
//
// # Graceful Shutdown
//
// [App.Run] stops on SIGINT or SIGTERM, lets in-flight requests finish
// within the shutdown timeout and then runs the shutdown hooks in the order
// they were registered.
package edge
