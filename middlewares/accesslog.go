package middlewares

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/edge/internal"
	"github.com/dmitrymomot/edge/pkg/hostrouter"
)

// AccessLog returns middleware that logs one line per completed request.
func AccessLog(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := internal.NewResponseWriter(w)

			next.ServeHTTP(rw, r)

			log.InfoContext(r.Context(), "request",
				slog.String("host", hostrouter.GetDomain(r)),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", rw.Status()),
				slog.Int64("bytes", rw.Size()),
				slog.Duration("duration", time.Since(start)),
				slog.String("remote", r.RemoteAddr),
			)
		})
	}
}
