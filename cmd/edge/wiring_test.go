package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/edge"
	"github.com/dmitrymomot/edge/internal"
	"github.com/dmitrymomot/edge/pkg/logger"
	"github.com/dmitrymomot/edge/pkg/redis"
	"github.com/dmitrymomot/edge/pkg/static"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func loadConfig(t *testing.T, vars map[string]string) internal.Config {
	t.Helper()
	cfg, err := internal.LoadFrom(vars)
	require.NoError(t, err)
	return cfg
}

func serve(t *testing.T, h http.Handler, method, host, target string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	req.Host = host
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestBuildOptions(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "dist", "index.html"), "hello")
	writeFile(t, filepath.Join(dir, "docs", "index.html"), "docs")
	writeFile(t, filepath.Join(dir, "hosts.yaml"), `
hosts:
  - host: docs.example.com
    static: docs
    spa: true
  - host: stats.example.com
    api: true
`)

	cfg := loadConfig(t, map[string]string{
		"EDGE_DOMAIN":      "example.com",
		"EDGE_STATIC_ROOT": filepath.Join(dir, "dist"),
		"EDGE_HOSTS_FILE":  filepath.Join(dir, "hosts.yaml"),
	})

	opts, _, err := buildOptions(context.Background(), cfg, logger.NewNope())
	require.NoError(t, err)

	app, err := edge.New(opts...)
	require.NoError(t, err)
	require.Equal(t, []string{
		"api.example.com",
		"docs.example.com",
		"stats.example.com",
		"www.example.com",
	}, app.Hosts())

	h := app.Handler()

	rec := serve(t, h, http.MethodGet, "www.example.com", "/index.html", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "hello", rec.Body.String())
	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	// API hosts share one counter.
	rec = serve(t, h, http.MethodGet, "api.example.com", "/", nil)
	require.Equal(t, "API calls: 1", rec.Body.String())
	rec = serve(t, h, http.MethodGet, "stats.example.com:8080", "/", nil)
	require.Equal(t, "API calls: 2", rec.Body.String())

	// SPA fallback on the docs host.
	rec = serve(t, h, http.MethodGet, "docs.example.com", "/guide/intro", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "docs", rec.Body.String())

	// No SPA fallback on www.
	rec = serve(t, h, http.MethodGet, "www.example.com", "/guide/intro", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(t, h, http.MethodGet, "other.example.com", "/", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "Not Found", rec.Body.String())
}

func TestBuildOptions_CORS(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "index.html"), "hello")

	cfg := loadConfig(t, map[string]string{
		"EDGE_DOMAIN":      "example.com",
		"EDGE_STATIC_ROOT": dir,
	})

	opts, _, err := buildOptions(context.Background(), cfg, logger.NewNope())
	require.NoError(t, err)
	app, err := edge.New(opts...)
	require.NoError(t, err)

	rec := serve(t, app.Handler(), http.MethodGet, "api.example.com", "/", http.Header{
		"Origin": {"https://www.example.com"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "https://www.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	// Preflights do not count as calls, whatever the origin.
	rec = serve(t, app.Handler(), http.MethodOptions, "api.example.com", "/", http.Header{
		"Origin":                        {"https://www.example.com"},
		"Access-Control-Request-Method": {"GET"},
	})
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = serve(t, app.Handler(), http.MethodOptions, "api.example.com", "/", http.Header{
		"Origin":                        {"https://evil.test"},
		"Access-Control-Request-Method": {"GET"},
	})
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	require.Empty(t, rec.Body.String())

	rec = serve(t, app.Handler(), http.MethodGet, "api.example.com", "/", nil)
	require.Equal(t, "API calls: 2", rec.Body.String())
}

func TestBuildOptions_Misconfiguration(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "dist", "index.html"), "hello")
	writeFile(t, filepath.Join(dir, "bad.yaml"), "hosts:\n  - host: a.test\n")
	writeFile(t, filepath.Join(dir, "missing-root.yaml"), "hosts:\n  - host: a.test\n    static: nowhere\n")
	writeFile(t, filepath.Join(dir, "reserved.yaml"), "hosts:\n  - host: API.localhost:8080\n    static: dist\n")

	tests := []struct {
		name   string
		vars   map[string]string
		target error
	}{
		{
			name:   "missing static root",
			vars:   map[string]string{"EDGE_STATIC_ROOT": filepath.Join(dir, "nope")},
			target: static.ErrRootNotFound,
		},
		{
			name: "invalid hosts file",
			vars: map[string]string{
				"EDGE_STATIC_ROOT": filepath.Join(dir, "dist"),
				"EDGE_HOSTS_FILE":  filepath.Join(dir, "bad.yaml"),
			},
			target: internal.ErrHostKind,
		},
		{
			name: "hosts file static root missing",
			vars: map[string]string{
				"EDGE_STATIC_ROOT": filepath.Join(dir, "dist"),
				"EDGE_HOSTS_FILE":  filepath.Join(dir, "missing-root.yaml"),
			},
			target: static.ErrRootNotFound,
		},
		{
			name: "hosts file overrides api host",
			vars: map[string]string{
				"EDGE_STATIC_ROOT": filepath.Join(dir, "dist"),
				"EDGE_HOSTS_FILE":  filepath.Join(dir, "reserved.yaml"),
			},
			target: internal.ErrReservedHost,
		},
		{
			name: "redis url scheme",
			vars: map[string]string{
				"EDGE_STATIC_ROOT": filepath.Join(dir, "dist"),
				"REDIS_URL":        "http://localhost:6379",
			},
			target: redis.ErrFailedToParseURL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := loadConfig(t, tt.vars)
			_, _, err := buildOptions(context.Background(), cfg, logger.NewNope())
			require.ErrorIs(t, err, tt.target)
		})
	}
}

// stubRedis makes buildOptions use a client that never connects.
// Tests using it must not run in parallel.
func stubRedis(t *testing.T) goredis.UniversalClient {
	t.Helper()

	client := goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:1"})
	openRedis = func(context.Context, redis.Config) (goredis.UniversalClient, error) {
		return client, nil
	}
	t.Cleanup(func() {
		openRedis = redis.Open
		_ = client.Close()
	})
	return client
}

func TestBuildOptions_ClosesRedisOnFailure(t *testing.T) {
	client := stubRedis(t)

	cfg := loadConfig(t, map[string]string{
		"EDGE_STATIC_ROOT": filepath.Join(t.TempDir(), "missing"),
		"REDIS_URL":        "redis://127.0.0.1:1/0",
	})

	_, release, err := buildOptions(context.Background(), cfg, logger.NewNope())
	require.ErrorIs(t, err, static.ErrRootNotFound)
	require.Nil(t, release)
	require.ErrorIs(t, client.Ping(context.Background()).Err(), goredis.ErrClosed)
}

func TestBuildOptions_ReleaseClosesRedis(t *testing.T) {
	client := stubRedis(t)

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "index.html"), "hello")
	cfg := loadConfig(t, map[string]string{
		"EDGE_STATIC_ROOT": dir,
		"REDIS_URL":        "redis://127.0.0.1:1/0",
	})

	opts, release, err := buildOptions(context.Background(), cfg, logger.NewNope())
	require.NoError(t, err)
	require.NotEmpty(t, opts)
	require.NotNil(t, release)

	require.NoError(t, release())
	require.ErrorIs(t, client.Ping(context.Background()).Err(), goredis.ErrClosed)
}
