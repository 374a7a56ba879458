package edge_test

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/edge"
	"github.com/dmitrymomot/edge/middlewares"
	"github.com/dmitrymomot/edge/pkg/counter"
	"github.com/dmitrymomot/edge/pkg/hostrouter"
	"github.com/dmitrymomot/edge/pkg/static"
)

func get(t *testing.T, client *http.Client, url, host string) (int, string) {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	req.Host = host

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func newSiteApp(t *testing.T, opts ...edge.Option) *edge.App {
	t.Helper()

	site := static.NewFS(fstest.MapFS{
		"index.html": {Data: []byte("hello")},
	})

	app, err := edge.New(append([]edge.Option{
		edge.WithHost("www.test", site),
		edge.WithHost("api.test", counter.NewHandler(counter.NewMemory())),
	}, opts...)...)
	require.NoError(t, err)
	return app
}

func TestNew_NoHosts(t *testing.T) {
	t.Parallel()

	_, err := edge.New()
	require.ErrorIs(t, err, edge.ErrNoHosts)
}

func TestNew_InvalidHosts(t *testing.T) {
	t.Parallel()

	_, err := edge.New(
		edge.WithHost("", edge.HandlerFunc(func(http.ResponseWriter, *http.Request) error { return nil })),
		edge.WithHost("api.test", nil),
		edge.WithHTTPHost("www.test", nil),
	)
	require.ErrorIs(t, err, edge.ErrRegisterHost)
	require.ErrorIs(t, err, hostrouter.ErrEmptyHostname)
	require.ErrorIs(t, err, hostrouter.ErrNilHandler)
}

func TestNew_ReplaceHTTPHost(t *testing.T) {
	t.Parallel()

	first := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { _, _ = io.WriteString(w, "first") })
	second := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { _, _ = io.WriteString(w, "second") })

	var app *edge.App
	require.NotPanics(t, func() {
		var err error
		app, err = edge.New(
			edge.WithHTTPHost("www.test", first),
			edge.WithHTTPHost("WWW.test:8080", second),
		)
		require.NoError(t, err)
	})
	require.Equal(t, []string{"www.test"}, app.Hosts())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Host = "www.test"
	rec := httptest.NewRecorder()
	app.Handler().ServeHTTP(rec, req)
	require.Equal(t, "second", rec.Body.String())
}

func TestApp_EndToEnd(t *testing.T) {
	t.Parallel()

	app := newSiteApp(t)
	srv := httptest.NewServer(app.Handler())
	t.Cleanup(srv.Close)

	client := srv.Client()

	status, body := get(t, client, srv.URL+"/index.html", "www.test")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "hello", body)

	for _, want := range []string{"API calls: 1", "API calls: 2", "API calls: 3"} {
		status, body = get(t, client, srv.URL+"/", "api.test")
		require.Equal(t, http.StatusOK, status)
		require.Equal(t, want, body)
	}

	status, body = get(t, client, srv.URL+"/", "unknown.test")
	require.Equal(t, http.StatusNotFound, status)
	require.Equal(t, "Not Found", body)

	status, body = get(t, client, srv.URL+"/anything", "WWW.TEST:8080")
	require.Equal(t, http.StatusNotFound, status)
	require.Equal(t, "Not Found", body)
}

func TestApp_MissingHost(t *testing.T) {
	t.Parallel()

	app := newSiteApp(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Host = ""
	rec := httptest.NewRecorder()
	app.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Bad Request", rec.Body.String())
}

func TestApp_Middleware(t *testing.T) {
	t.Parallel()

	app := newSiteApp(t, edge.WithMiddleware(middlewares.RequestID()))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Host = "api.test"
	req.Header.Set("X-Request-ID", "req-1")
	rec := httptest.NewRecorder()
	app.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "req-1", rec.Header().Get("X-Request-ID"))
}

func TestApp_NotFoundHandler(t *testing.T) {
	t.Parallel()

	app, err := edge.New(edge.WithNotFound(edge.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) error {
		w.WriteHeader(http.StatusMisdirectedRequest)
		return nil
	})))
	require.NoError(t, err)
	require.Empty(t, app.Hosts())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Host = "any.test"
	rec := httptest.NewRecorder()
	app.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusMisdirectedRequest, rec.Code)
}

func TestApp_AdminHandler(t *testing.T) {
	t.Parallel()

	var healthy atomic.Bool
	healthy.Store(true)

	app := newSiteApp(t, edge.WithHealthChecks(
		edge.WithReadinessCheck("store", func(context.Context) error {
			if healthy.Load() {
				return nil
			}
			return errors.New("down")
		}),
	))

	status := func(path string) int {
		rec := httptest.NewRecorder()
		app.AdminHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec.Code
	}

	require.Equal(t, http.StatusOK, status("/health/live"))
	require.Equal(t, http.StatusOK, status("/health/ready"))

	healthy.Store(false)
	require.Equal(t, http.StatusOK, status("/health/live"))
	require.Equal(t, http.StatusServiceUnavailable, status("/health/ready"))

	// Health paths never shadow host paths on the public handler.
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	req.Host = "unknown.test"
	rec := httptest.NewRecorder()
	app.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestApp_RunAndStop(t *testing.T) {
	t.Parallel()

	var hooks atomic.Int32
	app := newSiteApp(t,
		edge.WithAddress("127.0.0.1:0"),
		edge.WithAdminAddress("127.0.0.1:0"),
		edge.WithShutdownTimeout(2*time.Second),
		edge.WithShutdownHook(func(context.Context) error {
			hooks.Add(1)
			return nil
		}),
	)
	require.Empty(t, app.Addr())

	done := make(chan error, 1)
	go func() { done <- app.Run() }()

	select {
	case <-app.Ready():
	case <-time.After(5 * time.Second):
		t.Fatal("server did not start")
	}

	client := &http.Client{Timeout: 5 * time.Second}

	status, body := get(t, client, "http://"+app.Addr()+"/", "api.test")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "API calls: 1", body)

	status, _ = get(t, client, "http://"+app.AdminAddr()+"/health/live", "")
	require.Equal(t, http.StatusOK, status)

	require.NoError(t, app.Stop())
	require.NoError(t, app.Stop())

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
	require.EqualValues(t, 1, hooks.Load())
}

func TestApp_RunContextCanceled(t *testing.T) {
	t.Parallel()

	errHook := errors.New("hook failed")
	ctx, cancel := context.WithCancel(context.Background())

	app := newSiteApp(t,
		edge.WithContext(ctx),
		edge.WithAddress("127.0.0.1:0"),
		edge.WithShutdownHook(func(context.Context) error { return errHook }),
	)

	done := make(chan error, 1)
	go func() { done <- app.Run() }()
	<-app.Ready()
	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, errHook)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestApp_RunBindFailure(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	app := newSiteApp(t, edge.WithAddress(ln.Addr().String()))

	err = app.Run()
	require.ErrorIs(t, err, edge.ErrListen)
}
