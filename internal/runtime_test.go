package internal

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestServe_GracefulShutdown(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "ok")
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, ln, handler, ShutdownTimeout(time.Second)) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, resp.Body.Close())
	require.NoError(t, err)
	require.Equal(t, "ok", string(body))

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}

	_, err = net.DialTimeout("tcp", ln.Addr().String(), time.Second)
	require.Error(t, err)
}

func TestServe_ListenerFailure(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	require.NoError(t, ln.Close())

	err = Serve(context.Background(), ln, http.NotFoundHandler())
	require.Error(t, err)
}

func TestRunHooks(t *testing.T) {
	t.Parallel()

	errFirst := errors.New("first")
	errThird := errors.New("third")

	var order []int
	err := RunHooks(context.Background(), time.Second, nil,
		func(context.Context) error { order = append(order, 1); return errFirst },
		func(ctx context.Context) error {
			order = append(order, 2)
			_, ok := ctx.Deadline()
			require.True(t, ok)
			return nil
		},
		func(context.Context) error { order = append(order, 3); return errThird },
	)

	require.ErrorIs(t, err, errFirst)
	require.ErrorIs(t, err, errThird)
	require.Equal(t, []int{1, 2, 3}, order)
}

func TestRunHooks_CanceledParent(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RunHooks(ctx, time.Second, nil, func(ctx context.Context) error {
		return ctx.Err()
	})
	require.NoError(t, err)
}
