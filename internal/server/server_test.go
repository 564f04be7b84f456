package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRun_ServesAndShutsDownInReverseOrder(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "up")
	})
	srv := New(handler, "127.0.0.1:0", Options{ShutdownTimeout: time.Second}, discardLogger())

	var mu sync.Mutex
	var order []string
	record := func(name string) ShutdownFunc {
		return func(context.Context) error {
			mu.Lock()
			order = append(order, name)
			mu.Unlock()
			return nil
		}
	}
	srv.OnShutdown("events", record("events"))
	srv.OnShutdown("database", record("database"))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	select {
	case <-srv.Ready():
	case <-time.After(2 * time.Second):
		t.Fatal("server did not start")
	}

	resp, err := http.Get("http://" + srv.Addr())
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "up", string(body))

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
	assert.Equal(t, []string{"database", "events"}, order)
}

func TestRun_ReportsShutdownErrors(t *testing.T) {
	srv := New(http.NotFoundHandler(), "127.0.0.1:0", Options{}, discardLogger())
	boom := errors.New("boom")
	srv.OnShutdown("broken", func(context.Context) error { return boom })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()
	<-srv.Ready()
	cancel()

	assert.ErrorIs(t, <-done, boom)
}

func TestRun_ListenError(t *testing.T) {
	srv := New(http.NotFoundHandler(), "bad-address", Options{}, discardLogger())
	assert.ErrorContains(t, srv.Run(context.Background()), "failed to listen")
}
