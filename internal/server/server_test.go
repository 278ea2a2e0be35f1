package server

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MKhiriev/go-note-keeper/internal/config"
	"github.com/MKhiriev/go-note-keeper/internal/handler"
	"github.com/MKhiriev/go-note-keeper/internal/logger"
	"github.com/MKhiriev/go-note-keeper/internal/realtime"
	"github.com/MKhiriev/go-note-keeper/internal/service"
	"github.com/MKhiriev/go-note-keeper/internal/workers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

type countingCloser struct {
	calls atomic.Int32
}

func (c *countingCloser) Close() { c.calls.Add(1) }

type stubWorker struct {
	err     error
	stopped atomic.Bool
}

func (w *stubWorker) Name() string { return "stub" }

func (w *stubWorker) Run(ctx context.Context) error {
	if w.err != nil {
		return w.err
	}
	<-ctx.Done()
	w.stopped.Store(true)
	return nil
}

func newTestServer(t *testing.T, sessions SessionCloser, bg *workers.Workers) *server {
	t.Helper()

	appInfo, err := service.NewAppInfoService(config.App{Version: "2.0.1"}, logger.Nop())
	require.NoError(t, err)

	cfg := config.StructuredConfig{Server: config.Server{HTTPAddress: "127.0.0.1:0"}}
	handlers, err := handler.NewHandlers(&service.Services{AppInfoService: appInfo}, realtime.NewHub(logger.Nop()), cfg, logger.Nop())
	require.NoError(t, err)

	srv, err := NewServer(handlers, sessions, bg, cfg.Server, logger.Nop())
	require.NoError(t, err)
	return srv.(*server)
}

func listen(t *testing.T) net.Listener {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	return listener
}

// ─────────────────────────────────────────────
// Tests
// ─────────────────────────────────────────────

func TestNewServer_RequiresHTTP(t *testing.T) {
	_, err := NewServer(nil, nil, nil, config.Server{HTTPAddress: ":8080"}, logger.Nop())
	assert.ErrorIs(t, err, errNoServersAreCreated)

	_, err = NewServer(&handler.Handlers{}, nil, nil, config.Server{HTTPAddress: ":8080"}, logger.Nop())
	assert.ErrorIs(t, err, errNoServersAreCreated)
}

func TestServer_ServesUntilCancelled(t *testing.T) {
	sessions := &countingCloser{}
	worker := &stubWorker{}
	srv := newTestServer(t, sessions, workers.NewWorkers(logger.Nop(), worker))

	listener := listen(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.serve(ctx, listener) }()

	resp, err := http.Get("http://" + listener.Addr().String() + "/api/version/")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, "2.0.1", string(body))

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
	assert.Equal(t, int32(1), sessions.calls.Load(), "realtime sessions are closed on shutdown")
	assert.True(t, worker.stopped.Load())

	_, err = http.Get("http://" + listener.Addr().String() + "/api/version/")
	assert.Error(t, err)
}

func TestServer_WorkerFailureStopsServer(t *testing.T) {
	boom := errors.New("relay lost")
	sessions := &countingCloser{}
	srv := newTestServer(t, sessions, workers.NewWorkers(logger.Nop(), &stubWorker{err: boom}))

	err := srv.serve(context.Background(), listen(t))

	require.ErrorIs(t, err, boom)
	assert.Equal(t, int32(1), sessions.calls.Load())
}

func TestServer_RunListenError(t *testing.T) {
	busy := listen(t)
	defer busy.Close()

	srv := newTestServer(t, nil, nil)
	srv.address = busy.Addr().String()

	err := srv.Run(context.Background())
	assert.ErrorContains(t, err, "listen on")
}
