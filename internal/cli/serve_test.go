package cli

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/pollboard/internal/app"
	"github.com/rileyhilliard/pollboard/internal/config"
	"github.com/rileyhilliard/pollboard/internal/errors"
	"github.com/rileyhilliard/pollboard/internal/logger"
	"github.com/rileyhilliard/pollboard/internal/server"
)

func TestServeCommand_InvalidURLFailsFast(t *testing.T) {
	withConfig(t, "version: 1\nsource:\n  url: \"not a url\"\nserver:\n  listen: 127.0.0.1:0\n")

	done := make(chan error, 1)
	go func() { done <- serveCommand(context.Background(), SourceFlags{}, "") }()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrConfig))
	case <-time.After(2 * time.Second):
		t.Fatal("serve did not fail fast on a bad URL")
	}
}

func TestRunServer(t *testing.T) {
	srv := rowsServer(t, http.StatusOK, `[{"id":1}]`)

	cfg := config.DefaultConfig()
	cfg.Source.URL = srv.URL
	cfg.Refresh.Interval = time.Hour
	cfg.Server.Listen = "127.0.0.1:0"

	session, err := app.New(cfg, logger.Noop())
	require.NoError(t, err)
	dash := server.New(session, server.Options{})
	ln, err := dash.Listen()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runServer(ctx, session, dash, ln) }()

	require.Eventually(t, func() bool { return session.Snapshot().Generation == 1 }, 2*time.Second, 10*time.Millisecond)

	resp, err := http.Get("http://" + ln.Addr().String() + "/api/snapshot")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"generation":1`)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(server.ShutdownTimeout + time.Second):
		t.Fatal("runServer did not stop after cancel")
	}
}
