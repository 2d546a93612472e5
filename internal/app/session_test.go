package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/pollboard/internal/config"
	"github.com/rileyhilliard/pollboard/internal/errors"
	"github.com/rileyhilliard/pollboard/internal/logger"
	"github.com/rileyhilliard/pollboard/internal/refresh"
	"github.com/rileyhilliard/pollboard/internal/snapshot"
)

func testConfig(url string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Source.URL = url
	cfg.Refresh.Interval = config.MinInterval
	return cfg
}

// Scenario D: a bad endpoint is reported before the loop starts.
func TestNew_InvalidURLFailsFast(t *testing.T) {
	var calls atomic.Int64
	fetch := func(ctx context.Context) ([]snapshot.Row, error) {
		calls.Add(1)
		return nil, nil
	}

	for _, url := range []string{"", "not a url", "ftp://example.com"} {
		t.Run(url, func(t *testing.T) {
			s, err := New(testConfig(url), logger.Noop(), WithFetchFunc(fetch))
			require.Error(t, err)
			assert.Nil(t, s)
			assert.True(t, errors.IsCode(err, errors.ErrConfig))
		})
	}
	assert.Equal(t, int64(0), calls.Load(), "no fetch may be attempted")
}

func TestNew_InvalidInterval(t *testing.T) {
	cfg := testConfig("https://example.com/items")
	cfg.Refresh.Interval = time.Millisecond

	_, err := New(cfg, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refresh.interval")
}

func TestNew_LoadsWidget(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "widget.html")
	require.NoError(t, os.WriteFile(path, []byte("<p>hello widget</p>"), 0o644))

	cfg := testConfig("https://example.com/items")
	cfg.Server.Widget = path

	s, err := New(cfg, nil)
	require.NoError(t, err)

	page, err := s.Renderer.RenderPage(s.Snapshot())
	require.NoError(t, err)
	assert.Contains(t, string(page.Body), "&lt;p&gt;hello widget&lt;/p&gt;")
}

func TestNew_MissingWidget(t *testing.T) {
	cfg := testConfig("https://example.com/items")
	cfg.Server.Widget = filepath.Join(t.TempDir(), "missing.html")

	_, err := New(cfg, nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))

	s, err := New(cfg, nil, WithoutWidget())
	require.NoError(t, err, "terminal front ends don't need the widget")
	assert.NotNil(t, s)
}

// Scenario A end to end: the session polls a real endpoint and commits rows.
func TestSession_RunCommitsRows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":1,"name":"a"},{"id":2,"name":"b"}]`))
	}))
	defer srv.Close()

	log := logger.NewBufferLogger()
	s, err := New(testConfig(srv.URL), log)
	require.NoError(t, err)

	var updates atomic.Int64
	s.Subscribe(func(ev refresh.Event) {
		if ev.Kind == refresh.EventUpdated {
			updates.Add(1)
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	assert.Eventually(t, func() bool { return updates.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
	snap := s.Snapshot()
	assert.Len(t, snap.Rows, 2)
	assert.Equal(t, []string{"id", "name"}, snap.Columns)
	assert.False(t, snap.Stale)

	cancel()
	require.NoError(t, <-done)
	assert.True(t, log.Contains("info", "polling "+srv.URL))
}

func TestSession_RefreshTriggersFetch(t *testing.T) {
	var calls atomic.Int64
	fetch := func(ctx context.Context) ([]snapshot.Row, error) {
		calls.Add(1)
		return []snapshot.Row{}, nil
	}

	cfg := testConfig("https://example.com/items")
	cfg.Refresh.Interval = time.Hour
	s, err := New(cfg, nil, WithFetchFunc(fetch))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = s.Run(ctx) }()

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	s.Refresh()
	assert.Eventually(t, func() bool { return calls.Load() == 2 }, time.Second, 5*time.Millisecond)
}
