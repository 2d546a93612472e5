package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshal(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Source.URL = "https://example.com/api/items"
	cfg.Refresh.Interval = 30 * time.Second

	data, err := Marshal(cfg)
	require.NoError(t, err)

	out := string(data)
	assert.True(t, strings.HasPrefix(out, "# pollboard configuration"))
	assert.Contains(t, out, "url: https://example.com/api/items")
	assert.Contains(t, out, "timeout: 5s")
	assert.Contains(t, out, "interval: 30s")
	assert.Contains(t, out, "listen: 127.0.0.1:8080")
	// token unset: auth_header is omitted to keep the file short
	assert.NotContains(t, out, "auth_header")
	assert.NotContains(t, out, "token")
}

func TestWrite_RoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Source.URL = "http://localhost:3000/rows"
	cfg.Source.Token = "abc"
	cfg.Source.RowsPath = "data"
	cfg.Server.Title = "Queue depth"

	path := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, Write(path, cfg))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.False(t, info.IsDir())

	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, cfg.Source.URL, loaded.Source.URL)
	assert.Equal(t, cfg.Source.Token, loaded.Source.Token)
	assert.Equal(t, cfg.Source.AuthHeader, loaded.Source.AuthHeader)
	assert.Equal(t, cfg.Source.RowsPath, loaded.Source.RowsPath)
	assert.Equal(t, cfg.Source.Timeout, loaded.Source.Timeout)
	assert.Equal(t, cfg.Refresh.Interval, loaded.Refresh.Interval)
	assert.Equal(t, cfg.Server.Title, loaded.Server.Title)
	assert.NoError(t, Validate(loaded))
}
