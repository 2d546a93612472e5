package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rileyhilliard/pollboard/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg := DefaultConfig()
	cfg.Source.URL = "https://example.com/api/items"
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:    "future version",
			mutate:  func(c *Config) { c.Version = CurrentConfigVersion + 1 },
			wantErr: "from the future",
		},
		{
			name:    "missing url",
			mutate:  func(c *Config) { c.Source.URL = "" },
			wantErr: "No source URL configured",
		},
		{
			name:    "whitespace url",
			mutate:  func(c *Config) { c.Source.URL = "   " },
			wantErr: "No source URL configured",
		},
		{
			name:    "unsupported scheme",
			mutate:  func(c *Config) { c.Source.URL = "ftp://example.com/items" },
			wantErr: "Unsupported URL scheme",
		},
		{
			name:    "relative url",
			mutate:  func(c *Config) { c.Source.URL = "/api/items" },
			wantErr: "Unsupported URL scheme",
		},
		{
			name:    "url without host",
			mutate:  func(c *Config) { c.Source.URL = "http:///items" },
			wantErr: "has no host",
		},
		{
			name:    "unparseable url",
			mutate:  func(c *Config) { c.Source.URL = "http://[::1" },
			wantErr: "not a valid URL",
		},
		{
			name:    "zero timeout",
			mutate:  func(c *Config) { c.Source.Timeout = 0 },
			wantErr: "source.timeout must be positive",
		},
		{
			name: "token without auth header",
			mutate: func(c *Config) {
				c.Source.Token = "abc"
				c.Source.AuthHeader = ""
			},
			wantErr: "auth_header",
		},
		{
			name:    "rows path with empty segment",
			mutate:  func(c *Config) { c.Source.RowsPath = "data..items" },
			wantErr: "empty segment",
		},
		{
			name:    "invalid header name",
			mutate:  func(c *Config) { c.Source.Headers["bad header"] = "x" },
			wantErr: "not valid",
		},
		{
			name:    "interval too short",
			mutate:  func(c *Config) { c.Refresh.Interval = 100 * time.Millisecond },
			wantErr: "below the 500ms minimum",
		},
		{
			name:    "empty listen",
			mutate:  func(c *Config) { c.Server.Listen = "" },
			wantErr: "server.listen can't be empty",
		},
		{
			name:    "listen without port",
			mutate:  func(c *Config) { c.Server.Listen = "localhost" },
			wantErr: "isn't a host:port address",
		},
		{
			name:    "missing widget file",
			mutate:  func(c *Config) { c.Server.Widget = "/nonexistent/widget.html" },
			wantErr: "can't be read",
		},
		{
			name:    "bad color mode",
			mutate:  func(c *Config) { c.Output.Color = "rainbow" },
			wantErr: "output.color",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := Validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.True(t, errors.IsCode(err, errors.ErrConfig), "config errors carry the CONFIG code")
		})
	}
}

func TestValidate_WidgetFile(t *testing.T) {
	dir := t.TempDir()
	widget := filepath.Join(dir, "widget.html")
	require.NoError(t, os.WriteFile(widget, []byte("<div id=w></div>"), 0644))

	cfg := validConfig()
	cfg.Server.Widget = widget
	assert.NoError(t, Validate(cfg))

	cfg.Server.Widget = dir
	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is a directory")
}

func TestValidate_SkipWidgetCheck(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Widget = "/nonexistent/widget.html"

	assert.NoError(t, Validate(cfg, SkipWidgetCheck()))
}

func TestParseInterval(t *testing.T) {
	d, err := ParseInterval("15s")
	require.NoError(t, err)
	assert.Equal(t, 15*time.Second, d)

	_, err = ParseInterval("fast")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid interval")

	_, err = ParseInterval("100ms")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Interval too short")
}

func TestParseTimeout(t *testing.T) {
	d, err := ParseTimeout("750ms")
	require.NoError(t, err)
	assert.Equal(t, 750*time.Millisecond, d)

	for _, bad := range []string{"", "later", "0s", "-1s"} {
		_, err := ParseTimeout(bad)
		assert.Error(t, err, "ParseTimeout(%q)", bad)
	}
}
