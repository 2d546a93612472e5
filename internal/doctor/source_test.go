package doctor

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/pollboard/internal/config"
	"github.com/rileyhilliard/pollboard/internal/fetch"
	"github.com/rileyhilliard/pollboard/internal/snapshot"
)

func sourceFor(url string) config.SourceConfig {
	src := config.DefaultConfig().Source
	src.URL = url
	src.Timeout = 2 * time.Second
	return src
}

func TestEndpointCheck_Pass(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":1},{"id":2}]`))
	}))
	defer srv.Close()

	result := (&EndpointCheck{Source: sourceFor(srv.URL)}).Run()
	assert.Equal(t, StatusPass, result.Status, result.Message)
	assert.Contains(t, result.Message, "Fetched 2 rows")
}

func TestEndpointCheck_HTTPStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer srv.Close()

	result := (&EndpointCheck{Source: sourceFor(srv.URL)}).Run()
	assert.Equal(t, StatusFail, result.Status)
	assert.Contains(t, result.Message, "(http-status)")
	assert.Contains(t, result.Message, "401")
	assert.Equal(t, suggestionFor(fetch.KindHTTPStatus), result.Suggestion)
	assert.Equal(t, "http-status", result.FetchKind)
}

func TestEndpointCheck_Kinds(t *testing.T) {
	tests := []struct {
		kind fetch.Kind
		want string
	}{
		{fetch.KindNetwork, "(network)"},
		{fetch.KindTimeout, "(timeout)"},
		{fetch.KindParse, "(parse)"},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			check := &EndpointCheck{fetch: func(ctx context.Context) ([]snapshot.Row, error) {
				return nil, &fetch.Error{Kind: tt.kind, Err: fmt.Errorf("boom")}
			}}
			result := check.Run()
			assert.Equal(t, StatusFail, result.Status)
			assert.Contains(t, result.Message, tt.want)
			assert.Equal(t, suggestionFor(tt.kind), result.Suggestion)
			assert.Equal(t, tt.kind.String(), result.FetchKind)
		})
	}
}

func TestEndpointCheck_NoRows(t *testing.T) {
	check := &EndpointCheck{fetch: func(ctx context.Context) ([]snapshot.Row, error) {
		return []snapshot.Row{}, nil
	}}
	result := check.Run()
	assert.Equal(t, StatusWarn, result.Status)
	assert.Contains(t, result.Message, "no rows")
	assert.Empty(t, result.FetchKind)
}

func TestEndpointCheck_BadURL(t *testing.T) {
	result := (&EndpointCheck{Source: sourceFor("ftp://example.com")}).Run()
	assert.Equal(t, StatusFail, result.Status)
	assert.Contains(t, result.Message, "Cannot build a fetcher")
}

func TestWidgetCheck(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "widget.html")
	require.NoError(t, os.WriteFile(path, []byte("<p>hi</p>"), 0o644))

	assert.Equal(t, StatusPass, (&WidgetCheck{}).Run().Status)

	result := (&WidgetCheck{Path: path}).Run()
	assert.Equal(t, StatusPass, result.Status)
	assert.Contains(t, result.Message, "9 B")

	result = (&WidgetCheck{Path: filepath.Join(dir, "missing.html")}).Run()
	assert.Equal(t, StatusFail, result.Status)
}

func TestListenCheck(t *testing.T) {
	result := (&ListenCheck{Addr: "127.0.0.1:0"}).Run()
	assert.Equal(t, StatusPass, result.Status, result.Message)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	result = (&ListenCheck{Addr: ln.Addr().String()}).Run()
	assert.Equal(t, StatusFail, result.Status)
	assert.Contains(t, result.Message, "Cannot listen on")
}
