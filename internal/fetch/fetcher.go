// Package fetch performs one bounded HTTP GET against the upstream endpoint
// and turns the JSON response into snapshot rows.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"golang.org/x/net/http2"

	"github.com/rileyhilliard/pollboard/internal/config"
	"github.com/rileyhilliard/pollboard/internal/logger"
	"github.com/rileyhilliard/pollboard/internal/snapshot"
)

// MaxBodyBytes caps how much of a response body is read.
const MaxBodyBytes = 32 << 20

// Options configures a Fetcher.
type Options struct {
	URL        string
	Timeout    time.Duration
	RowsPath   string
	Headers    map[string]string
	AuthHeader string
	Token      string
	UserAgent  string

	// Client overrides the HTTP client. Its Timeout is left alone.
	Client *http.Client
	Logger logger.Logger
}

// OptionsFromConfig maps the source section of a config onto Options.
func OptionsFromConfig(src config.SourceConfig) Options {
	return Options{
		URL:        src.URL,
		Timeout:    src.Timeout,
		RowsPath:   src.RowsPath,
		Headers:    src.Headers,
		AuthHeader: src.AuthHeader,
		Token:      src.Token,
	}
}

// Fetcher retrieves rows from one endpoint. It is safe for concurrent use
// but the refresh loop never calls it concurrently.
type Fetcher struct {
	url      string
	timeout  time.Duration
	rowsPath string
	header   http.Header
	client   *http.Client
	log      logger.Logger
}

// New validates opts and builds a Fetcher.
func New(opts Options) (*Fetcher, error) {
	if err := config.ValidateURL(opts.URL); err != nil {
		return nil, err
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = config.DefaultTimeout
	}

	log := opts.Logger
	if log == nil {
		log = logger.Noop()
	}

	client := opts.Client
	if client == nil {
		var err error
		client, err = newClient(timeout)
		if err != nil {
			return nil, err
		}
	}

	return &Fetcher{
		url:      strings.TrimSpace(opts.URL),
		timeout:  timeout,
		rowsPath: opts.RowsPath,
		header:   buildHeader(opts),
		client:   client,
		log:      log,
	}, nil
}

// newClient returns an HTTP client that negotiates HTTP/2 over TLS and
// falls back to HTTP/1.1 for plain http endpoints.
func newClient(timeout time.Duration) (*http.Client, error) {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   timeout,
		ResponseHeaderTimeout: timeout,
		IdleConnTimeout:       90 * time.Second,
		MaxIdleConnsPerHost:   2,
	}
	if err := http2.ConfigureTransport(transport); err != nil {
		return nil, fmt.Errorf("failed to configure HTTP/2 transport: %w", err)
	}
	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}, nil
}

func buildHeader(opts Options) http.Header {
	h := make(http.Header)
	h.Set("Accept", "application/json")
	ua := opts.UserAgent
	if ua == "" {
		ua = "pollboard"
	}
	h.Set("User-Agent", ua)

	// Viper lowercases map keys; Set canonicalizes them again.
	for name, value := range opts.Headers {
		h.Set(name, value)
	}

	if opts.Token != "" {
		name := opts.AuthHeader
		if name == "" {
			name = config.DefaultAuthHeader
		}
		value := opts.Token
		if strings.EqualFold(name, "Authorization") && !strings.Contains(value, " ") {
			value = "Bearer " + value
		}
		h.Set(name, value)
	}
	return h
}

// URL returns the endpoint being polled.
func (f *Fetcher) URL() string {
	return f.url
}

// Timeout returns the per-request bound.
func (f *Fetcher) Timeout() time.Duration {
	return f.timeout
}

// Fetch performs one GET and parses the rows. Failures are always *Error.
// There are no retries; the next tick is the retry.
func (f *Fetcher) Fetch(ctx context.Context) ([]snapshot.Row, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, URL: f.url, Err: err}
	}
	req.Header = f.header.Clone()

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, f.classify(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &Error{Kind: KindHTTPStatus, StatusCode: resp.StatusCode, URL: f.url}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodyBytes+1))
	if err != nil {
		return nil, f.classify(ctx, err)
	}
	if len(body) > MaxBodyBytes {
		return nil, &Error{Kind: KindParse, URL: f.url, Err: fmt.Errorf("response body exceeds %d bytes", MaxBodyBytes)}
	}

	rows, err := ParseRows(body, f.rowsPath)
	if err != nil {
		return nil, &Error{Kind: KindParse, URL: f.url, Err: err}
	}

	f.log.Debug("fetched %d rows from %s in %s", len(rows), f.url, time.Since(start).Round(time.Millisecond))
	return rows, nil
}

// classify maps a transport error to a Kind.
func (f *Fetcher) classify(ctx context.Context, err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return &Error{Kind: KindTimeout, URL: f.url, Timeout: f.timeout}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &Error{Kind: KindTimeout, URL: f.url, Timeout: f.timeout}
	}
	return &Error{Kind: KindNetwork, URL: f.url, Err: unwrapURLError(err)}
}

// unwrapURLError drops the `Get "http://...":` prefix added by net/http;
// the URL is already shown next to the error.
func unwrapURLError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		return urlErr.Err
	}
	return err
}
