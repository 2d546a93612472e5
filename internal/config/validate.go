package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/rileyhilliard/pollboard/internal/errors"
)

// ValidationOption controls validation behavior.
type ValidationOption func(*validationContext)

type validationContext struct {
	skipWidgetCheck bool
}

// SkipWidgetCheck disables the widget file existence check. Used by
// commands that never render the browser page.
func SkipWidgetCheck() ValidationOption {
	return func(c *validationContext) {
		c.skipWidgetCheck = true
	}
}

// Validate checks the config for errors and returns structured error messages.
// Every error returned here is fatal: the refresh loop must not start.
func Validate(cfg *Config, opts ...ValidationOption) error {
	ctx := &validationContext{}
	for _, opt := range opts {
		opt(ctx)
	}

	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but pollboard only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Upgrade pollboard or lower the version field.")
	}

	if err := ValidateURL(cfg.Source.URL); err != nil {
		return err
	}

	if err := validateSource(cfg.Source); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'source' section in your .pollboard.yaml.")
	}

	if err := validateRefresh(cfg.Refresh); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'refresh' section in your .pollboard.yaml.")
	}

	if err := validateServer(cfg.Server, ctx); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'server' section in your .pollboard.yaml.")
	}

	if err := validateOutput(cfg.Output); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'output' section in your .pollboard.yaml.")
	}

	return nil
}

// ValidateURL checks that the endpoint is an absolute http(s) URL with a host.
func ValidateURL(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return errors.New(errors.ErrConfig,
			"No source URL configured",
			"Set source.url in .pollboard.yaml, export POLLBOARD_SOURCE_URL, or pass --url.")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("'%s' is not a valid URL", raw),
			"Use a full URL like https://example.com/api/items.")
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Unsupported URL scheme '%s' in '%s'", u.Scheme, raw),
			"Only http:// and https:// endpoints are supported.")
	}

	if u.Host == "" {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("URL '%s' has no host", raw),
			"Use a full URL like https://example.com/api/items.")
	}

	return nil
}

func validateSource(src SourceConfig) error {
	if src.Timeout <= 0 {
		return fmt.Errorf("source.timeout must be positive, got %s", src.Timeout)
	}

	if src.Token != "" && strings.TrimSpace(src.AuthHeader) == "" {
		return fmt.Errorf("source.auth_header can't be empty when source.token is set")
	}

	if strings.HasPrefix(src.RowsPath, ".") || strings.HasSuffix(src.RowsPath, ".") || strings.Contains(src.RowsPath, "..") {
		return fmt.Errorf("source.rows_path '%s' has an empty segment", src.RowsPath)
	}

	for name := range src.Headers {
		if strings.TrimSpace(name) == "" || strings.ContainsAny(name, " \t\r\n:") {
			return fmt.Errorf("header name %q is not valid", name)
		}
	}

	return nil
}

func validateRefresh(r RefreshConfig) error {
	if r.Interval < MinInterval {
		return fmt.Errorf("refresh.interval %s is below the %s minimum", r.Interval, MinInterval)
	}
	return nil
}

func validateServer(s ServerConfig, ctx *validationContext) error {
	if s.Listen == "" {
		return fmt.Errorf("server.listen can't be empty")
	}
	if _, _, err := net.SplitHostPort(s.Listen); err != nil {
		return fmt.Errorf("server.listen '%s' isn't a host:port address", s.Listen)
	}

	if s.Widget != "" && !ctx.skipWidgetCheck {
		info, err := os.Stat(s.Widget)
		if err != nil {
			return fmt.Errorf("server.widget '%s' can't be read: %v", s.Widget, err)
		}
		if info.IsDir() {
			return fmt.Errorf("server.widget '%s' is a directory", s.Widget)
		}
	}

	return nil
}

func validateOutput(o OutputConfig) error {
	switch o.Color {
	case "", "auto", "always", "never":
		return nil
	default:
		return fmt.Errorf("output.color must be auto, always, or never (got '%s')", o.Color)
	}
}

// ParseInterval parses a --interval flag value, enforcing MinInterval.
func ParseInterval(flag string) (time.Duration, error) {
	d, err := time.ParseDuration(flag)
	if err != nil {
		return 0, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Invalid interval: %s", flag),
			"Use a valid duration like 5s, 10s, or 1m")
	}
	if d < MinInterval {
		return 0, errors.New(errors.ErrConfig,
			"Interval too short",
			fmt.Sprintf("Minimum interval is %s to avoid overwhelming the endpoint", MinInterval))
	}
	return d, nil
}

// ParseTimeout parses a --timeout flag value.
func ParseTimeout(flag string) (time.Duration, error) {
	d, err := time.ParseDuration(flag)
	if err != nil || d <= 0 {
		return 0, errors.New(errors.ErrConfig,
			fmt.Sprintf("'%s' doesn't look like a valid timeout", flag),
			"Try something like 5s, 2m, or 500ms.")
	}
	return d, nil
}
