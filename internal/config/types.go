package config

import "time"

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Defaults used when the config file or environment leaves a value unset.
const (
	DefaultTimeout    = 5 * time.Second
	DefaultInterval   = 10 * time.Second
	DefaultListen     = "127.0.0.1:8080"
	DefaultTitle      = "pollboard"
	DefaultAuthHeader = "Authorization"

	// MinInterval keeps the dashboard from hammering the upstream endpoint.
	MinInterval = 500 * time.Millisecond
)

// Config represents the complete .pollboard.yaml configuration file.
type Config struct {
	Version int           `yaml:"version" mapstructure:"version"`
	Source  SourceConfig  `yaml:"source" mapstructure:"source"`
	Refresh RefreshConfig `yaml:"refresh" mapstructure:"refresh"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Output  OutputConfig  `yaml:"output" mapstructure:"output"`
}

// SourceConfig describes the upstream JSON endpoint.
type SourceConfig struct {
	// URL is the http(s) endpoint polled on every tick. Required.
	URL string `yaml:"url" mapstructure:"url"`

	// Timeout bounds a single request, including reading the body.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// RowsPath is an optional dot-separated path to the row array when the
	// endpoint wraps it in an object (e.g. "data.items").
	RowsPath string `yaml:"rows_path,omitempty" mapstructure:"rows_path"`

	// Headers are added to every request.
	Headers map[string]string `yaml:"headers,omitempty" mapstructure:"headers"`

	// AuthHeader names the header that carries Token.
	AuthHeader string `yaml:"auth_header,omitempty" mapstructure:"auth_header"`

	// Token is sent in AuthHeader. For the Authorization header it is
	// prefixed with "Bearer " unless it already carries a scheme.
	Token string `yaml:"token,omitempty" mapstructure:"token"`
}

// RefreshConfig controls the polling cadence.
type RefreshConfig struct {
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`
}

// ServerConfig controls the browser-facing HTTP server.
type ServerConfig struct {
	Listen string `yaml:"listen" mapstructure:"listen"`
	Title  string `yaml:"title" mapstructure:"title"`

	// Widget is a path to an HTML/JS file embedded in the page.
	Widget string `yaml:"widget,omitempty" mapstructure:"widget"`
}

// OutputConfig controls terminal output formatting.
type OutputConfig struct {
	// Color mode: "auto", "always", or "never".
	// "auto" disables color when output is piped.
	Color string `yaml:"color" mapstructure:"color"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentConfigVersion,
		Source: SourceConfig{
			Timeout:    DefaultTimeout,
			Headers:    make(map[string]string),
			AuthHeader: DefaultAuthHeader,
		},
		Refresh: RefreshConfig{
			Interval: DefaultInterval,
		},
		Server: ServerConfig{
			Listen: DefaultListen,
			Title:  DefaultTitle,
		},
		Output: OutputConfig{
			Color: "auto",
		},
	}
}
