package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileHeader is written above generated config files.
const fileHeader = `# pollboard configuration
# Run 'pollboard serve' to open the dashboard, 'pollboard doctor' to check it.
# Every key can be overridden with POLLBOARD_<SECTION>_<KEY>, e.g. POLLBOARD_SOURCE_URL.

`

// fileConfig mirrors Config with durations as strings so the
// generated YAML reads "5s" instead of nanoseconds.
type fileConfig struct {
	Version int `yaml:"version"`
	Source  struct {
		URL        string            `yaml:"url"`
		Timeout    string            `yaml:"timeout"`
		RowsPath   string            `yaml:"rows_path,omitempty"`
		Headers    map[string]string `yaml:"headers,omitempty"`
		AuthHeader string            `yaml:"auth_header,omitempty"`
		Token      string            `yaml:"token,omitempty"`
	} `yaml:"source"`
	Refresh struct {
		Interval string `yaml:"interval"`
	} `yaml:"refresh"`
	Server struct {
		Listen string `yaml:"listen"`
		Title  string `yaml:"title"`
		Widget string `yaml:"widget,omitempty"`
	} `yaml:"server"`
	Output struct {
		Color string `yaml:"color"`
	} `yaml:"output"`
}

// Marshal renders cfg as a commented YAML document.
func Marshal(cfg *Config) ([]byte, error) {
	var fc fileConfig
	fc.Version = cfg.Version
	fc.Source.URL = cfg.Source.URL
	fc.Source.Timeout = cfg.Source.Timeout.String()
	fc.Source.RowsPath = cfg.Source.RowsPath
	if len(cfg.Source.Headers) > 0 {
		fc.Source.Headers = cfg.Source.Headers
	}
	if cfg.Source.Token != "" {
		fc.Source.AuthHeader = cfg.Source.AuthHeader
		fc.Source.Token = cfg.Source.Token
	}
	fc.Refresh.Interval = cfg.Refresh.Interval.String()
	fc.Server.Listen = cfg.Server.Listen
	fc.Server.Title = cfg.Server.Title
	fc.Server.Widget = cfg.Server.Widget
	fc.Output.Color = cfg.Output.Color

	data, err := yaml.Marshal(&fc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return append([]byte(fileHeader), data...), nil
}

// Write marshals cfg and writes it to path.
func Write(path string, cfg *Config) error {
	data, err := Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
