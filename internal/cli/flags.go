package cli

import (
	"github.com/spf13/cobra"

	"github.com/rileyhilliard/pollboard/internal/config"
)

// SourceFlags holds the flags shared by serve, watch and fetch.
type SourceFlags struct {
	URL      string
	Interval string
	Timeout  string
}

// AddSourceFlags registers --url, --interval and --timeout on a command.
func AddSourceFlags(cmd *cobra.Command, flags *SourceFlags) {
	cmd.Flags().StringVar(&flags.URL, "url", "", "endpoint to poll (overrides source.url)")
	cmd.Flags().StringVar(&flags.Interval, "interval", "", "refresh interval, e.g. 10s (overrides refresh.interval)")
	cmd.Flags().StringVar(&flags.Timeout, "timeout", "", "per-fetch timeout, e.g. 5s (overrides source.timeout)")
}

// Apply writes the flags that were set onto cfg.
func (f SourceFlags) Apply(cfg *config.Config) error {
	if f.URL != "" {
		cfg.Source.URL = f.URL
	}
	if f.Interval != "" {
		d, err := config.ParseInterval(f.Interval)
		if err != nil {
			return err
		}
		cfg.Refresh.Interval = d
	}
	if f.Timeout != "" {
		d, err := config.ParseTimeout(f.Timeout)
		if err != nil {
			return err
		}
		cfg.Source.Timeout = d
	}
	return nil
}

// loadConfigFile finds and loads the config named by --config, falling
// back to defaults plus environment.
func loadConfigFile() (*config.Config, string, error) {
	return config.LoadOrDefault(Config())
}

// loadConfig loads the config and applies command-line overrides.
func loadConfig(flags SourceFlags) (*config.Config, error) {
	cfg, _, err := loadConfigFile()
	if err != nil {
		return nil, err
	}
	if err := flags.Apply(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
