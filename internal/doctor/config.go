package doctor

import (
	"fmt"
	"path/filepath"

	"github.com/rileyhilliard/pollboard/internal/config"
)

// ConfigFileCheck verifies that a config file can be found.
type ConfigFileCheck struct {
	ConfigPath string // Explicit path, or empty to search
}

func (c *ConfigFileCheck) Name() string     { return "config_file" }
func (c *ConfigFileCheck) Category() string { return "CONFIG" }

func (c *ConfigFileCheck) Run() CheckResult {
	path, err := config.Find(c.ConfigPath)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("Error finding config: %v", err),
			Suggestion: "Check the --config path or run 'pollboard init' to create a config",
		}
	}

	if path == "" {
		// Everything can come from POLLBOARD_* variables, so this is not fatal.
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    "No config file found, using defaults and POLLBOARD_* environment",
			Suggestion: "Run 'pollboard init' to create a .pollboard.yaml",
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("Config file: %s", filepath.Base(path)),
	}
}

// ConfigSchemaCheck verifies that the loaded configuration is valid.
type ConfigSchemaCheck struct {
	Config  *config.Config
	LoadErr error
}

func (c *ConfigSchemaCheck) Name() string     { return "config_schema" }
func (c *ConfigSchemaCheck) Category() string { return "CONFIG" }

func (c *ConfigSchemaCheck) Run() CheckResult {
	if c.LoadErr != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("Failed to load config: %v", c.LoadErr),
			Suggestion: "Check the YAML syntax in your config file",
		}
	}
	if c.Config == nil {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusFail,
			Message: "Cannot validate: no config loaded",
		}
	}

	// The widget has its own check.
	if err := config.Validate(c.Config, config.SkipWidgetCheck()); err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("Schema error: %v", err),
			Suggestion: "Fix the configuration errors in your .pollboard.yaml",
		}
	}

	return CheckResult{
		Name:   c.Name(),
		Status: StatusPass,
		Message: fmt.Sprintf("Polling %s every %s (timeout %s)",
			c.Config.Source.URL, c.Config.Refresh.Interval, c.Config.Source.Timeout),
	}
}

// NewConfigChecks returns the CONFIG category checks.
func NewConfigChecks(configPath string, cfg *config.Config, loadErr error) []Check {
	return []Check{
		&ConfigFileCheck{ConfigPath: configPath},
		&ConfigSchemaCheck{Config: cfg, LoadErr: loadErr},
	}
}
