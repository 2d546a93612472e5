package doctor

import (
	"fmt"
	"net"
	"os"

	"github.com/rileyhilliard/pollboard/internal/config"
)

var readFile = os.ReadFile

// ListenCheck verifies the dashboard address can be bound.
type ListenCheck struct {
	Addr string
}

func (c *ListenCheck) Name() string     { return "listen" }
func (c *ListenCheck) Category() string { return "SERVER" }

func (c *ListenCheck) Run() CheckResult {
	ln, err := net.Listen("tcp", c.Addr)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("Cannot listen on %s: %v", c.Addr, err),
			Suggestion: "Pick another address with server.listen or --listen",
		}
	}
	_ = ln.Close()

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("%s is free", c.Addr),
	}
}

// NewChecks returns every check for the given config. cfg may be nil when
// loading failed; loadErr is then reported by the schema check and the
// checks that need a config are left out.
func NewChecks(configPath string, cfg *config.Config, loadErr error) []Check {
	checks := NewConfigChecks(configPath, cfg, loadErr)
	if cfg == nil {
		return checks
	}
	return append(checks,
		&EndpointCheck{Source: cfg.Source},
		&WidgetCheck{Path: cfg.Server.Widget},
		&ListenCheck{Addr: cfg.Server.Listen},
	)
}
