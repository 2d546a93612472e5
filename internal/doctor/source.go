package doctor

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/rileyhilliard/pollboard/internal/config"
	"github.com/rileyhilliard/pollboard/internal/fetch"
	"github.com/rileyhilliard/pollboard/internal/snapshot"
)

// EndpointCheck performs one fetch and reports how it went.
type EndpointCheck struct {
	Source config.SourceConfig

	// fetch replaces the HTTP fetch in tests.
	fetch func(ctx context.Context) ([]snapshot.Row, error)
}

func (c *EndpointCheck) Name() string     { return "endpoint" }
func (c *EndpointCheck) Category() string { return "SOURCE" }

func (c *EndpointCheck) Run() CheckResult {
	fn := c.fetch
	if fn == nil {
		f, err := fetch.New(fetch.OptionsFromConfig(c.Source))
		if err != nil {
			return CheckResult{
				Name:       c.Name(),
				Status:     StatusFail,
				Message:    fmt.Sprintf("Cannot build a fetcher: %v", err),
				Suggestion: "Set source.url to an absolute http(s) URL",
			}
		}
		fn = f.Fetch
	}

	start := time.Now()
	rows, err := fn(context.Background())
	elapsed := time.Since(start).Round(time.Millisecond)

	if err != nil {
		kind, _ := fetch.KindOf(err)
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("Fetch failed (%s): %v", kind, err),
			Suggestion: suggestionFor(kind),
			FetchKind:  kind.String(),
		}
	}

	if len(rows) == 0 {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    fmt.Sprintf("Endpoint answered in %s but returned no rows", elapsed),
			Suggestion: "Check source.rows_path points at the array you want to show",
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("Fetched %s row%s in %s", humanize.Comma(int64(len(rows))), pluralize(len(rows)), elapsed),
	}
}

func suggestionFor(kind fetch.Kind) string {
	switch kind {
	case fetch.KindTimeout:
		return "The endpoint is slow; raise source.timeout or check the server"
	case fetch.KindHTTPStatus:
		return "Check the URL and any token or headers the endpoint requires"
	case fetch.KindParse:
		return "The endpoint must return JSON rows; set source.rows_path if they are nested"
	default:
		return "Check the host is reachable from this machine"
	}
}

// WidgetCheck verifies the widget file, when one is configured, is readable.
type WidgetCheck struct {
	Path string
}

func (c *WidgetCheck) Name() string     { return "widget" }
func (c *WidgetCheck) Category() string { return "SERVER" }

func (c *WidgetCheck) Run() CheckResult {
	if c.Path == "" {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusPass,
			Message: "No widget configured",
		}
	}

	data, err := readFile(c.Path)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("Cannot read widget: %v", err),
			Suggestion: "Check server.widget points at an HTML file",
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("Widget %s (%s)", c.Path, humanize.Bytes(uint64(len(data)))),
	}
}
