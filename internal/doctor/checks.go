// Package doctor runs diagnostic checks against a dashboard configuration:
// the config file, the endpoint, the widget and the listen address.
package doctor

import (
	"fmt"
	"time"

	"github.com/rileyhilliard/pollboard/internal/config"
)

// CheckStatus represents the result status of a check.
type CheckStatus int

const (
	StatusPass CheckStatus = iota
	StatusWarn
	StatusFail
)

// String returns a human-readable status string.
func (s CheckStatus) String() string {
	switch s {
	case StatusPass:
		return "pass"
	case StatusWarn:
		return "warn"
	case StatusFail:
		return "fail"
	default:
		return "unknown"
	}
}

// MarshalText encodes the status as its string form.
func (s CheckStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// CheckResult contains the outcome of running a check.
type CheckResult struct {
	Name       string      `json:"name"`
	Status     CheckStatus `json:"status"`
	Message    string      `json:"message"`
	Suggestion string      `json:"suggestion,omitempty"`

	// FetchKind is the fetch failure class ("timeout", "http-status", ...)
	// when the check fetched from the endpoint and failed.
	FetchKind string `json:"fetch_kind,omitempty"`
}

// Check defines the interface for diagnostic checks.
type Check interface {
	// Name returns the check's identifier.
	Name() string

	// Category returns the check's category (e.g., "CONFIG", "SOURCE").
	Category() string

	// Run executes the check and returns the result.
	Run() CheckResult
}

// DefaultDeadline bounds a doctor run when no config is available.
const DefaultDeadline = 10 * time.Second

// Deadline is how long Run waits for checks: the fetch timeout plus room
// for the other checks.
func Deadline(cfg *config.Config) time.Duration {
	if cfg == nil || cfg.Source.Timeout <= 0 {
		return DefaultDeadline
	}
	return cfg.Source.Timeout + 5*time.Second
}

// Run executes checks in parallel and returns results in check order. A
// check still running after deadline is reported as failed.
func Run(checks []Check, deadline time.Duration) []CheckResult {
	chans := make([]chan CheckResult, len(checks))
	for i, check := range checks {
		ch := make(chan CheckResult, 1)
		chans[i] = ch
		go func(c Check) { ch <- c.Run() }(check)
	}

	timer := time.NewTimer(deadline)
	defer timer.Stop()

	results := make([]CheckResult, len(checks))
	for i, ch := range chans {
		select {
		case results[i] = <-ch:
		case <-timer.C:
			// Everything still outstanding is out of time.
			for j := i; j < len(chans); j++ {
				select {
				case results[j] = <-chans[j]:
				default:
					results[j] = timedOut(checks[j], deadline)
				}
			}
			return results
		}
	}
	return results
}

func timedOut(c Check, deadline time.Duration) CheckResult {
	return CheckResult{
		Name:       c.Name(),
		Status:     StatusFail,
		Message:    fmt.Sprintf("No answer after %s", deadline),
		Suggestion: "Something is hanging; run with --verbose to see where",
	}
}

// Tally counts results by status.
type Tally struct {
	Pass int
	Warn int
	Fail int
}

// Count tallies results.
func Count(results []CheckResult) Tally {
	var t Tally
	for _, r := range results {
		switch r.Status {
		case StatusPass:
			t.Pass++
		case StatusWarn:
			t.Warn++
		case StatusFail:
			t.Fail++
		}
	}
	return t
}

// Failed reports whether any check failed.
func (t Tally) Failed() bool { return t.Fail > 0 }

// Clean reports whether every check passed.
func (t Tally) Clean() bool { return t.Fail == 0 && t.Warn == 0 }

// Issues is the number of warnings and failures.
func (t Tally) Issues() int { return t.Warn + t.Fail }

// FetchFailure returns the failure class of the first failed endpoint
// fetch, if any.
func FetchFailure(results []CheckResult) (string, bool) {
	for _, r := range results {
		if r.Status == StatusFail && r.FetchKind != "" {
			return r.FetchKind, true
		}
	}
	return "", false
}

// Summary says what the results mean for the dashboard.
func Summary(results []CheckResult) string {
	t := Count(results)
	if t.Clean() {
		return "Ready to serve"
	}

	msg := fmt.Sprintf("%d issue%s found", t.Issues(), pluralize(t.Issues()))
	if kind, ok := FetchFailure(results); ok {
		msg += fmt.Sprintf("; the dashboard would open with no data (%s)", kind)
	} else if !t.Failed() {
		msg += "; the dashboard will still run"
	}
	return msg
}

func pluralize(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
