package fetch

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Kind classifies why a fetch failed.
type Kind int

const (
	KindNetwork Kind = iota
	KindTimeout
	KindHTTPStatus
	KindParse
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindTimeout:
		return "timeout"
	case KindHTTPStatus:
		return "http-status"
	case KindParse:
		return "parse"
	default:
		return "unknown"
	}
}

// Error is the failure returned by Fetch. Its message is what the
// dashboard shows next to stale data, so it stays on one line.
type Error struct {
	Kind       Kind
	StatusCode int
	URL        string
	Timeout    time.Duration
	Err        error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindTimeout:
		if e.Err != nil {
			return fmt.Sprintf("timeout after %s: %v", e.Timeout, e.Err)
		}
		return fmt.Sprintf("timeout after %s", e.Timeout)
	case KindHTTPStatus:
		return fmt.Sprintf("HTTP %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	case KindParse:
		return fmt.Sprintf("parse error: %v", e.Err)
	default:
		return fmt.Sprintf("network error: %v", e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of a fetch error anywhere in err's chain.
func KindOf(err error) (Kind, bool) {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind, true
	}
	return 0, false
}
