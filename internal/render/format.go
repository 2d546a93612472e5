package render

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/rileyhilliard/pollboard/internal/snapshot"
)

// FormatValue turns a decoded JSON value into cell text. Nested objects
// and arrays are shown as compact JSON.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		if val {
			return "true"
		}
		return "false"
	case map[string]any, []any:
		data, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(data)
	default:
		return fmt.Sprint(val)
	}
}

// Cells lays out rows against columns; missing cells are empty.
func Cells(s snapshot.Snapshot) [][]string {
	out := make([][]string, len(s.Rows))
	for i, row := range s.Rows {
		cells := make([]string, len(s.Columns))
		for j, col := range s.Columns {
			if v, ok := row.Get(col); ok {
				cells[j] = FormatValue(v)
			}
		}
		out[i] = cells
	}
	return out
}

// Status describes the snapshot's freshness in one line. It depends only on
// the snapshot, so the same snapshot always yields the same text.
func Status(s snapshot.Snapshot) string {
	switch {
	case s.Empty() && s.Stale:
		return "no data yet, fetch failed: " + singleLine(s.LastError)
	case s.Empty():
		return "waiting for first fetch"
	case s.Stale:
		return fmt.Sprintf("last updated %s, fetch failed: %s",
			humanize.RelTime(s.FetchedAt, s.LastAttempt, "ago", "from now"), singleLine(s.LastError))
	default:
		return "updated " + s.FetchedAt.UTC().Format(time.RFC3339)
	}
}

// StatusClass is the CSS class suffix for the status banner.
func StatusClass(s snapshot.Snapshot) string {
	switch {
	case s.Stale:
		return "stale"
	case s.Empty():
		return "pending"
	default:
		return "ok"
	}
}

// Summary counts rows and columns, e.g. "1,204 rows, 5 columns".
func Summary(s snapshot.Snapshot) string {
	return fmt.Sprintf("%s %s, %d %s",
		humanize.Comma(int64(len(s.Rows))), plural(len(s.Rows), "row"),
		len(s.Columns), plural(len(s.Columns), "column"))
}

func emptyText(s snapshot.Snapshot) string {
	if s.Empty() {
		return "No data yet."
	}
	return "The endpoint returned no rows."
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

// singleLine collapses whitespace so multi-line errors fit a banner.
func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
