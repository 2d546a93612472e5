package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rileyhilliard/pollboard/internal/snapshot"
	"github.com/rileyhilliard/pollboard/internal/ui"
)

func TestRenderText_Table(t *testing.T) {
	out := RenderText(freshSnapshot(), 0)

	assert.Contains(t, out, "updated 2026-03-04T12:00:00Z")
	assert.Contains(t, out, "id")
	assert.Contains(t, out, "name")
	assert.Contains(t, out, "2 rows, 2 columns")
	assert.Equal(t, out, RenderText(freshSnapshot(), 0), "same snapshot renders the same text")
}

func TestRenderText_Stale(t *testing.T) {
	out := RenderText(staleSnapshot(), 80)

	assert.Contains(t, out, ui.SymbolFail)
	assert.Contains(t, out, "fetch failed: timeout after 5s")
	assert.Contains(t, out, "2 rows")
}

func TestRenderText_Empty(t *testing.T) {
	out := RenderText(snapshot.Snapshot{}, 80)

	assert.Contains(t, out, "waiting for first fetch")
	assert.Contains(t, out, "No data yet.")
}

func TestColumnWidths(t *testing.T) {
	cols := []string{"id", "description"}
	cells := [][]string{
		{"1", strings.Repeat("x", 100)},
		{"22", "short"},
	}

	t.Run("unbounded caps at max", func(t *testing.T) {
		got := columnWidths(cols, cells, 0)
		assert.Equal(t, minColumnWidth, got[0].Width)
		assert.Equal(t, maxColumnWidth, got[1].Width)
	})

	t.Run("fits the terminal", func(t *testing.T) {
		got := columnWidths(cols, cells, 30)
		assert.LessOrEqual(t, total(got), 30)
		assert.Equal(t, "description", got[1].Title)
	})

	t.Run("never below minimum", func(t *testing.T) {
		got := columnWidths(cols, cells, 4)
		for _, c := range got {
			assert.GreaterOrEqual(t, c.Width, minColumnWidth)
		}
	})
}
