package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/pollboard/internal/snapshot"
	"github.com/rileyhilliard/pollboard/internal/ui"
)

const (
	maxColumnWidth = 40
	minColumnWidth = 3
	// cellPadding is the horizontal padding the table style adds per column.
	cellPadding = 2
)

// RenderText renders the snapshot as a terminal table no wider than width.
// A width of zero or less means unbounded.
func RenderText(s snapshot.Snapshot, width int) string {
	var b strings.Builder

	b.WriteString(StatusLine(s))
	b.WriteString("\n\n")

	if len(s.Columns) == 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(ui.ColorMuted).Render(emptyText(s)))
		b.WriteString("\n")
		return b.String()
	}

	cells := Cells(s)
	b.WriteString(ui.RenderSimpleTable(columnWidths(s.Columns, cells, width), cells))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(ui.ColorMuted).Render(Summary(s)))
	b.WriteString("\n")
	return b.String()
}

// StatusLine is the status banner with a symbol and colour.
func StatusLine(s snapshot.Snapshot) string {
	var symbol string
	var color lipgloss.Color
	switch StatusClass(s) {
	case "stale":
		symbol, color = ui.SymbolFail, ui.ColorWarning
	case "pending":
		symbol, color = ui.SymbolPending, ui.ColorInfo
	default:
		symbol, color = ui.SymbolSuccess, ui.ColorSuccess
	}
	return lipgloss.NewStyle().Foreground(color).Render(symbol + " " + Status(s))
}

// columnWidths sizes each column to its widest cell. When the table would
// overflow width the widest column is narrowed until it fits.
func columnWidths(columns []string, cells [][]string, width int) []ui.TableColumn {
	out := make([]ui.TableColumn, len(columns))
	for i, col := range columns {
		w := lipgloss.Width(col)
		for _, row := range cells {
			if cw := lipgloss.Width(row[i]); cw > w {
				w = cw
			}
		}
		if w > maxColumnWidth {
			w = maxColumnWidth
		}
		if w < minColumnWidth {
			w = minColumnWidth
		}
		out[i] = ui.TableColumn{Title: col, Width: w}
	}

	if width <= 0 {
		return out
	}

	for total(out) > width {
		widest := 0
		for i := range out {
			if out[i].Width > out[widest].Width {
				widest = i
			}
		}
		if out[widest].Width <= minColumnWidth {
			break
		}
		out[widest].Width--
	}
	return out
}

func total(cols []ui.TableColumn) int {
	n := 0
	for _, c := range cols {
		n += c.Width + cellPadding
	}
	return n
}
