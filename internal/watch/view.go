package watch

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/rileyhilliard/pollboard/internal/render"
)

func (m Model) renderDashboard() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	if m.viewportReady {
		b.WriteString(m.viewport.View())
	} else {
		b.WriteString(render.RenderText(m.snap, m.width))
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

// renderHeader renders the title with tick, generation and freshness.
func (m Model) renderHeader() string {
	title := TitleStyle.Render(m.title)
	stats := LabelStyle.Render(fmt.Sprintf(" | tick %d | gen %d | %s", m.tick, m.snap.Generation, m.freshness()))

	header := title + stats
	if m.snap.Stale {
		header += StaleStyle.Render(" | stale")
	}
	return HeaderStyle.Render(header)
}

// freshness describes the age of the data against the local clock.
func (m Model) freshness() string {
	switch {
	case m.refreshing:
		return "refreshing"
	case m.snap.Empty():
		return "waiting for data"
	case !m.clock.After(m.snap.FetchedAt):
		return "updated just now"
	default:
		return "updated " + humanize.RelTime(m.snap.FetchedAt, m.clock, "ago", "from now")
	}
}

func (m Model) renderFooter() string {
	hints := []string{
		"q quit",
		"r refresh",
		"↑↓ scroll",
		"? help",
		fmt.Sprintf("every %s", m.interval),
	}
	return FooterStyle.Render(strings.Join(hints, " | "))
}
