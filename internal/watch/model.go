package watch

import (
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rileyhilliard/pollboard/internal/refresh"
	"github.com/rileyhilliard/pollboard/internal/render"
	"github.com/rileyhilliard/pollboard/internal/snapshot"
)

// clockInterval is how often the header's relative times are redrawn.
const clockInterval = time.Second

const (
	headerHeight = 2
	footerHeight = 2
)

// Source is what the model reads from. *app.Session satisfies it.
type Source interface {
	Snapshot() snapshot.Snapshot
	Refresh()
}

// eventMsg carries a scheduler event into the program.
type eventMsg refresh.Event

// clockMsg redraws relative times.
type clockMsg time.Time

// Model is the Bubble Tea model for the terminal dashboard.
type Model struct {
	src      Source
	events   <-chan refresh.Event
	title    string
	interval time.Duration
	now      func() time.Time

	snap       snapshot.Snapshot
	tick       uint64
	clock      time.Time
	refreshing bool

	width         int
	height        int
	viewport      viewport.Model
	viewportReady bool

	showHelp bool
	quitting bool
}

// NewModel creates a model that reads snapshots from src and receives
// scheduler events on events. events may be nil.
func NewModel(src Source, events <-chan refresh.Event, title string, interval time.Duration) Model {
	m := Model{
		src:      src,
		events:   events,
		title:    title,
		interval: interval,
		now:      time.Now,
	}
	m.snap = src.Snapshot()
	m.clock = m.now()
	return m
}

// Init starts the clock and the event listener.
func (m Model) Init() tea.Cmd {
	return tea.Batch(clockCmd(), waitForEvent(m.events))
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		handled, cmd := m.HandleKeyMsg(msg)
		if handled {
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		viewportHeight := m.height - headerHeight - footerHeight
		if viewportHeight < 1 {
			viewportHeight = 1
		}
		if !m.viewportReady {
			m.viewport = viewport.New(m.width, viewportHeight)
			m.viewport.YPosition = headerHeight
			m.viewportReady = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = viewportHeight
		}
		m.updateViewportContent()

	case clockMsg:
		m.clock = time.Time(msg)
		return m, clockCmd()

	case eventMsg:
		ev := refresh.Event(msg)
		m.tick = ev.Tick
		if ev.Kind == refresh.EventUpdated {
			m.snap = ev.Snapshot
			m.refreshing = false
			m.updateViewportContent()
		}
		return m, waitForEvent(m.events)
	}

	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.showHelp {
		return m.renderHelpOverlay()
	}
	return m.renderDashboard()
}

// Snapshot returns the snapshot currently on screen.
func (m Model) Snapshot() snapshot.Snapshot {
	return m.snap
}

func (m *Model) updateViewportContent() {
	if !m.viewportReady {
		return
	}
	m.viewport.SetContent(render.RenderText(m.snap, m.width))
}

func clockCmd() tea.Cmd {
	return tea.Tick(clockInterval, func(t time.Time) tea.Msg {
		return clockMsg(t)
	})
}

// waitForEvent blocks for the next scheduler event. It returns nil once
// the channel is closed, which ends the listen loop.
func waitForEvent(events <-chan refresh.Event) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return eventMsg(ev)
	}
}
