package watch

import tea "github.com/charmbracelet/bubbletea"

// Key bindings as constants for consistency.
const (
	KeyQuit       = "q"
	KeyQuitAlt    = "ctrl+c"
	KeyRefresh    = "r"
	KeyScrollUp   = "up"
	KeyScrollUpK  = "k"
	KeyScrollDown = "down"
	KeyScrollDnJ  = "j"
	KeyTop        = "g"
	KeyTopAlt     = "home"
	KeyBottom     = "G"
	KeyBottomAlt  = "end"
	KeyCollapse   = "esc"
	KeyToggleHelp = "?"
)

// HandleKeyMsg processes keyboard input and returns the command to run.
// Returns true if the key was handled, false otherwise.
func (m *Model) HandleKeyMsg(msg tea.KeyMsg) (bool, tea.Cmd) {
	key := msg.String()

	if key == KeyToggleHelp {
		m.showHelp = !m.showHelp
		return true, nil
	}

	if m.showHelp && key == KeyCollapse {
		m.showHelp = false
		return true, nil
	}

	switch key {
	case KeyQuit, KeyQuitAlt:
		m.quitting = true
		return true, tea.Quit

	case KeyRefresh:
		m.refreshing = true
		m.src.Refresh()
		return true, nil

	case KeyScrollUp, KeyScrollUpK:
		m.viewport.ScrollUp(1)
		return true, nil

	case KeyScrollDown, KeyScrollDnJ:
		m.viewport.ScrollDown(1)
		return true, nil

	case KeyTop, KeyTopAlt:
		m.viewport.GotoTop()
		return true, nil

	case KeyBottom, KeyBottomAlt:
		m.viewport.GotoBottom()
		return true, nil
	}

	return false, nil
}
