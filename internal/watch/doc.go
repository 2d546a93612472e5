// Package watch implements the terminal front end of the dashboard.
//
// It is a Bubble Tea program over the same session the web server uses:
// the refresh loop runs in the background and every scheduler event is
// handed to the program as a message.
//
// # Message Flow
//
//  1. The scheduler publishes an Event after each tick and each commit
//  2. The event is forwarded to a one-slot channel; waitForEvent turns it
//     into an eventMsg
//  3. Update copies the snapshot into the model and re-renders the table
//  4. A local clock tick every second redraws the "updated ... ago" header
//
// # Keyboard Shortcuts
//
//	q, Ctrl+C   - Quit
//	r           - Refresh now
//	j/k, ↑/↓    - Scroll the table
//	g/G         - Jump to top / bottom
//	?           - Toggle help overlay
//	Esc         - Close help
package watch
