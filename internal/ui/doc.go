// Package ui provides the terminal building blocks shared by pollboard's
// commands: colours, status symbols, tables and a spinner.
//
// Colors are ANSI codes for broad terminal compatibility:
//
//	ColorSuccess   (green)  - Fresh data, passing checks
//	ColorError     (red)    - Failures
//	ColorWarning   (yellow) - Stale data, warnings
//	ColorInfo      (cyan)   - Waiting states
//	ColorMuted     (gray)   - Secondary text, timing info
//
// ConfigureColor picks the colour profile once at startup. --no-color,
// output.color: never and non-terminal stdout all fall back to plain ASCII.
//
// Tables are rendered with the Bubbles table component:
//
//	out := ui.RenderSimpleTable(columns, rows)
//
// The Spinner animates a label while a fetch is in flight and only draws
// frames when writing to a terminal.
package ui
