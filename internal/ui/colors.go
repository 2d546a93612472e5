package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Semantic colors for status indication
const (
	ColorSuccess lipgloss.Color = "2" // Green
	ColorError   lipgloss.Color = "1" // Red
	ColorWarning lipgloss.Color = "3" // Yellow
	ColorInfo    lipgloss.Color = "6" // Cyan
)

// Text colors for content hierarchy
const (
	ColorPrimary   lipgloss.Color = "7" // White/default
	ColorSecondary lipgloss.Color = "4" // Blue
	ColorMuted     lipgloss.Color = "8" // Gray (bright black)
)

// ColorProfile decides the terminal colour profile.
//
// mode is output.color ("auto", "always" or "never"); noColor is the
// --no-color flag. In auto mode colours are only used when isTTY is true
// and NO_COLOR is unset.
func ColorProfile(mode string, noColor, isTTY bool) termenv.Profile {
	if noColor || mode == "never" {
		return termenv.Ascii
	}
	if mode == "always" {
		return termenv.ANSI256
	}
	if !isTTY || os.Getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}
	return termenv.EnvColorProfile()
}

// ConfigureColor applies ColorProfile for stdout to lipgloss.
func ConfigureColor(mode string, noColor bool) termenv.Profile {
	profile := ColorProfile(mode, noColor, IsTerminal(os.Stdout))
	lipgloss.SetColorProfile(profile)
	return profile
}

// IsTerminal returns true if f is a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
