package util

import (
	"strings"
)

// Terminal control sequences
const (
	ColorReset  = "\033[0m"
	ColorYellow = "\033[33m"
	ColorBold   = "\033[1m"

	ClearScreen          = "\033[2J"     // Clear entire screen
	MoveCursorHome       = "\033[H"      // Move cursor to home position
	HideCursor           = "\033[?25l"   // Hide cursor
	ShowCursor           = "\033[?25h"   // Show cursor
	EnterAlternateScreen = "\033[?1049h" // Switch to the alternate screen buffer
	ExitAlternateScreen  = "\033[?1049l" // Restore the normal screen buffer
)

// Colorize wraps s in color when enabled
func Colorize(s, color string, enabled bool) string {
	if !enabled || s == "" {
		return s
	}
	return color + s + ColorReset
}

// FormatSectionSeparator returns the line printed between successive renders
func FormatSectionSeparator() string {
	return strings.Repeat("─", 60)
}
