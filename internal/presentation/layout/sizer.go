package layout

import (
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/penwyp/go-wpt-filmstrip/internal/util"
)

const (
	defaultWidth = 80
	minWidth     = 40
	maxWidth     = 200
)

// Sizer measures and fits text to a fixed display width
type Sizer struct {
	width int
}

// NewSizer returns a sizer for width columns. A width <= 0 uses the terminal width.
func NewSizer(width int) *Sizer {
	if width <= 0 {
		width = TerminalWidth(os.Stdout)
	}
	return &Sizer{width: width}
}

// TerminalWidth reports the width of f, falling back to 80 columns when f is
// not a terminal.
func TerminalWidth(f *os.File) int {
	if f == nil {
		return defaultWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width < minWidth {
		width = defaultWidth
	}
	if width > maxWidth {
		width = maxWidth
	}

	util.LogDebugf("TerminalWidth %d", width)
	return width
}

func (s Sizer) Width() int {
	return s.width
}

// DisplayWidth is the number of terminal columns s occupies
func (Sizer) DisplayWidth(str string) int {
	return runewidth.StringWidth(str)
}

// PadString pads a string to a specific display width, handling wide characters correctly
func (s Sizer) PadString(str string, width int, leftAlign bool) string {
	actual := s.DisplayWidth(str)
	if actual >= width {
		return str
	}

	padding := strings.Repeat(" ", width-actual)
	if leftAlign {
		return str + padding
	}
	return padding + str
}

// Fit truncates str to width columns, marking the cut with an ellipsis, then pads it
func (s Sizer) Fit(str string, width int, leftAlign bool) string {
	if width <= 0 {
		return ""
	}
	if s.DisplayWidth(str) > width {
		str = runewidth.Truncate(str, width, "…")
	}
	return s.PadString(str, width, leftAlign)
}

// Columns is how many cells of cellWidth fit next to a leading gutter
func (s Sizer) Columns(gutter, cellWidth int) int {
	if cellWidth <= 0 {
		return 1
	}
	n := (s.width - gutter) / cellWidth
	if n < 1 {
		n = 1
	}
	return n
}
