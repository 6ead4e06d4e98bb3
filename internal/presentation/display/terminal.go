// Package display redraws the filmstrip in place while watching sources.
package display

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"golang.org/x/term"

	"github.com/penwyp/go-wpt-filmstrip/internal/core/composer"
	"github.com/penwyp/go-wpt-filmstrip/internal/presentation/formatter"
	"github.com/penwyp/go-wpt-filmstrip/internal/util"
)

// IsTerminal reports whether w is an interactive terminal
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Screen renders successive compositions to one writer. On a terminal it
// uses the alternate screen buffer and repaints from the top; otherwise
// renders are appended with a separator line.
type Screen struct {
	mu                sync.Mutex
	out               io.Writer
	formatter         formatter.Formatter
	interactive       bool
	inAlternateScreen bool
	renders           int
	now               func() time.Time
}

func NewScreen(out io.Writer, f formatter.Formatter) *Screen {
	return &Screen{
		out:         out,
		formatter:   f,
		interactive: IsTerminal(out),
		now:         time.Now,
	}
}

// EnterAlternateScreen switches to alternate screen buffer
func (s *Screen) EnterAlternateScreen() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.interactive && !s.inAlternateScreen {
		fmt.Fprint(s.out, util.EnterAlternateScreen+util.HideCursor+util.ClearScreen+util.MoveCursorHome)
		s.inAlternateScreen = true
	}
}

// ExitAlternateScreen returns to normal screen buffer
func (s *Screen) ExitAlternateScreen() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inAlternateScreen {
		fmt.Fprint(s.out, util.ShowCursor+util.ExitAlternateScreen)
		s.inAlternateScreen = false
	}
}

// Render draws comp followed by a status line. The frame is built in memory
// first so a slow writer never shows a half-drawn screen.
func (s *Screen) Render(comp *composer.Composition, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var buf bytes.Buffer
	if s.inAlternateScreen {
		buf.WriteString(util.ClearScreen + util.MoveCursorHome)
	} else if s.renders > 0 {
		buf.WriteString("\n" + util.FormatSectionSeparator() + "\n")
	}

	if err := s.formatter.Format(&buf, comp); err != nil {
		return err
	}
	fmt.Fprintf(&buf, "\n%s · updated %s\n", status, s.now().Format("15:04:05"))

	s.renders++
	_, err := s.out.Write(buf.Bytes())
	return err
}

func (s *Screen) Renders() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.renders
}
