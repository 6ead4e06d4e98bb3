package display

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-wpt-filmstrip/internal/core/composer"
	"github.com/penwyp/go-wpt-filmstrip/internal/presentation/formatter"
	"github.com/penwyp/go-wpt-filmstrip/internal/util"
)

func TestScreenAppendsWhenNotATerminal(t *testing.T) {
	var buf bytes.Buffer
	s := NewScreen(&buf, formatter.NewTableFormatter(80))
	s.now = func() time.Time { return time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC) }

	s.EnterAlternateScreen()
	require.NoError(t, s.Render(&composer.Composition{}, "Watching 1 timeline"))
	require.NoError(t, s.Render(&composer.Composition{}, "Watching 1 timeline"))
	s.ExitAlternateScreen()

	out := buf.String()
	assert.Equal(t, 2, s.Renders())
	assert.Equal(t, 2, strings.Count(out, "No timelines loaded"))
	assert.Equal(t, 1, strings.Count(out, util.FormatSectionSeparator()))
	assert.Contains(t, out, "Watching 1 timeline · updated 15:04:05")
	assert.NotContains(t, out, util.ClearScreen)
	assert.NotContains(t, out, util.EnterAlternateScreen)
}

func TestScreenRepaintsOnTerminal(t *testing.T) {
	var buf bytes.Buffer
	s := NewScreen(&buf, formatter.NewJSONFormatter())
	s.interactive = true

	s.EnterAlternateScreen()
	require.NoError(t, s.Render(&composer.Composition{Interval: "100ms"}, "status"))
	s.ExitAlternateScreen()

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, util.EnterAlternateScreen))
	assert.Contains(t, out, util.ClearScreen+util.MoveCursorHome+"{")
	assert.True(t, strings.HasSuffix(out, util.ShowCursor+util.ExitAlternateScreen))
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, IsTerminal(&bytes.Buffer{}))
}
