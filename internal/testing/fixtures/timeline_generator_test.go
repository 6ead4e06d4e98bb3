package fixtures

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-wpt-filmstrip/internal/data/parser"
)

func TestProgressiveParses(t *testing.T) {
	g := NewTimelineGenerator(t.TempDir())
	path, err := g.Progressive("run", "https://example.com/", 900, 3)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	tl, err := parser.NewParser().Parse(data, path)
	require.NoError(t, err)

	assert.Equal(t, 900.0, tl.VisualCompleteMs)
	require.Len(t, tl.Events, 4)
	assert.Equal(t, 300.0, tl.Events[1].TimestampMs)
	assert.Equal(t, 33.0, tl.Events[1].CompletionPct)
	assert.Equal(t, 100.0, tl.Events[3].CompletionPct)
	assert.Equal(t, "https://wpt.example/result/run/", tl.Summary)
}

func TestMalformedIsRejected(t *testing.T) {
	g := NewTimelineGenerator(t.TempDir())
	path, err := g.Malformed("bad")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	_, err = parser.NewParser().Parse(data, path)
	assert.ErrorIs(t, err, parser.ErrMalformedSeries)
}
