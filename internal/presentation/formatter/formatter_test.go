package formatter

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-wpt-filmstrip/internal/core/cache"
	"github.com/penwyp/go-wpt-filmstrip/internal/core/composer"
	"github.com/penwyp/go-wpt-filmstrip/internal/core/interval"
	"github.com/penwyp/go-wpt-filmstrip/internal/core/model"
	"github.com/penwyp/go-wpt-filmstrip/internal/core/timeline"
	"github.com/penwyp/go-wpt-filmstrip/internal/util"
)

func sampleComposition(frames int) *composer.Composition {
	labels := make([]string, frames)
	cells := make([]model.FrameCell, frames)
	for i := 0; i < frames; i++ {
		labels[i] = interval.Tenth.FormatSeconds(float64(i * 100))
		pct := float64(i * 100 / (frames - 1))
		image := "a.jpg"
		if i >= frames/2 {
			image = "b.jpg"
		}
		cells[i] = model.FrameCell{
			AxisIndex:       i,
			TimeMs:          float64(i * 100),
			ImageURL:        image,
			CompletionPct:   pct,
			CompletionLabel: composer.FormatPercent(pct),
		}
	}

	return &composer.Composition{
		Axis:     &timeline.TimeAxis{IntervalMs: 100, Precision: 1, FrameCount: frames, TotalExtentMs: float64((frames - 1) * 100)},
		Interval: "100ms",
		Size:     model.SizeMedium,
		Labels:   labels,
		Rows: []*model.RowArtifact{{
			SeriesID:   "s1",
			Title:      "https://example.com/",
			SummaryURL: "https://wpt.example/result/1",
			Span:       frames,
			Frames:     cells,
		}},
		Decisions: map[string]cache.Decision{"s1": cache.DecisionRebuilt},
		Skipped:   []string{"pending"},
	}
}

func TestNew(t *testing.T) {
	for _, name := range Names {
		f, err := New(name, 80)
		require.NoError(t, err, name)
		assert.NotNil(t, f)
	}

	f, err := New("", 80)
	require.NoError(t, err)
	assert.IsType(t, &TableFormatter{}, f)

	_, err = New("xml", 80)
	assert.Error(t, err)
}

func TestTableFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTableFormatter(80).Format(&buf, sampleComposition(5)))

	out := buf.String()
	assert.Contains(t, out, "Filmstrip: 5 frames every 100ms (medium)")
	assert.Contains(t, out, "https://exampl…")
	assert.Contains(t, out, "    *50%")
	assert.Contains(t, out, "    100%")
	assert.Contains(t, out, "https://wpt.example/result/1")
	assert.Contains(t, out, "Not loaded: pending")
}

func TestTableFormatterColor(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTableFormatter(80).WithColor(true).Format(&buf, sampleComposition(5)))
	assert.Contains(t, buf.String(), util.ColorYellow+"    *50%"+util.ColorReset)

	buf.Reset()
	require.NoError(t, NewTableFormatter(80).Format(&buf, sampleComposition(5)))
	assert.NotContains(t, buf.String(), util.ColorYellow)
}

func TestTableFormatterWrapsWideStrips(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTableFormatter(80).Format(&buf, sampleComposition(20)))

	// 8 columns fit next to the title gutter, so 20 frames need 3 blocks
	assert.Equal(t, 3, strings.Count(buf.String(), "https://exampl…"))
}

func TestTableFormatterEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTableFormatter(80).Format(&buf, &composer.Composition{}))
	assert.Equal(t, "No timelines loaded\n", buf.String())
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter().Format(&buf, sampleComposition(3)))

	var got map[string]interface{}
	require.NoError(t, sonic.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "100ms", got["interval"])
	assert.Equal(t, "medium", got["size"])
	assert.Equal(t, map[string]interface{}{"s1": "rebuilt"}, got["decisions"])

	rows := got["rows"].([]interface{})
	require.Len(t, rows, 1)
	row := rows[0].(map[string]interface{})
	assert.Equal(t, "s1", row["seriesId"])
	assert.Len(t, row["frames"], 3)
}

func TestCSVFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewCSVFormatter().Format(&buf, sampleComposition(3)))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, "Series", records[0][0])
	assert.Equal(t, []string{"s1", "https://example.com/", "1", "100", "0.1s", "b.jpg", "50%"}, records[2])
}

func TestCSVFormatterEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewCSVFormatter().Format(&buf, nil))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 1)
}
