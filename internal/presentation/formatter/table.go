package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/penwyp/go-wpt-filmstrip/internal/core/composer"
	"github.com/penwyp/go-wpt-filmstrip/internal/core/model"
	"github.com/penwyp/go-wpt-filmstrip/internal/presentation/layout"
	"github.com/penwyp/go-wpt-filmstrip/internal/util"
)

const (
	gutterWidth = 16
	changeMark  = "*"
)

// TableFormatter prints the filmstrip as a text grid: one column per axis
// point, one line per series. Wide strips wrap into blocks that fit the width.
type TableFormatter struct {
	sizer *layout.Sizer
	color bool
}

func NewTableFormatter(width int) *TableFormatter {
	return &TableFormatter{sizer: layout.NewSizer(width)}
}

// WithColor highlights frames that changed visually
func (f *TableFormatter) WithColor(enabled bool) *TableFormatter {
	f.color = enabled
	return f
}

func (f *TableFormatter) Format(w io.Writer, c *composer.Composition) error {
	if c.Empty() {
		_, err := fmt.Fprintln(w, "No timelines loaded")
		return err
	}

	cellWidth := c.Size.CellWidth()
	columns := f.sizer.Columns(gutterWidth, cellWidth)

	if _, err := fmt.Fprintf(w, "Filmstrip: %d frames every %s (%s)\n",
		c.Axis.FrameCount, c.Interval, c.Size); err != nil {
		return err
	}

	for start := 0; start < len(c.Labels); start += columns {
		end := start + columns
		if end > len(c.Labels) {
			end = len(c.Labels)
		}

		var b strings.Builder
		b.WriteString("\n")
		b.WriteString(f.sizer.PadString("", gutterWidth, true))
		for _, label := range c.Labels[start:end] {
			b.WriteString(util.Colorize(f.sizer.Fit(label, cellWidth, false), util.ColorBold, f.color))
		}
		b.WriteString("\n")

		for _, row := range c.Rows {
			b.WriteString(f.sizer.Fit(row.Title, gutterWidth-1, true))
			b.WriteString(" ")
			for i := start; i < end; i++ {
				text, changed := cellText(row, i)
				cell := f.sizer.Fit(text, cellWidth, false)
				if changed {
					cell = util.Colorize(cell, util.ColorYellow, f.color)
				}
				b.WriteString(cell)
			}
			b.WriteString("\n")
		}

		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
	}

	return f.writeFooter(w, c)
}

func (f *TableFormatter) writeFooter(w io.Writer, c *composer.Composition) error {
	var b strings.Builder
	b.WriteString("\n")
	for _, row := range c.Rows {
		if row.SummaryURL != "" {
			fmt.Fprintf(&b, "%s: %s\n", row.Title, row.SummaryURL)
		}
	}
	if len(c.Skipped) > 0 {
		fmt.Fprintf(&b, "Not loaded: %s\n", strings.Join(c.Skipped, ", "))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// cellText is the completion label at axis index i, marked when the frame
// differs from the previous one. Axis points past the row's own frames are blank.
func cellText(row *model.RowArtifact, i int) (string, bool) {
	if i >= len(row.Frames) {
		return "", false
	}
	cell := row.Frames[i]
	if i > 0 && cell.ImageURL != row.Frames[i-1].ImageURL {
		return changeMark + cell.CompletionLabel, true
	}
	return cell.CompletionLabel, false
}
