package formatter

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/penwyp/go-wpt-filmstrip/internal/core/composer"
)

type CSVFormatter struct{}

func NewCSVFormatter() *CSVFormatter {
	return &CSVFormatter{}
}

// Format writes one record per sampled frame
func (f *CSVFormatter) Format(w io.Writer, c *composer.Composition) error {
	cw := csv.NewWriter(w)

	headers := []string{
		"Series", "Title", "Index", "Time (ms)", "Label", "Image", "Visually Complete",
	}
	if err := cw.Write(headers); err != nil {
		return err
	}

	if !c.Empty() {
		for _, row := range c.Rows {
			for _, cell := range row.Frames {
				label := ""
				if cell.AxisIndex < len(c.Labels) {
					label = c.Labels[cell.AxisIndex]
				}
				record := []string{
					row.SeriesID,
					row.Title,
					strconv.Itoa(cell.AxisIndex),
					strconv.FormatFloat(cell.TimeMs, 'f', -1, 64),
					label,
					cell.ImageURL,
					cell.CompletionLabel,
				}
				if err := cw.Write(record); err != nil {
					return err
				}
			}
		}
	}

	cw.Flush()
	return cw.Error()
}
