package model

// RowArtifact is the rendered row group for one series: a header carrying the
// row title and a filmstrip row with one cell per sampled frame.
type RowArtifact struct {
	SeriesID   string      `json:"seriesId"`
	Title      string      `json:"title"`
	SummaryURL string      `json:"summaryUrl,omitempty"`
	Span       int         `json:"span"`
	Frames     []FrameCell `json:"frames"`
}

// FrameCell is one sampled frame ready to be painted
type FrameCell struct {
	AxisIndex       int     `json:"axisIndex"`
	TimeMs          float64 `json:"timeMs"`
	ImageURL        string  `json:"imageUrl"`
	CompletionPct   float64 `json:"completionPct"`
	CompletionLabel string  `json:"completionLabel"`
}
