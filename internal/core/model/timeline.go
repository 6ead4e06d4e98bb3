package model

// FrameEvent is one captured frame of a timeline.
type FrameEvent struct {
	TimestampMs   float64 `json:"timestampMs"`
	ImageRef      string  `json:"imageRef"`
	CompletionPct float64 `json:"completionPct"`
}

// Timeline is a decoded and normalized timeline document.
// Events are sorted by TimestampMs; equal timestamps keep document order.
type Timeline struct {
	Source           string
	URL              string
	Summary          string
	VisualCompleteMs float64
	Events           []FrameEvent
}

// TimelineDocument mirrors the JSON layout of a timeline file
type TimelineDocument struct {
	URL             string           `json:"url"`
	Summary         string           `json:"summary"`
	VisualComplete  *float64         `json:"visualComplete"`
	FilmstripFrames *[]FrameDocument `json:"filmstripFrames"`
}

// FrameDocument is one entry of filmstripFrames
type FrameDocument struct {
	Time             float64 `json:"time"`
	Image            string  `json:"image"`
	VisuallyComplete float64 `json:"VisuallyComplete"`
}
