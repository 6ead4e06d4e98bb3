// Package series tracks one timeline source and the frames loaded from it.
package series

import (
	"github.com/penwyp/go-wpt-filmstrip/internal/core/model"
)

// State is the load state of a series
type State int

const (
	StateEmpty State = iota
	StateLoading
	StateLoaded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Ticket identifies one load request. Only the latest ticket of a series is
// accepted on completion.
type Ticket struct {
	Seq     uint64
	Locator string
}

// Series owns one timeline. Its data is only ever replaced as a whole, and each
// replacement bumps Revision.
type Series struct {
	id       string
	label    string
	source   string
	state    State
	timeline *model.Timeline
	revision uint64
	seq      uint64
	err      error
}

func New(id, label string) *Series {
	return &Series{id: id, label: label}
}

// RequestSource points the series at a new source. It returns false when the
// locator is empty or already current, in which case nothing needs loading.
// Data from the previous source stays visible until the new load completes.
func (s *Series) RequestSource(locator string) bool {
	if locator == "" || locator == s.source {
		return false
	}
	s.source = locator
	s.state = StateLoading
	s.err = nil
	s.seq++
	return true
}

// Reload re-requests the current source, e.g. after the file changed on disk
func (s *Series) Reload() bool {
	if s.source == "" {
		return false
	}
	s.state = StateLoading
	s.err = nil
	s.seq++
	return true
}

// Ticket is the request the next Complete must answer
func (s *Series) Ticket() Ticket {
	return Ticket{Seq: s.seq, Locator: s.source}
}

// Complete applies a finished load. Results for a superseded request are
// ignored and false is returned.
func (s *Series) Complete(t Ticket, tl *model.Timeline, err error) bool {
	if t != s.Ticket() || s.state != StateLoading {
		return false
	}
	if err != nil {
		s.state = StateFailed
		s.timeline = nil
		s.err = err
		return true
	}
	s.state = StateLoaded
	s.timeline = tl
	s.err = nil
	s.revision++
	return true
}

// SetLabel changes the display label and reports whether it changed
func (s *Series) SetLabel(label string) bool {
	if label == s.label {
		return false
	}
	s.label = label
	return true
}

func (s *Series) ID() string       { return s.id }
func (s *Series) Source() string   { return s.source }
func (s *Series) State() State     { return s.state }
func (s *Series) Err() error       { return s.err }
func (s *Series) Revision() uint64 { return s.revision }
func (s *Series) Label() string    { return s.label }

// Loaded reports whether the series has data to compose. A series that is
// reloading keeps reporting its previous data.
func (s *Series) Loaded() bool {
	return s.timeline != nil
}

// Events returns the sorted frame events, nil until loaded
func (s *Series) Events() []model.FrameEvent {
	if s.timeline == nil {
		return nil
	}
	return s.timeline.Events
}

func (s *Series) VisualCompleteMs() float64 {
	if s.timeline == nil {
		return 0
	}
	return s.timeline.VisualCompleteMs
}

// Title is the label if set, otherwise the tested page URL
func (s *Series) Title() string {
	if s.label != "" {
		return s.label
	}
	if s.timeline != nil && s.timeline.URL != "" {
		return s.timeline.URL
	}
	return s.source
}

func (s *Series) SummaryURL() string {
	if s.timeline == nil {
		return ""
	}
	return s.timeline.Summary
}
