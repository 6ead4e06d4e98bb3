package filmstrip

import (
	"context"

	"github.com/penwyp/go-wpt-filmstrip/internal/core/composer"
	"github.com/penwyp/go-wpt-filmstrip/internal/core/series"
	"github.com/penwyp/go-wpt-filmstrip/internal/data/source"
)

// Loader fetches timelines in the background
type Loader interface {
	// Load starts an asynchronous load whose outcome arrives on Results
	Load(ctx context.Context, req source.Request)
	// Results delivers finished loads
	Results() <-chan source.Result
}

// EventKind names what triggered a recompute pass
type EventKind string

const (
	EventSeriesAdded   EventKind = "series-added"
	EventSeriesRemoved EventKind = "series-removed"
	EventSeriesMoved   EventKind = "series-moved"
	EventSeriesLoaded  EventKind = "series-loaded"
	EventLoadFailed    EventKind = "load-failed"
	EventConfigChanged EventKind = "config-changed"
)

// Event is one external change
type Event struct {
	Kind     EventKind
	SeriesID string
	Err      error
	Pending  int // loads still in flight after the pass
}

// Listener is notified after every pass. Listeners run inside the pass and
// must not call back into the controller.
type Listener func(ev Event, comp *composer.Composition)

// SeriesInfo is a point-in-time copy of one series
type SeriesInfo struct {
	ID               string
	Title            string
	Source           string
	State            series.State
	Err              error
	Revision         uint64
	Loaded           bool
	VisualCompleteMs float64
}
