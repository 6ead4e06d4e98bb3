package timeline

import (
	"errors"

	"github.com/penwyp/go-wpt-filmstrip/internal/core/model"
)

// ErrEmptyAxis is returned when an axis is requested for zero series
var ErrEmptyAxis = errors.New("timeline: cannot build an axis without series")

// SampledFrame is the frame in effect at one axis point
type SampledFrame struct {
	AxisIndex int
	TimeMs    float64
	Event     model.FrameEvent
}

// TimeAxis is the sampling axis shared by every row of a composition
type TimeAxis struct {
	IntervalMs    int
	Precision     int
	FrameCount    int
	TotalExtentMs float64
}
