package timeline

import (
	"math"

	"github.com/penwyp/go-wpt-filmstrip/internal/core/model"
)

// SampleCount returns how many axis points cover [0, visualCompleteMs+intervalMs].
func SampleCount(visualCompleteMs float64, intervalMs int) int {
	if intervalMs <= 0 {
		return 0
	}
	if visualCompleteMs < 0 {
		visualCompleteMs = 0
	}
	step := float64(intervalMs)
	return int(math.Floor((visualCompleteMs+step)/step)) + 1
}

// Resample converts sparse frame events into one frame per axis point, carrying
// the last observed frame forward. events must be sorted by timestamp.
//
// At each point the cursor skips every event that is already superseded by a
// later event at or before that point, so duplicates at one timestamp resolve
// to the last of them. The first event is emitted for points before it.
func Resample(events []model.FrameEvent, visualCompleteMs float64, intervalMs int) []SampledFrame {
	if len(events) == 0 || intervalMs <= 0 {
		return nil
	}

	count := SampleCount(visualCompleteMs, intervalMs)
	frames := make([]SampledFrame, 0, count)

	cursor := 0
	for i := 0; i < count; i++ {
		t := float64(i * intervalMs)
		// inclusive: an event exactly on an axis point is shown at that point
		for cursor+1 < len(events) &&
			events[cursor].TimestampMs <= t &&
			events[cursor+1].TimestampMs <= t {
			cursor++
		}
		frames = append(frames, SampledFrame{
			AxisIndex: i,
			TimeMs:    t,
			Event:     events[cursor],
		})
	}

	return frames
}
