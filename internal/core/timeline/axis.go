package timeline

import (
	"math"

	"github.com/penwyp/go-wpt-filmstrip/internal/core/interval"
)

// ComputeAxis builds the shared axis for a set of series durations. The extent
// runs one interval past the longest duration so its last frame is never cut off.
func ComputeAxis(durations []float64, spec interval.Spec) (TimeAxis, error) {
	if len(durations) == 0 {
		return TimeAxis{}, ErrEmptyAxis
	}

	longest := 0.0
	for _, d := range durations {
		longest = math.Max(longest, d)
	}

	extent := longest + float64(spec.Ms)
	return TimeAxis{
		IntervalMs:    spec.Ms,
		Precision:     spec.Precision,
		FrameCount:    int(math.Floor(extent/float64(spec.Ms))) + 1,
		TotalExtentMs: extent,
	}, nil
}

// Spec returns the interval the axis was computed for
func (a TimeAxis) Spec() interval.Spec {
	return interval.Spec{Ms: a.IntervalMs, Precision: a.Precision}
}

// Labels returns one seconds label per axis point, e.g. "0.0s", "0.1s", ...
func (a TimeAxis) Labels() []string {
	spec := a.Spec()
	labels := make([]string, a.FrameCount)
	for i := range labels {
		labels[i] = spec.FormatSeconds(float64(i * a.IntervalMs))
	}
	return labels
}
