package timeline

import (
	"testing"

	"github.com/penwyp/go-wpt-filmstrip/internal/core/interval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeAxis(t *testing.T) {
	axis, err := ComputeAxis([]float64{300, 500}, interval.Tenth)

	require.NoError(t, err)
	assert.Equal(t, 100, axis.IntervalMs)
	assert.Equal(t, 7, axis.FrameCount)
	assert.Equal(t, 600.0, axis.TotalExtentMs)
}

func TestComputeAxisEmpty(t *testing.T) {
	_, err := ComputeAxis(nil, interval.Tenth)
	assert.ErrorIs(t, err, ErrEmptyAxis)
}

func TestComputeAxisClampsNegativeDurations(t *testing.T) {
	axis, err := ComputeAxis([]float64{-50}, interval.Second)

	require.NoError(t, err)
	assert.Equal(t, 1000.0, axis.TotalExtentMs)
	assert.Equal(t, 2, axis.FrameCount)
}

func TestAxisLabels(t *testing.T) {
	tests := []struct {
		name      string
		durations []float64
		spec      interval.Spec
		want      []string
	}{
		{"tenth", []float64{200}, interval.Tenth, []string{"0.0s", "0.1s", "0.2s", "0.3s"}},
		{"frame", []float64{20}, interval.Frame16ms, []string{"0.000s", "0.016s", "0.032s"}},
		{"half", []float64{1000}, interval.Half, []string{"0.0s", "0.5s", "1.0s", "1.5s"}},
		{"second", []float64{1500}, interval.Second, []string{"0s", "1s", "2s"}},
		{"five", []float64{4000}, interval.Five, []string{"0s", "5s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			axis, err := ComputeAxis(tt.durations, tt.spec)
			require.NoError(t, err)
			assert.Equal(t, tt.want, axis.Labels())
			assert.Len(t, axis.Labels(), axis.FrameCount)
		})
	}
}

func TestAxisRecomputeRefreshesPrecision(t *testing.T) {
	// Same frame count, different label precision.
	a, err := ComputeAxis([]float64{0}, interval.Tenth)
	require.NoError(t, err)
	b, err := ComputeAxis([]float64{0}, interval.Second)
	require.NoError(t, err)

	assert.Equal(t, a.FrameCount, b.FrameCount)
	assert.Equal(t, []string{"0.0s", "0.1s"}, a.Labels())
	assert.Equal(t, []string{"0s", "1s"}, b.Labels())
}
