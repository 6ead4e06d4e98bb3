// Package composer lays out several series on one shared time axis, reusing
// row artifacts whose inputs did not change.
package composer

import (
	"fmt"
	"strconv"

	"github.com/penwyp/go-wpt-filmstrip/internal/core/cache"
	"github.com/penwyp/go-wpt-filmstrip/internal/core/interval"
	"github.com/penwyp/go-wpt-filmstrip/internal/core/model"
	"github.com/penwyp/go-wpt-filmstrip/internal/core/timeline"
	"github.com/penwyp/go-wpt-filmstrip/internal/util"
)

// Series is what the composer needs from a timeline
type Series interface {
	ID() string
	Loaded() bool
	Events() []model.FrameEvent
	VisualCompleteMs() float64
	Revision() uint64
	Title() string
	SummaryURL() string
}

// Composition is the output of one pass
type Composition struct {
	Axis      *timeline.TimeAxis        `json:"axis,omitempty"`
	Interval  string                    `json:"interval"`
	Size      model.Size                `json:"size"`
	Labels    []string                  `json:"labels"`
	Rows      []*model.RowArtifact      `json:"rows"`
	Decisions map[string]cache.Decision `json:"decisions,omitempty"`
	Evicted   []string                  `json:"evicted,omitempty"`
	Skipped   []string                  `json:"skipped,omitempty"`
}

// Empty reports whether nothing is ready to display
func (c *Composition) Empty() bool {
	return c == nil || c.Axis == nil
}

type Composer struct {
	cache *cache.RenderCache
}

func New(rc *cache.RenderCache) *Composer {
	if rc == nil {
		rc = cache.NewRenderCache()
	}
	return &Composer{cache: rc}
}

// Cache exposes the render cache for dirty marking and detaching
func (c *Composer) Cache() *cache.RenderCache {
	return c.cache
}

// Compose runs one pass over active, in order. Series that are not loaded yet
// are skipped. Loaded series without frames widen the axis but add no row.
func (c *Composer) Compose(active []Series, spec interval.Spec) *Composition {
	comp := &Composition{
		Interval:  spec.String(),
		Decisions: make(map[string]cache.Decision),
	}

	loaded := make([]Series, 0, len(active))
	durations := make([]float64, 0, len(active))
	for _, s := range active {
		if !s.Loaded() {
			comp.Skipped = append(comp.Skipped, s.ID())
			continue
		}
		loaded = append(loaded, s)
		durations = append(durations, s.VisualCompleteMs())
	}

	c.cache.BeginPass()
	defer func() {
		comp.Evicted = c.cache.EndPass()
	}()

	if len(loaded) == 0 {
		return comp
	}

	axis, err := timeline.ComputeAxis(durations, spec)
	if err != nil {
		util.LogWarn(fmt.Sprintf("Composer: %v", err))
		return comp
	}
	comp.Axis = &axis
	comp.Labels = axis.Labels()

	for _, s := range loaded {
		events := s.Events()
		if len(events) == 0 {
			continue
		}
		key := cache.Key{
			Revision:         s.Revision(),
			VisualCompleteMs: s.VisualCompleteMs(),
			IntervalMs:       axis.IntervalMs,
			FrameCount:       axis.FrameCount,
		}
		entry, decision := c.cache.Resolve(s.ID(), key, len(comp.Rows), func() *model.RowArtifact {
			return buildRow(s, axis)
		})
		comp.Decisions[s.ID()] = decision
		comp.Rows = append(comp.Rows, entry.Artifact)
	}

	return comp
}

func buildRow(s Series, axis timeline.TimeAxis) *model.RowArtifact {
	samples := timeline.Resample(s.Events(), s.VisualCompleteMs(), axis.IntervalMs)
	cells := make([]model.FrameCell, len(samples))
	for i, sample := range samples {
		cells[i] = model.FrameCell{
			AxisIndex:       sample.AxisIndex,
			TimeMs:          sample.TimeMs,
			ImageURL:        sample.Event.ImageRef,
			CompletionPct:   sample.Event.CompletionPct,
			CompletionLabel: FormatPercent(sample.Event.CompletionPct),
		}
	}

	return &model.RowArtifact{
		SeriesID:   s.ID(),
		Title:      s.Title(),
		SummaryURL: s.SummaryURL(),
		Span:       axis.FrameCount,
		Frames:     cells,
	}
}

// FormatPercent prints a completion percentage the way the filmstrip labels it, e.g. "87%"
func FormatPercent(pct float64) string {
	return strconv.FormatFloat(pct, 'f', -1, 64) + "%"
}
