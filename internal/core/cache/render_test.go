package cache

import (
	"testing"

	"github.com/penwyp/go-wpt-filmstrip/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// builder counts how often it is asked for a new artifact
type builder struct {
	calls int
}

func (b *builder) build(id string) BuildFunc {
	return func() *model.RowArtifact {
		b.calls++
		return &model.RowArtifact{SeriesID: id}
	}
}

func key(rev uint64) Key {
	return Key{Revision: rev, VisualCompleteMs: 600, IntervalMs: 100, FrameCount: 8}
}

func TestResolveBuildsOnFirstUse(t *testing.T) {
	rc := NewRenderCache()
	b := &builder{}

	rc.BeginPass()
	entry, decision := rc.Resolve("s1", key(1), 0, b.build("s1"))
	rc.EndPass()

	assert.Equal(t, DecisionRebuilt, decision)
	assert.Equal(t, 1, b.calls)
	assert.Equal(t, 1, entry.Builds)
	assert.True(t, entry.Attached)
	assert.False(t, entry.IsDirty)
	assert.Equal(t, "s1", entry.Artifact.SeriesID)
}

func TestResolveUnchangedDoesNothing(t *testing.T) {
	rc := NewRenderCache()
	b := &builder{}

	rc.BeginPass()
	first, _ := rc.Resolve("s1", key(1), 0, b.build("s1"))
	rc.EndPass()

	rc.BeginPass()
	second, decision := rc.Resolve("s1", key(1), 0, b.build("s1"))
	rc.EndPass()

	assert.Equal(t, DecisionUnchanged, decision)
	assert.Same(t, first.Artifact, second.Artifact)
	assert.Equal(t, 1, b.calls)
	assert.Equal(t, 1, rc.Stats().Unchanged)
}

func TestResolveRelocatesWithoutRebuild(t *testing.T) {
	rc := NewRenderCache()
	b := &builder{}

	rc.BeginPass()
	rc.Resolve("s1", key(1), 0, b.build("s1"))
	rc.Resolve("s2", key(1), 1, b.build("s2"))
	rc.EndPass()

	rc.BeginPass()
	_, d2 := rc.Resolve("s2", key(1), 0, b.build("s2"))
	e1, d1 := rc.Resolve("s1", key(1), 1, b.build("s1"))
	rc.EndPass()

	assert.Equal(t, DecisionRelocated, d1)
	assert.Equal(t, DecisionRelocated, d2)
	assert.Equal(t, 1, e1.Position)
	assert.Equal(t, 2, b.calls)
}

func TestResolveRebuildsOnKeyChange(t *testing.T) {
	tests := []struct {
		name string
		next Key
	}{
		{"revision", Key{Revision: 2, VisualCompleteMs: 600, IntervalMs: 100, FrameCount: 8}},
		{"duration", Key{Revision: 1, VisualCompleteMs: 700, IntervalMs: 100, FrameCount: 8}},
		{"interval", Key{Revision: 1, VisualCompleteMs: 600, IntervalMs: 500, FrameCount: 8}},
		{"frame count", Key{Revision: 1, VisualCompleteMs: 600, IntervalMs: 100, FrameCount: 9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rc := NewRenderCache()
			b := &builder{}

			rc.BeginPass()
			rc.Resolve("s1", key(1), 0, b.build("s1"))
			rc.EndPass()

			rc.BeginPass()
			entry, decision := rc.Resolve("s1", tt.next, 0, b.build("s1"))
			rc.EndPass()

			assert.Equal(t, DecisionRebuilt, decision)
			assert.Equal(t, 2, entry.Builds)
			assert.Equal(t, tt.next, entry.Key)
		})
	}
}

func TestMarkDirtyForcesRebuild(t *testing.T) {
	rc := NewRenderCache()
	b := &builder{}

	rc.BeginPass()
	rc.Resolve("s1", key(1), 0, b.build("s1"))
	rc.EndPass()

	rc.MarkDirty("s1")
	entry, ok := rc.Get("s1")
	require.True(t, ok)
	assert.True(t, entry.IsDirty)

	rc.BeginPass()
	entry, decision := rc.Resolve("s1", key(1), 0, b.build("s1"))
	rc.EndPass()

	assert.Equal(t, DecisionRebuilt, decision)
	assert.False(t, entry.IsDirty)
	assert.Equal(t, 2, b.calls)

	// unknown ids are ignored
	rc.MarkDirty("missing")
	rc.Detach("missing")
}

func TestDetachThenResolveReattaches(t *testing.T) {
	rc := NewRenderCache()
	b := &builder{}

	rc.BeginPass()
	first, _ := rc.Resolve("s1", key(1), 0, b.build("s1"))
	rc.Resolve("s2", key(1), 1, b.build("s2"))
	rc.EndPass()

	rc.Detach("s1")
	entry, _ := rc.Get("s1")
	assert.False(t, entry.Attached)

	rc.BeginPass()
	rc.Resolve("s2", key(1), 0, b.build("s2"))
	again, decision := rc.Resolve("s1", key(1), 1, b.build("s1"))
	rc.EndPass()

	assert.Equal(t, DecisionReattached, decision)
	assert.Same(t, first.Artifact, again.Artifact)
	assert.True(t, again.Attached)
	assert.Equal(t, 1, again.Position)
	assert.Equal(t, 2, b.calls)
	assert.Equal(t, 1, rc.Stats().Reattaches)
}

func TestEndPassEvictsUnresolvedEntries(t *testing.T) {
	rc := NewRenderCache()
	b := &builder{}

	rc.BeginPass()
	rc.Resolve("s1", key(1), 0, b.build("s1"))
	rc.Resolve("s2", key(1), 1, b.build("s2"))
	assert.Empty(t, rc.EndPass())

	rc.Detach("s2")
	rc.BeginPass()
	rc.Resolve("s1", key(1), 0, b.build("s1"))
	evicted := rc.EndPass()

	assert.Equal(t, []string{"s2"}, evicted)
	assert.Equal(t, 1, rc.Len())
	_, ok := rc.Get("s2")
	assert.False(t, ok)
	assert.Equal(t, 1, rc.Stats().Evictions)

	// a returning series starts from scratch
	rc.BeginPass()
	_, decision := rc.Resolve("s2", key(1), 1, b.build("s2"))
	rc.EndPass()
	assert.Equal(t, DecisionRebuilt, decision)
}

func TestGetReturnsCopy(t *testing.T) {
	rc := NewRenderCache()
	b := &builder{}

	rc.BeginPass()
	rc.Resolve("s1", key(1), 0, b.build("s1"))
	rc.EndPass()

	entry, ok := rc.Get("s1")
	require.True(t, ok)
	entry.IsDirty = true
	entry.Attached = false
	entry.Position = 5

	rc.BeginPass()
	_, decision := rc.Resolve("s1", key(1), 0, b.build("s1"))
	rc.EndPass()

	assert.Equal(t, DecisionUnchanged, decision)
	assert.Equal(t, 1, b.calls)

	_, ok = rc.Get("missing")
	assert.False(t, ok)
}

func TestClear(t *testing.T) {
	rc := NewRenderCache()
	b := &builder{}

	rc.BeginPass()
	rc.Resolve("s1", key(1), 0, b.build("s1"))
	rc.EndPass()

	rc.Clear()
	assert.Equal(t, 0, rc.Len())
}

func TestDecisionString(t *testing.T) {
	assert.Equal(t, "rebuilt", DecisionRebuilt.String())
	assert.Equal(t, "reattached", DecisionReattached.String())
	assert.Equal(t, "relocated", DecisionRelocated.String())
	assert.Equal(t, "unchanged", DecisionUnchanged.String())
	assert.Equal(t, "unknown", Decision(42).String())

	text, err := DecisionRebuilt.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "rebuilt", string(text))
}
