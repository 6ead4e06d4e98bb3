package cache

import (
	"fmt"
	"sync"

	"github.com/penwyp/go-wpt-filmstrip/internal/core/model"
	"github.com/penwyp/go-wpt-filmstrip/internal/util"
)

// Key is everything a row artifact is derived from. Two equal keys produce the
// same artifact.
type Key struct {
	Revision         uint64
	VisualCompleteMs float64
	IntervalMs       int
	FrameCount       int
}

// Decision reports what Resolve did with an entry
type Decision int

const (
	DecisionUnchanged Decision = iota
	DecisionRelocated
	DecisionReattached
	DecisionRebuilt
)

func (d Decision) String() string {
	switch d {
	case DecisionUnchanged:
		return "unchanged"
	case DecisionRelocated:
		return "relocated"
	case DecisionReattached:
		return "reattached"
	case DecisionRebuilt:
		return "rebuilt"
	default:
		return "unknown"
	}
}

// MarshalText lets decisions print by name in JSON output
func (d Decision) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Entry is the current build of one series
type Entry struct {
	Key      Key
	Artifact *model.RowArtifact
	Position int
	IsDirty  bool // forces a rebuild on next resolve
	Attached bool // present in the current output
	Builds   int

	pass uint64 // last pass that resolved this entry
}

// Stats counts cache outcomes since creation
type Stats struct {
	Builds      int
	Unchanged   int
	Relocations int
	Reattaches  int
	Evictions   int
}

// BuildFunc produces a fresh artifact for a series
type BuildFunc func() *model.RowArtifact

// RenderCache remembers the current artifact of each series, not a history of
// builds. An entry survives only while its series keeps being resolved.
type RenderCache struct {
	mu      sync.RWMutex
	entries map[string]*Entry
	pass    uint64
	stats   Stats
}

func NewRenderCache() *RenderCache {
	return &RenderCache{
		entries: make(map[string]*Entry),
	}
}

// BeginPass starts a composition pass. Entries not resolved before EndPass are evicted.
func (rc *RenderCache) BeginPass() {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.pass++
}

// Resolve returns a copy of the entry for seriesID at position, rebuilding only
// when the key changed or the entry was marked dirty.
func (rc *RenderCache) Resolve(seriesID string, key Key, position int, build BuildFunc) (Entry, Decision) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	entry, ok := rc.entries[seriesID]
	if !ok || entry.IsDirty || entry.Key != key {
		if !ok {
			entry = &Entry{}
			rc.entries[seriesID] = entry
		}
		entry.Artifact = build()
		entry.Key = key
		entry.Position = position
		entry.Attached = true
		entry.IsDirty = false
		entry.Builds++
		entry.pass = rc.pass
		rc.stats.Builds++
		util.LogDebugf("RenderCache: rebuilt %s (build #%d)", seriesID, entry.Builds)
		return *entry, DecisionRebuilt
	}

	entry.pass = rc.pass

	if !entry.Attached {
		entry.Attached = true
		entry.Position = position
		rc.stats.Reattaches++
		util.LogDebugf("RenderCache: reattached %s at %d", seriesID, position)
		return *entry, DecisionReattached
	}

	if entry.Position != position {
		entry.Position = position
		rc.stats.Relocations++
		return *entry, DecisionRelocated
	}

	rc.stats.Unchanged++
	return *entry, DecisionUnchanged
}

// Detach marks the entry as removed from the output while keeping its artifact
// for reuse if the series comes back before the pass ends.
func (rc *RenderCache) Detach(seriesID string) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	if entry, ok := rc.entries[seriesID]; ok {
		entry.Attached = false
	}
}

// MarkDirty forces the next Resolve for seriesID to rebuild
func (rc *RenderCache) MarkDirty(seriesID string) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	if entry, ok := rc.entries[seriesID]; ok {
		entry.IsDirty = true
	}
}

// EndPass evicts every entry that was not resolved in the current pass and
// returns the evicted series ids.
func (rc *RenderCache) EndPass() []string {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	var evicted []string
	for id, entry := range rc.entries {
		if entry.pass != rc.pass {
			delete(rc.entries, id)
			evicted = append(evicted, id)
		}
	}
	rc.stats.Evictions += len(evicted)

	if len(evicted) > 0 {
		util.LogDebug(fmt.Sprintf("RenderCache: evicted %d entries %v", len(evicted), evicted))
	}
	return evicted
}

// Get returns a copy of the entry for seriesID
func (rc *RenderCache) Get(seriesID string) (Entry, bool) {
	rc.mu.RLock()
	defer rc.mu.RUnlock()

	entry, ok := rc.entries[seriesID]
	if !ok {
		return Entry{}, false
	}
	return *entry, true
}

func (rc *RenderCache) Len() int {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	return len(rc.entries)
}

func (rc *RenderCache) Stats() Stats {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	return rc.stats
}

// Clear drops every entry
func (rc *RenderCache) Clear() {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	rc.entries = make(map[string]*Entry)
	util.LogInfo("RenderCache: cleared")
}
