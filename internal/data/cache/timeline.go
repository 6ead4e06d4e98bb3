// Package cache keeps parsed timelines of local files so that an unchanged
// file is not read and decoded again.
package cache

import (
	"fmt"
	"sync"

	"github.com/penwyp/go-wpt-filmstrip/internal/core/model"
	"github.com/penwyp/go-wpt-filmstrip/internal/util"
)

type MissReason int

const (
	MissReasonNone MissReason = iota
	MissReasonError
	MissReasonInode
	MissReasonSize
	MissReasonModTime
	MissReasonFingerprint
	MissReasonNotFound
)

func (r MissReason) String() string {
	switch r {
	case MissReasonNone:
		return "none"
	case MissReasonError:
		return "error"
	case MissReasonInode:
		return "inode"
	case MissReasonSize:
		return "size"
	case MissReasonModTime:
		return "modtime"
	case MissReasonFingerprint:
		return "fingerprint"
	case MissReasonNotFound:
		return "not-found"
	default:
		return "unknown"
	}
}

type Result struct {
	Timeline   *model.Timeline
	Found      bool
	MissReason MissReason
}

type Stats struct {
	Hits   int
	Misses int
}

type entry struct {
	timeline *model.Timeline
	stamp    Stamp
}

// TimelineCache maps a local path to the timeline parsed from it. Entries are
// validated against the file on every Get.
type TimelineCache struct {
	mu      sync.Mutex
	entries map[string]*entry
	stats   Stats
}

func NewTimelineCache() *TimelineCache {
	return &TimelineCache{
		entries: make(map[string]*entry),
	}
}

func (c *TimelineCache) Get(path string) Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[path]
	if !ok {
		c.stats.Misses++
		return Result{MissReason: MissReasonNotFound}
	}

	if reason := validate(path, e); reason != MissReasonNone {
		delete(c.entries, path)
		c.stats.Misses++
		util.LogDebug(fmt.Sprintf("Timeline cache invalidated for %s: %s changed", path, reason))
		return Result{MissReason: reason}
	}

	c.stats.Hits++
	return Result{Timeline: e.timeline, Found: true}
}

// Stamp identifies the version of a file a timeline was parsed from
type Stamp struct {
	info        util.FileInfo
	fingerprint string
}

// StampFile captures the current version of path. Take the stamp before
// reading the file so a concurrent rewrite invalidates the entry.
func StampFile(path string) (Stamp, error) {
	info, err := util.GetFileInfo(path)
	if err != nil {
		return Stamp{}, err
	}
	fingerprint, err := util.CalculateFileFingerprint(path)
	if err != nil {
		return Stamp{}, err
	}
	return Stamp{info: *info, fingerprint: fingerprint}, nil
}

// Set records tl as the content of path as it is on disk now
func (c *TimelineCache) Set(path string, tl *model.Timeline) error {
	stamp, err := StampFile(path)
	if err != nil {
		return err
	}
	c.Put(path, stamp, tl)
	return nil
}

// Put records tl as the content of path at stamp
func (c *TimelineCache) Put(path string, stamp Stamp, tl *model.Timeline) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[path] = &entry{timeline: tl, stamp: stamp}
}

func (c *TimelineCache) Invalidate(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, path)
}

func (c *TimelineCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *TimelineCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

func (c *TimelineCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*entry)
}

func validate(path string, e *entry) MissReason {
	current, err := util.GetFileInfo(path)
	if err != nil {
		return MissReasonError
	}

	// Step 1: Check inode/size/modtime
	if current.Inode != e.stamp.info.Inode {
		return MissReasonInode
	}
	if current.Size != e.stamp.info.Size {
		return MissReasonSize
	}
	if current.ModTime != e.stamp.info.ModTime {
		return MissReasonModTime
	}

	// Step 2: Same metadata can still hide a rewrite within the clock resolution
	fingerprint, err := util.CalculateFileFingerprint(path)
	if err != nil {
		return MissReasonError
	}
	if fingerprint != e.stamp.fingerprint {
		return MissReasonFingerprint
	}
	return MissReasonNone
}
