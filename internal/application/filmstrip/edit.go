package filmstrip

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/penwyp/go-wpt-filmstrip/internal/core/series"
)

// Edit batches membership changes into one pass. A series removed and
// inserted again within the same edit keeps its rendered row.
type Edit struct {
	order   []*series.Series
	removed map[string]*series.Series // out of the order right now
	touched map[string]bool           // removed at least once
	err     error
}

// Remove takes a series out of the order
func (e *Edit) Remove(id string) {
	if e.err != nil {
		return
	}
	for i, s := range e.order {
		if s.ID() == id {
			e.order = append(e.order[:i:i], e.order[i+1:]...)
			e.removed[id] = s
			e.touched[id] = true
			return
		}
	}
	e.err = fmt.Errorf("series %q is not in the filmstrip", id)
}

// Insert puts a series removed earlier in this edit back at index.
// Out of range indexes clamp to the ends.
func (e *Edit) Insert(index int, id string) {
	if e.err != nil {
		return
	}
	s, ok := e.removed[id]
	if !ok {
		e.err = fmt.Errorf("series %q was not removed in this edit", id)
		return
	}
	delete(e.removed, id)

	if index < 0 {
		index = 0
	}
	if index > len(e.order) {
		index = len(e.order)
	}
	next := make([]*series.Series, 0, len(e.order)+1)
	next = append(next, e.order[:index]...)
	next = append(next, s)
	next = append(next, e.order[index:]...)
	e.order = next
}

// Update applies fn as one batch and runs a single pass. Nothing changes if
// fn records an error.
func (c *Controller) Update(fn func(e *Edit)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := &Edit{
		order:   append([]*series.Series(nil), c.order...),
		removed: make(map[string]*series.Series),
		touched: make(map[string]bool),
	}
	fn(e)
	if e.err != nil {
		return e.err
	}
	if len(e.touched) == 0 {
		return nil
	}

	for id := range e.touched {
		if _, gone := e.removed[id]; gone {
			delete(c.byID, id)
			continue
		}
		c.composer.Cache().Detach(id)
	}
	c.order = e.order

	kind := EventSeriesMoved
	if len(e.removed) > 0 {
		kind = EventSeriesRemoved
	}
	c.recompute(Event{Kind: kind})
	return nil
}

func newSeriesID() string {
	return uuid.NewString()
}
