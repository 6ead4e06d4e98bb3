package filmstrip

import (
	"context"
	"fmt"
	"sync"

	"github.com/penwyp/go-wpt-filmstrip/internal/core/cache"
	"github.com/penwyp/go-wpt-filmstrip/internal/core/composer"
	"github.com/penwyp/go-wpt-filmstrip/internal/core/interval"
	"github.com/penwyp/go-wpt-filmstrip/internal/core/model"
	"github.com/penwyp/go-wpt-filmstrip/internal/core/series"
	"github.com/penwyp/go-wpt-filmstrip/internal/data/source"
	"github.com/penwyp/go-wpt-filmstrip/internal/util"
)

// Controller owns the ordered set of series shown in one filmstrip. Every
// change runs exactly one recompute pass; passes never overlap.
type Controller struct {
	mu sync.Mutex

	config *Config
	spec   interval.Spec
	size   model.Size

	order []*series.Series
	byID  map[string]*series.Series

	composer  *composer.Composer
	loader    Loader
	listeners []Listener
	last      *composer.Composition
	passes    int

	ctx    context.Context
	cancel context.CancelFunc
}

// NewController creates a controller for cfg. Configured sources are
// registered but not loaded until Start.
func NewController(cfg *Config, loader Loader) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		config:   cfg,
		spec:     interval.Parse(cfg.Interval),
		size:     model.ParseSize(cfg.Size),
		byID:     make(map[string]*series.Series),
		composer: composer.New(cache.NewRenderCache()),
		loader:   loader,
		ctx:      ctx,
		cancel:   cancel,
	}

	for _, sc := range cfg.Sources {
		s := series.New(sc.ID, sc.Label)
		s.RequestSource(sc.Source)
		c.order = append(c.order, s)
		c.byID[sc.ID] = s
	}

	return c, nil
}

// Subscribe registers a listener for every following pass
func (c *Controller) Subscribe(l Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, l)
}

// Start loads the configured sources and runs the first pass
func (c *Controller) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, s := range c.order {
		if s.State() == series.StateLoading {
			c.load(s)
		}
	}
	c.recompute(Event{Kind: EventConfigChanged})
}

// Run applies load results until ctx ends or the loader closes its results
func (c *Controller) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case res, ok := <-c.loader.Results():
			if !ok {
				return nil
			}
			c.Apply(res)
		}
	}
}

// Apply hands a finished load to its series. Results for removed series or
// superseded sources are dropped without a pass.
func (c *Controller) Apply(res source.Result) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.byID[res.SeriesID]
	if !ok {
		util.LogDebug(fmt.Sprintf("Dropping load result for removed series %s", res.SeriesID))
		return false
	}
	if !s.Complete(series.Ticket{Seq: res.Seq, Locator: res.Locator}, res.Timeline, res.Err) {
		util.LogDebug(fmt.Sprintf("Dropping stale load result %s for series %s", res.Locator, res.SeriesID))
		return false
	}

	if res.Err != nil {
		util.LogWarn("Timeline load failed", util.F("series", res.SeriesID), util.F("source", res.Locator), util.F("error", res.Err))
		c.recompute(Event{Kind: EventLoadFailed, SeriesID: res.SeriesID, Err: res.Err})
		return true
	}

	c.recompute(Event{Kind: EventSeriesLoaded, SeriesID: res.SeriesID})
	return true
}

// AddSeries appends a series and starts loading its source
func (c *Controller) AddSeries(sc SourceConfig) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if sc.ID == "" {
		sc.ID = newSeriesID()
	}
	if _, exists := c.byID[sc.ID]; exists {
		return "", fmt.Errorf("series %q already exists", sc.ID)
	}

	s := series.New(sc.ID, sc.Label)
	c.order = append(c.order, s)
	c.byID[sc.ID] = s
	if s.RequestSource(sc.Source) {
		c.load(s)
	}

	c.recompute(Event{Kind: EventSeriesAdded, SeriesID: sc.ID})
	return sc.ID, nil
}

// RemoveSeries drops a series; its artifact is evicted by the pass
func (c *Controller) RemoveSeries(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexOf(id)
	if idx < 0 {
		return false
	}
	c.order = append(c.order[:idx:idx], c.order[idx+1:]...)
	delete(c.byID, id)

	c.recompute(Event{Kind: EventSeriesRemoved, SeriesID: id})
	return true
}

// Move takes a series out and puts it back at index in a single pass. Its
// artifact is detached and reattached, never rebuilt.
func (c *Controller) Move(id string, index int) error {
	return c.Update(func(e *Edit) {
		e.Remove(id)
		e.Insert(index, id)
	})
}

// SetOrder reorders the series. ids must name every current series once.
func (c *Controller) SetOrder(ids []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(ids) != len(c.order) {
		return fmt.Errorf("order has %d series, want %d", len(ids), len(c.order))
	}
	next := make([]*series.Series, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		s, ok := c.byID[id]
		if !ok || seen[id] {
			return fmt.Errorf("invalid series %q in order", id)
		}
		seen[id] = true
		next = append(next, s)
	}
	c.order = next

	c.recompute(Event{Kind: EventSeriesMoved})
	return nil
}

// SetSource points a series at a new source. The same source is a no-op.
func (c *Controller) SetSource(id, locator string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.byID[id]
	if !ok || !s.RequestSource(locator) {
		return false
	}
	c.load(s)

	c.recompute(Event{Kind: EventConfigChanged, SeriesID: id})
	return true
}

// Refresh reloads a series' current source, e.g. after its file changed
func (c *Controller) Refresh(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.byID[id]
	if !ok || !s.Reload() {
		return false
	}
	c.load(s)
	return true
}

// RefreshSource reloads every series showing locator and returns their ids
func (c *Controller) RefreshSource(locator string) []string {
	c.mu.Lock()
	var ids []string
	for _, s := range c.order {
		if source.SameSource(s.Source(), locator) {
			ids = append(ids, s.ID())
		}
	}
	c.mu.Unlock()

	for _, id := range ids {
		c.Refresh(id)
	}
	return ids
}

// SetLabel changes a row title and rebuilds only that row
func (c *Controller) SetLabel(id, label string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.byID[id]
	if !ok || !s.SetLabel(label) {
		return false
	}
	c.composer.Cache().MarkDirty(id)

	c.recompute(Event{Kind: EventConfigChanged, SeriesID: id})
	return true
}

// SetInterval switches the sampling interval; unknown values select 100ms
func (c *Controller) SetInterval(raw string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	spec := interval.Parse(raw)
	if spec == c.spec {
		return false
	}
	c.spec = spec
	c.config.Interval = spec.String()

	c.recompute(Event{Kind: EventConfigChanged})
	return true
}

// SetSize changes the display-density hint. Sampling is unaffected.
func (c *Controller) SetSize(raw string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	size := model.ParseSize(raw)
	if size == c.size {
		return false
	}
	c.size = size
	c.config.Size = string(size)

	c.recompute(Event{Kind: EventConfigChanged})
	return true
}

// Composition returns the result of the latest pass
func (c *Controller) Composition() *composer.Composition {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

// Pending counts series whose load has not finished
func (c *Controller) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending()
}

// SeriesIDs returns the current order
func (c *Controller) SeriesIDs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	ids := make([]string, len(c.order))
	for i, s := range c.order {
		ids[i] = s.ID()
	}
	return ids
}

// Snapshot copies the state of every series, in order
func (c *Controller) Snapshot() []SeriesInfo {
	c.mu.Lock()
	defer c.mu.Unlock()

	infos := make([]SeriesInfo, len(c.order))
	for i, s := range c.order {
		infos[i] = SeriesInfo{
			ID:               s.ID(),
			Title:            s.Title(),
			Source:           s.Source(),
			State:            s.State(),
			Err:              s.Err(),
			Revision:         s.Revision(),
			Loaded:           s.Loaded(),
			VisualCompleteMs: s.VisualCompleteMs(),
		}
	}
	return infos
}

// Series returns a series by id. Its fields are only stable while no pass runs;
// use Snapshot from other goroutines.
func (c *Controller) Series(id string) (*series.Series, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.byID[id]
	return s, ok
}

func (c *Controller) Passes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.passes
}

func (c *Controller) CacheStats() cache.Stats {
	return c.composer.Cache().Stats()
}

// Close abandons in-flight loads
func (c *Controller) Close() {
	c.cancel()
}

// load requests the series' current ticket. Callers hold c.mu.
func (c *Controller) load(s *series.Series) {
	t := s.Ticket()
	c.loader.Load(c.ctx, source.Request{SeriesID: s.ID(), Locator: t.Locator, Seq: t.Seq})
}

func (c *Controller) pending() int {
	n := 0
	for _, s := range c.order {
		if s.State() == series.StateLoading {
			n++
		}
	}
	return n
}

func (c *Controller) indexOf(id string) int {
	for i, s := range c.order {
		if s.ID() == id {
			return i
		}
	}
	return -1
}

// recompute runs one pass. Callers hold c.mu.
func (c *Controller) recompute(ev Event) {
	active := make([]composer.Series, len(c.order))
	for i, s := range c.order {
		active[i] = s
	}

	comp := c.composer.Compose(active, c.spec)
	comp.Size = c.size
	c.last = comp
	c.passes++
	ev.Pending = c.pending()

	util.LogDebug("Recompute pass",
		util.F("pass", c.passes),
		util.F("event", string(ev.Kind)),
		util.F("rows", len(comp.Rows)),
		util.F("skipped", len(comp.Skipped)),
		util.F("evicted", len(comp.Evicted)))

	for _, l := range c.listeners {
		l(ev, comp)
	}
}
