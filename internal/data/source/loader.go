package source

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/penwyp/go-wpt-filmstrip/internal/core/model"
	"github.com/penwyp/go-wpt-filmstrip/internal/data/cache"
	"github.com/penwyp/go-wpt-filmstrip/internal/data/parser"
	"github.com/penwyp/go-wpt-filmstrip/internal/util"
)

// LoadError is a failed fetch or parse for one series
type LoadError struct {
	SeriesID string
	Locator  string
	Err      error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s for series %s: %v", e.Locator, e.SeriesID, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Request names one load. Seq is echoed back so callers can tell overlapping
// loads of the same locator apart.
type Request struct {
	SeriesID string
	Locator  string
	Seq      uint64
}

// Result represents the outcome of loading one source.
type Result struct {
	SeriesID string
	Locator  string
	Seq      uint64
	Timeline *model.Timeline
	Err      error
	Duration time.Duration
}

// Loader fetches and parses sources in the background, delivering each
// outcome on Results.
type Loader struct {
	fetcher Fetcher
	parser  *parser.Parser
	sem     *semaphore.Weighted
	timeout time.Duration
	results chan Result
	cache   *cache.TimelineCache
}

// NewLoader creates a loader running at most concurrency fetches at a time.
// A zero timeout disables the per-load deadline.
func NewLoader(fetcher Fetcher, concurrency int, timeout time.Duration) *Loader {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Loader{
		fetcher: fetcher,
		parser:  parser.NewParser(),
		sem:     semaphore.NewWeighted(int64(concurrency)),
		timeout: timeout,
		results: make(chan Result, 64),
	}
}

// WithCache makes the loader reuse timelines parsed from local files that
// have not changed since.
func (l *Loader) WithCache(c *cache.TimelineCache) *Loader {
	l.cache = c
	return l
}

// Load starts loading locator for seriesID and returns immediately. The result
// is dropped if ctx ends before anyone receives it.
func (l *Loader) Load(ctx context.Context, req Request) {
	go func() {
		result := l.LoadSync(ctx, req)
		select {
		case l.results <- result:
		case <-ctx.Done():
		}
	}()
}

// LoadSync loads locator on the calling goroutine
func (l *Loader) LoadSync(ctx context.Context, req Request) Result {
	start := time.Now()
	seriesID, locator := req.SeriesID, req.Locator
	result := Result{SeriesID: seriesID, Locator: locator, Seq: req.Seq}

	if err := l.sem.Acquire(ctx, 1); err != nil {
		result.Err = &LoadError{SeriesID: seriesID, Locator: locator, Err: err}
		return result
	}
	defer l.sem.Release(1)

	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	cachePath, stamp := l.lookupCache(locator)
	if cachePath != "" {
		if hit := l.cache.Get(cachePath); hit.Found {
			result.Timeline = hit.Timeline
			result.Duration = time.Since(start)
			util.LogDebug(fmt.Sprintf("Reused cached timeline %s for %s", locator, seriesID))
			return result
		}
	}

	data, err := l.fetcher.Fetch(ctx, locator)
	if err == nil {
		result.Timeline, err = l.parser.Parse(data, locator)
	}
	result.Duration = time.Since(start)
	if err == nil && cachePath != "" && stamp != nil {
		l.cache.Put(cachePath, *stamp, result.Timeline)
	}

	if err != nil {
		result.Err = &LoadError{SeriesID: seriesID, Locator: locator, Err: err}
		util.LogDebug(fmt.Sprintf("Load failed: %s, duration %s - %v", locator, util.FormatDuration(result.Duration), err))
		return result
	}

	util.LogDebug(fmt.Sprintf("Loaded %s for %s in %s", locator, seriesID, util.FormatDuration(result.Duration)))
	return result
}

// lookupCache returns the cache key for a local locator and the file's
// current stamp. Remote locators are never cached.
func (l *Loader) lookupCache(locator string) (string, *cache.Stamp) {
	if l.cache == nil || IsRemote(locator) {
		return "", nil
	}
	path := LocalPath(locator)
	stamp, err := cache.StampFile(path)
	if err != nil {
		return path, nil
	}
	return path, &stamp
}

// Results delivers load outcomes in completion order
func (l *Loader) Results() <-chan Result {
	return l.results
}
