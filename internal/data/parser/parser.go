package parser

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/penwyp/go-wpt-filmstrip/internal/core/model"
	"github.com/penwyp/go-wpt-filmstrip/internal/util"
)

// ErrMalformedSeries marks a document that lacks the fields a filmstrip needs
var ErrMalformedSeries = errors.New("malformed timeline")

// Parser decodes timeline documents.
type Parser struct{}

// NewParser creates a new Parser instance.
func NewParser() *Parser {
	return &Parser{}
}

// Parse decodes a timeline document fetched from locator. Frames come back
// sorted by time with image references resolved against the locator.
func (p *Parser) Parse(data []byte, locator string) (*model.Timeline, error) {
	var doc model.TimelineDocument
	if err := sonic.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", locator, err)
	}

	if doc.VisualComplete == nil {
		return nil, fmt.Errorf("%w: %s has no visualComplete", ErrMalformedSeries, locator)
	}
	if *doc.VisualComplete < 0 {
		return nil, fmt.Errorf("%w: %s has negative visualComplete %v", ErrMalformedSeries, locator, *doc.VisualComplete)
	}
	if doc.FilmstripFrames == nil {
		return nil, fmt.Errorf("%w: %s has no filmstripFrames", ErrMalformedSeries, locator)
	}

	frames := *doc.FilmstripFrames
	events := make([]model.FrameEvent, 0, len(frames))
	for _, f := range frames {
		ts := f.Time
		if ts < 0 {
			ts = 0
		}
		events = append(events, model.FrameEvent{
			TimestampMs:   ts,
			ImageRef:      ResolveRef(locator, f.Image),
			CompletionPct: f.VisuallyComplete,
		})
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].TimestampMs < events[j].TimestampMs
	})

	util.LogDebug(fmt.Sprintf("Parsed %s: %d frames, visualComplete=%vms", locator, len(events), *doc.VisualComplete))

	return &model.Timeline{
		Source:           locator,
		URL:              doc.URL,
		Summary:          doc.Summary,
		VisualCompleteMs: *doc.VisualComplete,
		Events:           events,
	}, nil
}

// ResolveRef resolves an image reference relative to the document it came from.
// Absolute URLs and absolute paths are returned unchanged.
func ResolveRef(locator, ref string) string {
	if ref == "" {
		return ref
	}
	if u, err := url.Parse(ref); err == nil && u.IsAbs() {
		return ref
	}

	if base, err := url.Parse(locator); err == nil && base.IsAbs() && base.Scheme != "file" {
		r, err := url.Parse(ref)
		if err != nil {
			return ref
		}
		return base.ResolveReference(r).String()
	}

	if filepath.IsAbs(ref) {
		return ref
	}
	dir := filepath.Dir(strings.TrimPrefix(locator, "file://"))
	return filepath.Join(dir, ref)
}
