package interaction

import (
	"fmt"
	"sort"
	"strings"

	"github.com/penwyp/go-wpt-filmstrip/internal/application/filmstrip"
)

// SortField represents the field to sort series by
type SortField int

const (
	SortNone SortField = iota
	SortByVisualComplete
	SortByTitle
)

// SortOrder represents the sort order
type SortOrder int

const (
	SortAscending SortOrder = iota
	SortDescending
)

// ParseSort reads a --sort value such as "visual-complete" or "-title".
// A leading minus sorts descending.
func ParseSort(raw string) (SortField, SortOrder, error) {
	order := SortAscending
	raw = strings.ToLower(strings.TrimSpace(raw))
	if strings.HasPrefix(raw, "-") {
		order = SortDescending
		raw = raw[1:]
	}

	switch raw {
	case "", "none":
		return SortNone, SortAscending, nil
	case "visual-complete", "vc":
		return SortByVisualComplete, order, nil
	case "title":
		return SortByTitle, order, nil
	default:
		return SortNone, order, fmt.Errorf("unknown sort field %q (want none, visual-complete or title)", raw)
	}
}

// SeriesSorter orders series for display
type SeriesSorter struct {
	field SortField
	order SortOrder
}

// NewSeriesSorter creates a new series sorter
func NewSeriesSorter(field SortField, order SortOrder) *SeriesSorter {
	return &SeriesSorter{field: field, order: order}
}

func (s *SeriesSorter) Enabled() bool {
	return s.field != SortNone
}

// Order returns the series ids in display order. Series without data keep
// their relative order after the loaded ones; ties keep the input order.
func (s *SeriesSorter) Order(infos []filmstrip.SeriesInfo) []string {
	sorted := make([]filmstrip.SeriesInfo, len(infos))
	copy(sorted, infos)

	if s.field != SortNone {
		sort.SliceStable(sorted, func(i, j int) bool {
			a, b := sorted[i], sorted[j]
			if a.Loaded != b.Loaded {
				return a.Loaded
			}
			if !a.Loaded {
				return false
			}

			switch s.field {
			case SortByVisualComplete:
				if a.VisualCompleteMs == b.VisualCompleteMs {
					return false
				}
				if s.order == SortDescending {
					return a.VisualCompleteMs > b.VisualCompleteMs
				}
				return a.VisualCompleteMs < b.VisualCompleteMs
			case SortByTitle:
				if a.Title == b.Title {
					return false
				}
				if s.order == SortDescending {
					return a.Title > b.Title
				}
				return a.Title < b.Title
			}
			return false
		})
	}

	ids := make([]string, len(sorted))
	for i, info := range sorted {
		ids[i] = info.ID
	}
	return ids
}

// Apply reorders ctrl when its current order differs from the sorted one.
// It reports whether a pass ran.
func (s *SeriesSorter) Apply(ctrl *filmstrip.Controller) (bool, error) {
	if !s.Enabled() {
		return false, nil
	}
	infos := ctrl.Snapshot()
	ids := s.Order(infos)

	changed := false
	for i, info := range infos {
		if ids[i] != info.ID {
			changed = true
			break
		}
	}
	if !changed {
		return false, nil
	}
	return true, ctrl.SetOrder(ids)
}
