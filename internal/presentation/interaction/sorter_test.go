package interaction

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-wpt-filmstrip/internal/application/filmstrip"
	"github.com/penwyp/go-wpt-filmstrip/internal/core/model"
	"github.com/penwyp/go-wpt-filmstrip/internal/data/source"
)

func TestParseSort(t *testing.T) {
	tests := []struct {
		raw       string
		wantField SortField
		wantOrder SortOrder
		wantErr   bool
	}{
		{"", SortNone, SortAscending, false},
		{"none", SortNone, SortAscending, false},
		{"visual-complete", SortByVisualComplete, SortAscending, false},
		{"-vc", SortByVisualComplete, SortDescending, false},
		{"Title", SortByTitle, SortAscending, false},
		{"-title", SortByTitle, SortDescending, false},
		{"cost", SortNone, SortAscending, true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			field, order, err := ParseSort(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantField, field)
			assert.Equal(t, tt.wantOrder, order)
		})
	}
}

func TestSeriesSorterOrder(t *testing.T) {
	infos := []filmstrip.SeriesInfo{
		{ID: "slow", Title: "b", Loaded: true, VisualCompleteMs: 900},
		{ID: "pending", Title: "a"},
		{ID: "fast", Title: "c", Loaded: true, VisualCompleteMs: 300},
		{ID: "tie", Title: "b", Loaded: true, VisualCompleteMs: 900},
	}

	tests := []struct {
		name  string
		field SortField
		order SortOrder
		want  []string
	}{
		{"none", SortNone, SortAscending, []string{"slow", "pending", "fast", "tie"}},
		{"vc_asc", SortByVisualComplete, SortAscending, []string{"fast", "slow", "tie", "pending"}},
		{"vc_desc", SortByVisualComplete, SortDescending, []string{"slow", "tie", "fast", "pending"}},
		{"title_asc", SortByTitle, SortAscending, []string{"slow", "tie", "fast", "pending"}},
		{"title_desc", SortByTitle, SortDescending, []string{"fast", "slow", "tie", "pending"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewSeriesSorter(tt.field, tt.order).Order(infos))
		})
	}
}

type idleLoader struct{ results chan source.Result }

func (l idleLoader) Load(context.Context, source.Request) {}
func (l idleLoader) Results() <-chan source.Result        { return l.results }

func loadedResult(id string, vc float64) source.Result {
	return source.Result{
		SeriesID: id,
		Locator:  id + ".json",
		Seq:      1,
		Timeline: &model.Timeline{
			VisualCompleteMs: vc,
			Events:           []model.FrameEvent{{TimestampMs: 0, ImageRef: id + ".jpg"}},
		},
	}
}

func TestSeriesSorterApply(t *testing.T) {
	ctrl, err := filmstrip.NewController(&filmstrip.Config{Sources: []filmstrip.SourceConfig{
		{ID: "slow", Source: "slow.json"},
		{ID: "fast", Source: "fast.json"},
	}}, idleLoader{results: make(chan source.Result)})
	require.NoError(t, err)
	defer ctrl.Close()
	ctrl.Start()
	ctrl.Apply(loadedResult("slow", 900))
	ctrl.Apply(loadedResult("fast", 300))

	sorter := NewSeriesSorter(SortByVisualComplete, SortAscending)
	ran, err := sorter.Apply(ctrl)
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Equal(t, []string{"fast", "slow"}, ctrl.SeriesIDs())
	assert.Equal(t, []string{"fast", "slow"}, []string{
		ctrl.Composition().Rows[0].SeriesID, ctrl.Composition().Rows[1].SeriesID,
	})

	passes := ctrl.Passes()
	ran, err = sorter.Apply(ctrl)
	require.NoError(t, err)
	assert.False(t, ran)
	assert.Equal(t, passes, ctrl.Passes())

	ran, _ = NewSeriesSorter(SortNone, SortAscending).Apply(ctrl)
	assert.False(t, ran)
}
