package view

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tasklist/internal/model"
)

func abc() []model.Task {
	return []model.Task{
		{ID: "1", Text: "A", Completed: false},
		{ID: "2", Text: "B", Completed: true},
		{ID: "3", Text: "C", Completed: false},
	}
}

func texts(ts []model.Task) []string {
	out := make([]string, 0, len(ts))
	for _, t := range ts {
		out = append(out, t.Text)
	}
	return out
}

func TestApply(t *testing.T) {
	assert.Equal(t, []string{"A", "C"}, texts(Apply(abc(), FilterActive)))
	assert.Equal(t, []string{"B"}, texts(Apply(abc(), FilterCompleted)))
	assert.Equal(t, []string{"A", "B", "C"}, texts(Apply(abc(), FilterAll)))
	assert.Empty(t, Apply(nil, FilterAll))
}

func TestParseFilter(t *testing.T) {
	cases := map[string]Filter{
		"":          FilterAll,
		"all":       FilterAll,
		" Active ":  FilterActive,
		"completed": FilterCompleted,
		"done":      FilterCompleted,
	}
	for in, want := range cases {
		got, err := ParseFilter(in)
		assert.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseFilter("archived")
	assert.ErrorIs(t, err, ErrUnknownFilter)
}

func TestFilter_Next(t *testing.T) {
	assert.Equal(t, FilterActive, FilterAll.Next())
	assert.Equal(t, FilterCompleted, FilterActive.Next())
	assert.Equal(t, FilterAll, FilterCompleted.Next())
	assert.Equal(t, FilterAll, Filter("bogus").Next())
}

func TestComputeProgress(t *testing.T) {
	assert.Equal(t, Progress{}, ComputeProgress(nil))

	four := []model.Task{
		{ID: "1", Completed: true},
		{ID: "2", Completed: false},
		{ID: "3", Completed: true},
		{ID: "4", Completed: false},
	}
	p := ComputeProgress(four)
	assert.Equal(t, 2, p.Completed)
	assert.Equal(t, 4, p.Total)
	assert.InDelta(t, 50.0, p.Percent, 1e-9)
	assert.InDelta(t, 0.5, p.Ratio(), 1e-9)
}

func TestBuild(t *testing.T) {
	vm := Build(abc(), FilterActive, map[model.TaskID]string{"3": "C draft"}, nil)

	assert.Equal(t, FilterActive, vm.Filter)
	assert.False(t, vm.Empty)
	assert.Len(t, vm.Cards, 2)
	assert.False(t, vm.Cards[0].Editing)
	assert.True(t, vm.Cards[1].Editing)
	assert.Equal(t, "C draft", vm.Cards[1].Draft)

	// Progress ignores the filter.
	assert.Equal(t, 3, vm.Progress.Total)
	assert.Equal(t, 1, vm.Progress.Completed)

	var active []Filter
	for _, tab := range vm.Filters {
		if tab.Active {
			active = append(active, tab.Filter)
		}
	}
	assert.Equal(t, []Filter{FilterActive}, active)
	assert.Equal(t, 3, vm.Filters[0].Count)
	assert.Equal(t, 2, vm.Filters[1].Count)
	assert.Equal(t, 1, vm.Filters[2].Count)
	assert.NotNil(t, vm.Notices)
}

func TestBuild_EmptyState(t *testing.T) {
	vm := Build([]model.Task{{ID: "1", Text: "A"}}, FilterCompleted, nil, nil)
	assert.True(t, vm.Empty)
	assert.Empty(t, vm.Cards)
	assert.Equal(t, 0.0, vm.Progress.Percent)
}
