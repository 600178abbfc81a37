package planning_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/sprintplan/pkg/domain/planning"
)

func link(ids ...int64) []planning.PredecessorLink {
	out := make([]planning.PredecessorLink, len(ids))
	for i, id := range ids {
		out[i] = planning.PredecessorLink{PredecessorID: id}
	}
	return out
}

func TestNewGraph_Structure(t *testing.T) {
	g, err := planning.NewGraph([]planning.Task{
		{ID: 3, Name: "impl", ParentID: 1, Predecessors: link(2)},
		{ID: 1, Name: "story"},
		{ID: 2, Name: "design", ParentID: 1},
		{ID: 4, Name: "release", Predecessors: link(1)},
	})
	require.NoError(t, err)

	assert.Equal(t, 4, g.Len())
	assert.Equal(t, []int64{1, 4}, g.Roots())
	assert.Equal(t, []int64{2, 3}, g.Children(1))
	assert.Equal(t, []int64{2, 3, 4}, g.Leaves())
	assert.False(t, g.IsLeaf(1))
	assert.Equal(t, []int64{3}, g.Successors(2))
	assert.Equal(t, []int64{1}, g.Ancestors(3))
	assert.Equal(t, []int64{2, 3}, g.EffectivePredecessors(4), "container predecessor expands to leaves")
	assert.True(t, g.DependsOn(4, 2))
	assert.False(t, g.DependsOn(2, 4))

	task, ok := g.Task(3)
	require.True(t, ok)
	assert.Equal(t, planning.ModeAuto, task.Mode)
}

func TestNewGraph_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		tasks []planning.Task
	}{
		{"duplicate", []planning.Task{{ID: 1}, {ID: 1}}},
		{"zero id", []planning.Task{{ID: 0}}},
		{"unknown parent", []planning.Task{{ID: 1, ParentID: 9}}},
		{"unknown predecessor", []planning.Task{{ID: 1, Predecessors: link(9)}}},
		{"unknown mode", []planning.Task{{ID: 1, Mode: "later"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := planning.NewGraph(tt.tasks)
			assert.ErrorIs(t, err, planning.ErrInvalidGraph)
			var ge *planning.GraphError
			assert.True(t, errors.As(err, &ge))
		})
	}
}

func TestGraph_ValidateAcyclic(t *testing.T) {
	tests := []struct {
		name      string
		tasks     []planning.Task
		wantErr   bool
		hierarchy bool
	}{
		{
			name:  "chain",
			tasks: []planning.Task{{ID: 1}, {ID: 2, Predecessors: link(1)}, {ID: 3, Predecessors: link(2)}},
		},
		{
			name:    "simple cycle",
			tasks:   []planning.Task{{ID: 1, Predecessors: link(2)}, {ID: 2, Predecessors: link(1)}},
			wantErr: true,
		},
		{
			name:    "self reference",
			tasks:   []planning.Task{{ID: 1, Predecessors: link(1)}},
			wantErr: true,
		},
		{
			name: "display links are ignored",
			tasks: []planning.Task{
				{ID: 1, Predecessors: []planning.PredecessorLink{{PredecessorID: 2, Kind: planning.LinkDisplay}}},
				{ID: 2, Predecessors: link(1)},
			},
		},
		{
			name:      "parent loop",
			tasks:     []planning.Task{{ID: 1, ParentID: 2}, {ID: 2, ParentID: 1}, {ID: 3, ParentID: 1}},
			wantErr:   true,
			hierarchy: true,
		},
		{
			name:    "child depends on its container",
			tasks:   []planning.Task{{ID: 1}, {ID: 2, ParentID: 1, Predecessors: link(1)}},
			wantErr: true,
		},
		{
			name: "container cycle through leaves",
			tasks: []planning.Task{
				{ID: 1, Predecessors: link(4)},
				{ID: 2, ParentID: 1},
				{ID: 3},
				{ID: 4, ParentID: 3, Predecessors: link(2)},
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := planning.NewGraph(tt.tasks)
			require.NoError(t, err)
			err = g.ValidateAcyclic()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, planning.ErrSchedulingCycle)
			var ce *planning.SchedulingCycleError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, tt.hierarchy, ce.Hierarchy)
			require.GreaterOrEqual(t, len(ce.Path), 2)
			assert.Equal(t, ce.Path[0], ce.Path[len(ce.Path)-1])
		})
	}
}

func TestSchedulingCycleError_PathOrder(t *testing.T) {
	g, err := planning.NewGraph([]planning.Task{
		{ID: 1, Predecessors: link(3)},
		{ID: 2, Predecessors: link(1)},
		{ID: 3, Predecessors: link(2)},
	})
	require.NoError(t, err)
	err = g.ValidateAcyclic()
	var ce *planning.SchedulingCycleError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, []int64{1, 2, 3, 1}, ce.Path)
	assert.Contains(t, err.Error(), "1 -> 2 -> 3 -> 1")
}

func TestGraph_CloneIsIndependent(t *testing.T) {
	g, err := planning.NewGraph([]planning.Task{{ID: 1, Name: "a"}, {ID: 2, Predecessors: link(1)}})
	require.NoError(t, err)

	cp := g.Clone()
	task, _ := cp.Task(2)
	task.Name = "changed"
	require.NoError(t, cp.AddLink(2, 1, planning.LinkLeveling))
	task.Predecessors[0].Kind = planning.LinkDisplay

	orig, _ := g.Task(2)
	assert.Empty(t, orig.Name)
	assert.Equal(t, planning.LinkEnforced, orig.Predecessors[0].Kind)
}

func TestGraph_AddLink(t *testing.T) {
	g, err := planning.NewGraph([]planning.Task{{ID: 1}, {ID: 2}})
	require.NoError(t, err)

	require.NoError(t, g.AddLink(2, 1, planning.LinkLeveling))
	assert.Equal(t, []int64{2}, g.Successors(1))
	require.NoError(t, g.AddLink(2, 1, planning.LinkLeveling))
	assert.Len(t, g.Predecessors(2), 1, "duplicate links are ignored")
	assert.Error(t, g.AddLink(5, 1, planning.LinkLeveling))
	assert.Error(t, g.AddLink(2, 5, planning.LinkLeveling))
}

func TestGraph_Without(t *testing.T) {
	g, err := planning.NewGraph([]planning.Task{
		{ID: 1},
		{ID: 2, ParentID: 1},
		{ID: 3, Predecessors: link(2)},
		{ID: 4, Predecessors: link(3)},
	})
	require.NoError(t, err)

	rest, err := g.Without(1)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 4}, rest.Leaves())
	assert.Empty(t, rest.Predecessors(3))
	assert.Len(t, rest.Predecessors(4), 1)

	_, err = g.Without(99)
	assert.ErrorIs(t, err, planning.ErrInvalidGraph)
}

func TestTopologicalOrder(t *testing.T) {
	preds := map[int64][]int64{3: {1}, 2: {3}, 4: {99}}
	order, err := planning.TopologicalOrder([]int64{1, 2, 3, 4}, func(id int64) []int64 { return preds[id] })
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3, 2, 4}, order)

	cyc := map[int64][]int64{1: {2}, 2: {1}}
	_, err = planning.TopologicalOrder([]int64{1, 2}, func(id int64) []int64 { return cyc[id] })
	assert.ErrorIs(t, err, planning.ErrSchedulingCycle)
}

func TestTask_HasCostImpact(t *testing.T) {
	tests := []struct {
		task planning.Task
		want bool
	}{
		{planning.Task{Name: "Implement login"}, true},
		{planning.Task{Name: "Implement login", Buffer: true}, false},
		{planning.Task{Name: "Delivery buffer (from critical path tasks)"}, false},
		{planning.Task{Name: "Time contingency reserve"}, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.task.HasCostImpact(), tt.task.Name)
	}
}

func TestGraph_InheritedCalendar(t *testing.T) {
	g, err := planning.NewGraph([]planning.Task{
		{ID: 1, Calendar: "night"},
		{ID: 2, ParentID: 1},
		{ID: 3, ParentID: 2, Calendar: "day"},
		{ID: 4},
	})
	require.NoError(t, err)
	assert.Equal(t, "night", g.InheritedCalendar(2))
	assert.Equal(t, "day", g.InheritedCalendar(3))
	assert.Equal(t, "", g.InheritedCalendar(4))
}
