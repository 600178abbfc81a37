package planning

import (
	"sort"
)

// Graph is an arena of tasks indexed by ID. Parent and predecessor links are
// stored as IDs; the graph keeps the derived child and successor indices.
// A Graph is not safe for concurrent mutation; use Clone per run.
type Graph struct {
	tasks    []Task
	index    map[int64]int
	children [][]int
	succs    [][]int
}

// NewGraph validates and copies the tasks into a new graph. Tasks are kept
// in ascending ID order.
func NewGraph(tasks []Task) (*Graph, error) {
	g := &Graph{
		tasks: make([]Task, len(tasks)),
		index: make(map[int64]int, len(tasks)),
	}
	for i := range tasks {
		g.tasks[i] = tasks[i].clone()
	}
	sort.Slice(g.tasks, func(i, j int) bool { return g.tasks[i].ID < g.tasks[j].ID })

	for i := range g.tasks {
		t := &g.tasks[i]
		if t.ID <= 0 {
			return nil, invalidf(0, "task %q has non-positive id %d", t.Name, t.ID)
		}
		if _, dup := g.index[t.ID]; dup {
			return nil, invalidf(t.ID, "duplicate id")
		}
		if t.Mode == "" {
			t.Mode = ModeAuto
		}
		if t.Mode != ModeAuto && t.Mode != ModeManual {
			return nil, invalidf(t.ID, "unknown mode %q", t.Mode)
		}
		g.index[t.ID] = i
	}
	if err := g.reindex(); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Graph) reindex() error {
	g.children = make([][]int, len(g.tasks))
	g.succs = make([][]int, len(g.tasks))
	for i := range g.tasks {
		t := &g.tasks[i]
		if t.ParentID != 0 {
			p, ok := g.index[t.ParentID]
			if !ok {
				return invalidf(t.ID, "unknown parent %d", t.ParentID)
			}
			g.children[p] = append(g.children[p], i)
		}
		for _, l := range t.Predecessors {
			p, ok := g.index[l.PredecessorID]
			if !ok {
				return invalidf(t.ID, "unknown predecessor %d", l.PredecessorID)
			}
			if l.Kind.Enforceable() {
				g.succs[p] = append(g.succs[p], i)
			}
		}
	}
	return nil
}

func (g *Graph) ids(idx []int) []int64 {
	out := make([]int64, len(idx))
	for i, j := range idx {
		out[i] = g.tasks[j].ID
	}
	return out
}

// Len returns the number of tasks.
func (g *Graph) Len() int { return len(g.tasks) }

// Task returns the task with the given ID. The returned pointer refers into
// the arena, so changes are visible through the graph.
func (g *Graph) Task(id int64) (*Task, bool) {
	i, ok := g.index[id]
	if !ok {
		return nil, false
	}
	return &g.tasks[i], true
}

// Tasks returns all tasks in ID order.
func (g *Graph) Tasks() []*Task {
	out := make([]*Task, len(g.tasks))
	for i := range g.tasks {
		out[i] = &g.tasks[i]
	}
	return out
}

// Snapshot returns a copy of all tasks in ID order.
func (g *Graph) Snapshot() []Task {
	out := make([]Task, len(g.tasks))
	for i := range g.tasks {
		out[i] = g.tasks[i].clone()
	}
	return out
}

// Children returns the IDs of the direct children of a task.
func (g *Graph) Children(id int64) []int64 {
	i, ok := g.index[id]
	if !ok {
		return nil
	}
	return g.ids(g.children[i])
}

// Predecessors returns the links declared on a task.
func (g *Graph) Predecessors(id int64) []PredecessorLink {
	i, ok := g.index[id]
	if !ok {
		return nil
	}
	return g.tasks[i].Predecessors
}

// Successors returns the IDs of tasks that declare an enforceable link to id.
func (g *Graph) Successors(id int64) []int64 {
	i, ok := g.index[id]
	if !ok {
		return nil
	}
	return g.ids(g.succs[i])
}

// Roots returns the IDs of tasks without a parent.
func (g *Graph) Roots() []int64 {
	var out []int64
	for _, t := range g.tasks {
		if t.ParentID == 0 {
			out = append(out, t.ID)
		}
	}
	return out
}

// IsLeaf reports whether the task has no children.
func (g *Graph) IsLeaf(id int64) bool {
	i, ok := g.index[id]
	return ok && len(g.children[i]) == 0
}

// Leaves returns the IDs of all leaf tasks.
func (g *Graph) Leaves() []int64 {
	var out []int64
	for i, t := range g.tasks {
		if len(g.children[i]) == 0 {
			out = append(out, t.ID)
		}
	}
	return out
}

// Ancestors returns the parent chain of a task, nearest first. The walk
// stops if the chain loops.
func (g *Graph) Ancestors(id int64) []int64 {
	var out []int64
	seen := map[int64]bool{id: true}
	t, ok := g.Task(id)
	for ok && t.ParentID != 0 && !seen[t.ParentID] {
		seen[t.ParentID] = true
		out = append(out, t.ParentID)
		t, ok = g.Task(t.ParentID)
	}
	return out
}

// LeavesOf returns the leaf tasks at or below id.
func (g *Graph) LeavesOf(id int64) []int64 {
	start, ok := g.index[id]
	if !ok {
		return nil
	}
	var out []int64
	seen := make(map[int]bool)
	stack := []int{start}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[i] {
			continue
		}
		seen[i] = true
		if len(g.children[i]) == 0 {
			out = append(out, g.tasks[i].ID)
			continue
		}
		stack = append(stack, g.children[i]...)
	}
	sort.Slice(out, func(a, b int) bool { return out[a] < out[b] })
	return out
}

// EffectivePredecessors returns the leaf tasks that must finish before the
// leaf id may start: its own enforceable predecessors and those of its
// ancestors, with container predecessors expanded to their leaves.
func (g *Graph) EffectivePredecessors(id int64) []int64 {
	set := make(map[int64]bool)
	for _, cur := range append([]int64{id}, g.Ancestors(id)...) {
		for _, l := range g.Predecessors(cur) {
			if !l.Kind.Enforceable() {
				continue
			}
			for _, leaf := range g.LeavesOf(l.PredecessorID) {
				set[leaf] = true
			}
		}
	}
	out := make([]int64, 0, len(set))
	for leaf := range set {
		out = append(out, leaf)
	}
	sort.Slice(out, func(a, b int) bool { return out[a] < out[b] })
	return out
}

// DependsOn reports whether leaf a transitively requires leaf b to finish
// first.
func (g *Graph) DependsOn(a, b int64) bool {
	seen := make(map[int64]bool)
	stack := g.EffectivePredecessors(a)
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur == b {
			return true
		}
		if seen[cur] {
			continue
		}
		seen[cur] = true
		stack = append(stack, g.EffectivePredecessors(cur)...)
	}
	return false
}

// AddLink adds a predecessor link from predID to taskID.
func (g *Graph) AddLink(taskID, predID int64, kind LinkKind) error {
	i, ok := g.index[taskID]
	if !ok {
		return invalidf(taskID, "%v", ErrTaskNotFound)
	}
	p, ok := g.index[predID]
	if !ok {
		return invalidf(taskID, "unknown predecessor %d", predID)
	}
	if g.tasks[i].AddPredecessor(predID, kind) && kind.Enforceable() {
		g.succs[p] = append(g.succs[p], i)
	}
	return nil
}

// Clone returns a deep copy of the graph.
func (g *Graph) Clone() *Graph {
	cp, err := NewGraph(g.tasks)
	if err != nil {
		// The source graph was already validated.
		panic(err)
	}
	return cp
}

// Without returns a copy of the graph with the given tasks and their
// descendants removed. Links to removed tasks are dropped.
func (g *Graph) Without(ids ...int64) (*Graph, error) {
	removed := make(map[int64]bool)
	var mark func(id int64)
	mark = func(id int64) {
		if removed[id] {
			return
		}
		removed[id] = true
		for _, c := range g.Children(id) {
			mark(c)
		}
	}
	for _, id := range ids {
		if _, ok := g.index[id]; !ok {
			return nil, invalidf(id, "%v", ErrTaskNotFound)
		}
		mark(id)
	}

	var kept []Task
	for _, t := range g.tasks {
		if removed[t.ID] {
			continue
		}
		t = t.clone()
		links := t.Predecessors[:0]
		for _, l := range t.Predecessors {
			if !removed[l.PredecessorID] {
				links = append(links, l)
			}
		}
		t.Predecessors = links
		kept = append(kept, t)
	}
	return NewGraph(kept)
}

// ValidateAcyclic checks parent links and enforceable predecessor links for
// cycles. It returns a *SchedulingCycleError describing the first cycle.
func (g *Graph) ValidateAcyclic() error {
	for _, t := range g.tasks {
		path := []int64{t.ID}
		seen := map[int64]int{t.ID: 0}
		cur := t
		for cur.ParentID != 0 {
			if at, ok := seen[cur.ParentID]; ok {
				return &SchedulingCycleError{Path: append(path[at:], cur.ParentID), Hierarchy: true}
			}
			seen[cur.ParentID] = len(path)
			path = append(path, cur.ParentID)
			cur = g.tasks[g.index[cur.ParentID]]
		}
	}

	const (
		white = iota
		gray
		black
	)
	color := make(map[int64]int)
	var stack []int64
	var visit func(id int64) error
	visit = func(id int64) error {
		color[id] = gray
		stack = append(stack, id)
		for _, p := range g.EffectivePredecessors(id) {
			switch color[p] {
			case gray:
				at := len(stack) - 1
				for stack[at] != p {
					at--
				}
				cycle := append([]int64(nil), stack[at:]...)
				cycle = append(cycle, p)
				// Report in predecessor-to-successor order.
				for i, j := 0, len(cycle)-1; i < j; i, j = i+1, j-1 {
					cycle[i], cycle[j] = cycle[j], cycle[i]
				}
				return &SchedulingCycleError{Path: cycle}
			case white:
				if err := visit(p); err != nil {
					return err
				}
			}
		}
		stack = stack[:len(stack)-1]
		color[id] = black
		return nil
	}
	for _, leaf := range g.Leaves() {
		if color[leaf] == white {
			if err := visit(leaf); err != nil {
				return err
			}
		}
	}
	return nil
}

// TopologicalOrder orders nodes so that every node follows the nodes
// returned by preds. Ready nodes are emitted in ascending ID order. Edges to
// nodes outside the set are ignored.
func TopologicalOrder(nodes []int64, preds func(int64) []int64) ([]int64, error) {
	in := make(map[int64]bool, len(nodes))
	for _, n := range nodes {
		in[n] = true
	}
	indegree := make(map[int64]int, len(nodes))
	succs := make(map[int64][]int64, len(nodes))
	for _, n := range nodes {
		for _, p := range preds(n) {
			if !in[p] {
				continue
			}
			indegree[n]++
			succs[p] = append(succs[p], n)
		}
	}

	var ready []int64
	for _, n := range nodes {
		if indegree[n] == 0 {
			ready = append(ready, n)
		}
	}
	order := make([]int64, 0, len(nodes))
	for len(ready) > 0 {
		sort.Slice(ready, func(i, j int) bool { return ready[i] < ready[j] })
		n := ready[0]
		ready = ready[1:]
		order = append(order, n)
		for _, s := range succs[n] {
			indegree[s]--
			if indegree[s] == 0 {
				ready = append(ready, s)
			}
		}
	}
	if len(order) != len(nodes) {
		return nil, ErrSchedulingCycle
	}
	return order, nil
}

// InheritedCalendar returns the calendar name set on the task or its nearest
// ancestor.
func (g *Graph) InheritedCalendar(id int64) string {
	for _, cur := range append([]int64{id}, g.Ancestors(id)...) {
		if t, ok := g.Task(cur); ok && t.Calendar != "" {
			return t.Calendar
		}
	}
	return ""
}
