package schedule

import (
	"sort"
	"time"

	"github.com/felixgeelhaar/sprintplan/pkg/domain/diagnostic"
	"github.com/felixgeelhaar/sprintplan/pkg/domain/planning"
)

// honoredPredecessors returns the effective predecessors of a leaf whose
// finish does not exceed the leaf's start. Violated relations are reported
// separately and take no part in the backward pass.
func (r *run) honoredPredecessors(id int64) []int64 {
	t, _ := r.g.Task(id)
	var out []int64
	for _, p := range r.g.EffectivePredecessors(id) {
		if pt, ok := r.g.Task(p); ok && !pt.Finish.After(t.Start) {
			out = append(out, p)
		}
	}
	return out
}

// markCritical runs the backward pass. The latest finish of a leaf is the
// earliest latest start among its successors, or the sprint end; a leaf
// without working-time slack is critical.
func (r *run) markCritical() error {
	leaves := r.g.Leaves()
	preds := make(map[int64][]int64, len(leaves))
	succs := make(map[int64][]int64, len(leaves))
	for _, id := range leaves {
		preds[id] = r.honoredPredecessors(id)
		for _, p := range preds[id] {
			succs[p] = append(succs[p], id)
		}
	}
	order, err := planning.TopologicalOrder(leaves, func(id int64) []int64 { return preds[id] })
	if err != nil {
		return err
	}

	latestStart := make(map[int64]time.Time, len(leaves))
	for i := len(order) - 1; i >= 0; i-- {
		id := order[i]
		t, _ := r.g.Task(id)
		cal := r.cals[id]

		lf := r.res.SprintEnd
		for _, s := range succs[id] {
			if ls := latestStart[s]; ls.Before(lf) {
				lf = ls
			}
		}
		latestStart[id] = cal.SubtractWork(lf, r.spans[id])

		slack := cal.WorkBetween(t.Finish, lf)
		r.res.Slack[id] = slack
		t.Critical = slack == 0
		if t.Critical {
			r.res.CriticalPath = append(r.res.CriticalPath, id)
		}
	}

	sort.Slice(r.res.CriticalPath, func(i, j int) bool {
		a, _ := r.g.Task(r.res.CriticalPath[i])
		b, _ := r.g.Task(r.res.CriticalPath[j])
		if !a.Start.Equal(b.Start) {
			return a.Start.Before(b.Start)
		}
		return a.ID < b.ID
	})

	for _, root := range r.g.Roots() {
		r.markContainer(root)
	}
	return nil
}

func (r *run) markContainer(id int64) bool {
	children := r.g.Children(id)
	t, _ := r.g.Task(id)
	if len(children) == 0 {
		return t.Critical
	}
	critical := false
	for _, c := range children {
		if r.markContainer(c) {
			critical = true
		}
	}
	t.Critical = critical
	return critical
}

// checkRelations reports leaves that start before an enforceable
// predecessor has finished. Only pinned tasks can end up in that state.
func (r *run) checkRelations() {
	for _, id := range r.g.Leaves() {
		t, _ := r.g.Task(id)
		for _, p := range r.g.EffectivePredecessors(id) {
			pt, _ := r.g.Task(p)
			if !pt.Finish.After(t.Start) {
				continue
			}
			if t.IsManual() {
				r.res.Diagnostics.Errorf(diagnostic.CodeManualDependency, id,
					"manual start %s cannot honor predecessor %d finishing %s",
					t.Start.Format(time.RFC3339), p, pt.Finish.Format(time.RFC3339))
				continue
			}
			r.res.Diagnostics.Errorf(diagnostic.CodeRelationViolated, id,
				"start %s is before predecessor %d finishes at %s",
				t.Start.Format(time.RFC3339), p, pt.Finish.Format(time.RFC3339))
		}
	}
}
