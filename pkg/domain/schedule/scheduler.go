// Package schedule assigns start and finish instants to a task graph using
// resource calendars and availability, levels resources and marks the
// critical path.
package schedule

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/felixgeelhaar/sprintplan/pkg/domain/calendar"
	"github.com/felixgeelhaar/sprintplan/pkg/domain/diagnostic"
	"github.com/felixgeelhaar/sprintplan/pkg/domain/planning"
)

// ErrNoAnchor indicates a run without a sprint anchor instant.
var ErrNoAnchor = errors.New("sprint anchor is required")

// ResourceDirectory reports the availability fraction of a resource.
type ResourceDirectory interface {
	Availability(resourceID string, at time.Time) float64
}

// Params carries the explicit inputs of one run.
type Params struct {
	// Anchor is the earliest start of tasks without predecessors.
	Anchor    time.Time
	Calendars *calendar.Set
	// Resources is optional; without it resources are fully available.
	Resources ResourceDirectory
}

// Result summarizes a run. Task timing and criticality are written onto the
// graph.
type Result struct {
	SprintEnd    time.Time
	CriticalPath []int64
	// Order lists leaf tasks in the order they were placed.
	Order []int64
	// Slack is the working time each leaf can slip without moving the sprint end.
	Slack       map[int64]time.Duration
	Diagnostics diagnostic.List
}

// Scheduler computes schedules. The zero value is not usable; use New.
type Scheduler struct {
	log zerolog.Logger
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger sets the logger used for debug tracing.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Scheduler) { s.log = l }
}

// New creates a Scheduler.
func New(opts ...Option) *Scheduler {
	s := &Scheduler{log: zerolog.Nop()}
	for _, o := range opts {
		o(s)
	}
	return s
}

type booking struct {
	taskID        int64
	start, finish time.Time
	bp            int64
}

type run struct {
	g        *planning.Graph
	p        Params
	log      zerolog.Logger
	res      *Result
	cals     map[int64]*calendar.Calendar
	spans    map[int64]time.Duration
	bps      map[int64]int64
	work     map[int64]time.Duration
	declared map[int64]float64
	invalid  map[int64]float64
	bookings map[string][]booking
}

// Schedule computes start and finish for every task of g. Structural
// problems (cycles, missing calendars) abort the run; task-level problems
// are returned as diagnostics alongside the partial result.
func (s *Scheduler) Schedule(g *planning.Graph, p Params) (*Result, error) {
	if p.Anchor.IsZero() {
		return nil, ErrNoAnchor
	}
	if p.Calendars == nil {
		return nil, calendar.ErrNoCalendar
	}
	if err := g.ValidateAcyclic(); err != nil {
		return nil, err
	}

	r := &run{
		g:        g,
		p:        p,
		log:      s.log,
		res:      &Result{Slack: make(map[int64]time.Duration)},
		cals:     make(map[int64]*calendar.Calendar),
		spans:    make(map[int64]time.Duration),
		bps:      make(map[int64]int64),
		work:     make(map[int64]time.Duration),
		declared: make(map[int64]float64),
		invalid:  make(map[int64]float64),
		bookings: make(map[string][]booking),
	}
	if err := r.resolveCalendars(); err != nil {
		return nil, err
	}
	r.checkContainers()
	r.computeSpans()
	r.placeManual()
	if err := r.placeAuto(); err != nil {
		return nil, err
	}
	r.reportAvailability()
	for _, root := range g.Roots() {
		r.deriveContainer(root)
	}
	r.res.SprintEnd = r.sprintEnd()
	if err := r.markCritical(); err != nil {
		return nil, err
	}
	r.checkRelations()

	s.log.Debug().
		Int("tasks", g.Len()).
		Time("sprint_end", r.res.SprintEnd).
		Int("critical", len(r.res.CriticalPath)).
		Int("diagnostics", r.res.Diagnostics.Len()).
		Msg("schedule computed")
	return r.res, nil
}

func (r *run) resolveCalendars() error {
	for _, id := range r.g.Leaves() {
		t, _ := r.g.Task(id)
		c, err := r.p.Calendars.ForTask(t.ResourceID, r.g.InheritedCalendar(id))
		if err != nil {
			return fmt.Errorf("task %d: %w", id, err)
		}
		r.cals[id] = c
	}
	return nil
}

func (r *run) checkContainers() {
	for _, t := range r.g.Tasks() {
		if r.g.IsLeaf(t.ID) {
			continue
		}
		if t.Work != 0 || t.ResourceID != "" {
			r.res.Diagnostics.Warnf(diagnostic.CodeContainerWork, t.ID,
				"container carries its own work or resource; its span is derived from children")
		}
	}
}

func (r *run) computeSpans() {
	for _, id := range r.g.Leaves() {
		t, _ := r.g.Task(id)
		work := t.Work
		if work < 0 {
			r.res.Diagnostics.Errorf(diagnostic.CodeFinishBeforeStart, id,
				"negative work %s would finish before start; treated as zero", work)
			work = 0
		}
		if t.Milestone {
			work = 0
		}
		r.work[id] = work
		r.declared[id] = t.Availability
		r.setAvailability(id, r.p.Anchor)
	}
}

// setAvailability resolves the availability of a leaf starting at the given
// instant and recomputes its span.
func (r *run) setAvailability(id int64, at time.Time) {
	t, _ := r.g.Task(id)
	avail := r.declared[id]
	if avail == 0 {
		avail = 1
		if t.ResourceID != "" && r.p.Resources != nil {
			avail = r.p.Resources.Availability(t.ResourceID, at)
		}
	}
	bp, ok := planning.AvailabilityPoints(avail)
	if ok {
		delete(r.invalid, id)
	} else {
		r.invalid[id] = avail
		avail = 1
	}
	t.Availability = avail
	r.bps[id] = bp
	r.spans[id] = planning.StretchWork(r.work[id], bp)
}

func (r *run) reportAvailability() {
	for _, id := range r.g.Leaves() {
		if avail, ok := r.invalid[id]; ok {
			r.res.Diagnostics.Errorf(diagnostic.CodeInvalidAvailability, id,
				"availability %g is outside (0, 1] or below one basis point; using full availability", avail)
		}
	}
}

func (r *run) placeManual() {
	for _, id := range r.g.Leaves() {
		t, _ := r.g.Task(id)
		if !t.IsManual() {
			continue
		}
		t.Start = t.ManualStart
		r.setAvailability(id, t.Start)
		t.Finish = r.cals[id].AddWork(t.Start, r.spans[id])
		r.book(id)
		r.res.Order = append(r.res.Order, id)
		r.log.Debug().Int64("task", id).Time("start", t.Start).Time("finish", t.Finish).Msg("placed manual task")
	}
}

// readyAt returns the earliest instant a leaf may start given its scheduled
// predecessors and any manually pinned ancestor.
func (r *run) readyAt(id int64) time.Time {
	ready := r.p.Anchor
	for _, a := range r.g.Ancestors(id) {
		if at, ok := r.g.Task(a); ok && at.IsManual() && at.ManualStart.After(ready) {
			ready = at.ManualStart
		}
	}
	for _, p := range r.g.EffectivePredecessors(id) {
		if pt, ok := r.g.Task(p); ok && pt.Finish.After(ready) {
			ready = pt.Finish
		}
	}
	return ready
}

// placeAuto list-schedules automatic leaves: among the tasks whose
// predecessors are placed, the one that becomes ready first goes next, ties
// broken by ID.
func (r *run) placeAuto() error {
	done := make(map[int64]bool)
	var pending []int64
	for _, id := range r.g.Leaves() {
		t, _ := r.g.Task(id)
		if t.IsManual() {
			done[id] = true
			continue
		}
		pending = append(pending, id)
	}
	preds := make(map[int64][]int64, len(pending))
	for _, id := range pending {
		preds[id] = r.g.EffectivePredecessors(id)
	}

	for len(pending) > 0 {
		best := -1
		var bestReady time.Time
		for i, id := range pending {
			ready := true
			for _, p := range preds[id] {
				if !done[p] {
					ready = false
					break
				}
			}
			if !ready {
				continue
			}
			at := r.readyAt(id)
			if best < 0 || at.Before(bestReady) || at.Equal(bestReady) && id < pending[best] {
				best, bestReady = i, at
			}
		}
		if best < 0 {
			return fmt.Errorf("%w: no schedulable task among %v", planning.ErrSchedulingCycle, pending)
		}
		id := pending[best]
		r.place(id, bestReady)
		done[id] = true
		pending = append(pending[:best], pending[best+1:]...)
	}
	return nil
}

func (r *run) place(id int64, ready time.Time) {
	t, _ := r.g.Task(id)
	cal := r.cals[id]
	r.res.Order = append(r.res.Order, id)

	if r.work[id] == 0 {
		t.Start, t.Finish = ready, ready
		return
	}

	start := ready
	var finish time.Time
	for {
		start = cal.NextWorkStart(start)
		r.setAvailability(id, start)
		finish = cal.AddWork(start, r.spans[id])
		blocker, ok := r.conflict(t.ResourceID, start, finish, r.bps[id])
		if !ok {
			break
		}
		if !r.g.DependsOn(blocker.taskID, id) {
			_ = r.g.AddLink(id, blocker.taskID, planning.LinkLeveling)
		}
		r.log.Debug().Int64("task", id).Int64("after", blocker.taskID).Str("resource", t.ResourceID).Msg("leveled")
		start = blocker.finish
	}
	t.Start, t.Finish = start, finish
	r.book(id)
	r.log.Debug().Int64("task", id).Time("start", start).Time("finish", finish).Float64("availability", t.Availability).Msg("placed task")
}

func (r *run) book(id int64) {
	t, _ := r.g.Task(id)
	if t.ResourceID == "" || r.spans[id] == 0 {
		return
	}
	r.bookings[t.ResourceID] = append(r.bookings[t.ResourceID], booking{
		taskID: id, start: t.Start, finish: t.Finish, bp: r.bps[id],
	})
}

// conflict returns the booking to wait for when placing a task on
// [start, finish) would load the resource beyond full availability. The
// booking finishing first is returned.
func (r *run) conflict(resource string, start, finish time.Time, bp int64) (booking, bool) {
	if resource == "" {
		return booking{}, false
	}
	load := bp
	var overlapping []booking
	for _, b := range r.bookings[resource] {
		if b.start.Before(finish) && start.Before(b.finish) {
			overlapping = append(overlapping, b)
			load += b.bp
		}
	}
	if load <= planning.AvailabilityBasis || len(overlapping) == 0 {
		return booking{}, false
	}
	sort.Slice(overlapping, func(i, j int) bool {
		if !overlapping[i].finish.Equal(overlapping[j].finish) {
			return overlapping[i].finish.Before(overlapping[j].finish)
		}
		return overlapping[i].taskID < overlapping[j].taskID
	})
	return overlapping[0], true
}

func (r *run) deriveContainer(id int64) {
	children := r.g.Children(id)
	if len(children) == 0 {
		return
	}
	t, _ := r.g.Task(id)
	var start, finish time.Time
	for i, c := range children {
		r.deriveContainer(c)
		ct, _ := r.g.Task(c)
		if i == 0 || ct.Start.Before(start) {
			start = ct.Start
		}
		if i == 0 || ct.Finish.After(finish) {
			finish = ct.Finish
		}
	}
	t.Start, t.Finish = start, finish
}

func (r *run) sprintEnd() time.Time {
	end := r.p.Anchor
	for _, id := range r.g.Leaves() {
		if t, _ := r.g.Task(id); t.Finish.After(end) {
			end = t.Finish
		}
	}
	return end
}
