package analytics

import (
	"fmt"
	"time"

	"github.com/felixgeelhaar/sprintplan/pkg/domain/calendar"
	"github.com/felixgeelhaar/sprintplan/pkg/domain/diagnostic"
	"github.com/felixgeelhaar/sprintplan/pkg/domain/planning"
)

// GuideParams are the explicit inputs of a guide run.
type GuideParams struct {
	// FirstDay is the sprint's first milestone; its date is day 0.
	FirstDay time.Time
	// LastDay extends the guide to at least this date.
	LastDay   time.Time
	Calendars *calendar.Set
	// Location fixes calendar dates. Defaults to the location of FirstDay.
	Location *time.Location
}

// GuideResult is the outcome of a guide run.
type GuideResult struct {
	Guides      GuidePair
	Diagnostics diagnostic.List
}

// GuideBuilder converts a scheduled graph into burn-down guides.
type GuideBuilder struct{}

// NewGuideBuilder creates a GuideBuilder.
func NewGuideBuilder() *GuideBuilder {
	return &GuideBuilder{}
}

type guideTask struct {
	task *planning.Task
	cal  *calendar.Calendar
	bp   int64
}

// Build computes the with-buffer and without-buffer guides of g. Leaf tasks
// that are not milestones are in scope. A task that finishes before it
// starts, starts or stops inside a break, or starts before day 0 is skipped
// and reported; a missing calendar aborts the run.
func (b *GuideBuilder) Build(g *planning.Graph, p GuideParams) (*GuideResult, error) {
	if p.FirstDay.IsZero() {
		return nil, fmt.Errorf("guide needs a first day")
	}
	if p.Calendars == nil {
		return nil, calendar.ErrNoCalendar
	}
	loc := p.Location
	if loc == nil {
		loc = p.FirstDay.Location()
	}
	res := &GuideResult{}

	var scope []guideTask
	last := p.LastDay
	for _, id := range g.Leaves() {
		t, _ := g.Task(id)
		if t.Milestone || t.Work == 0 {
			continue
		}
		cal, err := p.Calendars.ForTask(t.ResourceID, g.InheritedCalendar(id))
		if err != nil {
			return nil, fmt.Errorf("task %d: %w", id, err)
		}
		if !t.IsScheduled() {
			res.Diagnostics.Warnf(diagnostic.CodeUnscheduled, id, "task has no start or finish")
			continue
		}
		if !t.Finish.After(t.Start) {
			res.Diagnostics.Errorf(diagnostic.CodeFinishBeforeStart, id,
				"stop %s is not after start %s", t.Finish.Format(time.RFC3339), t.Start.Format(time.RFC3339))
			continue
		}
		if cal.InBreak(t.Start) || cal.InBreak(t.Finish) {
			res.Diagnostics.Errorf(diagnostic.CodeLunchGap, id,
				"work %s to %s starts or stops inside a break", t.Start.Format(time.RFC3339), t.Finish.Format(time.RFC3339))
			continue
		}
		if calendar.DayOffset(p.FirstDay, t.Start, loc) < 0 {
			res.Diagnostics.Errorf(diagnostic.CodeDayOutOfRange, id,
				"start %s is before the first day %s", t.Start.Format(time.RFC3339), p.FirstDay.Format(calendar.DateLayout))
			continue
		}
		bp, _ := planning.AvailabilityPoints(t.Availability)
		scope = append(scope, guideTask{task: t, cal: cal, bp: bp})
		if t.Finish.After(last) {
			last = t.Finish
		}
	}

	days := calendar.DayOffset(p.FirstDay, last, loc) + 1
	if days < 1 {
		days = 1
	}
	with := NewBurnDownGuide(p.FirstDay, days)
	without := NewBurnDownGuide(p.FirstDay, days)
	for _, gt := range scope {
		work := dailyWork(gt, p.FirstDay, loc)
		if day, ok := outOfRange(work, days); ok {
			res.Diagnostics.Errorf(diagnostic.CodeDayOutOfRange, gt.task.ID,
				"work on day %d falls outside the guide of %d days", day, days)
			continue
		}
		for day, d := range work {
			if err := with.Add(day, d); err != nil {
				return nil, err
			}
			if gt.task.HasCostImpact() {
				if err := without.Add(day, d); err != nil {
					return nil, err
				}
			}
		}
	}
	with.ConvertToAccumulatedValues()
	without.ConvertToAccumulatedValues()
	res.Guides = GuidePair{WithBuffer: with, WithoutBuffer: without}
	return res, nil
}

// dailyWork splits the work of a task over the guide days it spans. Days
// are cut at midnight in loc, which may differ from the calendar's zone. Each
// day is the in-window time between the clipped start and stop, scaled by
// availability. The scaled value is derived from the running in-window total
// so rounding never drifts across days.
func dailyWork(gt guideTask, firstDay time.Time, loc *time.Location) map[int]time.Duration {
	t, cal := gt.task, gt.cal
	out := make(map[int]time.Duration)
	var span, booked time.Duration
	for day := midnight(t.Start, loc); day.Before(t.Finish); day = day.AddDate(0, 0, 1) {
		from := t.Start
		if day.After(from) {
			from = day
		}
		to := day.AddDate(0, 0, 1)
		if t.Finish.Before(to) {
			to = t.Finish
		}
		span += cal.WorkBetween(from, to)
		scaled := planning.ScaleWork(span, gt.bp)
		if scaled > booked {
			out[calendar.DayOffset(firstDay, from, loc)] += scaled - booked
			booked = scaled
		}
	}
	return out
}

func midnight(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// outOfRange returns the first day of work that has no slot in a guide of
// the given length.
func outOfRange(work map[int]time.Duration, days int) (int, bool) {
	for day := range work {
		if day < 0 || day >= days {
			return day, true
		}
	}
	return 0, false
}
