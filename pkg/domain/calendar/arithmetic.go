package calendar

import "time"

// maxSearchDays bounds scans for working time.
const maxSearchDays = 3660

type interval struct {
	start, end time.Time
}

func (c *Calendar) intervals(day time.Time) []interval {
	ws := c.WorkWindows(day)
	if len(ws) == 0 {
		return nil
	}
	out := make([]interval, len(ws))
	for i, w := range ws {
		out[i] = interval{start: w.Start.On(day), end: w.End.On(day)}
	}
	return out
}

func later(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func earlier(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

// NextWorkStart returns the earliest instant at or after t at which work can
// be performed. An instant exactly at the end of a window moves on to the
// next window.
func (c *Calendar) NextWorkStart(t time.Time) time.Time {
	t = t.In(c.loc)
	day := c.Midnight(t)
	for i := 0; i < maxSearchDays; i++ {
		for _, iv := range c.intervals(day) {
			if t.Before(iv.end) {
				return later(t, iv.start)
			}
		}
		day = day.AddDate(0, 0, 1)
	}
	return t
}

// AddWork returns the instant at which d of working time has elapsed when
// starting at start. Non-working time does not count. Finishing exactly at
// the end of a window returns that window end.
func (c *Calendar) AddWork(start time.Time, d time.Duration) time.Time {
	if d <= 0 {
		return start
	}
	t := start.In(c.loc)
	day := c.Midnight(t)
	remaining := d
	for i := 0; i < maxSearchDays; i++ {
		for _, iv := range c.intervals(day) {
			if !t.Before(iv.end) {
				continue
			}
			from := later(t, iv.start)
			avail := iv.end.Sub(from)
			if remaining <= avail {
				return from.Add(remaining)
			}
			remaining -= avail
		}
		day = day.AddDate(0, 0, 1)
	}
	return t.Add(remaining)
}

// SubtractWork returns the latest instant from which d of working time ends
// exactly at end.
func (c *Calendar) SubtractWork(end time.Time, d time.Duration) time.Time {
	if d <= 0 {
		return end
	}
	t := end.In(c.loc)
	day := c.Midnight(t)
	remaining := d
	for i := 0; i < maxSearchDays; i++ {
		ivs := c.intervals(day)
		for j := len(ivs) - 1; j >= 0; j-- {
			iv := ivs[j]
			if !iv.start.Before(t) {
				continue
			}
			to := earlier(t, iv.end)
			avail := to.Sub(iv.start)
			if remaining <= avail {
				return to.Add(-remaining)
			}
			remaining -= avail
		}
		day = day.AddDate(0, 0, -1)
	}
	return t.Add(-remaining)
}

// WorkBetween returns the working time inside [a, b). It is zero when b is
// not after a.
func (c *Calendar) WorkBetween(a, b time.Time) time.Duration {
	if !a.Before(b) {
		return 0
	}
	var total time.Duration
	last := c.Midnight(b)
	for day := c.Midnight(a); !day.After(last); day = day.AddDate(0, 0, 1) {
		for _, iv := range c.intervals(day) {
			from := later(a, iv.start)
			to := earlier(b, iv.end)
			if from.Before(to) {
				total += to.Sub(from)
			}
		}
	}
	return total
}

// InBreak reports whether t lies strictly inside a gap between two work
// windows of a working date, such as the lunch break. Window boundaries are
// not part of a break.
func (c *Calendar) InBreak(t time.Time) bool {
	ivs := c.intervals(c.Midnight(t))
	for i := 1; i < len(ivs); i++ {
		if t.After(ivs[i-1].end) && t.Before(ivs[i].start) {
			return true
		}
	}
	return false
}

// WorkingDaysIncluding counts the working dates from the date of a to the
// date of b, both included.
func (c *Calendar) WorkingDaysIncluding(a, b time.Time) int {
	first, last := c.Midnight(a), c.Midnight(b)
	n := 0
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		if c.IsWorkingDate(day) {
			n++
		}
	}
	return n
}

// AddWorkingDays moves t forward by n working dates, keeping its time of
// day.
func (c *Calendar) AddWorkingDays(t time.Time, n int) time.Time {
	t = t.In(c.loc)
	for i := 0; n > 0 && i < maxSearchDays; i++ {
		t = t.AddDate(0, 0, 1)
		if c.IsWorkingDate(t) {
			n--
		}
	}
	return t
}

// DayOffset returns the number of calendar days from the date of first to
// the date of t in loc. It is negative when t lies on an earlier date.
func DayOffset(first, t time.Time, loc *time.Location) int {
	if loc == nil {
		loc = time.UTC
	}
	fy, fm, fd := first.In(loc).Date()
	ty, tm, td := t.In(loc).Date()
	a := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	b := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a) / (24 * time.Hour))
}
