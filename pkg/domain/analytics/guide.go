// Package analytics builds burn-down guides from a scheduled task graph,
// aggregates logged work into actual-work series and derives sprint metrics.
package analytics

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrDayOutOfRange indicates a day index outside a guide.
	ErrDayOutOfRange = errors.New("day index out of range")
	// ErrAccumulated indicates a per-day change to an accumulated guide.
	ErrAccumulated = errors.New("guide is already accumulated")
)

// BurnDownGuide is a day-indexed planned-work curve. Day 0 is the date of
// FirstDay. While Accumulated is false Work holds per-day contributions;
// afterwards it holds running totals.
type BurnDownGuide struct {
	FirstDay    time.Time       `json:"first_day"`
	Work        []time.Duration `json:"work"`
	Accumulated bool            `json:"accumulated"`
}

// GuidePair holds the guide including non-cost buffer tasks and the guide
// excluding them.
type GuidePair struct {
	WithBuffer    *BurnDownGuide `json:"with_buffer"`
	WithoutBuffer *BurnDownGuide `json:"without_buffer"`
}

// NewBurnDownGuide creates an empty per-day guide spanning days days.
func NewBurnDownGuide(firstDay time.Time, days int) *BurnDownGuide {
	if days < 0 {
		days = 0
	}
	return &BurnDownGuide{FirstDay: firstDay, Work: make([]time.Duration, days)}
}

// FromDeltas builds an accumulated guide from per-day contributions.
func FromDeltas(firstDay time.Time, deltas []time.Duration) *BurnDownGuide {
	g := &BurnDownGuide{FirstDay: firstDay, Work: append([]time.Duration(nil), deltas...)}
	g.ConvertToAccumulatedValues()
	return g
}

// Len returns the number of days.
func (g *BurnDownGuide) Len() int { return len(g.Work) }

// Add adds work to one day.
func (g *BurnDownGuide) Add(day int, d time.Duration) error {
	if g.Accumulated {
		return ErrAccumulated
	}
	if day < 0 || day >= len(g.Work) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrDayOutOfRange, day, len(g.Work))
	}
	g.Work[day] += d
	return nil
}

// ConvertToAccumulatedValues turns per-day contributions into running
// totals. It does nothing on an accumulated guide.
func (g *BurnDownGuide) ConvertToAccumulatedValues() {
	if g.Accumulated {
		return
	}
	for i := 1; i < len(g.Work); i++ {
		g.Work[i] += g.Work[i-1]
	}
	g.Accumulated = true
}

// Deltas returns the per-day contributions of the guide.
func (g *BurnDownGuide) Deltas() []time.Duration {
	out := append([]time.Duration(nil), g.Work...)
	if !g.Accumulated {
		return out
	}
	for i := len(out) - 1; i > 0; i-- {
		out[i] -= out[i-1]
	}
	return out
}

// Total returns the planned work of the whole guide.
func (g *BurnDownGuide) Total() time.Duration {
	if len(g.Work) == 0 {
		return 0
	}
	if g.Accumulated {
		return g.Work[len(g.Work)-1]
	}
	var sum time.Duration
	for _, d := range g.Work {
		sum += d
	}
	return sum
}

// At returns the accumulated work at the end of day. Days before the guide
// are zero and days after it hold the total.
func (g *BurnDownGuide) At(day int) time.Duration {
	if day < 0 || len(g.Work) == 0 {
		return 0
	}
	if day >= len(g.Work) {
		return g.Total()
	}
	if g.Accumulated {
		return g.Work[day]
	}
	var sum time.Duration
	for _, d := range g.Work[:day+1] {
		sum += d
	}
	return sum
}

// Remaining returns the work still open at the end of each day, the curve a
// burn-down chart plots.
func (g *BurnDownGuide) Remaining() []time.Duration {
	total := g.Total()
	out := make([]time.Duration, len(g.Work))
	for i := range out {
		out[i] = total - g.At(i)
	}
	return out
}

// Date returns the calendar date of day index i.
func (g *BurnDownGuide) Date(i int) time.Time {
	return g.FirstDay.AddDate(0, 0, i)
}
