package analytics

import (
	"math"
	"time"

	"github.com/felixgeelhaar/sprintplan/pkg/domain/calendar"
)

// TrendDirection indicates whether the sprint is catching up or falling
// behind its guide.
type TrendDirection string

const (
	// TrendAccelerating indicates work ahead of the guide.
	TrendAccelerating TrendDirection = "accelerating"
	// TrendDecelerating indicates work behind the guide.
	TrendDecelerating TrendDirection = "decelerating"
	// TrendStable indicates work close to the guide.
	TrendStable TrendDirection = "stable"
)

// stableBand is the delay fraction within which a sprint counts as on track.
const stableBand = 0.05

// MetricsParams are the inputs of ComputeMetrics.
type MetricsParams struct {
	Calendar *calendar.Calendar
	Start    time.Time
	End      time.Time
	Now      time.Time
	// Guide is the planned curve the sprint is measured against.
	Guide     *BurnDownGuide
	Worked    time.Duration
	Remaining time.Duration
}

// SprintMetrics summarizes a sprint's progress at a reference instant.
type SprintMetrics struct {
	Worked    time.Duration `json:"worked"`
	Remaining time.Duration `json:"remaining"`
	Estimated time.Duration `json:"estimated"`
	// Progress is the worked share of the estimated effort.
	Progress float64 `json:"progress"`
	// ExpectedProgress is the guide's share of its total at Now.
	ExpectedProgress float64 `json:"expected_progress"`
	// ManDelay is the expected effort at Now minus the worked effort.
	ManDelay          time.Duration `json:"man_delay"`
	DelayFraction     float64       `json:"delay_fraction"`
	Efficiency        float64       `json:"efficiency"`
	OptimalEfficiency float64       `json:"optimal_efficiency"`
	// ExtrapolatedRelease is End moved by the delay in working days.
	ExtrapolatedRelease time.Time      `json:"extrapolated_release"`
	Trend               TrendDirection `json:"trend"`
}

// IsPositive reports whether the sprint is ahead of its guide.
func (m SprintMetrics) IsPositive() bool {
	return m.Trend == TrendAccelerating
}

// IsNegative reports whether the sprint is behind its guide.
func (m SprintMetrics) IsNegative() bool {
	return m.Trend == TrendDecelerating
}

// ComputeMetrics derives the progress metrics of a sprint. Efficiency is
// the worked effort per nominal working day elapsed; optimal efficiency is
// the estimate per nominal working day of the sprint.
func ComputeMetrics(p MetricsParams) SprintMetrics {
	m := SprintMetrics{
		Worked:    p.Worked,
		Remaining: p.Remaining,
		Estimated: p.Worked + p.Remaining,
	}
	if m.Estimated > 0 {
		m.Progress = ratio(p.Worked, m.Estimated)
	}
	m.ExpectedProgress = expectedProgress(p)
	m.ManDelay = time.Duration(math.Round(m.ExpectedProgress*float64(m.Estimated))) - p.Worked
	m.ManDelay = m.ManDelay.Truncate(time.Second)
	if m.Estimated > 0 {
		m.DelayFraction = ratio(m.ManDelay, m.Estimated)
	}

	m.ExtrapolatedRelease = p.End
	if p.Calendar != nil {
		day := p.Calendar.NominalDay()
		if elapsed := p.Calendar.WorkingDaysIncluding(p.Start, earliest(p.Now, p.End)); elapsed > 0 && day > 0 {
			m.Efficiency = ratio(p.Worked, time.Duration(elapsed)*day)
		}
		if total := p.Calendar.WorkingDaysIncluding(p.Start, p.End); total > 0 && day > 0 {
			m.OptimalEfficiency = ratio(m.Estimated, time.Duration(total)*day)
		}
		if m.ManDelay > 0 && day > 0 {
			delayDays := int(math.Ceil(ratio(m.ManDelay, day)))
			m.ExtrapolatedRelease = p.Calendar.AddWorkingDays(p.End, delayDays)
		}
	}

	switch {
	case m.DelayFraction > stableBand:
		m.Trend = TrendDecelerating
	case m.DelayFraction < -stableBand:
		m.Trend = TrendAccelerating
	default:
		m.Trend = TrendStable
	}
	return m
}

func expectedProgress(p MetricsParams) float64 {
	if !p.End.IsZero() && p.Now.After(p.End) {
		return 1
	}
	if p.Guide != nil && p.Guide.Total() > 0 {
		idx := calendar.DayOffset(p.Guide.FirstDay, p.Now, p.Guide.FirstDay.Location())
		return ratio(p.Guide.At(idx), p.Guide.Total())
	}
	if p.Calendar == nil {
		return 0
	}
	total := p.Calendar.WorkingDaysIncluding(p.Start, p.End)
	if total == 0 {
		return 0
	}
	return float64(p.Calendar.WorkingDaysIncluding(p.Start, p.Now)) / float64(total)
}

func earliest(a, b time.Time) time.Time {
	if b.IsZero() || a.Before(b) {
		return a
	}
	return b
}

func ratio(a, b time.Duration) float64 {
	return float64(a) / float64(b)
}
