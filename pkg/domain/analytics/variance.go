package analytics

import (
	"time"
)

// VariancePoint compares planned and actual work on one day.
type VariancePoint struct {
	Day      int           `json:"day"`
	Date     time.Time     `json:"date"`
	Planned  time.Duration `json:"planned"`
	Actual   time.Duration `json:"actual"`
	Variance time.Duration `json:"variance"`
}

// Variance returns actual minus planned accumulated work for each day of the
// guide up to and including upTo. A negative upTo covers the whole guide.
func Variance(guide *BurnDownGuide, actual AuthorContribution, upTo int) []VariancePoint {
	if guide == nil {
		return nil
	}
	last := guide.Len() - 1
	if upTo >= 0 && upTo < last {
		last = upTo
	}
	out := make([]VariancePoint, 0, last+1)
	for i := 0; i <= last; i++ {
		var worked time.Duration
		if i < len(actual.Days) {
			worked = actual.Days[i].Cumulative
		}
		planned := guide.At(i)
		out = append(out, VariancePoint{
			Day:      i,
			Date:     guide.Date(i),
			Planned:  planned,
			Actual:   worked,
			Variance: worked - planned,
		})
	}
	return out
}
