package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/felixgeelhaar/sprintplan/pkg/domain/calendar"
	"github.com/felixgeelhaar/sprintplan/pkg/domain/diagnostic"
	"github.com/felixgeelhaar/sprintplan/pkg/domain/worklog"
)

// Transaction is one worklog entry booked on a day, kept for drill-down.
type Transaction struct {
	EntryID   string        `json:"entry_id"`
	AuthorID  string        `json:"author"`
	TaskID    int64         `json:"task_id"`
	Start     time.Time     `json:"start"`
	TimeSpent time.Duration `json:"time_spent"`
	Comment   string        `json:"comment,omitempty"`
}

// DayWork is the cumulative work up to and including a day together with
// the entries booked on it.
type DayWork struct {
	Cumulative   time.Duration `json:"cumulative"`
	Transactions []Transaction `json:"transactions,omitempty"`
}

// AuthorContribution is the actual-work series of one author. The total
// series uses an empty AuthorID.
type AuthorContribution struct {
	AuthorID  string        `json:"author,omitempty"`
	Worked    time.Duration `json:"worked"`
	Remaining time.Duration `json:"remaining"`
	Days      []DayWork     `json:"days"`
}

// Series returns the cumulative values by day.
func (a AuthorContribution) Series() []time.Duration {
	out := make([]time.Duration, len(a.Days))
	for i, d := range a.Days {
		out[i] = d.Cumulative
	}
	return out
}

// ActualParams are the explicit inputs of an aggregation run.
type ActualParams struct {
	// FirstDay is the sprint's first milestone; its date is day 0.
	FirstDay time.Time
	// Days is the length of the series, usually the guide length.
	Days int
	// Now is the reference instant. Days after it stay zero. Zero means no
	// limit.
	Now time.Time
	// Location fixes calendar dates. Defaults to the location of FirstDay.
	Location *time.Location
	// Authors are always present in the result, even without entries.
	Authors []string
}

// ActualResult is the outcome of an aggregation run.
type ActualResult struct {
	Authors     []AuthorContribution `json:"authors"`
	Total       AuthorContribution   `json:"total"`
	OutOfBounds int                  `json:"out_of_bounds"`
	Diagnostics diagnostic.List      `json:"diagnostics,omitempty"`
}

// Watermark returns the warning line for out-of-bounds work, or an empty
// string when every entry fit.
func (r *ActualResult) Watermark() string {
	if r.OutOfBounds == 0 {
		return ""
	}
	return fmt.Sprintf("Work outside allowed time boundaries occurred %d times.", r.OutOfBounds)
}

// Author returns the contribution of one author.
func (r *ActualResult) Author(id string) (AuthorContribution, bool) {
	for _, a := range r.Authors {
		if a.AuthorID == id {
			return a, true
		}
	}
	return AuthorContribution{}, false
}

// ActualWorkAggregator builds cumulative actual-work series from worklogs.
type ActualWorkAggregator struct{}

// NewActualWorkAggregator creates an ActualWorkAggregator.
func NewActualWorkAggregator() *ActualWorkAggregator {
	return &ActualWorkAggregator{}
}

// Aggregate books every entry on its day relative to FirstDay. Entries
// before day 0 are booked on day 0. Entries after Now or past the last day
// are counted as out of bounds: their time counts toward the author's
// Worked but not toward the series.
func (a *ActualWorkAggregator) Aggregate(entries []worklog.Entry, remaining []worklog.Remaining, p ActualParams) *ActualResult {
	loc := p.Location
	if loc == nil {
		loc = p.FirstDay.Location()
	}
	days := p.Days
	if days < 0 {
		days = 0
	}
	lastIdx := days - 1
	if !p.Now.IsZero() {
		if n := calendar.DayOffset(p.FirstDay, p.Now, loc); n < lastIdx {
			lastIdx = n
		}
	}

	res := &ActualResult{}
	byAuthor := make(map[string]*AuthorContribution)
	author := func(id string) *AuthorContribution {
		c, ok := byAuthor[id]
		if !ok {
			c = &AuthorContribution{AuthorID: id, Days: make([]DayWork, days)}
			byAuthor[id] = c
		}
		return c
	}
	for _, id := range p.Authors {
		author(id)
	}
	for _, r := range remaining {
		author(r.AuthorID).Remaining += r.Remaining
	}

	sorted := append([]worklog.Entry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Start.Equal(sorted[j].Start) {
			return sorted[i].Start.Before(sorted[j].Start)
		}
		return sorted[i].ID < sorted[j].ID
	})

	daily := make(map[string][]time.Duration)
	for _, e := range sorted {
		if e.TimeSpent <= 0 {
			continue
		}
		c := author(e.AuthorID)
		c.Worked += e.TimeSpent

		idx := calendar.DayOffset(p.FirstDay, e.Start, loc)
		if idx < 0 {
			idx = 0
		}
		if idx > lastIdx || (!p.Now.IsZero() && e.Start.After(p.Now)) {
			res.OutOfBounds++
			res.Diagnostics.Add(diagnostic.Diagnostic{
				Severity: diagnostic.SeverityWarning,
				Code:     diagnostic.CodeWorklogOutOfBounds,
				TaskID:   e.TaskID,
				Author:   e.AuthorID,
				Message:  fmt.Sprintf("worklog %s at %s falls outside the sprint days", e.ID, e.Start.Format(time.RFC3339)),
			})
			continue
		}
		if daily[e.AuthorID] == nil {
			daily[e.AuthorID] = make([]time.Duration, days)
		}
		daily[e.AuthorID][idx] += e.TimeSpent
		c.Days[idx].Transactions = append(c.Days[idx].Transactions, Transaction{
			EntryID:   e.ID,
			AuthorID:  e.AuthorID,
			TaskID:    e.TaskID,
			Start:     e.Start,
			TimeSpent: e.TimeSpent,
			Comment:   e.Comment,
		})
	}
	if res.OutOfBounds > 0 {
		res.Diagnostics.Warnf(diagnostic.CodeWorklogOutOfBounds, 0, "%s", res.Watermark())
	}

	res.Total = AuthorContribution{Days: make([]DayWork, days)}
	for _, c := range byAuthor {
		var cum time.Duration
		for i := 0; i <= lastIdx; i++ {
			if d := daily[c.AuthorID]; d != nil {
				cum += d[i]
			}
			c.Days[i].Cumulative = cum
			res.Total.Days[i].Cumulative += cum
			res.Total.Days[i].Transactions = append(res.Total.Days[i].Transactions, c.Days[i].Transactions...)
		}
		res.Total.Worked += c.Worked
		res.Total.Remaining += c.Remaining
		res.Authors = append(res.Authors, *c)
	}
	for i := range res.Total.Days {
		sortTransactions(res.Total.Days[i].Transactions)
	}

	sort.Slice(res.Authors, func(i, j int) bool {
		ai := res.Authors[i].Worked + res.Authors[i].Remaining
		aj := res.Authors[j].Worked + res.Authors[j].Remaining
		if ai != aj {
			return ai > aj
		}
		return res.Authors[i].AuthorID < res.Authors[j].AuthorID
	})
	return res
}

func sortTransactions(ts []Transaction) {
	sort.SliceStable(ts, func(i, j int) bool {
		if !ts[i].Start.Equal(ts[j].Start) {
			return ts[i].Start.Before(ts[j].Start)
		}
		return ts[i].EntryID < ts[j].EntryID
	})
}
