package worklog

import (
	"fmt"
	"sort"
	"time"
)

// Entry is a piece of work logged by an author on a task.
type Entry struct {
	ID        string        `yaml:"id" json:"id"`
	AuthorID  string        `yaml:"author" json:"author"`
	TaskID    int64         `yaml:"task" json:"task"`
	Start     time.Time     `yaml:"start" json:"start"`
	TimeSpent time.Duration `yaml:"time_spent" json:"time_spent"`
	Comment   string        `yaml:"comment,omitempty" json:"comment,omitempty"`
}

// NewEntry creates a validated Entry.
func NewEntry(id, author string, taskID int64, start time.Time, spent time.Duration, comment string) (Entry, error) {
	e := Entry{ID: id, AuthorID: author, TaskID: taskID, Start: start, TimeSpent: spent, Comment: comment}
	if err := e.Validate(); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// Validate checks the required fields.
func (e *Entry) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("worklog ID must not be empty")
	}
	if e.AuthorID == "" {
		return fmt.Errorf("worklog %s: author must not be empty", e.ID)
	}
	if e.TaskID <= 0 {
		return fmt.Errorf("worklog %s: task must be set", e.ID)
	}
	if e.Start.IsZero() {
		return fmt.Errorf("worklog %s: start must be set", e.ID)
	}
	if e.TimeSpent <= 0 {
		return fmt.Errorf("worklog %s: time spent must be positive", e.ID)
	}
	return nil
}

// End returns the instant the logged work ends on the wall clock.
func (e *Entry) End() time.Time {
	return e.Start.Add(e.TimeSpent)
}

// Remaining is an author's estimate of the work left on a task.
type Remaining struct {
	AuthorID  string        `yaml:"author" json:"author"`
	TaskID    int64         `yaml:"task" json:"task"`
	Remaining time.Duration `yaml:"remaining" json:"remaining"`
}

// Log holds the worklogs and remaining estimates of a sprint, stored in
// .sprintplan/worklogs.yaml.
type Log struct {
	Entries   []Entry     `yaml:"entries" json:"entries"`
	Remaining []Remaining `yaml:"remaining,omitempty" json:"remaining,omitempty"`
}

// Add validates and appends an entry. IDs must be unique.
func (l *Log) Add(e Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	for _, existing := range l.Entries {
		if existing.ID == e.ID {
			return fmt.Errorf("worklog %s already exists", e.ID)
		}
	}
	l.Entries = append(l.Entries, e)
	return nil
}

// SetRemaining records or replaces the remaining work of an author on a task.
func (l *Log) SetRemaining(r Remaining) error {
	if r.AuthorID == "" || r.TaskID <= 0 {
		return fmt.Errorf("remaining work needs an author and a task")
	}
	if r.Remaining < 0 {
		return fmt.Errorf("remaining work cannot be negative")
	}
	for i := range l.Remaining {
		if l.Remaining[i].AuthorID == r.AuthorID && l.Remaining[i].TaskID == r.TaskID {
			l.Remaining[i] = r
			return nil
		}
	}
	l.Remaining = append(l.Remaining, r)
	return nil
}

// ForTask returns the entries logged on a task.
func (l *Log) ForTask(taskID int64) []Entry {
	var out []Entry
	for _, e := range l.Entries {
		if e.TaskID == taskID {
			out = append(out, e)
		}
	}
	return out
}

// Authors returns every author that logged work or holds remaining work.
func (l *Log) Authors() []string {
	seen := make(map[string]bool)
	for _, e := range l.Entries {
		seen[e.AuthorID] = true
	}
	for _, r := range l.Remaining {
		seen[r.AuthorID] = true
	}
	out := make([]string, 0, len(seen))
	for a := range seen {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}

// TotalSpent returns the sum of all logged time.
func (l *Log) TotalSpent() time.Duration {
	var total time.Duration
	for _, e := range l.Entries {
		total += e.TimeSpent
	}
	return total
}
