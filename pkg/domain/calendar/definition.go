package calendar

import (
	"fmt"
	"strings"
	"time"
)

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday, "mon": time.Monday, "tue": time.Tuesday, "wed": time.Wednesday,
	"thu": time.Thursday, "fri": time.Friday, "sat": time.Saturday,
}

// Definition is the persisted form of a calendar.
type Definition struct {
	Name        string      `yaml:"name" json:"name"`
	Timezone    string      `yaml:"timezone,omitempty" json:"timezone,omitempty"`
	WorkingDays []string    `yaml:"working_days,omitempty" json:"working_days,omitempty"`
	Windows     []Window    `yaml:"windows,omitempty" json:"windows,omitempty"`
	Exceptions  []Exception `yaml:"exceptions,omitempty" json:"exceptions,omitempty"`
	Holidays    string      `yaml:"holidays,omitempty" json:"holidays,omitempty"`
}

// ParseWeekday accepts "mon", "Monday" and similar spellings.
func ParseWeekday(s string) (time.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) >= 3 {
		if d, ok := weekdayNames[s[:3]]; ok {
			return d, nil
		}
	}
	return 0, fmt.Errorf("invalid weekday %q", s)
}

// Build compiles the definition. Missing working days and windows default
// to the standard Monday to Friday, 08:00-12:00 and 13:00-16:30 week.
// fallbackLoc is used when the definition has no time zone.
func (d Definition) Build(fallbackLoc *time.Location) (*Calendar, error) {
	loc := fallbackLoc
	if d.Timezone != "" {
		l, err := time.LoadLocation(d.Timezone)
		if err != nil {
			return nil, fmt.Errorf("calendar %q: %w", d.Name, err)
		}
		loc = l
	}
	std := Standard(d.Name, loc)
	days := std.WorkingWeekdays()
	if len(d.WorkingDays) > 0 {
		days = days[:0]
		for _, s := range d.WorkingDays {
			wd, err := ParseWeekday(s)
			if err != nil {
				return nil, fmt.Errorf("calendar %q: %w", d.Name, err)
			}
			days = append(days, wd)
		}
	}
	windows := d.Windows
	if len(windows) == 0 {
		windows = std.Windows()
	}
	c, err := New(d.Name, loc, days, windows)
	if err != nil {
		return nil, err
	}
	if d.Holidays != "" {
		p, err := NewRegionHolidays(d.Holidays)
		if err != nil {
			return nil, fmt.Errorf("calendar %q: %w", d.Name, err)
		}
		c = c.WithHolidays(p)
	}
	return c.WithExceptions(d.Exceptions...)
}
