package calendar

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// DateLayout is the layout used for calendar dates in exceptions and keys.
const DateLayout = "2006-01-02"

// ExceptionKind classifies a dated calendar exception.
type ExceptionKind string

const (
	ExceptionHoliday  ExceptionKind = "holiday"
	ExceptionVacation ExceptionKind = "vacation"
	ExceptionSick     ExceptionKind = "sick"
	ExceptionTrip     ExceptionKind = "trip"
	// ExceptionSpecial marks a date with its own working windows. Without
	// windows it is a non-working day.
	ExceptionSpecial ExceptionKind = "special"
)

// IsValid checks if the exception kind is a recognized value.
func (k ExceptionKind) IsValid() bool {
	switch k {
	case ExceptionHoliday, ExceptionVacation, ExceptionSick, ExceptionTrip, ExceptionSpecial:
		return true
	}
	return false
}

// Exception overrides the regular working time of one date or an inclusive
// range of dates.
type Exception struct {
	Date    string        `yaml:"date" json:"date"`
	Until   string        `yaml:"until,omitempty" json:"until,omitempty"`
	Label   string        `yaml:"label,omitempty" json:"label,omitempty"`
	Kind    ExceptionKind `yaml:"kind" json:"kind"`
	Windows []Window      `yaml:"windows,omitempty" json:"windows,omitempty"`
}

// HolidayProvider reports public holidays for a date.
type HolidayProvider interface {
	Holiday(date time.Time) (name string, ok bool)
}

// Calendar defines the working time of a resource: working weekdays, daily
// work windows, dated exceptions and optional public holidays. A Calendar is
// immutable once built; the With* methods return modified copies.
type Calendar struct {
	name       string
	loc        *time.Location
	workdays   [7]bool
	windows    []Window
	exceptions map[string]Exception
	holidays   HolidayProvider
}

// New creates a calendar. A nil location means UTC.
func New(name string, loc *time.Location, workdays []time.Weekday, windows []Window) (*Calendar, error) {
	if loc == nil {
		loc = time.UTC
	}
	if err := validateWindows(windows); err != nil {
		return nil, fmt.Errorf("calendar %q: %w", name, err)
	}
	c := &Calendar{
		name:       name,
		loc:        loc,
		windows:    append([]Window(nil), windows...),
		exceptions: make(map[string]Exception),
	}
	for _, d := range workdays {
		c.workdays[d] = true
	}
	if len(windows) == 0 || len(workdays) == 0 {
		return nil, fmt.Errorf("calendar %q: %w", name, ErrNoWorkingTime)
	}
	return c, nil
}

// Standard returns a Monday to Friday calendar with a morning window
// 08:00-12:00 and an afternoon window 13:00-16:30.
func Standard(name string, loc *time.Location) *Calendar {
	c, _ := New(name, loc,
		[]time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday},
		[]Window{
			{Start: NewClock(8, 0), End: NewClock(12, 0)},
			{Start: NewClock(13, 0), End: NewClock(16, 30)},
		})
	return c
}

// Name returns the calendar name.
func (c *Calendar) Name() string { return c.name }

// Location returns the time zone the calendar's windows are expressed in.
func (c *Calendar) Location() *time.Location { return c.loc }

// Windows returns the regular daily windows.
func (c *Calendar) Windows() []Window { return append([]Window(nil), c.windows...) }

// WorkingWeekdays returns the regular working weekdays in order.
func (c *Calendar) WorkingWeekdays() []time.Weekday {
	var out []time.Weekday
	for d, ok := range c.workdays {
		if ok {
			out = append(out, time.Weekday(d))
		}
	}
	return out
}

// Exceptions returns the per-date exceptions sorted by date.
func (c *Calendar) Exceptions() []Exception {
	out := make([]Exception, 0, len(c.exceptions))
	for _, e := range c.exceptions {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

func (c *Calendar) clone() *Calendar {
	cp := *c
	cp.windows = append([]Window(nil), c.windows...)
	cp.exceptions = make(map[string]Exception, len(c.exceptions))
	for k, v := range c.exceptions {
		cp.exceptions[k] = v
	}
	return &cp
}

// WithName returns a copy of the calendar with a different name.
func (c *Calendar) WithName(name string) *Calendar {
	cp := c.clone()
	cp.name = name
	return cp
}

// WithExceptions returns a copy of the calendar with the exceptions added.
// Ranges are expanded to one entry per date; later entries win.
func (c *Calendar) WithExceptions(excs ...Exception) (*Calendar, error) {
	cp := c.clone()
	for _, e := range excs {
		if e.Kind == "" {
			e.Kind = ExceptionHoliday
		}
		if !e.Kind.IsValid() {
			return nil, fmt.Errorf("calendar %q: invalid exception kind %q", c.name, e.Kind)
		}
		if err := validateWindows(e.Windows); err != nil {
			return nil, fmt.Errorf("calendar %q exception %s: %w", c.name, e.Date, err)
		}
		first, err := time.ParseInLocation(DateLayout, e.Date, c.loc)
		if err != nil {
			return nil, fmt.Errorf("calendar %q: exception date %q: %w", c.name, e.Date, err)
		}
		last := first
		if e.Until != "" {
			if last, err = time.ParseInLocation(DateLayout, e.Until, c.loc); err != nil {
				return nil, fmt.Errorf("calendar %q: exception until %q: %w", c.name, e.Until, err)
			}
			if last.Before(first) {
				return nil, fmt.Errorf("calendar %q: exception %s ends before it starts", c.name, e.Date)
			}
		}
		for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
			single := e
			single.Date = d.Format(DateLayout)
			single.Until = ""
			cp.exceptions[single.Date] = single
		}
	}
	return cp, nil
}

// WithHolidays returns a copy of the calendar that treats the provider's
// holidays as non-working days.
func (c *Calendar) WithHolidays(p HolidayProvider) *Calendar {
	cp := c.clone()
	cp.holidays = p
	return cp
}

// Midnight returns the start of the calendar date containing t.
func (c *Calendar) Midnight(t time.Time) time.Time {
	y, m, d := t.In(c.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, c.loc)
}

func (c *Calendar) key(t time.Time) string {
	return t.In(c.loc).Format(DateLayout)
}

// IsWorkingDate reports whether any working time exists on the date of t.
func (c *Calendar) IsWorkingDate(t time.Time) bool {
	return len(c.WorkWindows(t)) > 0
}

// WorkWindows returns the ordered work windows of the date containing t.
// Non-working dates return nil.
func (c *Calendar) WorkWindows(t time.Time) []Window {
	if e, ok := c.exceptions[c.key(t)]; ok {
		if e.Kind == ExceptionSpecial {
			return e.Windows
		}
		return nil
	}
	if c.holidays != nil {
		if _, ok := c.holidays.Holiday(c.Midnight(t)); ok {
			return nil
		}
	}
	if !c.workdays[t.In(c.loc).Weekday()] {
		return nil
	}
	return c.windows
}

// Exception returns the label of the exception or holiday on the date of t.
func (c *Calendar) Exception(t time.Time) (string, bool) {
	if e, ok := c.exceptions[c.key(t)]; ok {
		if e.Label != "" {
			return e.Label, true
		}
		return string(e.Kind), true
	}
	if c.holidays != nil {
		if name, ok := c.holidays.Holiday(c.Midnight(t)); ok {
			return name, true
		}
	}
	return "", false
}

// NominalDay returns the regular working time of one day.
func (c *Calendar) NominalDay() time.Duration {
	return totalLength(c.windows)
}

// DayWork returns the working time available on the date of t.
func (c *Calendar) DayWork(t time.Time) time.Duration {
	return totalLength(c.WorkWindows(t))
}

// Describe renders a one-line summary of the calendar.
func (c *Calendar) Describe() string {
	var days []string
	for _, d := range c.WorkingWeekdays() {
		days = append(days, d.String()[:3])
	}
	var ws []string
	for _, w := range c.windows {
		ws = append(ws, w.Start.String()+"-"+w.End.String())
	}
	return fmt.Sprintf("%s [%s] %s (%s, %d exceptions)",
		c.name, strings.Join(days, ","), strings.Join(ws, " "), c.loc, len(c.exceptions))
}
