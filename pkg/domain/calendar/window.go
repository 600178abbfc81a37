package calendar

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Clock is a time of day expressed as an offset from midnight.
type Clock time.Duration

// NewClock builds a Clock from hour and minute.
func NewClock(hour, minute int) Clock {
	return Clock(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

// ParseClock parses "HH:MM" or "HH:MM:SS".
func ParseClock(s string) (Clock, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	limits := []int{24, 59, 59}
	var total time.Duration
	units := []time.Duration{time.Hour, time.Minute, time.Second}
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil || v < 0 || v > limits[i] {
			return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
		}
		total += time.Duration(v) * units[i]
	}
	if total > 24*time.Hour {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	return Clock(total), nil
}

func (c Clock) String() string {
	d := time.Duration(c)
	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	s := int(d % time.Minute / time.Second)
	if s != 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", h, m)
}

// On returns the instant of this time of day on the given date.
func (c Clock) On(day time.Time) time.Time {
	d := time.Duration(c)
	y, mo, dd := day.Date()
	return time.Date(y, mo, dd, int(d/time.Hour), int(d%time.Hour/time.Minute), int(d%time.Minute/time.Second), 0, day.Location())
}

// MarshalYAML implements yaml.Marshaler.
func (c Clock) MarshalYAML() (interface{}, error) {
	return c.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *Clock) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := ParseClock(value.Value)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (c Clock) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Clock) UnmarshalText(b []byte) error {
	parsed, err := ParseClock(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Window is a contiguous working interval inside a day, e.g. a morning shift.
type Window struct {
	Start Clock `yaml:"start" json:"start"`
	End   Clock `yaml:"end" json:"end"`
}

// Length returns the working time covered by the window.
func (w Window) Length() time.Duration {
	return time.Duration(w.End - w.Start)
}

// validateWindows checks that windows are non-empty, ordered and disjoint.
func validateWindows(ws []Window) error {
	for i, w := range ws {
		if w.End <= w.Start {
			return fmt.Errorf("%w: %s-%s ends before it starts", ErrInvalidWindow, w.Start, w.End)
		}
		if i > 0 && w.Start < ws[i-1].End {
			return fmt.Errorf("%w: %s-%s overlaps %s-%s", ErrInvalidWindow, w.Start, w.End, ws[i-1].Start, ws[i-1].End)
		}
	}
	return nil
}

func totalLength(ws []Window) time.Duration {
	var total time.Duration
	for _, w := range ws {
		total += w.Length()
	}
	return total
}
