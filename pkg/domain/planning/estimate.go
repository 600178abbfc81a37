package planning

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// estimatePart matches one component of an estimate like "4h", "2d", "1w", "30m".
var estimatePart = regexp.MustCompile(`^(\d+(?:\.\d+)?)(m|h|d|w)$`)

// Duration constants for estimates
const (
	DefaultHoursPerDay = 7.5
	DaysPerWeek        = 5
)

// Estimate represents requested work for a task.
type Estimate struct {
	raw      string
	duration time.Duration
	day      time.Duration
}

// ParseEstimate parses an estimate using a 7.5 hour work day.
// Supported formats: "30m", "4h", "2d", "1w" and combinations such as "1w 2d 3h".
func ParseEstimate(s string) (Estimate, error) {
	return ParseEstimateWithDay(s, time.Duration(DefaultHoursPerDay*float64(time.Hour)))
}

// ParseEstimateWithDay parses an estimate where one day is day long.
func ParseEstimateWithDay(s string, day time.Duration) (Estimate, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return Estimate{day: day}, nil
	}
	if day <= 0 {
		return Estimate{}, fmt.Errorf("invalid work day length: %s", day)
	}

	var total time.Duration
	for _, part := range strings.Fields(s) {
		matches := estimatePart.FindStringSubmatch(part)
		if matches == nil {
			return Estimate{}, fmt.Errorf("invalid estimate format: %s (expected: 30m, 4h, 2d, 1w or a combination)", s)
		}
		value, err := strconv.ParseFloat(matches[1], 64)
		if err != nil {
			return Estimate{}, fmt.Errorf("invalid estimate value: %s", matches[1])
		}
		switch matches[2] {
		case "m":
			total += time.Duration(value * float64(time.Minute))
		case "h":
			total += time.Duration(value * float64(time.Hour))
		case "d":
			total += time.Duration(value * float64(day))
		case "w":
			total += time.Duration(value * DaysPerWeek * float64(day))
		}
	}

	return Estimate{raw: s, duration: total.Round(time.Second), day: day}, nil
}

// MustParseEstimate parses an estimate or panics. Use only in tests.
func MustParseEstimate(s string) Estimate {
	e, err := ParseEstimate(s)
	if err != nil {
		panic(err)
	}
	return e
}

// String returns the original string representation of the estimate.
func (e Estimate) String() string {
	return e.raw
}

// Duration returns the work the estimate stands for.
func (e Estimate) Duration() time.Duration {
	return e.duration
}

// Hours returns the estimate in hours.
func (e Estimate) Hours() float64 {
	return e.duration.Hours()
}

// Days returns the estimate in work days.
func (e Estimate) Days() float64 {
	if e.day <= 0 {
		return 0
	}
	return float64(e.duration) / float64(e.day)
}

// IsZero returns true if the estimate is empty.
func (e Estimate) IsZero() bool {
	return e.raw == ""
}

// FormatWork renders a work duration in days or hours of the given day length.
func FormatWork(d, day time.Duration) string {
	if day <= 0 || d < day {
		return fmt.Sprintf("%.1fh", d.Hours())
	}
	return fmt.Sprintf("%.1fd", float64(d)/float64(day))
}

// FormatEstimate renders work as an estimate string that ParseEstimateWithDay
// reads back with the same day length.
func FormatEstimate(d, day time.Duration) string {
	if d <= 0 {
		return ""
	}
	var parts []string
	if day > 0 {
		if days := d / day; days > 0 {
			parts = append(parts, fmt.Sprintf("%dd", days))
			d -= days * day
		}
	}
	if hours := d / time.Hour; hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
		d -= hours * time.Hour
	}
	if d > 0 {
		parts = append(parts, strconv.FormatFloat(d.Minutes(), 'f', -1, 64)+"m")
	}
	return strings.Join(parts, " ")
}
