package calendar

import "errors"

// Calendar domain errors.
var (
	// ErrNoCalendar indicates no calendar could be resolved for a task or resource.
	ErrNoCalendar = errors.New("no calendar available")
	// ErrUnknownCalendar indicates a calendar name that is not defined.
	ErrUnknownCalendar = errors.New("unknown calendar")
	// ErrNoWorkingTime indicates a calendar without any working window.
	ErrNoWorkingTime = errors.New("calendar has no working time")
	// ErrInvalidWindow indicates a malformed or overlapping work window.
	ErrInvalidWindow = errors.New("invalid work window")
	// ErrInvalidClock indicates a time of day that cannot be parsed.
	ErrInvalidClock = errors.New("invalid time of day")
	// ErrUnknownRegion indicates a holiday region that is not supported.
	ErrUnknownRegion = errors.New("unknown holiday region")
)
