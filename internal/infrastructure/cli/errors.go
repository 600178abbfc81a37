package cli

import (
	"errors"
	"fmt"

	"github.com/felixgeelhaar/sprintplan/internal/infrastructure/config"
	"github.com/felixgeelhaar/sprintplan/pkg/application"
	"github.com/felixgeelhaar/sprintplan/pkg/domain/calendar"
	"github.com/felixgeelhaar/sprintplan/pkg/domain/planning"
	"github.com/felixgeelhaar/sprintplan/pkg/domain/schedule"
	"github.com/felixgeelhaar/sprintplan/pkg/storage"
)

// ExitInvalid is returned when a workspace fails validation.
const ExitInvalid = 2

// CLIError wraps domain errors with user-facing messages and actionable hints.
type CLIError struct {
	Message  string
	Hint     string
	Err      error
	ExitCode int
}

func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a CLIError with a default exit code of 1.
func NewCLIError(msg, hint string, err error) *CLIError {
	return &CLIError{
		Message:  msg,
		Hint:     hint,
		Err:      err,
		ExitCode: 1,
	}
}

// MapError converts known domain errors into CLIErrors with actionable hints.
// Unmapped errors are returned as-is.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return err
	}

	var cycle *planning.SchedulingCycleError
	if errors.As(err, &cycle) {
		hint := "Remove one of the predecessor links along the cycle in tasks.yaml"
		if cycle.Hierarchy {
			hint = "Fix the parent fields along the cycle in tasks.yaml"
		}
		return NewCLIError("tasks cannot be scheduled", hint, err)
	}

	var graphErr *planning.GraphError
	if errors.As(err, &graphErr) {
		return NewCLIError("invalid task graph", "Run 'sprintplan validate' to list the problems", err)
	}

	switch {
	case errors.Is(err, storage.ErrNotInitialized):
		return NewCLIError("no sprint found", "Run 'sprintplan init <name>' to create a workspace", err)
	case errors.Is(err, application.ErrAlreadyInitialized):
		return NewCLIError("workspace already exists", "Edit .sprintplan/sprint.yaml or remove .sprintplan/ first", err)
	case errors.Is(err, planning.ErrInvalidTransition):
		return NewCLIError("sprint transition rejected", "Run 'sprintplan sprint status' to see the allowed actions", err)
	case errors.Is(err, planning.ErrInvalidSprint):
		return NewCLIError("invalid sprint", "Check start and end in .sprintplan/sprint.yaml", err)
	case errors.Is(err, calendar.ErrUnknownCalendar):
		return NewCLIError("unknown calendar", "Define it in calendars.yaml or fix the reference; 'sprintplan calendar show' lists calendars", err)
	case errors.Is(err, calendar.ErrUnknownRegion):
		return NewCLIError("unknown holiday region", fmt.Sprintf("Use one of %v", calendar.Regions()), err)
	case errors.Is(err, calendar.ErrNoCalendar), errors.Is(err, calendar.ErrNoWorkingTime):
		return NewCLIError("no usable calendar", "Check working_days and windows in calendars.yaml", err)
	case errors.Is(err, schedule.ErrNoAnchor):
		return NewCLIError("sprint has no start", "Set start in .sprintplan/sprint.yaml", err)
	case errors.Is(err, config.ErrInvalidConfig):
		return NewCLIError("invalid configuration", "Fix .sprintplan/config.yaml", err)
	}

	return err
}
