package cli

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/sprintplan/internal/infrastructure/config"
	"github.com/felixgeelhaar/sprintplan/pkg/application"
	"github.com/felixgeelhaar/sprintplan/pkg/domain/calendar"
	"github.com/felixgeelhaar/sprintplan/pkg/domain/planning"
	"github.com/felixgeelhaar/sprintplan/pkg/domain/schedule"
	"github.com/felixgeelhaar/sprintplan/pkg/storage"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		message string
		hint    string
	}{
		{"not initialized", fmt.Errorf("load sprint: %w", storage.ErrNotInitialized), "no sprint found", "sprintplan init"},
		{"already initialized", application.ErrAlreadyInitialized, "workspace already exists", "remove .sprintplan/"},
		{"transition", planning.ErrInvalidTransition, "sprint transition rejected", "sprint status"},
		{"invalid sprint", planning.ErrInvalidSprint, "invalid sprint", "sprint.yaml"},
		{"unknown calendar", fmt.Errorf("%w: %q", calendar.ErrUnknownCalendar, "night"), "unknown calendar", "calendar show"},
		{"unknown region", calendar.ErrUnknownRegion, "unknown holiday region", "Use one of"},
		{"no working time", calendar.ErrNoWorkingTime, "no usable calendar", "working_days"},
		{"no anchor", schedule.ErrNoAnchor, "sprint has no start", "sprint.yaml"},
		{"config", config.ErrInvalidConfig, "invalid configuration", "config.yaml"},
		{"cycle", &planning.SchedulingCycleError{Path: []int64{1, 2, 1}}, "tasks cannot be scheduled", "predecessor links"},
		{"hierarchy cycle", &planning.SchedulingCycleError{Path: []int64{1, 2, 1}, Hierarchy: true}, "tasks cannot be scheduled", "parent fields"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := MapError(tt.err)
			var cliErr *CLIError
			require.True(t, errors.As(err, &cliErr))
			assert.Equal(t, tt.message, cliErr.Message)
			assert.Contains(t, cliErr.Hint, tt.hint)
			assert.Equal(t, 1, cliErr.ExitCode)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestMapError_Passthrough(t *testing.T) {
	assert.NoError(t, MapError(nil))

	plain := errors.New("disk on fire")
	assert.Same(t, plain, MapError(plain))

	wrapped := fmt.Errorf("wrapped: %w", NewCLIError("already mapped", "", plain))
	assert.Equal(t, wrapped, MapError(wrapped))
}

func TestCLIError(t *testing.T) {
	err := NewCLIError("sprint transition rejected", "hint", planning.ErrInvalidTransition)
	assert.Equal(t, "sprint transition rejected: "+planning.ErrInvalidTransition.Error(), err.Error())
	assert.ErrorIs(t, err, planning.ErrInvalidTransition)

	bare := &CLIError{Message: "workspace is invalid", ExitCode: ExitInvalid}
	assert.Equal(t, "workspace is invalid", bare.Error())
}
