package planning

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Planning domain errors.
var (
	// ErrInvalidGraph indicates a malformed task set, such as duplicate IDs
	// or links to unknown tasks.
	ErrInvalidGraph = errors.New("invalid task graph")
	// ErrSchedulingCycle indicates a cycle through predecessor or parent links.
	ErrSchedulingCycle = errors.New("scheduling cycle detected")
	// ErrTaskNotFound indicates a task ID that is not part of the graph.
	ErrTaskNotFound = errors.New("task not found")
	// ErrInvalidSprint indicates sprint boundaries that cannot be used.
	ErrInvalidSprint = errors.New("invalid sprint")
	// ErrInvalidTransition indicates a lifecycle event the sprint status does not allow.
	ErrInvalidTransition = errors.New("transition not allowed")
)

// GraphError describes a malformed task set.
type GraphError struct {
	TaskID int64
	Msg    string
}

func (e *GraphError) Error() string {
	if e.TaskID != 0 {
		return fmt.Sprintf("%v: task %d: %s", ErrInvalidGraph, e.TaskID, e.Msg)
	}
	return fmt.Sprintf("%v: %s", ErrInvalidGraph, e.Msg)
}

func (e *GraphError) Unwrap() error { return ErrInvalidGraph }

func invalidf(id int64, format string, args ...any) error {
	return &GraphError{TaskID: id, Msg: fmt.Sprintf(format, args...)}
}

// SchedulingCycleError reports a cycle that makes the graph unschedulable.
// Path lists the task IDs along the cycle, starting and ending with the
// same task.
type SchedulingCycleError struct {
	Path      []int64
	Hierarchy bool
}

func (e *SchedulingCycleError) Error() string {
	parts := make([]string, len(e.Path))
	for i, id := range e.Path {
		parts[i] = strconv.FormatInt(id, 10)
	}
	kind := "predecessor"
	if e.Hierarchy {
		kind = "parent"
	}
	return fmt.Sprintf("%v: %s cycle %s", ErrSchedulingCycle, kind, strings.Join(parts, " -> "))
}

func (e *SchedulingCycleError) Unwrap() error { return ErrSchedulingCycle }
