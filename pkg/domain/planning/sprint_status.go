package planning

import (
	"fmt"
	"sort"
)

// SprintStatus is the lifecycle state of a sprint.
type SprintStatus string

const (
	SprintCreated SprintStatus = "created"
	SprintStarted SprintStatus = "started"
	SprintClosed  SprintStatus = "closed"
)

// Sprint lifecycle events.
const (
	EventStart  = "start"
	EventClose  = "close"
	EventReopen = "reopen"
)

// sprintTransitions maps currentStatus -> event -> targetStatus.
var sprintTransitions = map[SprintStatus]map[string]SprintStatus{
	SprintCreated: {
		EventStart: SprintStarted,
	},
	SprintStarted: {
		EventClose: SprintClosed,
	},
	SprintClosed: {
		EventReopen: SprintStarted,
	},
}

// AllSprintStatuses returns all valid sprint statuses.
func AllSprintStatuses() []SprintStatus {
	return []SprintStatus{SprintCreated, SprintStarted, SprintClosed}
}

// IsValid returns true if the status is a valid sprint status.
func (s SprintStatus) IsValid() bool {
	_, ok := sprintTransitions[s]
	return ok
}

// String returns the string representation of the status.
func (s SprintStatus) String() string {
	return string(s)
}

// CanTransitionWith returns true if the event can trigger a transition from this status.
func (s SprintStatus) CanTransitionWith(event string) bool {
	_, ok := sprintTransitions[s][event]
	return ok
}

// TransitionWith returns the target status for an event, or an error if not allowed.
func (s SprintStatus) TransitionWith(event string) (SprintStatus, error) {
	target, ok := sprintTransitions[s][event]
	if !ok {
		return s, fmt.Errorf("%w: event '%s' from sprint status '%s'", ErrInvalidTransition, event, s)
	}
	return target, nil
}

// ValidEvents returns the events that can be triggered from this status.
func (s SprintStatus) ValidEvents() []string {
	var events []string
	for e := range sprintTransitions[s] {
		events = append(events, e)
	}
	sort.Strings(events)
	return events
}
