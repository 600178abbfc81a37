package planning

import (
	"fmt"
	"time"
)

// Sprint is a time box of scheduled work. Start is the first milestone of
// the sprint; burn-down days are counted from its date.
type Sprint struct {
	ID              string       `json:"id" yaml:"id"`
	Name            string       `json:"name" yaml:"name"`
	Start           time.Time    `json:"start" yaml:"start"`
	End             time.Time    `json:"end" yaml:"end"`
	Status          SprintStatus `json:"status" yaml:"status"`
	DefaultCalendar string       `json:"default_calendar,omitempty" yaml:"default_calendar,omitempty"`
	// Now pins the reference instant for historical replay. Zero means the
	// wall clock.
	Now       time.Time `json:"now,omitempty" yaml:"now,omitempty"`
	StartedAt time.Time `json:"started_at,omitempty" yaml:"started_at,omitempty"`
	ClosedAt  time.Time `json:"closed_at,omitempty" yaml:"closed_at,omitempty"`
}

// Validate checks the sprint boundaries.
func (s *Sprint) Validate() error {
	if s.Start.IsZero() {
		return fmt.Errorf("%w: start is required", ErrInvalidSprint)
	}
	if !s.End.IsZero() && s.End.Before(s.Start) {
		return fmt.Errorf("%w: end %s is before start %s", ErrInvalidSprint,
			s.End.Format(time.RFC3339), s.Start.Format(time.RFC3339))
	}
	if s.Status != "" && !s.Status.IsValid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidSprint, s.Status)
	}
	return nil
}

// ReferenceTime returns the pinned Now, or wall if none is pinned.
func (s *Sprint) ReferenceTime(wall time.Time) time.Time {
	if !s.Now.IsZero() {
		return s.Now
	}
	return wall
}

// IsClosed reports whether the sprint is closed.
func (s *Sprint) IsClosed() bool {
	return s.Status == SprintClosed
}

// Apply runs a lifecycle event through the sprint state machine and records
// the transition time.
func (s *Sprint) Apply(event string, at time.Time) error {
	status := s.Status
	if status == "" {
		status = SprintCreated
	}
	sm, err := NewSprintStateMachine(status, s.ID, nil)
	if err != nil {
		return err
	}
	if err := sm.Transition(event); err != nil {
		return err
	}
	s.Status = sm.Current()
	switch event {
	case EventStart:
		s.StartedAt = at
	case EventClose:
		s.ClosedAt = at
	case EventReopen:
		s.ClosedAt = time.Time{}
	}
	return nil
}
