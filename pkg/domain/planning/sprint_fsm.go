package planning

import (
	"fmt"

	"github.com/felixgeelhaar/statekit"
)

// SprintContext carries state data for the sprint machine.
type SprintContext struct {
	SprintID string
	Guard    func(sprintID string, event string) bool
}

// SprintStateMachine drives the created -> started -> closed lifecycle.
type SprintStateMachine struct {
	interpreter *statekit.Interpreter[SprintContext]
}

// NewSprintStateMachine builds a machine positioned at initial. The optional
// guard can veto start and close events.
func NewSprintStateMachine(initial SprintStatus, sprintID string, guard func(string, string) bool) (*SprintStateMachine, error) {
	if !initial.IsValid() {
		return nil, fmt.Errorf("invalid sprint status %q", initial)
	}
	if guard == nil {
		guard = func(string, string) bool { return true }
	}

	builder := statekit.NewMachine[SprintContext]("sprint-machine").
		WithInitial(statekit.StateID(initial)).
		WithContext(SprintContext{
			SprintID: sprintID,
			Guard:    guard,
		}).
		WithGuard("sprintGuard", func(ctx SprintContext, e statekit.Event) bool {
			return ctx.Guard(ctx.SprintID, string(e.Type))
		})

	builder.State(statekit.StateID(SprintCreated)).
		On(EventStart).Target(statekit.StateID(SprintStarted)).Guard("sprintGuard").
		Done()

	builder.State(statekit.StateID(SprintStarted)).
		On(EventClose).Target(statekit.StateID(SprintClosed)).Guard("sprintGuard").
		Done()

	builder.State(statekit.StateID(SprintClosed)).
		On(EventReopen).Target(statekit.StateID(SprintStarted)).
		Done()

	machine, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build sprint state machine: %w", err)
	}

	interpreter := statekit.NewInterpreter(machine)
	interpreter.Start()

	return &SprintStateMachine{interpreter: interpreter}, nil
}

// Transition sends an event and reports an error if the state did not change.
func (sm *SprintStateMachine) Transition(event string) error {
	before := sm.Current()
	sm.interpreter.Send(statekit.Event{Type: statekit.EventType(event)})
	if sm.Current() != before {
		return nil
	}
	return fmt.Errorf("%w: the action '%s' is not allowed while the sprint is '%s'", ErrInvalidTransition, event, before)
}

// Current returns the current status.
func (sm *SprintStateMachine) Current() SprintStatus {
	return SprintStatus(sm.interpreter.State().Value)
}
