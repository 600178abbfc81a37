package planning

import (
	"strings"
	"time"
)

// Mode selects how a task's start is determined.
type Mode string

const (
	// ModeAuto lets the scheduler place the task.
	ModeAuto Mode = "auto"
	// ModeManual pins the task to its ManualStart.
	ModeManual Mode = "manual"
)

// LinkKind classifies a predecessor link.
type LinkKind string

const (
	// LinkEnforced is a visible constraint. It is the zero value.
	LinkEnforced LinkKind = ""
	// LinkDisplay is shown but not enforced.
	LinkDisplay LinkKind = "display"
	// LinkLeveling is added by resource leveling. It is enforced but hidden.
	LinkLeveling LinkKind = "leveling"
)

// Enforceable reports whether the link constrains scheduling.
func (k LinkKind) Enforceable() bool {
	return k != LinkDisplay
}

// Visible reports whether the link is meant to be displayed.
func (k LinkKind) Visible() bool {
	return k != LinkLeveling
}

// PredecessorLink points from a task to a task that must finish first.
type PredecessorLink struct {
	PredecessorID int64    `json:"id" yaml:"id"`
	Kind          LinkKind `json:"kind,omitempty" yaml:"kind,omitempty"`
}

// deliveryBufferNames are task names that mark a non-cost schedule buffer.
var deliveryBufferNames = []string{
	"delivery buffer",
	"time contingency reserve",
}

// IsDeliveryBufferName reports whether a task name denotes a delivery buffer.
func IsDeliveryBufferName(name string) bool {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, b := range deliveryBufferNames {
		if strings.HasPrefix(n, b) {
			return true
		}
	}
	return false
}

// Task is a unit of scheduled work. Containers (tasks with children) derive
// their span from their children.
type Task struct {
	ID   int64  `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	// Work is the requested effort at full availability.
	Work time.Duration `json:"work" yaml:"work"`
	Mode Mode          `json:"mode,omitempty" yaml:"mode,omitempty"`
	// ManualStart is the fixed start of a manual task.
	ManualStart time.Time `json:"manual_start,omitempty" yaml:"manual_start,omitempty"`
	// Start and Finish are written by the scheduler.
	Start      time.Time `json:"start" yaml:"start"`
	Finish     time.Time `json:"finish" yaml:"finish"`
	ResourceID string    `json:"resource,omitempty" yaml:"resource,omitempty"`
	// Availability is the fraction of the resource spent on this task. Zero
	// means the resource's availability applies.
	Availability float64           `json:"availability,omitempty" yaml:"availability,omitempty"`
	ParentID     int64             `json:"parent,omitempty" yaml:"parent,omitempty"`
	Predecessors []PredecessorLink `json:"predecessors,omitempty" yaml:"predecessors,omitempty"`
	Milestone    bool              `json:"milestone,omitempty" yaml:"milestone,omitempty"`
	Critical     bool              `json:"critical" yaml:"critical"`
	// Buffer marks a task without cost impact.
	Buffer   bool   `json:"buffer,omitempty" yaml:"buffer,omitempty"`
	Calendar string `json:"calendar,omitempty" yaml:"calendar,omitempty"`
}

// IsManual reports whether the task is pinned to its manual start.
func (t *Task) IsManual() bool {
	return t.Mode == ModeManual && !t.ManualStart.IsZero()
}

// HasCostImpact reports whether the task counts toward the planned effort
// without buffers.
func (t *Task) HasCostImpact() bool {
	return !t.Buffer && !IsDeliveryBufferName(t.Name)
}

// IsScheduled reports whether start and finish have been assigned.
func (t *Task) IsScheduled() bool {
	return !t.Start.IsZero() && !t.Finish.IsZero()
}

// AddPredecessor appends a link unless the same predecessor is already linked.
func (t *Task) AddPredecessor(id int64, kind LinkKind) bool {
	for _, l := range t.Predecessors {
		if l.PredecessorID == id {
			return false
		}
	}
	t.Predecessors = append(t.Predecessors, PredecessorLink{PredecessorID: id, Kind: kind})
	return true
}

func (t Task) clone() Task {
	t.Predecessors = append([]PredecessorLink(nil), t.Predecessors...)
	return t
}
