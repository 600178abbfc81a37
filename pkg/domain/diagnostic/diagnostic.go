// Package diagnostic collects non-fatal problems found while scheduling and
// aggregating, so a single bad task or worklog does not abort a run.
package diagnostic

import (
	"fmt"
	"sort"
	"strings"
)

// Severity ranks a diagnostic.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Code identifies the kind of problem.
type Code string

const (
	// CodeFinishBeforeStart marks a task whose stop is not after its start.
	CodeFinishBeforeStart Code = "finish-before-start"
	// CodeLunchGap marks a task starting or stopping inside a break between
	// work windows.
	CodeLunchGap Code = "lunch-gap"
	// CodeDayOutOfRange marks a task lying outside the sprint's day range.
	CodeDayOutOfRange Code = "day-out-of-range"
	// CodeWorklogOutOfBounds marks a worklog entry outside the day range.
	CodeWorklogOutOfBounds Code = "worklog-out-of-bounds"
	// CodeManualDependency marks a manual task starting before a predecessor finishes.
	CodeManualDependency Code = "manual-dependency"
	// CodeRelationViolated marks an automatic task starting before a predecessor finishes.
	CodeRelationViolated Code = "relation-violated"
	// CodeInvalidAvailability marks an availability fraction outside (0, 1].
	CodeInvalidAvailability Code = "invalid-availability"
	// CodeContainerWork marks a container that carries its own work or resource.
	CodeContainerWork Code = "container-work"
	// CodeUnscheduled marks a task without start or finish.
	CodeUnscheduled Code = "unscheduled"
)

// Diagnostic is one recovered problem.
type Diagnostic struct {
	Severity Severity `json:"severity" yaml:"severity"`
	Code     Code     `json:"code" yaml:"code"`
	TaskID   int64    `json:"task_id,omitempty" yaml:"task_id,omitempty"`
	Author   string   `json:"author,omitempty" yaml:"author,omitempty"`
	Message  string   `json:"message" yaml:"message"`
}

func (d Diagnostic) String() string {
	var b strings.Builder
	b.WriteString(string(d.Severity))
	b.WriteString(" [")
	b.WriteString(string(d.Code))
	b.WriteString("]")
	if d.TaskID != 0 {
		fmt.Fprintf(&b, " task %d", d.TaskID)
	}
	if d.Author != "" {
		fmt.Fprintf(&b, " author %s", d.Author)
	}
	b.WriteString(": ")
	b.WriteString(d.Message)
	return b.String()
}

// List is an ordered collection of diagnostics.
type List []Diagnostic

// Add appends a diagnostic.
func (l *List) Add(d Diagnostic) {
	*l = append(*l, d)
}

// Errorf records an error-severity diagnostic for a task.
func (l *List) Errorf(code Code, taskID int64, format string, args ...any) {
	l.Add(Diagnostic{Severity: SeverityError, Code: code, TaskID: taskID, Message: fmt.Sprintf(format, args...)})
}

// Warnf records a warning for a task.
func (l *List) Warnf(code Code, taskID int64, format string, args ...any) {
	l.Add(Diagnostic{Severity: SeverityWarning, Code: code, TaskID: taskID, Message: fmt.Sprintf(format, args...)})
}

// Merge appends all diagnostics of other.
func (l *List) Merge(other List) {
	*l = append(*l, other...)
}

// Len returns the number of diagnostics.
func (l List) Len() int { return len(l) }

// Empty reports whether no diagnostics were recorded.
func (l List) Empty() bool { return len(l) == 0 }

// ByCode returns the diagnostics with the given code.
func (l List) ByCode(code Code) List {
	var out List
	for _, d := range l {
		if d.Code == code {
			out = append(out, d)
		}
	}
	return out
}

// ForTask returns the diagnostics attached to a task.
func (l List) ForTask(id int64) List {
	var out List
	for _, d := range l {
		if d.TaskID == id {
			out = append(out, d)
		}
	}
	return out
}

// Counts returns the number of diagnostics per code.
func (l List) Counts() map[Code]int {
	out := make(map[Code]int)
	for _, d := range l {
		out[d.Code]++
	}
	return out
}

// Summary renders a one-line watermark text, e.g. for a chart banner.
func (l List) Summary() string {
	if len(l) == 0 {
		return ""
	}
	counts := l.Counts()
	codes := make([]string, 0, len(counts))
	for c := range counts {
		codes = append(codes, string(c))
	}
	sort.Strings(codes)
	parts := make([]string, len(codes))
	for i, c := range codes {
		parts[i] = fmt.Sprintf("%s: %d", c, counts[Code(c)])
	}
	return fmt.Sprintf("%d problems (%s)", len(l), strings.Join(parts, ", "))
}
