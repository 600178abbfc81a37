package storage

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/felixgeelhaar/sprintplan/pkg/domain/planning"
)

// TaskRecord is the persisted form of a task. Work is an estimate such as
// "2d 4h" measured in the workspace's day length.
type TaskRecord struct {
	ID           int64                      `yaml:"id"`
	Name         string                     `yaml:"name"`
	Work         string                     `yaml:"work,omitempty"`
	Mode         planning.Mode              `yaml:"mode,omitempty"`
	ManualStart  time.Time                  `yaml:"manual_start,omitempty"`
	Resource     string                     `yaml:"resource,omitempty"`
	Availability float64                    `yaml:"availability,omitempty"`
	Parent       int64                      `yaml:"parent,omitempty"`
	Predecessors []planning.PredecessorLink `yaml:"predecessors,omitempty"`
	Milestone    bool                       `yaml:"milestone,omitempty"`
	Buffer       bool                       `yaml:"buffer,omitempty"`
	Calendar     string                     `yaml:"calendar,omitempty"`
}

// TasksDocument is the layout of tasks.yaml.
type TasksDocument struct {
	Tasks []TaskRecord `yaml:"tasks"`
}

// ToTask converts the record, parsing Work with the given day length.
func (rec TaskRecord) ToTask(day time.Duration) (planning.Task, error) {
	est, err := planning.ParseEstimateWithDay(rec.Work, day)
	if err != nil {
		return planning.Task{}, fmt.Errorf("task %d: %w", rec.ID, err)
	}
	return planning.Task{
		ID:           rec.ID,
		Name:         rec.Name,
		Work:         est.Duration(),
		Mode:         rec.Mode,
		ManualStart:  rec.ManualStart,
		ResourceID:   rec.Resource,
		Availability: rec.Availability,
		ParentID:     rec.Parent,
		Predecessors: append([]planning.PredecessorLink(nil), rec.Predecessors...),
		Milestone:    rec.Milestone,
		Buffer:       rec.Buffer,
		Calendar:     rec.Calendar,
	}, nil
}

// RecordFromTask converts a task back to its persisted form. Computed
// timing and leveling links are not persisted.
func RecordFromTask(t planning.Task, day time.Duration) TaskRecord {
	var links []planning.PredecessorLink
	for _, l := range t.Predecessors {
		if l.Kind != planning.LinkLeveling {
			links = append(links, l)
		}
	}
	rec := TaskRecord{
		ID:           t.ID,
		Name:         t.Name,
		Mode:         t.Mode,
		ManualStart:  t.ManualStart,
		Resource:     t.ResourceID,
		Availability: t.Availability,
		Parent:       t.ParentID,
		Predecessors: links,
		Milestone:    t.Milestone,
		Buffer:       t.Buffer,
		Calendar:     t.Calendar,
	}
	if rec.Mode == planning.ModeAuto {
		rec.Mode = ""
	}
	if t.Work > 0 {
		rec.Work = planning.FormatEstimate(t.Work, day)
	}
	return rec
}

// LoadTasks reads tasks.yaml. A missing file yields no tasks.
func (r *FilesystemRepository) LoadTasks(day time.Duration) ([]planning.Task, error) {
	doc, err := loadYAML[TasksDocument](r, TasksFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	tasks := make([]planning.Task, 0, len(doc.Tasks))
	for _, rec := range doc.Tasks {
		t, err := rec.ToTask(day)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func (r *FilesystemRepository) SaveTasks(tasks []planning.Task, day time.Duration) error {
	doc := TasksDocument{Tasks: make([]TaskRecord, 0, len(tasks))}
	for _, t := range tasks {
		doc.Tasks = append(doc.Tasks, RecordFromTask(t, day))
	}
	return r.saveYAML(TasksFile, doc)
}
