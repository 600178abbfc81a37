package application_test

import (
	"fmt"
	"os"
	"time"

	"github.com/felixgeelhaar/sprintplan/pkg/domain/calendar"
	"github.com/felixgeelhaar/sprintplan/pkg/domain/planning"
	"github.com/felixgeelhaar/sprintplan/pkg/domain/team"
	"github.com/felixgeelhaar/sprintplan/pkg/domain/worklog"
)

// MockRepo is an in-memory workspace used for error paths.
type MockRepo struct {
	Sprint      *planning.Sprint
	Tasks       []planning.Task
	Calendars   []calendar.Definition
	Team        *team.TeamConfig
	Worklogs    *worklog.Log
	Raw         map[string][]byte
	Report      any
	Initialized bool
	SaveError   error
	LoadError   error
}

func (m *MockRepo) Initialize() error   { m.Initialized = true; return m.SaveError }
func (m *MockRepo) IsInitialized() bool { return m.Initialized }
func (m *MockRepo) Root() string        { return "mock" }

func (m *MockRepo) LoadRaw(filename string) ([]byte, error) {
	if m.LoadError != nil {
		return nil, m.LoadError
	}
	data, ok := m.Raw[filename]
	if !ok {
		return nil, fmt.Errorf("%s: %w", filename, os.ErrNotExist)
	}
	return data, nil
}

func (m *MockRepo) SaveSprint(s *planning.Sprint) error { m.Sprint = s; return m.SaveError }
func (m *MockRepo) LoadSprint() (*planning.Sprint, error) {
	if m.LoadError != nil {
		return nil, m.LoadError
	}
	if m.Sprint == nil {
		return nil, os.ErrNotExist
	}
	cp := *m.Sprint
	return &cp, nil
}

func (m *MockRepo) SaveTasks(tasks []planning.Task, _ time.Duration) error {
	m.Tasks = tasks
	return m.SaveError
}
func (m *MockRepo) LoadTasks(time.Duration) ([]planning.Task, error) { return m.Tasks, m.LoadError }

func (m *MockRepo) SaveCalendars(defs []calendar.Definition) error {
	m.Calendars = defs
	return m.SaveError
}
func (m *MockRepo) LoadCalendars() ([]calendar.Definition, error) { return m.Calendars, m.LoadError }

func (m *MockRepo) SaveTeam(cfg *team.TeamConfig) error { m.Team = cfg; return m.SaveError }
func (m *MockRepo) LoadTeam() (*team.TeamConfig, error) {
	if m.Team == nil {
		return &team.TeamConfig{}, m.LoadError
	}
	return m.Team, m.LoadError
}

func (m *MockRepo) SaveWorklogs(l *worklog.Log) error { m.Worklogs = l; return m.SaveError }
func (m *MockRepo) LoadWorklogs() (*worklog.Log, error) {
	if m.Worklogs == nil {
		return &worklog.Log{}, m.LoadError
	}
	return m.Worklogs, m.LoadError
}

func (m *MockRepo) AppendWorklog(e worklog.Entry) error {
	if m.SaveError != nil {
		return m.SaveError
	}
	if m.Worklogs == nil {
		m.Worklogs = &worklog.Log{}
	}
	return m.Worklogs.Add(e)
}

func (m *MockRepo) SaveReport(v any) error { m.Report = v; return m.SaveError }
func (m *MockRepo) LoadReport(v any) error { return m.LoadError }
