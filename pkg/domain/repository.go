package domain

import (
	"time"

	"github.com/felixgeelhaar/sprintplan/pkg/domain/calendar"
	"github.com/felixgeelhaar/sprintplan/pkg/domain/planning"
	"github.com/felixgeelhaar/sprintplan/pkg/domain/team"
	"github.com/felixgeelhaar/sprintplan/pkg/domain/worklog"
)

// WorkspaceRepository handles the persistence of sprint artifacts in the .sprintplan/ directory.
type WorkspaceRepository interface {
	Initialize() error
	IsInitialized() bool
	Root() string
	LoadRaw(filename string) ([]byte, error)
	SaveSprint(s *planning.Sprint) error
	LoadSprint() (*planning.Sprint, error)
	// SaveTasks and LoadTasks measure estimates in work days of the given length.
	SaveTasks(tasks []planning.Task, day time.Duration) error
	LoadTasks(day time.Duration) ([]planning.Task, error)
	SaveCalendars(defs []calendar.Definition) error
	LoadCalendars() ([]calendar.Definition, error)
	SaveTeam(cfg *team.TeamConfig) error
	LoadTeam() (*team.TeamConfig, error)
	SaveWorklogs(l *worklog.Log) error
	LoadWorklogs() (*worklog.Log, error)
	AppendWorklog(e worklog.Entry) error
	SaveReport(v any) error
	LoadReport(v any) error
}
