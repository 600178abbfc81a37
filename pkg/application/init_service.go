package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/felixgeelhaar/sprintplan/pkg/domain"
	"github.com/felixgeelhaar/sprintplan/pkg/domain/calendar"
	"github.com/felixgeelhaar/sprintplan/pkg/domain/planning"
	"github.com/felixgeelhaar/sprintplan/pkg/domain/team"
	"github.com/felixgeelhaar/sprintplan/pkg/domain/worklog"
)

// ErrAlreadyInitialized indicates an existing .sprintplan workspace.
var ErrAlreadyInitialized = errors.New("workspace already initialized")

// InitService creates new workspaces.
type InitService struct {
	repo     domain.WorkspaceRepository
	settings Settings
	log      zerolog.Logger
}

func NewInitService(repo domain.WorkspaceRepository, settings Settings, log zerolog.Logger) *InitService {
	return &InitService{repo: repo, settings: settings, log: log}
}

// InitializeWorkspace writes a sprint of workingDays days starting on the
// date of start, a standard calendar and empty task, team and worklog
// documents.
func (s *InitService) InitializeWorkspace(ctx context.Context, name string, start time.Time, workingDays int) (*planning.Sprint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.repo.IsInitialized() {
		return nil, ErrAlreadyInitialized
	}
	if workingDays < 1 {
		return nil, fmt.Errorf("%w: a sprint needs at least one working day", planning.ErrInvalidSprint)
	}
	if err := s.repo.Initialize(); err != nil {
		return nil, err
	}

	calName := s.settings.DefaultCalendar
	if calName == "" {
		calName = DefaultCalendarName
	}
	def := calendar.Definition{
		Name:        calName,
		WorkingDays: []string{"mon", "tue", "wed", "thu", "fri"},
		Holidays:    s.settings.HolidayRegion,
	}
	cal, err := def.Build(s.settings.location())
	if err != nil {
		return nil, err
	}
	windows := cal.Windows()
	first := cal.NextWorkStart(cal.Midnight(start))
	lastDay := cal.Midnight(cal.AddWorkingDays(first, workingDays-1))

	sprint := &planning.Sprint{
		ID:              slug(name),
		Name:            name,
		Start:           first,
		End:             windows[len(windows)-1].End.On(lastDay),
		Status:          planning.SprintCreated,
		DefaultCalendar: calName,
	}
	def.Windows = windows
	if err := s.repo.SaveSprint(sprint); err != nil {
		return nil, fmt.Errorf("save sprint: %w", err)
	}
	if err := s.repo.SaveCalendars([]calendar.Definition{def}); err != nil {
		return nil, fmt.Errorf("save calendars: %w", err)
	}
	if err := s.repo.SaveTeam(&team.TeamConfig{}); err != nil {
		return nil, fmt.Errorf("save team: %w", err)
	}
	if err := s.repo.SaveTasks(nil, s.settings.DayLength()); err != nil {
		return nil, fmt.Errorf("save tasks: %w", err)
	}
	if err := s.repo.SaveWorklogs(&worklog.Log{}); err != nil {
		return nil, fmt.Errorf("save worklogs: %w", err)
	}
	s.log.Info().Str("sprint", sprint.ID).Time("start", sprint.Start).Time("end", sprint.End).Msg("workspace initialized")
	return sprint, nil
}

func slug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
