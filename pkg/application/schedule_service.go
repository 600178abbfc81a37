package application

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/felixgeelhaar/sprintplan/pkg/domain"
	"github.com/felixgeelhaar/sprintplan/pkg/domain/planning"
	"github.com/felixgeelhaar/sprintplan/pkg/domain/schedule"
)

// ScheduleService schedules the tasks of a workspace.
type ScheduleService struct {
	repo      domain.WorkspaceRepository
	settings  Settings
	log       zerolog.Logger
	scheduler *schedule.Scheduler
}

func NewScheduleService(repo domain.WorkspaceRepository, settings Settings, log zerolog.Logger) *ScheduleService {
	return &ScheduleService{
		repo:      repo,
		settings:  settings,
		log:       log,
		scheduler: schedule.New(schedule.WithLogger(log)),
	}
}

// ScheduleOutcome is a scheduled copy of the workspace graph.
type ScheduleOutcome struct {
	Inputs *Inputs
	// Graph is a clone of Inputs.Graph carrying the computed timing.
	Graph  *planning.Graph
	Result *schedule.Result
}

// Schedule loads the workspace and schedules a copy of its task graph.
func (s *ScheduleService) Schedule(ctx context.Context) (*ScheduleOutcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	in, err := LoadInputs(s.repo, s.settings)
	if err != nil {
		return nil, err
	}
	return s.run(in)
}

func (s *ScheduleService) run(in *Inputs) (*ScheduleOutcome, error) {
	g := in.Graph.Clone()
	res, err := s.scheduler.Schedule(g, schedule.Params{
		Anchor:    in.Sprint.Start,
		Calendars: in.Calendars,
		Resources: in.Team,
	})
	if err != nil {
		s.log.Error().Err(err).Str("sprint", in.Sprint.ID).Msg("scheduling failed")
		return nil, err
	}
	s.log.Info().
		Str("sprint", in.Sprint.ID).
		Int("tasks", g.Len()).
		Time("sprint_end", res.SprintEnd).
		Int("diagnostics", res.Diagnostics.Len()).
		Msg("sprint scheduled")
	return &ScheduleOutcome{Inputs: in, Graph: g, Result: res}, nil
}
