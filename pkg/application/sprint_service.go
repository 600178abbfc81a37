package application

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/felixgeelhaar/sprintplan/pkg/domain"
	"github.com/felixgeelhaar/sprintplan/pkg/domain/planning"
)

// SprintService drives the sprint lifecycle.
type SprintService struct {
	repo  domain.WorkspaceRepository
	log   zerolog.Logger
	clock func() time.Time
}

func NewSprintService(repo domain.WorkspaceRepository, log zerolog.Logger) *SprintService {
	return &SprintService{repo: repo, log: log, clock: time.Now}
}

// SprintStatusView is the lifecycle state of the workspace sprint.
type SprintStatusView struct {
	Sprint *planning.Sprint
	Events []string
}

// Status returns the sprint and the events it accepts.
func (s *SprintService) Status(ctx context.Context) (*SprintStatusView, error) {
	sprint, err := s.repo.LoadSprint()
	if err != nil {
		return nil, err
	}
	status := sprint.Status
	if status == "" {
		status = planning.SprintCreated
	}
	return &SprintStatusView{Sprint: sprint, Events: status.ValidEvents()}, nil
}

func (s *SprintService) Start(ctx context.Context) (*planning.Sprint, error) {
	return s.apply(ctx, planning.EventStart)
}

func (s *SprintService) Close(ctx context.Context) (*planning.Sprint, error) {
	return s.apply(ctx, planning.EventClose)
}

func (s *SprintService) Reopen(ctx context.Context) (*planning.Sprint, error) {
	return s.apply(ctx, planning.EventReopen)
}

func (s *SprintService) apply(ctx context.Context, event string) (*planning.Sprint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sprint, err := s.repo.LoadSprint()
	if err != nil {
		return nil, err
	}
	from := sprint.Status
	if err := sprint.Apply(event, s.clock()); err != nil {
		return nil, err
	}
	if err := s.repo.SaveSprint(sprint); err != nil {
		return nil, fmt.Errorf("save sprint: %w", err)
	}
	s.log.Info().
		Str("sprint", sprint.ID).
		Str("event", event).
		Str("from", string(from)).
		Str("to", string(sprint.Status)).
		Msg("sprint transitioned")
	return sprint, nil
}
