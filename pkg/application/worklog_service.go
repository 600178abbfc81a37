package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/felixgeelhaar/sprintplan/pkg/domain"
	"github.com/felixgeelhaar/sprintplan/pkg/domain/worklog"
)

// WorklogService records logged work and remaining estimates.
type WorklogService struct {
	repo domain.WorkspaceRepository
	log  zerolog.Logger
}

func NewWorklogService(repo domain.WorkspaceRepository, log zerolog.Logger) *WorklogService {
	return &WorklogService{repo: repo, log: log}
}

// Record logs work on a task and returns the stored entry.
func (s *WorklogService) Record(ctx context.Context, author string, taskID int64, start time.Time, spent time.Duration, comment string) (worklog.Entry, error) {
	if err := ctx.Err(); err != nil {
		return worklog.Entry{}, err
	}
	e, err := worklog.NewEntry(uuid.NewString(), author, taskID, start, spent, comment)
	if err != nil {
		return worklog.Entry{}, err
	}
	if err := s.repo.AppendWorklog(e); err != nil {
		return worklog.Entry{}, fmt.Errorf("append worklog: %w", err)
	}
	s.log.Info().Str("entry", e.ID).Str("author", author).Int64("task", taskID).Dur("spent", spent).Msg("work logged")
	return e, nil
}

// SetRemaining stores an author's remaining estimate for a task.
func (s *WorklogService) SetRemaining(ctx context.Context, author string, taskID int64, remaining time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l, err := s.repo.LoadWorklogs()
	if err != nil {
		return fmt.Errorf("load worklogs: %w", err)
	}
	if err := l.SetRemaining(worklog.Remaining{AuthorID: author, TaskID: taskID, Remaining: remaining}); err != nil {
		return err
	}
	if err := s.repo.SaveWorklogs(l); err != nil {
		return fmt.Errorf("save worklogs: %w", err)
	}
	s.log.Info().Str("author", author).Int64("task", taskID).Dur("remaining", remaining).Msg("remaining work updated")
	return nil
}
