package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/felixgeelhaar/sprintplan/pkg/domain"
	"github.com/felixgeelhaar/sprintplan/pkg/domain/analytics"
	"github.com/felixgeelhaar/sprintplan/pkg/domain/calendar"
	"github.com/felixgeelhaar/sprintplan/pkg/domain/diagnostic"
	"github.com/felixgeelhaar/sprintplan/pkg/domain/planning"
)

// Report is the complete outcome of a burn-down run, persisted as
// report.json.
type Report struct {
	RunID        string                    `json:"run_id"`
	GeneratedAt  time.Time                 `json:"generated_at"`
	Now          time.Time                 `json:"now"`
	NowDay       int                       `json:"now_day"`
	Timezone     string                    `json:"timezone"`
	Sprint       planning.Sprint           `json:"sprint"`
	Closed       bool                      `json:"closed"`
	SprintEnd    time.Time                 `json:"sprint_end"`
	CriticalPath []int64                   `json:"critical_path"`
	Tasks        []planning.Task           `json:"tasks"`
	Slack        map[int64]time.Duration   `json:"slack"`
	Guides       analytics.GuidePair       `json:"guides"`
	Actual       *analytics.ActualResult   `json:"actual"`
	Metrics      analytics.SprintMetrics   `json:"metrics"`
	Variance     []analytics.VariancePoint `json:"variance"`
	Diagnostics  diagnostic.List           `json:"diagnostics"`
	Watermark    string                    `json:"watermark,omitempty"`
	DayLength    time.Duration             `json:"day_length"`
}

// NowIndex returns the day index of the report's reference instant, counted
// in the run's location like the guides and the actual series.
func (r *Report) NowIndex() int {
	return r.NowDay
}

// BurnDownService schedules a sprint and computes its guides, actual-work
// series and metrics.
type BurnDownService struct {
	repo     domain.WorkspaceRepository
	settings Settings
	log      zerolog.Logger
	clock    func() time.Time
}

// BurnDownOption configures a BurnDownService.
type BurnDownOption func(*BurnDownService)

// WithClock replaces the wall clock used for "now".
func WithClock(clock func() time.Time) BurnDownOption {
	return func(s *BurnDownService) { s.clock = clock }
}

func NewBurnDownService(repo domain.WorkspaceRepository, settings Settings, log zerolog.Logger, opts ...BurnDownOption) *BurnDownService {
	s := &BurnDownService{repo: repo, settings: settings, log: log, clock: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Build computes the report of the service's workspace without saving it.
func (s *BurnDownService) Build(ctx context.Context) (*Report, error) {
	return s.build(ctx, s.repo)
}

// BuildAndSave computes the report and writes it to report.json.
func (s *BurnDownService) BuildAndSave(ctx context.Context) (*Report, error) {
	r, err := s.build(ctx, s.repo)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SaveReport(r); err != nil {
		return nil, fmt.Errorf("save report: %w", err)
	}
	return r, nil
}

// BuildAll computes the reports of several workspaces concurrently, one
// goroutine per sprint. Reports are returned in the order of repos. The
// first failure is returned after all runs finish.
func (s *BurnDownService) BuildAll(ctx context.Context, repos []domain.WorkspaceRepository) ([]*Report, error) {
	reports := make([]*Report, len(repos))
	errs := make([]error, len(repos))
	var wg sync.WaitGroup
	for i, repo := range repos {
		wg.Add(1)
		go func(i int, repo domain.WorkspaceRepository) {
			defer wg.Done()
			reports[i], errs[i] = s.build(ctx, repo)
		}(i, repo)
	}
	wg.Wait()
	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("workspace %s: %w", repos[i].Root(), err)
		}
	}
	return reports, nil
}

func (s *BurnDownService) build(ctx context.Context, repo domain.WorkspaceRepository) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	runID := uuid.NewString()
	log := s.log.With().Str("run_id", runID).Str("root", repo.Root()).Logger()

	sched := NewScheduleService(repo, s.settings, log)
	in, err := LoadInputs(repo, s.settings)
	if err != nil {
		return nil, err
	}
	out, err := sched.run(in)
	if err != nil {
		return nil, err
	}
	sprint := in.Sprint
	now := sprint.ReferenceTime(s.clock())
	if sprint.IsClosed() && !sprint.ClosedAt.IsZero() && sprint.Now.IsZero() {
		now = sprint.ClosedAt
	}

	lastDay := sprint.End
	if lastDay.IsZero() {
		lastDay = out.Result.SprintEnd
	}
	guides, err := analytics.NewGuideBuilder().Build(out.Graph, analytics.GuideParams{
		FirstDay:  sprint.Start,
		LastDay:   lastDay,
		Calendars: in.Calendars,
		Location:  in.Location,
	})
	if err != nil {
		return nil, err
	}

	authors := make([]string, 0, len(in.Team.Resources))
	for _, r := range in.Team.Resources {
		authors = append(authors, r.ID)
	}
	actual := analytics.NewActualWorkAggregator().Aggregate(in.Worklogs.Entries, in.Worklogs.Remaining, analytics.ActualParams{
		FirstDay: sprint.Start,
		Days:     guides.Guides.WithBuffer.Len(),
		Now:      now,
		Location: in.Location,
		Authors:  authors,
	})

	plan := guides.Guides.WithoutBuffer
	remaining := actual.Total.Remaining
	if len(in.Worklogs.Remaining) == 0 {
		remaining = plan.Total() - actual.Total.Worked
		if remaining < 0 {
			remaining = 0
		}
	}
	metrics := analytics.ComputeMetrics(analytics.MetricsParams{
		Calendar:  in.DefaultCalendar(),
		Start:     sprint.Start,
		End:       lastDay,
		Now:       now,
		Guide:     plan,
		Worked:    actual.Total.Worked,
		Remaining: remaining,
	})

	var diags diagnostic.List
	diags.Merge(out.Result.Diagnostics)
	diags.Merge(guides.Diagnostics)
	diags.Merge(actual.Diagnostics)

	report := &Report{
		RunID:        runID,
		GeneratedAt:  s.clock(),
		Now:          now,
		NowDay:       calendar.DayOffset(sprint.Start, now, in.Location),
		Timezone:     in.Location.String(),
		Sprint:       *sprint,
		Closed:       sprint.IsClosed(),
		SprintEnd:    out.Result.SprintEnd,
		CriticalPath: out.Result.CriticalPath,
		Tasks:        out.Graph.Snapshot(),
		Slack:        out.Result.Slack,
		Guides:       guides.Guides,
		Actual:       actual,
		Metrics:      metrics,
		Diagnostics:  diags,
		Watermark:    actual.Watermark(),
		DayLength:    in.DayLength,
	}
	if idx := report.NowIndex(); idx >= 0 {
		report.Variance = analytics.Variance(plan, actual.Total, idx)
	}

	log.Info().
		Str("sprint", sprint.ID).
		Int("days", plan.Len()).
		Dur("planned", plan.Total()).
		Dur("worked", actual.Total.Worked).
		Int("diagnostics", diags.Len()).
		Msg("burn-down computed")
	return report, nil
}
