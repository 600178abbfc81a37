package application_test

import (
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/sprintplan/pkg/application"
	"github.com/felixgeelhaar/sprintplan/pkg/domain/calendar"
	"github.com/felixgeelhaar/sprintplan/pkg/domain/planning"
	"github.com/felixgeelhaar/sprintplan/pkg/domain/team"
	"github.com/felixgeelhaar/sprintplan/pkg/domain/worklog"
	"github.com/felixgeelhaar/sprintplan/pkg/storage"
)

var (
	quiet    = zerolog.New(io.Discard)
	settings = application.Settings{HoursPerDay: 7.5, DefaultCalendar: "standard", Location: time.UTC}
	workDay  = 7*time.Hour + 30*time.Minute
)

// at returns an instant in March 2024; the 4th is a Monday.
func at(day, hour, minute int) time.Time {
	return time.Date(2024, 3, day, hour, minute, 0, 0, time.UTC)
}

func after(ids ...int64) []planning.PredecessorLink {
	out := make([]planning.PredecessorLink, len(ids))
	for i, id := range ids {
		out[i] = planning.PredecessorLink{PredecessorID: id}
	}
	return out
}

// newWorkspace writes a one-week sprint with a design, build and delivery
// buffer chain assigned to alice, and two worklogs on the first two days.
func newWorkspace(t *testing.T, id string) *storage.FilesystemRepository {
	t.Helper()
	repo := storage.NewFilesystemRepository(t.TempDir())
	require.NoError(t, repo.Initialize())

	require.NoError(t, repo.SaveSprint(&planning.Sprint{
		ID:     id,
		Name:   "Sprint " + id,
		Start:  at(4, 8, 0),
		End:    at(8, 16, 30),
		Status: planning.SprintStarted,
		Now:    at(5, 17, 0),
	}))
	require.NoError(t, repo.SaveCalendars([]calendar.Definition{{Name: "standard"}}))
	require.NoError(t, repo.SaveTeam(&team.TeamConfig{Resources: []team.Resource{{ID: "alice", Name: "Alice"}}}))
	require.NoError(t, repo.SaveTasks([]planning.Task{
		{ID: 1, Name: "Design", Work: workDay, ResourceID: "alice"},
		{ID: 2, Name: "Build", Work: 2 * workDay, ResourceID: "alice", Predecessors: after(1)},
		{ID: 3, Name: "Delivery buffer", Work: workDay / 2, Predecessors: after(2)},
	}, workDay))
	require.NoError(t, repo.SaveWorklogs(&worklog.Log{Entries: []worklog.Entry{
		{ID: "w1", AuthorID: "alice", TaskID: 1, Start: at(4, 8, 0), TimeSpent: 6 * time.Hour},
		{ID: "w2", AuthorID: "alice", TaskID: 1, Start: at(5, 9, 0), TimeSpent: 4 * time.Hour},
	}}))
	return repo
}
