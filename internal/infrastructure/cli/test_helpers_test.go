package cli

import (
	"bytes"
	"os"
	"testing"
	"time"

	"github.com/felixgeelhaar/sprintplan/pkg/domain/planning"
	"github.com/felixgeelhaar/sprintplan/pkg/domain/team"
	"github.com/felixgeelhaar/sprintplan/pkg/domain/worklog"
	"github.com/felixgeelhaar/sprintplan/pkg/storage"
)

var workDay = 7*time.Hour + 30*time.Minute

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		t.Fatalf("read stdout: %v", err)
	}
	return buf.String()
}

func resetFlags() {
	projectPath, logLevel, logFile = "", "error", ""
	initStart, initDays = "", 10
	scheduleJSON = false
	burndownJSON, burndownNoSave = false, false
	actualJSON, actualDays = false, false
	forecastJSON = false
	validateJSON = false
	calendarFrom, calendarDays = "", 14
	watchDebounce, watchFor = 50*time.Millisecond, 0
	logAuthor, logTask, logStart, logSpent, logComment, logRemaining = "", 0, "", "", "", ""
}

// run executes the root command and returns what it printed.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags()
	var err error
	out := captureStdout(t, func() {
		RootCmd.SetArgs(args)
		err = RootCmd.Execute()
	})
	return out, err
}

// at returns an instant in March 2024; the 4th is a Monday.
func at(day, hour, minute int) time.Time {
	return time.Date(2024, 3, day, hour, minute, 0, 0, time.UTC)
}

// newWorkspace initializes a one-week sprint through the CLI and adds a
// three-task chain with two worklogs. Now is pinned to Tuesday evening.
func newWorkspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if _, err := run(t, "init", "Demo Sprint", "--start", "2024-03-04", "--days", "5", "-C", dir); err != nil {
		t.Fatalf("init: %v", err)
	}

	repo := storage.NewFilesystemRepository(dir)
	sprint, err := repo.LoadSprint()
	if err != nil {
		t.Fatalf("load sprint: %v", err)
	}
	sprint.Status = planning.SprintStarted
	sprint.Now = at(5, 17, 0)
	if err := repo.SaveSprint(sprint); err != nil {
		t.Fatalf("save sprint: %v", err)
	}
	if err := repo.SaveTeam(&team.TeamConfig{Resources: []team.Resource{{ID: "alice", Name: "Alice"}}}); err != nil {
		t.Fatalf("save team: %v", err)
	}
	err = repo.SaveTasks([]planning.Task{
		{ID: 1, Name: "Design", Work: workDay, ResourceID: "alice"},
		{ID: 2, Name: "Build", Work: 2 * workDay, ResourceID: "alice", Predecessors: []planning.PredecessorLink{{PredecessorID: 1}}},
		{ID: 3, Name: "Delivery buffer", Work: workDay / 2, Predecessors: []planning.PredecessorLink{{PredecessorID: 2}}},
	}, workDay)
	if err != nil {
		t.Fatalf("save tasks: %v", err)
	}
	err = repo.SaveWorklogs(&worklog.Log{Entries: []worklog.Entry{
		{ID: "w1", AuthorID: "alice", TaskID: 1, Start: at(4, 8, 0), TimeSpent: 6 * time.Hour},
		{ID: "w2", AuthorID: "alice", TaskID: 1, Start: at(5, 9, 0), TimeSpent: 4 * time.Hour},
	}})
	if err != nil {
		t.Fatalf("save worklogs: %v", err)
	}
	return dir
}
