package cli

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/sprintplan/pkg/domain/planning"
	"github.com/felixgeelhaar/sprintplan/pkg/domain/worklog"
	"github.com/felixgeelhaar/sprintplan/pkg/storage"
)

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()
	out, err := run(t, "init", "Demo Sprint", "--start", "2024-03-02", "--days", "5", "-C", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Initialized sprint Demo Sprint (demo-sprint)")
	assert.Contains(t, out, "Mon 03-04 08:00")
	assert.Contains(t, out, "Fri 03-08 16:30")

	_, err = run(t, "init", "again", "-C", dir)
	var cliErr *CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Contains(t, cliErr.Hint, "remove .sprintplan/")

	_, err = run(t, "init", "bad", "--start", "March", "-C", t.TempDir())
	assert.Error(t, err)
}

func TestScheduleCommand(t *testing.T) {
	dir := newWorkspace(t)

	out, err := run(t, "schedule", "-C", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Design")
	assert.Contains(t, out, "Delivery buffer")
	assert.Contains(t, out, "Sprint end:    Thu 03-07 11:45")
	assert.Contains(t, out, "Critical path: 1 -> 2 -> 3")

	out, err = run(t, "schedule", "--json", "-C", dir)
	require.NoError(t, err)
	var doc scheduleDocument
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "demo-sprint", doc.Sprint)
	require.Len(t, doc.Tasks, 3)
	assert.Equal(t, "2d", doc.Tasks[1].Work)
	assert.True(t, doc.Tasks[1].Critical)
}

func TestScheduleCommand_Cycle(t *testing.T) {
	dir := newWorkspace(t)
	repo := storage.NewFilesystemRepository(dir)
	require.NoError(t, repo.SaveTasks([]planning.Task{
		{ID: 1, Name: "A", Work: workDay, Predecessors: []planning.PredecessorLink{{PredecessorID: 2}}},
		{ID: 2, Name: "B", Work: workDay, Predecessors: []planning.PredecessorLink{{PredecessorID: 1}}},
	}, workDay))

	_, err := run(t, "schedule", "-C", dir)
	var cliErr *CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, "tasks cannot be scheduled", cliErr.Message)
}

func TestBurndownCommand(t *testing.T) {
	dir := newWorkspace(t)

	out, err := run(t, "burndown", "-C", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Burn-down for Demo Sprint")
	assert.Contains(t, out, "Delay:")
	assert.FileExists(t, filepath.Join(dir, storage.WorkspaceDir, storage.ReportFile))

	out, err = run(t, "burndown", "--json", "--no-save", "-C", dir)
	require.NoError(t, err)
	var report map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Contains(t, report, "run_id")
	assert.Contains(t, report, "guides")
}

func TestBurndownCommand_SeveralWorkspaces(t *testing.T) {
	a := newWorkspace(t)
	b := newWorkspace(t)

	out, err := run(t, "burndown", a, b)
	require.NoError(t, err)
	assert.Contains(t, out, "Burn-down overview (2 sprints)")

	out, err = run(t, "burndown", "--json", a, b)
	require.NoError(t, err)
	var reports []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &reports))
	assert.Len(t, reports, 2)

	_, err = run(t, "burndown", a, filepath.Join(a, "missing"))
	assert.Error(t, err)
}

func TestActualAndForecastCommands(t *testing.T) {
	dir := newWorkspace(t)

	out, err := run(t, "actual", "--days", "-C", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "Total")
	assert.Contains(t, out, "1d 2h 30m", "10h worked in 7.5h days")

	out, err = run(t, "forecast", "-C", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Forecast for Demo Sprint")
	assert.Contains(t, out, "decelerating")

	out, err = run(t, "forecast", "--json", "-C", dir)
	require.NoError(t, err)
	var metrics map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &metrics))
	assert.Equal(t, "decelerating", metrics["trend"])
}

func TestValidateCommand(t *testing.T) {
	dir := newWorkspace(t)
	out, err := run(t, "validate", "-C", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Workspace is valid")

	tasks := filepath.Join(dir, storage.WorkspaceDir, storage.TasksFile)
	require.NoError(t, os.WriteFile(tasks, []byte("tasks:\n  - id: 1\n    name: A\n    work: soon\n"), 0600))
	out, err = run(t, "validate", "-C", dir)
	var cliErr *CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, ExitInvalid, cliErr.ExitCode)
	assert.Contains(t, out, "tasks.yaml")
}

func TestSprintCommands(t *testing.T) {
	dir := newWorkspace(t)

	out, err := run(t, "sprint", "status", "-C", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Status:  started")
	assert.Contains(t, out, "Actions: close")

	_, err = run(t, "sprint", "start", "-C", dir)
	var cliErr *CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.ErrorIs(t, err, planning.ErrInvalidTransition)

	out, err = run(t, "sprint", "close", "-C", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "is now closed")

	out, err = run(t, "sprint", "reopen", "-C", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "is now started")
}

func TestLogCommands(t *testing.T) {
	dir := newWorkspace(t)

	out, err := run(t, "log", "record", "--author", "alice", "--task", "2", "--start", "2024-03-05 13:00", "--spent", "2h 30m", "-C", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Logged 2h 30m on task 2 for alice")

	out, err = run(t, "log", "remaining", "--author", "alice", "--task", "2", "--remaining", "1d", "-C", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "is 1d")

	logs, err := storage.NewFilesystemRepository(dir).LoadWorklogs()
	require.NoError(t, err)
	assert.Len(t, logs.Entries, 3)
	require.Len(t, logs.Remaining, 1)
	assert.Equal(t, workDay, logs.Remaining[0].Remaining)

	_, err = run(t, "log", "record", "--author", "alice", "--task", "2", "--spent", "a while", "-C", dir)
	assert.Error(t, err)
}

func TestCalendarShowCommand(t *testing.T) {
	dir := newWorkspace(t)

	out, err := run(t, "calendar", "show", "-C", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "* standard")
	assert.Contains(t, out, "[Mon,Tue,Wed,Thu,Fri]")

	out, err = run(t, "calendar", "show", "standard", "--days", "7", "-C", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Mon 2024-03-04")
	assert.Contains(t, out, "08:00-12:00 13:00-16:30")
	assert.Contains(t, out, "Sun 2024-03-10")

	_, err = run(t, "calendar", "show", "night-shift", "-C", dir)
	assert.Error(t, err)
}

func TestWatchCommand(t *testing.T) {
	dir := newWorkspace(t)

	go func() {
		time.Sleep(150 * time.Millisecond)
		repo := storage.NewFilesystemRepository(dir)
		_ = repo.AppendWorklog(worklog.Entry{ID: "w3", AuthorID: "alice", TaskID: 2, Start: at(5, 13, 0), TimeSpent: time.Hour})
	}()
	out, err := run(t, "watch", "--for", "600ms", "-C", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "initial: worked")
	assert.Contains(t, out, "worklogs.yaml changed")
}

func TestCommandsWithoutWorkspace(t *testing.T) {
	_, err := run(t, "schedule", "-C", t.TempDir())
	var cliErr *CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Contains(t, cliErr.Hint, "sprintplan init")
}

func TestExecuteExitCodes(t *testing.T) {
	dir := newWorkspace(t)
	resetFlags()
	RootCmd.SetArgs([]string{"sprint", "status", "-C", dir})
	assert.Equal(t, 0, Execute())

	resetFlags()
	RootCmd.SetArgs([]string{"sprint", "start", "-C", dir})
	assert.Equal(t, 1, Execute())

	resetFlags()
	RootCmd.SetArgs([]string{"validate", "-C", t.TempDir()})
	assert.Equal(t, ExitInvalid, Execute())
}
