package application_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/sprintplan/pkg/application"
	"github.com/felixgeelhaar/sprintplan/pkg/domain/calendar"
	"github.com/felixgeelhaar/sprintplan/pkg/domain/planning"
)

func TestScheduleService_Schedule(t *testing.T) {
	repo := newWorkspace(t, "s1")
	out, err := application.NewScheduleService(repo, settings, quiet).Schedule(context.Background())
	require.NoError(t, err)

	design, ok := out.Graph.Task(1)
	require.True(t, ok)
	assert.Equal(t, at(4, 8, 0), design.Start)
	assert.Equal(t, at(4, 16, 30), design.Finish)

	build, _ := out.Graph.Task(2)
	assert.Equal(t, at(6, 16, 30), build.Finish)

	buffer, _ := out.Graph.Task(3)
	assert.Equal(t, at(7, 11, 45), buffer.Finish)
	assert.Equal(t, at(7, 11, 45), out.Result.SprintEnd)
	assert.ElementsMatch(t, []int64{1, 2, 3}, out.Result.CriticalPath)

	original, _ := out.Inputs.Graph.Task(1)
	assert.False(t, original.IsScheduled(), "the loaded graph stays untouched")
}

func TestScheduleService_Cycle(t *testing.T) {
	repo := newWorkspace(t, "s1")
	require.NoError(t, repo.SaveTasks([]planning.Task{
		{ID: 1, Name: "A", Work: workDay, Predecessors: after(2)},
		{ID: 2, Name: "B", Work: workDay, Predecessors: after(1)},
	}, workDay))

	_, err := application.NewScheduleService(repo, settings, quiet).Schedule(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, planning.ErrSchedulingCycle))
	var cycle *planning.SchedulingCycleError
	assert.True(t, errors.As(err, &cycle))
}

func TestScheduleService_UnknownTaskCalendar(t *testing.T) {
	repo := newWorkspace(t, "s1")
	require.NoError(t, repo.SaveTasks([]planning.Task{
		{ID: 1, Name: "A", Work: workDay, Calendar: "night-shift"},
	}, workDay))

	_, err := application.NewScheduleService(repo, settings, quiet).Schedule(context.Background())
	assert.ErrorIs(t, err, calendar.ErrUnknownCalendar)
}

func TestScheduleService_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := application.NewScheduleService(&MockRepo{}, settings, quiet).Schedule(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestScheduleService_InvalidSprint(t *testing.T) {
	repo := &MockRepo{Sprint: &planning.Sprint{ID: "x"}}
	_, err := application.NewScheduleService(repo, settings, quiet).Schedule(context.Background())
	assert.ErrorIs(t, err, planning.ErrInvalidSprint)
}
