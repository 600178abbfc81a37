package application_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/sprintplan/pkg/application"
)

func TestWorklogService_Record(t *testing.T) {
	repo := newWorkspace(t, "s1")
	svc := application.NewWorklogService(repo, quiet)

	e, err := svc.Record(context.Background(), "alice", 2, at(6, 8, 0), 3*time.Hour, "wiring")
	require.NoError(t, err)
	assert.NotEmpty(t, e.ID)

	logs, err := repo.LoadWorklogs()
	require.NoError(t, err)
	require.Len(t, logs.Entries, 3)
	assert.Equal(t, e.ID, logs.Entries[2].ID)
	assert.Equal(t, 3*time.Hour, logs.Entries[2].TimeSpent)
	assert.Len(t, logs.ForTask(2), 1)
}

func TestWorklogService_RecordRejectsInvalidEntry(t *testing.T) {
	repo := newWorkspace(t, "s1")
	svc := application.NewWorklogService(repo, quiet)

	_, err := svc.Record(context.Background(), "", 2, at(6, 8, 0), time.Hour, "")
	assert.Error(t, err)
	_, err = svc.Record(context.Background(), "alice", 2, at(6, 8, 0), 0, "")
	assert.Error(t, err)
}

func TestWorklogService_SetRemaining(t *testing.T) {
	repo := newWorkspace(t, "s1")
	svc := application.NewWorklogService(repo, quiet)
	ctx := context.Background()

	require.NoError(t, svc.SetRemaining(ctx, "alice", 2, 5*time.Hour))
	require.NoError(t, svc.SetRemaining(ctx, "alice", 2, 3*time.Hour))

	logs, err := repo.LoadWorklogs()
	require.NoError(t, err)
	require.Len(t, logs.Remaining, 1)
	assert.Equal(t, 3*time.Hour, logs.Remaining[0].Remaining)

	assert.Error(t, svc.SetRemaining(ctx, "alice", 2, -time.Hour))
}

func TestWorklogService_SaveFailure(t *testing.T) {
	svc := application.NewWorklogService(&MockRepo{SaveError: assert.AnError}, quiet)
	_, err := svc.Record(context.Background(), "alice", 1, at(4, 8, 0), time.Hour, "")
	assert.ErrorIs(t, err, assert.AnError)
}
