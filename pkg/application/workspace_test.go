package application_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/sprintplan/pkg/application"
	"github.com/felixgeelhaar/sprintplan/pkg/domain/calendar"
)

func TestSettings_DayLength(t *testing.T) {
	assert.Equal(t, 8*time.Hour, application.Settings{HoursPerDay: 8}.DayLength())
	assert.Equal(t, workDay, application.Settings{}.DayLength())
}

func TestBuildCalendarSet(t *testing.T) {
	t.Run("adds a standard default", func(t *testing.T) {
		set, err := application.BuildCalendarSet(nil, "", "", time.UTC)
		require.NoError(t, err)
		c, ok := set.Default()
		require.True(t, ok)
		assert.Equal(t, application.DefaultCalendarName, c.Name())
		assert.Equal(t, workDay, c.NominalDay())
	})

	t.Run("keeps a defined default", func(t *testing.T) {
		defs := []calendar.Definition{{
			Name:        "short",
			WorkingDays: []string{"mon", "tue", "wed", "thu"},
			Windows:     []calendar.Window{{Start: calendar.NewClock(9, 0), End: calendar.NewClock(15, 0)}},
		}}
		set, err := application.BuildCalendarSet(defs, "short", "", time.UTC)
		require.NoError(t, err)
		c, ok := set.Default()
		require.True(t, ok)
		assert.Equal(t, 6*time.Hour, c.NominalDay())
		assert.False(t, c.IsWorkingDate(at(8, 0, 0)), "Friday is off")
		assert.Equal(t, []string{"short"}, set.Names())
	})

	t.Run("applies the holiday region to the generated default", func(t *testing.T) {
		set, err := application.BuildCalendarSet(nil, "standard", "us", time.UTC)
		require.NoError(t, err)
		c, _ := set.Default()
		assert.False(t, c.IsWorkingDate(time.Date(2024, 7, 4, 0, 0, 0, 0, time.UTC)))
	})

	t.Run("rejects unknown regions", func(t *testing.T) {
		_, err := application.BuildCalendarSet(nil, "standard", "atlantis", time.UTC)
		assert.ErrorIs(t, err, calendar.ErrUnknownRegion)
	})
}

func TestLoadInputs(t *testing.T) {
	repo := newWorkspace(t, "s1")
	in, err := application.LoadInputs(repo, settings)
	require.NoError(t, err)

	assert.Equal(t, "s1", in.Sprint.ID)
	assert.Equal(t, 3, in.Graph.Len())
	assert.Len(t, in.Worklogs.Entries, 2)
	assert.Equal(t, workDay, in.DayLength)
	_, ok := in.Calendars.Resource("alice")
	assert.True(t, ok)
	assert.Equal(t, "standard", in.DefaultCalendar().Name())
}
