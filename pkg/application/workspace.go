package application

import (
	"fmt"
	"time"

	"github.com/felixgeelhaar/sprintplan/pkg/domain"
	"github.com/felixgeelhaar/sprintplan/pkg/domain/calendar"
	"github.com/felixgeelhaar/sprintplan/pkg/domain/planning"
	"github.com/felixgeelhaar/sprintplan/pkg/domain/team"
	"github.com/felixgeelhaar/sprintplan/pkg/domain/worklog"
)

// DefaultCalendarName is used when neither the sprint nor the settings name
// a default calendar.
const DefaultCalendarName = "standard"

// Settings are the workspace-wide options read from config.yaml.
type Settings struct {
	HoursPerDay     float64
	DefaultCalendar string
	HolidayRegion   string
	Location        *time.Location
}

// DayLength returns the length of one estimate day.
func (s Settings) DayLength() time.Duration {
	h := s.HoursPerDay
	if h <= 0 {
		h = planning.DefaultHoursPerDay
	}
	return time.Duration(h * float64(time.Hour))
}

func (s Settings) location() *time.Location {
	if s.Location == nil {
		return time.UTC
	}
	return s.Location
}

// Inputs are the documents of one workspace, compiled for a run.
type Inputs struct {
	Sprint    *planning.Sprint
	Graph     *planning.Graph
	Calendars *calendar.Set
	Team      *team.TeamConfig
	Worklogs  *worklog.Log
	Location  *time.Location
	DayLength time.Duration
}

// DefaultCalendar returns the calendar sprint-level metrics are measured in.
func (in *Inputs) DefaultCalendar() *calendar.Calendar {
	if c, ok := in.Calendars.Default(); ok {
		return c
	}
	return calendar.Standard(DefaultCalendarName, in.Location)
}

// LoadInputs reads and compiles every document of a workspace.
func LoadInputs(repo domain.WorkspaceRepository, settings Settings) (*Inputs, error) {
	sprint, err := repo.LoadSprint()
	if err != nil {
		return nil, fmt.Errorf("load sprint: %w", err)
	}
	if err := sprint.Validate(); err != nil {
		return nil, err
	}
	loc := settings.location()

	defs, err := repo.LoadCalendars()
	if err != nil {
		return nil, fmt.Errorf("load calendars: %w", err)
	}
	defaultName := sprint.DefaultCalendar
	if defaultName == "" {
		defaultName = settings.DefaultCalendar
	}
	set, err := BuildCalendarSet(defs, defaultName, settings.HolidayRegion, loc)
	if err != nil {
		return nil, err
	}

	tm, err := repo.LoadTeam()
	if err != nil {
		return nil, fmt.Errorf("load team: %w", err)
	}
	if err := tm.Register(set); err != nil {
		return nil, err
	}

	day := settings.DayLength()
	tasks, err := repo.LoadTasks(day)
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	graph, err := planning.NewGraph(tasks)
	if err != nil {
		return nil, err
	}

	logs, err := repo.LoadWorklogs()
	if err != nil {
		return nil, fmt.Errorf("load worklogs: %w", err)
	}

	return &Inputs{
		Sprint:    sprint,
		Graph:     graph,
		Calendars: set,
		Team:      tm,
		Worklogs:  logs,
		Location:  loc,
		DayLength: day,
	}, nil
}

// BuildCalendarSet compiles calendar definitions. When no definition carries
// the default name, a standard calendar with the configured holiday region
// is added under that name.
func BuildCalendarSet(defs []calendar.Definition, defaultName, holidayRegion string, loc *time.Location) (*calendar.Set, error) {
	if defaultName == "" {
		defaultName = DefaultCalendarName
	}
	set := calendar.NewSet(defaultName)
	for _, d := range defs {
		c, err := d.Build(loc)
		if err != nil {
			return nil, err
		}
		set.Add(c)
	}
	if _, ok := set.Named(defaultName); ok {
		return set, nil
	}
	c, err := calendar.Definition{Name: defaultName, Holidays: holidayRegion}.Build(loc)
	if err != nil {
		return nil, err
	}
	set.Add(c)
	return set, nil
}
