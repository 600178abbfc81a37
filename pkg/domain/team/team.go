package team

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/felixgeelhaar/sprintplan/pkg/domain/calendar"
)

// ErrResourceNotFound indicates an unknown resource ID.
var ErrResourceNotFound = errors.New("resource not found")

// Period sets a resource's availability fraction from a date onward.
type Period struct {
	From     string  `yaml:"from" json:"from"`
	Fraction float64 `yaml:"fraction" json:"fraction"`
}

// OffDay is an absence over an inclusive range of dates.
type OffDay struct {
	From  string                 `yaml:"from" json:"from"`
	Until string                 `yaml:"until,omitempty" json:"until,omitempty"`
	Kind  calendar.ExceptionKind `yaml:"kind" json:"kind"`
	Label string                 `yaml:"label,omitempty" json:"label,omitempty"`
}

// Location selects the public holiday region from a date onward.
type Location struct {
	From   string `yaml:"from" json:"from"`
	Region string `yaml:"region" json:"region"`
}

// Resource is a person or team that tasks are assigned to.
type Resource struct {
	ID           string     `yaml:"id" json:"id"`
	Name         string     `yaml:"name" json:"name"`
	Calendar     string     `yaml:"calendar,omitempty" json:"calendar,omitempty"`
	Availability []Period   `yaml:"availability,omitempty" json:"availability,omitempty"`
	OffDays      []OffDay   `yaml:"off_days,omitempty" json:"off_days,omitempty"`
	Locations    []Location `yaml:"locations,omitempty" json:"locations,omitempty"`
}

// Validate checks dates and availability fractions.
func (r *Resource) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("resource id cannot be empty")
	}
	for _, p := range r.Availability {
		if _, err := time.Parse(calendar.DateLayout, p.From); err != nil {
			return fmt.Errorf("resource %s: availability date %q: %w", r.ID, p.From, err)
		}
		if p.Fraction <= 0 || p.Fraction > 1 {
			return fmt.Errorf("resource %s: availability %.2f must be in (0, 1]", r.ID, p.Fraction)
		}
	}
	for _, o := range r.OffDays {
		switch o.Kind {
		case calendar.ExceptionVacation, calendar.ExceptionSick, calendar.ExceptionTrip, "":
		default:
			return fmt.Errorf("resource %s: invalid off day kind %q", r.ID, o.Kind)
		}
	}
	for _, l := range r.Locations {
		if _, err := time.Parse(calendar.DateLayout, l.From); err != nil {
			return fmt.Errorf("resource %s: location date %q: %w", r.ID, l.From, err)
		}
	}
	return nil
}

// AvailabilityAt returns the availability fraction in effect on the date of
// at. Without a matching period the resource is fully available.
func (r *Resource) AvailabilityAt(at time.Time) float64 {
	day := at.Format(calendar.DateLayout)
	periods := append([]Period(nil), r.Availability...)
	sort.SliceStable(periods, func(i, j int) bool { return periods[i].From < periods[j].From })
	fraction := 1.0
	for _, p := range periods {
		if p.From > day {
			break
		}
		fraction = p.Fraction
	}
	return fraction
}

// BuildCalendar derives the resource calendar from base by adding off days
// and the holidays of the resource's locations.
func (r *Resource) BuildCalendar(base *calendar.Calendar) (*calendar.Calendar, error) {
	c := base.WithName(r.ID)
	if len(r.Locations) > 0 {
		locs := append([]Location(nil), r.Locations...)
		sort.SliceStable(locs, func(i, j int) bool { return locs[i].From < locs[j].From })
		var tl calendar.Timeline
		for _, l := range locs {
			from, err := time.ParseInLocation(calendar.DateLayout, l.From, base.Location())
			if err != nil {
				return nil, fmt.Errorf("resource %s: %w", r.ID, err)
			}
			p, err := calendar.NewRegionHolidays(l.Region)
			if err != nil {
				return nil, fmt.Errorf("resource %s: %w", r.ID, err)
			}
			tl = append(tl, calendar.Span{From: from, Provider: p})
		}
		c = c.WithHolidays(tl)
	}
	excs := make([]calendar.Exception, 0, len(r.OffDays))
	for _, o := range r.OffDays {
		kind := o.Kind
		if kind == "" {
			kind = calendar.ExceptionVacation
		}
		excs = append(excs, calendar.Exception{Date: o.From, Until: o.Until, Kind: kind, Label: o.Label})
	}
	return c.WithExceptions(excs...)
}

// TeamConfig holds the resources stored in .sprintplan/team.yaml.
type TeamConfig struct {
	Resources []Resource `yaml:"resources" json:"resources"`
}

// FindResource returns the resource with the given ID, or nil if not found.
func (t *TeamConfig) FindResource(id string) *Resource {
	for i := range t.Resources {
		if t.Resources[i].ID == id {
			return &t.Resources[i]
		}
	}
	return nil
}

// AddResource adds a resource or replaces the one with the same ID.
func (t *TeamConfig) AddResource(r Resource) error {
	if err := r.Validate(); err != nil {
		return err
	}
	for i := range t.Resources {
		if t.Resources[i].ID == r.ID {
			t.Resources[i] = r
			return nil
		}
	}
	t.Resources = append(t.Resources, r)
	return nil
}

// RemoveResource removes a resource by ID.
func (t *TeamConfig) RemoveResource(id string) error {
	for i := range t.Resources {
		if t.Resources[i].ID == id {
			t.Resources = append(t.Resources[:i], t.Resources[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrResourceNotFound, id)
}

// Availability returns the availability of a resource at a time. Unknown or
// empty resource IDs are fully available.
func (t *TeamConfig) Availability(resourceID string, at time.Time) float64 {
	if r := t.FindResource(resourceID); r != nil {
		return r.AvailabilityAt(at)
	}
	return 1
}

// Register builds every resource calendar from the named base calendar (or
// the set's default) and assigns it in the set.
func (t *TeamConfig) Register(set *calendar.Set) error {
	for i := range t.Resources {
		r := &t.Resources[i]
		if err := r.Validate(); err != nil {
			return err
		}
		var base *calendar.Calendar
		var ok bool
		if r.Calendar != "" {
			if base, ok = set.Named(r.Calendar); !ok {
				return fmt.Errorf("resource %s: %w: %q", r.ID, calendar.ErrUnknownCalendar, r.Calendar)
			}
		} else if base, ok = set.Default(); !ok {
			return fmt.Errorf("resource %s: %w", r.ID, calendar.ErrNoCalendar)
		}
		c, err := r.BuildCalendar(base)
		if err != nil {
			return err
		}
		set.AssignResource(r.ID, c)
	}
	return nil
}
