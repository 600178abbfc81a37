package calendar

import (
	"fmt"
	"sort"
)

// Set holds the calendars of one sprint. Lookups resolve a resource
// calendar first, then a named task calendar, then the sprint default.
type Set struct {
	named       map[string]*Calendar
	resources   map[string]*Calendar
	defaultName string
}

// NewSet creates an empty calendar set with the given default calendar name.
func NewSet(defaultName string) *Set {
	return &Set{
		named:       make(map[string]*Calendar),
		resources:   make(map[string]*Calendar),
		defaultName: defaultName,
	}
}

// Add registers a named calendar.
func (s *Set) Add(c *Calendar) {
	s.named[c.Name()] = c
}

// AssignResource registers the calendar of a resource.
func (s *Set) AssignResource(resourceID string, c *Calendar) {
	s.resources[resourceID] = c
}

// Named returns the calendar with the given name.
func (s *Set) Named(name string) (*Calendar, bool) {
	c, ok := s.named[name]
	return c, ok
}

// Resource returns the calendar assigned to a resource.
func (s *Set) Resource(resourceID string) (*Calendar, bool) {
	c, ok := s.resources[resourceID]
	return c, ok
}

// Default returns the sprint default calendar.
func (s *Set) Default() (*Calendar, bool) {
	return s.Named(s.defaultName)
}

// Names returns the registered calendar names in order.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.named))
	for n := range s.named {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ForTask resolves the effective calendar for a task assigned to resourceID
// (may be empty) with an optional task-level calendar name.
func (s *Set) ForTask(resourceID, taskCalendar string) (*Calendar, error) {
	if resourceID != "" {
		if c, ok := s.resources[resourceID]; ok {
			return c, nil
		}
	}
	if taskCalendar != "" {
		c, ok := s.named[taskCalendar]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCalendar, taskCalendar)
		}
		return c, nil
	}
	if c, ok := s.Default(); ok {
		return c, nil
	}
	if resourceID != "" {
		return nil, fmt.Errorf("%w for resource %q", ErrNoCalendar, resourceID)
	}
	return nil, ErrNoCalendar
}
