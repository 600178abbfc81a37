package storage

import (
	"errors"
	"os"

	"github.com/felixgeelhaar/sprintplan/pkg/domain/calendar"
)

// CalendarsDocument is the layout of calendars.yaml.
type CalendarsDocument struct {
	Calendars []calendar.Definition `yaml:"calendars"`
}

// LoadCalendars reads calendars.yaml. A missing file yields no definitions.
func (r *FilesystemRepository) LoadCalendars() ([]calendar.Definition, error) {
	doc, err := loadYAML[CalendarsDocument](r, CalendarsFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return doc.Calendars, nil
}

func (r *FilesystemRepository) SaveCalendars(defs []calendar.Definition) error {
	return r.saveYAML(CalendarsFile, CalendarsDocument{Calendars: defs})
}
