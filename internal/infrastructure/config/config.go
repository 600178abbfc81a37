package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/sprintplan/pkg/application"
	"github.com/felixgeelhaar/sprintplan/pkg/domain/calendar"
	"github.com/felixgeelhaar/sprintplan/pkg/storage"
)

const (
	FormatTable = "table"
	FormatJSON  = "json"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config holds the workspace options of config.yaml.
type Config struct {
	LogLevel        string  `yaml:"log_level,omitempty"`
	Timezone        string  `yaml:"timezone,omitempty"`
	HoursPerDay     float64 `yaml:"hours_per_day,omitempty"`
	DefaultCalendar string  `yaml:"default_calendar,omitempty"`
	HolidayRegion   string  `yaml:"holiday_region,omitempty"`
	ReportFormat    string  `yaml:"report_format,omitempty"`
}

// Default returns the configuration used when config.yaml is absent.
func Default() *Config {
	return &Config{
		LogLevel:        "warn",
		Timezone:        "UTC",
		HoursPerDay:     7.5,
		DefaultCalendar: application.DefaultCalendarName,
		ReportFormat:    FormatTable,
	}
}

// LoadConfig reads config.yaml below root. Missing keys keep their defaults
// and a missing file yields Default().
func LoadConfig(root string) (*Config, error) {
	repo := storage.NewFilesystemRepository(root)
	path, err := repo.ResolvePath(storage.ConfigFile)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	// #nosec G304 -- Path is resolved and validated via ResolvePath
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func SaveConfig(root string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	repo := storage.NewFilesystemRepository(root)
	path, err := repo.ResolvePath(storage.ConfigFile)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

// Validate checks value ranges and names.
func (c *Config) Validate() error {
	if c.HoursPerDay < 0 || c.HoursPerDay > 24 {
		return fmt.Errorf("%w: hours_per_day %.2f must be within (0, 24]", ErrInvalidConfig, c.HoursPerDay)
	}
	switch c.ReportFormat {
	case "", FormatTable, FormatJSON:
	default:
		return fmt.Errorf("%w: unknown report_format %q", ErrInvalidConfig, c.ReportFormat)
	}
	if c.HolidayRegion != "" {
		if _, err := calendar.NewRegionHolidays(c.HolidayRegion); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}
	if _, err := c.location(); err != nil {
		return err
	}
	return nil
}

func (c *Config) location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: timezone %q: %v", ErrInvalidConfig, c.Timezone, err)
	}
	return loc, nil
}

// Settings converts the configuration into application settings.
func (c *Config) Settings() (application.Settings, error) {
	loc, err := c.location()
	if err != nil {
		return application.Settings{}, err
	}
	return application.Settings{
		HoursPerDay:     c.HoursPerDay,
		DefaultCalendar: c.DefaultCalendar,
		HolidayRegion:   c.HolidayRegion,
		Location:        loc,
	}, nil
}

// JSONReports reports whether commands print JSON by default.
func (c *Config) JSONReports() bool {
	return c.ReportFormat == FormatJSON
}
