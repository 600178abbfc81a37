package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/sprintplan/pkg/storage"
)

func workspace(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, storage.WorkspaceDir), 0700))
	return root
}

func TestLoadConfig_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := LoadConfig(workspace(t))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	s, err := cfg.Settings()
	require.NoError(t, err)
	assert.Equal(t, 7*time.Hour+30*time.Minute, s.DayLength())
	assert.Equal(t, time.UTC, s.Location)
}

func TestLoadConfig_OverridesKeys(t *testing.T) {
	root := workspace(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, storage.WorkspaceDir, storage.ConfigFile), []byte(`
hours_per_day: 8
timezone: Europe/Berlin
holiday_region: common
report_format: json
`), 0600))

	cfg, err := LoadConfig(root)
	require.NoError(t, err)
	assert.Equal(t, 8.0, cfg.HoursPerDay)
	assert.Equal(t, "warn", cfg.LogLevel, "unset keys keep their default")
	assert.True(t, cfg.JSONReports())

	s, err := cfg.Settings()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", s.Location.String())
	assert.Equal(t, "common", s.HolidayRegion)
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	root := workspace(t)
	cfg := Default()
	cfg.DefaultCalendar = "team"
	require.NoError(t, SaveConfig(root, cfg))

	loaded, err := LoadConfig(root)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	assert.Error(t, SaveConfig(root, nil))
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name string
		mut  func(*Config)
	}{
		{"negative hours", func(c *Config) { c.HoursPerDay = -1 }},
		{"too many hours", func(c *Config) { c.HoursPerDay = 25 }},
		{"unknown format", func(c *Config) { c.ReportFormat = "xml" }},
		{"unknown region", func(c *Config) { c.HolidayRegion = "atlantis" }},
		{"unknown timezone", func(c *Config) { c.Timezone = "Mars/Olympus" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mut(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
	assert.NoError(t, Default().Validate())
}
