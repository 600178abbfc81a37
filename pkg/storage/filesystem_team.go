package storage

import (
	"errors"
	"os"

	"github.com/felixgeelhaar/sprintplan/pkg/domain/team"
)

func (r *FilesystemRepository) LoadTeam() (*team.TeamConfig, error) {
	cfg, err := loadYAML[team.TeamConfig](r, TeamFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &team.TeamConfig{}, nil
		}
		return nil, err
	}
	return cfg, nil
}

func (r *FilesystemRepository) SaveTeam(cfg *team.TeamConfig) error {
	return r.saveYAML(TeamFile, cfg)
}
