package wiring

import (
	"github.com/felixgeelhaar/sprintplan/internal/infrastructure/config"
	"github.com/felixgeelhaar/sprintplan/pkg/storage"
)

// Workspace bundles the repository and configuration of one .sprintplan
// directory.
type Workspace struct {
	Repo   *storage.FilesystemRepository
	Config *config.Config
}

// NewWorkspace opens the workspace below root. An unreadable config.yaml
// falls back to defaults and is reported as the error.
func NewWorkspace(root string) (*Workspace, error) {
	repo := storage.NewFilesystemRepository(root)
	cfg, err := config.LoadConfig(root)
	if err != nil {
		return &Workspace{Repo: repo, Config: config.Default()}, err
	}
	return &Workspace{Repo: repo, Config: cfg}, nil
}
