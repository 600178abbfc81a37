package wiring

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/felixgeelhaar/sprintplan/pkg/application"
	"github.com/felixgeelhaar/sprintplan/pkg/domain"
)

// AppServices exposes the application layer services wired together with a workspace.
type AppServices struct {
	Workspace  *Workspace
	Settings   application.Settings
	Init       *application.InitService
	Schedule   *application.ScheduleService
	BurnDown   *application.BurnDownService
	Sprint     *application.SprintService
	Worklog    *application.WorklogService
	Validation *application.ValidationService
}

// BuildAppServices constructs the services for a workspace root. When the
// configuration cannot be loaded the services use the defaults and the
// load error is returned alongside them.
func BuildAppServices(root string, log zerolog.Logger) (*AppServices, error) {
	workspace, loadErr := NewWorkspace(root)
	if loadErr != nil {
		loadErr = fmt.Errorf("config fallback to defaults: %w", loadErr)
	}
	settings, err := workspace.Config.Settings()
	if err != nil {
		return nil, err
	}

	var repo domain.WorkspaceRepository = workspace.Repo
	services := &AppServices{
		Workspace:  workspace,
		Settings:   settings,
		Init:       application.NewInitService(repo, settings, log.With().Str("svc", "init").Logger()),
		Schedule:   application.NewScheduleService(repo, settings, log.With().Str("svc", "schedule").Logger()),
		BurnDown:   application.NewBurnDownService(repo, settings, log.With().Str("svc", "burndown").Logger()),
		Sprint:     application.NewSprintService(repo, log.With().Str("svc", "sprint").Logger()),
		Worklog:    application.NewWorklogService(repo, log.With().Str("svc", "worklog").Logger()),
		Validation: application.NewValidationService(repo, settings, log.With().Str("svc", "validation").Logger()),
	}
	return services, loadErr
}

// Repositories opens the repositories of several workspace roots.
func Repositories(roots []string) []domain.WorkspaceRepository {
	out := make([]domain.WorkspaceRepository, len(roots))
	for i, root := range roots {
		w, _ := NewWorkspace(root)
		out[i] = w.Repo
	}
	return out
}
