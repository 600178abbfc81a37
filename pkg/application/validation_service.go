package application

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/rs/zerolog"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/sprintplan/pkg/domain"
	"github.com/felixgeelhaar/sprintplan/pkg/storage"
)

// ValidationIssue is one problem found in a workspace document.
type ValidationIssue struct {
	File    string `json:"file"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (i ValidationIssue) String() string {
	if i.Field == "" {
		return fmt.Sprintf("%s: %s", i.File, i.Message)
	}
	return fmt.Sprintf("%s: %s: %s", i.File, i.Field, i.Message)
}

// ValidationReport lists the checked files and the issues found.
type ValidationReport struct {
	Checked []string          `json:"checked"`
	Issues  []ValidationIssue `json:"issues"`
}

func (r *ValidationReport) Valid() bool {
	return len(r.Issues) == 0
}

// ValidationService checks workspace documents against their schemas and
// then compiles them.
type ValidationService struct {
	repo     domain.WorkspaceRepository
	settings Settings
	log      zerolog.Logger
}

func NewValidationService(repo domain.WorkspaceRepository, settings Settings, log zerolog.Logger) *ValidationService {
	return &ValidationService{repo: repo, settings: settings, log: log}
}

// ValidateAll checks every workspace document. Schema issues are reported
// per file; once all documents conform, the workspace is compiled and the
// task graph is checked for cycles.
func (s *ValidationService) ValidateAll(ctx context.Context) (*ValidationReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	report := &ValidationReport{}
	for _, name := range storage.WorkspaceFiles {
		issues, present, err := s.validateFile(name)
		if err != nil {
			return nil, err
		}
		if present {
			report.Checked = append(report.Checked, name)
		}
		report.Issues = append(report.Issues, issues...)
	}
	if !report.Valid() {
		s.log.Warn().Int("issues", len(report.Issues)).Msg("workspace failed schema validation")
		return report, nil
	}

	in, err := LoadInputs(s.repo, s.settings)
	if err != nil {
		report.Issues = append(report.Issues, ValidationIssue{File: storage.WorkspaceDir, Message: err.Error()})
		return report, nil
	}
	if err := in.Graph.ValidateAcyclic(); err != nil {
		report.Issues = append(report.Issues, ValidationIssue{File: storage.TasksFile, Message: err.Error()})
	}
	s.log.Info().Int("files", len(report.Checked)).Int("issues", len(report.Issues)).Msg("workspace validated")
	return report, nil
}

func (s *ValidationService) validateFile(name string) ([]ValidationIssue, bool, error) {
	data, err := s.repo.LoadRaw(name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if name == storage.SprintFile {
				return []ValidationIssue{{File: name, Message: "file is missing"}}, false, nil
			}
			return nil, false, nil
		}
		return nil, false, err
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return []ValidationIssue{{File: name, Message: err.Error()}}, true, nil
	}
	if doc == nil {
		doc = map[string]any{}
	}
	schema, ok := workspaceSchemas[name]
	if !ok {
		return nil, true, nil
	}
	result, err := gojsonschema.Validate(schema, gojsonschema.NewGoLoader(doc))
	if err != nil {
		return []ValidationIssue{{File: name, Message: err.Error()}}, true, nil
	}
	var issues []ValidationIssue
	for _, desc := range result.Errors() {
		issues = append(issues, ValidationIssue{File: name, Field: desc.Field(), Message: desc.Description()})
	}
	sort.SliceStable(issues, func(i, j int) bool { return issues[i].Field < issues[j].Field })
	return issues, true, nil
}
