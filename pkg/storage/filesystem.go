package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/felixgeelhaar/fortify/retry"
	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/sprintplan/pkg/domain"
	"github.com/felixgeelhaar/sprintplan/pkg/domain/planning"
)

const WorkspaceDir = ".sprintplan"
const ConfigFile = "config.yaml"
const SprintFile = "sprint.yaml"
const TasksFile = "tasks.yaml"
const CalendarsFile = "calendars.yaml"
const TeamFile = "team.yaml"
const WorklogsFile = "worklogs.yaml"
const ReportFile = "report.json"

// WorkspaceFiles lists the YAML documents of a workspace in load order.
var WorkspaceFiles = []string{SprintFile, CalendarsFile, TeamFile, TasksFile, WorklogsFile}

var _ domain.WorkspaceRepository = (*FilesystemRepository)(nil)

// ErrNotInitialized indicates a directory without a .sprintplan workspace.
var ErrNotInitialized = errors.New("workspace not initialized")

type FilesystemRepository struct {
	root        string
	retryConfig retry.Config
}

func NewFilesystemRepository(root string) *FilesystemRepository {
	return &FilesystemRepository{
		root: root,
		retryConfig: retry.Config{
			MaxAttempts:   3,
			InitialDelay:  10 * time.Millisecond,
			BackoffPolicy: retry.BackoffExponential,
		},
	}
}

// Root returns the workspace root directory.
func (r *FilesystemRepository) Root() string {
	return r.root
}

// Dir returns the .sprintplan directory.
func (r *FilesystemRepository) Dir() string {
	return filepath.Join(r.root, WorkspaceDir)
}

// ResolvePath ensures the path is a direct child of the .sprintplan directory.
func (r *FilesystemRepository) ResolvePath(filename string) (string, error) {
	if filename == "" {
		return "", fmt.Errorf("filename cannot be empty")
	}

	baseDir := r.Dir()
	cleanPath := filepath.Clean(filepath.Join(baseDir, filename))
	if !strings.HasPrefix(cleanPath, baseDir) || filepath.Dir(cleanPath) != baseDir {
		return "", fmt.Errorf("invalid file path: %s", filename)
	}
	return cleanPath, nil
}

func (r *FilesystemRepository) Initialize() error {
	// G301: Use 0700 for directories
	if err := os.MkdirAll(r.Dir(), 0700); err != nil {
		return fmt.Errorf("failed to create %s directory: %w", WorkspaceDir, err)
	}
	return nil
}

func (r *FilesystemRepository) IsInitialized() bool {
	_, err := os.Stat(r.Dir())
	return err == nil
}

// Exists reports whether a workspace file is present.
func (r *FilesystemRepository) Exists(filename string) bool {
	path, err := r.ResolvePath(filename)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// LoadRaw reads a workspace file. A missing file yields os.ErrNotExist.
func (r *FilesystemRepository) LoadRaw(filename string) ([]byte, error) {
	retryer := retry.New[[]byte](r.retryConfig)
	return retryer.Do(context.Background(), func(ctx context.Context) ([]byte, error) {
		path, err := r.ResolvePath(filename)
		if err != nil {
			return nil, err
		}
		// #nosec G304 -- Path is resolved and validated via ResolvePath
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("%s: %w", filename, os.ErrNotExist)
			}
			return nil, fmt.Errorf("failed to read %s: %w", filename, err)
		}
		return data, nil
	})
}

func loadYAML[T any](r *FilesystemRepository, filename string) (*T, error) {
	data, err := r.LoadRaw(filename)
	if err != nil {
		return nil, err
	}
	var v T
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s: %w", filename, err)
	}
	return &v, nil
}

func (r *FilesystemRepository) saveYAML(filename string, v any) error {
	path, err := r.ResolvePath(filename)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filename, err)
	}
	// G306: Use 0600 for files
	return os.WriteFile(path, data, 0600)
}

func (r *FilesystemRepository) LoadSprint() (*planning.Sprint, error) {
	s, err := loadYAML[planning.Sprint](r, SprintFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s is missing", ErrNotInitialized, SprintFile)
		}
		return nil, err
	}
	return s, nil
}

func (r *FilesystemRepository) SaveSprint(s *planning.Sprint) error {
	return r.saveYAML(SprintFile, s)
}

// SaveReport writes v as indented JSON to report.json.
func (r *FilesystemRepository) SaveReport(v any) error {
	path, err := r.ResolvePath(ReportFile)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

// LoadReport decodes report.json into v.
func (r *FilesystemRepository) LoadReport(v any) error {
	data, err := r.LoadRaw(ReportFile)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to unmarshal report: %w", err)
	}
	return nil
}
