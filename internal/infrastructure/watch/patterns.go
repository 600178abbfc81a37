package watch

import (
	"path/filepath"

	"github.com/felixgeelhaar/sprintplan/pkg/storage"
)

// Filter selects paths by include and exclude glob patterns matched
// against the base name.
type Filter struct {
	Include []string
	Exclude []string
}

// WorkspaceFilter passes the YAML documents and config of a workspace. The
// report written by a recomputation is excluded so it cannot retrigger one.
func WorkspaceFilter() *Filter {
	include := append([]string{storage.ConfigFile}, storage.WorkspaceFiles...)
	return &Filter{
		Include: include,
		Exclude: []string{storage.ReportFile, ".*", "*~", "*.swp", "*.tmp"},
	}
}

// Matches reports whether the path passes the filter. Excludes win; an
// empty include list passes everything else.
func (f *Filter) Matches(path string) bool {
	base := filepath.Base(path)
	for _, pattern := range f.Exclude {
		if matched, _ := filepath.Match(pattern, base); matched {
			return false
		}
	}
	if len(f.Include) == 0 {
		return true
	}
	for _, pattern := range f.Include {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}
	return false
}
