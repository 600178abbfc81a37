package watch_test

import (
	"testing"

	"github.com/felixgeelhaar/sprintplan/internal/infrastructure/watch"
)

func TestWorkspaceFilter(t *testing.T) {
	f := watch.WorkspaceFilter()

	tests := []struct {
		path  string
		match bool
	}{
		{".sprintplan/tasks.yaml", true},
		{".sprintplan/sprint.yaml", true},
		{".sprintplan/config.yaml", true},
		{".sprintplan/worklogs.yaml", true},
		{".sprintplan/report.json", false},
		{".sprintplan/.tasks.yaml.swp", false},
		{".sprintplan/tasks.yaml~", false},
		{".sprintplan/notes.md", false},
	}

	for _, tt := range tests {
		if got := f.Matches(tt.path); got != tt.match {
			t.Errorf("Matches(%q) = %v, want %v", tt.path, got, tt.match)
		}
	}
}

func TestFilter_EmptyIncludePassesAll(t *testing.T) {
	f := &watch.Filter{Exclude: []string{"*.tmp"}}
	if !f.Matches("a/b.yaml") {
		t.Error("expected pass without include patterns")
	}
	if f.Matches("a/b.tmp") {
		t.Error("expected exclude to win")
	}
}
