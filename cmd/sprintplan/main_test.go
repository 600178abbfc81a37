package main

import "testing"

func TestRun_Help(t *testing.T) {
	if code := run([]string{"--help"}); code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
}

func TestRun_UnknownCommand(t *testing.T) {
	if code := run([]string{"invalid-cmd-999"}); code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
}

func TestRun_ValidateMissingWorkspace(t *testing.T) {
	if code := run([]string{"validate", "-C", t.TempDir(), "--log-level", "error"}); code != 2 {
		t.Fatalf("expected exit code 2, got %d", code)
	}
}
