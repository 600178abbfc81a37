package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestWatcher_DeliversWorkspaceChanges(t *testing.T) {
	dir := t.TempDir()
	tasks := filepath.Join(dir, "tasks.yaml")
	if err := os.WriteFile(tasks, []byte("tasks: []\n"), 0600); err != nil {
		t.Fatal(err)
	}

	var mu sync.Mutex
	var changes []Change
	w, err := New(dir, func(c Change) {
		mu.Lock()
		changes = append(changes, c)
		mu.Unlock()
	}, WithDebounce(50*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		_ = w.Run(ctx)
	}()

	// Give watcher time to start
	time.Sleep(50 * time.Millisecond)

	if err := os.WriteFile(tasks, []byte("tasks: [{id: 1, name: A}]\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "report.json"), []byte("{}"), 0600); err != nil {
		t.Fatal(err)
	}

	time.Sleep(300 * time.Millisecond)
	cancel()

	mu.Lock()
	defer mu.Unlock()
	if len(changes) == 0 {
		t.Fatal("expected at least one change batch")
	}
	for _, c := range changes {
		for _, f := range c.Files {
			if filepath.Base(f) != "tasks.yaml" {
				t.Errorf("unexpected file in batch: %s", f)
			}
		}
	}
}

func TestWatcher_StopsOnCancel(t *testing.T) {
	w, err := New(t.TempDir(), nil)
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestNew_MissingDirectory(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "nope"), nil); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
