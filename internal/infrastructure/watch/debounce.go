// Package watch recomputes sprint reports when workspace files change.
package watch

import (
	"sort"
	"sync"
	"time"
)

// Batcher collects changed paths and hands them to a callback once no new
// path arrived for the quiet window.
type Batcher struct {
	window   time.Duration
	mu       sync.Mutex
	timer    *time.Timer
	pending  map[string]struct{}
	callback func([]string)
}

// NewBatcher creates a batcher with the given quiet window.
func NewBatcher(window time.Duration, callback func([]string)) *Batcher {
	return &Batcher{
		window:   window,
		pending:  make(map[string]struct{}),
		callback: callback,
	}
}

// Add records a path and restarts the quiet window.
func (b *Batcher) Add(path string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.pending[path] = struct{}{}
	if b.timer != nil {
		b.timer.Stop()
	}
	b.timer = time.AfterFunc(b.window, b.fire)
}

func (b *Batcher) fire() {
	b.mu.Lock()
	paths := b.drain()
	b.mu.Unlock()
	if len(paths) > 0 {
		b.callback(paths)
	}
}

// drain empties the pending set. Callers hold mu.
func (b *Batcher) drain() []string {
	paths := make([]string, 0, len(b.pending))
	for p := range b.pending {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	b.pending = make(map[string]struct{})
	return paths
}

// Stop cancels any pending callback and drops the collected paths.
func (b *Batcher) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.timer != nil {
		b.timer.Stop()
	}
	b.pending = make(map[string]struct{})
}
