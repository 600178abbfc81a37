package watch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDebounce is the quiet window used when none is given.
const DefaultDebounce = 300 * time.Millisecond

// Change is a debounced batch of modified workspace files.
type Change struct {
	Files []string
	At    time.Time
}

// Watcher observes one workspace directory with fsnotify.
type Watcher struct {
	fs       *fsnotify.Watcher
	dir      string
	filter   *Filter
	debounce time.Duration
	log      zerolog.Logger
	onChange func(Change)
}

// Option configures a Watcher.
type Option func(*Watcher)

func WithDebounce(d time.Duration) Option { return func(w *Watcher) { w.debounce = d } }

func WithFilter(f *Filter) Option { return func(w *Watcher) { w.filter = f } }

func WithLogger(l zerolog.Logger) Option { return func(w *Watcher) { w.log = l } }

// New starts watching dir. onChange runs on the batcher's goroutine, one
// batch at a time.
func New(dir string, onChange func(Change), opts ...Option) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	w := &Watcher{
		fs:       fw,
		dir:      dir,
		filter:   WorkspaceFilter(),
		debounce: DefaultDebounce,
		log:      zerolog.Nop(),
		onChange: onChange,
	}
	for _, o := range opts {
		o(w)
	}
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	return w, nil
}

// Run delivers change batches until ctx is done or the watcher fails.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fs.Close()

	var mu sync.Mutex
	batcher := NewBatcher(w.debounce, func(files []string) {
		mu.Lock()
		defer mu.Unlock()
		w.log.Debug().Strs("files", files).Msg("workspace changed")
		if w.onChange != nil {
			w.onChange(Change{Files: files, At: time.Now()})
		}
	})
	defer batcher.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !relevant(event.Op) || !w.filter.Matches(event.Name) {
				continue
			}
			w.log.Trace().Str("path", event.Name).Str("op", event.Op.String()).Msg("fs event")
			batcher.Add(event.Name)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watcher error: %w", err)
		}
	}
}

// relevant drops chmod-only events. Editors that save by rename surface as
// create on the new name.
func relevant(op fsnotify.Op) bool {
	return op.Has(fsnotify.Create) || op.Has(fsnotify.Write) ||
		op.Has(fsnotify.Remove) || op.Has(fsnotify.Rename)
}
