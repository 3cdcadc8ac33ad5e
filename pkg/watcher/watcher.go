package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/stuxhq/stux/pkg/loader"
	"github.com/stuxhq/stux/pkg/model"
)

// FeedWatcher reports which pillar's feed file changed inside a directory.
// The directory is watched rather than the files so that editors replacing
// a file by rename are still noticed.
type FeedWatcher struct {
	dir      string
	fsw      *fsnotify.Watcher
	debounce *Debouncer
	logger   *log.Logger
	onChange func(model.Pillar)

	files map[string]model.Pillar

	closeOnce sync.Once
	done      chan struct{}
}

// Option configures a FeedWatcher
type Option func(*FeedWatcher)

// WithDebounce overrides the debounce window
func WithDebounce(d time.Duration) Option {
	return func(w *FeedWatcher) {
		w.debounce = NewDebouncer(d)
	}
}

// WithLogger sets the logger used for watch errors
func WithLogger(l *log.Logger) Option {
	return func(w *FeedWatcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// NewFeedWatcher starts watching dir. onChange runs on the watcher's own
// goroutine; UI code should hand the pillar over to its event loop.
func NewFeedWatcher(dir string, onChange func(model.Pillar), opts ...Option) (*FeedWatcher, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve watch directory: %w", err)
	}

	w := &FeedWatcher{
		dir:      abs,
		debounce: NewDebouncer(0),
		logger:   log.Default(),
		onChange: onChange,
		files:    make(map[string]model.Pillar, len(model.Pillars)),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	for _, p := range model.Pillars {
		w.files[loader.FeedFileName(p)] = p
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	if err := fsw.Add(abs); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", abs, err)
	}
	w.fsw = fsw

	return w, nil
}

// Run processes events until ctx is canceled or Close is called
func (w *FeedWatcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.Close()
			return
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("feed watcher error", "dir", w.dir, "err", err)
		}
	}
}

func (w *FeedWatcher) handle(ev fsnotify.Event) {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
		return
	}
	p, ok := w.files[filepath.Base(ev.Name)]
	if !ok {
		return
	}
	w.logger.Debug("feed file changed", "pillar", p, "op", ev.Op.String())
	w.debounce.Trigger(string(p), func() {
		w.onChange(p)
	})
}

// Dir returns the absolute watched directory
func (w *FeedWatcher) Dir() string {
	return w.dir
}

// Close stops the watcher and drops pending reloads
func (w *FeedWatcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		w.debounce.Cancel()
		err = w.fsw.Close()
	})
	return err
}
