// Package watcher reports changes to a single file, such as the corpus text.
//
// The file's parent directory is watched so editors that save by writing a temporary
// file and renaming it over the original are still seen. Writes are debounced: an
// event is emitted only once the file's size and modification time stop changing.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher monitors one file.
type Watcher struct {
	path    string
	logger  *slog.Logger
	opts    Options
	watcher *fsnotify.Watcher

	pending *pendingEvent // set while a change is settling
	stopped bool
	mu      sync.Mutex // protects pending and stopped

	events   chan Event
	errors   chan error
	done     chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// pendingEvent tracks a file that may still be changing
type pendingEvent struct {
	size    int64
	modTime time.Time
	timer   *time.Timer
}

// New creates a watcher for path. The parent directory must exist.
func New(path string, logger *slog.Logger, opts Options) (*Watcher, error) {
	opts.setDefaults()

	path, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}

	logger.Debug("watching file", "path", path)

	return &Watcher{
		path:    path,
		logger:  logger,
		opts:    opts,
		watcher: fw,
		events:  make(chan Event, 16),
		errors:  make(chan error, 4),
		done:    make(chan struct{}),
	}, nil
}

// Path returns the watched file path.
func (w *Watcher) Path() string {
	return w.path
}

// Start processes file system events until ctx is canceled or Stop is called.
// It blocks; run it in its own goroutine.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return nil
	}
	w.wg.Add(1)
	w.mu.Unlock()
	defer w.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-w.done:
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleFsnotifyEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			select {
			case w.errors <- err:
			default:
				w.logger.Warn("watcher error dropped", "error", err)
			}
		}
	}
}

// handleFsnotifyEvent handles an fsnotify event with debouncing
func (w *Watcher) handleFsnotifyEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}

	switch {
	case event.Op&(fsnotify.Write|fsnotify.Create) != 0:
		w.startSettling()
	case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		w.cancelPending()
		w.emitEvent(Event{Type: EventRemoved, Path: w.path})
	}
}

// startSettling begins or restarts the settle timer.
func (w *Watcher) startSettling() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return
	}
	if w.pending != nil {
		w.pending.timer.Stop()
	}

	info, err := os.Stat(w.path)
	if err != nil {
		w.logger.Warn("failed to stat file", "path", w.path, "error", err)
		w.pending = nil
		return
	}

	w.pending = &pendingEvent{
		size:    info.Size(),
		modTime: info.ModTime(),
		timer:   time.AfterFunc(w.opts.SettleDelay, w.checkSettled),
	}
}

// checkSettled checks if the file has finished changing.
// It runs on a timer goroutine, so it registers with wg before emitting.
func (w *Watcher) checkSettled() {
	w.mu.Lock()
	pending := w.pending
	if w.stopped || pending == nil {
		w.mu.Unlock()
		return
	}

	info, err := os.Stat(w.path)
	if err == nil && (info.Size() != pending.size || !info.ModTime().Equal(pending.modTime)) {
		pending.size = info.Size()
		pending.modTime = info.ModTime()
		pending.timer = time.AfterFunc(w.opts.SettleDelay, w.checkSettled)
		w.mu.Unlock()
		return
	}

	w.pending = nil
	w.wg.Add(1)
	w.mu.Unlock()
	defer w.wg.Done()

	if err != nil {
		w.emitEvent(Event{Type: EventRemoved, Path: w.path})
		return
	}
	w.emitEvent(Event{
		Type:    EventModified,
		Path:    w.path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	})
}

// cancelPending cancels a pending event
func (w *Watcher) cancelPending() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.pending != nil {
		w.pending.timer.Stop()
		w.pending = nil
	}
}

// emitEvent sends an event unless the watcher is stopping.
func (w *Watcher) emitEvent(event Event) {
	select {
	case w.events <- event:
	case <-w.done:
	}
}

// Events returns the events channel. It is closed by Stop.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Errors returns the errors channel. It is closed by Stop.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Stop stops the watcher and releases resources. Calling it twice is a no-op.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)

		w.mu.Lock()
		w.stopped = true
		if w.pending != nil {
			w.pending.timer.Stop()
			w.pending = nil
		}
		w.mu.Unlock()

		err = w.watcher.Close()

		w.wg.Wait()

		close(w.events)
		close(w.errors)
	})
	return err
}
