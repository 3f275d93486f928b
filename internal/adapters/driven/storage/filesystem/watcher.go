package filesystem

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Ogechifaith-analytics/chunckingagent/internal/logger"
)

// settleDelay is how long a file must be quiet before it is reported.
// Copies into the watched directory arrive as a burst of write events;
// reporting on the first one would hand a half-written PDF downstream.
const settleDelay = 500 * time.Millisecond

// Watcher reports PDF files created or modified in a directory.
type Watcher struct {
	dir string

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// NewWatcher creates a watcher over the given directory.
func NewWatcher(dir string) *Watcher {
	return &Watcher{dir: dir, pending: make(map[string]*time.Timer)}
}

// Run watches until the context is cancelled, invoking onDocument with
// the base name of each PDF after its writes settle. Callbacks run on
// the watcher goroutine, so a slow handler delays later reports but
// never drops them.
func (w *Watcher) Run(ctx context.Context, onDocument func(name string)) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}
	logger.Info("watching %s for new documents", w.dir)

	settled := make(chan string)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
				continue
			}
			name := filepath.Base(event.Name)
			if !strings.EqualFold(filepath.Ext(name), ".pdf") {
				continue
			}
			w.debounce(name, settled)

		case name := <-settled:
			onDocument(name)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", err)
		}
	}
}

// debounce (re)arms the settle timer for a file.
func (w *Watcher) debounce(name string, settled chan<- string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.pending[name]; ok {
		timer.Reset(settleDelay)
		return
	}
	w.pending[name] = time.AfterFunc(settleDelay, func() {
		w.mu.Lock()
		delete(w.pending, name)
		w.mu.Unlock()
		settled <- name
	})
}
