package festival

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// settleDelay is how long a lineup file must stay quiet before it is
// re-read. Editors and scp write in bursts; reading mid-write yields
// truncated JSON.
const settleDelay = 500 * time.Millisecond

// Watcher reloads lineup files as they change on disk.
type Watcher struct {
	loader *Loader
	dir    string

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// NewWatcher creates a watcher over the festivals directory.
func NewWatcher(loader *Loader, dir string) *Watcher {
	return &Watcher{
		loader:  loader,
		dir:     dir,
		pending: make(map[string]*time.Timer),
	}
}

// Run loads the directory once, then watches it until the context is
// cancelled. Blocks.
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.loader.LoadDir(ctx, w.dir); err != nil {
		return err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			w.cancelPending()
			return ctx.Err()
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, event)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.loader.logger.Warn("festival watcher error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	path := event.Name
	if !strings.HasSuffix(path, ".json") || strings.HasPrefix(filepath.Base(path), ".") {
		return
	}

	if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
		w.cancelTimer(path)
		if err := w.loader.RemoveFile(ctx, path); err != nil {
			w.loader.logger.Warn("failed to remove festival", "path", path, "error", err)
		}
		return
	}

	if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
		w.settle(ctx, path)
	}
}

// settle (re)arms the debounce timer for a path.
func (w *Watcher) settle(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.pending[path]; ok {
		timer.Stop()
	}
	w.pending[path] = time.AfterFunc(settleDelay, func() {
		w.cancelTimer(path)
		if ctx.Err() != nil {
			return
		}
		if err := w.loader.LoadFile(ctx, path); err != nil {
			w.loader.logger.Warn("failed to reload lineup file", "path", path, "error", err)
		}
	})
}

func (w *Watcher) cancelTimer(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if timer, ok := w.pending[path]; ok {
		timer.Stop()
		delete(w.pending, path)
	}
}

func (w *Watcher) cancelPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, timer := range w.pending {
		timer.Stop()
		delete(w.pending, path)
	}
}
