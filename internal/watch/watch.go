// Package watch re-parses files as they change on disk.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/gerunddev/parsercache/internal/batch"
	"github.com/gerunddev/parsercache/internal/file"
	"github.com/gerunddev/parsercache/internal/logger"
)

// DefaultDebounce is the quiet period used when none is configured
const DefaultDebounce = 200 * time.Millisecond

// ParsedFunc is called after each debounced parse, on the watch goroutine
type ParsedFunc func(path string, f *file.File, err error)

// Watcher parses files under a set of directories as they change.
// Events for one path are debounced so a burst of writes parses once.
type Watcher struct {
	watcher  *fsnotify.Watcher
	runner   *batch.Runner
	log      *logger.Logger
	dirs     []string
	debounce time.Duration
	onParsed ParsedFunc

	mu      sync.Mutex
	pending map[string]*time.Timer
	ready   chan string
}

// New creates a watcher over dirs. Call Run to start it.
func New(runner *batch.Runner, dirs []string, debounce time.Duration) (*Watcher, error) {
	if len(dirs) == 0 {
		return nil, fmt.Errorf("no directories to watch")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	abs := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		a, err := filepath.Abs(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", dir, err)
		}
		abs = append(abs, a)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		watcher:  fw,
		runner:   runner,
		log:      logger.Discard(),
		dirs:     abs,
		debounce: debounce,
		pending:  make(map[string]*time.Timer),
		ready:    make(chan string, 16),
	}, nil
}

// SetLogger sets the logger for this watcher
func (w *Watcher) SetLogger(l *logger.Logger) {
	w.log = l
}

// OnParsed registers fn to be called with the outcome of every parse
func (w *Watcher) OnParsed(fn ParsedFunc) {
	w.onParsed = fn
}

// Run watches until ctx is cancelled. It closes the underlying watcher on
// return, so a Watcher runs once.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.close()

	for _, dir := range w.dirs {
		if err := w.addTree(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			w.handle(ctx, event)

		case path := <-w.ready:
			f, parsed, err := w.runner.ParseFile(ctx, path)
			if !parsed && err == nil {
				continue
			}
			if w.onParsed != nil {
				w.onParsed(path, f, err)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.log.Error("watcher error", "error", err)
		}
	}
}

func (w *Watcher) handle(ctx context.Context, event fsnotify.Event) {
	if event.Op == fsnotify.Chmod {
		return
	}
	if w.excluded(event.Name) {
		return
	}

	w.log.WatchEvent(event.Name, event.Op.String())

	if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		w.cancel(event.Name)
		w.runner.Forget(event.Name)
		return
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(event.Name); err != nil {
				w.log.FileError(event.Name, err)
			}
			return
		}
	}

	if !w.wanted(event.Name) {
		return
	}
	w.trigger(ctx, event.Name)
}

// trigger schedules path for parsing once it has been quiet for the debounce period
func (w *Watcher) trigger(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.pending[path]; ok {
		t.Stop()
	}
	w.pending[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()

		select {
		case w.ready <- path:
		case <-ctx.Done():
		}
	})
}

func (w *Watcher) cancel(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.pending[path]; ok {
		t.Stop()
		delete(w.pending, path)
	}
}

func (w *Watcher) close() {
	w.mu.Lock()
	for path, t := range w.pending {
		t.Stop()
		delete(w.pending, path)
	}
	w.mu.Unlock()

	if err := w.watcher.Close(); err != nil {
		w.log.Error("failed to close watcher", "error", err)
	}
}

// addTree watches dir and every directory below it
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && (strings.HasPrefix(d.Name(), ".") || w.excluded(path)) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch directory %q: %w", path, err)
		}
		w.log.Debug("watching directory", "path", path)
		return nil
	})
}

// wanted reports whether path has an extension with a registered stack
func (w *Watcher) wanted(path string) bool {
	ext := file.ExtOf(path)
	if ext == "" || strings.HasPrefix(filepath.Base(path), ".") {
		return false
	}
	return slices.Contains(w.runner.Exts(), ext)
}

func (w *Watcher) excluded(path string) bool {
	patterns := w.runner.ExcludePatterns()
	if len(patterns) == 0 {
		return false
	}
	for _, dir := range w.dirs {
		rel, err := filepath.Rel(dir, path)
		if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
			continue
		}
		return batch.Excluded(rel, patterns)
	}
	return false
}
