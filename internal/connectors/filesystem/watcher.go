package filesystem

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/kugarocks/markdown-finder/internal/core/domain"
	"github.com/kugarocks/markdown-finder/internal/core/ports/driven"
	"github.com/kugarocks/markdown-finder/internal/logger"
)

// Ensure Watcher implements the interface.
var _ driven.ChangeWatcher = (*Watcher)(nil)

// ErrWatcherClosed is returned by Watch after Close.
var ErrWatcherClosed = errors.New("watcher closed")

// Watcher reports changes to markdown files below the scanner root.
// fsnotify watches are not recursive, so every directory is added and
// new directories are added as they appear. Bursts of events for the
// same path within the debounce window collapse into one change.
type Watcher struct {
	scanner  *Scanner
	debounce time.Duration

	mu     sync.Mutex
	fsw    *fsnotify.Watcher
	closed bool
}

// NewWatcher creates a watcher using scanner's root and rules.
func NewWatcher(scanner *Scanner, debounce time.Duration) *Watcher {
	return &Watcher{scanner: scanner, debounce: debounce}
}

// Watch starts watching. The channel closes when ctx is done or the
// watcher is closed.
func (w *Watcher) Watch(ctx context.Context) (<-chan domain.FileChange, error) {
	if err := w.scanner.Validate(ctx); err != nil {
		return nil, err
	}

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil, ErrWatcherClosed
	}
	if w.fsw != nil {
		_ = w.fsw.Close()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		w.mu.Unlock()
		return nil, err
	}
	w.fsw = fsw
	w.mu.Unlock()

	w.addRecursive(fsw, w.scanner.Root())

	changes := make(chan domain.FileChange, 64)
	go w.loop(ctx, fsw, changes)
	return changes, nil
}

func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher, changes chan<- domain.FileChange) {
	defer close(changes)
	defer fsw.Close()

	pending := make(map[string]domain.FileChange)
	timers := make(map[string]*time.Timer)
	fire := make(chan string)
	done := make(chan struct{})
	defer func() {
		close(done)
		for _, t := range timers {
			t.Stop()
		}
	}()

	emit := func(c domain.FileChange) bool {
		select {
		case changes <- c:
			return true
		case <-ctx.Done():
			return false
		}
	}

	queue := func(c domain.FileChange) bool {
		if w.debounce <= 0 {
			return emit(c)
		}
		pending[c.Path] = c
		if t, ok := timers[c.Path]; ok {
			t.Stop()
		}
		p := c.Path
		timers[p] = time.AfterFunc(w.debounce, func() {
			select {
			case fire <- p:
			case <-done:
			}
		})
		return true
	}

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			for _, c := range w.handleFsEvent(fsw, event) {
				if !queue(c) {
					return
				}
			}

		case p := <-fire:
			c, ok := pending[p]
			if !ok {
				continue
			}
			delete(pending, p)
			delete(timers, p)
			if !emit(c) {
				return
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

// handleFsEvent converts one fsnotify event into changes. A new
// directory is watched and the markdown files already in it are
// reported as created.
func (w *Watcher) handleFsEvent(fsw *fsnotify.Watcher, event fsnotify.Event) []domain.FileChange {
	path := filepath.Clean(event.Name)
	rel, err := filepath.Rel(w.scanner.Root(), path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return nil
	}
	if !w.scanner.opts.ShowHidden && isHidden(rel) {
		return nil
	}

	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		// The path may have been a file or a directory.
		if IsMarkdown(path) && !w.scanner.Accepts(path) {
			return nil
		}
		return []domain.FileChange{{Type: domain.ChangeDeleted, Path: path}}

	case event.Has(fsnotify.Create):
		// Lstat: a symlinked directory is never entered.
		info, err := os.Lstat(path)
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if w.scanner.matcher.ExcludedDir(filepath.ToSlash(rel)) {
				return nil
			}
			return w.addRecursive(fsw, path)
		}
		if !w.scanner.Accepts(path) {
			return nil
		}
		return []domain.FileChange{{Type: domain.ChangeCreated, Path: path}}

	case event.Has(fsnotify.Write):
		if !w.scanner.Accepts(path) {
			return nil
		}
		return []domain.FileChange{{Type: domain.ChangeUpdated, Path: path}}
	}

	return nil
}

// addRecursive watches dir and every directory below it that the
// scanner would enter, returning the markdown files found.
func (w *Watcher) addRecursive(fsw *fsnotify.Watcher, dir string) []domain.FileChange {
	var found []domain.FileChange
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if path != w.scanner.Root() && !w.scanner.opts.ShowHidden && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() {
			if w.scanner.Accepts(path) {
				found = append(found, domain.FileChange{Type: domain.ChangeCreated, Path: path})
			}
			return nil
		}
		if path != w.scanner.Root() && w.scanner.matcher.ExcludedDir(w.scanner.rel(path)) {
			return filepath.SkipDir
		}
		if err := fsw.Add(path); err != nil {
			logger.Warn("Cannot watch %s: %v", path, err)
		}
		return nil
	})
	return found
}

// Close stops the watcher. Watch fails afterwards.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	if w.fsw != nil {
		return w.fsw.Close()
	}
	return nil
}
