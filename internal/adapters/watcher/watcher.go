// Package watcher implements ports.Watcher on top of fsnotify.
package watcher

import (
	"context"
	"errors"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/bowersync/internal/core/domain"
	"go.trai.ch/bowersync/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Watcher = (*Watcher)(nil)

// skipDirectories are never descended into when watching a tree.
var skipDirectories = map[string]bool{
	".git":         true,
	".jj":          true,
	"node_modules": true,
}

const eventChannelBuffer = 100

// Watcher reports changes below watched directories and to individually
// watched files. Files are watched through their parent directory, so a file
// that does not exist yet is reported once it is created.
type Watcher struct {
	logger ports.Logger

	mu        sync.RWMutex
	fsWatcher *fsnotify.Watcher
	roots     []string
	files     map[string]struct{}
	events    chan ports.WatchEvent
}

// NewWatcher creates a watcher. The underlying fsnotify watcher is opened by Start.
func NewWatcher(logger ports.Logger) *Watcher {
	return &Watcher{
		logger: logger,
		files:  make(map[string]struct{}),
		events: make(chan ports.WatchEvent, eventChannelBuffer),
	}
}

// Start begins watching paths. Directories are watched recursively.
func (w *Watcher) Start(ctx context.Context, paths ...string) error {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Join(domain.ErrWatchFailed, zerr.Wrap(err, "failed to create file watcher"))
	}

	w.mu.Lock()
	w.fsWatcher = fsWatcher
	w.mu.Unlock()

	for _, path := range paths {
		if err := w.add(filepath.Clean(path)); err != nil {
			_ = fsWatcher.Close()
			return errors.Join(domain.ErrWatchFailed, zerr.With(err, "path", path))
		}
	}

	go w.processEvents(ctx, fsWatcher)

	return nil
}

// Stop stops the watcher and releases all resources.
func (w *Watcher) Stop() error {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.fsWatcher == nil {
		return nil
	}
	return w.fsWatcher.Close()
}

// Events returns an iterator of file system events. It ends when the watcher stops.
func (w *Watcher) Events() iter.Seq[ports.WatchEvent] {
	return func(yield func(ports.WatchEvent) bool) {
		for event := range w.events {
			if !yield(event) {
				return
			}
		}
	}
}

func (w *Watcher) add(path string) error {
	info, err := os.Stat(path)
	switch {
	case err == nil && info.IsDir():
		w.mu.Lock()
		w.roots = append(w.roots, path)
		w.mu.Unlock()
		return w.addTree(path)
	case err == nil || errors.Is(err, fs.ErrNotExist):
		w.mu.Lock()
		w.files[path] = struct{}{}
		w.mu.Unlock()
		return w.fsWatcher.Add(filepath.Dir(path))
	default:
		return err
	}
}

// addTree registers root and every directory below it.
func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil //nolint:nilerr // unreadable subdirectories are skipped
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && skipDirectories[d.Name()] {
			return fs.SkipDir
		}
		return w.fsWatcher.Add(path)
	})
}

// promote turns a watched file path that was created as a directory into a watched tree.
func (w *Watcher) promote(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.files[path]; ok {
		delete(w.files, path)
		w.roots = append(w.roots, path)
	}
}

// accepts reports whether path is a watched file or lies below a watched directory.
func (w *Watcher) accepts(path string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if _, ok := w.files[path]; ok {
		return true
	}
	for _, root := range w.roots {
		if path == root || strings.HasPrefix(path, root+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func (w *Watcher) processEvents(ctx context.Context, fsWatcher *fsnotify.Watcher) {
	defer close(w.events)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fsWatcher.Events:
			if !ok {
				return
			}

			path := filepath.Clean(event.Name)
			if !w.accepts(path) {
				continue
			}

			op, ok := convertOp(event.Op)
			if !ok {
				continue
			}

			if op == ports.OpCreate {
				if info, err := os.Stat(path); err == nil && info.IsDir() && !skipDirectories[info.Name()] {
					w.promote(path)
					if err := w.addTree(path); err != nil {
						w.logger.Warn("watcher: failed to watch " + path + ": " + err.Error())
					}
				}
			}

			select {
			case w.events <- ports.WatchEvent{Path: path, Operation: op}:
			case <-ctx.Done():
				return
			}

		case err, ok := <-fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher: file system error: " + err.Error())
		}
	}
}

func convertOp(op fsnotify.Op) (ports.WatchOp, bool) {
	switch {
	case op.Has(fsnotify.Write):
		return ports.OpWrite, true
	case op.Has(fsnotify.Create):
		return ports.OpCreate, true
	case op.Has(fsnotify.Remove):
		return ports.OpRemove, true
	case op.Has(fsnotify.Rename):
		return ports.OpRename, true
	default:
		return 0, false
	}
}
