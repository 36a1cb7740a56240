package watch

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"go.trai.ch/bowersync/internal/core/domain"
	"go.trai.ch/bowersync/internal/core/ports"
	"go.trai.ch/zerr"
)

// Loop watches a set of paths and reports debounced changes.
//
// Paths registered with Track are fingerprinted: a batch that leaves all of
// them byte-identical and touches nothing else is dropped.
type Loop struct {
	watcher ports.Watcher
	fs      ports.FileSystem
	window  time.Duration
	filter  *ContentFilter
	tracked map[string]struct{}
}

// NewLoop creates a loop with the given debounce window.
func NewLoop(watcher ports.Watcher, fs ports.FileSystem, window time.Duration) *Loop {
	if window <= 0 {
		window = domain.DefaultDebounce
	}
	return &Loop{
		watcher: watcher,
		fs:      fs,
		window:  window,
		filter:  NewContentFilter(),
		tracked: make(map[string]struct{}),
	}
}

// Track fingerprints path and filters no-op events on it. Call it before Run.
func (l *Loop) Track(path string) {
	l.tracked[path] = struct{}{}
	data, exists := l.read(path)
	l.filter.Record(path, data, exists)
}

// Run starts the watcher on paths and calls onChange with the sorted changed
// paths after each quiet window. It returns when ctx is cancelled or the
// watcher's event stream ends. onChange is never called concurrently.
func (l *Loop) Run(ctx context.Context, paths []string, onChange func(ctx context.Context, changed []string)) error {
	if err := l.watcher.Start(ctx, paths...); err != nil {
		return errors.Join(domain.ErrWatchFailed, zerr.Wrap(err, "failed to start watcher"))
	}
	defer func() { _ = l.watcher.Stop() }()

	var (
		mu     sync.Mutex
		queued []string
	)
	notify := make(chan struct{}, 1)
	debouncer := NewDebouncer(l.window, func(batch []string) {
		mu.Lock()
		queued = append(queued, batch...)
		mu.Unlock()
		select {
		case notify <- struct{}{}:
		default:
		}
	})
	take := func() []string {
		mu.Lock()
		defer mu.Unlock()
		batch := queued
		queued = nil
		slices.Sort(batch)
		return slices.Compact(batch)
	}
	deliver := func() {
		if changed := l.relevant(take()); len(changed) > 0 {
			onChange(ctx, changed)
		}
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for event := range l.watcher.Events() {
			debouncer.Add(event.Path)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			debouncer.Stop()
			return nil
		case <-done:
			debouncer.Flush()
			deliver()
			return nil
		case <-notify:
			deliver()
		}
	}
}

// relevant drops tracked paths whose content did not change.
func (l *Loop) relevant(paths []string) []string {
	changed := make([]string, 0, len(paths))
	for _, path := range paths {
		if _, ok := l.tracked[path]; ok {
			data, exists := l.read(path)
			if !l.filter.Changed(path, data, exists) {
				continue
			}
		}
		changed = append(changed, path)
	}
	return changed
}

func (l *Loop) read(path string) ([]byte, bool) {
	data, err := l.fs.ReadFile(path)
	if err != nil {
		return nil, false
	}
	return data, true
}
