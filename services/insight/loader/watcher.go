// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package loader

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ReloadHandler is called once per debounced burst of changes to the
// watched data file.
type ReloadHandler func()

// ReloadWatcher watches a snapshot data file and triggers reloads.
//
// # Description
//
// Watches the data file's directory (editors and atomic writers often
// replace the file rather than write in place) and calls the handler
// after a debounce window without further changes. This keeps a bulk
// export from triggering a rebuild per write.
//
// # Thread Safety
//
// Safe for concurrent use. The handler is called from a single
// goroutine.
type ReloadWatcher struct {
	path     string
	watcher  *fsnotify.Watcher
	handler  ReloadHandler
	debounce time.Duration
	log      *slog.Logger

	changes  chan struct{}
	done     chan struct{}
	stopOnce sync.Once

	mu       sync.RWMutex
	watching bool
}

// ReloadWatcherOptions configures the ReloadWatcher.
type ReloadWatcherOptions struct {
	// DebounceWindow is how long to wait for more changes before
	// triggering a reload.
	// Default: 500ms
	DebounceWindow time.Duration
}

// DefaultReloadWatcherOptions returns sensible defaults.
func DefaultReloadWatcherOptions() ReloadWatcherOptions {
	return ReloadWatcherOptions{
		DebounceWindow: 500 * time.Millisecond,
	}
}

// NewReloadWatcher creates a watcher for the given data file.
//
// Inputs:
//
//	path - Path to the JSONL data file.
//	handler - Called after each debounced burst of changes.
//	opts - Optional configuration (nil uses defaults).
//
// Outputs:
//
//	*ReloadWatcher - Ready to use; call Start to begin watching.
//	error - Non-nil if the underlying watcher could not be created.
func NewReloadWatcher(path string, handler ReloadHandler, opts *ReloadWatcherOptions) (*ReloadWatcher, error) {
	if opts == nil {
		defaults := DefaultReloadWatcherOptions()
		opts = &defaults
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &ReloadWatcher{
		path:     filepath.Clean(path),
		watcher:  watcher,
		handler:  handler,
		debounce: opts.DebounceWindow,
		log:      slog.Default().With("component", "insight.watcher"),
		changes:  make(chan struct{}, 64),
		done:     make(chan struct{}),
	}, nil
}

// Start begins watching for changes to the data file.
//
// Spawns two goroutines, an event filter and a debouncer. Both exit
// when Stop() is called or the context is canceled.
func (w *ReloadWatcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.watching {
		w.mu.Unlock()
		return nil
	}
	w.watching = true
	w.mu.Unlock()

	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}

	go w.processEvents(ctx)
	go w.debounceLoop(ctx)

	return nil
}

// Stop stops the watcher. Safe to call multiple times.
func (w *ReloadWatcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		w.watcher.Close()

		w.mu.Lock()
		w.watching = false
		w.mu.Unlock()
	})
}

// IsWatching returns true while the watcher is active.
func (w *ReloadWatcher) IsWatching() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.watching
}

// processEvents filters directory events down to the watched file.
func (w *ReloadWatcher) processEvents(ctx context.Context) {
	relevant := fsnotify.Create | fsnotify.Write | fsnotify.Rename
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path || event.Op&relevant == 0 {
				continue
			}
			select {
			case w.changes <- struct{}{}:
			default:
				// A pending signal already guarantees a reload.
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", "error", err)
		}
	}
}

// debounceLoop coalesces change signals and fires the handler after
// the debounce window passes without new ones.
func (w *ReloadWatcher) debounceLoop(ctx context.Context) {
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case <-w.changes:
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}
		case <-timerC:
			timer = nil
			timerC = nil
			if w.handler != nil {
				w.handler()
			}
		}
	}
}
