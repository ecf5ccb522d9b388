// Copyright (c) 2024-2025 Mamerto Fabian / Codefrost
// SPDX-License-Identifier: MIT

// Package snapshot captures and caches point-in-time file trees.
package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// =============================================================================
// INVALIDATION WATCHER
// =============================================================================

// InvalidateFunc receives the project identifier whose cached state
// should be discarded.
type InvalidateFunc func(projectID string)

// Watcher observes a project tree and fires an invalidation callback
// when underlying storage changes outside a capture, debouncing bursts
// of filesystem events into a single signal.
type Watcher struct {
	projectID string
	root      string
	watcher   *fsnotify.Watcher
	debounce  time.Duration
	callback  InvalidateFunc

	mu      sync.Mutex
	pending time.Time // zero when no signal is queued

	ctx    context.Context
	cancel context.CancelFunc
}

// NewWatcher creates a watcher over the project root. The callback runs
// on the watcher's own goroutine once events have settled for the
// debounce interval.
func NewWatcher(root, projectID string, debounce time.Duration, callback InvalidateFunc) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Watcher{
		projectID: projectID,
		root:      root,
		watcher:   fsw,
		debounce:  debounce,
		callback:  callback,
		ctx:       ctx,
		cancel:    cancel,
	}, nil
}

// Watch registers the tree and starts the event goroutines.
func (w *Watcher) Watch() error {
	if err := w.addRecursive(w.root); err != nil {
		return err
	}

	go w.processEvents()
	go w.processPending()

	return nil
}

// addRecursive adds a directory and all its subdirectories to the watch
// list, skipping the built-in ignore set.
func (w *Watcher) addRecursive(dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip unreadable entries
		}
		if !info.IsDir() {
			return nil
		}

		name := filepath.Base(path)
		for _, ignore := range defaultIgnores {
			if name == ignore {
				return filepath.SkipDir
			}
		}

		// Watch registration failures on individual directories are
		// non-fatal; remaining directories still deliver events.
		_ = w.watcher.Add(path)
		return nil
	})
}

// processEvents marks a pending invalidation for relevant events.
func (w *Watcher) processEvents() {
	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			w.mu.Lock()
			w.pending = time.Now()
			w.mu.Unlock()

			// New directories need registration to keep coverage.
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = w.addRecursive(event.Name)
				}
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

// processPending fires the callback once events settle for the debounce
// interval.
func (w *Watcher) processPending() {
	ticker := time.NewTicker(w.debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return

		case <-ticker.C:
			w.mu.Lock()
			fire := !w.pending.IsZero() && time.Since(w.pending) >= w.debounce
			if fire {
				w.pending = time.Time{}
			}
			w.mu.Unlock()

			if fire {
				w.callback(w.projectID)
			}
		}
	}
}

// Close stops watching and releases resources.
func (w *Watcher) Close() error {
	w.cancel()
	return w.watcher.Close()
}
