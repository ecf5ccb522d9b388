// Copyright (c) 2024-2025 Mamerto Fabian / Codefrost
// SPDX-License-Identifier: MIT

// Package classifier derives per-file change status between successive
// project snapshots.
package classifier

import (
	"context"
	"fmt"
	"time"

	"github.com/mamertofabian/bolt-to-github-sub005/internal/diff"
	"github.com/mamertofabian/bolt-to-github-sub005/internal/snapshot"
)

// =============================================================================
// FILE CHANGE MODEL
// =============================================================================

// Status classifies a file relative to the previous snapshot.
type Status string

const (
	StatusAdded     Status = "added"
	StatusModified  Status = "modified"
	StatusUnchanged Status = "unchanged"
	StatusDeleted   Status = "deleted"
)

// FileChange describes one file's state in the current change set.
//
// Invariants: deleted entries carry empty Content and a PreviousContent;
// added entries carry no PreviousContent; modified entries carry both,
// unequal.
type FileChange struct {
	Path            string
	Status          Status
	Content         string
	PreviousContent string

	// Set by remote comparison when metadata enrichment is enabled.
	AuthMethod string
	ComparedAt time.Time
}

// =============================================================================
// CLASSIFIER
// =============================================================================

// Classifier holds the current/previous snapshot pair and derives the
// classified change set once per load.
//
// The classifier is constructed per caller and holds no global state.
// Callers must serialize their own Load calls; overlapping loads race on
// the snapshot pair and this is a documented caller contract, not an
// enforced guarantee.
type Classifier struct {
	provider snapshot.Provider

	current  *snapshot.Snapshot
	previous *snapshot.Snapshot
	changes  map[string]FileChange
}

// New creates a classifier over the given snapshot provider.
func New(provider snapshot.Provider) *Classifier {
	return &Classifier{provider: provider}
}

// Load fetches a fresh snapshot from the provider and shifts the pair:
// the prior current becomes previous. On the very first successful load
// there is no previous snapshot at all, so the change set classifies
// every path as unchanged rather than presenting a misleading full-tree
// diff.
//
// Provider failures propagate unmodified; the classifier performs no
// retries and commits no partial state on error.
func (c *Classifier) Load(ctx context.Context, forceRefresh bool) error {
	snap, err := c.provider.GetSnapshot(ctx, forceRefresh)
	if err != nil {
		return err
	}

	if c.current != nil {
		c.previous = c.current
	}
	c.current = snap
	c.changes = nil

	return nil
}

// SeedPrevious installs a stored snapshot as the comparison baseline,
// so a restarted process classifies against its last persisted capture.
// Only effective before the first Load; a live pair is never displaced.
func (c *Classifier) SeedPrevious(prev *snapshot.Snapshot) {
	if c.current == nil && c.previous == nil {
		c.previous = prev
	}
}

// Loaded reports whether a snapshot has been loaded.
func (c *Classifier) Loaded() bool {
	return c.current != nil
}

// ChangedFiles returns the classified change set for the current pair,
// computing it on first use and caching it until the next Load or
// Invalidate. Calling it twice without an intervening Load returns an
// identical result.
func (c *Classifier) ChangedFiles() (map[string]FileChange, error) {
	if c.current == nil {
		return nil, fmt.Errorf("no snapshot loaded")
	}

	if c.changes == nil {
		c.changes = c.classify()
	}

	return c.changes, nil
}

// classify computes the four-way classification of current vs previous.
func (c *Classifier) classify() map[string]FileChange {
	changes := make(map[string]FileChange, len(c.current.Files))

	if c.previous == nil {
		// First snapshot: baseline only, nothing is "added".
		for path, content := range c.current.Files {
			changes[path] = FileChange{Path: path, Status: StatusUnchanged, Content: content}
		}
		return changes
	}

	for path, content := range c.current.Files {
		prev, existed := c.previous.Files[path]
		switch {
		case !existed:
			changes[path] = FileChange{Path: path, Status: StatusAdded, Content: content}
		case prev != content:
			changes[path] = FileChange{
				Path:            path,
				Status:          StatusModified,
				Content:         content,
				PreviousContent: prev,
			}
		default:
			changes[path] = FileChange{Path: path, Status: StatusUnchanged, Content: content}
		}
	}

	for path, prev := range c.previous.Files {
		if _, exists := c.current.Files[path]; !exists {
			changes[path] = FileChange{Path: path, Status: StatusDeleted, PreviousContent: prev}
		}
	}

	return changes
}

// FileDiff computes the line diff for a single classified path, lazily
// invoking the diff engine on the stored content pair.
func (c *Classifier) FileDiff(path string) (*diff.Result, error) {
	changes, err := c.ChangedFiles()
	if err != nil {
		return nil, fmt.Errorf("file diff creation failed: %w", err)
	}

	change, ok := changes[path]
	if !ok {
		return nil, fmt.Errorf("file diff creation failed: %s not in change set", path)
	}

	// PreviousContent is irrelevant for unchanged entries; diff the
	// current content against itself.
	old := change.PreviousContent
	if change.Status == StatusUnchanged {
		old = change.Content
	}

	return diff.Compute(path, old, change.Content), nil
}

// Invalidate discards the cached snapshot pair and change set, forcing
// the next Load to start from a clean baseline. Used as the callback
// target for external cache-invalidation signals.
func (c *Classifier) Invalidate() {
	c.current = nil
	c.previous = nil
	c.changes = nil
}
