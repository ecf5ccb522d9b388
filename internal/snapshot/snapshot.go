// Copyright (c) 2024-2025 Mamerto Fabian / Codefrost
// SPDX-License-Identifier: MIT

// Package snapshot captures and caches point-in-time file trees.
package snapshot

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// SNAPSHOT MODEL
// =============================================================================

// Snapshot is a point-in-time mapping from file path to full text
// content. Immutable once captured; a new capture produces a wholesale
// replacement, never an in-place mutation.
type Snapshot struct {
	ID         string            // unique capture identifier
	ProjectID  string            // owning project
	CapturedAt time.Time         // capture time
	Files      map[string]string // path -> content
}

// New creates an empty snapshot for the given project.
func New(projectID string) *Snapshot {
	return &Snapshot{
		ID:         uuid.New().String(),
		ProjectID:  projectID,
		CapturedAt: time.Now(),
		Files:      make(map[string]string),
	}
}

// Paths returns the snapshot's file paths in sorted order.
func (s *Snapshot) Paths() []string {
	paths := make([]string, 0, len(s.Files))
	for path := range s.Files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Hash returns a SHA-256 fingerprint over the sorted path/content pairs,
// usable as a cheap whole-tree equality check.
func (s *Snapshot) Hash() string {
	h := sha256.New()
	for _, path := range s.Paths() {
		h.Write([]byte(path))
		h.Write([]byte{0})
		h.Write([]byte(s.Files[path]))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// =============================================================================
// PROVIDER
// =============================================================================

// Provider supplies fresh snapshots of a project's file tree. GetSnapshot
// may suspend on I/O and may fail; callers treat failures as opaque.
type Provider interface {
	GetSnapshot(ctx context.Context, forceRefresh bool) (*Snapshot, error)
}
