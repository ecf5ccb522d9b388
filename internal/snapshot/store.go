// Copyright (c) 2024-2025 Mamerto Fabian / Codefrost
// SPDX-License-Identifier: MIT

// Package snapshot captures and caches point-in-time file trees.
package snapshot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrNoBaseline indicates no snapshot has been persisted for the project.
	ErrNoBaseline = errors.New("no persisted snapshot for project")
)

// =============================================================================
// SQLITE STORE
// =============================================================================

// schema is applied on open; the store keeps at most the two most recent
// captures per project so a restart resumes with a baseline pair.
const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	id          TEXT PRIMARY KEY,
	project_id  TEXT NOT NULL,
	captured_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_snapshots_project ON snapshots(project_id, captured_at);
CREATE TABLE IF NOT EXISTS snapshot_files (
	snapshot_id TEXT NOT NULL REFERENCES snapshots(id) ON DELETE CASCADE,
	path        TEXT NOT NULL,
	content     TEXT NOT NULL,
	PRIMARY KEY (snapshot_id, path)
);
`

// Store persists snapshots in a local SQLite database.
type Store struct {
	db *sql.DB
}

// OpenStore opens (creating if needed) the snapshot database at path.
func OpenStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot store: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Save persists a snapshot and prunes older captures beyond the two most
// recent for the project. The write is transactional: a failed save
// leaves the store untouched.
func (s *Store) Save(ctx context.Context, snap *Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO snapshots (id, project_id, captured_at) VALUES (?, ?, ?)",
		snap.ID, snap.ProjectID, snap.CapturedAt.UnixMilli(),
	); err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO snapshot_files (snapshot_id, path, content) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for path, content := range snap.Files {
		if _, err := stmt.ExecContext(ctx, snap.ID, path, content); err != nil {
			return fmt.Errorf("failed to insert file %s: %w", path, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM snapshots WHERE project_id = ? AND id NOT IN (
			SELECT id FROM snapshots WHERE project_id = ?
			ORDER BY captured_at DESC LIMIT 2
		)`, snap.ProjectID, snap.ProjectID,
	); err != nil {
		return fmt.Errorf("failed to prune snapshots: %w", err)
	}

	return tx.Commit()
}

// Latest returns the most recent persisted snapshot for a project, or
// ErrNoBaseline when none exists.
func (s *Store) Latest(ctx context.Context, projectID string) (*Snapshot, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, captured_at FROM snapshots
		WHERE project_id = ? ORDER BY captured_at DESC LIMIT 1`, projectID)

	var id string
	var capturedAt int64
	if err := row.Scan(&id, &capturedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoBaseline
		}
		return nil, fmt.Errorf("failed to query snapshot: %w", err)
	}

	snap := &Snapshot{
		ID:         id,
		ProjectID:  projectID,
		CapturedAt: time.UnixMilli(capturedAt),
		Files:      make(map[string]string),
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT path, content FROM snapshot_files WHERE snapshot_id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot files: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var path, content string
		if err := rows.Scan(&path, &content); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot file: %w", err)
		}
		snap.Files[path] = content
	}

	return snap, rows.Err()
}

// Purge removes every persisted snapshot for a project. Called on
// external cache-invalidation signals.
func (s *Store) Purge(ctx context.Context, projectID string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM snapshots WHERE project_id = ?", projectID)
	if err != nil {
		return fmt.Errorf("failed to purge snapshots: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
