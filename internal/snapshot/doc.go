// Copyright (c) 2024-2025 Mamerto Fabian / Codefrost
// SPDX-License-Identifier: MIT

// Package snapshot captures and caches point-in-time file trees.
//
// A Snapshot maps project-relative file paths to full text content.
// The package supplies the collaborators the change-detection core
// consumes:
//
//   - FSProvider walks a project root, honouring ignore patterns and the
//     project .gitignore, and skips binary or oversized files.
//   - Store persists the most recent captures in SQLite so a restart
//     resumes with a baseline.
//   - Watcher turns filesystem events into debounced cache-invalidation
//     signals.
package snapshot
