// Copyright (c) 2024-2025 Mamerto Fabian / Codefrost
// SPDX-License-Identifier: MIT

// Package snapshot captures and caches point-in-time file trees.
package snapshot

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// =============================================================================
// FILESYSTEM PROVIDER
// =============================================================================

// DefaultMaxFileSize is the largest file the provider will read. Larger
// files are skipped, not truncated.
const DefaultMaxFileSize = 1 * 1024 * 1024 // 1MB

// defaultIgnores are directory names never captured regardless of
// project configuration.
var defaultIgnores = []string{
	".git", ".svn", ".hg",
	"node_modules", "__pycache__", ".venv", "venv",
	"vendor", "target", "dist", "build", ".bolt-sync",
}

// FSProvider captures snapshots by walking a project root on disk,
// applying ignore patterns plus the project's .gitignore entries and
// skipping binary or oversized files.
//
// The last capture is cached; forceRefresh bypasses the cache.
type FSProvider struct {
	root        string
	projectID   string
	maxFileSize int64
	ignores     []string

	cached *Snapshot
}

// NewFSProvider creates a provider over the given project root. Extra
// ignore patterns supplement the built-in set and the root .gitignore.
func NewFSProvider(root, projectID string, ignores []string) *FSProvider {
	return &FSProvider{
		root:        root,
		projectID:   projectID,
		maxFileSize: DefaultMaxFileSize,
		ignores:     append(append([]string{}, defaultIgnores...), ignores...),
	}
}

// WithMaxFileSize overrides the per-file size cutoff.
func (p *FSProvider) WithMaxFileSize(n int64) *FSProvider {
	p.maxFileSize = n
	return p
}

// GetSnapshot walks the project tree and returns a fresh snapshot,
// reusing the cached capture unless forceRefresh is set.
func (p *FSProvider) GetSnapshot(ctx context.Context, forceRefresh bool) (*Snapshot, error) {
	if p.cached != nil && !forceRefresh {
		return p.cached, nil
	}

	ignores := p.loadGitignore()

	snap := New(p.projectID)
	err := filepath.Walk(p.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // unreadable entries are skipped, not fatal
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		rel, relErr := filepath.Rel(p.root, path)
		if relErr != nil || rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if info.IsDir() {
			if p.ignored(rel, ignores) {
				return filepath.SkipDir
			}
			return nil
		}

		if p.ignored(rel, ignores) {
			return nil
		}
		if info.Size() > p.maxFileSize {
			return nil
		}

		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil
		}
		if isBinary(data) {
			return nil
		}

		snap.Files[rel] = string(data)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("snapshot capture failed: %w", err)
	}

	p.cached = snap
	return snap, nil
}

// loadGitignore reads simple name and prefix patterns from the project's
// root .gitignore. Negations and glob metacharacters beyond a trailing
// slash are not interpreted.
func (p *FSProvider) loadGitignore() []string {
	patterns := append([]string{}, p.ignores...)

	f, err := os.Open(filepath.Join(p.root, ".gitignore"))
	if err != nil {
		return patterns
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "!") {
			continue
		}
		patterns = append(patterns, strings.Trim(line, "/"))
	}

	return patterns
}

// ignored reports whether a slash-separated relative path matches any
// ignore pattern by path segment or prefix.
func (p *FSProvider) ignored(rel string, patterns []string) bool {
	segments := strings.Split(rel, "/")
	for _, pattern := range patterns {
		for _, seg := range segments {
			if seg == pattern {
				return true
			}
			if ok, _ := filepath.Match(pattern, seg); ok {
				return true
			}
		}
		if strings.HasPrefix(rel, pattern+"/") || rel == pattern {
			return true
		}
	}
	return false
}

// isBinary sniffs for a NUL byte in the leading bytes, the same
// heuristic git uses to exclude binary content from text diffs.
func isBinary(data []byte) bool {
	probe := data
	if len(probe) > 8000 {
		probe = probe[:8000]
	}
	return bytes.IndexByte(probe, 0) >= 0
}
