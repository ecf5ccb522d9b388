// Copyright (c) 2024-2025 Mamerto Fabian / Codefrost
// SPDX-License-Identifier: MIT

package github

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/mamertofabian/bolt-to-github-sub005/internal/classifier"
	"github.com/mamertofabian/bolt-to-github-sub005/internal/snapshot"
)

// =============================================================================
// COMPARATOR INTERFACE
// =============================================================================

// ProgressFunc receives human-readable progress messages during a
// comparison.
type ProgressFunc func(message string)

// Summary totals a comparison by status.
type Summary struct {
	Added     int
	Modified  int
	Deleted   int
	Unchanged int
	Total     int
}

// CompareResult is the outcome of a tree-level comparison.
type CompareResult struct {
	Changes map[string]classifier.FileChange
	Summary Summary
}

// Comparator performs tree-level comparison of a local snapshot against
// a hosted branch. A comparison either fully succeeds with a complete
// change map or fully fails; no partial result is ever returned.
type Comparator interface {
	Compare(ctx context.Context, local *snapshot.Snapshot, owner, repo, branch string, progress ProgressFunc) (*CompareResult, error)
}

// =============================================================================
// TREE COMPARATOR
// =============================================================================

// TreeComparator compares git blob fingerprints of the branch tree
// against local content, fetching remote blobs only for paths that
// actually differ.
type TreeComparator struct {
	client *Client
}

// NewTreeComparator creates a comparator over an authenticated client.
func NewTreeComparator(client *Client) *TreeComparator {
	return &TreeComparator{client: client}
}

// Compare implements Comparator.
func (tc *TreeComparator) Compare(ctx context.Context, local *snapshot.Snapshot, owner, repo, branch string, progress ProgressFunc) (*CompareResult, error) {
	report := func(msg string) {
		if progress != nil {
			progress(msg)
		}
	}

	report(fmt.Sprintf("Fetching %s/%s@%s tree", owner, repo, branch))
	entries, err := tc.client.BranchTree(ctx, owner, repo, branch)
	if err != nil {
		return nil, err
	}

	remote := make(map[string]TreeEntry, len(entries))
	for _, entry := range entries {
		if entry.Type == "blob" {
			remote[entry.Path] = entry
		}
	}
	report(fmt.Sprintf("Comparing %d local files against %d remote files", len(local.Files), len(remote)))

	result := &CompareResult{Changes: make(map[string]classifier.FileChange)}

	for _, path := range local.Paths() {
		content := local.Files[path]
		entry, exists := remote[path]

		switch {
		case !exists:
			result.Changes[path] = classifier.FileChange{
				Path:    path,
				Status:  classifier.StatusAdded,
				Content: content,
			}
			result.Summary.Added++

		case entry.SHA == blobSHA1(content):
			result.Changes[path] = classifier.FileChange{
				Path:    path,
				Status:  classifier.StatusUnchanged,
				Content: content,
			}
			result.Summary.Unchanged++

		default:
			report(fmt.Sprintf("Fetching remote content for %s", path))
			previous, err := tc.client.Blob(ctx, owner, repo, entry.SHA)
			if err != nil {
				return nil, err
			}
			result.Changes[path] = classifier.FileChange{
				Path:            path,
				Status:          classifier.StatusModified,
				Content:         content,
				PreviousContent: previous,
			}
			result.Summary.Modified++
		}
	}

	// Remote-only paths are deletions from the branch's point of view.
	remotePaths := make([]string, 0, len(remote))
	for path := range remote {
		if _, exists := local.Files[path]; !exists {
			remotePaths = append(remotePaths, path)
		}
	}
	sort.Strings(remotePaths)

	for _, path := range remotePaths {
		report(fmt.Sprintf("Fetching remote content for deleted %s", path))
		previous, err := tc.client.Blob(ctx, owner, repo, remote[path].SHA)
		if err != nil {
			return nil, err
		}
		result.Changes[path] = classifier.FileChange{
			Path:            path,
			Status:          classifier.StatusDeleted,
			PreviousContent: previous,
		}
		result.Summary.Deleted++
	}

	result.Summary.Total = len(result.Changes)
	report(fmt.Sprintf("Comparison complete: %d added, %d modified, %d deleted, %d unchanged",
		result.Summary.Added, result.Summary.Modified, result.Summary.Deleted, result.Summary.Unchanged))

	return result, nil
}

// blobSHA1 computes the git object fingerprint of file content, the
// same value the trees endpoint reports per blob.
func blobSHA1(content string) string {
	h := sha1.New()
	fmt.Fprintf(h, "blob %d", len(content))
	h.Write([]byte{0})
	h.Write([]byte(content))
	return hex.EncodeToString(h.Sum(nil))
}
