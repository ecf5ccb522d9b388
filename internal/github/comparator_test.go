// Copyright (c) 2024-2025 Mamerto Fabian / Codefrost
// SPDX-License-Identifier: MIT

package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamertofabian/bolt-to-github-sub005/internal/classifier"
	"github.com/mamertofabian/bolt-to-github-sub005/internal/snapshot"
)

// fakeRemote serves a git tree and blobs for a fixed set of files.
type fakeRemote struct {
	files map[string]string // path -> content
	blobs int               // blob fetch count
}

func (f *fakeRemote) handler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.Contains(r.URL.Path, "/git/trees/"):
			var entries []map[string]any
			for path, content := range f.files {
				entries = append(entries, map[string]any{
					"path": path,
					"mode": "100644",
					"type": "blob",
					"sha":  blobSHA1(content),
					"size": len(content),
				})
			}
			payload, err := json.Marshal(map[string]any{"sha": "root", "tree": entries, "truncated": false})
			require.NoError(t, err)
			w.Write(payload)

		case strings.Contains(r.URL.Path, "/git/blobs/"):
			f.blobs++
			sha := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
			for _, content := range f.files {
				if blobSHA1(content) == sha {
					payload, _ := json.Marshal(map[string]any{
						"content":  base64.StdEncoding.EncodeToString([]byte(content)),
						"encoding": "base64",
						"size":     len(content),
					})
					w.Write(payload)
					return
				}
			}
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"message": "Not Found"}`))

		default:
			t.Errorf("unexpected request: %s", r.URL.Path)
		}
	})
}

func localSnapshot(files map[string]string) *snapshot.Snapshot {
	snap := snapshot.New("project-1")
	snap.Files = files
	return snap
}

func TestTreeComparator_ClassifiesAllStatuses(t *testing.T) {
	remote := &fakeRemote{files: map[string]string{
		"README.md":      "# Hello",       // unchanged locally
		"src/App.svelte": "old component", // modified locally
		"removed.txt":    "gone",          // absent locally
	}}
	srv := httptest.NewServer(remote.handler(t))
	defer srv.Close()

	client := NewClient("t", MethodPAT).WithBaseURL(srv.URL)
	comparator := NewTreeComparator(client)

	result, err := comparator.Compare(context.Background(), localSnapshot(map[string]string{
		"README.md":      "# Hello",
		"src/App.svelte": "new component",
		"new.txt":        "fresh",
	}), "octocat", "hello", "main", nil)

	require.NoError(t, err)
	require.Len(t, result.Changes, 4)

	assert.Equal(t, classifier.StatusUnchanged, result.Changes["README.md"].Status)

	modified := result.Changes["src/App.svelte"]
	assert.Equal(t, classifier.StatusModified, modified.Status)
	assert.Equal(t, "new component", modified.Content)
	assert.Equal(t, "old component", modified.PreviousContent)

	added := result.Changes["new.txt"]
	assert.Equal(t, classifier.StatusAdded, added.Status)
	assert.Equal(t, "fresh", added.Content)
	assert.Empty(t, added.PreviousContent)

	deleted := result.Changes["removed.txt"]
	assert.Equal(t, classifier.StatusDeleted, deleted.Status)
	assert.Empty(t, deleted.Content)
	assert.Equal(t, "gone", deleted.PreviousContent)

	assert.Equal(t, Summary{Added: 1, Modified: 1, Deleted: 1, Unchanged: 1, Total: 4}, result.Summary)
}

func TestTreeComparator_FetchesBlobsOnlyForDifferences(t *testing.T) {
	remote := &fakeRemote{files: map[string]string{
		"a.txt": "same",
		"b.txt": "same too",
		"c.txt": "will change",
	}}
	srv := httptest.NewServer(remote.handler(t))
	defer srv.Close()

	client := NewClient("t", MethodPAT).WithBaseURL(srv.URL)
	comparator := NewTreeComparator(client)

	_, err := comparator.Compare(context.Background(), localSnapshot(map[string]string{
		"a.txt": "same",
		"b.txt": "same too",
		"c.txt": "changed",
	}), "o", "r", "main", nil)

	require.NoError(t, err)
	assert.Equal(t, 1, remote.blobs, "unchanged files must be resolved by SHA alone")
}

func TestTreeComparator_ReportsProgress(t *testing.T) {
	remote := &fakeRemote{files: map[string]string{"a.txt": "x"}}
	srv := httptest.NewServer(remote.handler(t))
	defer srv.Close()

	client := NewClient("t", MethodPAT).WithBaseURL(srv.URL)
	comparator := NewTreeComparator(client)

	var messages []string
	_, err := comparator.Compare(context.Background(), localSnapshot(map[string]string{"a.txt": "x"}),
		"o", "r", "main", func(msg string) { messages = append(messages, msg) })

	require.NoError(t, err)
	require.NotEmpty(t, messages)
	assert.Contains(t, messages[0], "Fetching o/r@main tree")
	assert.Contains(t, messages[len(messages)-1], "Comparison complete")
}

func TestTreeComparator_ErrorAbortsWithoutPartialResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message": "Not Found"}`))
	}))
	defer srv.Close()

	client := NewClient("t", MethodPAT).WithBaseURL(srv.URL)
	comparator := NewTreeComparator(client)

	result, err := comparator.Compare(context.Background(), localSnapshot(map[string]string{"a.txt": "x"}),
		"o", "missing", "main", nil)

	require.Error(t, err)
	assert.Nil(t, result)
}

func TestTreeComparator_EmptyBothSides(t *testing.T) {
	remote := &fakeRemote{files: map[string]string{}}
	srv := httptest.NewServer(remote.handler(t))
	defer srv.Close()

	client := NewClient("t", MethodPAT).WithBaseURL(srv.URL)
	result, err := NewTreeComparator(client).Compare(
		context.Background(), localSnapshot(map[string]string{}), "o", "r", "main", nil)

	require.NoError(t, err)
	assert.Empty(t, result.Changes)
	assert.Equal(t, Summary{}, result.Summary)
}

func TestBlobSHA1(t *testing.T) {
	// Known git object hash: `echo -n "hello" | git hash-object --stdin`.
	assert.Equal(t, "b6fc4c620b67d95f953a5c1c1230aaab5db5a1b0", blobSHA1("hello"))
	assert.Equal(t, "e69de29bb2d1d6434b8b29ae775ad8c2e48c5391", blobSHA1(""))
}
