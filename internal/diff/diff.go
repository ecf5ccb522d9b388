// Copyright (c) 2024-2025 Mamerto Fabian / Codefrost
// SPDX-License-Identifier: MIT

// Package diff computes line-level edit scripts between file snapshots.
package diff

import (
	"sort"
	"strings"
	"time"
)

// =============================================================================
// LINE TYPES
// =============================================================================

// LineType represents the type of a diff line.
type LineType int

const (
	// LineUnchanged represents lines present in both versions
	LineUnchanged LineType = iota
	// LineAdded represents lines only present in the new version
	LineAdded
	// LineDeleted represents lines only present in the old version
	LineDeleted
)

// String returns the string representation of a diff line type.
func (t LineType) String() string {
	switch t {
	case LineUnchanged:
		return "unchanged"
	case LineAdded:
		return "added"
	case LineDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// Prefix returns the diff prefix character for this line type.
func (t LineType) Prefix() string {
	switch t {
	case LineUnchanged:
		return " "
	case LineAdded:
		return "+"
	case LineDeleted:
		return "-"
	default:
		return " "
	}
}

// =============================================================================
// DIFF LINE
// =============================================================================

// SkipMarker is the sentinel line number carried by synthetic
// "lines skipped" entries in a contextual diff.
const SkipMarker = -1

// Line is a single line in an edit script.
//
// Number is 1-based. Added and unchanged lines are numbered against the
// new sequence, deleted lines against the old sequence. An added and a
// deleted line can therefore share a numeric value; consumers must use
// Type plus sequence position, not Number alone, to establish order.
type Line struct {
	Type    LineType // added, deleted or unchanged
	Content string   // the line text, without trailing newline
	Number  int      // 1-based line number, SkipMarker for skip entries
}

// IsSkip reports whether the line is a synthetic skip marker.
func (l Line) IsSkip() bool {
	return l.Number == SkipMarker
}

// =============================================================================
// DIFF RESULT
// =============================================================================

// Result is a complete edit script for one file.
type Result struct {
	Path        string    // file path the script applies to
	Lines       []Line    // ordered edit script
	Contextual  bool      // true when reduced to hunks plus context
	TotalLines  int       // full script length, set on contextual results
	AuthMethod  string    // auth method annotation, set by remote comparison
	GeneratedAt time.Time // capture time annotation
}

// Stats returns the number of added and deleted lines in the script.
func (r *Result) Stats() (additions, deletions int) {
	for _, line := range r.Lines {
		switch line.Type {
		case LineAdded:
			additions++
		case LineDeleted:
			deletions++
		}
	}
	return additions, deletions
}

// =============================================================================
// DIFF COMPUTATION
// =============================================================================

// Compute builds the minimal edit script between two text blobs using
// longest-common-subsequence alignment over their lines.
//
// Content is split by newline without normalization; splitting an empty
// string produces a single empty line, so diffing "" against "" yields
// exactly one unchanged line.
func Compute(path, oldContent, newContent string) *Result {
	oldLines := strings.Split(oldContent, "\n")
	newLines := strings.Split(newContent, "\n")

	matrix := lcsMatrix(oldLines, newLines)
	lines := backtrack(matrix, oldLines, newLines)

	return &Result{
		Path:  path,
		Lines: lines,
	}
}

// lcsMatrix fills the (m+1)x(n+1) LCS length table for the two line slices.
func lcsMatrix(oldLines, newLines []string) [][]int {
	m, n := len(oldLines), len(newLines)

	matrix := make([][]int, m+1)
	for i := range matrix {
		matrix[i] = make([]int, n+1)
	}

	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			if oldLines[i-1] == newLines[j-1] {
				matrix[i][j] = matrix[i-1][j-1] + 1
			} else if matrix[i-1][j] >= matrix[i][j-1] {
				matrix[i][j] = matrix[i-1][j]
			} else {
				matrix[i][j] = matrix[i][j-1]
			}
		}
	}

	return matrix
}

// backtrack walks the LCS table from (m,n) back to (0,0) and emits the
// edit script in document order.
//
// The walk is a loop rather than recursion so stack depth stays constant
// regardless of file length. On equal table values the insertion is
// preferred over the deletion; the tie-break only affects the cosmetic
// ordering of adjacent insert/delete pairs, never the unchanged
// subsequence itself.
func backtrack(matrix [][]int, oldLines, newLines []string) []Line {
	lines := make([]Line, 0, len(oldLines)+len(newLines))

	i, j := len(oldLines), len(newLines)
	for i > 0 || j > 0 {
		switch {
		case i > 0 && j > 0 && oldLines[i-1] == newLines[j-1]:
			lines = append(lines, Line{Type: LineUnchanged, Content: newLines[j-1], Number: j})
			i--
			j--
		case j > 0 && (i == 0 || matrix[i][j-1] >= matrix[i-1][j]):
			lines = append(lines, Line{Type: LineAdded, Content: newLines[j-1], Number: j})
			j--
		default:
			lines = append(lines, Line{Type: LineDeleted, Content: oldLines[i-1], Number: i})
			i--
		}
	}

	// The walk produced the script back to front.
	for a, b := 0, len(lines)-1; a < b; a, b = a+1, b-1 {
		lines[a], lines[b] = lines[b], lines[a]
	}

	// Interleave added/unchanged (new-sequence numbers) with deleted
	// (old-sequence numbers) in document order.
	sort.SliceStable(lines, func(a, b int) bool {
		return lines[a].Number < lines[b].Number
	})

	return lines
}
