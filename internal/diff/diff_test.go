// Copyright (c) 2024-2025 Mamerto Fabian / Codefrost
// SPDX-License-Identifier: MIT

// Package diff computes line-level edit scripts between file snapshots.
package diff

import (
	"strings"
	"testing"
)

func lineTypes(lines []Line) []LineType {
	types := make([]LineType, len(lines))
	for i, l := range lines {
		types[i] = l.Type
	}
	return types
}

func TestCompute_Identical(t *testing.T) {
	r := Compute("file.txt", "a\nb\nc", "a\nb\nc")

	if len(r.Lines) != 3 {
		t.Fatalf("Expected 3 lines, got %d", len(r.Lines))
	}

	for i, line := range r.Lines {
		if line.Type != LineUnchanged {
			t.Errorf("Line %d: expected unchanged, got %s", i, line.Type)
		}
		if line.Number != i+1 {
			t.Errorf("Line %d: expected number %d, got %d", i, i+1, line.Number)
		}
	}
}

func TestCompute_Addition(t *testing.T) {
	r := Compute("file.txt", "a\nb", "a\nb\nc")

	want := []Line{
		{Type: LineUnchanged, Content: "a", Number: 1},
		{Type: LineUnchanged, Content: "b", Number: 2},
		{Type: LineAdded, Content: "c", Number: 3},
	}

	if len(r.Lines) != len(want) {
		t.Fatalf("Expected %d lines, got %d", len(want), len(r.Lines))
	}
	for i, w := range want {
		if r.Lines[i] != w {
			t.Errorf("Line %d: expected %+v, got %+v", i, w, r.Lines[i])
		}
	}
}

func TestCompute_Deletion(t *testing.T) {
	r := Compute("file.txt", "a\nb\nc", "a\nc")

	want := []Line{
		{Type: LineUnchanged, Content: "a", Number: 1},
		{Type: LineDeleted, Content: "b", Number: 2},
		{Type: LineUnchanged, Content: "c", Number: 2},
	}

	if len(r.Lines) != len(want) {
		t.Fatalf("Expected %d lines, got %d", len(want), len(r.Lines))
	}
	for i, w := range want {
		if r.Lines[i] != w {
			t.Errorf("Line %d: expected %+v, got %+v", i, w, r.Lines[i])
		}
	}
}

func TestCompute_BothEmpty(t *testing.T) {
	r := Compute("file.txt", "", "")

	if len(r.Lines) != 1 {
		t.Fatalf("Expected exactly 1 line, got %d", len(r.Lines))
	}
	if r.Lines[0].Type != LineUnchanged || r.Lines[0].Content != "" {
		t.Errorf("Expected one empty unchanged line, got %+v", r.Lines[0])
	}
}

func TestCompute_RoundTrip(t *testing.T) {
	contents := []string{
		"",
		"single",
		"a\nb\nc",
		"line1\n\nline3\n",
		"x\nx\nx",
	}

	for _, content := range contents {
		r := Compute("file.txt", content, content)

		var parts []string
		for _, line := range r.Lines {
			if line.Type != LineUnchanged {
				t.Errorf("Content %q: unexpected %s line", content, line.Type)
			}
			parts = append(parts, line.Content)
		}

		if got := strings.Join(parts, "\n"); got != content {
			t.Errorf("Content %q: reconstructed %q", content, got)
		}
	}
}

// Removing deleted lines and keeping added/unchanged lines in output
// order must reconstruct the new content exactly.
func TestCompute_ReconstructsNew(t *testing.T) {
	tests := []struct {
		name     string
		old, new string
	}{
		{"replace middle", "a\nb\nc", "a\nx\nc"},
		{"prepend", "b\nc", "a\nb\nc"},
		{"truncate", "a\nb\nc\nd", "a"},
		{"rewrite", "one\ntwo", "three\nfour\nfive"},
		{"swap", "b\na", "a\nb"},
		{"blank lines", "a\n\nb", "a\n\n\nb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Compute("file.txt", tt.old, tt.new)

			var parts []string
			for _, line := range r.Lines {
				if line.Type != LineDeleted {
					parts = append(parts, line.Content)
				}
			}

			if got := strings.Join(parts, "\n"); got != tt.new {
				t.Errorf("Reconstructed %q, want %q", got, tt.new)
			}
		})
	}
}

// The deleted set of (old, new) matches the added set of (new, old) in
// content and relative order.
func TestCompute_DeletionAdditionSymmetry(t *testing.T) {
	old := "a\nb\nc\nd"
	new := "a\nc\nd\ne"

	forward := Compute("file.txt", old, new)
	backward := Compute("file.txt", new, old)

	var deleted, added []string
	for _, line := range forward.Lines {
		if line.Type == LineDeleted {
			deleted = append(deleted, line.Content)
		}
	}
	for _, line := range backward.Lines {
		if line.Type == LineAdded {
			added = append(added, line.Content)
		}
	}

	if len(deleted) != len(added) {
		t.Fatalf("Deleted %v, added %v", deleted, added)
	}
	for i := range deleted {
		if deleted[i] != added[i] {
			t.Errorf("Position %d: deleted %q, added %q", i, deleted[i], added[i])
		}
	}
}

// On equal LCS table values the backtrack prefers the insertion, which
// renders a replaced line as its deletion followed by its addition.
func TestCompute_TieBreak(t *testing.T) {
	r := Compute("file.txt", "x", "y")

	want := []Line{
		{Type: LineDeleted, Content: "x", Number: 1},
		{Type: LineAdded, Content: "y", Number: 1},
	}

	if len(r.Lines) != len(want) {
		t.Fatalf("Expected %d lines, got %d", len(want), len(r.Lines))
	}
	for i, w := range want {
		if r.Lines[i] != w {
			t.Errorf("Line %d: expected %+v, got %+v", i, w, r.Lines[i])
		}
	}
}

func TestCompute_SharedNumbers(t *testing.T) {
	// An added and a deleted line can share a numeric value; rendering
	// order comes from type plus sequence position.
	r := Compute("file.txt", "a\nold", "a\nnew")

	types := lineTypes(r.Lines)
	want := []LineType{LineUnchanged, LineDeleted, LineAdded}
	for i := range want {
		if types[i] != want[i] {
			t.Fatalf("Expected types %v, got %v", want, types)
		}
	}
	if r.Lines[1].Number != 2 || r.Lines[2].Number != 2 {
		t.Errorf("Expected both changed lines at number 2, got %d and %d",
			r.Lines[1].Number, r.Lines[2].Number)
	}
}

func TestLineType_String(t *testing.T) {
	tests := []struct {
		lineType LineType
		expected string
	}{
		{LineUnchanged, "unchanged"},
		{LineAdded, "added"},
		{LineDeleted, "deleted"},
	}

	for _, tt := range tests {
		if got := tt.lineType.String(); got != tt.expected {
			t.Errorf("Expected %s, got %s", tt.expected, got)
		}
	}
}

func TestLineType_Prefix(t *testing.T) {
	tests := []struct {
		lineType LineType
		expected string
	}{
		{LineUnchanged, " "},
		{LineAdded, "+"},
		{LineDeleted, "-"},
	}

	for _, tt := range tests {
		if got := tt.lineType.Prefix(); got != tt.expected {
			t.Errorf("Expected '%s', got '%s'", tt.expected, got)
		}
	}
}

func TestResult_Stats(t *testing.T) {
	r := Compute("file.txt", "a\nb\nc", "a\nx\nc\nd")

	additions, deletions := r.Stats()
	if additions != 2 {
		t.Errorf("Expected 2 additions, got %d", additions)
	}
	if deletions != 1 {
		t.Errorf("Expected 1 deletion, got %d", deletions)
	}
}

func TestFormat(t *testing.T) {
	r := Compute("file.txt", "a\nb", "a\nc")

	got := Format(r)
	want := " a\n-b\n+c\n"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestSummary(t *testing.T) {
	tests := []struct {
		name     string
		old, new string
		expected string
	}{
		{"modified", "a\nb", "a\nc", "file.txt +1 -1"},
		{"unchanged", "a\nb", "a\nb", "file.txt unchanged"},
		{"added only", "a", "a\nb", "file.txt +1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Compute("file.txt", tt.old, tt.new)
			if got := Summary(r); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}
