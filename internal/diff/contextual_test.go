// Copyright (c) 2024-2025 Mamerto Fabian / Codefrost
// SPDX-License-Identifier: MIT

// Package diff computes line-level edit scripts between file snapshots.
package diff

import (
	"strings"
	"testing"
)

// buildContent joins numbered filler lines, e.g. l1..l20.
func buildContent(prefix string, n int) string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = prefix + string(rune('0'+(i+1)/10)) + string(rune('0'+(i+1)%10))
	}
	return strings.Join(lines, "\n")
}

func TestCompress_ZeroContextPassthrough(t *testing.T) {
	r := Compute("file.txt", "a\nb\nc", "a\nx\nc")

	for _, ctx := range []int{0, -1} {
		got := Compress(r, ctx)
		if got != r {
			t.Errorf("Context %d: expected the full script unmodified", ctx)
		}
		if got.Contextual {
			t.Errorf("Context %d: full script must not be marked contextual", ctx)
		}
	}
}

func TestCompress_SingleHunk(t *testing.T) {
	// 20 unchanged lines with one replacement in the middle.
	old := buildContent("l", 20)
	new := strings.Replace(old, "l10", "changed", 1)

	r := Compute("file.txt", old, new)
	c := Compress(r, 2)

	if !c.Contextual {
		t.Fatal("Expected contextual result")
	}
	if c.TotalLines != len(r.Lines) {
		t.Errorf("Expected TotalLines %d, got %d", len(r.Lines), c.TotalLines)
	}

	// Hunk of 2 lines (deletion + addition) plus 2 context lines either
	// side, no skip markers inside a single merged range.
	if len(c.Lines) != 6 {
		t.Fatalf("Expected 6 lines, got %d", len(c.Lines))
	}
	for _, line := range c.Lines {
		if line.IsSkip() {
			t.Errorf("Unexpected skip marker in single-range output")
		}
	}
}

func TestCompress_SkipMarkerBetweenHunks(t *testing.T) {
	old := buildContent("l", 30)
	new := strings.Replace(strings.Replace(old, "l05", "first", 1), "l25", "second", 1)

	r := Compute("file.txt", old, new)
	c := Compress(r, 2)

	var markers int
	for _, line := range c.Lines {
		if line.IsSkip() {
			markers++
			if line.Type != LineUnchanged {
				t.Errorf("Skip marker must be typed unchanged, got %s", line.Type)
			}
			if !strings.Contains(line.Content, "lines skipped") {
				t.Errorf("Skip marker content %q", line.Content)
			}
		}
	}
	if markers != 1 {
		t.Errorf("Expected 1 skip marker between the two regions, got %d", markers)
	}
}

func TestCompress_TouchingRangesMerge(t *testing.T) {
	// Changes close enough that expanded ranges touch: no marker.
	old := buildContent("l", 12)
	new := strings.Replace(strings.Replace(old, "l04", "a", 1), "l08", "b", 1)

	r := Compute("file.txt", old, new)
	c := Compress(r, 2)

	for _, line := range c.Lines {
		if line.IsSkip() {
			t.Errorf("Ranges expanded to touching must merge without a marker")
		}
	}
}

func TestCompress_NoChangesPreview(t *testing.T) {
	content := buildContent("l", 40)
	r := Compute("file.txt", content, content)

	c := Compress(r, 3)

	if !c.Contextual {
		t.Fatal("Expected contextual result")
	}
	if len(c.Lines) != 6 {
		t.Errorf("Expected preview of 2*contextLines lines, got %d", len(c.Lines))
	}
	if c.TotalLines != 40 {
		t.Errorf("Expected TotalLines 40, got %d", c.TotalLines)
	}
	for i, line := range c.Lines {
		if line.Number != i+1 {
			t.Errorf("Preview must start at the top, line %d numbered %d", i, line.Number)
		}
	}
}

func TestCompress_ShortFilePreview(t *testing.T) {
	r := Compute("file.txt", "a\nb", "a\nb")

	c := Compress(r, 5)
	if len(c.Lines) != 2 {
		t.Errorf("Preview must clip to file length, got %d lines", len(c.Lines))
	}
}

// The compressed non-marker output is an order-preserving subsequence of
// the full output.
func TestCompress_SubsequenceLaw(t *testing.T) {
	old := buildContent("l", 50)
	new := strings.Replace(strings.Replace(strings.Replace(old,
		"l07", "x", 1), "l23", "y", 1), "l48", "z", 1)

	r := Compute("file.txt", old, new)

	for _, ctx := range []int{1, 2, 5, 20} {
		c := Compress(r, ctx)

		full := 0
		for _, line := range c.Lines {
			if line.IsSkip() {
				continue
			}
			found := false
			for ; full < len(r.Lines); full++ {
				if r.Lines[full] == line {
					found = true
					full++
					break
				}
			}
			if !found {
				t.Fatalf("Context %d: line %+v out of order or missing", ctx, line)
			}
		}
	}
}

func TestShownOf(t *testing.T) {
	old := buildContent("l", 30)
	new := strings.Replace(old, "l15", "mid", 1)

	r := Compute("file.txt", old, new)
	c := Compress(r, 2)

	shown, total := ShownOf(c)
	if total != len(r.Lines) {
		t.Errorf("Expected total %d, got %d", len(r.Lines), total)
	}
	if shown >= total {
		t.Errorf("Expected a reduced view, shown %d of %d", shown, total)
	}
}
