// Copyright (c) 2024-2025 Mamerto Fabian / Codefrost
// SPDX-License-Identifier: MIT

// Package diff computes line-level edit scripts between file snapshots.
package diff

import "fmt"

// =============================================================================
// CONTEXTUAL COMPRESSION
// =============================================================================

// lineRange is a half-open index range [start, end] into a full edit script.
type lineRange struct {
	start int
	end   int // inclusive
}

// Compress reduces a full edit script to its changed regions plus
// contextLines surrounding lines, with a synthetic skip marker between
// non-adjacent regions.
//
// A zero or negative context size returns the input unmodified. When the
// script contains no changes at all, the result is a short preview of up
// to 2*contextLines lines instead of the whole file. The non-marker
// output is always an order-preserving subsequence of the input.
func Compress(r *Result, contextLines int) *Result {
	if contextLines <= 0 {
		return r
	}

	hunks := findHunks(r.Lines)

	out := &Result{
		Path:       r.Path,
		Contextual: true,
		TotalLines: len(r.Lines),
		AuthMethod: r.AuthMethod,
	}

	if len(hunks) == 0 {
		// Fully unchanged file: show a short preview only.
		preview := 2 * contextLines
		if preview > len(r.Lines) {
			preview = len(r.Lines)
		}
		out.Lines = append(out.Lines, r.Lines[:preview]...)
		return out
	}

	merged := mergeRanges(expandRanges(hunks, contextLines, len(r.Lines)))

	for idx, rng := range merged {
		if idx > 0 {
			skipped := rng.start - merged[idx-1].end - 1
			if skipped > 0 {
				out.Lines = append(out.Lines, Line{
					Type:    LineUnchanged,
					Content: fmt.Sprintf("... %d lines skipped ...", skipped),
					Number:  SkipMarker,
				})
			}
		}
		out.Lines = append(out.Lines, r.Lines[rng.start:rng.end+1]...)
	}

	return out
}

// findHunks scans for maximal contiguous runs of added or deleted lines.
func findHunks(lines []Line) []lineRange {
	var hunks []lineRange

	start := -1
	for i, line := range lines {
		if line.Type != LineUnchanged {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			hunks = append(hunks, lineRange{start: start, end: i - 1})
			start = -1
		}
	}
	if start >= 0 {
		hunks = append(hunks, lineRange{start: start, end: len(lines) - 1})
	}

	return hunks
}

// expandRanges widens each hunk by contextLines in both directions,
// clipped to the script bounds.
func expandRanges(hunks []lineRange, contextLines, total int) []lineRange {
	expanded := make([]lineRange, len(hunks))
	for i, h := range hunks {
		start := h.start - contextLines
		if start < 0 {
			start = 0
		}
		end := h.end + contextLines
		if end > total-1 {
			end = total - 1
		}
		expanded[i] = lineRange{start: start, end: end}
	}
	return expanded
}

// mergeRanges collapses ranges whose boundaries overlap or touch.
// Input ranges are already ordered by start index.
func mergeRanges(ranges []lineRange) []lineRange {
	if len(ranges) == 0 {
		return nil
	}

	merged := []lineRange{ranges[0]}
	for _, rng := range ranges[1:] {
		last := &merged[len(merged)-1]
		if rng.start <= last.end+1 {
			if rng.end > last.end {
				last.end = rng.end
			}
			continue
		}
		merged = append(merged, rng)
	}

	return merged
}
