// Copyright (c) 2024-2025 Mamerto Fabian / Codefrost
// SPDX-License-Identifier: MIT

// Package diff computes line-level edit scripts between file snapshots.
package diff

import (
	"fmt"
	"strings"
)

// =============================================================================
// TEXT FORMATTING
// =============================================================================

// Format renders the edit script as prefixed text, one line per entry.
// Skip markers render without a prefix.
func Format(r *Result) string {
	var sb strings.Builder

	for _, line := range r.Lines {
		if line.IsSkip() {
			sb.WriteString(line.Content)
		} else {
			sb.WriteString(line.Type.Prefix())
			sb.WriteString(line.Content)
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// Summary returns a one-line human-readable description of the script,
// e.g. "src/App.svelte +3 -1" or "src/App.svelte unchanged".
func Summary(r *Result) string {
	additions, deletions := r.Stats()

	if additions == 0 && deletions == 0 {
		return fmt.Sprintf("%s unchanged", r.Path)
	}

	parts := []string{r.Path}
	if additions > 0 {
		parts = append(parts, fmt.Sprintf("+%d", additions))
	}
	if deletions > 0 {
		parts = append(parts, fmt.Sprintf("-%d", deletions))
	}

	return strings.Join(parts, " ")
}

// ShownOf reports how much of the full script a contextual result carries,
// for "showing K of N lines" captions. For non-contextual results both
// values equal the script length.
func ShownOf(r *Result) (shown, total int) {
	for _, line := range r.Lines {
		if !line.IsSkip() {
			shown++
		}
	}
	if !r.Contextual {
		return shown, len(r.Lines)
	}
	return shown, r.TotalLines
}
