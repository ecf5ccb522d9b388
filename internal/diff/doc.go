// Copyright (c) 2024-2025 Mamerto Fabian / Codefrost
// SPDX-License-Identifier: MIT

// Package diff computes line-level edit scripts between file snapshots.
//
// The algorithm is classic longest-common-subsequence dynamic programming
// over the two line sequences, O(m*n) in time and space, with an
// iterative backtrack that emits the script in document order.
//
// # Key Types
//
//   - LineType: type of diff line (unchanged, added, deleted)
//   - Line: single line in an edit script with content and line number
//   - Result: complete edit script for one file
//
// # Usage
//
// Compute a full edit script between two strings:
//
//	r := diff.Compute("main.go", oldContent, newContent)
//	fmt.Println(diff.Format(r))
//
// Reduce it to changed regions plus three context lines:
//
//	compact := diff.Compress(r, 3)
package diff
