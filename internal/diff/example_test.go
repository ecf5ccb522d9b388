// Copyright (c) 2024-2025 Mamerto Fabian / Codefrost
// SPDX-License-Identifier: MIT

// Package diff computes line-level edit scripts between file snapshots.
package diff_test

import (
	"fmt"

	"github.com/mamertofabian/bolt-to-github-sub005/internal/diff"
)

func ExampleCompute() {
	oldContent := "line1\nline2\nline3"
	newContent := "line1\nmodified\nline3"

	r := diff.Compute("file.txt", oldContent, newContent)
	fmt.Print(diff.Format(r))

	// Output:
	//  line1
	// -line2
	// +modified
	//  line3
}

func ExampleSummary() {
	r := diff.Compute("src/App.svelte", "a\nb\nc", "a\nb\nc\nd\ne")

	fmt.Println(diff.Summary(r))

	// Output:
	// src/App.svelte +2
}

func ExampleCompress() {
	// A one-line change in a longer file, reduced to one context line.
	oldContent := "a\nb\nc\nd\ne\nf\ng"
	newContent := "a\nb\nc\nx\ne\nf\ng"

	r := diff.Compute("file.txt", oldContent, newContent)
	c := diff.Compress(r, 1)

	fmt.Print(diff.Format(c))
	shown, total := diff.ShownOf(c)
	fmt.Printf("showing %d of %d lines\n", shown, total)

	// Output:
	//  c
	// -d
	// +x
	//  e
	// showing 4 of 8 lines
}
