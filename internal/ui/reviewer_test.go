// Copyright (c) 2024-2025 Mamerto Fabian / Codefrost
// SPDX-License-Identifier: MIT

package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamertofabian/bolt-to-github-sub005/internal/classifier"
	"github.com/mamertofabian/bolt-to-github-sub005/internal/render"
)

func testChanges() map[string]classifier.FileChange {
	return map[string]classifier.FileChange{
		"b.txt": {Path: "b.txt", Status: classifier.StatusModified, Content: "new", PreviousContent: "old"},
		"a.txt": {Path: "a.txt", Status: classifier.StatusAdded, Content: "fresh"},
		"c.txt": {Path: "c.txt", Status: classifier.StatusUnchanged, Content: "same"},
	}
}

func testReviewer() *Reviewer {
	return NewReviewer(testChanges(), render.New().WithColor(false).WithHighlight(false, ""), 3)
}

func keyPress(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestNewReviewer_ExcludesUnchangedAndSorts(t *testing.T) {
	m := testReviewer()

	require.Len(t, m.files, 2)
	assert.Equal(t, "a.txt", m.files[0].path)
	assert.Equal(t, "b.txt", m.files[1].path)
}

func TestReviewer_ApproveAdvancesToNextUndecided(t *testing.T) {
	m := testReviewer()

	m.Update(keyPress('y'))

	assert.Equal(t, Approved, m.files[0].decision)
	assert.Equal(t, 1, m.current)
}

func TestReviewer_RejectRecordsDecision(t *testing.T) {
	m := testReviewer()

	m.Update(keyPress('n'))

	assert.Equal(t, Rejected, m.files[0].decision)
}

func TestReviewer_Decisions(t *testing.T) {
	m := testReviewer()
	m.Update(keyPress('y'))
	m.Update(keyPress('n'))

	decisions := m.Decisions()

	assert.Equal(t, Approved, decisions["a.txt"])
	assert.Equal(t, Rejected, decisions["b.txt"])
	assert.Equal(t, []string{"a.txt"}, m.ApprovedPaths())
}

func TestReviewer_QuitReturnsQuitCmd(t *testing.T) {
	m := testReviewer()

	_, cmd := m.Update(keyPress('q'))

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestReviewer_FileNavigationClamps(t *testing.T) {
	m := testReviewer()

	m.move(-1)
	assert.Equal(t, 0, m.current)

	m.move(1)
	assert.Equal(t, 1, m.current)

	m.move(5)
	assert.Equal(t, 1, m.current)
}

func TestReviewer_WindowSizeReadiesViewport(t *testing.T) {
	m := testReviewer()

	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	assert.True(t, m.ready)
	assert.Equal(t, 100, m.viewport.Width)
	assert.Equal(t, 40-chromeHeight, m.viewport.Height)
}

func TestReviewer_ViewShowsProgress(t *testing.T) {
	m := testReviewer()
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m.Update(keyPress('y'))

	view := m.View()

	assert.Contains(t, view, "Change Review")
	assert.Contains(t, view, "1/2 reviewed")
}

func TestReviewer_EmptyChangeSet(t *testing.T) {
	m := NewReviewer(nil, render.New().WithColor(false), 0)

	m.decide(Approved) // no panic on empty list
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	assert.Contains(t, m.View(), "empty change set")
	assert.Empty(t, m.Decisions())
}

func TestDecision_String(t *testing.T) {
	assert.Equal(t, "pending", Undecided.String())
	assert.Equal(t, "approved", Approved.String())
	assert.Equal(t, "rejected", Rejected.String())
}
