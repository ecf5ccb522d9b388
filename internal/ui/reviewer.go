// Copyright (c) 2024-2025 Mamerto Fabian / Codefrost
// SPDX-License-Identifier: MIT

package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mamertofabian/bolt-to-github-sub005/internal/classifier"
	"github.com/mamertofabian/bolt-to-github-sub005/internal/diff"
	"github.com/mamertofabian/bolt-to-github-sub005/internal/render"
)

// =============================================================================
// REVIEW DECISIONS
// =============================================================================

// Decision is the reviewer's verdict for one file.
type Decision int

const (
	// Undecided means the file has not been reviewed yet.
	Undecided Decision = iota
	// Approved means the change should be applied.
	Approved
	// Rejected means the change should be dropped.
	Rejected
)

// String returns the decision label.
func (d Decision) String() string {
	switch d {
	case Approved:
		return "approved"
	case Rejected:
		return "rejected"
	default:
		return "pending"
	}
}

// =============================================================================
// REVIEWER MODEL
// =============================================================================

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Underline(true)
	fileTabStyle  = lipgloss.NewStyle().Padding(0, 1)
	activeTab     = fileTabStyle.Bold(true).Underline(true)
	mutedStyle    = lipgloss.NewStyle().Faint(true).Italic(true)
	approvedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	rejectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
)

// reviewFile pairs a change with its rendered diff and verdict.
type reviewFile struct {
	path     string
	change   classifier.FileChange
	decision Decision
}

// Reviewer is a bubbletea model that walks a classified change set
// file by file, showing each diff in a scrollable viewport and
// collecting approve/reject decisions.
type Reviewer struct {
	files    []reviewFile
	current  int
	viewport viewport.Model
	keys     KeyMap
	renderer *render.Renderer
	context  int
	showHelp bool
	ready    bool
	done     bool
}

// NewReviewer creates a reviewer over a classified change set. Files
// with unchanged status are excluded; contextLines controls diff
// compression in the per-file view.
func NewReviewer(changes map[string]classifier.FileChange, renderer *render.Renderer, contextLines int) *Reviewer {
	paths := make([]string, 0, len(changes))
	for path, change := range changes {
		if change.Status != classifier.StatusUnchanged {
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)

	files := make([]reviewFile, 0, len(paths))
	for _, path := range paths {
		files = append(files, reviewFile{path: path, change: changes[path]})
	}

	vp := viewport.New(80, 20)
	return &Reviewer{
		files:    files,
		viewport: vp,
		keys:     DefaultKeyMap(),
		renderer: renderer,
		context:  contextLines,
	}
}

// Decisions returns the verdict per reviewed path.
func (m *Reviewer) Decisions() map[string]Decision {
	out := make(map[string]Decision, len(m.files))
	for _, f := range m.files {
		out[f.path] = f.decision
	}
	return out
}

// ApprovedPaths returns the sorted paths the reviewer approved.
func (m *Reviewer) ApprovedPaths() []string {
	var paths []string
	for _, f := range m.files {
		if f.decision == Approved {
			paths = append(paths, f.path)
		}
	}
	return paths
}

// Init implements tea.Model.
func (m *Reviewer) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Reviewer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - chromeHeight
		if m.viewport.Height < 3 {
			m.viewport.Height = 3
		}
		m.ready = true
		m.refreshContent()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.done = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Up):
			m.viewport.LineUp(1)

		case key.Matches(msg, m.keys.Down):
			m.viewport.LineDown(1)

		case key.Matches(msg, m.keys.PageUp):
			m.viewport.HalfViewUp()

		case key.Matches(msg, m.keys.PageDown):
			m.viewport.HalfViewDown()

		case key.Matches(msg, m.keys.NextFile):
			m.move(1)

		case key.Matches(msg, m.keys.PrevFile):
			m.move(-1)

		case key.Matches(msg, m.keys.Approve):
			m.decide(Approved)

		case key.Matches(msg, m.keys.Reject):
			m.decide(Rejected)

		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
		}
	}

	return m, nil
}

// chromeHeight is the number of rows the header, tabs and footer take
// around the viewport.
const chromeHeight = 5

// move switches the active file by delta, clamped to the list.
func (m *Reviewer) move(delta int) {
	if len(m.files) == 0 {
		return
	}
	m.current += delta
	if m.current < 0 {
		m.current = 0
	}
	if m.current >= len(m.files) {
		m.current = len(m.files) - 1
	}
	m.refreshContent()
}

// decide records the verdict for the active file and advances to the
// next undecided one.
func (m *Reviewer) decide(d Decision) {
	if len(m.files) == 0 {
		return
	}
	m.files[m.current].decision = d

	for i := range m.files {
		idx := (m.current + 1 + i) % len(m.files)
		if m.files[idx].decision == Undecided {
			m.current = idx
			m.refreshContent()
			return
		}
	}
	// Everything reviewed.
	m.refreshContent()
}

// refreshContent re-renders the active file's diff into the viewport.
func (m *Reviewer) refreshContent() {
	if len(m.files) == 0 {
		m.viewport.SetContent(mutedStyle.Render("No changes to review"))
		return
	}

	f := m.files[m.current]
	result := diff.Compute(f.path, f.change.PreviousContent, f.change.Content)
	if m.context > 0 {
		result = diff.Compress(result, m.context)
	}
	m.viewport.SetContent(m.renderer.WithWidth(m.viewport.Width).Diff(result))
	m.viewport.GotoTop()
}

// View implements tea.Model.
func (m *Reviewer) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Change Review"))
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

// renderTabs renders the file strip with per-file verdicts.
func (m *Reviewer) renderTabs() string {
	if len(m.files) == 0 {
		return mutedStyle.Render("(empty change set)")
	}

	var tabs []string
	for i, f := range m.files {
		label := f.path
		switch f.decision {
		case Approved:
			label = approvedStyle.Render(label + " [ok]")
		case Rejected:
			label = rejectedStyle.Render(label + " [no]")
		}
		if i == m.current {
			tabs = append(tabs, activeTab.Render(label))
		} else {
			tabs = append(tabs, fileTabStyle.Render(label))
		}
	}
	return strings.Join(tabs, "|")
}

// renderFooter renders the progress line and optional key help.
func (m *Reviewer) renderFooter() string {
	decided := 0
	for _, f := range m.files {
		if f.decision != Undecided {
			decided++
		}
	}

	footer := mutedStyle.Render(fmt.Sprintf("%d/%d reviewed - ? for help, q to finish", decided, len(m.files)))
	if !m.showHelp {
		return footer
	}

	help := []string{
		m.keys.Up.Help().Key + " " + m.keys.Up.Help().Desc,
		m.keys.Down.Help().Key + " " + m.keys.Down.Help().Desc,
		m.keys.NextFile.Help().Key + " " + m.keys.NextFile.Help().Desc,
		m.keys.Approve.Help().Key + " " + m.keys.Approve.Help().Desc,
		m.keys.Reject.Help().Key + " " + m.keys.Reject.Help().Desc,
	}
	return footer + "\n" + mutedStyle.Render(strings.Join(help, "  "))
}

// Run drives the reviewer to completion on the active terminal and
// returns the collected decisions.
func Run(changes map[string]classifier.FileChange, renderer *render.Renderer, contextLines int) (map[string]Decision, error) {
	model := NewReviewer(changes, renderer, contextLines)
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return nil, fmt.Errorf("review session failed: %w", err)
	}
	return model.Decisions(), nil
}
