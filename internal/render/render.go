// Copyright (c) 2024-2025 Mamerto Fabian / Codefrost
// SPDX-License-Identifier: MIT

// Package render builds terminal presentations of diff results.
//
// Rendering is display-only: it never mutates the diff data it is
// handed, and a failure to render any single line degrades to plain
// text instead of failing the caller.
package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"

	"github.com/mamertofabian/bolt-to-github-sub005/internal/classifier"
	"github.com/mamertofabian/bolt-to-github-sub005/internal/diff"
)

// =============================================================================
// STYLES
// =============================================================================

var (
	addedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))  // green
	deletedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203")) // red
	unchangedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")) // gray
	skipStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)
	headerStyle    = lipgloss.NewStyle().Bold(true)
	statAddStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	statDelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Italic(true)
)

// statusStyles maps classification statuses to their listing color.
var statusStyles = map[classifier.Status]lipgloss.Style{
	classifier.StatusAdded:     addedStyle,
	classifier.StatusModified:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // orange
	classifier.StatusDeleted:   deletedStyle,
	classifier.StatusUnchanged: unchangedStyle,
}

// =============================================================================
// RENDERER
// =============================================================================

// Renderer turns diff results into terminal text.
type Renderer struct {
	width     int
	color     bool
	highlight bool
	theme     string
}

// New creates a renderer with color and highlighting tuned to the
// active terminal profile.
func New() *Renderer {
	return &Renderer{
		width:     80,
		color:     termenv.ColorProfile() != termenv.Ascii,
		highlight: true,
		theme:     "monokai",
	}
}

// WithWidth sets the maximum display width.
func (r *Renderer) WithWidth(width int) *Renderer {
	if width > 0 {
		r.width = width
	}
	return r
}

// WithColor forces color output on or off.
func (r *Renderer) WithColor(enabled bool) *Renderer {
	r.color = enabled
	return r
}

// WithHighlight controls syntax highlighting and its chroma theme.
func (r *Renderer) WithHighlight(enabled bool, theme string) *Renderer {
	r.highlight = enabled
	if theme != "" {
		r.theme = theme
	}
	return r
}

// Diff renders a complete diff with a header line, stats and the
// prefixed line body.
func (r *Renderer) Diff(result *diff.Result) string {
	if result == nil {
		return r.inlineError("no diff to display")
	}

	var b strings.Builder
	b.WriteString(r.header(result))
	b.WriteByte('\n')

	for _, line := range result.Lines {
		b.WriteString(r.line(result.Path, line))
		b.WriteByte('\n')
	}

	if result.Contextual {
		shown, total := diff.ShownOf(result)
		b.WriteString(r.styled(skipStyle, fmt.Sprintf("(showing %d of %d lines)", shown, total)))
		b.WriteByte('\n')
	}

	return b.String()
}

// ChangeList renders a classified change set as a status-colored
// listing, sorted by path.
func (r *Renderer) ChangeList(changes map[string]classifier.FileChange) string {
	paths := make([]string, 0, len(changes))
	for path := range changes {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	var b strings.Builder
	for _, path := range paths {
		change := changes[path]
		style, ok := statusStyles[change.Status]
		if !ok {
			style = unchangedStyle
		}
		label := fmt.Sprintf("%-9s", change.Status)
		b.WriteString(r.styled(style, label))
		b.WriteString(" ")
		b.WriteString(r.fit(path, r.width-10))
		b.WriteByte('\n')
	}
	return b.String()
}

// header builds the "path +N -M" banner for a diff.
func (r *Renderer) header(result *diff.Result) string {
	added, deleted := result.Stats()
	parts := []string{r.styled(headerStyle, result.Path)}
	if added > 0 {
		parts = append(parts, r.styled(statAddStyle, fmt.Sprintf("+%d", added)))
	}
	if deleted > 0 {
		parts = append(parts, r.styled(statDelStyle, fmt.Sprintf("-%d", deleted)))
	}
	if added == 0 && deleted == 0 {
		parts = append(parts, r.styled(unchangedStyle, "unchanged"))
	}
	return strings.Join(parts, " ")
}

// line renders one diff line with its prefix, colors and width cap.
func (r *Renderer) line(path string, line diff.Line) string {
	if line.IsSkip() {
		return r.styled(skipStyle, r.fit(line.Content, r.width))
	}

	content := line.Content
	if r.highlight && r.color {
		content = r.highlightLine(path, content)
	}
	text := r.fit(line.Type.Prefix()+content, r.width)

	switch line.Type {
	case diff.LineAdded:
		return r.styled(addedStyle, text)
	case diff.LineDeleted:
		return r.styled(deletedStyle, text)
	default:
		return r.styled(unchangedStyle, text)
	}
}

// inlineError renders a rendering failure as visible output. Display
// problems are never allowed to surface as errors to the caller.
func (r *Renderer) inlineError(msg string) string {
	return r.styled(errorStyle, "[render: "+msg+"]") + "\n"
}

func (r *Renderer) styled(style lipgloss.Style, text string) string {
	if !r.color {
		return text
	}
	return style.Render(text)
}

// fit truncates to the display width, counting double-width runes.
func (r *Renderer) fit(s string, width int) string {
	if width <= 0 {
		width = r.width
	}
	return runewidth.Truncate(s, width, "…")
}

// =============================================================================
// SYNTAX HIGHLIGHTING (Chroma-based)
// =============================================================================

// highlightLine applies syntax highlighting to one line of content,
// picking the lexer from the file name. Any failure returns the line
// unhighlighted.
func (r *Renderer) highlightLine(path, content string) string {
	if content == "" {
		return content
	}

	lexer := lexers.Match(path)
	if lexer == nil {
		return content
	}
	lexer = chroma.Coalesce(lexer)

	style := chromaStyles.Get(r.theme)
	if style == nil {
		style = chromaStyles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, content)
	if err != nil {
		return content
	}

	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return content
	}

	// Chroma appends a trailing newline per tokenized block.
	return strings.TrimSuffix(buf.String(), "\n")
}
