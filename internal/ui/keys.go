// Copyright (c) 2024-2025 Mamerto Fabian / Codefrost
// SPDX-License-Identifier: MIT

// Package ui provides the interactive change-review interface.
//
// This file defines keyboard bindings for the review viewer: vim-like
// scrolling, file navigation, and approve/reject actions.
package ui

import (
	"github.com/charmbracelet/bubbles/key"
)

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap defines all keyboard bindings for the review viewer.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	NextFile key.Binding
	PrevFile key.Binding
	Approve  key.Binding
	Reject   key.Binding
	Help     key.Binding
	Quit     key.Binding
}

// DefaultKeyMap returns the default key bindings for the review viewer.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("PgUp/C-u", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("PgDn/C-d", "page down"),
		),
		NextFile: key.NewBinding(
			key.WithKeys("tab", "l"),
			key.WithHelp("Tab/l", "next file"),
		),
		PrevFile: key.NewBinding(
			key.WithKeys("shift+tab", "h"),
			key.WithHelp("S-Tab/h", "previous file"),
		),
		Approve: key.NewBinding(
			key.WithKeys("y", "enter"),
			key.WithHelp("y/Enter", "approve file"),
		),
		Reject: key.NewBinding(
			key.WithKeys("n", "x"),
			key.WithHelp("n/x", "reject file"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q/Esc", "finish review"),
		),
	}
}
