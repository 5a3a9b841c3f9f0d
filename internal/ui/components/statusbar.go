// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nafsy-app/nafsy-tui/internal/ui/styles"
)

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// StatusBar is the bottom line: save state, reveal state, shortcuts.
type StatusBar struct {
	Width     int
	Dirty     bool
	Paused    bool
	Revealing bool
	Position  string // "2/5" while a reply is being revealed
	theme     *styles.Theme
}

// NewStatusBar creates a status bar.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{Width: 80, theme: theme}
}

// SetWidth updates the bar width.
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// Render draws the status line.
func (s *StatusBar) Render() string {
	t := s.theme

	var left []string
	if s.Dirty {
		left = append(left, t.StatusUnsaved.Render("● unsaved"))
	} else {
		left = append(left, t.StatusSaved.Render("○ saved"))
	}

	if s.Revealing {
		state := t.RevealHint.Render("revealing " + s.Position)
		if s.Paused {
			state = t.RevealPaused.Render("paused " + s.Position)
		}
		left = append(left, state)
	}

	shortcuts := []string{
		t.ShortcutKey.Render("space") + t.ShortcutDesc.Render(" pause"),
		t.ShortcutKey.Render("←/→") + t.ShortcutDesc.Render(" steps"),
		t.ShortcutKey.Render("/help"),
	}

	leftStr := strings.Join(left, "  ")
	rightStr := strings.Join(shortcuts, "  ")

	gap := s.Width - lipgloss.Width(leftStr) - lipgloss.Width(rightStr) - 2
	if gap < 1 {
		gap = 1
	}

	return t.StatusBar.Width(s.Width).Render(
		leftStr + strings.Repeat(" ", gap) + rightStr)
}
