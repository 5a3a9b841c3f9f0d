// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/nafsy-app/nafsy-tui/internal/ui/styles"
)

// =============================================================================
// WELCOME SCREEN
// =============================================================================

// Welcome is the empty-conversation greeting.
type Welcome struct {
	Name  string // user's name from the profile
	Width int
	theme *styles.Theme
}

// NewWelcome creates the welcome screen.
func NewWelcome(theme *styles.Theme) *Welcome {
	return &Welcome{Width: 80, theme: theme}
}

// SetWidth updates the available width.
func (w *Welcome) SetWidth(width int) {
	w.Width = width
}

// Render draws the welcome box.
func (w *Welcome) Render() string {
	t := w.theme

	greeting := "Welcome back"
	if w.Name != "" {
		greeting = "Welcome back, " + w.Name
	}

	var sb strings.Builder
	sb.WriteString(t.WelcomeLogo.Render("nafsy") + "\n\n")
	sb.WriteString(t.WelcomeInfo.Render(greeting+". This space is yours.") + "\n\n")
	sb.WriteString(t.WelcomeInfo.Render("Type how you're doing, or try:") + "\n")
	sb.WriteString(t.WelcomeKey.Render("/mood") + t.WelcomeInfo.Render("  log how you feel") + "\n")
	sb.WriteString(t.WelcomeKey.Render("/breathe") + t.WelcomeInfo.Render("  one minute of box breathing") + "\n")
	sb.WriteString(t.WelcomeKey.Render("/help") + t.WelcomeInfo.Render("  everything else"))

	return t.WelcomeBox.Render(sb.String())
}
