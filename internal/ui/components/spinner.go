// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nafsy-app/nafsy-tui/internal/ui/styles"
)

// =============================================================================
// SPINNER COMPONENT
// =============================================================================

// Spinner shows a gentle pulse while the companion is thinking.
type Spinner struct {
	spinner   spinner.Model
	message   string
	startTime time.Time
	isActive  bool
	theme     *styles.Theme
}

// NewSpinner creates the thinking spinner.
func NewSpinner(theme *styles.Theme) Spinner {
	s := spinner.New()
	// A slow soft pulse fits the app better than a busy braille spin.
	s.Spinner = spinner.Spinner{
		Frames: []string{"·", "•", "●", "•"},
		FPS:    time.Second / 4,
	}
	s.Style = theme.Spinner

	return Spinner{
		spinner: s,
		message: "listening",
		theme:   theme,
	}
}

// Start activates the spinner.
func (s *Spinner) Start() tea.Cmd {
	s.isActive = true
	s.startTime = time.Now()
	return s.spinner.Tick
}

// Stop deactivates the spinner.
func (s *Spinner) Stop() {
	s.isActive = false
}

// SetMessage updates the status text.
func (s *Spinner) SetMessage(msg string) {
	s.message = msg
}

// Active reports whether the spinner is running.
func (s *Spinner) Active() bool {
	return s.isActive
}

// Update advances the spinner animation.
func (s *Spinner) Update(msg tea.Msg) tea.Cmd {
	if !s.isActive {
		return nil
	}
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(msg)
	return cmd
}

// View renders the spinner line.
func (s *Spinner) View() string {
	if !s.isActive {
		return ""
	}
	return s.spinner.View() + " " + s.theme.ThinkingText.Render(s.message+"...")
}
