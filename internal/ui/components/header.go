// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nafsy-app/nafsy-tui/internal/ui/styles"
	"github.com/nafsy-app/nafsy-tui/internal/util"
)

// =============================================================================
// HEADER COMPONENT
// =============================================================================

// Header is the title bar: app name, the check-in title, and the model.
type Header struct {
	Title     string // check-in title
	ModelName string
	Offline   bool
	Width     int
	theme     *styles.Theme
}

// NewHeader creates a header with default values.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{
		Width: 80,
		theme: theme,
	}
}

// SetWidth updates the header width.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// SetModel updates the model name.
func (h *Header) SetModel(model string) {
	h.ModelName = model
}

// SetTitle updates the check-in title.
func (h *Header) SetTitle(title string) {
	h.Title = title
}

// Render draws the header line.
func (h *Header) Render() string {
	t := h.theme

	left := t.HeaderTitle.Render("nafsy")
	if h.Title != "" {
		left += t.HeaderSubtitle.Render(" · " + util.TruncateWidth(h.Title, h.Width/2))
	}

	right := ""
	if h.ModelName != "" {
		right = t.HeaderSubtitle.Render(h.ModelName)
	}
	if h.Offline {
		right = t.InfoStyle.Render("offline") + " " + right
	}

	gap := h.Width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}

	return left + strings.Repeat(" ", gap) + right
}
