// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// styles.go - lipgloss styles for plain CLI output.
package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nafsy-app/nafsy-tui/internal/ui/styles"
)

var (
	promptStyle  = lipgloss.NewStyle().Foreground(styles.Sage).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(styles.Rose).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(styles.Amber)
	successStyle = lipgloss.NewStyle().Foreground(styles.Teal)
	mutedStyle   = lipgloss.NewStyle().Foreground(styles.TextMuted)
)
