// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file renders the frame: header, conversation viewport, the crisis
// banner when the guard has fired, the input line, and the status bar.
package chat

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nafsy-app/nafsy-tui/internal/ui/components"
)

// crisisBannerText stays visible for the rest of the check-in once the
// guard has fired.
const crisisBannerText = "If you are in immediate danger, call your local emergency number.\n" +
	"You can also reach a crisis line: 988 (US) · findahelpline.com"

// =============================================================================
// VIEW
// =============================================================================

// View renders the full frame.
func (m Model) View() string {
	if !m.ready {
		return "starting..."
	}

	var b strings.Builder
	b.WriteString(m.header.Render())
	b.WriteString("\n")

	if m.moodPicker != nil {
		b.WriteString(m.overlayCentered(m.moodPicker.View()))
	} else {
		b.WriteString(m.viewport.View())
	}
	b.WriteString("\n")

	if m.crisis {
		b.WriteString(m.theme.CrisisBanner.Width(m.width - 2).Render(crisisBannerText))
		b.WriteString("\n")
	}
	if m.showHelp {
		b.WriteString(m.renderHelp())
		b.WriteString("\n")
	}

	b.WriteString(m.renderInputLine())
	b.WriteString("\n")
	b.WriteString(m.status.Render())
	return b.String()
}

// overlayCentered centers an overlay in the viewport's space.
func (m Model) overlayCentered(content string) string {
	return lipgloss.Place(m.viewport.Width, m.viewport.Height,
		lipgloss.Center, lipgloss.Center, content)
}

// renderInputLine draws the prompt, or the spinner and notice when the
// companion is thinking.
func (m Model) renderInputLine() string {
	parts := []string{m.input.View()}
	if m.spin.Active() {
		parts = append(parts, m.spin.View())
	}
	if m.notice != "" {
		parts = append(parts, m.theme.SystemNotice.Render(m.notice))
	}
	return strings.Join(parts, "  ")
}

// renderHelp draws the compact key reference toggled by ctrl+h.
func (m Model) renderHelp() string {
	var lines []string
	for _, group := range m.keys.FullHelp() {
		var cells []string
		for _, binding := range group {
			h := binding.Help()
			cells = append(cells,
				m.theme.ShortcutKey.Render(h.Key)+" "+m.theme.ShortcutDesc.Render(h.Desc))
		}
		lines = append(lines, strings.Join(cells, "   "))
	}
	return strings.Join(lines, "\n")
}

// =============================================================================
// VIEWPORT CONTENT
// =============================================================================

// updateViewport rebuilds the conversation view. The message currently
// being revealed renders only its visible chunks, with the progress dots
// underneath.
func (m *Model) updateViewport() {
	if m.conversation.IsEmpty() {
		if m.prof != nil {
			m.welcome.Name = m.prof.Name
		}
		m.viewport.SetContent(m.welcome.Render())
		return
	}

	snap := m.revealSnap
	parts := make([]string, 0, len(m.conversation.Messages))
	for _, msg := range m.conversation.Messages {
		if msg == m.revealMsg && snap.TotalChunks > 0 && !snap.IsComplete {
			end := snap.CurrentIndex + 1
			if end > len(msg.RevealChunks) {
				end = len(msg.RevealChunks)
			}
			visible := strings.Join(msg.RevealChunks[:end], "\n\n")
			rendered := m.renderer.Render(msg, visible)
			if dots := components.RevealDots(m.theme, snap.CurrentIndex, snap.TotalChunks, snap.IsPaused); dots != "" {
				rendered += "\n" + dots
			}
			parts = append(parts, rendered)
			continue
		}
		parts = append(parts, m.renderer.Render(msg, ""))
	}
	m.viewport.SetContent(strings.Join(parts, "\n\n"))
}

// formatPosition renders a 1-based "current/total" position.
func formatPosition(index, total int) string {
	return strconv.Itoa(index+1) + "/" + strconv.Itoa(total)
}
