// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/nafsy-app/nafsy-tui/internal/model"
	"github.com/nafsy-app/nafsy-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGE RENDERING
// =============================================================================

// MessageRenderer draws conversation messages as bubbles.
type MessageRenderer struct {
	theme     *styles.Theme
	width     int
	showStats bool
}

// NewMessageRenderer creates a renderer for the given theme.
func NewMessageRenderer(theme *styles.Theme) *MessageRenderer {
	return &MessageRenderer{theme: theme, width: 80}
}

// SetWidth updates the available width.
func (r *MessageRenderer) SetWidth(width int) {
	r.width = width
}

// SetShowStats toggles the generation statistics footer.
func (r *MessageRenderer) SetShowStats(show bool) {
	r.showStats = show
}

// Render draws a message bubble. Companion messages mid-reveal pass the
// revealed text in place of the full content.
func (r *MessageRenderer) Render(msg *model.Message, content string) string {
	if content == "" {
		content = msg.GetDisplayContent()
	}

	bubbleWidth := r.width - 8
	if bubbleWidth < 20 {
		bubbleWidth = 20
	}

	switch msg.Role {
	case model.RoleUser:
		bubble := r.theme.UserBubble.MaxWidth(bubbleWidth).Render(content)
		if msg.MoodTag != "" {
			bubble += "\n" + r.theme.MoodGlyph.Render("  mood: "+msg.MoodTag)
		}
		return bubble

	case model.RoleCompanion:
		out := r.theme.CompanionBubble.MaxWidth(bubbleWidth).Render(content)
		if r.showStats && msg.TokenCount > 0 {
			out += "\n" + r.renderStats(msg)
		}
		return out

	default:
		return r.theme.SystemNotice.Render(content)
	}
}

// renderStats draws the per-reply generation footer.
func (r *MessageRenderer) renderStats(msg *model.Message) string {
	t := r.theme
	parts := []string{
		t.StatsLabel.Render("tokens ") + t.StatsValue.Render(fmt.Sprintf("%d", msg.TokenCount)),
	}
	if msg.TokensPerSec > 0 {
		parts = append(parts,
			t.StatsLabel.Render("tok/s ")+t.StatsValue.Render(fmt.Sprintf("%.1f", msg.TokensPerSec)))
	}
	if msg.TTFT > 0 {
		parts = append(parts,
			t.StatsLabel.Render("ttft ")+t.StatsValue.Render(msg.TTFT.Truncate(10).String()))
	}
	return t.StatsBar.Render("  " + strings.Join(parts, "  "))
}

// =============================================================================
// REVEAL PROGRESS DOTS
// =============================================================================

// RevealDots renders the chunk position indicator under a paced reply:
// one dot per chunk, the current one highlighted.
func RevealDots(theme *styles.Theme, current, total int, paused bool) string {
	if total <= 1 {
		return ""
	}

	var sb strings.Builder
	for i := 0; i < total; i++ {
		if i == current {
			sb.WriteString(theme.RevealDotActive.Render("●"))
		} else {
			sb.WriteString(theme.RevealDotIdle.Render("·"))
		}
		if i < total-1 {
			sb.WriteString(" ")
		}
	}

	out := sb.String()
	if paused {
		out += "  " + theme.RevealPaused.Render("⏸")
	}
	return out
}
