// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "testing"

func TestNewThemeInitializesStyles(t *testing.T) {
	th := NewTheme()

	// Spot-check that the big style groups were initialized; an
	// uninitialized lipgloss.Style renders its input unchanged, so
	// compare against a render that should add padding.
	if th.UserBubble.GetPaddingLeft() == 0 {
		t.Error("UserBubble has no padding, initStyles likely incomplete")
	}
	if th.CompanionBubble.GetMarginRight() == 0 {
		t.Error("CompanionBubble missing margin")
	}
	if !th.HeaderTitle.GetBold() {
		t.Error("HeaderTitle should be bold")
	}
}

func TestNewThemeForMode(t *testing.T) {
	dark := NewThemeForMode(true)
	if !dark.IsDark {
		t.Error("forced dark theme not dark")
	}
	light := NewThemeForMode(false)
	if light.IsDark {
		t.Error("forced light theme is dark")
	}
}

func TestSetSize(t *testing.T) {
	th := NewThemeForMode(true)
	th.SetSize(120, 40)
	if th.Width != 120 || th.Height != 40 {
		t.Errorf("size = %dx%d", th.Width, th.Height)
	}
}
