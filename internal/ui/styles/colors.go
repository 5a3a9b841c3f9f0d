// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// PRIMARY ACCENT COLORS
// =============================================================================

// Sage - Primary accent, companion messages, headers
var Sage = lipgloss.AdaptiveColor{Light: "#4D7C5F", Dark: "#8FBF9F"}

// SageDeep - Darker sage for backgrounds
var SageDeep = lipgloss.AdaptiveColor{Light: "#3A5F48", Dark: "#2D4A38"}

// Lavender - User highlights, selections, the reveal cursor
var Lavender = lipgloss.AdaptiveColor{Light: "#7C6BAE", Dark: "#B4A7D6"}

// LavenderDeep - Darker lavender for backgrounds
var LavenderDeep = lipgloss.AdaptiveColor{Light: "#5D4F8A", Dark: "#433A63"}

// Sand - Warm neutral accent for mood and exercise views
var Sand = lipgloss.AdaptiveColor{Light: "#B08954", Dark: "#D7BC91"}

// =============================================================================
// SEMANTIC COLORS
// =============================================================================

// Rose - Errors and the crisis-resources banner
var Rose = lipgloss.AdaptiveColor{Light: "#C2495E", Dark: "#E8899A"}

// Amber - Warnings, break suggestions
var Amber = lipgloss.AdaptiveColor{Light: "#B07A2A", Dark: "#E0B566"}

// Teal - Success states, saved confirmations
var Teal = lipgloss.AdaptiveColor{Light: "#2A7F74", Dark: "#7CC5BA"}

// =============================================================================
// SURFACE COLORS
// =============================================================================

// Surface - Main background
var Surface = lipgloss.AdaptiveColor{Light: "#FDFBF7", Dark: "#22252B"}

// SurfaceDim - Slightly recessed surface for headers/footers
var SurfaceDim = lipgloss.AdaptiveColor{Light: "#F4F0E8", Dark: "#1B1E23"}

// SurfaceBright - Raised surface for overlays and pickers
var SurfaceBright = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#2C3037"}

// Overlay - Borders and separators
var Overlay = lipgloss.AdaptiveColor{Light: "#E3DDD1", Dark: "#363B43"}

// =============================================================================
// TEXT COLORS
// =============================================================================

// TextPrimary - Main body text
var TextPrimary = lipgloss.AdaptiveColor{Light: "#3A3F36", Dark: "#D8DDD2"}

// TextSecondary - Labels, less prominent text
var TextSecondary = lipgloss.AdaptiveColor{Light: "#6F756A", Dark: "#A2A89B"}

// TextMuted - Hints, timestamps, progress dots
var TextMuted = lipgloss.AdaptiveColor{Light: "#A1A699", Dark: "#6E7468"}

// TextInverse - Text on colored backgrounds
var TextInverse = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#22252B"}

// =============================================================================
// BUBBLE COLORS
// =============================================================================

// UserBubbleFg/Bg/Border - the user's messages
var (
	UserBubbleFg     = TextPrimary
	UserBubbleBg     = lipgloss.AdaptiveColor{Light: "#EFEAF7", Dark: "#2E2A3C"}
	UserBubbleBorder = Lavender
)

// CompanionBubbleFg/Bg/Border - the companion's replies
var (
	CompanionBubbleFg     = TextPrimary
	CompanionBubbleBg     = lipgloss.AdaptiveColor{Light: "#EDF3EC", Dark: "#27312A"}
	CompanionBubbleBorder = Sage
)

// SystemBubbleFg/Border - system notices (saves, breaks, errors)
var (
	SystemBubbleFg     = TextSecondary
	SystemBubbleBorder = Overlay
)
