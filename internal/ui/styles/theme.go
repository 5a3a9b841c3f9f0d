// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application. It detects
// the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// Containers
	App       lipgloss.Style
	Container lipgloss.Style

	// Header
	Header         lipgloss.Style
	HeaderTitle    lipgloss.Style
	HeaderSubtitle lipgloss.Style

	// Message bubbles
	UserBubble      lipgloss.Style
	CompanionBubble lipgloss.Style
	SystemNotice    lipgloss.Style
	CrisisBanner    lipgloss.Style

	// Reveal pacing
	RevealDotActive lipgloss.Style
	RevealDotIdle   lipgloss.Style
	RevealPaused    lipgloss.Style
	RevealHint      lipgloss.Style

	// Input area
	InputContainer   lipgloss.Style
	InputPrompt      lipgloss.Style
	InputText        lipgloss.Style
	InputPlaceholder lipgloss.Style

	// Status bar
	StatusBar     lipgloss.Style
	StatusSaved   lipgloss.Style
	StatusUnsaved lipgloss.Style
	ShortcutKey   lipgloss.Style
	ShortcutDesc  lipgloss.Style

	// Spinner and loading
	Spinner      lipgloss.Style
	ThinkingText lipgloss.Style

	// Mood picker
	MoodBox      lipgloss.Style
	MoodOption   lipgloss.Style
	MoodSelected lipgloss.Style
	MoodGlyph    lipgloss.Style

	// Exercise view
	ExerciseBox   lipgloss.Style
	ExerciseStep  lipgloss.Style
	ExerciseTitle lipgloss.Style

	// Check-in list
	ListItem         lipgloss.Style
	ListItemSelected lipgloss.Style
	ListMeta         lipgloss.Style

	// Welcome screen
	WelcomeBox  lipgloss.Style
	WelcomeLogo lipgloss.Style
	WelcomeInfo lipgloss.Style
	WelcomeKey  lipgloss.Style

	// Semantic indicators
	SuccessStyle lipgloss.Style
	ErrorStyle   lipgloss.Style
	WarningStyle lipgloss.Style
	InfoStyle    lipgloss.Style

	// Statistics
	StatsBar   lipgloss.Style
	StatsLabel lipgloss.Style
	StatsValue lipgloss.Style
}

// NewTheme creates a theme with all styles configured.
func NewTheme() *Theme {
	colorProfile := termenv.ColorProfile()

	t := &Theme{
		IsDark:       termenv.HasDarkBackground(),
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}
	t.initStyles()
	return t
}

// NewThemeForMode forces dark or light regardless of detection, for the
// "dark" and "light" config values ("auto" uses NewTheme).
func NewThemeForMode(dark bool) *Theme {
	t := &Theme{
		IsDark:       dark,
		ColorProfile: termenv.ColorProfile(),
	}
	t.initStyles()
	return t
}

func (t *Theme) initStyles() {
	t.App = lipgloss.NewStyle()
	t.Container = lipgloss.NewStyle().Padding(0, 1)

	// Header
	t.Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(Sage).
		Padding(0, 2)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Sage)

	t.HeaderSubtitle = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	// Message bubbles
	t.UserBubble = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(UserBubbleBorder).
		Padding(0, 2).
		MarginLeft(4)

	t.CompanionBubble = lipgloss.NewStyle().
		Foreground(CompanionBubbleFg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(CompanionBubbleBorder).
		Padding(0, 2).
		MarginRight(4)

	t.SystemNotice = lipgloss.NewStyle().
		Foreground(SystemBubbleFg).
		Italic(true).
		Padding(0, 2)

	t.CrisisBanner = lipgloss.NewStyle().
		Foreground(TextPrimary).
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(Rose).
		Padding(1, 2)

	// Reveal pacing
	t.RevealDotActive = lipgloss.NewStyle().Foreground(Lavender).Bold(true)
	t.RevealDotIdle = lipgloss.NewStyle().Foreground(TextMuted)
	t.RevealPaused = lipgloss.NewStyle().Foreground(Amber).Italic(true)
	t.RevealHint = lipgloss.NewStyle().Foreground(TextMuted).Italic(true)

	// Input
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.InputPrompt = lipgloss.NewStyle().Foreground(Lavender).Bold(true)
	t.InputText = lipgloss.NewStyle().Foreground(TextPrimary)
	t.InputPlaceholder = lipgloss.NewStyle().Foreground(TextMuted).Italic(true)

	// Status bar
	t.StatusBar = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Background(SurfaceDim).
		Padding(0, 1)

	t.StatusSaved = lipgloss.NewStyle().Foreground(Teal)
	t.StatusUnsaved = lipgloss.NewStyle().Foreground(Amber)
	t.ShortcutKey = lipgloss.NewStyle().Foreground(Lavender).Bold(true)
	t.ShortcutDesc = lipgloss.NewStyle().Foreground(TextMuted)

	// Spinner
	t.Spinner = lipgloss.NewStyle().Foreground(Sage)
	t.ThinkingText = lipgloss.NewStyle().Foreground(TextSecondary).Italic(true)

	// Mood picker
	t.MoodBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Sand).
		Padding(1, 2)

	t.MoodOption = lipgloss.NewStyle().Foreground(TextSecondary).Padding(0, 1)
	t.MoodSelected = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Sand).
		Bold(true).
		Padding(0, 1)
	t.MoodGlyph = lipgloss.NewStyle().Foreground(Sand).Bold(true)

	// Exercise view
	t.ExerciseBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Sage).
		Padding(1, 3).
		Align(lipgloss.Center)

	t.ExerciseStep = lipgloss.NewStyle().Foreground(TextPrimary)
	t.ExerciseTitle = lipgloss.NewStyle().Foreground(Sage).Bold(true)

	// Check-in list
	t.ListItem = lipgloss.NewStyle().Foreground(TextSecondary).Padding(0, 1)
	t.ListItemSelected = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(SurfaceBright).
		Bold(true).
		Padding(0, 1)
	t.ListMeta = lipgloss.NewStyle().Foreground(TextMuted)

	// Welcome
	t.WelcomeBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Sage).
		Padding(1, 4).
		Align(lipgloss.Center)

	t.WelcomeLogo = lipgloss.NewStyle().Foreground(Sage).Bold(true)
	t.WelcomeInfo = lipgloss.NewStyle().Foreground(TextSecondary)
	t.WelcomeKey = lipgloss.NewStyle().Foreground(Lavender).Bold(true)

	// Semantic indicators
	t.SuccessStyle = lipgloss.NewStyle().Foreground(Teal)
	t.ErrorStyle = lipgloss.NewStyle().Foreground(Rose).Bold(true)
	t.WarningStyle = lipgloss.NewStyle().Foreground(Amber)
	t.InfoStyle = lipgloss.NewStyle().Foreground(Sage)

	// Statistics
	t.StatsBar = lipgloss.NewStyle().Foreground(TextMuted)
	t.StatsLabel = lipgloss.NewStyle().Foreground(TextMuted)
	t.StatsValue = lipgloss.NewStyle().Foreground(TextSecondary)
}

// SetSize updates the theme's layout dimensions.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}
