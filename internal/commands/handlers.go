// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// MESSAGE TYPES
// =============================================================================

// Handlers emit these messages; the chat model owns the state changes.

// ShowHelpMsg triggers the help display.
type ShowHelpMsg struct {
	Category string
}

// NewCheckInMsg starts a fresh check-in.
type NewCheckInMsg struct{}

// SaveCheckInMsg triggers saving the current check-in.
type SaveCheckInMsg struct {
	Title string
}

// SaveCompleteMsg indicates save completion.
type SaveCompleteMsg struct {
	ID    string
	Error error
}

// LoadCheckInMsg triggers loading a check-in.
type LoadCheckInMsg struct {
	ID string
}

// LoadCompleteMsg indicates load completion.
type LoadCompleteMsg struct {
	ID    string
	Error error
}

// ListCheckInsMsg triggers showing the saved check-in list.
type ListCheckInsMsg struct{}

// ClearConversationMsg clears the current conversation.
type ClearConversationMsg struct{}

// ExportCheckInMsg triggers an export.
type ExportCheckInMsg struct {
	Format string
}

// ExportCompleteMsg indicates export completion.
type ExportCompleteMsg struct {
	Path  string
	Error error
}

// OpenMoodPickerMsg opens the mood logging overlay.
type OpenMoodPickerMsg struct{}

// ShowMoodSummaryMsg shows the mood summary view.
type ShowMoodSummaryMsg struct{}

// StartExerciseMsg starts a guided exercise. Empty ID opens the picker.
type StartExerciseMsg struct {
	ID string
}

// PauseRevealMsg pauses the paced reveal.
type PauseRevealMsg struct{}

// ResumeRevealMsg resumes the paced reveal.
type ResumeRevealMsg struct{}

// ReplayRevealMsg restarts the last reply from its first chunk.
type ReplayRevealMsg struct{}

// ShowProfileMsg shows the profile view.
type ShowProfileMsg struct{}

// LockActionMsg requests an app-lock change.
type LockActionMsg struct {
	Action string // "on", "off", "change", "" (show status)
}

// ModelSwitchMsg requests a model switch; empty means show current.
type ModelSwitchMsg struct {
	Model string
}

// ThemeSwitchMsg requests a theme change.
type ThemeSwitchMsg struct {
	Theme string
}

// ToggleStatsMsg toggles generation statistics.
type ToggleStatsMsg struct{}

// CommandErrorMsg reports a command usage problem.
type CommandErrorMsg struct {
	Message string
}

// =============================================================================
// HANDLERS
// =============================================================================

func msgCmd(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

func handleHelp(args []string) tea.Cmd {
	category := ""
	if len(args) > 0 {
		category = strings.ToLower(args[0])
	}
	return msgCmd(ShowHelpMsg{Category: category})
}

func handleQuit([]string) tea.Cmd {
	return tea.Quit
}

func handleNew([]string) tea.Cmd {
	return msgCmd(NewCheckInMsg{})
}

func handleSave(args []string) tea.Cmd {
	return msgCmd(SaveCheckInMsg{Title: strings.Join(args, " ")})
}

func handleLoad(args []string) tea.Cmd {
	if len(args) == 0 {
		return msgCmd(CommandErrorMsg{Message: "usage: /load <id>"})
	}
	return msgCmd(LoadCheckInMsg{ID: args[0]})
}

func handleList([]string) tea.Cmd {
	return msgCmd(ListCheckInsMsg{})
}

func handleClear([]string) tea.Cmd {
	return msgCmd(ClearConversationMsg{})
}

func handleExport(args []string) tea.Cmd {
	format := "markdown"
	if len(args) > 0 {
		format = strings.ToLower(args[0])
	}
	switch format {
	case "markdown", "md", "json":
	default:
		return msgCmd(CommandErrorMsg{Message: "usage: /export [markdown|json]"})
	}
	return msgCmd(ExportCheckInMsg{Format: format})
}

func handleMood(args []string) tea.Cmd {
	if len(args) > 0 && strings.EqualFold(args[0], "summary") {
		return msgCmd(ShowMoodSummaryMsg{})
	}
	return msgCmd(OpenMoodPickerMsg{})
}

func handleExercise(args []string) tea.Cmd {
	id := ""
	if len(args) > 0 {
		id = strings.ToLower(args[0])
	}
	return msgCmd(StartExerciseMsg{ID: id})
}

func handleBreathe([]string) tea.Cmd {
	return msgCmd(StartExerciseMsg{ID: "breathe"})
}

func handlePause([]string) tea.Cmd {
	return msgCmd(PauseRevealMsg{})
}

func handleResume([]string) tea.Cmd {
	return msgCmd(ResumeRevealMsg{})
}

func handleReplay([]string) tea.Cmd {
	return msgCmd(ReplayRevealMsg{})
}

func handleProfile([]string) tea.Cmd {
	return msgCmd(ShowProfileMsg{})
}

func handleLock(args []string) tea.Cmd {
	action := ""
	if len(args) > 0 {
		action = strings.ToLower(args[0])
	}
	switch action {
	case "", "on", "off", "change":
	default:
		return msgCmd(CommandErrorMsg{Message: "usage: /lock [on|off|change]"})
	}
	return msgCmd(LockActionMsg{Action: action})
}

func handleModel(args []string) tea.Cmd {
	model := ""
	if len(args) > 0 {
		model = args[0]
	}
	return msgCmd(ModelSwitchMsg{Model: model})
}

func handleTheme(args []string) tea.Cmd {
	if len(args) == 0 {
		return msgCmd(CommandErrorMsg{Message: "usage: /theme <dark|light|auto>"})
	}
	return msgCmd(ThemeSwitchMsg{Theme: strings.ToLower(args[0])})
}

func handleStats([]string) tea.Cmd {
	return msgCmd(ToggleStatsMsg{})
}
