// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file applies the effects of slash commands. Command parsing and
// the message types live in the commands package; this file owns the
// state changes.
package chat

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nafsy-app/nafsy-tui/internal/commands"
	"github.com/nafsy-app/nafsy-tui/internal/companion"
	"github.com/nafsy-app/nafsy-tui/internal/exercise"
	"github.com/nafsy-app/nafsy-tui/internal/export"
	"github.com/nafsy-app/nafsy-tui/internal/model"
	"github.com/nafsy-app/nafsy-tui/internal/mood"
	"github.com/nafsy-app/nafsy-tui/internal/storage"
	"github.com/nafsy-app/nafsy-tui/internal/ui/components"
	"github.com/nafsy-app/nafsy-tui/internal/ui/styles"
)

// moodSummaryMsg delivers the computed mood summary.
type moodSummaryMsg struct {
	summary *mood.Summary
	err     error
}

// moodSavedMsg confirms a logged mood entry.
type moodSavedMsg struct {
	entry *mood.Entry
	err   error
}

// =============================================================================
// COMMAND MESSAGE DISPATCH
// =============================================================================

// handleCommandMsg applies command effects. The third return is false
// when the message is not a command effect.
func (m Model) handleCommandMsg(msg tea.Msg) (tea.Model, tea.Cmd, bool) {
	switch msg := msg.(type) {
	case commands.ShowHelpMsg:
		mm, cmd := m.showHelpMessage(msg.Category)
		return mm, cmd, true
	case commands.CommandErrorMsg:
		mm, cmd := m.withNotice(msg.Message)
		return mm, cmd, true

	case commands.NewCheckInMsg:
		mm, cmd := m.startNewCheckIn()
		return mm, cmd, true
	case commands.SaveCheckInMsg:
		mm, cmd := m.saveCheckIn(msg.Title)
		return mm, cmd, true
	case commands.SaveCompleteMsg:
		mm, cmd := m.saveComplete(msg)
		return mm, cmd, true
	case commands.LoadCheckInMsg:
		mm, cmd := m.loadCheckIn(msg.ID)
		return mm, cmd, true
	case commands.ListCheckInsMsg:
		mm, cmd := m.listCheckIns()
		return mm, cmd, true
	case commands.ClearConversationMsg:
		mm, cmd := m.clearConversation()
		return mm, cmd, true
	case commands.ExportCheckInMsg:
		mm, cmd := m.exportCheckIn(msg.Format)
		return mm, cmd, true
	case commands.ExportCompleteMsg:
		mm, cmd := m.exportComplete(msg)
		return mm, cmd, true

	case commands.OpenMoodPickerMsg:
		m.moodPicker = components.NewMoodPicker(m.theme)
		return m, nil, true
	case commands.ShowMoodSummaryMsg:
		mm, cmd := m.showMoodSummary()
		return mm, cmd, true
	case moodSavedMsg:
		mm, cmd := m.moodSaved(msg)
		return mm, cmd, true
	case moodSummaryMsg:
		mm, cmd := m.moodSummaryReady(msg)
		return mm, cmd, true

	case commands.StartExerciseMsg:
		mm, cmd := m.startExercise(msg.ID)
		return mm, cmd, true

	case commands.PauseRevealMsg:
		if m.revealActive() {
			m.reveal.Pause()
			mm, cmd := m.syncReveal()
			return mm, cmd, true
		}
		mm, cmd := m.withNotice("nothing is being revealed")
		return mm, cmd, true
	case commands.ResumeRevealMsg:
		if m.revealSnap.IsPaused {
			m.reveal.Resume()
			mm, cmd := m.syncReveal()
			return mm, cmd, true
		}
		mm, cmd := m.withNotice("reveal is not paused")
		return mm, cmd, true
	case commands.ReplayRevealMsg:
		mm, cmd := m.replayReveal()
		return mm, cmd, true

	case commands.ShowProfileMsg:
		mm, cmd := m.showProfile()
		return mm, cmd, true
	case commands.LockActionMsg:
		mm, cmd := m.lockAction(msg.Action)
		return mm, cmd, true
	case commands.ModelSwitchMsg:
		mm, cmd := m.switchModel(msg.Model)
		return mm, cmd, true
	case commands.ThemeSwitchMsg:
		mm, cmd := m.switchTheme(msg.Theme)
		return mm, cmd, true
	case commands.ToggleStatsMsg:
		m.cfg.UI.ShowStats = !m.cfg.UI.ShowStats
		m.renderer.SetShowStats(m.cfg.UI.ShowStats)
		m.updateViewport()
		return m, nil, true
	}
	return m, nil, false
}

// =============================================================================
// HELP
// =============================================================================

func (m Model) showHelpMessage(category string) (tea.Model, tea.Cmd) {
	byCat := m.registry.ByCategory()

	cats := make([]string, 0, len(byCat))
	for cat := range byCat {
		if category != "" && !strings.EqualFold(cat, category) {
			continue
		}
		cats = append(cats, cat)
	}
	if len(cats) == 0 {
		return m.withNotice("no commands in category " + category)
	}
	sort.Strings(cats)

	var b strings.Builder
	b.WriteString("Commands:\n")
	for _, cat := range cats {
		fmt.Fprintf(&b, "\n%s\n", cat)
		for _, cmd := range byCat[cat] {
			fmt.Fprintf(&b, "  %-12s %s\n", cmd.Name, cmd.Description)
		}
	}
	b.WriteString("\nWhile a reply is revealed: space pauses, ←/→ step, tab shows the rest.")

	m.conversation.AddSystemMessage(b.String())
	m.updateViewport()
	m.viewport.GotoBottom()
	return m, nil
}

// =============================================================================
// CHECK-IN LIFECYCLE
// =============================================================================

func (m Model) startNewCheckIn() (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	if m.session.IsDirty() && m.stores.CheckIns != nil && !m.conversation.IsEmpty() {
		cmds = append(cmds, m.saveCmd(""))
	}

	name, tone := "", ""
	if m.prof != nil {
		name, tone = m.prof.Name, string(m.prof.Tone)
	}
	m.conversation = model.NewConversationWithPersona(companion.Persona(name, tone))
	m.reveal.Close()
	m.reveal = m.newController(m.cfg.Reveal.FloatingOptions())
	m.revealSnap = m.reveal.Snapshot()
	m.revealMsg = nil
	m.activeExercise = nil
	m.crisis = false
	m.session.MarkClean()
	m.setStatus()
	m.updateViewport()
	return m, tea.Batch(cmds...)
}

// saveCmd persists the current check-in off the UI loop.
func (m Model) saveCmd(title string) tea.Cmd {
	if m.stores.CheckIns == nil {
		return nil
	}
	store := m.stores.CheckIns
	conv := m.conversation
	if title != "" {
		conv.SetTitle(title)
	}
	return func() tea.Msg {
		id, err := store.Save(conv)
		return commands.SaveCompleteMsg{ID: id, Error: err}
	}
}

func (m Model) saveCheckIn(title string) (tea.Model, tea.Cmd) {
	if m.stores.CheckIns == nil {
		return m.withNotice("saving is unavailable")
	}
	if m.conversation.IsEmpty() {
		return m.withNotice("nothing to save yet")
	}
	return m, m.saveCmd(title)
}

func (m Model) saveComplete(msg commands.SaveCompleteMsg) (tea.Model, tea.Cmd) {
	if msg.Error != nil {
		return m.withNotice("save failed: " + msg.Error.Error())
	}
	m.session.MarkClean()
	m.setStatus()
	return m.withNotice("saved " + msg.ID)
}

func (m Model) loadCheckIn(id string) (tea.Model, tea.Cmd) {
	if m.stores.CheckIns == nil {
		return m.withNotice("loading is unavailable")
	}
	conv, err := m.stores.CheckIns.Load(id)
	if err != nil {
		return m.withNotice("load failed: " + err.Error())
	}
	m.conversation = conv
	m.reveal.Close()
	m.reveal = m.newController(m.cfg.Reveal.FloatingOptions())
	m.revealSnap = m.reveal.Snapshot()
	m.revealMsg = nil
	m.crisis = false
	m.header.SetTitle(conv.GetTitle())
	m.session.MarkClean()
	m.setStatus()
	m.updateViewport()
	m.viewport.GotoBottom()
	return m, nil
}

func (m Model) listCheckIns() (tea.Model, tea.Cmd) {
	if m.stores.CheckIns == nil {
		return m.withNotice("no check-in store")
	}
	metas, err := m.stores.CheckIns.List()
	if err != nil {
		return m.withNotice("list failed: " + err.Error())
	}
	if len(metas) == 0 {
		return m.withNotice("no saved check-ins yet")
	}
	m.conversation.AddSystemMessage(storage.FormatList(metas))
	m.updateViewport()
	m.viewport.GotoBottom()
	return m, nil
}

func (m Model) clearConversation() (tea.Model, tea.Cmd) {
	m.conversation.ClearHistory()
	m.reveal.Reset()
	m.revealSnap = m.reveal.Snapshot()
	m.revealMsg = nil
	m.crisis = false
	m.session.MarkDirty()
	m.setStatus()
	m.updateViewport()
	return m, nil
}

func (m Model) exportCheckIn(format string) (tea.Model, tea.Cmd) {
	if m.conversation.IsEmpty() {
		return m.withNotice("nothing to export yet")
	}
	conv := m.conversation
	return m, func() tea.Msg {
		path, err := export.ToFile(conv, format, export.DefaultOptions())
		return commands.ExportCompleteMsg{Path: path, Error: err}
	}
}

func (m Model) exportComplete(msg commands.ExportCompleteMsg) (tea.Model, tea.Cmd) {
	if msg.Error != nil {
		return m.withNotice("export failed: " + msg.Error.Error())
	}
	return m.withNotice("exported to " + msg.Path)
}

// =============================================================================
// MOOD
// =============================================================================

func (m Model) handleMoodChosen(msg components.MoodChosenMsg) (tea.Model, tea.Cmd) {
	m.moodPicker = nil
	entry, err := mood.NewEntry(msg.Valence, msg.Energy, nil, "")
	if err != nil {
		return m.withNotice("could not log mood: " + err.Error())
	}
	if m.stores.Moods == nil {
		m.pendingMood = entry.Glyph() + " " + entry.Label()
		return m.withNotice("mood noted (not persisted)")
	}
	store := m.stores.Moods
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := store.Add(ctx, entry)
		return moodSavedMsg{entry: entry, err: err}
	}
}

func (m Model) moodSaved(msg moodSavedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return m.withNotice("could not log mood: " + msg.err.Error())
	}
	m.pendingMood = msg.entry.Glyph() + " " + msg.entry.Label()
	return m.withNotice("mood logged: " + msg.entry.Label())
}

func (m Model) showMoodSummary() (tea.Model, tea.Cmd) {
	if m.stores.Moods == nil {
		return m.withNotice("mood history is unavailable")
	}
	store := m.stores.Moods
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		summary, err := store.Summarize(ctx, time.Now())
		return moodSummaryMsg{summary: summary, err: err}
	}
}

func (m Model) moodSummaryReady(msg moodSummaryMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return m.withNotice("summary failed: " + msg.err.Error())
	}
	s := msg.summary
	var b strings.Builder
	b.WriteString("Mood summary\n")
	fmt.Fprintf(&b, "  entries: %d   streak: %d day(s)\n", s.TotalEntries, s.StreakDays)
	fmt.Fprintf(&b, "  last 7 days:  valence %+.1f, energy %.1f\n", s.Avg7Valence, s.Avg7Energy)
	fmt.Fprintf(&b, "  last 30 days: valence %+.1f, energy %.1f\n", s.Avg30Valence, s.Avg30Energy)
	if len(s.TopTags) > 0 {
		fmt.Fprintf(&b, "  common tags: %s\n", strings.Join(s.TopTags, ", "))
	}
	m.conversation.AddSystemMessage(b.String())
	m.updateViewport()
	m.viewport.GotoBottom()
	return m, nil
}

// =============================================================================
// EXERCISES
// =============================================================================

func (m Model) startExercise(id string) (tea.Model, tea.Cmd) {
	if id == "" {
		var b strings.Builder
		b.WriteString("Exercises (/exercise <id>):\n")
		for _, ex := range exercise.Catalog() {
			fmt.Fprintf(&b, "  %-10s %s (%s)\n", ex.ID, ex.Tagline, ex.TotalDuration().Round(time.Second))
		}
		m.conversation.AddSystemMessage(b.String())
		m.updateViewport()
		m.viewport.GotoBottom()
		return m, nil
	}
	if m.streaming {
		return m.withNotice("wait for the reply to finish first")
	}

	ex, err := exercise.Lookup(id)
	if err != nil {
		return m.withNotice(err.Error())
	}

	reply := m.conversation.AddCompanionMessage()
	reply.Content = strings.Join(ex.Chunks(), "\n\n")
	reply.RevealChunks = ex.Chunks()
	reply.FinalizeStream(nil)

	// Exercises bring their own pacing; each step holds for its duration.
	m.reveal.Close()
	m.reveal = m.newController(ex.Options())
	m.reveal.SetStepDurations(ex.StepDurations())
	m.reveal.Supply(reply.RevealChunks)
	m.revealMsg = reply
	m.revealSnap = m.reveal.Snapshot()
	m.activeExercise = ex
	m.exerciseStart = time.Now()
	m.session.RecordActivity()
	m.session.MarkDirty()
	m.setStatus()
	m.updateViewport()
	m.viewport.GotoBottom()
	return m, nil
}

func (m Model) handleExerciseFinished(msg ExerciseFinishedMsg) (tea.Model, tea.Cmd) {
	if m.stores.Exercises != nil {
		if err := m.stores.Exercises.Record(msg.ExerciseID, msg.StartedAt, true); err != nil {
			return m.withNotice("could not record exercise: " + err.Error())
		}
	}
	return m.withNotice("nice work - exercise complete")
}

// =============================================================================
// REVEAL REPLAY
// =============================================================================

func (m Model) replayReveal() (tea.Model, tea.Cmd) {
	if m.revealMsg == nil || len(m.revealMsg.RevealChunks) == 0 {
		return m.withNotice("nothing to replay")
	}
	m.reveal.Reset()
	m.reveal.Supply(m.revealMsg.RevealChunks)
	return m.syncReveal()
}

// =============================================================================
// PROFILE, LOCK, MODEL, THEME
// =============================================================================

func (m Model) showProfile() (tea.Model, tea.Cmd) {
	if m.prof == nil {
		return m.withNotice("no profile yet; restart to run setup")
	}
	lock := "off"
	if m.prof.Locked() {
		lock = "on"
	}
	var b strings.Builder
	b.WriteString("Profile\n")
	fmt.Fprintf(&b, "  name: %s\n", m.prof.Name)
	fmt.Fprintf(&b, "  tone: %s\n", m.prof.Tone)
	fmt.Fprintf(&b, "  check-in goal: %d per week\n", m.prof.CheckInGoal)
	fmt.Fprintf(&b, "  app lock: %s\n", lock)
	m.conversation.AddSystemMessage(b.String())
	m.updateViewport()
	m.viewport.GotoBottom()
	return m, nil
}

func (m Model) lockAction(action string) (tea.Model, tea.Cmd) {
	if action == "" {
		state := "disabled"
		if m.prof != nil && m.prof.Locked() {
			state = "enabled"
		}
		return m.withNotice("app lock is " + state)
	}
	// PIN entry needs the raw terminal, which the TUI owns. The CLI
	// subcommand takes over the prompt instead.
	return m.withNotice("run `nafsy lock " + action + "` from your shell")
}

func (m Model) switchModel(name string) (tea.Model, tea.Cmd) {
	if name == "" {
		return m.withNotice("current model: " + m.modelName)
	}
	client := m.client
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		infos, err := client.ListModels(ctx)
		if err != nil {
			return ModelSwitchedMsg{Model: name, Err: err}
		}
		for _, info := range infos {
			if info.Name == name {
				return ModelSwitchedMsg{Model: name}
			}
		}
		return ModelSwitchedMsg{Model: name, Err: fmt.Errorf("model %q is not installed", name)}
	}
}

func (m Model) handleModelSwitched(msg ModelSwitchedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		return m.withNotice("model switch failed: " + msg.Err.Error())
	}
	m.modelName = msg.Model
	m.header.SetModel(msg.Model)
	return m.withNotice("switched to " + msg.Model)
}

func (m Model) switchTheme(name string) (tea.Model, tea.Cmd) {
	var theme *styles.Theme
	switch name {
	case "dark":
		theme = styles.NewThemeForMode(true)
	case "light":
		theme = styles.NewThemeForMode(false)
	case "auto":
		theme = styles.NewTheme()
	default:
		return m.withNotice("usage: /theme <dark|light|auto>")
	}
	theme.SetSize(m.width, m.height)

	m.theme = theme
	m.cfg.UI.Theme = name
	m.header = components.NewHeader(theme)
	m.status = components.NewStatusBar(theme)
	m.spin = components.NewSpinner(theme)
	m.renderer = components.NewMessageRenderer(theme)
	m.welcome = components.NewWelcome(theme)
	m.header.SetWidth(m.width)
	m.status.SetWidth(m.width)
	m.renderer.SetWidth(m.width)
	m.welcome.SetWidth(m.width)
	m.renderer.SetShowStats(m.cfg.UI.ShowStats)
	m.header.SetModel(m.modelName)
	m.header.SetTitle(m.conversation.GetTitle())
	m.setStatus()
	m.updateViewport()
	return m.withNotice("theme: " + name)
}
