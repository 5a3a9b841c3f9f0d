// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file contains the Update loop: key routing, streaming lifecycle,
// reveal snapshots, and session ticks. Slash-command effects live in
// commands.go.
package chat

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nafsy-app/nafsy-tui/internal/commands"
	"github.com/nafsy-app/nafsy-tui/internal/companion"
	"github.com/nafsy-app/nafsy-tui/internal/model"
	"github.com/nafsy-app/nafsy-tui/internal/session"
	"github.com/nafsy-app/nafsy-tui/internal/ui/components"
)

// =============================================================================
// UPDATE
// =============================================================================

// Update routes Bubble Tea messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)

	case StreamStartMsg:
		return m.handleStreamStart(msg)
	case StreamTickMsg:
		return m.handleStreamTick()
	case StreamCompleteMsg:
		return m.handleStreamComplete(msg)
	case StreamErrorMsg:
		return m.handleStreamError(msg)

	case RevealSnapshotMsg:
		return m.handleRevealSnapshot(msg)

	case BackendStatusMsg:
		if !msg.Running {
			m.setStatus()
			return m.withNotice("backend unreachable; check `nafsy doctor`")
		}
		return m, nil
	case ModelSwitchedMsg:
		return m.handleModelSwitched(msg)

	case ConfigReloadedMsg:
		return m.handleConfigReloaded(msg)

	case components.MoodChosenMsg:
		return m.handleMoodChosen(msg)
	case components.MoodCancelledMsg:
		m.moodPicker = nil
		return m, nil

	case session.TickMsg:
		return m, m.session.HandleTick()
	case session.BreakSuggestionMsg:
		m.conversation.AddSystemMessage(
			"You've been here for " + session.FormatDuration(msg.Engaged) +
				". A short pause, some water, a stretch - whenever it feels right.")
		m.updateViewport()
		return m, nil
	case session.AutoSaveMsg:
		return m, m.saveCmd("")

	case ExerciseFinishedMsg:
		return m.handleExerciseFinished(msg)

	case noticeExpiredMsg:
		if msg.seq == m.noticeSeq {
			m.notice = ""
		}
		return m, nil
	}

	// Command effects (SaveCheckInMsg etc.) are dispatched separately so
	// this switch stays readable.
	if mm, cmd, handled := m.handleCommandMsg(msg); handled {
		return mm, cmd
	}

	// Everything else feeds the spinner.
	if cmd := m.spin.Update(msg); cmd != nil {
		return m, cmd
	}
	return m, nil
}

// =============================================================================
// RESIZE
// =============================================================================

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width, m.height = msg.Width, msg.Height
	m.theme.SetSize(msg.Width, msg.Height)

	const chromeLines = 4 // header, status bar, input, spacing
	m.viewport.Width = msg.Width
	m.viewport.Height = msg.Height - chromeLines
	if m.viewport.Height < 3 {
		m.viewport.Height = 3
	}
	m.input.Width = msg.Width - 4

	m.header.SetWidth(msg.Width)
	m.status.SetWidth(msg.Width)
	m.renderer.SetWidth(msg.Width)
	m.welcome.SetWidth(msg.Width)

	m.ready = true
	m.updateViewport()
	return m, nil
}

// =============================================================================
// KEYS
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m.quit()
	}

	// The mood picker owns the keyboard while open.
	if m.moodPicker != nil {
		cmd := m.moodPicker.Update(msg)
		return m, cmd
	}

	switch {

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.updateViewport()
		return m, nil

	case key.Matches(msg, m.keys.Clear):
		m.notice = ""
		m.showHelp = false
		m.updateViewport()
		return m, nil

	case key.Matches(msg, m.keys.Cancel):
		if m.streaming {
			return m.cancelStreaming()
		}
		m.input.Reset()
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		return m.submitInput()

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.ViewUp()
		return m, nil
	case key.Matches(msg, m.keys.PageDown):
		m.viewport.ViewDown()
		return m, nil
	case key.Matches(msg, m.keys.Up):
		m.viewport.LineUp(1)
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.viewport.LineDown(1)
		return m, nil
	}

	// Reveal navigation works only while a reply is paced and the input
	// line is empty, so typing is never hijacked.
	if m.revealActive() && m.input.Value() == "" {
		switch {
		case key.Matches(msg, m.keys.RevealToggle):
			m.session.RecordActivity()
			if m.revealSnap.IsPaused {
				m.reveal.Resume()
			} else {
				m.reveal.Pause()
			}
			return m.syncReveal()
		case key.Matches(msg, m.keys.RevealBack):
			m.session.RecordActivity()
			m.reveal.Retreat()
			return m.syncReveal()
		case key.Matches(msg, m.keys.RevealForward):
			m.session.RecordActivity()
			m.reveal.Advance()
			return m.syncReveal()
		case key.Matches(msg, m.keys.RevealEnd):
			m.session.RecordActivity()
			m.reveal.JumpTo(m.revealSnap.TotalChunks - 1)
			return m.syncReveal()
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// revealActive reports whether reveal keys should be intercepted.
func (m Model) revealActive() bool {
	return m.revealSnap.TotalChunks > 1 && !m.revealSnap.IsComplete
}

// syncReveal pulls a fresh snapshot after a manual navigation command,
// so the UI never waits for the notify goroutine to catch up.
func (m Model) syncReveal() (tea.Model, tea.Cmd) {
	return m.handleRevealSnapshot(RevealSnapshotMsg{Snapshot: m.reveal.Snapshot()})
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.cancelStream != nil {
		m.cancelStream()
	}
	m.reveal.Close()
	if m.session.IsDirty() && m.stores.CheckIns != nil && !m.conversation.IsEmpty() {
		// Best effort; losing a check-in on exit is worse than a slow quit.
		_, _ = m.stores.CheckIns.Save(m.conversation)
	}
	return m, tea.Quit
}

// =============================================================================
// INPUT SUBMISSION
// =============================================================================

func (m Model) submitInput() (tea.Model, tea.Cmd) {
	content := strings.TrimSpace(m.input.Value())
	if content == "" {
		return m, nil
	}

	if commands.IsCommand(content) {
		m.input.Reset()
		result := m.parser.Parse(content)
		if result.Error != nil {
			return m.withNotice(result.Error.Error())
		}
		return m, result.Command.Handler(result.Args)
	}

	if m.streaming {
		return m.withNotice("still listening - wait for the reply to finish")
	}

	m.input.Reset()
	m.session.RecordActivity()
	m.session.MarkDirty()

	userMsg := m.conversation.AddUserMessage(content)
	if m.pendingMood != "" {
		userMsg.MoodTag = m.pendingMood
		m.pendingMood = ""
	}

	// Crisis guard runs before anything leaves the machine.
	if hit, response := companion.Screen(content); hit {
		m.crisis = true
		reply := m.conversation.AddCompanionMessage()
		reply.Content = response
		reply.FinalizeStream(nil)
		m.supplyReveal(reply)
		m.updateViewport()
		m.viewport.GotoBottom()
		return m, nil
	}

	reply := m.conversation.AddCompanionMessage()
	m.updateViewport()
	m.viewport.GotoBottom()

	ctx, cancel := context.WithCancel(context.Background())
	m.cancelStream = cancel
	m.streaming = true
	m.streamingID = reply.ID

	return m, tea.Batch(
		m.spin.Start(),
		m.startStream(ctx, reply.ID),
		streamTickCmd(),
	)
}

// startStream runs the companion request on its own goroutine. Tokens go
// through the streaming buffer; lifecycle events go through the relay.
func (m Model) startStream(ctx context.Context, messageID string) tea.Cmd {
	client := m.client
	modelName := m.modelName
	wire := m.wireMessages()
	buf := m.streamBuf
	r := m.relay

	return func() tea.Msg {
		go func() {
			err := client.ChatStream(ctx, modelName, wire, func(chunk companion.StreamChunk) {
				if chunk.Done {
					r.Send(StreamCompleteMsg{
						MessageID: messageID,
						Stats:     toStatistics(chunk.Stats),
					})
					return
				}
				buf.Write(chunk.Content)
			})
			if err != nil {
				r.Send(StreamErrorMsg{MessageID: messageID, Err: err})
			}
		}()
		return StreamStartMsg{MessageID: messageID, StartTime: time.Now()}
	}
}

// wireMessages flattens the conversation for the chat API. UI notices
// stay local; the persona rides along as the system message.
func (m Model) wireMessages() []companion.Message {
	out := make([]companion.Message, 0, len(m.conversation.Messages)+1)
	if m.conversation.Persona != "" {
		out = append(out, companion.NewSystemMessage(m.conversation.Persona))
	}
	for _, msg := range m.conversation.Messages {
		if msg.Role == model.RoleSystem || msg.Content == "" {
			continue
		}
		out = append(out, companion.Message{
			Role:    msg.Role.WireRole(),
			Content: msg.Content,
		})
	}
	return out
}

func toStatistics(s *companion.StreamStats) *model.Statistics {
	if s == nil {
		return nil
	}
	return &model.Statistics{
		TokenCount:    s.TokenCount,
		TTFT:          s.TTFT,
		TotalDuration: s.TotalDuration,
		TokensPerSec:  s.TokensPerSec,
	}
}

// =============================================================================
// STREAMING HANDLERS
// =============================================================================

func (m Model) handleStreamStart(msg StreamStartMsg) (tea.Model, tea.Cmd) {
	if msg.MessageID != m.streamingID {
		return m, nil
	}
	m.spin.SetMessage("listening")
	return m, nil
}

func (m Model) handleStreamTick() (tea.Model, tea.Cmd) {
	if !m.streaming {
		return m, nil
	}
	if content, ok := m.streamBuf.Flush(); ok {
		m.conversation.AppendToLast(content)
		m.updateViewport()
		m.viewport.GotoBottom()
	}
	return m, streamTickCmd()
}

func (m Model) handleStreamComplete(msg StreamCompleteMsg) (tea.Model, tea.Cmd) {
	if msg.MessageID != m.streamingID {
		return m, nil
	}
	if content, ok := m.streamBuf.ForceFlush(); ok {
		m.conversation.AppendToLast(content)
	}
	m.conversation.FinalizeLast(msg.Stats)
	m.streaming = false
	m.streamingID = ""
	m.cancelStream = nil
	m.spin.Stop()
	m.session.MarkDirty()

	if reply := m.conversation.LastCompanionMessage(); reply != nil {
		m.supplyReveal(reply)
	}
	m.updateViewport()
	m.viewport.GotoBottom()
	m.setStatus()
	return m, nil
}

func (m Model) handleStreamError(msg StreamErrorMsg) (tea.Model, tea.Cmd) {
	if msg.MessageID != m.streamingID {
		return m, nil
	}
	m.streamBuf.Reset()
	m.streaming = false
	m.streamingID = ""
	m.cancelStream = nil
	m.spin.Stop()

	m.conversation.AddSystemMessage("The companion didn't answer: " + msg.Err.Error())
	m.updateViewport()
	m.viewport.GotoBottom()
	return m, nil
}

func (m Model) cancelStreaming() (tea.Model, tea.Cmd) {
	if m.cancelStream != nil {
		m.cancelStream()
		m.cancelStream = nil
	}
	m.streamBuf.Reset()
	m.streaming = false
	m.streamingID = ""
	m.spin.Stop()
	return m.withNotice("reply cancelled")
}

// =============================================================================
// REVEAL HANDLERS
// =============================================================================

// supplyReveal splits a finished reply and hands it to the controller.
// The splitter output is cached on the message, so re-supplying the same
// reply (a /replay render pass, a resize) is content-identical and the
// controller holds its position.
func (m *Model) supplyReveal(reply *model.Message) {
	if len(reply.RevealChunks) == 0 {
		reply.RevealChunks = m.split.Split(reply.Content)
	}
	m.ensureChatPacing()
	m.reveal.Supply(reply.RevealChunks)
	m.revealMsg = reply
	m.revealSnap = m.reveal.Snapshot()
	m.setStatus()
}

// handleConfigReloaded applies a config the file watcher reloaded. Pacing
// changes take effect from the next reply; a reveal already in flight
// keeps its clock, and a running exercise keeps its own schedule.
func (m Model) handleConfigReloaded(msg ConfigReloadedMsg) (tea.Model, tea.Cmd) {
	if msg.Config == nil {
		return m, nil
	}
	prevTheme := m.cfg.UI.Theme
	m.cfg = msg.Config
	m.renderer.SetShowStats(m.cfg.UI.ShowStats)

	if m.activeExercise == nil && (m.revealSnap.TotalChunks <= 1 || m.revealSnap.IsComplete) {
		m.ensureChatPacing()
		m.revealSnap = m.reveal.Snapshot()
	}
	if m.cfg.UI.Theme != prevTheme {
		return m.switchTheme(m.cfg.UI.Theme)
	}
	return m.withNotice("config reloaded")
}

// ensureChatPacing restores the conversational pacing preset after an
// exercise ran the controller with its own timings.
func (m *Model) ensureChatPacing() {
	want := m.cfg.Reveal.FloatingOptions()
	if m.reveal.Options() == want {
		m.reveal.SetStepDurations(nil)
		return
	}
	m.reveal.Close()
	m.reveal = m.newController(want)
}

func (m Model) handleRevealSnapshot(msg RevealSnapshotMsg) (tea.Model, tea.Cmd) {
	m.revealSnap = msg.Snapshot
	m.setStatus()
	m.updateViewport()
	m.viewport.GotoBottom()

	if m.activeExercise != nil && msg.Snapshot.IsComplete {
		ex := m.activeExercise
		started := m.exerciseStart
		m.activeExercise = nil
		return m, func() tea.Msg {
			return ExerciseFinishedMsg{ExerciseID: ex.ID, StartedAt: started}
		}
	}
	return m, nil
}

// =============================================================================
// STATUS LINE
// =============================================================================

func (m *Model) setStatus() {
	snap := m.revealSnap
	m.status.Dirty = m.session.IsDirty()
	m.status.Revealing = snap.TotalChunks > 1 && !snap.IsComplete
	m.status.Paused = snap.IsPaused
	if snap.TotalChunks > 0 {
		m.status.Position = formatPosition(snap.CurrentIndex, snap.TotalChunks)
	} else {
		m.status.Position = ""
	}
}

// withNotice shows a transient status message for a few seconds.
func (m Model) withNotice(text string) (tea.Model, tea.Cmd) {
	m.notice = text
	m.noticeSeq++
	seq := m.noticeSeq
	return m, tea.Tick(4*time.Second, func(time.Time) tea.Msg {
		return noticeExpiredMsg{seq: seq}
	})
}
