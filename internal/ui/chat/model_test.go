// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
package chat

import (
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/nafsy-app/nafsy-tui/internal/commands"
	"github.com/nafsy-app/nafsy-tui/internal/companion"
	"github.com/nafsy-app/nafsy-tui/internal/config"
	"github.com/nafsy-app/nafsy-tui/internal/model"
	"github.com/nafsy-app/nafsy-tui/internal/profile"
	"github.com/nafsy-app/nafsy-tui/internal/ui/styles"
)

func testModel(t *testing.T) Model {
	t.Helper()
	cfg := config.Default()
	prof, err := profile.New("Ana", profile.ToneGentle, 3)
	if err != nil {
		t.Fatalf("profile.New: %v", err)
	}
	m := New(cfg, prof, companion.NewClient(), Stores{}, styles.NewThemeForMode(true))
	t.Cleanup(func() { m.reveal.Close() })
	return m
}

// =============================================================================
// WIRE MESSAGES
// =============================================================================

func TestWireMessagesMapsRolesAndSkipsNotices(t *testing.T) {
	m := testModel(t)
	m.conversation.AddUserMessage("hello")
	reply := m.conversation.AddCompanionMessage()
	reply.Content = "hi there"
	m.conversation.AddSystemMessage("saved check-in")

	wire := m.wireMessages()

	if len(wire) != 3 {
		t.Fatalf("expected persona + 2 messages, got %d", len(wire))
	}
	if wire[0].Role != "system" || !strings.Contains(wire[0].Content, "Nafsy") {
		t.Errorf("first wire message should carry the persona, got %+v", wire[0])
	}
	if wire[1].Role != "user" || wire[1].Content != "hello" {
		t.Errorf("unexpected user message: %+v", wire[1])
	}
	if wire[2].Role != "assistant" || wire[2].Content != "hi there" {
		t.Errorf("companion should go out as assistant, got %+v", wire[2])
	}
}

func TestWireMessagesSkipsEmptyContent(t *testing.T) {
	m := testModel(t)
	m.conversation.AddUserMessage("hey")
	m.conversation.AddCompanionMessage() // still empty, mid-stream

	wire := m.wireMessages()
	for _, msg := range wire {
		if msg.Content == "" {
			t.Errorf("empty message leaked onto the wire: %+v", msg)
		}
	}
}

// =============================================================================
// REVEAL INTEGRATION
// =============================================================================

const longReply = "First thought, long enough to stand on its own as a paragraph.\n\n" +
	"Second thought, also a full paragraph with its own point to make.\n\n" +
	"Third thought closes the reply gently."

func TestSupplyRevealCachesChunks(t *testing.T) {
	m := testModel(t)
	reply := m.conversation.AddCompanionMessage()
	reply.Content = longReply
	reply.FinalizeStream(nil)

	m.supplyReveal(reply)

	if len(reply.RevealChunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(reply.RevealChunks))
	}
	if !m.revealSnap.IsDisplaying {
		t.Error("controller should be displaying after supply")
	}
	if m.revealSnap.CurrentIndex != 0 {
		t.Errorf("reveal should start at chunk 0, got %d", m.revealSnap.CurrentIndex)
	}
}

func TestSupplyRevealIsIdempotentForSameContent(t *testing.T) {
	m := testModel(t)
	reply := m.conversation.AddCompanionMessage()
	reply.Content = longReply
	reply.FinalizeStream(nil)

	m.supplyReveal(reply)
	m.reveal.Advance()

	// A re-render supplies the cached chunks again; position holds.
	m.supplyReveal(reply)
	if m.revealSnap.CurrentIndex != 1 {
		t.Errorf("re-supplying identical content should keep position 1, got %d",
			m.revealSnap.CurrentIndex)
	}
}

func TestReplayRevealRestartsFromFirstChunk(t *testing.T) {
	m := testModel(t)
	reply := m.conversation.AddCompanionMessage()
	reply.Content = longReply
	reply.FinalizeStream(nil)
	m.supplyReveal(reply)
	m.reveal.JumpTo(len(reply.RevealChunks) - 1)

	mm, _ := m.replayReveal()
	m = mm.(Model)

	if m.revealSnap.CurrentIndex != 0 {
		t.Errorf("replay should restart at chunk 0, got %d", m.revealSnap.CurrentIndex)
	}
	if !m.revealSnap.IsDisplaying {
		t.Error("replay should re-enter the displaying state")
	}
}

func TestPauseCommandOnlyWhileRevealing(t *testing.T) {
	m := testModel(t)

	mm, _, handled := m.handleCommandMsg(commands.PauseRevealMsg{})
	if !handled {
		t.Fatal("PauseRevealMsg should be handled")
	}
	m = mm.(Model)
	if m.notice == "" {
		t.Error("pausing with nothing revealed should explain itself")
	}

	reply := m.conversation.AddCompanionMessage()
	reply.Content = longReply
	reply.FinalizeStream(nil)
	m.supplyReveal(reply)

	mm, _, _ = m.handleCommandMsg(commands.PauseRevealMsg{})
	m = mm.(Model)
	if !m.revealSnap.IsPaused {
		t.Error("pause should suspend auto-advance while revealing")
	}

	mm, _, _ = m.handleCommandMsg(commands.ResumeRevealMsg{})
	m = mm.(Model)
	if m.revealSnap.IsPaused {
		t.Error("resume should clear the paused state")
	}
}

// =============================================================================
// INPUT AND COMMANDS
// =============================================================================

func TestSubmitUnknownCommandShowsNotice(t *testing.T) {
	m := testModel(t)
	m.input.SetValue("/definitely-not-a-command")

	mm, _ := m.submitInput()
	m = mm.(Model)

	if !strings.Contains(m.notice, "unknown command") {
		t.Errorf("expected unknown-command notice, got %q", m.notice)
	}
}

func TestSubmitEmptyInputIsNoop(t *testing.T) {
	m := testModel(t)
	m.input.SetValue("   ")

	mm, cmd := m.submitInput()
	m = mm.(Model)

	if cmd != nil {
		t.Error("blank input should not produce a command")
	}
	if !m.conversation.IsEmpty() {
		t.Error("blank input should not add messages")
	}
}

func TestCrisisGuardInterceptsBeforeStreaming(t *testing.T) {
	m := testModel(t)
	m.input.SetValue("lately I think about suicide a lot")

	mm, _ := m.submitInput()
	m = mm.(Model)

	if !m.crisis {
		t.Fatal("crisis banner should be raised")
	}
	if m.streaming {
		t.Error("guarded input must never reach the backend")
	}
	reply := m.conversation.LastCompanionMessage()
	if reply == nil || reply.Content != companion.GuardResponse {
		t.Error("guard response should be delivered as the companion reply")
	}
	if len(reply.RevealChunks) == 0 {
		t.Error("guard response should be paced like any reply")
	}
}

func TestOpenMoodPickerOverlay(t *testing.T) {
	m := testModel(t)

	mm, _, handled := m.handleCommandMsg(commands.OpenMoodPickerMsg{})
	if !handled {
		t.Fatal("OpenMoodPickerMsg should be handled")
	}
	m = mm.(Model)
	if m.moodPicker == nil {
		t.Error("mood picker overlay should open")
	}
}

func TestStartExerciseSuppliesStepChunks(t *testing.T) {
	m := testModel(t)

	mm, _ := m.startExercise("breathe")
	m = mm.(Model)

	if m.activeExercise == nil || m.activeExercise.ID != "breathe" {
		t.Fatal("exercise should be active")
	}
	if m.revealMsg == nil || len(m.revealMsg.RevealChunks) == 0 {
		t.Fatal("exercise steps should feed the reveal controller")
	}
	if got := m.revealSnap.TotalChunks; got != len(m.revealMsg.RevealChunks) {
		t.Errorf("controller holds %d chunks, message has %d", got, len(m.revealMsg.RevealChunks))
	}
	if !strings.HasPrefix(m.revealSnap.CurrentChunk, "[1/") {
		t.Errorf("first step should carry its progress prefix, got %q", m.revealSnap.CurrentChunk)
	}
}

func TestStartExerciseUnknownID(t *testing.T) {
	m := testModel(t)

	mm, _ := m.startExercise("levitate")
	m = mm.(Model)

	if m.activeExercise != nil {
		t.Error("unknown exercise must not start")
	}
	if m.notice == "" {
		t.Error("unknown exercise should surface an error notice")
	}
}

func TestStreamErrorAddsNotice(t *testing.T) {
	m := testModel(t)
	m.input.SetValue("")
	m.streaming = true
	m.streamingID = "msg-1"
	m.conversation.AddUserMessage("hi")
	m.conversation.AddCompanionMessage()

	mm, _ := m.handleStreamError(StreamErrorMsg{MessageID: "msg-1", Err: errFake})
	m = mm.(Model)

	if m.streaming {
		t.Error("stream error should end the streaming state")
	}
	last := m.conversation.LastMessage()
	if last == nil || last.Role != model.RoleSystem {
		t.Error("stream error should add a system notice")
	}
}

func TestStreamCompleteIgnoresStaleMessageID(t *testing.T) {
	m := testModel(t)
	m.streaming = true
	m.streamingID = "current"

	mm, _ := m.handleStreamComplete(StreamCompleteMsg{MessageID: "stale"})
	m = mm.(Model)

	if !m.streaming {
		t.Error("a stale completion must not end the active stream")
	}
}

func TestFormatPosition(t *testing.T) {
	if got := formatPosition(0, 5); got != "1/5" {
		t.Errorf("expected 1/5, got %s", got)
	}
	if got := formatPosition(4, 5); got != "5/5" {
		t.Errorf("expected 5/5, got %s", got)
	}
}

var errFake = &companion.ClientError{Message: "backend offline"}

// =============================================================================
// PACING PRESET TESTS
// =============================================================================

func TestChatControllerUsesFloatingPreset(t *testing.T) {
	m := testModel(t)

	opts := m.reveal.Options()
	if want := m.cfg.Reveal.FloatingOptions(); opts != want {
		t.Fatalf("chat controller options = %+v, want floating preset %+v", opts, want)
	}
	if opts.ChunkDuration != 10*time.Second {
		t.Errorf("floating chunk duration = %v, want 10s", opts.ChunkDuration)
	}
	if !opts.PauseOnInteraction {
		t.Error("floating display should pause on manual navigation")
	}
}

func TestManualNavigationPausesFloatingReveal(t *testing.T) {
	m := testModel(t)
	reply := m.conversation.AddCompanionMessage()
	reply.Content = longReply
	reply.FinalizeStream(nil)
	m.supplyReveal(reply)

	m.reveal.Advance()

	if snap := m.reveal.Snapshot(); !snap.IsPaused {
		t.Error("manual advance should pause auto-advance in the floating display")
	}
}

func TestStartExerciseWiresPerStepPacing(t *testing.T) {
	m := testModel(t)

	mm, _ := m.startExercise("ground")
	m = mm.(Model)

	if m.activeExercise == nil {
		t.Fatal("exercise should be active")
	}
	got := m.reveal.PacingDurations()
	want := m.activeExercise.StepDurations()
	if !slices.Equal(got, want) {
		t.Fatalf("controller pacing = %v, want per-step schedule %v", got, want)
	}

	// The next chat reply restores uniform floating pacing.
	m.activeExercise = nil
	reply := m.conversation.AddCompanionMessage()
	reply.Content = longReply
	reply.FinalizeStream(nil)
	m.supplyReveal(reply)

	if ds := m.reveal.PacingDurations(); ds != nil {
		t.Errorf("chat reply still paced with exercise schedule %v", ds)
	}
}

// =============================================================================
// CONFIG RELOAD TESTS
// =============================================================================

func TestConfigReloadedAdjustsPacing(t *testing.T) {
	m := testModel(t)

	next := config.Default()
	next.Reveal.FloatingChunkDurationMs = 4000
	next.UI.ShowStats = true

	mm, _ := m.Update(ConfigReloadedMsg{Config: next})
	m = mm.(Model)

	if m.cfg != next {
		t.Fatal("reloaded config should replace the active one")
	}
	if d := m.reveal.Options().ChunkDuration; d != 4*time.Second {
		t.Errorf("controller duration after reload = %v, want 4s", d)
	}
}

func TestConfigReloadedKeepsInFlightRevealClock(t *testing.T) {
	m := testModel(t)
	reply := m.conversation.AddCompanionMessage()
	reply.Content = longReply
	reply.FinalizeStream(nil)
	m.supplyReveal(reply)
	before := m.reveal

	next := config.Default()
	next.Reveal.FloatingChunkDurationMs = 4000

	mm, _ := m.Update(ConfigReloadedMsg{Config: next})
	m = mm.(Model)

	if m.reveal != before {
		t.Error("reload must not rebuild the controller mid-reveal")
	}
}
