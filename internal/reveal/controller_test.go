// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package reveal implements the chunked sequential reveal controller.
package reveal

import (
	"sync"
	"testing"
	"time"
)

// =============================================================================
// FAKE SCHEDULER
// =============================================================================

// fakeTimer is one armed single-shot timer in the fake scheduler.
type fakeTimer struct {
	duration time.Duration
	fn       func()
	stopped  bool
	fired    bool
}

// fakeScheduler records every timer the controller arms so tests can drive
// time by hand and verify the single-timer invariant.
type fakeScheduler struct {
	mu     sync.Mutex
	timers []*fakeTimer
	arms   int // total timers ever armed
}

func (s *fakeScheduler) factory(d time.Duration, fn func()) stopFunc {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &fakeTimer{duration: d, fn: fn}
	s.timers = append(s.timers, t)
	s.arms++
	return func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		if t.fired || t.stopped {
			return false
		}
		t.stopped = true
		return true
	}
}

// pending returns the number of timers that are armed but neither stopped
// nor fired.
func (s *fakeScheduler) pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// fire expires the oldest pending timer, running its callback. Returns
// false if nothing was pending.
func (s *fakeScheduler) fire() bool {
	s.mu.Lock()
	var target *fakeTimer
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			target = t
			break
		}
	}
	if target == nil {
		s.mu.Unlock()
		return false
	}
	target.fired = true
	fn := target.fn
	s.mu.Unlock()

	fn()
	return true
}

// lastDuration returns the duration of the most recently armed timer.
func (s *fakeScheduler) lastDuration() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.timers) == 0 {
		return 0
	}
	return s.timers[len(s.timers)-1].duration
}

// newTestController wires a controller to a fake scheduler.
func newTestController(opts Options) (*Controller, *fakeScheduler) {
	sched := &fakeScheduler{}
	c := New(opts)
	c.newTimer = sched.factory
	return c, sched
}

// =============================================================================
// OPTIONS TESTS
// =============================================================================

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	if opts.ChunkDuration != 8*time.Second {
		t.Errorf("ChunkDuration = %v, want 8s", opts.ChunkDuration)
	}
	if !opts.AutoAdvance {
		t.Error("AutoAdvance should default to true")
	}
	if opts.PauseOnInteraction {
		t.Error("PauseOnInteraction should default to false")
	}
}

func TestFloatingChatOptions(t *testing.T) {
	opts := FloatingChatOptions()

	if opts.ChunkDuration != 10*time.Second {
		t.Errorf("ChunkDuration = %v, want 10s", opts.ChunkDuration)
	}
	if !opts.AutoAdvance {
		t.Error("AutoAdvance should be true in the floating preset")
	}
	if !opts.PauseOnInteraction {
		t.Error("PauseOnInteraction should be true in the floating preset")
	}
}

func TestNew_NormalizesDuration(t *testing.T) {
	c := New(Options{AutoAdvance: true})
	if c.Options().ChunkDuration != DefaultChunkDuration {
		t.Errorf("ChunkDuration = %v, want %v", c.Options().ChunkDuration, DefaultChunkDuration)
	}
}

// =============================================================================
// SUPPLY TESTS
// =============================================================================

func TestSupply_StartsPacing(t *testing.T) {
	c, sched := newTestController(DefaultOptions())
	c.Supply([]string{"A", "B", "C"})

	s := c.Snapshot()
	if s.CurrentIndex != 0 || s.CurrentChunk != "A" {
		t.Errorf("Snapshot = %+v, want index 0 chunk A", s)
	}
	if !s.IsDisplaying || s.IsPaused || s.IsComplete {
		t.Errorf("Snapshot flags = %+v, want displaying, not paused, not complete", s)
	}
	if s.TotalChunks != 3 {
		t.Errorf("TotalChunks = %d, want 3", s.TotalChunks)
	}
	if sched.pending() != 1 {
		t.Errorf("pending timers = %d, want 1", sched.pending())
	}
}

func TestSupply_IdempotentResupply(t *testing.T) {
	c, sched := newTestController(DefaultOptions())
	c.Supply([]string{"A", "B", "C"})
	sched.fire() // index 1

	armsBefore := sched.arms
	// A freshly constructed but content-identical slice must be a no-op.
	c.Supply([]string{"A", "B", "C"})

	s := c.Snapshot()
	if s.CurrentIndex != 1 {
		t.Errorf("CurrentIndex = %d after identical re-supply, want 1", s.CurrentIndex)
	}
	if sched.arms != armsBefore {
		t.Errorf("timer restarted on identical re-supply: arms %d -> %d", armsBefore, sched.arms)
	}
}

func TestSupply_IdempotentResupplyEmitsNothing(t *testing.T) {
	c, _ := newTestController(DefaultOptions())
	var emits int
	c.SetNotify(func(Snapshot) { emits++ })

	c.Supply([]string{"A", "B"})
	if emits != 1 {
		t.Fatalf("emits after first supply = %d, want 1", emits)
	}
	c.Supply([]string{"A", "B"})
	if emits != 1 {
		t.Errorf("identical re-supply emitted a state change (emits = %d)", emits)
	}
	c.Supply(nil)
	c.Supply(nil)
	if emits != 2 {
		t.Errorf("empty-to-empty supply should not emit (emits = %d, want 2)", emits)
	}
}

func TestSupply_ResetOnChange(t *testing.T) {
	tests := []struct {
		name string
		next []string
	}{
		{"element changed", []string{"A", "B", "X"}},
		{"shorter", []string{"A", "B"}},
		{"longer", []string{"A", "B", "C", "D"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, sched := newTestController(DefaultOptions())
			c.Supply([]string{"A", "B", "C"})
			sched.fire() // index 1
			c.Pause()

			c.Supply(tt.next)
			s := c.Snapshot()
			if s.CurrentIndex != 0 {
				t.Errorf("CurrentIndex = %d, want 0", s.CurrentIndex)
			}
			if !s.IsDisplaying {
				t.Error("IsDisplaying should reset to true")
			}
			if s.IsPaused {
				t.Error("IsPaused should reset to false")
			}
			if sched.pending() != 1 {
				t.Errorf("pending timers = %d, want 1", sched.pending())
			}
		})
	}
}

func TestSupply_EmptyClears(t *testing.T) {
	c, sched := newTestController(DefaultOptions())
	c.Supply([]string{"A", "B", "C"})
	c.Supply(nil)

	s := c.Snapshot()
	if s.CurrentIndex != 0 || s.TotalChunks != 0 || s.CurrentChunk != "" {
		t.Errorf("Snapshot = %+v, want cleared state", s)
	}
	if s.IsDisplaying {
		t.Error("IsDisplaying should be false for an empty sequence")
	}
	if sched.pending() != 0 {
		t.Errorf("pending timers = %d, want 0", sched.pending())
	}
}

// =============================================================================
// AUTO-ADVANCE TESTS
// =============================================================================

func TestAutoAdvance_Timeline(t *testing.T) {
	// chunks A B C, duration 1s: t=0 index 0; t=1s index 1; t=2s index 2,
	// pacing over, complete, and no further timer is armed.
	c, sched := newTestController(Options{ChunkDuration: time.Second, AutoAdvance: true})
	c.Supply([]string{"A", "B", "C"})

	if !sched.fire() {
		t.Fatal("no timer armed at t=0")
	}
	if s := c.Snapshot(); s.CurrentIndex != 1 || !s.IsDisplaying {
		t.Errorf("after first fire: %+v, want index 1 displaying", s)
	}

	if !sched.fire() {
		t.Fatal("no timer armed at index 1")
	}
	s := c.Snapshot()
	if s.CurrentIndex != 2 {
		t.Errorf("CurrentIndex = %d, want 2", s.CurrentIndex)
	}
	if s.IsDisplaying {
		t.Error("IsDisplaying should be false on entering the last chunk")
	}
	if !s.IsComplete {
		t.Error("IsComplete should be true")
	}
	if sched.pending() != 0 {
		t.Errorf("pending timers = %d after completion, want 0", sched.pending())
	}
	if sched.fire() {
		t.Error("a further timer fired after completion")
	}
}

func TestAutoAdvance_DisabledNeverArms(t *testing.T) {
	c, sched := newTestController(Options{ChunkDuration: time.Second, AutoAdvance: false})
	c.Supply([]string{"A", "B", "C"})

	if sched.pending() != 0 {
		t.Errorf("pending timers = %d with AutoAdvance off, want 0", sched.pending())
	}
	c.Advance()
	if s := c.Snapshot(); s.CurrentIndex != 1 {
		t.Errorf("manual Advance moved to %d, want 1", s.CurrentIndex)
	}
	if sched.pending() != 0 {
		t.Error("manual navigation armed a timer with AutoAdvance off")
	}
}

func TestAutoAdvance_SingleChunkNeverArms(t *testing.T) {
	c, sched := newTestController(DefaultOptions())
	c.Supply([]string{"only"})

	if sched.pending() != 0 {
		t.Errorf("pending timers = %d for single chunk, want 0", sched.pending())
	}
	// A single chunk keeps displaying until a manual command intervenes.
	if s := c.Snapshot(); !s.IsDisplaying || s.IsComplete {
		t.Errorf("Snapshot = %+v, want displaying and not complete", s)
	}

	c.Advance()
	s := c.Snapshot()
	if s.IsDisplaying {
		t.Error("IsDisplaying should be false after manual advance past the only chunk")
	}
	if !s.IsComplete {
		t.Error("IsComplete should be true after manual advance past the only chunk")
	}
}

// =============================================================================
// MANUAL NAVIGATION TESTS
// =============================================================================

func TestAdvance_NoOverrun(t *testing.T) {
	const n = 4
	c, _ := newTestController(Options{ChunkDuration: time.Second, AutoAdvance: false})
	c.Supply([]string{"a", "b", "c", "d"})

	endings := 0
	wasDisplaying := true
	for i := 0; i < n; i++ {
		c.Advance()
		s := c.Snapshot()
		if s.CurrentIndex < 0 || s.CurrentIndex > n-1 {
			t.Fatalf("CurrentIndex = %d out of [0,%d]", s.CurrentIndex, n-1)
		}
		if wasDisplaying && !s.IsDisplaying {
			endings++
		}
		wasDisplaying = s.IsDisplaying
	}

	s := c.Snapshot()
	if s.CurrentIndex != n-1 {
		t.Errorf("CurrentIndex = %d after %d advances, want %d", s.CurrentIndex, n, n-1)
	}
	if endings != 1 {
		t.Errorf("IsDisplaying dropped %d times, want exactly 1", endings)
	}
}

func TestRetreat_ClampsAtZero(t *testing.T) {
	c, _ := newTestController(DefaultOptions())
	c.Supply([]string{"A", "B"})

	c.Retreat()
	c.Retreat()
	if s := c.Snapshot(); s.CurrentIndex != 0 {
		t.Errorf("CurrentIndex = %d, want clamp at 0", s.CurrentIndex)
	}
}

func TestJumpTo_Clamps(t *testing.T) {
	tests := []struct {
		name      string
		to        int
		wantIndex int
	}{
		{"negative", -5, 0},
		{"in range", 1, 1},
		{"past end", 99, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestController(DefaultOptions())
			c.Supply([]string{"A", "B", "C"})

			c.JumpTo(tt.to)
			if s := c.Snapshot(); s.CurrentIndex != tt.wantIndex {
				t.Errorf("CurrentIndex = %d, want %d", s.CurrentIndex, tt.wantIndex)
			}
		})
	}
}

func TestJumpTo_LastEndsPacing(t *testing.T) {
	c, sched := newTestController(DefaultOptions())
	c.Supply([]string{"A", "B", "C"})

	c.JumpTo(2)
	s := c.Snapshot()
	if s.IsDisplaying {
		t.Error("IsDisplaying should be false after jumping to the last chunk")
	}
	if !s.IsComplete {
		t.Error("IsComplete should be true after jumping to the last chunk")
	}
	if sched.pending() != 0 {
		t.Errorf("pending timers = %d, want 0", sched.pending())
	}
}

func TestJumpTo_EmptySequenceIsNoop(t *testing.T) {
	c, _ := newTestController(DefaultOptions())
	c.JumpTo(3)
	if s := c.Snapshot(); s.CurrentIndex != 0 || s.TotalChunks != 0 {
		t.Errorf("Snapshot = %+v, want untouched empty state", s)
	}
}

// =============================================================================
// PAUSE / RESUME TESTS
// =============================================================================

func TestPause_CancelsTimer(t *testing.T) {
	c, sched := newTestController(Options{ChunkDuration: time.Second, AutoAdvance: true})
	c.Supply([]string{"A", "B", "C"})

	c.Pause()
	s := c.Snapshot()
	if !s.IsPaused {
		t.Error("IsPaused should be true")
	}
	if s.CurrentIndex != 0 {
		t.Errorf("Pause moved the index to %d", s.CurrentIndex)
	}
	if sched.pending() != 0 {
		t.Errorf("pending timers = %d while paused, want 0", sched.pending())
	}
	// Nothing left to fire: waiting past the chunk duration cannot advance.
	if sched.fire() {
		t.Error("a timer fired while paused")
	}
}

func TestResume_RearmsFullDuration(t *testing.T) {
	c, sched := newTestController(Options{ChunkDuration: 1500 * time.Millisecond, AutoAdvance: true})
	c.Supply([]string{"A", "B", "C"})
	c.Pause()

	c.Resume()
	s := c.Snapshot()
	if s.IsPaused {
		t.Error("IsPaused should be false after Resume")
	}
	if sched.pending() != 1 {
		t.Fatalf("pending timers = %d after Resume, want 1", sched.pending())
	}
	// A partially elapsed interval is never resumed: the re-armed timer
	// carries the full chunk duration.
	if d := sched.lastDuration(); d != 1500*time.Millisecond {
		t.Errorf("re-armed duration = %v, want full 1500ms", d)
	}
}

func TestResume_AfterCompletionDoesNotArm(t *testing.T) {
	c, sched := newTestController(DefaultOptions())
	c.Supply([]string{"A", "B"})
	c.JumpTo(1) // completes pacing

	c.Resume()
	if sched.pending() != 0 {
		t.Errorf("pending timers = %d after Resume on a completed sequence, want 0", sched.pending())
	}
}

// =============================================================================
// PAUSE-ON-INTERACTION TESTS
// =============================================================================

func TestPauseOnInteraction_ManualAdvancePausesClock(t *testing.T) {
	c, sched := newTestController(Options{
		ChunkDuration:      time.Second,
		AutoAdvance:        true,
		PauseOnInteraction: true,
	})
	c.Supply([]string{"A", "B", "C"})

	c.Advance()
	s := c.Snapshot()
	if s.CurrentIndex != 1 {
		t.Errorf("CurrentIndex = %d, want 1", s.CurrentIndex)
	}
	if !s.IsPaused {
		t.Error("manual Advance should set IsPaused with PauseOnInteraction")
	}
	// No auto-advance occurs however long we wait.
	if sched.pending() != 0 {
		t.Errorf("pending timers = %d, want 0", sched.pending())
	}
	if sched.fire() {
		t.Error("a timer fired after interaction pause")
	}

	c.Resume()
	if sched.pending() != 1 {
		t.Errorf("pending timers = %d after Resume, want 1", sched.pending())
	}
}

func TestPauseOnInteraction_AppliesToRetreatAndJump(t *testing.T) {
	c, _ := newTestController(FloatingChatOptions())
	c.Supply([]string{"A", "B", "C"})

	c.Retreat()
	if !c.Snapshot().IsPaused {
		t.Error("Retreat should pause with PauseOnInteraction")
	}

	c.Resume()
	c.JumpTo(1)
	if !c.Snapshot().IsPaused {
		t.Error("JumpTo should pause with PauseOnInteraction")
	}
}

func TestReset_IsNotAnInteraction(t *testing.T) {
	// Reset is a lifecycle operation: even with PauseOnInteraction it
	// restarts pacing unpaused and keeps the held sequence.
	c, sched := newTestController(FloatingChatOptions())
	c.Supply([]string{"A", "B", "C"})
	c.Advance() // pauses

	c.Reset()
	s := c.Snapshot()
	if s.CurrentIndex != 0 {
		t.Errorf("CurrentIndex = %d, want 0", s.CurrentIndex)
	}
	if s.IsPaused {
		t.Error("Reset should clear the pause")
	}
	if !s.IsDisplaying {
		t.Error("Reset should restart the pacing phase")
	}
	if s.TotalChunks != 3 {
		t.Error("Reset should keep the held sequence")
	}
	if sched.pending() != 1 {
		t.Errorf("pending timers = %d after Reset, want 1", sched.pending())
	}
}

// =============================================================================
// TIMER INVARIANT TESTS
// =============================================================================

func TestSingleTimerInvariant(t *testing.T) {
	c, sched := newTestController(Options{ChunkDuration: time.Second, AutoAdvance: true})

	check := func(step string) {
		t.Helper()
		if n := sched.pending(); n > 1 {
			t.Fatalf("%s: %d timers pending, want at most 1", step, n)
		}
	}

	c.Supply([]string{"a", "b", "c", "d", "e"})
	check("supply")
	sched.fire()
	check("fire")
	c.Retreat()
	check("retreat")
	c.Advance()
	check("advance")
	c.Supply([]string{"x", "y", "z"})
	check("re-supply")
	c.Pause()
	check("pause")
	c.Resume()
	check("resume")
	c.Reset()
	check("reset")
	sched.fire()
	check("fire after reset")
	c.JumpTo(1)
	check("jump")
}

func TestStaleFire_IsDropped(t *testing.T) {
	c, sched := newTestController(Options{ChunkDuration: time.Second, AutoAdvance: true})
	c.Supply([]string{"A", "B", "C"})

	// Capture the armed callback, then invalidate it with a re-supply
	// before letting it run: the advance must not leak across sequences.
	sched.mu.Lock()
	stale := sched.timers[0].fn
	sched.mu.Unlock()

	c.Supply([]string{"X", "Y", "Z"})
	stale()

	if s := c.Snapshot(); s.CurrentIndex != 0 {
		t.Errorf("stale timer advanced the new sequence to %d", s.CurrentIndex)
	}
}

// =============================================================================
// TEARDOWN TESTS
// =============================================================================

func TestClose_CancelsAndDisablesCommands(t *testing.T) {
	c, sched := newTestController(DefaultOptions())
	c.Supply([]string{"A", "B", "C"})

	sched.mu.Lock()
	fn := sched.timers[0].fn
	sched.mu.Unlock()

	c.Close()
	if sched.pending() != 0 {
		t.Errorf("pending timers = %d after Close, want 0", sched.pending())
	}

	// A racing fire that slipped past the cancel must not mutate state.
	fn()
	c.Advance()
	c.Supply([]string{"X"})
	c.Reset()

	s := c.Snapshot()
	if s.CurrentIndex != 0 || s.CurrentChunk != "A" {
		t.Errorf("state mutated after Close: %+v", s)
	}

	// Closing twice is a safe no-op.
	c.Close()
}

// =============================================================================
// NOTIFY TESTS
// =============================================================================

func TestNotify_FiresOnTimerAdvance(t *testing.T) {
	c, sched := newTestController(Options{ChunkDuration: time.Second, AutoAdvance: true})

	var got []Snapshot
	c.SetNotify(func(s Snapshot) { got = append(got, s) })

	c.Supply([]string{"A", "B", "C"})
	sched.fire()
	sched.fire()

	if len(got) != 3 {
		t.Fatalf("notifications = %d, want 3", len(got))
	}
	if got[1].CurrentIndex != 1 || got[1].CurrentChunk != "B" {
		t.Errorf("second notification = %+v, want index 1 chunk B", got[1])
	}
	last := got[len(got)-1]
	if !last.IsComplete {
		t.Errorf("final notification = %+v, want complete", last)
	}
}

// =============================================================================
// STEP DURATION TESTS
// =============================================================================

func TestStepDurations_PaceEachIndex(t *testing.T) {
	c, sched := newTestController(Options{ChunkDuration: time.Second, AutoAdvance: true})
	defer c.Close()

	c.SetStepDurations([]time.Duration{20 * time.Second, 16 * time.Second, 12 * time.Second})
	c.Supply([]string{"breathe in", "hold", "breathe out"})

	if d := sched.lastDuration(); d != 20*time.Second {
		t.Fatalf("first step armed for %v, want 20s", d)
	}
	sched.fire()
	if d := sched.lastDuration(); d != 16*time.Second {
		t.Fatalf("second step armed for %v, want 16s", d)
	}
	sched.fire()
	// Entering the last index ends pacing; no third timer.
	if n := sched.pending(); n != 0 {
		t.Errorf("pending timers after last step = %d, want 0", n)
	}
}

func TestStepDurations_FallBackPastEnd(t *testing.T) {
	c, sched := newTestController(Options{ChunkDuration: 3 * time.Second, AutoAdvance: true})
	defer c.Close()

	c.SetStepDurations([]time.Duration{7 * time.Second})
	c.Supply([]string{"a", "b", "c"})

	if d := sched.lastDuration(); d != 7*time.Second {
		t.Fatalf("first step armed for %v, want 7s", d)
	}
	sched.fire()
	if d := sched.lastDuration(); d != 3*time.Second {
		t.Fatalf("step past the schedule armed for %v, want ChunkDuration 3s", d)
	}
}

func TestStepDurations_NilRestoresUniform(t *testing.T) {
	c, sched := newTestController(Options{ChunkDuration: 2 * time.Second, AutoAdvance: true})
	defer c.Close()

	c.SetStepDurations([]time.Duration{9 * time.Second, 9 * time.Second})
	c.SetStepDurations(nil)
	c.Supply([]string{"a", "b"})

	if d := sched.lastDuration(); d != 2*time.Second {
		t.Fatalf("armed for %v after clearing schedule, want 2s", d)
	}
	if got := c.PacingDurations(); got != nil {
		t.Errorf("PacingDurations after nil = %v, want nil", got)
	}
}
