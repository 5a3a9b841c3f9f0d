// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewManagerDefaults(t *testing.T) {
	m := NewManager(DefaultConfig())

	if m.SessionID() == "" {
		t.Error("expected session ID")
	}
	if m.IsDirty() {
		t.Error("fresh session should be clean")
	}
	if m.ShouldSuggestBreak() {
		t.Error("fresh session should not suggest a break")
	}
	if m.ShouldAutoSave() {
		t.Error("clean session should not auto-save")
	}
}

func TestBreakSuggestionAfterThreshold(t *testing.T) {
	m := NewManager(Config{
		BreakAfter: 50 * time.Millisecond,
		IdleReset:  time.Hour,
	})

	if m.ShouldSuggestBreak() {
		t.Error("break suggested too early")
	}

	time.Sleep(60 * time.Millisecond)
	m.RecordActivity() // keep the user "present"

	if !m.ShouldSuggestBreak() {
		t.Error("break not suggested after threshold")
	}
}

func TestBreakDisabledWhenZero(t *testing.T) {
	m := NewManager(Config{BreakAfter: 0})
	time.Sleep(10 * time.Millisecond)
	if m.ShouldSuggestBreak() {
		t.Error("break suggested with BreakAfter=0")
	}
}

func TestBreakNotRepeatedWithinStretch(t *testing.T) {
	m := NewManager(Config{
		BreakAfter: 30 * time.Millisecond,
		IdleReset:  time.Hour,
	})

	var fired int32
	m.SetBreakCallback(func(time.Duration) {
		atomic.AddInt32(&fired, 1)
	})

	time.Sleep(40 * time.Millisecond)
	m.RecordActivity()
	m.Check()
	m.Check()
	m.Check()

	if n := atomic.LoadInt32(&fired); n != 1 {
		t.Errorf("break callback fired %d times, want 1", n)
	}
}

func TestSnoozeRearmsBreak(t *testing.T) {
	m := NewManager(Config{
		BreakAfter: 30 * time.Millisecond,
		IdleReset:  time.Hour,
	})

	time.Sleep(40 * time.Millisecond)
	m.RecordActivity()
	m.Check() // consumes the first suggestion

	m.SnoozeBreak()
	if m.ShouldSuggestBreak() {
		t.Error("break suggested immediately after snooze")
	}

	time.Sleep(40 * time.Millisecond)
	m.RecordActivity()
	if !m.ShouldSuggestBreak() {
		t.Error("break not re-armed after snooze interval")
	}
}

func TestIdleGapResetsEngagement(t *testing.T) {
	m := NewManager(Config{
		BreakAfter: 30 * time.Millisecond,
		IdleReset:  20 * time.Millisecond,
	})

	// Cross the break threshold while idle past the reset gap.
	time.Sleep(40 * time.Millisecond)

	// Activity after a long gap starts a fresh stretch.
	m.RecordActivity()
	if m.ShouldSuggestBreak() {
		t.Error("break suggested after idle gap reset")
	}
	if m.EngagedTime() > 20*time.Millisecond {
		t.Errorf("engagement clock not reset: %v", m.EngagedTime())
	}
}

func TestAutoSave(t *testing.T) {
	m := NewManager(Config{
		AutoSaveEnabled:  true,
		AutoSaveInterval: 20 * time.Millisecond,
	})

	var saves int32
	m.SetAutoSaveCallback(func() error {
		atomic.AddInt32(&saves, 1)
		return nil
	})

	// Clean session never saves.
	time.Sleep(30 * time.Millisecond)
	m.Check()
	if atomic.LoadInt32(&saves) != 0 {
		t.Error("auto-save fired on clean session")
	}

	m.MarkDirty()
	time.Sleep(30 * time.Millisecond)
	m.Check()
	if atomic.LoadInt32(&saves) != 1 {
		t.Errorf("saves = %d, want 1", atomic.LoadInt32(&saves))
	}
	if m.IsDirty() {
		t.Error("successful save should mark clean")
	}
}

func TestAutoSaveFailureStaysDirty(t *testing.T) {
	m := NewManager(Config{
		AutoSaveEnabled:  true,
		AutoSaveInterval: 10 * time.Millisecond,
	})
	m.SetAutoSaveCallback(func() error {
		return errors.New("disk full")
	})

	m.MarkDirty()
	time.Sleep(20 * time.Millisecond)
	m.Check()

	if !m.IsDirty() {
		t.Error("failed save should leave session dirty")
	}
}

func TestGetStatus(t *testing.T) {
	m := NewManager(DefaultConfig())
	m.MarkDirty()

	st := m.GetStatus()
	if st.SessionID != m.SessionID() {
		t.Error("status session ID mismatch")
	}
	if !st.IsDirty {
		t.Error("status should be dirty")
	}
	if st.Duration < 0 || st.IdleTime < 0 {
		t.Error("negative durations")
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{45 * time.Second, "45s"},
		{2 * time.Minute, "2m"},
		{90 * time.Second, "1m 30s"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.d); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
