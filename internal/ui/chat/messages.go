// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file defines the Bubble Tea message types used by the chat
// interface: streaming lifecycle, reveal snapshots, backend status, and
// exercise progress. All types follow Bubble Tea conventions and are
// immutable.
package chat

import (
	"time"

	"github.com/nafsy-app/nafsy-tui/internal/config"
	"github.com/nafsy-app/nafsy-tui/internal/model"
	"github.com/nafsy-app/nafsy-tui/internal/reveal"
)

// =============================================================================
// STREAMING MESSAGES
// =============================================================================

// StreamStartMsg signals that a companion stream has begun.
type StreamStartMsg struct {
	MessageID string
	StartTime time.Time
}

// StreamTickMsg drives buffered token flushes at the render frame rate.
type StreamTickMsg struct {
	Time time.Time
}

// StreamCompleteMsg signals that the stream finished. Stats is nil when
// the stream ended in error or was intercepted by the crisis guard.
type StreamCompleteMsg struct {
	MessageID string
	Stats     *model.Statistics
}

// StreamErrorMsg signals a failure during streaming.
type StreamErrorMsg struct {
	MessageID string
	Err       error
}

// =============================================================================
// REVEAL MESSAGES
// =============================================================================

// RevealSnapshotMsg carries the controller's state after a transition.
// Snapshots arrive from the controller's notify goroutine via
// program.Send and from synchronous reads after manual navigation.
type RevealSnapshotMsg struct {
	Snapshot reveal.Snapshot
}

// =============================================================================
// BACKEND MESSAGES
// =============================================================================

// BackendStatusMsg reports whether the local model backend is reachable.
type BackendStatusMsg struct {
	Running bool
	Err     error
}

// ModelSwitchedMsg confirms a model switch.
type ModelSwitchedMsg struct {
	Model string
	Err   error
}

// ConfigReloadedMsg delivers a config freshly reloaded by the file
// watcher. Sent from the watcher goroutine via program.Send.
type ConfigReloadedMsg struct {
	Config *config.Config
}

// =============================================================================
// EXERCISE MESSAGES
// =============================================================================

// ExerciseFinishedMsg records that a guided exercise reached its last step.
type ExerciseFinishedMsg struct {
	ExerciseID string
	StartedAt  time.Time
}

// =============================================================================
// TRANSIENT UI MESSAGES
// =============================================================================

// noticeExpiredMsg clears a transient status notice.
type noticeExpiredMsg struct {
	seq int
}
