// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the main Bubble Tea model for nafsy.
//
// The model owns the conversation, the companion stream, and the reveal
// controller that paces companion replies chunk by chunk. Streaming
// tokens arrive from a goroutine via program.Send and are batched by a
// StreamingBuffer before touching the viewport; reveal snapshots arrive
// the same way and drive what portion of the latest reply is visible.
// Slash commands, the mood picker overlay, and guided exercises all run
// through this model.
package chat
