// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package reveal implements the chunked sequential reveal controller that
// paces companion responses into the floating chat display.
//
// A Controller owns the position and timing state for an ordered sequence
// of text chunks. It advances automatically on a fixed interval unless
// paused, and accepts manual navigation (advance, retreat, jump) that can
// optionally suspend auto-advance. The controller knows nothing about how
// chunks are produced (see internal/splitter) or rendered (see
// internal/ui/chat); callers read display state through Snapshot and
// receive change notifications through SetNotify.
//
// Timing guarantees:
//   - At most one pending timer exists at any instant. Every state-mutating
//     path cancels the previous timer before optionally arming a new one.
//   - Cancellation is idempotent; a timer callback that lost the race to a
//     cancel or a newer arm is ignored via an arm sequence check.
//   - Close cancels synchronously; commands after Close are no-ops.
package reveal
