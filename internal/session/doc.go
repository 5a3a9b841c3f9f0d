// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session tracks the check-in session lifecycle.
//
// The manager watches two clocks: continuous engagement, which drives a
// gentle break suggestion after long stretches of chatting, and dirty
// state, which drives periodic auto-save. A long idle gap resets the
// engagement clock, so coming back after dinner does not trigger an
// immediate break nudge. Integration with Bubble Tea happens through a
// once-per-second tick command.
package session
