// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package mood stores mood check-in entries in a local SQLite database.
//
// Each entry records a valence (how pleasant, -2..2), an energy level
// (1..5), free-form tags, and an optional note. The store computes
// day-streaks and rolling averages for the /mood summary view. All data
// stays on the local machine.
package mood
