// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package exercise provides the built-in guided wellness exercises.
//
// An exercise is a sequence of timed steps (breathing cycles, grounding
// prompts, body-scan passes). Steps compile to the chunk sequence the
// reveal controller paces, so running an exercise reuses the same display
// machinery as companion replies. Completions append to a local log so
// streaks can count them.
package exercise
