// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements nafsy's non-TUI surface: one-shot questions,
// a line-mode chat fallback, check-in listing and export, the app-lock
// management commands, and the doctor diagnostics.
package cli
