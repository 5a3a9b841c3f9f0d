// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across the nafsy TUI:
// UTF-8 safe truncation, display-width handling for CJK and emoji via
// go-runewidth, and crash-safe atomic file writes used by every store
// that persists under ~/.nafsy.
package util
