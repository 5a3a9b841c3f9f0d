// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the nafsy TUI.
// All colors use Lip Gloss AdaptiveColor for automatic light/dark
// detection; the palette stays deliberately low-contrast and warm,
// since the app is meant to feel calm rather than busy.
package styles
