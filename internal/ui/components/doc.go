// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the nafsy TUI:
// header, status bar, message bubbles, reveal progress dots, the mood
// picker overlay, and the welcome screen.
package components
