// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the slash command system for the TUI.
//
// Input starting with / is parsed against a registry of commands
// (/mood, /exercise, /export, ...). Handlers never mutate application
// state directly; they return Bubble Tea commands that emit typed
// messages the chat model consumes. The completer backs tab completion
// for command names and enum arguments.
package commands
