// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package main provides nafsy-setup, a guided first-time setup for nafsy.

The setup walks a new user through everything nafsy needs before the
first check-in: it verifies the local Ollama backend, offers to download
a companion model, and writes a starter configuration. It runs as a
Bubble Tea TUI by default and falls back to a plain text flow with
--text (or automatically when stdin is not a terminal).

Phases:

  - welcome: what the setup will do
  - checks: data directory, disk space, Ollama binary and service
  - model: pick and optionally pull a companion model
  - config: write ~/.nafsy/config.toml and create the data directory
  - done: quick tips and how to launch

Command line options:

	--text, -t     plain text mode (no TUI)
	--help, -h     show help
	--version, -v  show version

Build:

	go build -o nafsy-setup ./cmd/nafsy-setup
*/
package main
