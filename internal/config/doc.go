// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for nafsy.
//
// Supports TOML (preferred) and JSON formats with built-in defaults,
// NAFSY_* environment overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - ~/.nafsy/config.toml
//   - ~/.nafsy/config.json
//   - Built-in defaults
//
// A Watcher can follow the config file with fsnotify so pacing and theme
// changes apply without restarting a check-in.
package config
