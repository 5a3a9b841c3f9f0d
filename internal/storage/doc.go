// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists check-in conversations as JSON files.
//
// Each conversation is one file under the data directory's checkins/
// subdirectory, written atomically with 0600 permissions. The store
// enforces a retention cap by dropping the oldest check-ins first.
package storage
