// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for companion conversations.
//
// A Conversation holds ordered Messages exchanged between the user and the
// AI companion, along with streaming state while a reply is being
// generated and the reveal chunks derived from finished replies. The
// package is pure data: persistence lives in internal/storage and network
// transport in internal/companion.
package model
