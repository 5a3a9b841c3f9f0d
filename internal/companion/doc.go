// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package companion provides the HTTP client for the AI companion backend.
//
// The backend speaks the Ollama-compatible chat API: a POST to /api/chat
// with the conversation history returns an NDJSON token stream. The client
// adds what a wellness app needs on top of plain transport: a rate limiter
// so a runaway UI can never hammer the endpoint, a crisis-keyword guard
// that short-circuits generation with grounding resources, and generation
// statistics (time to first token, tokens per second) surfaced to the UI.
package companion
