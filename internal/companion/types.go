// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package companion provides the HTTP client for the AI companion backend.
package companion

import "time"

// =============================================================================
// REQUEST TYPES
// =============================================================================

// Message is a chat message on the wire.
type Message struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

// NewSystemMessage builds a system-role wire message.
func NewSystemMessage(content string) Message {
	return Message{Role: "system", Content: content}
}

// NewUserMessage builds a user-role wire message.
func NewUserMessage(content string) Message {
	return Message{Role: "user", Content: content}
}

// ChatRequest is the request body for the /api/chat endpoint.
type ChatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream"`
	Options  *Options  `json:"options,omitempty"`
}

// Options contains model sampling parameters. The companion runs warmer
// than a coding assistant: higher temperature, mild repeat penalty.
type Options struct {
	Temperature   float64  `json:"temperature,omitempty"`
	TopP          float64  `json:"top_p,omitempty"`
	RepeatPenalty float64  `json:"repeat_penalty,omitempty"`
	NumCtx        int      `json:"num_ctx,omitempty"`
	NumPredict    int      `json:"num_predict,omitempty"`
	Stop          []string `json:"stop,omitempty"`
	Seed          int      `json:"seed,omitempty"`
}

// DefaultOptions returns the companion's generation parameters.
func DefaultOptions() *Options {
	return &Options{
		Temperature:   0.9,
		TopP:          0.95,
		RepeatPenalty: 1.1,
		NumCtx:        8192,
	}
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// ChatResponse is a single NDJSON line from the /api/chat stream.
type ChatResponse struct {
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"created_at"`
	Message   Message   `json:"message"`

	Done       bool   `json:"done"`
	DoneReason string `json:"done_reason,omitempty"`

	// Final-line statistics
	TotalDuration int64 `json:"total_duration,omitempty"`
	EvalCount     int   `json:"eval_count,omitempty"`
	EvalDuration  int64 `json:"eval_duration,omitempty"`
}

// ListModelsResponse is the response from /api/tags.
type ListModelsResponse struct {
	Models []ModelInfo `json:"models"`
}

// ModelInfo describes one model hosted by the backend.
type ModelInfo struct {
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	ModifiedAt time.Time `json:"modified_at"`
}

// =============================================================================
// STREAMING TYPES
// =============================================================================

// StreamChunk is one unit of streamed output delivered to the callback.
type StreamChunk struct {
	// Content is the token text for this chunk, empty on the final chunk.
	Content string

	// Done marks the final chunk; Stats is populated on it.
	Done bool

	// Stats summarizes the completed generation (final chunk only).
	Stats *StreamStats
}

// StreamStats holds generation statistics for a completed stream.
type StreamStats struct {
	TokenCount    int
	TTFT          time.Duration
	TotalDuration time.Duration
	TokensPerSec  float64
	Model         string
}

// StreamCallback receives each chunk as it arrives. Callbacks run on the
// streaming goroutine; hand results to the UI loop via program.Send.
type StreamCallback func(StreamChunk)
