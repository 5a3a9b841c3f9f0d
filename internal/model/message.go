// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for companion conversations.
package model

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"github.com/nafsy-app/nafsy-tui/internal/util"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleCompanion Role = "companion"
	RoleSystem    Role = "system"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleCompanion:
		return "Nafsy"
	case RoleSystem:
		return "System"
	default:
		return string(r)
	}
}

// WireRole maps the role onto the chat API's role vocabulary, where the
// companion speaks as "assistant".
func (r Role) WireRole() string {
	if r == RoleCompanion {
		return "assistant"
	}
	return string(r)
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message is a single message in a conversation.
type Message struct {
	// Identity
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Timestamp time.Time `json:"timestamp"`

	// Content
	Content string `json:"content"`

	// RevealChunks caches the splitter output for companion messages so
	// re-rendering re-supplies content-identical sequences and the reveal
	// controller holds its position.
	RevealChunks []string `json:"reveal_chunks,omitempty"`

	// MoodTag optionally links a user message to the mood logged in the
	// same check-in.
	MoodTag string `json:"mood_tag,omitempty"`

	// Streaming state (not persisted). strings.Builder keeps token
	// appends from going quadratic on long replies.
	IsStreaming   bool            `json:"-"`
	streamContent strings.Builder `json:"-"`

	// Generation metrics for companion messages
	TokenCount    int           `json:"token_count,omitempty"`
	TTFT          time.Duration `json:"ttft_ns,omitempty"`
	TotalDuration time.Duration `json:"total_duration_ns,omitempty"`
	TokensPerSec  float64       `json:"tokens_per_sec,omitempty"`
}

// Statistics summarizes a completed generation.
type Statistics struct {
	TokenCount    int
	TTFT          time.Duration
	TotalDuration time.Duration
	TokensPerSec  float64
}

// NewMessage creates a message with a generated ID.
func NewMessage(role Role, content string) *Message {
	return &Message{
		ID:        generateID(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewUserMessage creates a user message.
func NewUserMessage(content string) *Message {
	return NewMessage(RoleUser, content)
}

// NewCompanionMessage creates an empty companion message in streaming
// state; tokens arrive through AppendToken.
func NewCompanionMessage() *Message {
	return &Message{
		ID:          generateID(),
		Role:        RoleCompanion,
		Timestamp:   time.Now(),
		IsStreaming: true,
	}
}

// NewSystemMessage creates a system message.
func NewSystemMessage(content string) *Message {
	return NewMessage(RoleSystem, content)
}

// =============================================================================
// STREAMING
// =============================================================================

// AppendToken adds a streamed token to the in-flight content.
func (m *Message) AppendToken(token string) {
	if !m.IsStreaming {
		return
	}
	m.streamContent.WriteString(token)
	m.TokenCount++
}

// FinalizeStream ends streaming, merging buffered tokens into Content and
// recording generation statistics.
func (m *Message) FinalizeStream(stats *Statistics) {
	if !m.IsStreaming {
		return
	}
	m.Content = m.streamContent.String()
	m.streamContent.Reset()
	m.IsStreaming = false

	if stats != nil {
		if stats.TokenCount > 0 {
			m.TokenCount = stats.TokenCount
		}
		m.TTFT = stats.TTFT
		m.TotalDuration = stats.TotalDuration
		m.TokensPerSec = stats.TokensPerSec
	}
}

// GetDisplayContent returns the visible content: buffered stream content
// while streaming, final content otherwise.
func (m *Message) GetDisplayContent() string {
	if m.IsStreaming {
		return m.streamContent.String()
	}
	return m.Content
}

// =============================================================================
// HELPERS
// =============================================================================

// Preview returns a single-line preview capped to maxWidth columns.
func (m *Message) Preview(maxWidth int) string {
	return util.Preview(m.GetDisplayContent(), maxWidth)
}

// EstimateTokens gives a rough token count for context budgeting
// (~4 bytes per token).
func (m *Message) EstimateTokens() int {
	if m.TokenCount > 0 {
		return m.TokenCount
	}
	return (len(m.GetDisplayContent()) + 3) / 4
}

// IsEmpty reports whether the message has no visible content.
func (m *Message) IsEmpty() bool {
	return strings.TrimSpace(m.GetDisplayContent()) == ""
}

// generateID creates a unique message ID.
func generateID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return "msg_" + hex.EncodeToString(bytes)
}
