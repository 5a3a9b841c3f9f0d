// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for companion conversations.
package model

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// MaxMessages caps conversation history. Older messages are pruned to keep
// memory bounded over long-running check-ins; system messages survive
// pruning so the companion persona is never lost.
const MaxMessages = 500

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation holds a complete companion chat with history and metadata.
type Conversation struct {
	// Identity
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Messages
	Messages []*Message `json:"messages"`

	// Persona is the system prompt describing the companion's tone,
	// assembled from the user's profile.
	Persona string `json:"persona,omitempty"`

	// Context tracking
	TokensUsed int `json:"tokens_used"`
	MaxTokens  int `json:"max_tokens"`
}

// NewConversation creates a conversation with a generated ID.
func NewConversation() *Conversation {
	now := time.Now()
	return &Conversation{
		ID:        generateConversationID(),
		CreatedAt: now,
		UpdatedAt: now,
		Messages:  make([]*Message, 0),
		MaxTokens: 32768,
	}
}

// NewConversationWithPersona creates a conversation carrying a persona
// prompt.
func NewConversationWithPersona(persona string) *Conversation {
	conv := NewConversation()
	conv.Persona = persona
	return conv
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// AddMessage appends a message, updating metadata and pruning history.
func (c *Conversation) AddMessage(msg *Message) {
	c.Messages = append(c.Messages, msg)
	c.UpdatedAt = time.Now()
	c.updateTokenEstimate()
	c.updateTitle()
	c.pruneOldMessages()
}

// AddUserMessage creates and appends a user message.
func (c *Conversation) AddUserMessage(content string) *Message {
	msg := NewUserMessage(content)
	c.AddMessage(msg)
	return msg
}

// AddCompanionMessage creates and appends a streaming companion message.
func (c *Conversation) AddCompanionMessage() *Message {
	msg := NewCompanionMessage()
	c.AddMessage(msg)
	return msg
}

// AddSystemMessage creates and appends a system message.
func (c *Conversation) AddSystemMessage(content string) *Message {
	msg := NewSystemMessage(content)
	c.AddMessage(msg)
	return msg
}

// LastMessage returns the most recent message, or nil when empty.
func (c *Conversation) LastMessage() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return c.Messages[len(c.Messages)-1]
}

// LastCompanionMessage returns the most recent companion message.
func (c *Conversation) LastCompanionMessage() *Message {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].Role == RoleCompanion {
			return c.Messages[i]
		}
	}
	return nil
}

// LastUserMessage returns the most recent user message.
func (c *Conversation) LastUserMessage() *Message {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].Role == RoleUser {
			return c.Messages[i]
		}
	}
	return nil
}

// AppendToLast appends a token to the last message if it is streaming.
func (c *Conversation) AppendToLast(token string) {
	if last := c.LastMessage(); last != nil && last.IsStreaming {
		last.AppendToken(token)
	}
}

// FinalizeLast completes the last streaming message with statistics.
func (c *Conversation) FinalizeLast(stats *Statistics) {
	if last := c.LastMessage(); last != nil && last.IsStreaming {
		last.FinalizeStream(stats)
		c.updateTokenEstimate()
	}
}

// MessageByID returns a message by its ID, or nil.
func (c *Conversation) MessageByID(id string) *Message {
	for _, msg := range c.Messages {
		if msg.ID == id {
			return msg
		}
	}
	return nil
}

// ClearHistory removes all messages.
func (c *Conversation) ClearHistory() {
	c.Messages = make([]*Message, 0)
	c.TokensUsed = 0
	c.UpdatedAt = time.Now()
}

// MessageCount returns the number of messages.
func (c *Conversation) MessageCount() int {
	return len(c.Messages)
}

// IsEmpty reports whether the conversation has no messages.
func (c *Conversation) IsEmpty() bool {
	return len(c.Messages) == 0
}

// =============================================================================
// TOKEN TRACKING
// =============================================================================

// EstimateTokens estimates the conversation's total token count including
// the persona prompt and per-message structural overhead.
func (c *Conversation) EstimateTokens() int {
	total := 0
	if c.Persona != "" {
		total += (len(c.Persona) + 3) / 4
	}
	for _, msg := range c.Messages {
		total += msg.EstimateTokens() + 4
	}
	return total
}

func (c *Conversation) updateTokenEstimate() {
	c.TokensUsed = c.EstimateTokens()
}

// ContextPercent returns the share of the context window used, in percent.
func (c *Conversation) ContextPercent() float64 {
	if c.MaxTokens <= 0 {
		return 0
	}
	return float64(c.TokensUsed) / float64(c.MaxTokens) * 100
}

// =============================================================================
// TITLE MANAGEMENT
// =============================================================================

// updateTitle derives a title from the first user message when unset.
func (c *Conversation) updateTitle() {
	if c.Title != "" {
		return
	}
	for _, msg := range c.Messages {
		if msg.Role == RoleUser {
			c.Title = msg.Preview(50)
			return
		}
	}
}

// SetTitle sets the conversation title.
func (c *Conversation) SetTitle(title string) {
	c.Title = title
	c.UpdatedAt = time.Now()
}

// GetTitle returns the title or a default.
func (c *Conversation) GetTitle() string {
	if c.Title != "" {
		return c.Title
	}
	return "New Check-in"
}

// Preview returns a short single-line preview of the conversation.
func (c *Conversation) Preview() string {
	if len(c.Messages) == 0 {
		return "Empty check-in"
	}
	msg := c.LastUserMessage()
	if msg == nil {
		msg = c.Messages[0]
	}
	return msg.Preview(100)
}

// =============================================================================
// HELPERS
// =============================================================================

// Clone creates a deep copy of the conversation. Streaming builders are
// not carried over; clone only settled conversations.
func (c *Conversation) Clone() *Conversation {
	clone := &Conversation{
		ID:         c.ID,
		Title:      c.Title,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
		Persona:    c.Persona,
		TokensUsed: c.TokensUsed,
		MaxTokens:  c.MaxTokens,
		Messages:   make([]*Message, len(c.Messages)),
	}
	for i, msg := range c.Messages {
		msgCopy := *msg
		clone.Messages[i] = &msgCopy
	}
	return clone
}

// pruneOldMessages drops the oldest non-system messages past MaxMessages.
func (c *Conversation) pruneOldMessages() {
	if len(c.Messages) <= MaxMessages {
		return
	}

	var system []*Message
	var rest []*Message
	for _, msg := range c.Messages {
		if msg.Role == RoleSystem {
			system = append(system, msg)
		} else {
			rest = append(rest, msg)
		}
	}
	if len(rest) > MaxMessages {
		rest = rest[len(rest)-MaxMessages:]
	}

	c.Messages = make([]*Message, 0, len(system)+len(rest))
	c.Messages = append(c.Messages, system...)
	c.Messages = append(c.Messages, rest...)
}

// generateConversationID creates a unique conversation ID.
func generateConversationID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return "conv_" + hex.EncodeToString(bytes)
}
