// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package companion provides the HTTP client for the AI companion backend.
package companion

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// =============================================================================
// CONFIG TESTS
// =============================================================================

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.BaseURL != "http://127.0.0.1:11434" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v", cfg.Timeout)
	}
	if cfg.RequestsPerMinute != 20 {
		t.Errorf("RequestsPerMinute = %d", cfg.RequestsPerMinute)
	}
}

func TestNewClientWithConfig_FillsZeroValues(t *testing.T) {
	c := NewClientWithConfig(&ClientConfig{BaseURL: "http://example.test"})

	if c.config.BaseURL != "http://example.test" {
		t.Errorf("BaseURL = %q", c.config.BaseURL)
	}
	if c.config.DefaultModel == "" {
		t.Error("DefaultModel should be defaulted")
	}
	if c.config.StreamTimeout == 0 {
		t.Error("StreamTimeout should be defaulted")
	}
}

// =============================================================================
// HEALTH CHECK TESTS
// =============================================================================

func TestCheckRunning(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClientWithConfig(&ClientConfig{BaseURL: srv.URL})
	if err := c.CheckRunning(context.Background()); err != nil {
		t.Errorf("CheckRunning: %v", err)
	}
}

func TestCheckRunning_Down(t *testing.T) {
	c := NewClientWithConfig(&ClientConfig{BaseURL: "http://127.0.0.1:1"})
	err := c.CheckRunning(context.Background())
	if !errors.Is(err, ErrNotRunning) {
		t.Errorf("err = %v, want ErrNotRunning", err)
	}
}

// =============================================================================
// STREAMING TESTS
// =============================================================================

// chatStreamServer serves an NDJSON chat stream built from tokens.
func chatStreamServer(t *testing.T, tokens []string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			http.NotFound(w, r)
			return
		}
		for _, tok := range tokens {
			fmt.Fprintf(w, `{"model":"test","message":{"role":"assistant","content":%q},"done":false}`+"\n", tok)
		}
		fmt.Fprintln(w, `{"model":"test","message":{"role":"assistant","content":""},"done":true,"eval_count":3,"eval_duration":1000000000}`)
	}))
}

func TestChatStream(t *testing.T) {
	srv := chatStreamServer(t, []string{"You ", "are ", "safe."})
	defer srv.Close()

	c := NewClientWithConfig(&ClientConfig{BaseURL: srv.URL})

	var content strings.Builder
	var stats *StreamStats
	err := c.ChatStream(context.Background(), "", []Message{NewUserMessage("hi")}, func(chunk StreamChunk) {
		content.WriteString(chunk.Content)
		if chunk.Done {
			stats = chunk.Stats
		}
	})
	if err != nil {
		t.Fatalf("ChatStream: %v", err)
	}
	if content.String() != "You are safe." {
		t.Errorf("content = %q", content.String())
	}
	if stats == nil {
		t.Fatal("final chunk should carry stats")
	}
	if stats.TokenCount != 3 {
		t.Errorf("TokenCount = %d, want 3 (from eval_count)", stats.TokenCount)
	}
	if stats.TokensPerSec < 2.9 || stats.TokensPerSec > 3.1 {
		t.Errorf("TokensPerSec = %v, want ~3", stats.TokensPerSec)
	}
}

func TestChat_Blocking(t *testing.T) {
	srv := chatStreamServer(t, []string{"hello"})
	defer srv.Close()

	c := NewClientWithConfig(&ClientConfig{BaseURL: srv.URL})
	content, stats, err := c.Chat(context.Background(), "test", []Message{NewUserMessage("hi")})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if content != "hello" {
		t.Errorf("content = %q", content)
	}
	if stats == nil {
		t.Error("stats should be set")
	}
}

func TestChatStream_ModelNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClientWithConfig(&ClientConfig{BaseURL: srv.URL})
	err := c.ChatStream(context.Background(), "missing", []Message{NewUserMessage("hi")}, func(StreamChunk) {})
	if !errors.Is(err, ErrModelNotFound) {
		t.Errorf("err = %v, want ErrModelNotFound", err)
	}
}

func TestChatStream_SkipsMalformedLines(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `not json at all`)
		fmt.Fprintln(w, `{"message":{"content":"ok"},"done":false}`)
		fmt.Fprintln(w, `{"message":{"content":""},"done":true}`)
	}))
	defer srv.Close()

	c := NewClientWithConfig(&ClientConfig{BaseURL: srv.URL})
	var content strings.Builder
	err := c.ChatStream(context.Background(), "m", []Message{NewUserMessage("hi")}, func(chunk StreamChunk) {
		content.WriteString(chunk.Content)
	})
	if err != nil {
		t.Fatalf("ChatStream: %v", err)
	}
	if content.String() != "ok" {
		t.Errorf("content = %q", content.String())
	}
}

func TestChatStream_RateLimited(t *testing.T) {
	srv := chatStreamServer(t, []string{"x"})
	defer srv.Close()

	c := NewClientWithConfig(&ClientConfig{BaseURL: srv.URL, RequestsPerMinute: 1})

	msgs := []Message{NewUserMessage("hi")}
	cb := func(StreamChunk) {}

	// Burst of 3 is allowed, then the limiter trips.
	var rateErr error
	for i := 0; i < 5; i++ {
		if err := c.ChatStream(context.Background(), "m", msgs, cb); err != nil {
			rateErr = err
			break
		}
	}
	if !errors.Is(rateErr, ErrRateLimited) {
		t.Errorf("err = %v, want ErrRateLimited", rateErr)
	}
}

// =============================================================================
// CRISIS GUARD TESTS
// =============================================================================

func TestScreen(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		tripped bool
	}{
		{"benign", "I had a rough day at work", false},
		{"direct phrase", "sometimes I want to die", true},
		{"case insensitive", "I think about SUICIDE", true},
		{"hyphenated", "I've been struggling with self-harm", true},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tripped, resp := Screen(tt.text)
			if tripped != tt.tripped {
				t.Errorf("Screen(%q) tripped = %v, want %v", tt.text, tripped, tt.tripped)
			}
			if tripped && resp == "" {
				t.Error("tripped guard must supply a response")
			}
		})
	}
}

func TestChatStream_GuardShortCircuits(t *testing.T) {
	// The server fails the test if reached: guarded messages must never
	// hit the network.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("guarded message reached the backend")
	}))
	defer srv.Close()

	c := NewClientWithConfig(&ClientConfig{BaseURL: srv.URL})

	var content strings.Builder
	var done bool
	err := c.ChatStream(context.Background(), "m", []Message{
		NewSystemMessage("persona"),
		NewUserMessage("I want to die"),
	}, func(chunk StreamChunk) {
		content.WriteString(chunk.Content)
		if chunk.Done {
			done = true
		}
	})
	if err != nil {
		t.Fatalf("ChatStream: %v", err)
	}
	if !done {
		t.Error("guard response should complete the stream")
	}
	if !strings.Contains(content.String(), "988") {
		t.Errorf("guard response should include crisis resources, got %q", content.String())
	}
}
