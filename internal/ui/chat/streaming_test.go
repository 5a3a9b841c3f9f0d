// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
package chat

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"
)

// =============================================================================
// STREAMING BUFFER TESTS
// =============================================================================

func TestStreamingBufferWrite(t *testing.T) {
	sb := NewStreamingBuffer()

	sb.Write("slow")
	sb.Write(" ")
	sb.Write("breath")

	if pending := sb.Pending(); pending != 3 {
		t.Errorf("expected 3 pending tokens, got %d", pending)
	}
}

func TestStreamingBufferFlushBySize(t *testing.T) {
	sb := NewStreamingBufferWithConfig(3, 30)

	sb.Write("A")
	sb.Write("B")

	if _, ok := sb.Flush(); ok {
		t.Error("should not flush before reaching batch size")
	}

	sb.Write("C")

	content, ok := sb.Flush()
	if !ok {
		t.Fatal("should flush after reaching batch size")
	}
	if content != "ABC" {
		t.Errorf("expected flushed content 'ABC', got %q", content)
	}
	if pending := sb.Pending(); pending != 0 {
		t.Errorf("expected 0 pending tokens after flush, got %d", pending)
	}
}

func TestStreamingBufferFlushByTime(t *testing.T) {
	sb := NewStreamingBufferWithConfig(100, 30)

	sb.Write("A")

	if _, ok := sb.Flush(); ok {
		t.Error("should not flush before the frame interval elapses")
	}

	time.Sleep(40 * time.Millisecond)

	content, ok := sb.Flush()
	if !ok {
		t.Fatal("should flush after the frame interval")
	}
	if content != "A" {
		t.Errorf("expected 'A', got %q", content)
	}
}

func TestStreamingBufferForceFlush(t *testing.T) {
	sb := NewStreamingBufferWithConfig(100, 30)

	sb.Write("tail")

	content, ok := sb.ForceFlush()
	if !ok {
		t.Fatal("ForceFlush should drain regardless of thresholds")
	}
	if content != "tail" {
		t.Errorf("expected 'tail', got %q", content)
	}

	if _, ok := sb.ForceFlush(); ok {
		t.Error("ForceFlush on an empty buffer should report nothing")
	}
}

func TestStreamingBufferReset(t *testing.T) {
	sb := NewStreamingBuffer()

	sb.Write("discarded")
	sb.Reset()

	if pending := sb.Pending(); pending != 0 {
		t.Errorf("expected empty buffer after reset, got %d pending", pending)
	}
	if _, ok := sb.ForceFlush(); ok {
		t.Error("reset content should not be flushable")
	}
}

func TestStreamingBufferConfigFallbacks(t *testing.T) {
	sb := NewStreamingBufferWithConfig(0, 500)

	if sb.batchSize != defaultBatchSize {
		t.Errorf("expected batch size fallback %d, got %d", defaultBatchSize, sb.batchSize)
	}
	wantInterval := time.Duration(1000/defaultMaxFPS) * time.Millisecond
	if sb.flushInterval != wantInterval {
		t.Errorf("expected flush interval %v, got %v", wantInterval, sb.flushInterval)
	}
}

func TestStreamingBufferConcurrentWrites(t *testing.T) {
	sb := NewStreamingBufferWithConfig(10000, 1)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				sb.Write(fmt.Sprintf("w%d", n))
			}
		}(i)
	}
	wg.Wait()

	if pending := sb.Pending(); pending != 800 {
		t.Errorf("expected 800 pending tokens, got %d", pending)
	}
	content, ok := sb.ForceFlush()
	if !ok {
		t.Fatal("expected content after concurrent writes")
	}
	if got := strings.Count(content, "w"); got != 800 {
		t.Errorf("expected 800 tokens in drained content, got %d", got)
	}
}
