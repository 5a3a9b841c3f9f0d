// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package companion provides the HTTP client for the AI companion backend.
package companion

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"time"
)

// =============================================================================
// STREAM READER
// =============================================================================

// StreamReader parses the NDJSON chat stream line by line, tracking
// generation statistics as tokens arrive.
type StreamReader struct {
	reader     *bufio.Reader
	tokenCount int
	model      string
	startTime  time.Time
	firstToken time.Time
}

// NewStreamReader wraps an io.Reader carrying an NDJSON chat stream.
func NewStreamReader(r io.Reader) *StreamReader {
	return &StreamReader{
		reader:    bufio.NewReader(r),
		startTime: time.Now(),
	}
}

// Process reads the stream, invoking callback per chunk. Blocks until the
// stream completes or ctx is cancelled.
func (s *StreamReader) Process(ctx context.Context, callback StreamCallback) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			chunk, err := s.readChunk()
			if err != nil {
				if err == io.EOF {
					return nil
				}
				return err
			}
			if chunk != nil {
				callback(*chunk)
				if chunk.Done {
					return nil
				}
			}
		}
	}
}

// readChunk reads and parses a single stream line. Returns (nil, nil) for
// blank or malformed lines, which are skipped rather than failing the
// whole generation.
func (s *StreamReader) readChunk() (*StreamChunk, error) {
	line, err := s.reader.ReadBytes('\n')
	if err != nil {
		if len(line) == 0 {
			return nil, err
		}
		// Fall through: process a final unterminated line.
	}
	if len(line) == 0 {
		return nil, nil
	}

	var resp ChatResponse
	if err := json.Unmarshal(line, &resp); err != nil {
		return nil, nil
	}

	if resp.Model != "" {
		s.model = resp.Model
	}

	content := resp.Message.Content
	if content != "" {
		if s.tokenCount == 0 {
			s.firstToken = time.Now()
		}
		s.tokenCount++
	}

	chunk := &StreamChunk{Content: content, Done: resp.Done}
	if resp.Done {
		chunk.Stats = s.stats(&resp)
	}
	return chunk, nil
}

// stats assembles final generation statistics, preferring the backend's
// own counters when the final line carries them.
func (s *StreamReader) stats(final *ChatResponse) *StreamStats {
	stats := &StreamStats{
		TokenCount: s.tokenCount,
		Model:      s.model,
	}

	if final.EvalCount > 0 {
		stats.TokenCount = final.EvalCount
	}
	if final.TotalDuration > 0 {
		stats.TotalDuration = time.Duration(final.TotalDuration)
	} else {
		stats.TotalDuration = time.Since(s.startTime)
	}
	if !s.firstToken.IsZero() {
		stats.TTFT = s.firstToken.Sub(s.startTime)
	}

	if final.EvalCount > 0 && final.EvalDuration > 0 {
		stats.TokensPerSec = float64(final.EvalCount) / (float64(final.EvalDuration) / float64(time.Second))
	} else if secs := stats.TotalDuration.Seconds(); secs > 0 {
		stats.TokensPerSec = float64(stats.TokenCount) / secs
	}
	return stats
}
