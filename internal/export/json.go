// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nafsy-app/nafsy-tui/internal/model"
)

// =============================================================================
// JSON EXPORTER
// =============================================================================

// JSONExporter produces a lossless dump for data portability.
type JSONExporter struct {
	options *Options
}

// NewJSONExporter creates a new JSON exporter.
func NewJSONExporter(opts *Options) *JSONExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &JSONExporter{options: opts}
}

// FileExtension returns ".json".
func (e *JSONExporter) FileExtension() string {
	return ".json"
}

// envelope wraps the conversation with export metadata.
type envelope struct {
	Generator  string              `json:"generator"`
	ExportedAt time.Time           `json:"exported_at"`
	CheckIn    *model.Conversation `json:"check_in"`
}

// Export converts a conversation to pretty-printed JSON.
func (e *JSONExporter) Export(conv *model.Conversation) ([]byte, error) {
	if conv == nil {
		return nil, fmt.Errorf("conversation is nil")
	}

	return json.MarshalIndent(envelope{
		Generator:  "nafsy",
		ExportedAt: time.Now(),
		CheckIn:    conv,
	}, "", "  ")
}
