// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"

	"github.com/charmbracelet/glamour"

	"github.com/nafsy-app/nafsy-tui/internal/model"
)

// RenderPreview renders the Markdown export through glamour for display
// in the terminal before anything touches disk.
func RenderPreview(conv *model.Conversation, width int) (string, error) {
	if width <= 0 {
		width = 80
	}

	data, err := NewMarkdownExporter(DefaultOptions()).Export(conv)
	if err != nil {
		return "", err
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("create renderer: %w", err)
	}

	out, err := renderer.Render(string(data))
	if err != nil {
		return "", fmt.Errorf("render preview: %w", err)
	}
	return out, nil
}
