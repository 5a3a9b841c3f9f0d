// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nafsy-app/nafsy-tui/internal/model"
	"github.com/nafsy-app/nafsy-tui/internal/util"
)

// =============================================================================
// EXPORT INTERFACE
// =============================================================================

// Exporter converts a check-in to a target format.
type Exporter interface {
	// Export renders the conversation and returns the content.
	Export(conv *model.Conversation) ([]byte, error)

	// FileExtension returns the format's extension (".md", ".json").
	FileExtension() string
}

// =============================================================================
// OPTIONS
// =============================================================================

// Options configures export behavior.
type Options struct {
	// OutputDir is where files are written. Default: working directory.
	OutputDir string

	// IncludeMetadata includes the YAML frontmatter header.
	IncludeMetadata bool

	// IncludeTimestamps includes per-message timestamps.
	IncludeTimestamps bool
}

// DefaultOptions returns default export options.
func DefaultOptions() *Options {
	return &Options{
		IncludeMetadata:   true,
		IncludeTimestamps: true,
	}
}

// =============================================================================
// FILE EXPORT
// =============================================================================

// ForFormat returns the exporter for a format name.
func ForFormat(format string, opts *Options) (Exporter, error) {
	switch strings.ToLower(format) {
	case "md", "markdown":
		return NewMarkdownExporter(opts), nil
	case "json":
		return NewJSONExporter(opts), nil
	default:
		return nil, fmt.Errorf("unsupported export format %q (want markdown or json)", format)
	}
}

// ToFile exports a conversation and writes it under the options' output
// directory, returning the written path.
func ToFile(conv *model.Conversation, format string, opts *Options) (string, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	exp, err := ForFormat(format, opts)
	if err != nil {
		return "", err
	}

	data, err := exp.Export(conv)
	if err != nil {
		return "", err
	}

	dir := opts.OutputDir
	if dir == "" {
		dir, err = os.Getwd()
		if err != nil {
			return "", err
		}
	}

	path := filepath.Join(dir, exportFileName(conv)+exp.FileExtension())
	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, nil
}

// exportFileName builds a filesystem-safe name from the check-in date
// and title.
func exportFileName(conv *model.Conversation) string {
	date := conv.CreatedAt.Format("2006-01-02")
	if conv.CreatedAt.IsZero() {
		date = time.Now().Format("2006-01-02")
	}

	title := strings.ToLower(conv.GetTitle())
	var sb strings.Builder
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			sb.WriteRune('-')
		}
	}
	slug := strings.Trim(sb.String(), "-")
	if slug == "" {
		slug = "check-in"
	}
	if len(slug) > 40 {
		slug = slug[:40]
	}
	return "nafsy-" + date + "-" + slug
}
