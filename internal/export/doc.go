// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export renders check-ins to Markdown and JSON files.
//
// Markdown export produces a journal-style document with YAML
// frontmatter; JSON export is a lossless dump for people migrating their
// data elsewhere. RenderPreview runs the Markdown through glamour for an
// in-terminal look before writing anything.
package export
