// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package splitter turns a complete companion response into the ordered
// chunk sequence consumed by the reveal controller.
//
// Splitting is paragraph-first: blank-line separated paragraphs become
// chunk boundaries, and paragraphs that exceed the rune budget are packed
// sentence by sentence. The splitter never breaks inside a sentence unless
// a single sentence alone exceeds the budget, in which case it falls back
// to a hard rune-boundary split so no chunk can overflow the floating
// display.
package splitter
