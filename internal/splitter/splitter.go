// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package splitter turns companion responses into reveal chunk sequences.
package splitter

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// =============================================================================
// SPLITTER
// =============================================================================

// DefaultMaxChunkRunes is the rune budget per chunk. Sized for a floating
// chat bubble on a typical 80-column terminal without scrolling.
const DefaultMaxChunkRunes = 280

// sentenceEnders terminate a sentence when followed by whitespace or end
// of text. Includes Arabic full stop and question mark since companion
// responses may be bilingual.
var sentenceEnders = []rune{'.', '!', '?', '…', '۔', '؟'}

// Splitter splits response text into display chunks.
type Splitter struct {
	maxRunes int
}

// New creates a splitter with the given rune budget per chunk. Budgets
// <= 0 fall back to DefaultMaxChunkRunes.
func New(maxRunes int) *Splitter {
	if maxRunes <= 0 {
		maxRunes = DefaultMaxChunkRunes
	}
	return &Splitter{maxRunes: maxRunes}
}

// Split breaks text into an ordered chunk sequence.
//
// The input is NFC-normalized first so that content equality between two
// renderings of the same response holds even when upstream produced
// different byte sequences for the same characters; the reveal controller
// relies on that equality to keep its position across re-supplies.
func (s *Splitter) Split(text string) []string {
	text = norm.NFC.String(text)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var chunks []string
	for _, para := range splitParagraphs(text) {
		if len([]rune(para)) <= s.maxRunes {
			chunks = append(chunks, para)
			continue
		}
		chunks = append(chunks, s.packSentences(para)...)
	}
	return chunks
}

// Split breaks text into chunks using the default budget.
func Split(text string) []string {
	return New(0).Split(text)
}

// =============================================================================
// PARAGRAPHS
// =============================================================================

// splitParagraphs splits on one or more blank lines, trimming each
// paragraph and dropping empties.
func splitParagraphs(text string) []string {
	var paras []string
	for _, p := range strings.Split(text, "\n\n") {
		p = strings.TrimSpace(p)
		if p != "" {
			paras = append(paras, p)
		}
	}
	return paras
}

// =============================================================================
// SENTENCES
// =============================================================================

// packSentences splits an oversized paragraph into sentences and packs
// them greedily into chunks within the rune budget.
func (s *Splitter) packSentences(para string) []string {
	sentences := splitSentences(para)

	var chunks []string
	var cur strings.Builder
	curRunes := 0

	flush := func() {
		if curRunes > 0 {
			chunks = append(chunks, strings.TrimSpace(cur.String()))
			cur.Reset()
			curRunes = 0
		}
	}

	for _, sent := range sentences {
		n := len([]rune(sent))
		if n > s.maxRunes {
			// A single runaway sentence: flush what we have and
			// hard-split it at rune boundaries.
			flush()
			chunks = append(chunks, hardSplit(sent, s.maxRunes)...)
			continue
		}
		if curRunes > 0 && curRunes+1+n > s.maxRunes {
			flush()
		}
		if curRunes > 0 {
			cur.WriteByte(' ')
			curRunes++
		}
		cur.WriteString(sent)
		curRunes += n
	}
	flush()
	return chunks
}

// splitSentences breaks a paragraph at sentence-ending punctuation
// followed by whitespace. Trailing closers (quotes, parens) stay attached
// to the sentence they end.
func splitSentences(para string) []string {
	runes := []rune(para)
	var sentences []string
	start := 0

	for i := 0; i < len(runes); i++ {
		if !isSentenceEnder(runes[i]) {
			continue
		}
		// Swallow consecutive enders ("...", "?!") and closing marks.
		j := i + 1
		for j < len(runes) && (isSentenceEnder(runes[j]) || runes[j] == '"' || runes[j] == '\'' || runes[j] == ')' || runes[j] == '»') {
			j++
		}
		if j < len(runes) && !isSpace(runes[j]) {
			continue
		}
		sent := strings.TrimSpace(string(runes[start:j]))
		if sent != "" {
			sentences = append(sentences, sent)
		}
		i = j
		start = j
	}

	if rest := strings.TrimSpace(string(runes[start:])); rest != "" {
		sentences = append(sentences, rest)
	}
	return sentences
}

func isSentenceEnder(r rune) bool {
	for _, e := range sentenceEnders {
		if r == e {
			return true
		}
	}
	return false
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n'
}

// hardSplit cuts text at rune boundaries into budget-sized pieces,
// preferring the last space inside the window when one exists.
func hardSplit(text string, maxRunes int) []string {
	runes := []rune(text)
	var parts []string

	for len(runes) > 0 {
		if len(runes) <= maxRunes {
			parts = append(parts, strings.TrimSpace(string(runes)))
			break
		}
		cut := maxRunes
		for k := maxRunes - 1; k > maxRunes/2; k-- {
			if isSpace(runes[k]) {
				cut = k
				break
			}
		}
		part := strings.TrimSpace(string(runes[:cut]))
		if part != "" {
			parts = append(parts, part)
		}
		runes = runes[cut:]
		for len(runes) > 0 && isSpace(runes[0]) {
			runes = runes[1:]
		}
	}
	return parts
}
