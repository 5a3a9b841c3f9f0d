// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"sort"
	"strings"
)

// =============================================================================
// COMPLETER
// =============================================================================

// Completion is one tab-completion candidate.
type Completion struct {
	// Text is the full replacement text
	Text string
	// Display is what the completion list shows
	Display string
	// Description explains the candidate
	Description string
}

// Completer handles tab completion for commands and arguments.
type Completer struct {
	registry *Registry

	// Dynamic completion sources, set by the application
	ModelsFn    func() []string // available backend models
	CheckInsFn  func() []string // saved check-in IDs
	ExercisesFn func() []string // exercise catalog IDs
}

// NewCompleter creates a completer over the given registry.
func NewCompleter(registry *Registry) *Completer {
	return &Completer{registry: registry}
}

// Complete returns candidates for the input at the cursor position.
func (c *Completer) Complete(input string, cursorPos int) []Completion {
	if cursorPos < len(input) {
		input = input[:cursorPos]
	}

	if !strings.HasPrefix(strings.TrimLeft(input, " "), "/") {
		return nil
	}
	trailingSpace := strings.HasSuffix(input, " ")
	input = strings.TrimSpace(input)

	parts := splitCommandLine(input)
	if len(parts) == 0 {
		return c.completeCommands("")
	}

	// Still typing the command name
	if len(parts) == 1 && !trailingSpace {
		return c.completeCommands(parts[0])
	}

	cmd := c.registry.Get(strings.ToLower(parts[0]))
	if cmd == nil {
		return nil
	}

	argIndex := len(parts) - 2
	partial := ""
	if trailingSpace {
		argIndex++
	} else if len(parts) > 1 {
		partial = parts[len(parts)-1]
	}
	if argIndex < 0 || argIndex >= len(cmd.Args) {
		return nil
	}

	return c.completeArg(cmd.Args[argIndex], partial)
}

func (c *Completer) completeCommands(prefix string) []Completion {
	prefix = strings.ToLower(prefix)
	var out []Completion

	for _, cmd := range c.registry.All() {
		if cmd.Hidden {
			continue
		}
		names := append([]string{cmd.Name}, cmd.Aliases...)
		for _, name := range names {
			if strings.HasPrefix(name, prefix) {
				out = append(out, Completion{
					Text:        name,
					Display:     name,
					Description: cmd.Description,
				})
				break // one candidate per command
			}
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Text < out[j].Text })
	return out
}

func (c *Completer) completeArg(def ArgDef, partial string) []Completion {
	var values []string

	switch def.Type {
	case ArgTypeEnum:
		values = def.Values
	case ArgTypeModel:
		if c.ModelsFn != nil {
			values = c.ModelsFn()
		}
	case ArgTypeCheckIn:
		if c.CheckInsFn != nil {
			values = c.CheckInsFn()
		}
	case ArgTypeExercise:
		if c.ExercisesFn != nil {
			values = c.ExercisesFn()
		}
	default:
		return nil
	}

	partial = strings.ToLower(partial)
	var out []Completion
	for _, v := range values {
		if strings.HasPrefix(strings.ToLower(v), partial) {
			out = append(out, Completion{Text: v, Display: v, Description: def.Description})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Text < out[j].Text })
	return out
}
