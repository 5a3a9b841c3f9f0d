// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

// Command represents a slash command that can be executed.
type Command struct {
	// Name is the primary command name (e.g., "/help")
	Name string

	// Aliases are alternative names (e.g., "/h", "/?")
	Aliases []string

	// Description is shown in help and completion
	Description string

	// Usage shows argument syntax (e.g., "/exercise <id>")
	Usage string

	// Args defines the expected arguments
	Args []ArgDef

	// Handler executes the command
	Handler func(args []string) tea.Cmd

	// Hidden commands don't appear in help
	Hidden bool

	// Category for grouping in help display
	Category string
}

// ArgDef defines an argument for a command.
type ArgDef struct {
	// Name of the argument
	Name string

	// Required indicates if the argument must be provided
	Required bool

	// Type determines completion behavior
	Type ArgType

	// Description explains the argument
	Description string

	// Values for enum types
	Values []string
}

// ArgType indicates what kind of completion to provide.
type ArgType int

const (
	ArgTypeString   ArgType = iota // Free-form string
	ArgTypeEnum                    // One of predefined values
	ArgTypeCheckIn                 // Saved check-in ID
	ArgTypeExercise                // Exercise ID from the catalog
	ArgTypeModel                   // Model name from the backend
)

// =============================================================================
// COMMAND REGISTRY
// =============================================================================

// Registry holds all registered commands.
type Registry struct {
	commands map[string]*Command
	aliases  map[string]*Command
}

// NewRegistry creates a registry with all built-in commands.
func NewRegistry() *Registry {
	r := &Registry{
		commands: make(map[string]*Command),
		aliases:  make(map[string]*Command),
	}
	r.registerBuiltins()
	return r
}

// Register adds a command to the registry.
func (r *Registry) Register(cmd *Command) {
	r.commands[cmd.Name] = cmd
	for _, alias := range cmd.Aliases {
		r.aliases[alias] = cmd
	}
}

// Get retrieves a command by name or alias.
func (r *Registry) Get(name string) *Command {
	if cmd, ok := r.commands[name]; ok {
		return cmd
	}
	if cmd, ok := r.aliases[name]; ok {
		return cmd
	}
	return nil
}

// All returns all registered commands.
func (r *Registry) All() []*Command {
	cmds := make([]*Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		cmds = append(cmds, cmd)
	}
	return cmds
}

// ByCategory returns visible commands grouped by category.
func (r *Registry) ByCategory() map[string][]*Command {
	result := make(map[string][]*Command)
	for _, cmd := range r.commands {
		if cmd.Hidden {
			continue
		}
		category := cmd.Category
		if category == "" {
			category = "General"
		}
		result[category] = append(result[category], cmd)
	}
	return result
}

// =============================================================================
// BUILT-IN COMMANDS
// =============================================================================

func (r *Registry) registerBuiltins() {
	// Navigation
	r.Register(&Command{
		Name:        "/help",
		Aliases:     []string{"/h", "/?"},
		Description: "Show help and available commands",
		Usage:       "/help [category]",
		Args: []ArgDef{
			{Name: "category", Type: ArgTypeEnum,
				Values:      []string{"navigation", "check-in", "wellness", "display", "settings"},
				Description: "Help category"},
		},
		Category: "Navigation",
		Handler:  handleHelp,
	})

	r.Register(&Command{
		Name:        "/quit",
		Aliases:     []string{"/q", "/exit"},
		Description: "Exit nafsy",
		Category:    "Navigation",
		Handler:     handleQuit,
	})

	// Check-in
	r.Register(&Command{
		Name:        "/new",
		Aliases:     []string{"/n"},
		Description: "Start a fresh check-in",
		Category:    "Check-in",
		Handler:     handleNew,
	})

	r.Register(&Command{
		Name:        "/save",
		Aliases:     []string{"/s"},
		Description: "Save the current check-in",
		Usage:       "/save [title]",
		Args: []ArgDef{
			{Name: "title", Type: ArgTypeString, Description: "Optional title"},
		},
		Category: "Check-in",
		Handler:  handleSave,
	})

	r.Register(&Command{
		Name:        "/load",
		Aliases:     []string{"/l", "/resume"},
		Description: "Load a saved check-in",
		Usage:       "/load <id>",
		Args: []ArgDef{
			{Name: "id", Required: true, Type: ArgTypeCheckIn, Description: "Check-in to load"},
		},
		Category: "Check-in",
		Handler:  handleLoad,
	})

	r.Register(&Command{
		Name:        "/list",
		Aliases:     []string{"/sessions"},
		Description: "List saved check-ins",
		Category:    "Check-in",
		Handler:     handleList,
	})

	r.Register(&Command{
		Name:        "/clear",
		Aliases:     []string{"/c"},
		Description: "Clear the current conversation",
		Category:    "Check-in",
		Handler:     handleClear,
	})

	r.Register(&Command{
		Name:        "/export",
		Description: "Export the check-in to a file",
		Usage:       "/export [markdown|json]",
		Args: []ArgDef{
			{Name: "format", Type: ArgTypeEnum, Values: []string{"markdown", "json"},
				Description: "Export format"},
		},
		Category: "Check-in",
		Handler:  handleExport,
	})

	// Wellness
	r.Register(&Command{
		Name:        "/mood",
		Description: "Log your mood or view the summary",
		Usage:       "/mood [summary]",
		Args: []ArgDef{
			{Name: "mode", Type: ArgTypeEnum, Values: []string{"summary"},
				Description: "Show the summary instead of logging"},
		},
		Category: "Wellness",
		Handler:  handleMood,
	})

	r.Register(&Command{
		Name:        "/exercise",
		Aliases:     []string{"/ex"},
		Description: "Start a guided exercise",
		Usage:       "/exercise [id]",
		Args: []ArgDef{
			{Name: "id", Type: ArgTypeExercise, Description: "Exercise to run"},
		},
		Category: "Wellness",
		Handler:  handleExercise,
	})

	r.Register(&Command{
		Name:        "/breathe",
		Description: "Start the box breathing exercise",
		Category:    "Wellness",
		Handler:     handleBreathe,
	})

	// Display
	r.Register(&Command{
		Name:        "/pause",
		Description: "Pause the paced reveal",
		Category:    "Display",
		Handler:     handlePause,
	})

	r.Register(&Command{
		Name:        "/resume",
		Description: "Resume the paced reveal",
		Category:    "Display",
		Handler:     handleResume,
	})

	r.Register(&Command{
		Name:        "/replay",
		Description: "Replay the last reply from the first chunk",
		Category:    "Display",
		Handler:     handleReplay,
	})

	// Settings
	r.Register(&Command{
		Name:        "/profile",
		Description: "Show or edit your profile",
		Category:    "Settings",
		Handler:     handleProfile,
	})

	r.Register(&Command{
		Name:        "/lock",
		Description: "Enable, disable, or change the app lock",
		Usage:       "/lock [on|off|change]",
		Args: []ArgDef{
			{Name: "action", Type: ArgTypeEnum, Values: []string{"on", "off", "change"},
				Description: "Lock action"},
		},
		Category: "Settings",
		Handler:  handleLock,
	})

	r.Register(&Command{
		Name:        "/model",
		Aliases:     []string{"/m"},
		Description: "Switch or show the companion model",
		Usage:       "/model [name]",
		Args: []ArgDef{
			{Name: "name", Type: ArgTypeModel, Description: "Model to switch to"},
		},
		Category: "Settings",
		Handler:  handleModel,
	})

	r.Register(&Command{
		Name:        "/theme",
		Description: "Switch the color theme",
		Usage:       "/theme <dark|light|auto>",
		Args: []ArgDef{
			{Name: "theme", Required: true, Type: ArgTypeEnum,
				Values: []string{"dark", "light", "auto"}, Description: "Theme name"},
		},
		Category: "Settings",
		Handler:  handleTheme,
	})

	r.Register(&Command{
		Name:        "/stats",
		Description: "Toggle generation statistics",
		Category:    "Settings",
		Handler:     handleStats,
		Hidden:      true,
	})
}
