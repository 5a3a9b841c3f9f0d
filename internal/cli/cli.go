// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - command recognition and dispatch for nafsy.
package cli

import (
	"fmt"
	"os"

	"github.com/nafsy-app/nafsy-tui/internal/config"
)

// Version information (overridden at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command is the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdChat
	CmdList
	CmdExport
	CmdMood
	CmdLock
	CmdDoctor
	CmdVersion
	CmdHelp
)

const usageText = `nafsy - a gentle companion for your terminal

Nafsy pairs a local language model with paced, chunk-by-chunk replies,
so a check-in reads at a human tempo instead of scrolling past. Nothing
leaves your machine unless you point it at a remote backend yourself.

Usage:
  nafsy                       Start the companion (default)
  nafsy ask "question"        One reply, printed and done
  nafsy chat                  Line-mode chat without the full TUI
  nafsy list [query]          List or search saved check-ins
  nafsy export <id>           Export a check-in
    --format markdown|json    Export format (default: markdown)
  nafsy mood                  Show your mood summary
  nafsy lock <on|off|change|status>
                              Manage the app lock PIN
  nafsy doctor                Check the backend, config, and data dir
  nafsy version               Print version information

Flags:
  --model NAME, -m NAME       Override the configured model
  --quiet, -q                 Suppress decorative output

While a reply is revealed in the TUI: space pauses, left/right step
between chunks, tab shows the rest at once.`

// ParseCommand maps the first argument onto a Command. The remaining
// arguments belong to that command.
func ParseCommand(args []string) (Command, []string) {
	if len(args) == 0 {
		return CmdTUI, nil
	}
	rest := args[1:]
	switch args[0] {
	case "ask", "a":
		return CmdAsk, rest
	case "chat", "repl":
		return CmdChat, rest
	case "list", "ls":
		return CmdList, rest
	case "export":
		return CmdExport, rest
	case "mood":
		return CmdMood, rest
	case "lock":
		return CmdLock, rest
	case "doctor", "diag":
		return CmdDoctor, rest
	case "version", "--version", "-v":
		return CmdVersion, nil
	case "help", "--help", "-h":
		return CmdHelp, nil
	default:
		// Unrecognized words read as a question, so `nafsy how do I...`
		// still answers.
		return CmdAsk, args
	}
}

// Run executes a non-TUI command. CmdTUI is the caller's business.
func Run(cmd Command, args []string) error {
	switch cmd {
	case CmdAsk:
		return runAsk(args)
	case CmdChat:
		return runChat(args)
	case CmdList:
		return runList(args)
	case CmdExport:
		return runExport(args)
	case CmdMood:
		return runMood(args)
	case CmdLock:
		return runLock(args)
	case CmdDoctor:
		return runDoctor(args)
	case CmdVersion:
		fmt.Printf("nafsy %s (%s, built %s)\n", Version, GitCommit, BuildDate)
		return nil
	case CmdHelp:
		fmt.Println(usageText)
		return nil
	}
	return fmt.Errorf("unknown command")
}

// loadConfig loads and validates the configuration, with environment
// overrides applied.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Fatal prints an error and exits non-zero.
func Fatal(err error) {
	fmt.Fprintln(os.Stderr, errorStyle.Render("error: ")+err.Error())
	os.Exit(1)
}
