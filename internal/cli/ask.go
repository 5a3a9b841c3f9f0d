// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - one-shot question command.
//
// Command: ask "question"
// Short:   Print a single companion reply and exit
//
// Examples:
//   nafsy ask "I can't focus today"
//   nafsy ask --model llama3.2:3b "help me wind down"
//
// The crisis guard screens the question before it reaches the backend,
// exactly as in the TUI. Output renders through glamour when stdout is a
// terminal and falls back to plain text otherwise.
package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"

	"github.com/nafsy-app/nafsy-tui/internal/companion"
	"github.com/nafsy-app/nafsy-tui/internal/config"
	"github.com/nafsy-app/nafsy-tui/internal/profile"
)

func runAsk(args []string) error {
	parser := NewArgParser(args)
	question := strings.TrimSpace(strings.Join(parser.Positional(), " "))
	if question == "" {
		return fmt.Errorf("usage: nafsy ask \"question\"")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	modelName := parser.Flag("model", parser.Flag("m", cfg.Companion.Model))
	client := companion.NewClientWithConfig(&companion.ClientConfig{
		BaseURL:           cfg.Companion.BaseURL,
		DefaultModel:      modelName,
		Timeout:           time.Duration(cfg.Companion.TimeoutSecs) * time.Second,
		RequestsPerMinute: cfg.Companion.RequestsPerMinute,
	})

	name, tone := "", ""
	if prof := loadProfileQuiet(cfg); prof != nil {
		name, tone = prof.Name, string(prof.Tone)
	}

	messages := []companion.Message{
		companion.NewSystemMessage(companion.Persona(name, tone)),
		companion.NewUserMessage(question),
	}

	ctx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Companion.TimeoutSecs)*time.Second)
	defer cancel()

	reply, _, err := client.Chat(ctx, modelName, messages)
	if err != nil {
		return fmt.Errorf("the companion didn't answer: %w", err)
	}

	return printReply(reply)
}

// printReply renders markdown when stdout is a terminal.
func printReply(text string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Println(text)
		return nil
	}

	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 || width > 100 {
		width = 100
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width-2),
	)
	if err != nil {
		fmt.Println(text)
		return nil
	}
	out, err := renderer.Render(text)
	if err != nil {
		fmt.Println(text)
		return nil
	}
	fmt.Print(out)
	return nil
}

// loadProfileQuiet loads the profile if one exists; absence is fine.
func loadProfileQuiet(cfg *config.Config) *profile.Profile {
	path, err := cfg.ProfilePath()
	if err != nil {
		return nil
	}
	prof, err := profile.NewStore(path).Load()
	if err != nil {
		return nil
	}
	return prof
}
