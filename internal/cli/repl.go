// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// repl.go - line-mode chat fallback.
//
// Command: chat
// Short:   Talk with the companion without the full TUI
//
// The REPL keeps readline-style history and streams tokens straight to
// stdout. Paced reveal belongs to the TUI; here the reply simply prints
// as it arrives. Ctrl+C cancels the reply in flight, Ctrl+D exits.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/peterh/liner"

	"github.com/nafsy-app/nafsy-tui/internal/companion"
	"github.com/nafsy-app/nafsy-tui/internal/config"
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// replInput wraps liner with persistent history.
type replInput struct {
	line        *liner.State
	historyFile string
}

func newReplInput(cfg *config.Config) *replInput {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	dataDir, err := cfg.DataDir()
	if err != nil {
		dataDir = os.TempDir()
	}
	r := &replInput{
		line:        line,
		historyFile: filepath.Join(dataDir, "chat_history"),
	}
	if f, err := os.Open(r.historyFile); err == nil {
		r.line.ReadHistory(f)
		f.Close()
	}
	return r
}

func (r *replInput) Read(prompt string) (string, error) {
	input, err := r.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		r.line.AppendHistory(input)
	}
	return input, nil
}

func (r *replInput) Close() {
	// History carries conversation fragments; keep it private.
	if f, err := os.OpenFile(r.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
		r.line.WriteHistory(f)
		f.Close()
	}
	r.line.Close()
}

// =============================================================================
// REPL
// =============================================================================

func runChat(args []string) error {
	parser := NewArgParser(args)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	modelName := parser.Flag("model", parser.Flag("m", cfg.Companion.Model))
	quiet := parser.BoolFlag("quiet") || parser.BoolFlag("q")

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
	}

	input := newReplInput(cfg)
	defer input.Close()

	if !quiet {
		fmt.Println(mutedStyle.Render("nafsy " + Version + " · " + modelName + " · Ctrl+D to leave"))
	}

	var cancelCurrent context.CancelFunc
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigs)
	go func() {
		for range sigs {
			if cancelCurrent != nil {
				cancelCurrent()
				fmt.Fprintln(os.Stderr, "\n"+warningStyle.Render("[cancelled]"))
			}
		}
	}()

	for {
		line, err := input.Read(promptStyle.Render("you> "))
		if err != nil {
			// liner.ErrPromptAborted (Ctrl+C) or EOF (Ctrl+D)
			fmt.Println()
			return nil
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "/quit" || line == "/exit" {
			return nil
		}

		messages = append(messages, companion.NewUserMessage(line))

		ctx, cancel := context.WithCancel(context.Background())
		cancelCurrent = cancel

		var reply strings.Builder
		fmt.Print(successStyle.Render("nafsy> "))
		err = client.ChatStream(ctx, modelName, messages, func(chunk companion.StreamChunk) {
			if chunk.Done {
				return
			}
			reply.WriteString(chunk.Content)
			fmt.Print(chunk.Content)
		})
		cancel()
		cancelCurrent = nil
		fmt.Println()

		if err != nil {
			if ctx.Err() == context.Canceled {
				// Drop the cancelled exchange from history.
				messages = messages[:len(messages)-1]
				continue
			}
			fmt.Fprintln(os.Stderr, errorStyle.Render("error: ")+err.Error())
			messages = messages[:len(messages)-1]
			continue
		}
		messages = append(messages, companion.Message{Role: "assistant", Content: reply.String()})
	}
}
