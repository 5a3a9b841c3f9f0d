// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// nafsy - a gentle mental-wellness companion for the terminal.
//
// Launch flow: parse CLI arguments, hand non-TUI commands to the cli
// package, otherwise load config, pass the app lock, run first-launch
// onboarding when no profile exists, open the stores, and start the
// Bubble Tea program.
package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/nafsy-app/nafsy-tui/internal/cli"
	"github.com/nafsy-app/nafsy-tui/internal/companion"
	"github.com/nafsy-app/nafsy-tui/internal/config"
	"github.com/nafsy-app/nafsy-tui/internal/exercise"
	"github.com/nafsy-app/nafsy-tui/internal/mood"
	"github.com/nafsy-app/nafsy-tui/internal/onboarding"
	"github.com/nafsy-app/nafsy-tui/internal/profile"
	"github.com/nafsy-app/nafsy-tui/internal/storage"
	"github.com/nafsy-app/nafsy-tui/internal/ui/chat"
	"github.com/nafsy-app/nafsy-tui/internal/ui/styles"
)

func main() {
	cmd, rest := cli.ParseCommand(os.Args[1:])
	if cmd != cli.CmdTUI {
		if err := cli.Run(cmd, rest); err != nil {
			cli.Fatal(err)
		}
		return
	}

	if err := runTUI(); err != nil {
		cli.Fatal(err)
	}
}

func runTUI() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	profilePath, err := cfg.ProfilePath()
	if err != nil {
		return err
	}
	profStore := profile.NewStore(profilePath)

	prof, err := profStore.Load()
	switch {
	case errors.Is(err, profile.ErrNoProfile):
		prof, err = firstLaunch(profStore)
		if err != nil {
			return err
		}
	case err != nil:
		return fmt.Errorf("loading profile: %w", err)
	}

	if prof.Locked() {
		if err := unlock(prof); err != nil {
			return err
		}
	}

	stores, cleanup, err := openStores(cfg)
	if err != nil {
		return err
	}
	defer cleanup()
	stores.Profiles = profStore

	client := companion.NewClientWithConfig(&companion.ClientConfig{
		BaseURL:           cfg.Companion.BaseURL,
		DefaultModel:      cfg.Companion.Model,
		Timeout:           time.Duration(cfg.Companion.TimeoutSecs) * time.Second,
		RequestsPerMinute: cfg.Companion.RequestsPerMinute,
	})

	theme := themeFor(cfg)
	m := chat.New(cfg, prof, client, stores, theme)

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	// Background goroutines (stream reader, reveal timer) deliver their
	// messages through this handle.
	m.Attach(p.Send)

	if w := watchConfig(p); w != nil {
		defer w.Close()
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running ui: %w", err)
	}
	return nil
}

// watchConfig hot-reloads config edits into the running program. Missing
// config file or watcher setup failure just means no hot-reload.
func watchConfig(p *tea.Program) *config.Watcher {
	path, err := config.PathTOML()
	if err != nil {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	w, err := config.NewWatcher(path, time.Second, func(cfg *config.Config) {
		cfg.ApplyEnvOverrides()
		if err := cfg.Validate(); err != nil {
			return
		}
		p.Send(chat.ConfigReloadedMsg{Config: cfg})
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "warning: config watch unavailable:", err)
		return nil
	}
	if err := w.Watch(); err != nil {
		fmt.Fprintln(os.Stderr, "warning: config watch unavailable:", err)
		w.Close()
		return nil
	}
	return w
}

// firstLaunch runs the onboarding wizard, falling back to a placeholder
// profile when no terminal is attached.
func firstLaunch(store *profile.Store) (*profile.Profile, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return onboarding.RunSkipped(store)
	}
	result, err := onboarding.Run(store)
	if err != nil {
		if errors.Is(err, onboarding.ErrCancelled) {
			return onboarding.RunSkipped(store)
		}
		return nil, err
	}
	if result.RecoveryURL != "" {
		fmt.Println("\nAdd this to your authenticator app now - it will not be shown again:")
		fmt.Println("  " + result.RecoveryURL)
		fmt.Print("\nPress enter to continue...")
		fmt.Scanln()
	}
	return result.Profile, nil
}

// unlock gates startup on the PIN, with TOTP recovery as the fallback.
func unlock(prof *profile.Profile) error {
	for {
		pin, err := profile.PromptPIN("PIN: ")
		if err != nil {
			return err
		}
		err = prof.VerifyPIN(pin)
		if err == nil {
			return nil
		}
		if errors.Is(err, profile.ErrLockedOut) {
			fmt.Fprintln(os.Stderr, "too many attempts - enter a recovery code from your authenticator")
			code, perr := profile.PromptPIN("Recovery code: ")
			if perr != nil {
				return perr
			}
			if rerr := prof.VerifyRecovery(code); rerr == nil {
				return nil
			}
			fmt.Fprintln(os.Stderr, "recovery code rejected")
			continue
		}
		fmt.Fprintln(os.Stderr, "wrong PIN")
	}
}

// openStores opens the persistence layer. A store that fails to open
// degrades that feature instead of blocking the whole app.
func openStores(cfg *config.Config) (chat.Stores, func(), error) {
	var stores chat.Stores
	cleanup := func() {}

	dataDir, err := cfg.DataDir()
	if err != nil {
		return stores, cleanup, err
	}

	if s, err := storage.NewCheckInStore(dataDir, cfg.Storage.MaxConversations); err == nil {
		stores.CheckIns = s
	} else {
		fmt.Fprintln(os.Stderr, "warning: check-in store unavailable:", err)
	}

	if path, err := cfg.MoodDBPath(); err == nil {
		if s, err := mood.Open(path); err == nil {
			stores.Moods = s
			cleanup = func() { s.Close() }
		} else {
			fmt.Fprintln(os.Stderr, "warning: mood history unavailable:", err)
		}
	}

	if path, err := cfg.ExerciseLogPath(); err == nil {
		if l, err := exercise.OpenLog(path); err == nil {
			stores.Exercises = l
		} else {
			fmt.Fprintln(os.Stderr, "warning: exercise log unavailable:", err)
		}
	}

	return stores, cleanup, nil
}

func themeFor(cfg *config.Config) *styles.Theme {
	switch cfg.UI.Theme {
	case "dark":
		return styles.NewThemeForMode(true)
	case "light":
		return styles.NewThemeForMode(false)
	default:
		return styles.NewTheme()
	}
}
