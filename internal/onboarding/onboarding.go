// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package onboarding runs the first-launch setup wizard.
//
// The wizard explains what nafsy is and where data lives, then collects
// a name, a companion tone, a weekly check-in goal, and optionally
// enables the app lock. It runs before the TUI starts and writes the
// resulting profile through the profile store.
package onboarding

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/nafsy-app/nafsy-tui/internal/profile"
)

// ErrCancelled is returned when the user aborts the wizard.
var ErrCancelled = errors.New("setup cancelled")

// Result carries what the wizard produced.
type Result struct {
	Profile *profile.Profile

	// RecoveryURL is the otpauth:// enrollment URL when the app lock was
	// enabled, empty otherwise. Shown once and never stored in clear.
	RecoveryURL string
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// newForm applies the shared form settings; accessible mode keeps the
// wizard usable when stdin is not a TTY (CI, screen readers).
func newForm(groups ...*huh.Group) *huh.Form {
	form := huh.NewForm(groups...).WithTheme(huh.ThemeBase16())
	if !isTerminal() {
		form = form.WithAccessible(true)
	}
	return form
}

// Run walks the user through setup and saves the profile.
func Run(store *profile.Store) (*Result, error) {
	var (
		name     string
		tone     = string(profile.ToneGentle)
		goal     = "3"
		wantLock bool
		consent  bool
	)

	consentForm := newForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Before we start").
				Description("Nafsy is a companion, not a therapist. Check-ins and "+
					"moods are stored only on this machine, and nothing is sent "+
					"anywhere except your local model backend."),

			huh.NewConfirm().
				Title("Sound okay?").
				Affirmative("Yes, let's go").
				Negative("No thanks").
				Value(&consent),
		),
	)
	if err := consentForm.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return nil, ErrCancelled
		}
		return nil, err
	}
	if !consent {
		return nil, ErrCancelled
	}

	form := newForm(
		huh.NewGroup(
			huh.NewInput().
				Title("What should I call you?").
				Description("A first name or nickname is plenty.").
				CharLimit(64).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("a name helps the conversation feel less empty")
					}
					return nil
				}).
				Value(&name),

			huh.NewSelect[string]().
				Title("How should the companion speak?").
				Options(
					huh.NewOption("Gentle - soft, validating, unhurried", string(profile.ToneGentle)),
					huh.NewOption("Direct - kind but plain", string(profile.ToneDirect)),
					huh.NewOption("Cheerful - a little lighter", string(profile.ToneCheerful)),
				).
				Value(&tone),

			huh.NewSelect[string]().
				Title("How often would you like to check in?").
				Description("A gentle target, not a commitment.").
				Options(
					huh.NewOption("A few times a week", "3"),
					huh.NewOption("Once a day", "7"),
					huh.NewOption("Twice a day", "14"),
				).
				Value(&goal),

			huh.NewConfirm().
				Title("Protect your check-ins with a PIN?").
				Description("Everything stays on this machine either way.").
				Affirmative("Yes, lock it").
				Negative("Not now").
				Value(&wantLock),
		),
	)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return nil, ErrCancelled
		}
		return nil, err
	}

	goalN := 3
	fmt.Sscanf(goal, "%d", &goalN)

	prof, err := profile.New(strings.TrimSpace(name), profile.Tone(tone), goalN)
	if err != nil {
		return nil, err
	}

	result := &Result{Profile: prof}
	if wantLock {
		url, err := enableLock(prof)
		if err != nil {
			return nil, err
		}
		result.RecoveryURL = url
	}

	if err := store.Save(prof); err != nil {
		return nil, err
	}
	return result, nil
}

// enableLock collects a PIN twice and enrolls the recovery TOTP secret.
func enableLock(prof *profile.Profile) (string, error) {
	var pin, confirm string

	form := newForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Choose a PIN").
				Description("4-32 characters; you'll type it on every launch.").
				EchoMode(huh.EchoModePassword).
				Validate(func(s string) error {
					if len(s) < 4 || len(s) > 32 {
						return profile.ErrPINFormat
					}
					return nil
				}).
				Value(&pin),
			huh.NewInput().
				Title("Confirm your PIN").
				EchoMode(huh.EchoModePassword).
				Value(&confirm),
		),
	)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", ErrCancelled
		}
		return "", err
	}
	if pin != confirm {
		return "", errors.New("PINs did not match; run `nafsy lock on` to try again")
	}
	return prof.EnableLock(pin)
}

// RunSkipped creates a default profile when the wizard cannot run (no
// terminal, scripted start). The name stays empty and no lock is set.
func RunSkipped(store *profile.Store) (*profile.Profile, error) {
	prof, err := profile.New("friend", profile.ToneGentle, 3)
	if err != nil {
		return nil, err
	}
	if err := store.Save(prof); err != nil {
		return nil, err
	}
	return prof, nil
}
