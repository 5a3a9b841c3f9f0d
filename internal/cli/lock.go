// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// lock.go - app lock management.
//
// Command: lock <on|off|change|status>
// Short:   Manage the PIN that gates access to your check-ins
//
// Enabling the lock enrolls a TOTP recovery secret; the otpauth:// URL
// prints exactly once. Losing both the PIN and the authenticator means
// the lock can only be removed by deleting the profile.
package cli

import (
	"errors"
	"fmt"

	"github.com/nafsy-app/nafsy-tui/internal/profile"
)

func runLock(args []string) error {
	parser := NewArgParser(args)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	path, err := cfg.ProfilePath()
	if err != nil {
		return err
	}
	store := profile.NewStore(path)
	prof, err := store.Load()
	if err != nil {
		if errors.Is(err, profile.ErrNoProfile) {
			return fmt.Errorf("no profile yet - start nafsy once to run setup")
		}
		return err
	}

	switch parser.Subcommand() {
	case "", "status":
		if prof.Locked() {
			fmt.Println(successStyle.Render("app lock is on"))
		} else {
			fmt.Println(mutedStyle.Render("app lock is off"))
		}
		return nil

	case "on":
		if prof.Locked() {
			return fmt.Errorf("the lock is already enabled; use `nafsy lock change`")
		}
		pin, err := profile.PromptPIN("Choose a PIN (4-32 chars): ")
		if err != nil {
			return err
		}
		confirm, err := profile.PromptPIN("Confirm PIN: ")
		if err != nil {
			return err
		}
		if pin != confirm {
			return fmt.Errorf("PINs did not match")
		}
		url, err := prof.EnableLock(pin)
		if err != nil {
			return err
		}
		if err := store.Save(prof); err != nil {
			return err
		}
		fmt.Println(successStyle.Render("app lock enabled"))
		fmt.Println()
		fmt.Println("Add this to your authenticator app now - it will not be shown again:")
		fmt.Println("  " + url)
		return nil

	case "off":
		pin, err := profile.PromptPIN("Current PIN: ")
		if err != nil {
			return err
		}
		if err := prof.DisableLock(pin); err != nil {
			return err
		}
		if err := store.Save(prof); err != nil {
			return err
		}
		fmt.Println(successStyle.Render("app lock disabled"))
		return nil

	case "change":
		current, err := profile.PromptPIN("Current PIN: ")
		if err != nil {
			return err
		}
		next, err := profile.PromptPIN("New PIN: ")
		if err != nil {
			return err
		}
		confirm, err := profile.PromptPIN("Confirm new PIN: ")
		if err != nil {
			return err
		}
		if next != confirm {
			return fmt.Errorf("PINs did not match")
		}
		if err := prof.ChangePIN(current, next, false); err != nil {
			return err
		}
		if err := store.Save(prof); err != nil {
			return err
		}
		fmt.Println(successStyle.Render("PIN changed"))
		return nil
	}

	return fmt.Errorf("usage: nafsy lock <on|off|change|status>")
}
