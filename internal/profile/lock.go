// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package profile

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pquerna/otp/totp"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"
)

// =============================================================================
// APP LOCK
// =============================================================================

const (
	// MinPINLength keeps the lock meaningful without becoming a password
	MinPINLength = 4
	MaxPINLength = 32

	// MaxAttempts before VerifyPIN starts enforcing a delay window
	MaxAttempts = 5
	// LockoutWindow is how long attempts stay counted
	LockoutWindow = 5 * time.Minute
)

var (
	ErrLockDisabled = errors.New("app lock not enabled")
	ErrBadPIN       = errors.New("incorrect PIN")
	ErrPINFormat    = errors.New("PIN must be 4-32 characters")
	ErrLockedOut    = errors.New("too many attempts, try again later")
	ErrBadRecovery  = errors.New("invalid recovery code")
)

// LockState is the persisted app-lock record.
type LockState struct {
	// PINHash is the bcrypt hash of the PIN
	PINHash string `json:"pin_hash"`
	// TOTPSecret is the base32 recovery secret enrolled at setup
	TOTPSecret string `json:"totp_secret"`
	// EnabledAt is when the lock was turned on
	EnabledAt time.Time `json:"enabled_at"`

	// Attempt tracking is runtime-only; a restart resets it, which is
	// acceptable for a local lock aimed at shoulder-surfers, not attackers.
	failedAttempts int
	firstFailure   time.Time
}

// EnableLock enrolls a PIN and generates the TOTP recovery secret. The
// returned otpauth URL should be shown once so the user can add it to an
// authenticator app.
func (p *Profile) EnableLock(pin string) (otpauthURL string, err error) {
	if err := checkPINFormat(pin); err != nil {
		return "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash PIN: %w", err)
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "nafsy",
		AccountName: p.Name,
	})
	if err != nil {
		return "", fmt.Errorf("generate recovery secret: %w", err)
	}

	p.Lock = &LockState{
		PINHash:    string(hash),
		TOTPSecret: key.Secret(),
		EnabledAt:  time.Now(),
	}
	return key.URL(), nil
}

// DisableLock removes the app lock. The current PIN must verify first.
func (p *Profile) DisableLock(pin string) error {
	if err := p.VerifyPIN(pin); err != nil {
		return err
	}
	p.Lock = nil
	return nil
}

// VerifyPIN checks a PIN attempt, enforcing the lockout window.
func (p *Profile) VerifyPIN(pin string) error {
	if !p.Locked() {
		return ErrLockDisabled
	}

	l := p.Lock
	now := time.Now()
	if l.failedAttempts >= MaxAttempts && now.Sub(l.firstFailure) < LockoutWindow {
		return ErrLockedOut
	}
	if now.Sub(l.firstFailure) >= LockoutWindow {
		l.failedAttempts = 0
	}

	if bcrypt.CompareHashAndPassword([]byte(l.PINHash), []byte(pin)) != nil {
		if l.failedAttempts == 0 {
			l.firstFailure = now
		}
		l.failedAttempts++
		return ErrBadPIN
	}

	l.failedAttempts = 0
	return nil
}

// VerifyRecovery validates a TOTP code against the enrolled recovery
// secret. A successful recovery clears the lockout counter so a new PIN
// can be set immediately.
func (p *Profile) VerifyRecovery(code string) error {
	if !p.Locked() {
		return ErrLockDisabled
	}
	if !totp.Validate(strings.TrimSpace(code), p.Lock.TOTPSecret) {
		return ErrBadRecovery
	}
	p.Lock.failedAttempts = 0
	return nil
}

// ChangePIN replaces the PIN after verifying the current one (or a
// recovery code, when recovered is true).
func (p *Profile) ChangePIN(current, next string, recovered bool) error {
	if !recovered {
		if err := p.VerifyPIN(current); err != nil {
			return err
		}
	}
	if err := checkPINFormat(next); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash PIN: %w", err)
	}
	p.Lock.PINHash = string(hash)
	return nil
}

func checkPINFormat(pin string) error {
	if len(pin) < MinPINLength || len(pin) > MaxPINLength {
		return ErrPINFormat
	}
	return nil
}

// =============================================================================
// TERMINAL PROMPT
// =============================================================================

// PromptPIN reads a PIN from the terminal without echo. Falls back to an
// error when stdin is not a terminal; the caller decides whether to skip
// the lock (never) or exit.
func PromptPIN(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("app lock requires an interactive terminal")
	}

	fmt.Fprint(os.Stderr, prompt)
	pin, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read PIN: %w", err)
	}
	return string(pin), nil
}
