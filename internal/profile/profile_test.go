// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package profile

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"
)

func TestNewProfileValidation(t *testing.T) {
	p, err := New("  Amira  ", ToneGentle, 5)
	require.NoError(t, err)
	require.Equal(t, "Amira", p.Name, "name should be trimmed")
	require.Equal(t, 5, p.CheckInGoal)

	_, err = New("   ", ToneGentle, 3)
	require.Error(t, err, "blank name should be rejected")

	// Out-of-range goal and unknown tone fall back to defaults.
	p, err = New("Sam", Tone("sarcastic"), 99)
	require.NoError(t, err)
	require.Equal(t, ToneGentle, p.Tone)
	require.Equal(t, 3, p.CheckInGoal)
}

func TestStoreRoundTrip(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "profile.json"))

	_, err := s.Load()
	require.ErrorIs(t, err, ErrNoProfile, "empty store should report no profile")

	p, _ := New("Amira", ToneDirect, 7)
	require.NoError(t, s.Save(p))

	got, err := s.Load()
	require.NoError(t, err)
	require.Equal(t, "Amira", got.Name)
	require.Equal(t, ToneDirect, got.Tone)
	require.Equal(t, 7, got.CheckInGoal)
}

func TestEnableLockAndVerify(t *testing.T) {
	p, _ := New("Amira", ToneGentle, 3)

	url, err := p.EnableLock("4821")
	require.NoError(t, err)
	require.NotEmpty(t, url, "EnableLock should return an otpauth URL")
	require.True(t, p.Locked())

	require.NoError(t, p.VerifyPIN("4821"), "correct PIN should verify")
	require.ErrorIs(t, p.VerifyPIN("0000"), ErrBadPIN)
}

func TestPINFormat(t *testing.T) {
	p, _ := New("Amira", ToneGentle, 3)
	_, err := p.EnableLock("12")
	require.ErrorIs(t, err, ErrPINFormat)
}

func TestLockout(t *testing.T) {
	p, _ := New("Amira", ToneGentle, 3)
	_, err := p.EnableLock("4821")
	require.NoError(t, err)

	for i := 0; i < MaxAttempts; i++ {
		require.ErrorIs(t, p.VerifyPIN("0000"), ErrBadPIN, "attempt %d", i)
	}

	// Even the correct PIN is refused inside the lockout window.
	require.ErrorIs(t, p.VerifyPIN("4821"), ErrLockedOut)

	// An expired window clears the counter.
	p.Lock.firstFailure = time.Now().Add(-LockoutWindow - time.Second)
	require.NoError(t, p.VerifyPIN("4821"))
}

func TestRecoveryUnlocks(t *testing.T) {
	p, _ := New("Amira", ToneGentle, 3)
	_, err := p.EnableLock("4821")
	require.NoError(t, err)

	code, err := totp.GenerateCode(p.Lock.TOTPSecret, time.Now())
	require.NoError(t, err)
	require.NoError(t, p.VerifyRecovery(code), "valid recovery code should unlock")
	require.ErrorIs(t, p.VerifyRecovery("000000"), ErrBadRecovery)
}

func TestChangePIN(t *testing.T) {
	p, _ := New("Amira", ToneGentle, 3)
	_, err := p.EnableLock("4821")
	require.NoError(t, err)

	require.ErrorIs(t, p.ChangePIN("wrong", "9999", false), ErrBadPIN)
	require.NoError(t, p.ChangePIN("4821", "9999", false))
	require.NoError(t, p.VerifyPIN("9999"), "new PIN should verify")

	// Recovery path skips the current-PIN check.
	require.NoError(t, p.ChangePIN("", "1357", true))
	require.NoError(t, p.VerifyPIN("1357"))
}

func TestDisableLock(t *testing.T) {
	p, _ := New("Amira", ToneGentle, 3)
	_, err := p.EnableLock("4821")
	require.NoError(t, err)
	require.NoError(t, p.DisableLock("4821"))
	require.False(t, p.Locked())
}
