// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/nafsy-app/nafsy-tui/internal/util"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrNoProfile   = errors.New("no profile found")
	ErrInvalidName = errors.New("invalid profile name")
)

// =============================================================================
// PROFILE
// =============================================================================

// Tone selects how the companion addresses the user.
type Tone string

const (
	ToneGentle   Tone = "gentle"
	ToneDirect   Tone = "direct"
	ToneCheerful Tone = "cheerful"
)

// ValidTone reports whether t is a known tone.
func ValidTone(t Tone) bool {
	switch t {
	case ToneGentle, ToneDirect, ToneCheerful:
		return true
	}
	return false
}

// Profile is the local user profile.
type Profile struct {
	// Name is what the companion calls the user
	Name string `json:"name"`
	// Tone selects the companion's register
	Tone Tone `json:"tone"`
	// CheckInGoal is the weekly check-in target chosen at onboarding
	CheckInGoal int `json:"check_in_goal"`
	// CreatedAt is when onboarding completed
	CreatedAt time.Time `json:"created_at"`

	// Lock holds app-lock state; nil when the lock is disabled
	Lock *LockState `json:"lock,omitempty"`
}

// New creates a validated profile.
func New(name string, tone Tone, checkInGoal int) (*Profile, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 64 {
		return nil, fmt.Errorf("%w: must be 1-64 characters", ErrInvalidName)
	}
	if !ValidTone(tone) {
		tone = ToneGentle
	}
	if checkInGoal < 1 || checkInGoal > 21 {
		checkInGoal = 3
	}
	return &Profile{
		Name:        name,
		Tone:        tone,
		CheckInGoal: checkInGoal,
		CreatedAt:   time.Now(),
	}, nil
}

// Locked reports whether the app lock is enabled.
func (p *Profile) Locked() bool {
	return p.Lock != nil && p.Lock.PINHash != ""
}

// =============================================================================
// STORE
// =============================================================================

// Store loads and saves the profile file.
type Store struct {
	path string
}

// NewStore creates a store for the profile file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the profile. Returns ErrNoProfile when onboarding has not
// run yet.
func (s *Store) Load() (*Profile, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, ErrNoProfile
	}
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}

	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	return &p, nil
}

// Save writes the profile atomically with user-only permissions.
func (s *Store) Save(p *Profile) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	return util.AtomicWriteFile(s.path, data, 0600)
}
