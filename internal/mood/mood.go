// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package mood

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrNotFound      = errors.New("mood entry not found")
	ErrInvalidEntry  = errors.New("invalid mood entry")
	ErrDatabaseError = errors.New("database error")
)

// =============================================================================
// ENTRY
// =============================================================================

// Valence bounds. Negative is unpleasant, positive pleasant.
const (
	MinValence = -2
	MaxValence = 2
	MinEnergy  = 1
	MaxEnergy  = 5
)

// Entry is a single mood check-in.
type Entry struct {
	ID        string    `json:"id"`
	Valence   int       `json:"valence"` // -2..2
	Energy    int       `json:"energy"`  // 1..5
	Tags      []string  `json:"tags,omitempty"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewEntry creates a validated entry stamped with the current time.
func NewEntry(valence, energy int, tags []string, note string) (*Entry, error) {
	e := &Entry{
		ID:        uuid.NewString(),
		Valence:   valence,
		Energy:    energy,
		Tags:      normalizeTags(tags),
		Note:      strings.TrimSpace(note),
		CreatedAt: time.Now(),
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// Validate checks entry bounds.
func (e *Entry) Validate() error {
	if e.Valence < MinValence || e.Valence > MaxValence {
		return fmt.Errorf("%w: valence %d out of range [%d, %d]",
			ErrInvalidEntry, e.Valence, MinValence, MaxValence)
	}
	if e.Energy < MinEnergy || e.Energy > MaxEnergy {
		return fmt.Errorf("%w: energy %d out of range [%d, %d]",
			ErrInvalidEntry, e.Energy, MinEnergy, MaxEnergy)
	}
	if len(e.Note) > 2000 {
		return fmt.Errorf("%w: note exceeds 2000 characters", ErrInvalidEntry)
	}
	return nil
}

// Label returns a human word for the entry's valence.
func (e *Entry) Label() string {
	switch e.Valence {
	case -2:
		return "very low"
	case -1:
		return "low"
	case 0:
		return "okay"
	case 1:
		return "good"
	default:
		return "great"
	}
}

// Glyph returns a single-cell mood marker for compact rendering.
func (e *Entry) Glyph() string {
	switch e.Valence {
	case -2:
		return "▁"
	case -1:
		return "▂"
	case 0:
		return "▄"
	case 1:
		return "▆"
	default:
		return "█"
	}
}

func normalizeTags(tags []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// =============================================================================
// SUMMARY
// =============================================================================

// Summary aggregates recent entries for the /mood view.
type Summary struct {
	// TotalEntries is the all-time entry count
	TotalEntries int
	// StreakDays is the current run of consecutive days with a check-in,
	// counted back from today (or yesterday if today is empty)
	StreakDays int
	// Avg7Valence and Avg7Energy average the last 7 days
	Avg7Valence float64
	Avg7Energy  float64
	// Avg30Valence and Avg30Energy average the last 30 days
	Avg30Valence float64
	Avg30Energy  float64
	// TopTags are the most frequent tags of the last 30 days
	TopTags []string
}
