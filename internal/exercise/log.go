// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package exercise

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/nafsy-app/nafsy-tui/internal/util"
)

// =============================================================================
// COMPLETION LOG
// =============================================================================

// Completion records one finished (or abandoned) exercise run.
type Completion struct {
	ID         string    `json:"id"`
	ExerciseID string    `json:"exercise_id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	// Finished is false when the user bailed out mid-exercise
	Finished bool `json:"finished"`
}

// Log persists completions as a JSON file.
type Log struct {
	path    string
	entries []Completion
}

// OpenLog loads the completion log at path, creating an empty log if the
// file does not exist yet.
func OpenLog(path string) (*Log, error) {
	l := &Log{path: path}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return l, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read exercise log: %w", err)
	}
	if err := json.Unmarshal(data, &l.entries); err != nil {
		return nil, fmt.Errorf("decode exercise log: %w", err)
	}
	return l, nil
}

// Record appends a completion and saves the log.
func (l *Log) Record(exerciseID string, startedAt time.Time, finished bool) error {
	l.entries = append(l.entries, Completion{
		ID:         uuid.NewString(),
		ExerciseID: exerciseID,
		StartedAt:  startedAt,
		FinishedAt: time.Now(),
		Finished:   finished,
	})
	return l.save()
}

// Recent returns up to limit completions, newest first.
func (l *Log) Recent(limit int) []Completion {
	out := make([]Completion, len(l.entries))
	copy(out, l.entries)
	sort.Slice(out, func(i, j int) bool {
		return out[i].FinishedAt.After(out[j].FinishedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// CountFinished returns how many runs of exerciseID finished completely.
func (l *Log) CountFinished(exerciseID string) int {
	n := 0
	for _, c := range l.entries {
		if c.ExerciseID == exerciseID && c.Finished {
			n++
		}
	}
	return n
}

func (l *Log) save() error {
	data, err := json.MarshalIndent(l.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode exercise log: %w", err)
	}
	return util.AtomicWriteFile(l.path, data, 0600)
}
