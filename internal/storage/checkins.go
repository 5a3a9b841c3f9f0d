// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/nafsy-app/nafsy-tui/internal/model"
	"github.com/nafsy-app/nafsy-tui/internal/util"
)

// =============================================================================
// ERRORS
// =============================================================================

// ErrCheckInNotFound is returned when a check-in doesn't exist.
// Use errors.Is(err, ErrCheckInNotFound) to check for this error.
var ErrCheckInNotFound = &StoreError{Message: "check-in not found"}

// StoreError represents a storage-related error.
type StoreError struct {
	Message string
}

func (e *StoreError) Error() string {
	return e.Message
}

// Is implements errors.Is support.
func (e *StoreError) Is(target error) bool {
	t, ok := target.(*StoreError)
	if !ok {
		return false
	}
	return e.Message == t.Message
}

// =============================================================================
// METADATA
// =============================================================================

// CheckInMeta contains metadata for listing check-ins without loading
// full histories.
type CheckInMeta struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	MessageCount int       `json:"message_count"`
	Preview      string    `json:"preview"`
}

// =============================================================================
// CHECK-IN STORE
// =============================================================================

// CheckInStore handles check-in persistence.
type CheckInStore struct {
	// BaseDir is the directory for storing check-ins
	BaseDir string

	// MaxCheckIns limits stored check-ins (0 = unlimited)
	MaxCheckIns int
}

// NewCheckInStore creates a store rooted at dataDir/checkins.
func NewCheckInStore(dataDir string, maxCheckIns int) (*CheckInStore, error) {
	baseDir := filepath.Join(dataDir, "checkins")

	// 0700: check-in history is private to the user.
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, err
	}

	return &CheckInStore{
		BaseDir:     baseDir,
		MaxCheckIns: maxCheckIns,
	}, nil
}

// =============================================================================
// SAVE OPERATIONS
// =============================================================================

// Save persists a conversation and returns its ID.
func (s *CheckInStore) Save(conv *model.Conversation) (string, error) {
	conv.UpdatedAt = time.Now()
	if conv.CreatedAt.IsZero() {
		conv.CreatedAt = conv.UpdatedAt
	}

	data, err := json.MarshalIndent(conv, "", "  ")
	if err != nil {
		return "", err
	}

	if err := util.AtomicWriteFile(s.filePath(conv.ID), data, 0600); err != nil {
		return "", err
	}

	if s.MaxCheckIns > 0 {
		s.enforceLimit()
	}

	return conv.ID, nil
}

// enforceLimit removes the oldest check-ins when over the cap.
func (s *CheckInStore) enforceLimit() {
	metas, err := s.List()
	if err != nil || len(metas) <= s.MaxCheckIns {
		return
	}

	sort.Slice(metas, func(i, j int) bool {
		return metas[i].UpdatedAt.Before(metas[j].UpdatedAt)
	})

	excess := len(metas) - s.MaxCheckIns
	for i := 0; i < excess; i++ {
		s.Delete(metas[i].ID)
	}
}

// =============================================================================
// LOAD OPERATIONS
// =============================================================================

// Load retrieves a check-in by ID.
func (s *CheckInStore) Load(id string) (*model.Conversation, error) {
	data, err := os.ReadFile(s.filePath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrCheckInNotFound
		}
		return nil, err
	}

	var conv model.Conversation
	if err := json.Unmarshal(data, &conv); err != nil {
		return nil, err
	}
	return &conv, nil
}

// LoadLatest loads the most recently updated check-in.
func (s *CheckInStore) LoadLatest() (*model.Conversation, error) {
	metas, err := s.List()
	if err != nil {
		return nil, err
	}
	if len(metas) == 0 {
		return nil, ErrCheckInNotFound
	}
	return s.Load(metas[0].ID)
}

// LoadByIndex loads a check-in by its list position (0 = most recent).
func (s *CheckInStore) LoadByIndex(index int) (*model.Conversation, error) {
	metas, err := s.List()
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(metas) {
		return nil, ErrCheckInNotFound
	}
	return s.Load(metas[index].ID)
}

// =============================================================================
// LIST OPERATIONS
// =============================================================================

// List returns all saved check-ins, most recent first.
func (s *CheckInStore) List() ([]CheckInMeta, error) {
	entries, err := os.ReadDir(s.BaseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []CheckInMeta{}, nil
		}
		return nil, err
	}

	var metas []CheckInMeta
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		id := strings.TrimSuffix(entry.Name(), ".json")
		conv, err := s.Load(id)
		if err != nil {
			continue // Skip corrupted files
		}

		metas = append(metas, CheckInMeta{
			ID:           conv.ID,
			Title:        conv.GetTitle(),
			CreatedAt:    conv.CreatedAt,
			UpdatedAt:    conv.UpdatedAt,
			MessageCount: conv.MessageCount(),
			Preview:      conv.Preview(),
		})
	}

	sort.Slice(metas, func(i, j int) bool {
		return metas[i].UpdatedAt.After(metas[j].UpdatedAt)
	})

	return metas, nil
}

// Search finds check-ins whose title or preview matches query.
func (s *CheckInStore) Search(query string) ([]CheckInMeta, error) {
	all, err := s.List()
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(query)
	var results []CheckInMeta
	for _, meta := range all {
		if strings.Contains(strings.ToLower(meta.Title), query) ||
			strings.Contains(strings.ToLower(meta.Preview), query) {
			results = append(results, meta)
		}
	}
	return results, nil
}

// SearchMessages finds check-ins where any message contains query.
func (s *CheckInStore) SearchMessages(query string) ([]CheckInMeta, error) {
	if query == "" {
		return s.List()
	}

	query = strings.ToLower(query)
	all, err := s.List()
	if err != nil {
		return nil, err
	}

	var results []CheckInMeta
	for _, meta := range all {
		conv, err := s.Load(meta.ID)
		if err != nil {
			continue
		}
		for _, msg := range conv.Messages {
			if strings.Contains(strings.ToLower(msg.Content), query) {
				results = append(results, meta)
				break
			}
		}
	}
	return results, nil
}

// =============================================================================
// DELETE OPERATIONS
// =============================================================================

// Delete removes a check-in by ID.
func (s *CheckInStore) Delete(id string) error {
	if err := os.Remove(s.filePath(id)); err != nil {
		if os.IsNotExist(err) {
			return ErrCheckInNotFound
		}
		return err
	}
	return nil
}

// Clear removes all saved check-ins.
func (s *CheckInStore) Clear() error {
	entries, err := os.ReadDir(s.BaseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".json") {
			os.Remove(filepath.Join(s.BaseDir, entry.Name()))
		}
	}
	return nil
}

// =============================================================================
// FORMATTING
// =============================================================================

// FormatList renders check-in metadata as a plain table for the
// non-interactive `nafsy list` command.
func FormatList(metas []CheckInMeta) string {
	if len(metas) == 0 {
		return "No check-ins yet."
	}

	var sb strings.Builder
	sb.WriteString(util.PadRight("ID", 14) + " " +
		util.PadRight("Updated", 17) + " " +
		util.PadRight("Msgs", 5) + " Title\n")

	for _, m := range metas {
		id := util.TruncateRunes(m.ID, 14)
		sb.WriteString(util.PadRight(id, 14) + " " +
			util.PadRight(m.UpdatedAt.Format("2006-01-02 15:04"), 17) + " " +
			util.PadRight(strconv.Itoa(m.MessageCount), 5) + " " +
			util.TruncateRunes(m.Title, 40) + "\n")
	}
	return sb.String()
}

// filePath returns the file path for a check-in ID.
func (s *CheckInStore) filePath(id string) string {
	return filepath.Join(s.BaseDir, id+".json")
}
