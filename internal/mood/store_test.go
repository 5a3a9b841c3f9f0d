// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package mood

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "mood.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNewEntryValidation(t *testing.T) {
	tests := []struct {
		name    string
		valence int
		energy  int
		wantErr bool
	}{
		{"valid middle", 0, 3, false},
		{"valid extremes", -2, 5, false},
		{"valence too low", -3, 3, true},
		{"valence too high", 3, 3, true},
		{"energy too low", 0, 0, true},
		{"energy too high", 0, 6, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEntry(tt.valence, tt.energy, nil, "")
			if (err != nil) != tt.wantErr {
				t.Errorf("NewEntry(%d, %d) error = %v, wantErr %v",
					tt.valence, tt.energy, err, tt.wantErr)
			}
		})
	}
}

func TestTagNormalization(t *testing.T) {
	e, err := NewEntry(1, 3, []string{" Work ", "work", "SLEEP", "", "sleep"}, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(e.Tags) != 2 {
		t.Fatalf("tags = %v, want 2 deduped tags", e.Tags)
	}
	if e.Tags[0] != "work" || e.Tags[1] != "sleep" {
		t.Errorf("tags = %v", e.Tags)
	}
}

func TestAddAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	e, err := NewEntry(1, 4, []string{"work", "sleep"}, "felt alright today")
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Add(ctx, e); err != nil {
		t.Fatalf("Add: %v", err)
	}

	got, err := s.Get(ctx, e.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Valence != 1 || got.Energy != 4 {
		t.Errorf("got valence=%d energy=%d", got.Valence, got.Energy)
	}
	if got.Note != "felt alright today" {
		t.Errorf("note = %q", got.Note)
	}
	if len(got.Tags) != 2 {
		t.Errorf("tags = %v", got.Tags)
	}
}

func TestGetMissing(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Get(context.Background(), "nope"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRecentOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		e, _ := NewEntry(0, 3, nil, "")
		e.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		if err := s.Add(ctx, e); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := s.Recent(ctx, 3)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	for i := 1; i < len(entries); i++ {
		if entries[i].CreatedAt.After(entries[i-1].CreatedAt) {
			t.Error("entries not newest-first")
		}
	}
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	e, _ := NewEntry(0, 3, nil, "")
	if err := s.Add(ctx, e); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, e.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(ctx, e.ID); err != ErrNotFound {
		t.Errorf("second delete = %v, want ErrNotFound", err)
	}
}

func TestSummarize(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	// Three days of entries ending today.
	addAt := func(daysAgo, valence, energy int, tags ...string) {
		t.Helper()
		e, err := NewEntry(valence, energy, tags, "")
		if err != nil {
			t.Fatal(err)
		}
		e.CreatedAt = now.AddDate(0, 0, -daysAgo)
		if err := s.Add(ctx, e); err != nil {
			t.Fatal(err)
		}
	}

	addAt(0, 2, 4, "exercise")
	addAt(1, 0, 3, "work")
	addAt(2, 1, 3, "work")
	// Gap at day 3 breaks the streak.
	addAt(4, -1, 2)

	sum, err := s.Summarize(ctx, now)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}

	if sum.TotalEntries != 4 {
		t.Errorf("total = %d, want 4", sum.TotalEntries)
	}
	if sum.StreakDays != 3 {
		t.Errorf("streak = %d, want 3", sum.StreakDays)
	}
	if sum.Avg7Valence != 0.5 { // (2+0+1-1)/4
		t.Errorf("avg7 valence = %f, want 0.5", sum.Avg7Valence)
	}
	if len(sum.TopTags) == 0 || sum.TopTags[0] != "work" {
		t.Errorf("top tags = %v, want work first", sum.TopTags)
	}
}

func TestStreakSurvivesEmptyToday(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	for daysAgo := 1; daysAgo <= 2; daysAgo++ {
		e, _ := NewEntry(0, 3, nil, "")
		e.CreatedAt = now.AddDate(0, 0, -daysAgo)
		if err := s.Add(ctx, e); err != nil {
			t.Fatal(err)
		}
	}

	sum, err := s.Summarize(ctx, now)
	if err != nil {
		t.Fatal(err)
	}
	if sum.StreakDays != 2 {
		t.Errorf("streak = %d, want 2", sum.StreakDays)
	}
}

func TestPersistenceAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mood.db")
	ctx := context.Background()

	s1, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	e, _ := NewEntry(2, 5, []string{"good-day"}, "")
	if err := s1.Add(ctx, e); err != nil {
		t.Fatal(err)
	}
	s1.Close()

	s2, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()

	got, err := s2.Get(ctx, e.ID)
	if err != nil {
		t.Fatalf("Get after reopen: %v", err)
	}
	if got.Valence != 2 {
		t.Errorf("valence = %d", got.Valence)
	}
}
