// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/nafsy-app/nafsy-tui/internal/model"
)

func newTestStore(t *testing.T, max int) *CheckInStore {
	t.Helper()
	s, err := NewCheckInStore(t.TempDir(), max)
	if err != nil {
		t.Fatalf("NewCheckInStore: %v", err)
	}
	return s
}

func newCheckIn(t *testing.T, userText string) *model.Conversation {
	t.Helper()
	conv := model.NewConversation()
	conv.AddUserMessage(userText)
	reply := conv.AddCompanionMessage()
	reply.AppendToken("I hear you. ")
	reply.AppendToken("Tell me more about that.")
	reply.FinalizeStream(nil)
	return conv
}

func TestSaveAndLoad(t *testing.T) {
	s := newTestStore(t, 0)

	conv := newCheckIn(t, "feeling a bit overwhelmed today")
	id, err := s.Save(conv)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := s.Load(id)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.MessageCount() != 2 {
		t.Errorf("message count = %d, want 2", loaded.MessageCount())
	}
	if loaded.Messages[0].Content != "feeling a bit overwhelmed today" {
		t.Errorf("user message = %q", loaded.Messages[0].Content)
	}
	if !strings.Contains(loaded.Messages[1].Content, "Tell me more") {
		t.Errorf("companion message = %q", loaded.Messages[1].Content)
	}
}

func TestLoadMissing(t *testing.T) {
	s := newTestStore(t, 0)
	_, err := s.Load("conv_nope")
	if !errors.Is(err, ErrCheckInNotFound) {
		t.Errorf("err = %v, want ErrCheckInNotFound", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	s := newTestStore(t, 0)

	for _, text := range []string{"first", "second", "third"} {
		if _, err := s.Save(newCheckIn(t, text)); err != nil {
			t.Fatal(err)
		}
		time.Sleep(5 * time.Millisecond) // distinct UpdatedAt
	}

	metas, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(metas) != 3 {
		t.Fatalf("got %d check-ins, want 3", len(metas))
	}
	for i := 1; i < len(metas); i++ {
		if metas[i].UpdatedAt.After(metas[i-1].UpdatedAt) {
			t.Error("list not newest-first")
		}
	}
}

func TestLoadLatest(t *testing.T) {
	s := newTestStore(t, 0)

	if _, err := s.LoadLatest(); !errors.Is(err, ErrCheckInNotFound) {
		t.Errorf("empty LoadLatest = %v, want ErrCheckInNotFound", err)
	}

	if _, err := s.Save(newCheckIn(t, "older")); err != nil {
		t.Fatal(err)
	}
	time.Sleep(10 * time.Millisecond)
	newer := newCheckIn(t, "newer")
	if _, err := s.Save(newer); err != nil {
		t.Fatal(err)
	}

	latest, err := s.LoadLatest()
	if err != nil {
		t.Fatalf("LoadLatest: %v", err)
	}
	if latest.ID != newer.ID {
		t.Errorf("latest = %s, want %s", latest.ID, newer.ID)
	}
}

func TestSearchMessages(t *testing.T) {
	s := newTestStore(t, 0)

	if _, err := s.Save(newCheckIn(t, "trouble sleeping lately")); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Save(newCheckIn(t, "work stress again")); err != nil {
		t.Fatal(err)
	}

	results, err := s.SearchMessages("sleeping")
	if err != nil {
		t.Fatalf("SearchMessages: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if !strings.Contains(results[0].Preview, "sleeping") {
		t.Errorf("preview = %q", results[0].Preview)
	}

	all, err := s.SearchMessages("")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Errorf("empty query returned %d, want all 2", len(all))
	}
}

func TestDelete(t *testing.T) {
	s := newTestStore(t, 0)

	conv := newCheckIn(t, "hello")
	id, err := s.Save(conv)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(id); !errors.Is(err, ErrCheckInNotFound) {
		t.Errorf("second delete = %v", err)
	}
}

func TestClear(t *testing.T) {
	s := newTestStore(t, 0)
	for i := 0; i < 3; i++ {
		if _, err := s.Save(newCheckIn(t, "x")); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	metas, err := s.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(metas) != 0 {
		t.Errorf("got %d check-ins after clear", len(metas))
	}
}

func TestEnforceLimit(t *testing.T) {
	s := newTestStore(t, 2)

	var ids []string
	for i := 0; i < 4; i++ {
		conv := newCheckIn(t, "entry")
		id, err := s.Save(conv)
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, id)
		time.Sleep(5 * time.Millisecond) // distinct UpdatedAt
	}

	metas, err := s.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(metas) != 2 {
		t.Fatalf("got %d check-ins, want 2", len(metas))
	}

	// The two newest survive.
	if _, err := s.Load(ids[3]); err != nil {
		t.Error("newest check-in evicted")
	}
	if _, err := s.Load(ids[0]); !errors.Is(err, ErrCheckInNotFound) {
		t.Error("oldest check-in not evicted")
	}
}

func TestFormatList(t *testing.T) {
	if got := FormatList(nil); got != "No check-ins yet." {
		t.Errorf("empty list = %q", got)
	}

	metas := []CheckInMeta{{
		ID:           "conv_abc123def456",
		Title:        "feeling a bit overwhelmed",
		UpdatedAt:    time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
		MessageCount: 4,
	}}
	out := FormatList(metas)
	if !strings.Contains(out, "conv_abc123de") {
		t.Errorf("output missing truncated ID:\n%s", out)
	}
	if !strings.Contains(out, "2026-03-01 09:30") {
		t.Errorf("output missing timestamp:\n%s", out)
	}
}
