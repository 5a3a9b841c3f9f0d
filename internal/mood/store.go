// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package mood

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// =============================================================================
// SCHEMA
// =============================================================================

const schema = `
CREATE TABLE IF NOT EXISTS mood_entries (
	id          TEXT PRIMARY KEY,
	valence     INTEGER NOT NULL,
	energy      INTEGER NOT NULL,
	tags        TEXT NOT NULL DEFAULT '',
	note        TEXT NOT NULL DEFAULT '',
	created_at  INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_mood_created ON mood_entries(created_at);
`

// =============================================================================
// STORE
// =============================================================================

// Store persists mood entries in SQLite.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the mood database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=MEMORY",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("set pragma: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Add persists a new entry.
func (s *Store) Add(ctx context.Context, e *Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO mood_entries (id, valence, energy, tags, note, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.Valence, e.Energy, strings.Join(e.Tags, ","), e.Note, e.CreatedAt.Unix())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return nil
}

// Get returns the entry with the given ID.
func (s *Store) Get(ctx context.Context, id string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, valence, energy, tags, note, created_at
		 FROM mood_entries WHERE id = ?`, id)
	e, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return e, nil
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]*Entry, error) {
	if limit <= 0 {
		limit = 30
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, valence, energy, tags, note, created_at
		 FROM mood_entries ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Since returns entries created at or after t, oldest first.
func (s *Store) Since(ctx context.Context, t time.Time) ([]*Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, valence, energy, tags, note, created_at
		 FROM mood_entries WHERE created_at >= ? ORDER BY created_at ASC`,
		t.Unix())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Delete removes an entry by ID.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM mood_entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the total number of entries.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM mood_entries`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return n, nil
}

// =============================================================================
// SUMMARY
// =============================================================================

// Summarize computes the /mood summary relative to now.
func (s *Store) Summarize(ctx context.Context, now time.Time) (*Summary, error) {
	total, err := s.Count(ctx)
	if err != nil {
		return nil, err
	}

	monthAgo := now.AddDate(0, 0, -30)
	entries, err := s.Since(ctx, monthAgo)
	if err != nil {
		return nil, err
	}

	sum := &Summary{TotalEntries: total}

	weekAgo := now.AddDate(0, 0, -7)
	var v7, e7, v30, e30 float64
	var n7, n30 int
	tagFreq := make(map[string]int)

	for _, e := range entries {
		v30 += float64(e.Valence)
		e30 += float64(e.Energy)
		n30++
		if !e.CreatedAt.Before(weekAgo) {
			v7 += float64(e.Valence)
			e7 += float64(e.Energy)
			n7++
		}
		for _, t := range e.Tags {
			tagFreq[t]++
		}
	}

	if n7 > 0 {
		sum.Avg7Valence = v7 / float64(n7)
		sum.Avg7Energy = e7 / float64(n7)
	}
	if n30 > 0 {
		sum.Avg30Valence = v30 / float64(n30)
		sum.Avg30Energy = e30 / float64(n30)
	}

	sum.TopTags = topTags(tagFreq, 3)
	sum.StreakDays, err = s.streak(ctx, now)
	if err != nil {
		return nil, err
	}
	return sum, nil
}

// streak counts consecutive days with at least one entry, scanning back
// from today. A streak survives an empty today: checking in yesterday
// keeps it alive until midnight.
func (s *Store) streak(ctx context.Context, now time.Time) (int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT created_at FROM mood_entries ORDER BY created_at DESC`)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	days := make(map[string]bool)
	for rows.Next() {
		var ts int64
		if err := rows.Scan(&ts); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
		days[time.Unix(ts, 0).In(now.Location()).Format("2006-01-02")] = true
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}

	day := now
	if !days[day.Format("2006-01-02")] {
		day = day.AddDate(0, 0, -1)
	}

	streak := 0
	for days[day.Format("2006-01-02")] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak, nil
}

func topTags(freq map[string]int, n int) []string {
	type kv struct {
		tag   string
		count int
	}
	var pairs []kv
	for t, c := range freq {
		pairs = append(pairs, kv{t, c})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].count != pairs[j].count {
			return pairs[i].count > pairs[j].count
		}
		return pairs[i].tag < pairs[j].tag
	})
	if len(pairs) > n {
		pairs = pairs[:n]
	}
	out := make([]string, len(pairs))
	for i, p := range pairs {
		out[i] = p.tag
	}
	return out
}

// =============================================================================
// SCANNING
// =============================================================================

type scannable interface {
	Scan(dest ...any) error
}

func scanEntry(row scannable) (*Entry, error) {
	var e Entry
	var tags string
	var ts int64
	if err := row.Scan(&e.ID, &e.Valence, &e.Energy, &tags, &e.Note, &ts); err != nil {
		return nil, err
	}
	if tags != "" {
		e.Tags = strings.Split(tags, ",")
	}
	e.CreatedAt = time.Unix(ts, 0)
	return &e, nil
}
