// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// list.go - check-in listing, export, and the mood summary.
package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nafsy-app/nafsy-tui/internal/export"
	"github.com/nafsy-app/nafsy-tui/internal/mood"
	"github.com/nafsy-app/nafsy-tui/internal/storage"
)

func openCheckIns() (*storage.CheckInStore, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	dataDir, err := cfg.DataDir()
	if err != nil {
		return nil, err
	}
	return storage.NewCheckInStore(dataDir, cfg.Storage.MaxConversations)
}

func runList(args []string) error {
	parser := NewArgParser(args)

	store, err := openCheckIns()
	if err != nil {
		return err
	}

	query := strings.Join(parser.Positional(), " ")
	var metas []storage.CheckInMeta
	if query == "" {
		metas, err = store.List()
	} else {
		metas, err = store.Search(query)
	}
	if err != nil {
		return err
	}
	if len(metas) == 0 {
		fmt.Println(mutedStyle.Render("no check-ins found"))
		return nil
	}
	fmt.Println(storage.FormatList(metas))
	return nil
}

func runExport(args []string) error {
	parser := NewArgParser(args)
	if parser.Subcommand() == "" {
		return fmt.Errorf("usage: nafsy export <id> [--format markdown|json]")
	}
	format := parser.Flag("format", parser.Flag("f", "markdown"))

	store, err := openCheckIns()
	if err != nil {
		return err
	}
	conv, err := store.Load(parser.Subcommand())
	if err != nil {
		return err
	}
	path, err := export.ToFile(conv, format, export.DefaultOptions())
	if err != nil {
		return err
	}
	fmt.Println(successStyle.Render("exported: ") + path)
	return nil
}

func runMood(args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	dbPath, err := cfg.MoodDBPath()
	if err != nil {
		return err
	}
	store, err := mood.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s, err := store.Summarize(ctx, time.Now())
	if err != nil {
		return err
	}

	if s.TotalEntries == 0 {
		fmt.Println(mutedStyle.Render("no moods logged yet - use /mood inside nafsy"))
		return nil
	}

	fmt.Println(promptStyle.Render("mood summary"))
	fmt.Printf("  entries: %d   streak: %d day(s)\n", s.TotalEntries, s.StreakDays)
	fmt.Printf("  last 7 days:  valence %+.1f, energy %.1f\n", s.Avg7Valence, s.Avg7Energy)
	fmt.Printf("  last 30 days: valence %+.1f, energy %.1f\n", s.Avg30Valence, s.Avg30Energy)
	if len(s.TopTags) > 0 {
		fmt.Printf("  common tags: %s\n", strings.Join(s.TopTags, ", "))
	}
	return nil
}
