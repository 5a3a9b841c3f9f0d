// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// doctor.go - health checks.
//
// Command: doctor
// Short:   Diagnose the backend, config, model, and data directory
//
// Checks performed:
//   1. Config valid       - configuration file parses and validates
//   2. Data dir writable  - check-ins and mood history can persist
//   3. Backend running    - the local model server responds
//   4. Model available    - the configured model is installed
//
// Exit code is non-zero when any check fails.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/nafsy-app/nafsy-tui/internal/companion"
	"github.com/nafsy-app/nafsy-tui/internal/config"
)

type checkResult struct {
	name string
	pass bool
	note string
}

func runDoctor(args []string) error {
	var results []checkResult

	cfg, err := config.Load()
	if err == nil {
		cfg.ApplyEnvOverrides()
		err = cfg.Validate()
	}
	if err != nil {
		results = append(results, checkResult{"config valid", false, err.Error()})
		printResults(results)
		return fmt.Errorf("1 check failed")
	}
	results = append(results, checkResult{"config valid", true, ""})

	results = append(results, checkDataDir(cfg))
	results = append(results, checkBackend(cfg)...)

	printResults(results)
	failed := 0
	for _, r := range results {
		if !r.pass {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d check(s) failed", failed)
	}
	return nil
}

func checkDataDir(cfg *config.Config) checkResult {
	dataDir, err := cfg.DataDir()
	if err != nil {
		return checkResult{"data dir writable", false, err.Error()}
	}
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return checkResult{"data dir writable", false, err.Error()}
	}
	probe := filepath.Join(dataDir, ".doctor-probe")
	if err := os.WriteFile(probe, []byte("ok"), 0600); err != nil {
		return checkResult{"data dir writable", false, err.Error()}
	}
	os.Remove(probe)
	return checkResult{"data dir writable", true, dataDir}
}

func checkBackend(cfg *config.Config) []checkResult {
	client := companion.NewClientWithConfig(&companion.ClientConfig{
		BaseURL:      cfg.Companion.BaseURL,
		DefaultModel: cfg.Companion.Model,
		Timeout:      10 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.CheckRunning(ctx); err != nil {
		return []checkResult{
			{"backend running", false, cfg.Companion.BaseURL + " - try `ollama serve`"},
			{"model available", false, "skipped (backend down)"},
		}
	}
	results := []checkResult{{"backend running", true, cfg.Companion.BaseURL}}

	infos, err := client.ListModels(ctx)
	if err != nil {
		results = append(results, checkResult{"model available", false, err.Error()})
		return results
	}
	for _, info := range infos {
		if info.Name == cfg.Companion.Model {
			results = append(results, checkResult{"model available", true, info.Name})
			return results
		}
	}
	results = append(results, checkResult{
		"model available", false,
		fmt.Sprintf("%s not installed - try `ollama pull %s`", cfg.Companion.Model, cfg.Companion.Model),
	})
	return results
}

func printResults(results []checkResult) {
	for _, r := range results {
		mark := successStyle.Render("✓")
		if !r.pass {
			mark = errorStyle.Render("✗")
		}
		line := fmt.Sprintf("%s %-20s", mark, r.name)
		if r.note != "" {
			line += mutedStyle.Render(r.note)
		}
		fmt.Println(line)
	}
}
