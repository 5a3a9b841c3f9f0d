// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nafsy-app/nafsy-tui/internal/companion"
	"github.com/nafsy-app/nafsy-tui/internal/config"
)

const version = "1.0.0"

func main() {
	for _, arg := range os.Args[1:] {
		switch arg {
		case "--text", "-t":
			runTextSetup()
			return
		case "--help", "-h":
			printHelp()
			return
		case "--version", "-v":
			fmt.Printf("nafsy-setup v%s\n", version)
			return
		}
	}

	if !isTerminal() {
		runTextSetup()
		return
	}

	p := tea.NewProgram(NewSetup(), tea.WithAltScreen())
	programRef = p
	if _, err := p.Run(); err != nil {
		fmt.Printf("setup error: %v\n", err)
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println(`nafsy-setup v` + version + `

Usage: nafsy-setup [OPTIONS]

Options:
  --text, -t     Run in plain text mode (no TUI)
  --help, -h     Show this help
  --version, -v  Show version

The default mode is an interactive guided setup. Text mode is used
automatically when stdin is not a terminal.`)
}

func isTerminal() bool {
	if runtime.GOOS == "windows" {
		return true
	}
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

// =============================================================================
// TEXT MODE
// =============================================================================

func runTextSetup() {
	reader := bufio.NewReader(os.Stdin)

	fmt.Println()
	fmt.Println(strings.Repeat("=", 72))
	fmt.Println("                            NAFSY SETUP")
	fmt.Println("            a quiet companion for your terminal")
	fmt.Println(strings.Repeat("=", 72))
	fmt.Println()
	fmt.Println("This setup will:")
	fmt.Println("  [1] Check that Ollama is installed and running")
	fmt.Println("  [2] Download a companion model if needed")
	fmt.Println("  [3] Write a starter configuration")
	fmt.Println()
	fmt.Println("Everything nafsy hears stays on this machine.")
	fmt.Println()
	fmt.Print("Press Enter to continue (or 'q' to quit): ")
	if line, _ := reader.ReadString('\n'); strings.TrimSpace(line) == "q" {
		fmt.Println("Setup cancelled.")
		return
	}

	fmt.Println()
	fmt.Println("Checking your system...")
	fmt.Println()

	fmt.Printf("  [ok] system: %s/%s\n", runtime.GOOS, runtime.GOARCH)

	dataDir, err := config.DefaultDataDir()
	if err != nil {
		fmt.Printf("  [!!] data directory: %v\n", err)
	} else if err := os.MkdirAll(dataDir, 0o700); err != nil {
		fmt.Printf("  [!!] data directory: %v\n", err)
	} else {
		fmt.Printf("  [ok] data directory: %s\n", dataDir)
		if free, err := freeDiskSpace(dataDir); err == nil && free < minFreeBytes {
			fmt.Printf("  [!!] disk space: %.1f GB free, model downloads need ~%d GB\n",
				float64(free)/1e9, int64(minFreeBytes)/int64(1e9))
		}
	}

	ollamaReady := false
	if _, err := exec.LookPath("ollama"); err != nil {
		fmt.Println("  [!!] ollama: not installed")
		fmt.Println("       -> install from https://ollama.com, then rerun setup")
	} else {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := companion.NewClient().CheckRunning(ctx)
		cancel()
		if err != nil {
			fmt.Println("  [!!] ollama: installed but not running")
			fmt.Println("       -> run: ollama serve")
		} else {
			fmt.Println("  [ok] ollama: running")
			ollamaReady = true
		}
	}

	fmt.Println()
	fmt.Println("Choose a companion model:")
	fmt.Println()
	for i, m := range setupModels {
		fmt.Printf("  [%d] %-14s %s\n", i+1, m.name, m.note)
	}
	fmt.Printf("  [%d] skip download\n", len(setupModels)+1)
	fmt.Println()
	fmt.Print("Enter choice [1]: ")
	line, _ := reader.ReadString('\n')
	choice := strings.TrimSpace(line)

	modelName := setupModels[0].name
	for i := range setupModels {
		if choice == fmt.Sprintf("%d", i+1) {
			modelName = setupModels[i].name
		}
	}
	if choice == fmt.Sprintf("%d", len(setupModels)+1) {
		modelName = ""
	}

	if modelName != "" && ollamaReady && !modelInstalled(modelName) {
		fmt.Printf("\nDownloading %s (this can take a few minutes)...\n", modelName)
		cmd := exec.Command("ollama", "pull", modelName)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			fmt.Printf("download failed: %v\n", err)
		}
	}

	fmt.Println()
	if path, err := writeStarterConfig(modelName); err != nil {
		fmt.Printf("  [!!] config: %v\n", err)
	} else {
		fmt.Printf("  [ok] config: %s\n", path)
	}

	fmt.Println()
	fmt.Println(strings.Repeat("=", 72))
	fmt.Println("                          SETUP COMPLETE")
	fmt.Println(strings.Repeat("=", 72))
	fmt.Println()
	fmt.Println("To start, run:")
	fmt.Println()
	fmt.Println("    nafsy")
	fmt.Println()
	fmt.Println("Quick tips:")
	fmt.Println("    space       pause or resume a paced reply")
	fmt.Println("    left/right  step back or forward through it")
	fmt.Println("    /mood       log how you feel")
	fmt.Println("    /exercise   a short breathing or grounding break")
	fmt.Println("    /help       everything else")
	fmt.Println()
	fmt.Println("Take care of yourself.")
}

// modelInstalled reports whether the backend already has the model.
func modelInstalled(name string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	models, err := companion.NewClient().ListModels(ctx)
	if err != nil {
		return false
	}
	for _, m := range models {
		if m.Name == name {
			return true
		}
	}
	return false
}

// writeStarterConfig creates the TOML config unless one already exists.
// An empty model keeps the built-in default.
func writeStarterConfig(modelName string) (string, error) {
	path, err := config.PathTOML()
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	cfg := config.Default()
	if modelName != "" {
		cfg.Companion.Model = modelName
	}
	if err := config.SaveTOML(cfg, path); err != nil {
		return "", err
	}
	return path, nil
}
