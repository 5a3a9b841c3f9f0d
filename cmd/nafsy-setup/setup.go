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

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nafsy-app/nafsy-tui/internal/companion"
	"github.com/nafsy-app/nafsy-tui/internal/config"
	"github.com/nafsy-app/nafsy-tui/internal/ui/styles"
)

// programRef lets the pull goroutine push progress lines into the UI.
var programRef *tea.Program

// minFreeBytes is the headroom a model download reasonably needs.
const minFreeBytes = 6 << 30

// =============================================================================
// STYLES
// =============================================================================

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(styles.Sage).
			Bold(true).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Italic(true)

	okStyle = lipgloss.NewStyle().
		Foreground(styles.Teal).
		Bold(true)

	failStyle = lipgloss.NewStyle().
			Foreground(styles.Rose).
			Bold(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(styles.Amber)

	dimStyle = lipgloss.NewStyle().
			Foreground(styles.TextMuted)

	selectedStyle = lipgloss.NewStyle().
			Foreground(styles.Sage).
			Bold(true)

	boxStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.SageDeep).
		Padding(1, 2)
)

const wordmark = `
  ███╗   ██╗ █████╗ ███████╗███████╗██╗   ██╗
  ████╗  ██║██╔══██╗██╔════╝██╔════╝╚██╗ ██╔╝
  ██╔██╗ ██║███████║█████╗  ███████╗ ╚████╔╝
  ██║╚██╗██║██╔══██║██╔══╝  ╚════██║  ╚██╔╝
  ██║ ╚████║██║  ██║██║     ███████║   ██║
  ╚═╝  ╚═══╝╚═╝  ╚═╝╚═╝     ╚══════╝   ╚═╝
`

const tagline = "a quiet companion for your terminal"

// =============================================================================
// PHASES
// =============================================================================

type phase int

const (
	phaseWelcome phase = iota
	phaseChecks
	phaseModel
	phasePull
	phaseConfig
	phaseDone
)

type checkStatus string

const (
	statusPass checkStatus = "pass"
	statusWarn checkStatus = "warn"
	statusFail checkStatus = "fail"
)

type checkResult struct {
	name    string
	status  checkStatus
	message string
	fix     string
}

type modelChoice struct {
	name string
	note string
}

// setupModels are small local models that hold a supportive tone well.
var setupModels = []modelChoice{
	{name: "llama3.1:8b", note: "recommended, warm and steady"},
	{name: "gemma2:9b", note: "a little more expressive"},
	{name: "qwen2.5:7b", note: "fast on modest hardware"},
	{name: "phi3:mini", note: "smallest footprint"},
}

// =============================================================================
// MESSAGES
// =============================================================================

type checkDoneMsg struct {
	index  int
	result checkResult
}

type pullLineMsg struct{ line string }

type pullDoneMsg struct{ err error }

type configDoneMsg struct {
	path string
	err  error
}

// =============================================================================
// MODEL
// =============================================================================

// Setup is the guided setup state machine.
type Setup struct {
	phase    phase
	width    int
	height   int
	spin     spinner.Model
	prog     progress.Model
	checks   []checkResult
	current  int
	selected int
	skipPull bool
	pullLine string
	pullErr  error
	cfgPath  string
	cfgErr   error
}

func NewSetup() *Setup {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Sage)

	return &Setup{
		spin:   sp,
		prog:   progress.New(progress.WithDefaultGradient()),
		checks: make([]checkResult, totalChecks),
	}
}

func (s *Setup) Init() tea.Cmd {
	return s.spin.Tick
}

// =============================================================================
// CHECKS
// =============================================================================

const totalChecks = 4

// runCheck executes one system check off the UI loop.
func runCheck(index int) tea.Cmd {
	return func() tea.Msg {
		var r checkResult
		switch index {
		case 0:
			r = checkResult{
				name:    "system",
				status:  statusPass,
				message: runtime.GOOS + "/" + runtime.GOARCH,
			}
		case 1:
			r = checkDataDir()
		case 2:
			r = checkOllamaBinary()
		case 3:
			r = checkBackend()
		}
		return checkDoneMsg{index: index, result: r}
	}
}

func checkDataDir() checkResult {
	dir, err := config.DefaultDataDir()
	if err == nil {
		err = os.MkdirAll(dir, 0o700)
	}
	if err != nil {
		return checkResult{name: "data directory", status: statusFail, message: err.Error()}
	}
	if free, err := freeDiskSpace(dir); err == nil && free < minFreeBytes {
		return checkResult{
			name:    "data directory",
			status:  statusWarn,
			message: fmt.Sprintf("%s (%.1f GB free)", dir, float64(free)/1e9),
			fix:     "model downloads need a few GB of headroom",
		}
	}
	return checkResult{name: "data directory", status: statusPass, message: dir}
}

func checkOllamaBinary() checkResult {
	if _, err := exec.LookPath("ollama"); err != nil {
		return checkResult{
			name:    "ollama",
			status:  statusFail,
			message: "not installed",
			fix:     "install from https://ollama.com, then rerun setup",
		}
	}
	return checkResult{name: "ollama", status: statusPass, message: "installed"}
}

func checkBackend() checkResult {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := companion.NewClient().CheckRunning(ctx); err != nil {
		return checkResult{
			name:    "backend",
			status:  statusWarn,
			message: "not running",
			fix:     "run `ollama serve` in another terminal",
		}
	}
	return checkResult{name: "backend", status: statusPass, message: "running"}
}

// =============================================================================
// PULL AND CONFIG COMMANDS
// =============================================================================

// startPull streams `ollama pull` output back through programRef.
func startPull(model string) tea.Cmd {
	return func() tea.Msg {
		if modelInstalled(model) {
			return pullDoneMsg{}
		}
		cmd := exec.Command("ollama", "pull", model)
		out, err := cmd.StderrPipe()
		if err != nil {
			return pullDoneMsg{err: err}
		}
		if err := cmd.Start(); err != nil {
			return pullDoneMsg{err: err}
		}
		go func() {
			scanner := bufio.NewScanner(out)
			for scanner.Scan() {
				line := strings.TrimSpace(scanner.Text())
				if line != "" && programRef != nil {
					programRef.Send(pullLineMsg{line: line})
				}
			}
		}()
		return pullDoneMsg{err: cmd.Wait()}
	}
}

func writeConfig(model string, skip bool) tea.Cmd {
	return func() tea.Msg {
		if skip {
			model = ""
		}
		path, err := writeStarterConfig(model)
		return configDoneMsg{path: path, err: err}
	}
}

// =============================================================================
// UPDATE
// =============================================================================

func (s *Setup) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
		s.prog.Width = min(msg.Width-8, 50)
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		s.spin, cmd = s.spin.Update(msg)
		return s, cmd

	case progress.FrameMsg:
		pm, cmd := s.prog.Update(msg)
		s.prog = pm.(progress.Model)
		return s, cmd

	case checkDoneMsg:
		s.checks[msg.index] = msg.result
		s.current = msg.index + 1
		cmds := []tea.Cmd{s.prog.SetPercent(float64(s.current) / totalChecks)}
		if s.current < totalChecks {
			cmds = append(cmds, runCheck(s.current))
		} else {
			s.phase = phaseModel
		}
		return s, tea.Batch(cmds...)

	case pullLineMsg:
		s.pullLine = msg.line
		return s, nil

	case pullDoneMsg:
		s.pullErr = msg.err
		s.phase = phaseConfig
		return s, writeConfig(setupModels[s.selected].name, s.skipPull)

	case configDoneMsg:
		s.cfgPath = msg.path
		s.cfgErr = msg.err
		s.phase = phaseDone
		return s, nil
	}
	return s, nil
}

func (s *Setup) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return s, tea.Quit
	case "q":
		if s.phase != phasePull {
			return s, tea.Quit
		}
	case "esc":
		if s.phase == phaseWelcome || s.phase == phaseDone {
			return s, tea.Quit
		}
	}

	switch s.phase {
	case phaseWelcome:
		if msg.String() == "enter" {
			s.phase = phaseChecks
			return s, runCheck(0)
		}

	case phaseModel:
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(setupModels)-1 {
				s.selected++
			}
		case "s":
			s.skipPull = true
			s.phase = phaseConfig
			return s, writeConfig("", true)
		case "enter":
			if s.hasFailure() {
				// Can't pull without a working backend.
				s.skipPull = true
				s.phase = phaseConfig
				return s, writeConfig(setupModels[s.selected].name, false)
			}
			s.phase = phasePull
			return s, startPull(setupModels[s.selected].name)
		}

	case phaseDone:
		if msg.String() == "enter" {
			return s, tea.Quit
		}
	}
	return s, nil
}

func (s *Setup) hasFailure() bool {
	for _, c := range s.checks {
		if c.status == statusFail || c.status == statusWarn {
			return true
		}
	}
	return false
}

// =============================================================================
// VIEW
// =============================================================================

func (s *Setup) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(wordmark))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("  " + tagline))
	b.WriteString("\n\n")

	switch s.phase {
	case phaseWelcome:
		b.WriteString(boxStyle.Render(strings.Join([]string{
			"This setup will:",
			"",
			"  1. check that Ollama is installed and running",
			"  2. download a companion model if needed",
			"  3. write a starter configuration",
			"",
			"Everything nafsy hears stays on this machine.",
		}, "\n")))
		b.WriteString("\n\n")
		b.WriteString(dimStyle.Render("  enter to begin · q to quit"))

	case phaseChecks:
		b.WriteString("  Checking your system...\n\n")
		s.renderChecks(&b)
		b.WriteString("\n  " + s.prog.View() + "\n")

	case phaseModel:
		s.renderChecks(&b)
		b.WriteString("\n  Choose a companion model:\n\n")
		for i, m := range setupModels {
			line := fmt.Sprintf("  %-14s %s", m.name, m.note)
			if i == s.selected {
				b.WriteString(selectedStyle.Render("  ▸" + line))
			} else {
				b.WriteString(dimStyle.Render("   " + line))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("  up/down to choose · enter to download · s to skip"))

	case phasePull:
		b.WriteString(fmt.Sprintf("  %s Downloading %s...\n\n", s.spin.View(), setupModels[s.selected].name))
		if s.pullLine != "" {
			b.WriteString(dimStyle.Render("  " + s.pullLine))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("  this can take a few minutes"))

	case phaseConfig:
		b.WriteString(fmt.Sprintf("  %s Writing configuration...\n", s.spin.View()))

	case phaseDone:
		s.renderDone(&b)
	}

	b.WriteString("\n")
	return b.String()
}

func (s *Setup) renderChecks(b *strings.Builder) {
	for i, c := range s.checks {
		if i >= s.current && s.phase == phaseChecks {
			if i == s.current {
				fmt.Fprintf(b, "  %s %s\n", s.spin.View(), dimStyle.Render("checking..."))
			}
			continue
		}
		var mark string
		switch c.status {
		case statusPass:
			mark = okStyle.Render("✓")
		case statusWarn:
			mark = warnStyle.Render("!")
		default:
			mark = failStyle.Render("✗")
		}
		fmt.Fprintf(b, "  %s %-16s %s\n", mark, c.name, c.message)
		if c.fix != "" {
			fmt.Fprintf(b, "     %s\n", dimStyle.Render("-> "+c.fix))
		}
	}
}

func (s *Setup) renderDone(b *strings.Builder) {
	if s.pullErr != nil {
		b.WriteString(warnStyle.Render("  ! model download failed: " + s.pullErr.Error()))
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("    you can pull it later with `ollama pull`"))
		b.WriteString("\n\n")
	}
	if s.cfgErr != nil {
		b.WriteString(warnStyle.Render("  ! config: " + s.cfgErr.Error()))
		b.WriteString("\n\n")
	} else {
		b.WriteString(okStyle.Render("  ✓ setup complete"))
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("    config: " + s.cfgPath))
		b.WriteString("\n\n")
	}

	b.WriteString(boxStyle.Render(strings.Join([]string{
		"To start, run:  nafsy",
		"",
		"space       pause or resume a paced reply",
		"left/right  step back or forward through it",
		"/mood       log how you feel",
		"/exercise   a short breathing or grounding break",
		"/help       everything else",
	}, "\n")))
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render("  enter to exit · take care of yourself"))
}
