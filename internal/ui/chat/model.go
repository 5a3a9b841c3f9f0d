// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file defines the chat Model: construction, shared state, and the
// plumbing that connects the reveal controller and the streaming
// goroutine back into the Bubble Tea loop.
package chat

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nafsy-app/nafsy-tui/internal/commands"
	"github.com/nafsy-app/nafsy-tui/internal/companion"
	"github.com/nafsy-app/nafsy-tui/internal/config"
	"github.com/nafsy-app/nafsy-tui/internal/exercise"
	"github.com/nafsy-app/nafsy-tui/internal/model"
	"github.com/nafsy-app/nafsy-tui/internal/mood"
	"github.com/nafsy-app/nafsy-tui/internal/profile"
	"github.com/nafsy-app/nafsy-tui/internal/reveal"
	"github.com/nafsy-app/nafsy-tui/internal/session"
	"github.com/nafsy-app/nafsy-tui/internal/splitter"
	"github.com/nafsy-app/nafsy-tui/internal/storage"
	"github.com/nafsy-app/nafsy-tui/internal/ui/components"
	"github.com/nafsy-app/nafsy-tui/internal/ui/styles"
)

// =============================================================================
// RELAY
// =============================================================================

// relay forwards messages from background goroutines (the stream reader,
// the reveal controller's timer) into the Bubble Tea loop. The program
// handle is attached after tea.NewProgram; sends before that are dropped,
// which only affects notifications fired before the UI exists.
type relay struct {
	mu   sync.RWMutex
	send func(tea.Msg)
}

func (r *relay) Attach(send func(tea.Msg)) {
	r.mu.Lock()
	r.send = send
	r.mu.Unlock()
}

func (r *relay) Send(msg tea.Msg) {
	r.mu.RLock()
	send := r.send
	r.mu.RUnlock()
	if send != nil {
		send(msg)
	}
}

// =============================================================================
// STORES
// =============================================================================

// Stores bundles the persistence handles the chat model depends on.
// Any field may be nil; the corresponding commands degrade to a notice.
type Stores struct {
	CheckIns  *storage.CheckInStore
	Moods     *mood.Store
	Exercises *exercise.Log
	Profiles  *profile.Store
}

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the root Bubble Tea model for the nafsy chat view.
type Model struct {
	// Dependencies
	cfg     *config.Config
	prof    *profile.Profile
	client  *companion.Client
	stores  Stores
	session *session.Manager

	// Reveal pipeline
	reveal     *reveal.Controller
	split      *splitter.Splitter
	revealSnap reveal.Snapshot
	revealMsg  *model.Message // companion message currently being revealed

	// Exercise in progress, nil otherwise
	activeExercise *exercise.Exercise
	exerciseStart  time.Time

	// Streaming
	streamBuf    *StreamingBuffer
	streaming    bool
	streamingID  string
	cancelStream context.CancelFunc

	// Conversation
	conversation *model.Conversation
	modelName    string

	// Commands
	registry  *commands.Registry
	parser    *commands.Parser
	completer *commands.Completer

	// UI
	theme      *styles.Theme
	keys       KeyMap
	header     *components.Header
	status     *components.StatusBar
	spin       components.Spinner
	renderer   *components.MessageRenderer
	welcome    *components.Welcome
	moodPicker *components.MoodPicker // non-nil while the overlay is open
	viewport   viewport.Model
	input      textinput.Model

	width  int
	height int
	ready  bool

	// Transient state
	notice      string
	noticeSeq   int
	crisis      bool
	showHelp    bool
	pendingMood string // glyph+label to tag onto the next user message

	relay *relay
}

// New creates the chat model. cfg and client must be non-nil; prof may be
// nil before onboarding completes.
func New(cfg *config.Config, prof *profile.Profile, client *companion.Client, stores Stores, theme *styles.Theme) Model {
	ti := textinput.New()
	ti.Prompt = "› "
	ti.Placeholder = "What's on your mind?"
	ti.CharLimit = 4096
	ti.Focus()

	vp := viewport.New(80, 20)
	vp.SetContent("")

	registry := commands.NewRegistry()
	parser := commands.NewParser(registry)
	completer := commands.NewCompleter(registry)

	sess := session.NewManager(session.Config{
		BreakAfter:       time.Duration(cfg.Session.BreakReminderMins) * time.Minute,
		IdleReset:        5 * time.Minute,
		AutoSaveEnabled:  cfg.Session.AutoSaveSecs > 0,
		AutoSaveInterval: time.Duration(cfg.Session.AutoSaveSecs) * time.Second,
	})

	name, tone := "", string(profile.ToneGentle)
	if prof != nil {
		name, tone = prof.Name, string(prof.Tone)
	}
	conv := model.NewConversationWithPersona(companion.Persona(name, tone))

	m := Model{
		cfg:          cfg,
		prof:         prof,
		client:       client,
		stores:       stores,
		session:      sess,
		split:        splitter.New(cfg.Reveal.MaxChunkRunes),
		streamBuf:    NewStreamingBuffer(),
		conversation: conv,
		modelName:    cfg.Companion.Model,
		registry:     registry,
		parser:       parser,
		completer:    completer,
		theme:        theme,
		keys:         DefaultKeyMap(),
		header:       components.NewHeader(theme),
		status:       components.NewStatusBar(theme),
		spin:         components.NewSpinner(theme),
		renderer:     components.NewMessageRenderer(theme),
		welcome:      components.NewWelcome(theme),
		viewport:     vp,
		input:        ti,
		relay:        &relay{},
	}
	m.renderer.SetShowStats(cfg.UI.ShowStats)
	m.reveal = m.newController(cfg.Reveal.FloatingOptions())
	m.header.SetModel(m.modelName)

	m.completer.ModelsFn = m.completionModels
	m.completer.CheckInsFn = m.completionCheckIns
	m.completer.ExercisesFn = completionExercises

	return m
}

// Attach connects the running program so background goroutines can send
// messages. Call right after tea.NewProgram.
func (m Model) Attach(send func(tea.Msg)) {
	m.relay.Attach(send)
}

// newController builds a reveal controller whose snapshots flow back into
// the update loop through the relay.
func (m *Model) newController(opts reveal.Options) *reveal.Controller {
	c := reveal.New(opts)
	r := m.relay
	c.SetNotify(func(s reveal.Snapshot) {
		r.Send(RevealSnapshotMsg{Snapshot: s})
	})
	return c
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init starts the cursor blink, the session clock, and the backend check.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		session.TickCmd(),
		m.checkBackend(),
	)
}

// checkBackend probes the local model backend off the UI loop.
func (m Model) checkBackend() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := client.CheckRunning(ctx); err != nil {
			return BackendStatusMsg{Running: false, Err: err}
		}
		return BackendStatusMsg{Running: true}
	}
}

// Conversation exposes the active check-in, mainly for tests and for the
// caller that persists on shutdown.
func (m Model) Conversation() *model.Conversation {
	return m.conversation
}

// =============================================================================
// COMPLETION SOURCES
// =============================================================================

func (m Model) completionModels() []string {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	infos, err := m.client.ListModels(ctx)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name)
	}
	return names
}

func (m Model) completionCheckIns() []string {
	if m.stores.CheckIns == nil {
		return nil
	}
	metas, err := m.stores.CheckIns.List()
	if err != nil {
		return nil
	}
	ids := make([]string, 0, len(metas))
	for _, meta := range metas {
		ids = append(ids, meta.ID)
	}
	return ids
}

func completionExercises() []string {
	catalog := exercise.Catalog()
	ids := make([]string, 0, len(catalog))
	for _, ex := range catalog {
		ids = append(ids, ex.ID)
	}
	return ids
}
