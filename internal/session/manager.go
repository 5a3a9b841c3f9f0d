// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"strconv"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// SESSION MANAGER
// =============================================================================

// Manager tracks session state: engagement time for break suggestions
// and dirty state for auto-save.
type Manager struct {
	mu sync.Mutex

	// Session tracking
	sessionID    string
	startTime    time.Time
	lastActivity time.Time

	// Break suggestion: engagementStart marks the beginning of the
	// current continuous stretch of use.
	breakAfter      time.Duration
	idleReset       time.Duration
	engagementStart time.Time
	breakSuggested  bool

	// Auto-save
	autoSaveEnabled  bool
	autoSaveInterval time.Duration
	lastAutoSave     time.Time
	isDirty          bool

	// Callbacks
	onBreak    func(engaged time.Duration)
	onAutoSave func() error
}

// Config holds configuration for the session manager.
type Config struct {
	// BreakAfter is how long continuous use runs before a break
	// suggestion (0 disables)
	BreakAfter time.Duration

	// IdleReset is the idle gap that resets the engagement clock
	IdleReset time.Duration

	// AutoSaveEnabled enables periodic saving of dirty check-ins
	AutoSaveEnabled bool

	// AutoSaveInterval is how often to auto-save
	AutoSaveInterval time.Duration
}

// DefaultConfig returns the default session configuration.
func DefaultConfig() Config {
	return Config{
		BreakAfter:       45 * time.Minute,
		IdleReset:        5 * time.Minute,
		AutoSaveEnabled:  true,
		AutoSaveInterval: 30 * time.Second,
	}
}

// NewManager creates a new session manager.
func NewManager(cfg Config) *Manager {
	now := time.Now()
	return &Manager{
		sessionID:        generateSessionID(),
		startTime:        now,
		lastActivity:     now,
		breakAfter:       cfg.BreakAfter,
		idleReset:        cfg.IdleReset,
		engagementStart:  now,
		autoSaveEnabled:  cfg.AutoSaveEnabled,
		autoSaveInterval: cfg.AutoSaveInterval,
		lastAutoSave:     now,
	}
}

// =============================================================================
// SESSION STATE
// =============================================================================

// SessionID returns the current session ID.
func (m *Manager) SessionID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessionID
}

// Duration returns how long the session has been open.
func (m *Manager) Duration() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return time.Since(m.startTime)
}

// EngagedTime returns the length of the current continuous stretch.
func (m *Manager) EngagedTime() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return time.Since(m.engagementStart)
}

// IdleTime returns how long since the last recorded activity.
func (m *Manager) IdleTime() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return time.Since(m.lastActivity)
}

// =============================================================================
// ACTIVITY TRACKING
// =============================================================================

// RecordActivity updates the activity clock. A gap longer than the idle
// reset starts a fresh engagement stretch and re-arms the break nudge.
func (m *Manager) RecordActivity() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	if m.idleReset > 0 && now.Sub(m.lastActivity) >= m.idleReset {
		m.engagementStart = now
		m.breakSuggested = false
	}
	m.lastActivity = now
}

// SnoozeBreak re-arms the break nudge for another full interval.
func (m *Manager) SnoozeBreak() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.engagementStart = time.Now()
	m.breakSuggested = false
}

// MarkDirty indicates the check-in has unsaved changes.
func (m *Manager) MarkDirty() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.isDirty = true
}

// MarkClean indicates the check-in has been saved.
func (m *Manager) MarkClean() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.isDirty = false
	m.lastAutoSave = time.Now()
}

// IsDirty returns whether the check-in has unsaved changes.
func (m *Manager) IsDirty() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.isDirty
}

// =============================================================================
// CALLBACKS
// =============================================================================

// SetBreakCallback sets the function called when a break is suggested.
func (m *Manager) SetBreakCallback(fn func(engaged time.Duration)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onBreak = fn
}

// SetAutoSaveCallback sets the function called for auto-save.
func (m *Manager) SetAutoSaveCallback(fn func() error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onAutoSave = fn
}

// =============================================================================
// CHECKS
// =============================================================================

// ShouldSuggestBreak returns true when continuous use crossed the
// threshold and no nudge has fired for this stretch. The user must also
// be recently active: nudging an empty chair helps no one.
func (m *Manager) ShouldSuggestBreak() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.shouldSuggestBreakLocked()
}

func (m *Manager) shouldSuggestBreakLocked() bool {
	if m.breakAfter <= 0 || m.breakSuggested {
		return false
	}
	if m.idleReset > 0 && time.Since(m.lastActivity) >= m.idleReset {
		return false
	}
	return time.Since(m.engagementStart) >= m.breakAfter
}

// ShouldAutoSave returns true if auto-save should trigger.
func (m *Manager) ShouldAutoSave() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.autoSaveEnabled || !m.isDirty {
		return false
	}
	return time.Since(m.lastAutoSave) >= m.autoSaveInterval
}

// Check evaluates session state and triggers callbacks.
func (m *Manager) Check() {
	m.mu.Lock()
	suggestBreak := m.shouldSuggestBreakLocked()
	var engaged time.Duration
	if suggestBreak {
		engaged = time.Since(m.engagementStart)
		m.breakSuggested = true
	}

	shouldSave := m.autoSaveEnabled && m.isDirty &&
		time.Since(m.lastAutoSave) >= m.autoSaveInterval

	onBreak := m.onBreak
	onAutoSave := m.onAutoSave
	m.mu.Unlock()

	// Callbacks run outside the lock
	if suggestBreak && onBreak != nil {
		onBreak(engaged)
	}
	if shouldSave && onAutoSave != nil {
		if err := onAutoSave(); err == nil {
			m.MarkClean()
		}
	}
}

// =============================================================================
// BUBBLE TEA INTEGRATION
// =============================================================================

// TickMsg is sent periodically to check session state.
type TickMsg struct {
	Time time.Time
}

// BreakSuggestionMsg indicates the user has been chatting for a while.
type BreakSuggestionMsg struct {
	Engaged time.Duration
}

// AutoSaveMsg indicates auto-save should occur.
type AutoSaveMsg struct{}

// TickCmd returns a command that ticks once per second.
func TickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

// HandleTick processes a tick and returns the resulting commands.
func (m *Manager) HandleTick() tea.Cmd {
	var cmds []tea.Cmd

	if m.ShouldSuggestBreak() {
		engaged := m.EngagedTime()
		m.mu.Lock()
		m.breakSuggested = true
		m.mu.Unlock()
		cmds = append(cmds, func() tea.Msg {
			return BreakSuggestionMsg{Engaged: engaged}
		})
	}

	if m.ShouldAutoSave() {
		cmds = append(cmds, func() tea.Msg {
			return AutoSaveMsg{}
		})
	}

	cmds = append(cmds, TickCmd())
	return tea.Batch(cmds...)
}

// =============================================================================
// STATUS
// =============================================================================

// Status represents the current session status.
type Status struct {
	SessionID   string
	StartTime   time.Time
	Duration    time.Duration
	EngagedTime time.Duration
	IdleTime    time.Duration
	IsDirty     bool
}

// GetStatus returns the current session status.
func (m *Manager) GetStatus() Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	return Status{
		SessionID:   m.sessionID,
		StartTime:   m.startTime,
		Duration:    now.Sub(m.startTime),
		EngagedTime: now.Sub(m.engagementStart),
		IdleTime:    now.Sub(m.lastActivity),
		IsDirty:     m.isDirty,
	}
}

// FormatDuration returns a human-readable duration string.
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return strconv.Itoa(int(d.Seconds())) + "s"
	}
	mins := int(d.Minutes())
	secs := int(d.Seconds()) % 60
	if secs == 0 {
		return strconv.Itoa(mins) + "m"
	}
	return strconv.Itoa(mins) + "m " + strconv.Itoa(secs) + "s"
}

// generateSessionID creates a unique session ID.
func generateSessionID() string {
	return "sess_" + time.Now().Format("20060102_150405")
}
