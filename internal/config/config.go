// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for nafsy.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/nafsy-app/nafsy-tui/internal/reveal"
	"github.com/nafsy-app/nafsy-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config is the complete nafsy configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	Companion CompanionConfig `toml:"companion" json:"companion"`
	Reveal    RevealConfig    `toml:"reveal" json:"reveal"`
	UI        UIConfig        `toml:"ui" json:"ui"`
	Storage   StorageConfig   `toml:"storage" json:"storage"`
	Session   SessionConfig   `toml:"session" json:"session"`
	Privacy   PrivacyConfig   `toml:"privacy" json:"privacy"`
}

// CompanionConfig configures the AI companion backend.
type CompanionConfig struct {
	// BaseURL of the Ollama-compatible backend
	BaseURL string `toml:"base_url" json:"base_url"`
	// Model is the default model name
	Model string `toml:"model" json:"model"`
	// TimeoutSecs bounds non-streaming requests
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`
	// RequestsPerMinute bounds outgoing chat requests
	RequestsPerMinute int `toml:"requests_per_minute" json:"requests_per_minute"`
}

// RevealConfig configures the chunked reveal pacing.
type RevealConfig struct {
	// ChunkDurationMs is the general pacing interval in milliseconds
	ChunkDurationMs int `toml:"chunk_duration_ms" json:"chunk_duration_ms"`
	// FloatingChunkDurationMs is the floating-chat pacing interval
	FloatingChunkDurationMs int `toml:"floating_chunk_duration_ms" json:"floating_chunk_duration_ms"`
	// AutoAdvance enables the pacing timer
	AutoAdvance bool `toml:"auto_advance" json:"auto_advance"`
	// PauseOnInteraction makes manual navigation suspend auto-advance
	// in the floating chat display
	PauseOnInteraction bool `toml:"pause_on_interaction" json:"pause_on_interaction"`
	// MaxChunkRunes is the splitter's per-chunk rune budget
	MaxChunkRunes int `toml:"max_chunk_runes" json:"max_chunk_runes"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is "dark", "light", or "auto"
	Theme string `toml:"theme" json:"theme"`
	// CompactMode uses a tighter layout
	CompactMode bool `toml:"compact_mode" json:"compact_mode"`
	// ShowStats displays generation statistics under companion replies
	ShowStats bool `toml:"show_stats" json:"show_stats"`
	// OnboardingCompleted records whether the first-run wizard finished
	OnboardingCompleted bool `toml:"onboarding_completed" json:"onboarding_completed"`
}

// StorageConfig configures local persistence.
type StorageConfig struct {
	// DataDir overrides ~/.nafsy as the data directory
	DataDir string `toml:"data_dir" json:"data_dir"`
	// MaxConversations caps stored check-ins (0 = unlimited)
	MaxConversations int `toml:"max_conversations" json:"max_conversations"`
}

// SessionConfig configures the check-in session manager.
type SessionConfig struct {
	// BreakReminderMins is minutes of continuous chatting before a
	// gentle break suggestion (0 disables)
	BreakReminderMins int `toml:"break_reminder_mins" json:"break_reminder_mins"`
	// AutoSaveSecs is how often dirty conversations are saved
	AutoSaveSecs int `toml:"auto_save_secs" json:"auto_save_secs"`
}

// PrivacyConfig configures local privacy features.
type PrivacyConfig struct {
	// LockEnabled requires the app-lock PIN on startup
	LockEnabled bool `toml:"lock_enabled" json:"lock_enabled"`
	// OfflineMode refuses any backend that is not loopback
	OfflineMode bool `toml:"offline_mode" json:"offline_mode"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns a Config with built-in defaults.
func Default() *Config {
	return &Config{
		Version: "1.0.0",

		Companion: CompanionConfig{
			BaseURL:           "http://127.0.0.1:11434",
			Model:             "llama3.1:8b",
			TimeoutSecs:       30,
			RequestsPerMinute: 20,
		},

		Reveal: RevealConfig{
			ChunkDurationMs:         8000,
			FloatingChunkDurationMs: 10000,
			AutoAdvance:             true,
			PauseOnInteraction:      true,
			MaxChunkRunes:           280,
		},

		UI: UIConfig{
			Theme:     "auto",
			ShowStats: false,
		},

		Storage: StorageConfig{
			MaxConversations: 100,
		},

		Session: SessionConfig{
			BreakReminderMins: 45,
			AutoSaveSecs:      30,
		},

		Privacy: PrivacyConfig{
			LockEnabled: false,
			OfflineMode: true,
		},
	}
}

// Options converts the reveal section into controller options for the
// general preset.
func (r RevealConfig) Options() reveal.Options {
	return reveal.Options{
		ChunkDuration:      time.Duration(r.ChunkDurationMs) * time.Millisecond,
		AutoAdvance:        r.AutoAdvance,
		PauseOnInteraction: false,
	}
}

// FloatingOptions converts the reveal section into controller options for
// the floating chat display.
func (r RevealConfig) FloatingOptions() reveal.Options {
	return reveal.Options{
		ChunkDuration:      time.Duration(r.FloatingChunkDurationMs) * time.Millisecond,
		AutoAdvance:        r.AutoAdvance,
		PauseOnInteraction: r.PauseOnInteraction,
	}
}

// =============================================================================
// PATHS
// =============================================================================

// DataDir returns the nafsy data directory, honoring the configured
// override.
func (c *Config) DataDir() (string, error) {
	if c.Storage.DataDir != "" {
		return c.Storage.DataDir, nil
	}
	return DefaultDataDir()
}

// DefaultDataDir returns ~/.nafsy.
func DefaultDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".nafsy"), nil
}

// ProfilePath returns the profile file location.
func (c *Config) ProfilePath() (string, error) {
	dir, err := c.DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "profile.json"), nil
}

// MoodDBPath returns the mood history database location.
func (c *Config) MoodDBPath() (string, error) {
	dir, err := c.DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "mood.db"), nil
}

// ExerciseLogPath returns the exercise completion log location.
func (c *Config) ExerciseLogPath() (string, error) {
	dir, err := c.DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "exercises.json"), nil
}

// PathTOML returns the TOML config file path.
func PathTOML() (string, error) {
	dir, err := DefaultDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// PathJSON returns the JSON config file path.
func PathJSON() (string, error) {
	dir, err := DefaultDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads configuration from the standard locations, falling back to
// defaults. Environment overrides and validation apply in every path.
func Load() (*Config, error) {
	if path, err := PathTOML(); err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			return LoadFromPath(path)
		}
	}
	if path, err := PathJSON(); err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			return LoadFromPath(path)
		}
	}

	cfg := Default()
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFromPath reads configuration from an explicit file. The format is
// chosen by extension; anything that is not .json parses as TOML.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if strings.HasSuffix(path, ".json") {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("decode JSON config: %w", err)
		}
	} else {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("decode TOML config: %w", err)
		}
	}

	cfg.fillDefaults()
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// fillDefaults replaces zero values that a sparse config file left unset.
// Booleans keep whatever the file said; their defaults only matter when
// the file is absent entirely, which Load handles via Default.
func (c *Config) fillDefaults() {
	def := Default()
	if c.Companion.BaseURL == "" {
		c.Companion.BaseURL = def.Companion.BaseURL
	}
	if c.Companion.Model == "" {
		c.Companion.Model = def.Companion.Model
	}
	if c.Companion.TimeoutSecs == 0 {
		c.Companion.TimeoutSecs = def.Companion.TimeoutSecs
	}
	if c.Companion.RequestsPerMinute == 0 {
		c.Companion.RequestsPerMinute = def.Companion.RequestsPerMinute
	}
	if c.Reveal.ChunkDurationMs == 0 {
		c.Reveal.ChunkDurationMs = def.Reveal.ChunkDurationMs
	}
	if c.Reveal.FloatingChunkDurationMs == 0 {
		c.Reveal.FloatingChunkDurationMs = def.Reveal.FloatingChunkDurationMs
	}
	if c.Reveal.MaxChunkRunes == 0 {
		c.Reveal.MaxChunkRunes = def.Reveal.MaxChunkRunes
	}
	if c.UI.Theme == "" {
		c.UI.Theme = def.UI.Theme
	}
	if c.Storage.MaxConversations == 0 {
		c.Storage.MaxConversations = def.Storage.MaxConversations
	}
	if c.Session.AutoSaveSecs == 0 {
		c.Session.AutoSaveSecs = def.Session.AutoSaveSecs
	}
	if c.Version == "" {
		c.Version = def.Version
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies NAFSY_* environment variables on top of the
// loaded configuration.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("NAFSY_BACKEND_URL"); v != "" {
		c.Companion.BaseURL = v
	}
	if v := os.Getenv("NAFSY_MODEL"); v != "" {
		c.Companion.Model = v
	}
	if v := os.Getenv("NAFSY_THEME"); v != "" {
		c.UI.Theme = v
	}
	if v := os.Getenv("NAFSY_DATA_DIR"); v != "" {
		c.Storage.DataDir = v
	}
	if v := os.Getenv("NAFSY_OFFLINE"); v != "" {
		c.Privacy.OfflineMode = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("NAFSY_CHUNK_DURATION_MS"); v != "" {
		var ms int
		if _, err := fmt.Sscanf(v, "%d", &ms); err == nil && ms > 0 {
			c.Reveal.ChunkDurationMs = ms
			c.Reveal.FloatingChunkDurationMs = ms
		}
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError describes a single invalid field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidateErrors aggregates all validation failures.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if _, err := url.Parse(c.Companion.BaseURL); err != nil || c.Companion.BaseURL == "" {
		errs = append(errs, ValidationError{"companion.base_url", "must be a valid URL"})
	}
	if c.Privacy.OfflineMode && !isLoopback(c.Companion.BaseURL) {
		errs = append(errs, ValidationError{"companion.base_url", "offline mode allows only loopback backends"})
	}
	if c.Reveal.ChunkDurationMs < 500 {
		errs = append(errs, ValidationError{"reveal.chunk_duration_ms", "must be at least 500"})
	}
	if c.Reveal.FloatingChunkDurationMs < 500 {
		errs = append(errs, ValidationError{"reveal.floating_chunk_duration_ms", "must be at least 500"})
	}
	if c.Reveal.MaxChunkRunes < 40 {
		errs = append(errs, ValidationError{"reveal.max_chunk_runes", "must be at least 40"})
	}
	switch c.UI.Theme {
	case "dark", "light", "auto":
	default:
		errs = append(errs, ValidationError{"ui.theme", "must be dark, light, or auto"})
	}
	if c.Session.BreakReminderMins < 0 {
		errs = append(errs, ValidationError{"session.break_reminder_mins", "must not be negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// isLoopback reports whether the URL points at localhost.
func isLoopback(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	host := u.Hostname()
	return host == "127.0.0.1" || host == "localhost" || host == "::1"
}

// =============================================================================
// SAVING
// =============================================================================

// Save writes the configuration to the standard TOML path atomically.
func Save(cfg *Config) error {
	path, err := PathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML writes the configuration as TOML to an explicit path.
func SaveTOML(cfg *Config, path string) error {
	var buf strings.Builder
	buf.WriteString("# nafsy configuration\n")
	buf.WriteString("# Generated " + time.Now().Format(time.RFC3339) + "\n\n")

	enc := toml.NewEncoder(&buf)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	// 0600: check-in settings are private to the user.
	return util.AtomicWriteFile(path, []byte(buf.String()), 0600)
}
