// Copyright 2026 The Easel Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the master configuration for Easel applications.
type Config struct {
	// Theme selects the widget color theme: "dark" or "light".
	Theme string `yaml:"theme"`

	// Paths configures directory locations.
	Paths PathsConfig `yaml:"paths"`

	// Keymap configures key binding loading.
	Keymap KeymapConfig `yaml:"keymap"`

	// Session configures snapshot persistence.
	Session SessionConfig `yaml:"session"`

	// Log configures diagnostic logging.
	Log LogConfig `yaml:"log"`

	// Markdown configures terminal markdown rendering.
	Markdown MarkdownConfig `yaml:"markdown"`
}

// PathsConfig configures directory locations.
type PathsConfig struct {
	// State is the base directory for Easel runtime state: the
	// session database and anything else that survives restarts.
	State string `yaml:"state"`
}

// KeymapConfig configures key binding loading.
type KeymapConfig struct {
	// File is the path to a user keymap in JSON-with-comments format.
	// User bindings are layered over the embedded defaults. Empty
	// means defaults only.
	File string `yaml:"file"`
}

// SessionConfig configures snapshot persistence.
type SessionConfig struct {
	// Database is the path to the SQLite session database.
	// Default: ${EASEL_STATE}/sessions.db
	Database string `yaml:"database"`

	// AutosaveInterval is the debounce window for automatic snapshot
	// writes, as a Go duration string. A change starts (or restarts)
	// the timer; the snapshot is written when the session has been
	// quiet for this long. Default: 2s
	AutosaveInterval string `yaml:"autosave_interval"`

	// HistoryLimit is the number of snapshots retained per session.
	// Older snapshots are pruned on save. Default: 20
	HistoryLimit int `yaml:"history_limit"`
}

// LogConfig configures diagnostic logging.
type LogConfig struct {
	// Level is the minimum level to emit: debug, info, warn, error.
	// Default: info
	Level string `yaml:"level"`

	// File is the path to append log lines to. Empty means logging
	// is discarded — a TUI owns the terminal, so there is no sensible
	// stderr default.
	File string `yaml:"file"`
}

// MarkdownConfig configures terminal markdown rendering.
type MarkdownConfig struct {
	// Width is the wrap width in cells. Zero means use the terminal
	// width at render time.
	Width int `yaml:"width"`

	// CodeTheme is the chroma style name for fenced code blocks.
	// Default: monokai
	CodeTheme string `yaml:"code_theme"`
}

// Default returns the default configuration. These defaults are used
// as a base before loading the config file, so a minimal file only
// needs to name what it changes.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	defaultState := filepath.Join(homeDir, ".local", "state", "easel")

	return &Config{
		Theme: "dark",
		Paths: PathsConfig{
			State: defaultState,
		},
		Keymap: KeymapConfig{
			File: "",
		},
		Session: SessionConfig{
			Database:         filepath.Join(defaultState, "sessions.db"),
			AutosaveInterval: "2s",
			HistoryLimit:     20,
		},
		Log: LogConfig{
			Level: "info",
			File:  "",
		},
		Markdown: MarkdownConfig{
			Width:     0,
			CodeTheme: "monokai",
		},
	}
}

// Load loads configuration from the EASEL_CONFIG environment variable.
//
// If EASEL_CONFIG is not set, the defaults are returned unchanged. If
// it is set, the named file must exist and parse. There is no
// ~/.config discovery or file search; the one variable is the only
// implicit input.
func Load() (*Config, error) {
	configPath := os.Getenv("EASEL_CONFIG")
	if configPath == "" {
		cfg := Default()
		cfg.expandVariables()
		return cfg, nil
	}

	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path.
//
// The config file is the single source of truth. Environment variables
// do not override config values beyond ${VAR} expansion in path
// fields. This keeps configuration deterministic and auditable.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	// Expand ${HOME} and similar variables in paths for portability.
	cfg.expandVariables()

	return cfg, nil
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in path
// fields. EASEL_STATE resolves to Paths.State so dependent paths can
// be written relative to it.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"EASEL_STATE": c.Paths.State,
		"HOME":        os.Getenv("HOME"),
	}

	c.Paths.State = expandVars(c.Paths.State, vars)
	vars["EASEL_STATE"] = c.Paths.State // Update for dependent paths.

	c.Keymap.File = expandVars(c.Keymap.File, vars)
	c.Session.Database = expandVars(c.Session.Database, vars)
	c.Log.File = expandVars(c.Log.File, vars)
}

// expandVars expands ${VAR} and ${VAR:-default} patterns.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		// Check provided vars first, then environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Theme != "dark" && c.Theme != "light" {
		errs = append(errs, fmt.Errorf("theme must be dark or light, got %q", c.Theme))
	}

	if c.Paths.State == "" {
		errs = append(errs, fmt.Errorf("paths.state is required"))
	}

	if c.Session.Database == "" {
		errs = append(errs, fmt.Errorf("session.database is required"))
	}

	if _, err := c.AutosaveDuration(); err != nil {
		errs = append(errs, err)
	}

	if c.Session.HistoryLimit < 1 {
		errs = append(errs, fmt.Errorf("session.history_limit must be at least 1, got %d", c.Session.HistoryLimit))
	}

	if _, err := c.LogLevel(); err != nil {
		errs = append(errs, err)
	}

	if c.Markdown.Width < 0 {
		errs = append(errs, fmt.Errorf("markdown.width must not be negative, got %d", c.Markdown.Width))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// AutosaveDuration parses Session.AutosaveInterval as a duration.
func (c *Config) AutosaveDuration() (time.Duration, error) {
	interval, err := time.ParseDuration(c.Session.AutosaveInterval)
	if err != nil {
		return 0, fmt.Errorf("session.autosave_interval: %w", err)
	}
	if interval <= 0 {
		return 0, fmt.Errorf("session.autosave_interval must be positive, got %s", interval)
	}
	return interval, nil
}

// LogLevel parses Log.Level into a slog.Level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}

// EnsurePaths creates the state directory and the session database's
// parent directory if they do not exist.
func (c *Config) EnsurePaths() error {
	paths := []string{
		c.Paths.State,
		filepath.Dir(c.Session.Database),
	}
	if c.Log.File != "" {
		paths = append(paths, filepath.Dir(c.Log.File))
	}

	for _, path := range paths {
		if path == "" || path == "." {
			continue
		}
		if err := os.MkdirAll(path, 0755); err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
	}

	return nil
}
