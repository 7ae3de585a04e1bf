// Copyright 2026 The Easel Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Theme != "dark" {
		t.Errorf("expected theme=dark, got %s", cfg.Theme)
	}

	if cfg.Session.AutosaveInterval != "2s" {
		t.Errorf("expected autosave_interval=2s, got %s", cfg.Session.AutosaveInterval)
	}

	if cfg.Session.HistoryLimit != 20 {
		t.Errorf("expected history_limit=20, got %d", cfg.Session.HistoryLimit)
	}

	if cfg.Log.Level != "info" {
		t.Errorf("expected log level=info, got %s", cfg.Log.Level)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoad_WithoutEaselConfig(t *testing.T) {
	// Save and restore EASEL_CONFIG.
	origConfig := os.Getenv("EASEL_CONFIG")
	defer os.Setenv("EASEL_CONFIG", origConfig)

	// Unset EASEL_CONFIG; Load() should return defaults.
	os.Unsetenv("EASEL_CONFIG")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() without EASEL_CONFIG: %v", err)
	}
	if cfg.Theme != "dark" {
		t.Errorf("expected default theme=dark, got %s", cfg.Theme)
	}
}

func TestLoad_WithEaselConfig(t *testing.T) {
	// Save and restore EASEL_CONFIG.
	origConfig := os.Getenv("EASEL_CONFIG")
	defer os.Setenv("EASEL_CONFIG", origConfig)

	// Create temp config file.
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "easel.yaml")

	configContent := `
theme: light
paths:
  state: /test/state
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	// Set EASEL_CONFIG and load.
	os.Setenv("EASEL_CONFIG", configPath)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Theme != "light" {
		t.Errorf("expected theme=light, got %s", cfg.Theme)
	}

	if cfg.Paths.State != "/test/state" {
		t.Errorf("expected state=/test/state, got %s", cfg.Paths.State)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	origConfig := os.Getenv("EASEL_CONFIG")
	defer os.Setenv("EASEL_CONFIG", origConfig)

	os.Setenv("EASEL_CONFIG", filepath.Join(t.TempDir(), "does-not-exist.yaml"))

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing config file, got nil")
	}
}

func TestLoadFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "easel.yaml")

	configContent := `
theme: light

paths:
  state: /custom/state

keymap:
  file: /custom/keymap.jsonc

session:
  database: /custom/sessions.db
  autosave_interval: 500ms
  history_limit: 5

log:
  level: debug
  file: /custom/easel.log

markdown:
  width: 100
  code_theme: dracula
`

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if cfg.Theme != "light" {
		t.Errorf("expected theme=light, got %s", cfg.Theme)
	}

	if cfg.Paths.State != "/custom/state" {
		t.Errorf("expected state=/custom/state, got %s", cfg.Paths.State)
	}

	if cfg.Keymap.File != "/custom/keymap.jsonc" {
		t.Errorf("expected keymap file=/custom/keymap.jsonc, got %s", cfg.Keymap.File)
	}

	if cfg.Session.Database != "/custom/sessions.db" {
		t.Errorf("expected database=/custom/sessions.db, got %s", cfg.Session.Database)
	}

	if cfg.Session.HistoryLimit != 5 {
		t.Errorf("expected history_limit=5, got %d", cfg.Session.HistoryLimit)
	}

	if cfg.Log.Level != "debug" {
		t.Errorf("expected log level=debug, got %s", cfg.Log.Level)
	}

	if cfg.Markdown.Width != 100 {
		t.Errorf("expected markdown width=100, got %d", cfg.Markdown.Width)
	}

	if cfg.Markdown.CodeTheme != "dracula" {
		t.Errorf("expected code_theme=dracula, got %s", cfg.Markdown.CodeTheme)
	}
}

func TestLoadFile_PartialOverridesKeepDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "easel.yaml")

	configContent := `
theme: light
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if cfg.Theme != "light" {
		t.Errorf("expected theme=light, got %s", cfg.Theme)
	}

	// Untouched sections keep their defaults.
	if cfg.Session.AutosaveInterval != "2s" {
		t.Errorf("expected default autosave_interval=2s, got %s", cfg.Session.AutosaveInterval)
	}
	if cfg.Markdown.CodeTheme != "monokai" {
		t.Errorf("expected default code_theme=monokai, got %s", cfg.Markdown.CodeTheme)
	}
}

func TestStatePathExpansion(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "easel.yaml")

	configContent := `
paths:
  state: /var/easel
session:
  database: ${EASEL_STATE}/snapshots.db
log:
  file: ${EASEL_STATE}/easel.log
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if cfg.Session.Database != "/var/easel/snapshots.db" {
		t.Errorf("expected database=/var/easel/snapshots.db, got %s", cfg.Session.Database)
	}
	if cfg.Log.File != "/var/easel/easel.log" {
		t.Errorf("expected log file=/var/easel/easel.log, got %s", cfg.Log.File)
	}
}

func TestExpandVars(t *testing.T) {
	tests := []struct {
		input    string
		vars     map[string]string
		expected string
	}{
		{
			input:    "${HOME}/easel",
			vars:     map[string]string{"HOME": "/home/user"},
			expected: "/home/user/easel",
		},
		{
			input:    "${MISSING:-default}",
			vars:     map[string]string{},
			expected: "default",
		},
		{
			input:    "${PRESENT:-default}",
			vars:     map[string]string{"PRESENT": "value"},
			expected: "value",
		},
		{
			input:    "${A}/${B}",
			vars:     map[string]string{"A": "first", "B": "second"},
			expected: "first/second",
		},
		{
			input:    "no variables here",
			vars:     map[string]string{},
			expected: "no variables here",
		},
	}

	for _, tt := range tests {
		result := expandVars(tt.input, tt.vars)
		if result != tt.expected {
			t.Errorf("expandVars(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name: "invalid theme",
			modify: func(c *Config) {
				c.Theme = "solarized"
			},
			wantErr: true,
		},
		{
			name: "empty state path",
			modify: func(c *Config) {
				c.Paths.State = ""
			},
			wantErr: true,
		},
		{
			name: "empty database path",
			modify: func(c *Config) {
				c.Session.Database = ""
			},
			wantErr: true,
		},
		{
			name: "unparseable autosave interval",
			modify: func(c *Config) {
				c.Session.AutosaveInterval = "soon"
			},
			wantErr: true,
		},
		{
			name: "negative autosave interval",
			modify: func(c *Config) {
				c.Session.AutosaveInterval = "-1s"
			},
			wantErr: true,
		},
		{
			name: "zero history limit",
			modify: func(c *Config) {
				c.Session.HistoryLimit = 0
			},
			wantErr: true,
		},
		{
			name: "invalid log level",
			modify: func(c *Config) {
				c.Log.Level = "loud"
			},
			wantErr: true,
		},
		{
			name: "negative markdown width",
			modify: func(c *Config) {
				c.Markdown.Width = -1
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestAutosaveDuration(t *testing.T) {
	cfg := Default()
	cfg.Session.AutosaveInterval = "750ms"

	interval, err := cfg.AutosaveDuration()
	if err != nil {
		t.Fatalf("AutosaveDuration: %v", err)
	}
	if interval != 750*time.Millisecond {
		t.Errorf("AutosaveDuration = %v, want 750ms", interval)
	}
}

func TestLogLevel(t *testing.T) {
	cfg := Default()
	cfg.Log.Level = "warn"

	level, err := cfg.LogLevel()
	if err != nil {
		t.Fatalf("LogLevel: %v", err)
	}
	if level != slog.LevelWarn {
		t.Errorf("LogLevel = %v, want %v", level, slog.LevelWarn)
	}
}

func TestEnsurePaths(t *testing.T) {
	tmpDir := t.TempDir()

	cfg := Default()
	cfg.Paths.State = filepath.Join(tmpDir, "state")
	cfg.Session.Database = filepath.Join(cfg.Paths.State, "db", "sessions.db")
	cfg.Log.File = filepath.Join(tmpDir, "logs", "easel.log")

	if err := cfg.EnsurePaths(); err != nil {
		t.Fatalf("EnsurePaths failed: %v", err)
	}

	// Verify directories were created.
	for _, path := range []string{
		cfg.Paths.State,
		filepath.Dir(cfg.Session.Database),
		filepath.Dir(cfg.Log.File),
	} {
		info, err := os.Stat(path)
		if err != nil {
			t.Errorf("path %s not created: %v", path, err)
			continue
		}
		if !info.IsDir() {
			t.Errorf("path %s is not a directory", path)
		}
	}
}
