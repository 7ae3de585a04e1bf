// Copyright 2026 The Easel Authors
// SPDX-License-Identifier: Apache-2.0

// easel-gallery is an interactive showcase of the Easel runtime: a
// counter entity and an activity feed entity wired together through
// subscriptions, driven from a bubbletea program with a fuzzy command
// palette, a markdown help overlay, and glow animation on changed
// rows.
//
// UI state (theme, counter value, glow setting) persists between runs
// in the session database and is restored on launch. Keybindings come
// from the embedded JSONC keymap, optionally layered with a user file
// (--keymap or the config's keymap.file).
package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/easel-foundation/easel/internal/applog"
	"github.com/easel-foundation/easel/lib/app"
	"github.com/easel-foundation/easel/lib/clock"
	"github.com/easel-foundation/easel/lib/config"
	"github.com/easel-foundation/easel/lib/keymap"
	"github.com/easel-foundation/easel/lib/session"
	"github.com/easel-foundation/easel/lib/version"
)

//go:embed help.md
var helpText string

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var configPath string
	var keymapPath string
	var sessionDB string
	var logOutput string
	var noPersist bool

	flagSet := pflag.NewFlagSet("easel-gallery", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to config file (default: $EASEL_CONFIG)")
	flagSet.StringVar(&keymapPath, "keymap", "", "path to a user keymap file (JSONC)")
	flagSet.StringVar(&sessionDB, "session-db", "", "path to the session database (overrides config)")
	flagSet.StringVar(&logOutput, "log-output", "", "append log records to this file (overrides config)")
	flagSet.BoolVar(&noPersist, "no-persist", false, "run without session persistence")
	flagSet.BoolP("help", "h", false, "show help")

	// Handle --version before flag parsing, like every Easel binary.
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		fmt.Printf("easel-gallery %s\n", version.Info())
		return nil
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}
	if args := flagSet.Args(); len(args) > 0 {
		return fmt.Errorf("unexpected argument: %s", args[0])
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if keymapPath != "" {
		cfg.Keymap.File = keymapPath
	}
	if sessionDB != "" {
		cfg.Session.Database = sessionDB
	}
	if logOutput != "" {
		cfg.Log.File = logOutput
	}

	level, err := cfg.LogLevel()
	if err != nil {
		return err
	}
	logger, closeLog, err := applog.Open(level, cfg.Log.File)
	if err != nil {
		return err
	}
	defer closeLog()

	keys, err := keymap.Load(cfg.Keymap.File)
	if err != nil {
		return err
	}

	clk := clock.Real()
	snapshot := gallerySnapshot{Theme: cfg.Theme, GlowEnabled: true}

	var saver *session.Autosaver
	var store *session.Store

	// program is set after tea.NewProgram below; the autosaver's
	// notify callback runs on the timer goroutine and may fire in
	// the window before the program exists.
	var program atomic.Pointer[tea.Program]

	if !noPersist {
		if err := cfg.EnsurePaths(); err != nil {
			return err
		}
		interval, err := cfg.AutosaveDuration()
		if err != nil {
			return err
		}
		store, err = session.OpenStore(session.StoreConfig{
			Path:         cfg.Session.Database,
			HistoryLimit: cfg.Session.HistoryLimit,
			Clock:        clk,
			Logger:       logger,
		})
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Load(context.Background(), sessionName, &snapshot); err != nil {
			if !errors.Is(err, session.ErrNotFound) {
				return err
			}
			// First run: keep the defaults.
		}

		saver, err = session.NewAutosaver(session.AutosaverConfig{
			Store:    store,
			Session:  sessionName,
			Interval: interval,
			Clock:    clk,
			Logger:   logger,
			Notify: func(result session.SaveResult) {
				if p := program.Load(); p != nil {
					p.Send(autosaveMsg{result: result})
				}
			},
		})
		if err != nil {
			return err
		}
	}

	runtime := app.New(logger)
	runtime.OnQuit(func(a *app.App) {
		logger.Debug("gallery shutting down", "entities", a.EntityCount())
	})

	m := newModel(modelConfig{
		runtime:      runtime,
		keys:         keys,
		clock:        clk,
		saver:        saver,
		themeName:    snapshot.Theme,
		glowEnabled:  snapshot.GlowEnabled,
		counterStart: snapshot.Counter,
	})

	p := tea.NewProgram(m, tea.WithAltScreen())
	program.Store(p)
	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	if saver != nil {
		if final, ok := finalModel.(model); ok {
			saver.Touch(final.snapshot())
		}
		if err := saver.Close(); err != nil {
			return fmt.Errorf("saving final session state: %w", err)
		}
	}
	return nil
}

// loadConfig resolves the effective configuration: an explicit
// --config path, else $EASEL_CONFIG, else built-in defaults.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `Easel gallery — interactive showcase of the Easel runtime.

A counter and an activity feed live in the runtime as entities; the
feed subscribes to counter events, glow animation highlights new
rows, and ctrl-p opens a fuzzy command palette over every bound
action. Press ? inside the gallery for the key reference.

Usage:
  easel-gallery [flags]

Flags:
`)
	flagSet.SetOutput(os.Stderr)
	flagSet.PrintDefaults()
}
