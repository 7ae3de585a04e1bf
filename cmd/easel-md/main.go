// Copyright 2026 The Easel Authors
// SPDX-License-Identifier: Apache-2.0

// easel-md renders a markdown file as styled terminal text: the
// standalone face of Easel's markdown renderer. Output wraps to the
// terminal width (or --width) and always carries ANSI styling, so it
// pages cleanly through "easel-md README.md | less -R".
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/easel-foundation/easel/lib/config"
	"github.com/easel-foundation/easel/lib/markdown"
	"github.com/easel-foundation/easel/lib/version"
	"github.com/easel-foundation/easel/lib/widget"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var configPath string
	var themeName string
	var codeTheme string
	var width int

	flagSet := pflag.NewFlagSet("easel-md", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to config file (default: $EASEL_CONFIG)")
	flagSet.StringVar(&themeName, "theme", "", "color theme: dark or light (overrides config)")
	flagSet.StringVar(&codeTheme, "code-theme", "", "chroma style for fenced code (overrides config)")
	flagSet.IntVar(&width, "width", 0, "wrap width in cells (0 = terminal width)")
	flagSet.BoolP("help", "h", false, "show help")

	// Handle --version before flag parsing, like every Easel binary.
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		fmt.Printf("easel-md %s\n", version.Info())
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

	args := flagSet.Args()
	if len(args) != 1 {
		return fmt.Errorf("expected exactly one file argument (or - for stdin), got %d", len(args))
	}

	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}
	if themeName == "" {
		themeName = cfg.Theme
	}
	if codeTheme == "" {
		codeTheme = cfg.Markdown.CodeTheme
	}
	if width == 0 {
		width = cfg.Markdown.Width
	}

	theme, ok := widget.ByName(themeName)
	if !ok {
		return fmt.Errorf("unknown theme %q (want dark or light)", themeName)
	}
	if codeTheme != "" {
		theme.CodeStyle = codeTheme
	}

	source, err := readSource(args[0])
	if err != nil {
		return err
	}

	fmt.Println(markdown.Render(string(source), theme, renderWidth(width, int(os.Stdout.Fd()))))
	return nil
}

// readSource returns the markdown input: the named file, or stdin
// when path is "-".
func readSource(path string) ([]byte, error) {
	if path == "-" {
		source, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return source, nil
	}
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return source, nil
}

// renderWidth resolves the wrap width: an explicit request wins,
// otherwise the terminal's current width, otherwise 80 when output
// is not a terminal (a pipe or a file).
func renderWidth(requested, fd int) int {
	if requested > 0 {
		return requested
	}
	if term.IsTerminal(fd) {
		if columns, _, err := term.GetSize(fd); err == nil && columns > 0 {
			return columns
		}
	}
	return 80
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `Easel markdown previewer — renders CommonMark as styled terminal text.

Usage:
  easel-md [flags] FILE
  easel-md -          # read from stdin

Examples:
  easel-md README.md
  easel-md --width 72 --theme light notes.md
  cat CHANGELOG.md | easel-md - | less -R

Flags:
`)
	flagSet.SetOutput(os.Stderr)
	flagSet.PrintDefaults()
}
