// Copyright 2026 The Easel Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRenderWidth_ExplicitWins(t *testing.T) {
	if got := renderWidth(72, -1); got != 72 {
		t.Errorf("renderWidth(72, -1) = %d, want 72", got)
	}
}

func TestRenderWidth_NonTerminalFallsBackTo80(t *testing.T) {
	// A test process's stdout is a pipe, never a terminal.
	if got := renderWidth(0, int(os.Stdout.Fd())); got != 80 {
		t.Errorf("renderWidth(0, pipe) = %d, want 80", got)
	}
}

func TestReadSource_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.md")
	if err := os.WriteFile(path, []byte("# Title\n"), 0644); err != nil {
		t.Fatal(err)
	}
	source, err := readSource(path)
	if err != nil {
		t.Fatalf("readSource: %v", err)
	}
	if string(source) != "# Title\n" {
		t.Errorf("readSource = %q, want file contents", source)
	}
}

func TestReadSource_MissingFile(t *testing.T) {
	if _, err := readSource(filepath.Join(t.TempDir(), "absent.md")); err == nil {
		t.Error("readSource of missing file returned nil error")
	}
}
