// Copyright 2026 The Easel Authors
// SPDX-License-Identifier: Apache-2.0

// Package applog builds the diagnostic logger shared by Easel
// commands.
//
// A TUI owns the terminal, so logging to stderr would corrupt the
// display. Commands log to a file when one is configured and discard
// otherwise. This package is internal: it encodes the command-line
// applications' logging policy, not a general facility.
package applog

import (
	"fmt"
	"log/slog"
	"os"
)

// Open returns a logger writing to the file at path, creating or
// appending as needed. An empty path returns a logger that discards
// everything. The returned close function releases the file handle;
// it is a no-op for the discard logger.
func Open(level slog.Level, path string) (*slog.Logger, func() error, error) {
	if path == "" {
		return slog.New(slog.DiscardHandler), func() error { return nil }, nil
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("applog: opening %s: %w", path, err)
	}

	handler := slog.NewTextHandler(file, &slog.HandlerOptions{Level: level})
	return slog.New(handler), file.Close, nil
}
