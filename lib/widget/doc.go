// Copyright 2026 The Easel Authors
// SPDX-License-Identifier: Apache-2.0

// Package widget provides the shared building blocks for Easel's
// terminal surfaces: the color theme, the glow tracker that animates
// recently-changed rows, the bounded journal backing event feeds, the
// fuzzy command palette, overlay splicing, and the scrollbar column.
//
// Widgets here are plain state plus render functions; they carry no
// bubbletea machinery of their own. A program routes input to them
// and splices their rendered lines into its view, which keeps them
// testable without a terminal.
package widget
