// Copyright 2026 The Easel Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for Easel
// applications.
//
// Configuration is loaded from a single file specified by either the
// EASEL_CONFIG environment variable (via [Load]) or a --config flag
// (via [LoadFile]). There is no ~/.config discovery and no automatic
// file search; when EASEL_CONFIG is unset, [Load] returns the
// defaults. This keeps configuration deterministic and auditable.
//
// Variable expansion is performed on path fields after loading:
// ${HOME}, ${EASEL_STATE}, and ${VAR:-default} patterns are expanded.
// No other environment variables override config values.
//
// Key exports:
//
//   - [Config] -- master struct with Theme, Paths, Keymap, Session,
//     Log, and Markdown sections
//   - [Default] -- returns a Config with out-of-the-box defaults
//   - [Load] and [LoadFile] -- the two entry points for loading
//
// This package depends on no other Easel packages.
package config
