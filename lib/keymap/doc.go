// Copyright 2026 The Easel Authors
// SPDX-License-Identifier: Apache-2.0

// Package keymap loads user-editable key bindings from JSONC files
// and resolves keystroke sequences to action names.
//
// A keymap file is an array of sections. Each section has an optional
// context naming the surface its bindings apply to (empty means
// global) and a bindings object mapping keystroke sequences to action
// names:
//
//	[
//	  {
//	    "bindings": {
//	      "ctrl-p": "palette::toggle",
//	      "ctrl-k ctrl-t": "theme::toggle" // two-stroke chord
//	    }
//	  },
//	  {
//	    "context": "feed",
//	    "bindings": {
//	      "j": "feed::next",
//	      "shift-g": "feed::bottom"
//	    }
//	  }
//	]
//
// A sequence is whitespace-separated keystrokes; a keystroke is
// dash-separated modifiers (ctrl, alt, shift, cmd) followed by a key.
// Sections later in the load order shadow earlier ones for the same
// context and sequence, and binding a sequence to null (or "")
// removes it. Load appends the user's file after the embedded
// default keymap, so user bindings always win.
//
// Resolution is context-aware and chord-aware: Resolve reports the
// bound action for an exact match, and whether the sequence is a
// prefix of a longer chord so the caller can hold keystrokes pending.
package keymap
