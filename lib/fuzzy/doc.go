// Copyright 2026 The Easel Authors
// SPDX-License-Identifier: Apache-2.0

// Package fuzzy scores candidate strings against a typed pattern for
// the command palette. Scoring delegates to fzf's FuzzyMatchV2, the
// same algorithm interactive pickers use: non-contiguous matches with
// word-boundary and camel-case bonuses, so "tg" finds "Toggle Glow"
// and ranks it above accidental letter runs.
//
// Match scores one string and reports the matched rune positions for
// highlighting. RankStrings scores a whole candidate list and returns
// the matches ordered best-first. Both are case-insensitive.
//
// A util.Slab is scratch memory for the matcher. Allocate one with
// NewSlab and reuse it across calls in a matching loop; passing nil
// works but allocates per call. Slabs are not safe for concurrent
// use.
package fuzzy
