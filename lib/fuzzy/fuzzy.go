// Copyright 2026 The Easel Authors
// SPDX-License-Identifier: Apache-2.0

package fuzzy

import (
	"cmp"
	"slices"
	"unicode"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"
)

// Slab sizes match fzf's own matcher defaults: the 16-bit slab backs
// the score/consecutive matrices, the 32-bit slab backs index
// bookkeeping.
const (
	slab16Size = 100 * 1024
	slab32Size = 2048
)

// NewSlab allocates scratch memory for a matching loop. One slab
// serves any number of sequential Match calls.
func NewSlab() *util.Slab {
	return util.MakeSlab(slab16Size, slab32Size)
}

// Result holds the outcome of matching a pattern against one text.
// Score is zero when the pattern did not match; Positions are the
// matched rune indices in ascending order, for highlighting.
type Result struct {
	Score     int
	Positions []int
}

// Match scores pattern against text, case-insensitively. The pattern
// is lowercased here and the matcher folds the text side, so callers
// can pass user input verbatim. An empty pattern scores zero.
func Match(text string, pattern []rune, slab *util.Slab) Result {
	if len(pattern) == 0 || text == "" {
		return Result{}
	}

	// fzf expects the pattern pre-lowercased when matching
	// case-insensitively; it folds only the text side.
	lowered := make([]rune, len(pattern))
	for i, r := range pattern {
		lowered[i] = unicode.ToLower(r)
	}

	chars := util.ToChars([]byte(text))
	matched, positions := algo.FuzzyMatchV2(false, true, true, &chars, lowered, true, slab)
	if matched.Score <= 0 {
		return Result{}
	}

	var matchedAt []int
	if positions != nil {
		// Backtracking reports positions end-first.
		matchedAt = *positions
		slices.Sort(matchedAt)
	}
	return Result{Score: matched.Score, Positions: matchedAt}
}

// Ranked pairs a candidate's index in the input slice with its match
// result.
type Ranked struct {
	Index int
	Result
}

// RankStrings matches pattern against every candidate and returns the
// matches sorted by descending score. Ties keep the input order. An
// empty pattern matches every candidate with a zero score, preserving
// input order, so callers can show the unfiltered list.
func RankStrings(candidates []string, pattern string) []Ranked {
	if pattern == "" {
		ranked := make([]Ranked, len(candidates))
		for i := range candidates {
			ranked[i] = Ranked{Index: i}
		}
		return ranked
	}

	runes := []rune(pattern)
	slab := NewSlab()

	var ranked []Ranked
	for i, candidate := range candidates {
		result := Match(candidate, runes, slab)
		if result.Score <= 0 {
			continue
		}
		ranked = append(ranked, Ranked{Index: i, Result: result})
	}

	slices.SortStableFunc(ranked, func(a, b Ranked) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return ranked
}
