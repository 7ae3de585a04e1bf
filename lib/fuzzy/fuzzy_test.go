// Copyright 2026 The Easel Authors
// SPDX-License-Identifier: Apache-2.0

package fuzzy

import (
	"testing"
)

func TestMatchBasic(t *testing.T) {
	result := Match("Toggle glow animation", []rune("glow"), nil)
	if result.Score <= 0 {
		t.Fatal("expected positive score for substring match")
	}
	if len(result.Positions) == 0 {
		t.Fatal("expected non-empty match positions")
	}
}

func TestMatchNonContiguous(t *testing.T) {
	// "ptt" should match "palette toggle" — p from palette, t from
	// palette/toggle, t from toggle.
	result := Match("palette toggle", []rune("ptt"), nil)
	if result.Score <= 0 {
		t.Fatal("expected positive score for non-contiguous fuzzy match")
	}
}

func TestMatchNoMatch(t *testing.T) {
	result := Match("Toggle glow animation", []rune("xyz"), nil)
	if result.Score != 0 {
		t.Errorf("expected zero score for no match, got %d", result.Score)
	}
	if len(result.Positions) != 0 {
		t.Errorf("expected empty positions for no match, got %v", result.Positions)
	}
}

func TestMatchCaseInsensitiveText(t *testing.T) {
	// Pattern is lowercase, text has uppercase "Glow". The matcher
	// folds the text side, so this should match.
	result := Match("Toggle Glow Animation", []rune("glow"), nil)
	if result.Score <= 0 {
		t.Fatalf("expected case-insensitive match, got score=%d", result.Score)
	}
}

func TestMatchCaseInsensitivePattern(t *testing.T) {
	// Uppercase pattern against lowercase text. The wrapper lowercases
	// the pattern before matching.
	result := Match("toggle glow animation", []rune("GLOW"), nil)
	if result.Score <= 0 {
		t.Fatalf("expected match for uppercase pattern, got score=%d", result.Score)
	}
}

func TestMatchAllCapsText(t *testing.T) {
	result := Match("FEED WIDGET DEMO", []rune("feed"), nil)
	if result.Score <= 0 {
		t.Fatalf("expected match for 'feed' in 'FEED WIDGET DEMO', got score=%d", result.Score)
	}
}

func TestMatchEmptyPattern(t *testing.T) {
	result := Match("anything", []rune{}, nil)
	if result.Score != 0 {
		t.Errorf("expected zero score for empty pattern, got %d", result.Score)
	}
}

func TestMatchEmptyText(t *testing.T) {
	result := Match("", []rune("glow"), nil)
	if result.Score != 0 {
		t.Errorf("expected zero score for empty text, got %d", result.Score)
	}
}

func TestMatchPositionsAscending(t *testing.T) {
	result := Match("open command palette", []rune("palette"), nil)
	if result.Score <= 0 {
		t.Fatal("expected match")
	}
	if len(result.Positions) != len("palette") {
		t.Fatalf("got %d positions, want %d", len(result.Positions), len("palette"))
	}
	for i := 1; i < len(result.Positions); i++ {
		if result.Positions[i] <= result.Positions[i-1] {
			t.Fatalf("positions not ascending: %v", result.Positions)
		}
	}
	// A contiguous substring match reports a contiguous run starting
	// at the substring offset.
	want := len("open command ")
	if result.Positions[0] != want {
		t.Errorf("first position = %d, want %d", result.Positions[0], want)
	}
}

func TestMatchPrefersWordBoundary(t *testing.T) {
	boundary := Match("show help overlay", []rune("help"), nil)
	midWord := Match("whelps overlay", []rune("help"), nil)
	if boundary.Score <= 0 || midWord.Score <= 0 {
		t.Fatal("expected both variants to match")
	}
	if boundary.Score <= midWord.Score {
		t.Errorf("word-boundary match scored %d, mid-word scored %d; want boundary higher",
			boundary.Score, midWord.Score)
	}
}

func TestMatchSharedSlab(t *testing.T) {
	// One slab across sequential matches must not corrupt results.
	slab := NewSlab()
	first := Match("toggle glow animation", []rune("glow"), slab)
	second := Match("reset counter", []rune("reset"), slab)
	if first.Score <= 0 || second.Score <= 0 {
		t.Fatal("expected both matches to succeed with a shared slab")
	}
	if first.Positions[0] != len("toggle ") {
		t.Errorf("first match positions start at %d, want %d", first.Positions[0], len("toggle "))
	}
	if second.Positions[0] != 0 {
		t.Errorf("second match positions start at %d, want 0", second.Positions[0])
	}
}

func TestRankStringsOrdersByScore(t *testing.T) {
	candidates := []string{
		"toggle theme",
		"theme picker",
		"open palette",
	}

	ranked := RankStrings(candidates, "theme")
	if len(ranked) != 2 {
		t.Fatalf("got %d matches, want 2 (no 'h' in %q)", len(ranked), candidates[2])
	}
	// "theme picker" starts with the pattern at a word boundary and
	// should outrank the mid-string match.
	if ranked[0].Index != 1 {
		t.Errorf("best match Index = %d (%q), want 1 (%q)",
			ranked[0].Index, candidates[ranked[0].Index], candidates[1])
	}
	if ranked[0].Score < ranked[1].Score {
		t.Errorf("results not sorted by descending score: %d then %d",
			ranked[0].Score, ranked[1].Score)
	}
}

func TestRankStringsEmptyPattern(t *testing.T) {
	candidates := []string{"alpha", "beta", "gamma"}

	ranked := RankStrings(candidates, "")
	if len(ranked) != len(candidates) {
		t.Fatalf("empty pattern should return all %d candidates, got %d",
			len(candidates), len(ranked))
	}
	for i, r := range ranked {
		if r.Index != i {
			t.Errorf("ranked[%d].Index = %d, want input order preserved", i, r.Index)
		}
		if r.Score != 0 {
			t.Errorf("ranked[%d].Score = %d, want 0 for empty pattern", i, r.Score)
		}
		if len(r.Positions) != 0 {
			t.Errorf("ranked[%d] has positions with empty pattern", i)
		}
	}
}

func TestRankStringsStableTies(t *testing.T) {
	// Identical candidates score identically; stable sort keeps input
	// order.
	candidates := []string{"toggle glow", "toggle glow"}

	ranked := RankStrings(candidates, "glow")
	if len(ranked) != 2 {
		t.Fatalf("got %d matches, want 2", len(ranked))
	}
	if ranked[0].Index != 0 || ranked[1].Index != 1 {
		t.Errorf("tie order = [%d %d], want [0 1]", ranked[0].Index, ranked[1].Index)
	}
}

func TestRankStringsNoMatches(t *testing.T) {
	ranked := RankStrings([]string{"alpha", "beta"}, "zzz")
	if len(ranked) != 0 {
		t.Errorf("got %d matches for impossible pattern, want 0", len(ranked))
	}
}
