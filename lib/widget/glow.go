// Copyright 2026 The Easel Authors
// SPDX-License-Identifier: Apache-2.0

package widget

import "time"

// GlowDecayDuration is how long a row glows after a change event.
// Heat starts at 1.0 and decays linearly to 0.0 over this duration.
const GlowDecayDuration = 4 * time.Second

// GlowTickInterval is the re-render interval while any rows are
// glowing. 100ms gives ~10fps animation for smooth decay.
const GlowTickInterval = 100 * time.Millisecond

// GlowKind distinguishes change types for tint selection.
type GlowKind int

const (
	// GlowChange marks a row that was created or updated.
	GlowChange GlowKind = iota
	// GlowAlert marks a removal or a destructive action.
	GlowAlert
)

// glowEntry records when and how a row was last changed.
type glowEntry struct {
	ignition time.Time
	kind     GlowKind
}

// Glow maps row identifiers to ignition timestamps for animated
// change highlighting. A change notification ignites a row, which
// then cools from full intensity to zero over [GlowDecayDuration].
// Rows are identified by uint64 so feed journals can key glow by
// entry sequence and entity views by entity ID.
type Glow struct {
	entries map[uint64]glowEntry
}

// NewGlow creates an empty glow tracker.
func NewGlow() *Glow {
	return &Glow{entries: make(map[uint64]glowEntry)}
}

// Ignite records a change event for a row, restarting its decay if
// it was already glowing.
func (glow *Glow) Ignite(id uint64, kind GlowKind, now time.Time) {
	glow.entries[id] = glowEntry{ignition: now, kind: kind}
}

// Heat returns the current intensity for a row: 1.0 at ignition,
// decaying linearly to 0.0 over [GlowDecayDuration]. Rows never
// ignited, or fully cooled, report 0.0.
func (glow *Glow) Heat(id uint64, now time.Time) float64 {
	entry, exists := glow.entries[id]
	if !exists {
		return 0.0
	}
	elapsed := now.Sub(entry.ignition)
	if elapsed >= GlowDecayDuration {
		return 0.0
	}
	return 1.0 - float64(elapsed)/float64(GlowDecayDuration)
}

// Kind returns the glow kind for a row. Only meaningful while Heat
// reports a positive value.
func (glow *Glow) Kind(id uint64) GlowKind {
	return glow.entries[id].kind
}

// Active reports whether any row still has heat, meaning the caller
// should keep its animation tick running. Fully cooled entries are
// garbage-collected during the scan.
func (glow *Glow) Active(now time.Time) bool {
	for id, entry := range glow.entries {
		if now.Sub(entry.ignition) < GlowDecayDuration {
			return true
		}
		delete(glow.entries, id)
	}
	return false
}
