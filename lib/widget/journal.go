// Copyright 2026 The Easel Authors
// SPDX-License-Identifier: Apache-2.0

package widget

// DefaultJournalSize is the default journal capacity. 256 entries
// cover a feed pane's scrollback for a long interactive session
// without unbounded growth.
const DefaultJournalSize = 256

// Entry is one journal item together with its sequence number.
type Entry[T any] struct {
	// Seq is the item's position in the append order, starting at 1.
	// Sequence numbers are never reused, so they remain stable keys
	// for glow tracking and selection after older items fall off.
	Seq  uint64
	Item T
}

// Journal is a fixed-capacity record of the most recent items
// appended to it. New appends overwrite the oldest entry once the
// journal is full. A monotonically increasing sequence counter tracks
// every append, so consumers can tell how much history has been
// discarded and can key per-entry state by sequence.
type Journal[T any] struct {
	items    []T
	start    int // index of the oldest retained item
	count    int
	appended uint64
}

// NewJournal creates a journal retaining at most capacity items.
// Capacity must be positive; use DefaultJournalSize for the standard
// feed depth.
func NewJournal[T any](capacity int) *Journal[T] {
	if capacity < 1 {
		panic("widget: journal capacity must be positive")
	}
	return &Journal[T]{items: make([]T, capacity)}
}

// Append adds an item, discarding the oldest entry if the journal is
// full, and returns the item's sequence number.
func (journal *Journal[T]) Append(item T) uint64 {
	journal.appended++
	index := (journal.start + journal.count) % len(journal.items)
	journal.items[index] = item
	if journal.count == len(journal.items) {
		journal.start = (journal.start + 1) % len(journal.items)
	} else {
		journal.count++
	}
	return journal.appended
}

// Entries returns the retained items oldest first, each with its
// sequence number.
func (journal *Journal[T]) Entries() []Entry[T] {
	entries := make([]Entry[T], 0, journal.count)
	first := journal.appended - uint64(journal.count) + 1
	for offset := 0; offset < journal.count; offset++ {
		entries = append(entries, Entry[T]{
			Seq:  first + uint64(offset),
			Item: journal.items[(journal.start+offset)%len(journal.items)],
		})
	}
	return entries
}

// Len reports the number of retained items.
func (journal *Journal[T]) Len() int {
	return journal.count
}

// Appended reports the total number of items ever appended, which is
// also the sequence number of the newest entry.
func (journal *Journal[T]) Appended() uint64 {
	return journal.appended
}
