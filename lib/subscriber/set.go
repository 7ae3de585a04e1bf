// Copyright 2026 The Easel Authors
// SPDX-License-Identifier: Apache-2.0

package subscriber

import (
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
)

// ID identifies one registration within a Set. IDs are allocated from
// a single counter per Set, so they are unique across emitters and
// ascend in registration order. The counter is 64 bits and never
// recycled; overflow would take 2^64 inserts and is treated as
// unreachable rather than handled.
type ID uint64

// subscriber is one registered callback plus the activation token
// that gates whether it may run.
type subscriber[V any] struct {
	active   *atomic.Bool
	callback V
}

// dropRecord names a registration whose unsubscribe arrived while its
// emitter's slot was checked out by a running Retain pass.
type dropRecord[K comparable] struct {
	emitter K
	id      ID
}

// Set is a registry of callbacks keyed by emitter. The zero value is
// not usable; construct with NewSet.
type Set[K comparable, V any] struct {
	mu     sync.Mutex
	nextID ID

	// subscribers maps an emitter to its registrations. A key present
	// with a nil inner map is checked out: a Retain pass owns the
	// real map for the duration of its iteration. Inserts made during
	// the pass land in a fresh map under the same key and are merged
	// in when the pass completes. An emitter with no registrations
	// has no entry at all.
	subscribers map[K]map[ID]*subscriber[V]

	// dropped records unsubscribes that could not act on the live map
	// because their emitter was checked out. The running Retain pass
	// reconciles and clears it before writing the map back.
	dropped map[dropRecord[K]]struct{}
}

// NewSet returns an empty registry.
func NewSet[K comparable, V any]() *Set[K, V] {
	return &Set[K, V]{
		subscribers: make(map[K]map[ID]*subscriber[V]),
		dropped:     make(map[dropRecord[K]]struct{}),
	}
}

// Insert registers callback under emitter and returns the handle that
// controls the registration's lifetime plus an activation function.
// The subscriber starts inert: Retain and Remove skip it until
// activate runs. Callers activate once their own setup is complete,
// typically via the runtime's deferred-effect queue, so that a
// half-built owner can never observe its own callback firing.
func (set *Set[K, V]) Insert(emitter K, callback V) (*Subscription, func()) {
	active := &atomic.Bool{}

	set.mu.Lock()
	set.nextID++
	id := set.nextID
	slot := set.subscribers[emitter]
	if slot == nil {
		// Covers both an absent emitter and one checked out by a
		// running Retain pass. In the checked-out case this fresh
		// map holds the pass's side inserts until reconciliation.
		slot = make(map[ID]*subscriber[V])
		set.subscribers[emitter] = slot
	}
	slot[id] = &subscriber[V]{active: active, callback: callback}
	set.mu.Unlock()

	handle := &Subscription{unsubscribe: func() {
		set.mu.Lock()
		defer set.mu.Unlock()
		slot, ok := set.subscribers[emitter]
		if !ok {
			// Emitter already torn down; nothing to sever.
			return
		}
		if slot == nil {
			// A Retain pass owns this emitter's map. Record the
			// drop for the pass to reconcile when it completes.
			set.dropped[dropRecord[K]{emitter: emitter, id: id}] = struct{}{}
			return
		}
		delete(slot, id)
		if len(slot) == 0 {
			delete(set.subscribers, emitter)
		}
	}}
	return handle, func() { active.Store(true) }
}

// Remove detaches emitter's entire slot and returns the callbacks of
// its active subscribers in registration order. Inert subscribers are
// discarded without ever running. Callers invoke the returned
// callbacks as a final teardown notification; afterward the emitter
// is absent from the registry and later operations on it are no-ops.
func (set *Set[K, V]) Remove(emitter K) []V {
	set.mu.Lock()
	slot := set.subscribers[emitter]
	delete(set.subscribers, emitter)
	set.mu.Unlock()

	if len(slot) == 0 {
		return nil
	}
	callbacks := make([]V, 0, len(slot))
	for _, id := range sortedIDs(slot) {
		if sub := slot[id]; sub.active.Load() {
			callbacks = append(callbacks, sub.callback)
		}
	}
	return callbacks
}

// Retain runs one notification pass over emitter's subscribers.
// Active subscribers are visited in registration order; f receives a
// pointer to the stored callback and reports whether the registration
// is kept. Inert subscribers are kept without being visited.
//
// The pass owns the subscriber map for its duration. Re-entrant
// inserts are merged in after the pass completes and are not visited
// by it; re-entrant unsubscribes take effect when the pass completes;
// a nested Retain on the same emitter is a no-op. An emitter with no
// registrations is a no-op.
func (set *Set[K, V]) Retain(emitter K, f func(callback *V) bool) {
	set.mu.Lock()
	checked := set.subscribers[emitter]
	if checked == nil {
		// Absent, or already checked out by a pass higher on the
		// call stack. Either way there is nothing to visit.
		set.mu.Unlock()
		return
	}
	set.subscribers[emitter] = nil
	set.mu.Unlock()

	for _, id := range sortedIDs(checked) {
		sub := checked[id]
		if !sub.active.Load() {
			continue
		}
		if !f(&sub.callback) {
			delete(checked, id)
		}
	}

	set.mu.Lock()
	defer set.mu.Unlock()

	// Merge registrations added while the map was checked out. They
	// were not visited by this pass; the next one sees them.
	for id, sub := range set.subscribers[emitter] {
		checked[id] = sub
	}
	delete(set.subscribers, emitter)

	// Reconcile unsubscribes that arrived during the pass. IDs are
	// unique across emitters, so a record carrying a foreign emitter
	// cannot name an entry of this map and the delete is a no-op.
	for record := range set.dropped {
		if debugAssertions && record.emitter != emitter {
			panic(fmt.Sprintf("subscriber: drop record for emitter %v reconciled during a pass over %v", record.emitter, emitter))
		}
		delete(checked, record.id)
	}
	clear(set.dropped)

	if len(checked) > 0 {
		set.subscribers[emitter] = checked
	}
}

// Len reports the number of registrations currently stored for
// emitter, active and inert alike. While a Retain pass has the
// emitter checked out, only registrations added since the pass began
// are counted.
func (set *Set[K, V]) Len(emitter K) int {
	set.mu.Lock()
	defer set.mu.Unlock()
	return len(set.subscribers[emitter])
}

// sortedIDs returns the map's keys in ascending order. Registration
// order for dispatch is defined by ID order, not map iteration order.
func sortedIDs[V any](slot map[ID]*subscriber[V]) []ID {
	ids := make([]ID, 0, len(slot))
	for id := range slot {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
