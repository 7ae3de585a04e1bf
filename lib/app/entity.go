// Copyright 2026 The Easel Authors
// SPDX-License-Identifier: Apache-2.0

package app

import "fmt"

// ID is the stable identity of an entity within one App. IDs ascend
// from 1 and are never reused; the zero ID is never a live entity.
type ID uint64

// slot holds one entity's state in the arena. The lease flag is the
// runtime's single-writer check: it is set while an update (or the
// initial build) has the state, and any other access to the same
// entity panics until the lease returns.
type slot struct {
	state  any // *T, nil until the build function returns
	leased bool
}

// Handle is a typed reference to an entity. Handles are small values,
// cheap to copy and to capture in closures; they do not keep the
// entity alive and they remain valid to hold after release, where
// Alive reports false.
type Handle[T any] struct {
	id ID
}

// ID returns the entity's identity, the key used with the App's
// notification and event registries.
func (handle Handle[T]) ID() ID {
	return handle.id
}

// Alive reports whether the entity still exists in the arena.
func (handle Handle[T]) Alive(a *App) bool {
	_, ok := a.entities[handle.id]
	return ok
}

// NewEntity creates an entity whose initial state is produced by
// build. The slot is reserved before build runs, so the build
// function can register subscriptions against the entity's own
// handle; those subscriptions activate only after the built state has
// landed, at the flush that follows construction.
func NewEntity[T any](a *App, build func(ctx *Context[T]) T) Handle[T] {
	a.startUpdate()
	defer a.finishUpdate()

	a.nextEntityID++
	id := a.nextEntityID
	handle := Handle[T]{id: id}

	entitySlot := &slot{leased: true}
	a.entities[id] = entitySlot

	state := build(&Context[T]{app: a, handle: handle})
	entitySlot.state = &state
	entitySlot.leased = false

	a.logger.Debug("entity created", "entity", id)
	return handle
}

// Read returns the entity's current state. The returned pointer is a
// view, not a lease: callers must not mutate through it, and must not
// retain it across updates. Mutation goes through Update so that
// observers hear about it.
func (handle Handle[T]) Read(a *App) *T {
	entitySlot, ok := a.entities[handle.id]
	if !ok {
		panic(fmt.Sprintf("app: read of released entity %d", handle.id))
	}
	if entitySlot.leased {
		panic(fmt.Sprintf("app: read of entity %d during its own update; use the state argument instead", handle.id))
	}
	return stateOf[T](entitySlot, handle.id)
}

// Update leases the entity's state to fn along with a Context for
// scheduling notifications and events. Updating an entity that is
// already mid-update panics: that is aliased mutable access, the
// exact bug the lease exists to catch. Updates of other entities from
// inside fn are fine.
func (handle Handle[T]) Update(a *App, fn func(state *T, ctx *Context[T])) {
	a.startUpdate()
	defer a.finishUpdate()

	entitySlot, ok := a.entities[handle.id]
	if !ok {
		panic(fmt.Sprintf("app: update of released entity %d", handle.id))
	}
	if entitySlot.leased {
		panic(fmt.Sprintf("app: re-entrant update of entity %d", handle.id))
	}
	state := stateOf[T](entitySlot, handle.id)
	entitySlot.leased = true
	defer func() { entitySlot.leased = false }()

	fn(state, &Context[T]{app: a, handle: handle})
}

// EntityCount reports the number of live entities.
func (a *App) EntityCount() int {
	return len(a.entities)
}

func stateOf[T any](entitySlot *slot, id ID) *T {
	state, ok := entitySlot.state.(*T)
	if !ok {
		panic(fmt.Sprintf("app: entity %d holds %T, not %T", id, entitySlot.state, (*T)(nil)))
	}
	return state
}
