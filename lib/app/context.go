// Copyright 2026 The Easel Authors
// SPDX-License-Identifier: Apache-2.0

package app

import "github.com/easel-foundation/easel/lib/subscriber"

// Context carries the identity of the entity whose update is running.
// It is valid only for the duration of the call that received it; do
// not store one.
type Context[T any] struct {
	app    *App
	handle Handle[T]
}

// App returns the runtime, for operations on other entities.
func (ctx *Context[T]) App() *App {
	return ctx.app
}

// Handle returns the handle of the entity being updated.
func (ctx *Context[T]) Handle() Handle[T] {
	return ctx.handle
}

// Notify schedules a change notification for this entity. Observers
// run after the current update completes.
func (ctx *Context[T]) Notify() {
	ctx.app.Notify(ctx.handle.id)
}

// Emit broadcasts an event from this entity to its listeners, after
// the current update completes.
func (ctx *Context[T]) Emit(event any) {
	ctx.app.Emit(ctx.handle.id, event)
}

// Defer schedules fn to run when the current update's effects flush.
func (ctx *Context[T]) Defer(fn func(*App)) {
	ctx.app.Defer(fn)
}

// --- Typed, lifetime-pruned subscriptions ---
//
// These anchor a subscription to the updating entity: when either
// side of the relationship is released, the registration prunes
// itself on its next dispatch. They are package functions rather than
// Context methods because they introduce the watched entity's type.

// Observe runs fn after each change notification on observed, with
// the observing entity's state leased for the duration. The
// registration is dropped automatically once the observer no longer
// exists.
func Observe[T, U any](ctx *Context[T], observed Handle[U], fn func(state *T, observed Handle[U], ctx *Context[T])) *subscriber.Subscription {
	observer := ctx.handle
	return ctx.app.ObserveEntity(observed.ID(), func(a *App) bool {
		if !observer.Alive(a) {
			return false
		}
		observer.Update(a, func(state *T, inner *Context[T]) {
			fn(state, observed, inner)
		})
		return true
	})
}

// OnEvent runs fn for each event of type E emitted by source. Events
// of other types leave the registration in place without invoking fn.
// The registration is dropped automatically once the observing entity
// no longer exists.
func OnEvent[T, U any, E any](ctx *Context[T], source Handle[U], fn func(state *T, source Handle[U], event E, ctx *Context[T])) *subscriber.Subscription {
	observer := ctx.handle
	return ctx.app.OnEntityEvent(source.ID(), func(a *App, payload any) bool {
		event, matches := payload.(E)
		if !matches {
			return true
		}
		if !observer.Alive(a) {
			return false
		}
		observer.Update(a, func(state *T, inner *Context[T]) {
			fn(state, source, event, inner)
		})
		return true
	})
}

// OnRelease runs fn once when observed is released, with the released
// entity's final state. If the observing entity is gone by then,
// nothing runs.
func OnRelease[T, U any](ctx *Context[T], observed Handle[U], fn func(state *T, released *U, ctx *Context[T])) *subscriber.Subscription {
	observer := ctx.handle
	return ctx.app.OnEntityRelease(observed.ID(), func(a *App, final any) {
		released, matches := final.(*U)
		if !matches {
			return
		}
		if !observer.Alive(a) {
			return
		}
		observer.Update(a, func(state *T, inner *Context[T]) {
			fn(state, released, inner)
		})
	})
}
