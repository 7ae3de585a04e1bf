// Copyright 2026 The Easel Authors
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"log/slog"

	"github.com/easel-foundation/easel/lib/subscriber"
)

// Observer runs after a change notification on the entity it watches.
// It reports whether to keep the registration.
type Observer func(a *App) bool

// EventListener runs for each event emitted by the entity it watches.
// It reports whether to keep the registration.
type EventListener func(a *App, event any) bool

// ReleaseListener runs once when the entity it watches is released,
// receiving the entity's final state.
type ReleaseListener func(a *App, state any)

// App is the reactive runtime. One App owns the entity arena, the
// three subscriber registries, and the effect queue. Not safe for
// concurrent use: confine each App to a single goroutine.
type App struct {
	logger *slog.Logger

	nextEntityID ID
	entities     map[ID]*slot

	observers        *subscriber.Set[ID, Observer]
	eventListeners   *subscriber.Set[ID, EventListener]
	releaseObservers *subscriber.Set[ID, ReleaseListener]

	pendingEffects       []effect
	pendingNotifications map[ID]struct{}
	flushing             bool
	updateDepth          int

	quitHandlers []func(*App)
	quitting     bool
}

// New creates an empty runtime. A nil logger discards runtime
// lifecycle logging.
func New(logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &App{
		logger:               logger,
		entities:             make(map[ID]*slot),
		observers:            subscriber.NewSet[ID, Observer](),
		eventListeners:       subscriber.NewSet[ID, EventListener](),
		releaseObservers:     subscriber.NewSet[ID, ReleaseListener](),
		pendingNotifications: make(map[ID]struct{}),
	}
}

// --- Update scopes and the effect queue ---

// Update runs fn inside one update scope. Effects enqueued by fn, and
// by anything it calls, are flushed together when the outermost scope
// exits. Every public mutating call opens a scope of its own, so
// explicit Update is only needed to batch several mutations into one
// flush.
func (a *App) Update(fn func(*App)) {
	a.startUpdate()
	defer a.finishUpdate()
	fn(a)
}

func (a *App) startUpdate() {
	a.updateDepth++
}

func (a *App) finishUpdate() {
	a.updateDepth--
	if a.updateDepth == 0 {
		a.flushEffects()
	}
}

// flushEffects drains the queue in FIFO order. Effects enqueued while
// the loop runs (by callbacks the effects invoke) are drained by this
// same loop; a nested flush attempt is a no-op.
func (a *App) flushEffects() {
	if a.flushing {
		return
	}
	a.flushing = true
	defer func() { a.flushing = false }()

	for index := 0; index < len(a.pendingEffects); index++ {
		a.pendingEffects[index].apply(a)
		a.pendingEffects[index] = nil
	}
	a.pendingEffects = a.pendingEffects[:0]
}

// Notify schedules a change notification for the given entity, firing
// its observers after the current mutation completes. Notifications
// coalesce: repeated calls before the effect dispatches enqueue a
// single observer pass.
func (a *App) Notify(id ID) {
	a.startUpdate()
	defer a.finishUpdate()
	if _, pending := a.pendingNotifications[id]; pending {
		return
	}
	a.pendingNotifications[id] = struct{}{}
	a.pendingEffects = append(a.pendingEffects, notifyEffect{entity: id})
}

// Emit schedules delivery of an event from the given entity to its
// listeners. Events are delivered one pass per Emit, in order.
func (a *App) Emit(id ID, event any) {
	a.startUpdate()
	defer a.finishUpdate()
	a.pendingEffects = append(a.pendingEffects, emitEffect{entity: id, payload: event})
}

// Defer schedules fn to run when the current update's effects flush.
// Outside an update scope it runs before Defer returns, as part of
// the immediate flush.
func (a *App) Defer(fn func(*App)) {
	a.startUpdate()
	defer a.finishUpdate()
	a.pendingEffects = append(a.pendingEffects, deferEffect{callback: fn})
}

// ReleaseEntity schedules destruction of an entity. At flush the
// entity's slot is removed, its observers and listeners are
// discarded, and its release observers fire once with the final
// state. Releasing an unknown or already-released ID is a no-op.
func (a *App) ReleaseEntity(id ID) {
	a.startUpdate()
	defer a.finishUpdate()
	a.pendingEffects = append(a.pendingEffects, releaseEffect{entity: id})
}

// --- Subscription primitives ---
//
// These register raw callbacks keyed by entity ID. Entity code should
// prefer the typed, lifetime-pruned Observe, OnEvent, and OnRelease;
// the primitives exist for driver code that anchors subscriptions to
// something other than an entity, such as a terminal program's model.

// ObserveEntity registers fn to run after each change notification on
// the given entity. The registration activates at the next effect
// flush, never during the update that created it.
func (a *App) ObserveEntity(id ID, fn Observer) *subscriber.Subscription {
	subscription, activate := a.observers.Insert(id, fn)
	a.Defer(func(*App) { activate() })
	return subscription
}

// OnEntityEvent registers fn to run for each event emitted by the
// given entity. Activation is deferred to the next effect flush, like
// ObserveEntity.
func (a *App) OnEntityEvent(id ID, fn EventListener) *subscriber.Subscription {
	subscription, activate := a.eventListeners.Insert(id, fn)
	a.Defer(func(*App) { activate() })
	return subscription
}

// OnEntityRelease registers fn to run once when the given entity is
// released. Activation is immediate: a release landing before the
// next flush must not be missed.
func (a *App) OnEntityRelease(id ID, fn ReleaseListener) *subscriber.Subscription {
	subscription, activate := a.releaseObservers.Insert(id, fn)
	activate()
	return subscription
}

// --- Shutdown ---

// OnQuit registers a handler to run when Quit is called. Handlers run
// in registration order, inside one update scope.
func (a *App) OnQuit(fn func(*App)) {
	a.quitHandlers = append(a.quitHandlers, fn)
}

// Quit marks the runtime as shutting down and runs the registered
// quit handlers. Subsequent calls are no-ops.
func (a *App) Quit() {
	if a.quitting {
		return
	}
	a.quitting = true
	a.startUpdate()
	defer a.finishUpdate()
	for _, handler := range a.quitHandlers {
		handler(a)
	}
	a.logger.Debug("runtime quit", "entities", len(a.entities))
}

// Quitting reports whether Quit has been called.
func (a *App) Quitting() bool {
	return a.quitting
}
