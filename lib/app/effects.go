// Copyright 2026 The Easel Authors
// SPDX-License-Identifier: Apache-2.0

package app

// effect is one unit of deferred work produced during an update and
// applied by the flush loop once the mutation that produced it has
// completed. Effects apply in FIFO order; effects enqueued while the
// flush loop runs are drained by that same loop.
type effect interface {
	apply(a *App)
}

// notifyEffect fires one pass over an entity's observers. Its entry
// in the pending-notification set clears at dispatch, so an observer
// that re-notifies the same entity is delivered again within the same
// flush.
type notifyEffect struct {
	entity ID
}

func (e notifyEffect) apply(a *App) {
	delete(a.pendingNotifications, e.entity)
	a.observers.Retain(e.entity, func(observer *Observer) bool {
		return (*observer)(a)
	})
}

// emitEffect delivers one event to an entity's listeners. Events are
// not coalesced; every Emit becomes one delivery pass.
type emitEffect struct {
	entity  ID
	payload any
}

func (e emitEffect) apply(a *App) {
	a.eventListeners.Retain(e.entity, func(listener *EventListener) bool {
		return (*listener)(a, e.payload)
	})
}

// deferEffect runs an arbitrary callback at flush time.
type deferEffect struct {
	callback func(*App)
}

func (e deferEffect) apply(a *App) {
	e.callback(a)
}

// releaseEffect destroys an entity: the slot is removed, observers
// and event listeners keyed by the dead ID are discarded, and release
// observers fire once with the final state. A release that finds the
// entity already gone is a no-op.
type releaseEffect struct {
	entity ID
}

func (e releaseEffect) apply(a *App) {
	entitySlot, ok := a.entities[e.entity]
	if !ok {
		return
	}
	delete(a.entities, e.entity)
	a.observers.Remove(e.entity)
	a.eventListeners.Remove(e.entity)
	for _, listener := range a.releaseObservers.Remove(e.entity) {
		listener(a, entitySlot.state)
	}
	a.logger.Debug("entity released", "entity", e.entity)
}
