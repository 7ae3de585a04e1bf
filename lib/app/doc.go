// Copyright 2026 The Easel Authors
// SPDX-License-Identifier: Apache-2.0

// Package app hosts Easel's reactive runtime: an arena of entities
// (application state objects identified by ID) wired together through
// the lib/subscriber registries. Entities observe each other's change
// notifications, subscribe to each other's events, and are told when
// an entity they watch is released.
//
// Mutations run inside update scopes. Anything an update wants to
// happen as a consequence — observer notification, event delivery,
// deferred work, entity release — is enqueued as an effect and
// applied when the outermost scope exits. Callbacks therefore always
// run between updates, never inside one, and never see a half-mutated
// entity. Notifications coalesce per entity while they sit in the
// queue.
//
// Subscriptions registered through ObserveEntity and OnEntityEvent
// activate at the next effect flush rather than at registration, so a
// subscriber created during an update cannot fire until the update
// that created it has settled. Release observers activate
// immediately; a teardown must not slip through the gap.
//
// The runtime is single-threaded by design. All calls on one App must
// come from the same goroutine, conventionally the terminal program's
// event loop. Re-entrancy is expected and safe; parallelism is not.
// The lease flag on each entity slot enforces the single-writer
// discipline at run time: updating or reading an entity that is
// already mid-update panics.
package app
