// Copyright 2026 The Easel Authors
// SPDX-License-Identifier: Apache-2.0

// Package subscriber provides the keyed callback registry underneath
// Easel's reactive runtime. Emitters (stateful objects identified by
// a key) broadcast change notifications to subscribers (callbacks)
// without either side knowing the other's identity or lifetime.
//
// The registry is built for re-entrancy rather than parallelism: a
// callback running inside a notification pass may register new
// subscriptions, unsubscribe existing ones (including its own), and
// start passes on other emitters. Retain makes this safe with a
// checkout protocol: the emitter's subscriber map is taken out of the
// registry for the duration of the pass, re-entrant inserts land in a
// fresh map under the same key, re-entrant unsubscribes are recorded
// in a side table, and both are reconciled when the pass completes.
// Subscriptions added during a pass are never visited by it; they
// become visible to the next pass on that emitter.
//
// Registration is two-phase: Insert stores an inert subscriber and
// returns an activation function alongside the Subscription handle.
// Only activated subscribers are ever invoked, so an object can
// finish constructing itself before its callback is allowed to run.
// The lib/app runtime defers activation to its effect queue for
// exactly this reason.
//
// The model is single-threaded cooperative re-entrancy. The internal
// mutex is never held while a callback runs; it guards the maps
// against accidental cross-goroutine use, it does not make a Set a
// concurrent data structure.
package subscriber
