// Copyright 2026 The Easel Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time abstraction for testability.
//
// Production code accepts a Clock interface parameter instead of
// calling time.Now, time.After, time.AfterFunc, or time.Sleep
// directly. In production, Real() provides the standard library
// behavior. In tests, Fake() provides a deterministic clock that
// advances only when Advance is called.
//
// # Wiring Pattern
//
// Add a Clock field to structs that use time:
//
//	type Autosaver struct {
//	    clock clock.Clock
//	    // ...
//	}
//
// In production:
//
//	a := &Autosaver{clock: clock.Real()}
//
// In tests:
//
//	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	a := &Autosaver{clock: c}
//	// ... trigger a change ...
//	c.Advance(2 * time.Second) // deterministically fires the debounce
//
// # FakeClock Synchronization
//
// When a goroutine calls Sleep, After, or AfterFunc on a FakeClock, it
// registers a pending timer. Use WaitForTimers to block until a
// specific number of timers are registered before calling Advance.
// This eliminates the race between timer registration and time
// advancement that plagues tests using time.Sleep for synchronization.
package clock
