// Copyright 2026 The Easel Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/easel-foundation/easel/lib/clock"
)

// SaveResult reports the outcome of one autosave attempt. Wrote is
// false when the snapshot was skipped as unchanged or when Err is
// non-nil.
type SaveResult struct {
	Session string
	Wrote   bool
	Err     error
}

// AutosaverConfig holds the parameters for constructing an Autosaver.
type AutosaverConfig struct {
	// Store receives the snapshots. Required.
	Store *Store

	// Session is the session name snapshots are saved under.
	// Required.
	Session string

	// Interval is the debounce window: a snapshot is written this
	// long after the most recent Touch. Required, positive.
	Interval time.Duration

	// Clock drives the debounce timer. Required.
	Clock clock.Clock

	// Logger receives operational messages. If nil, a no-op logger
	// is used.
	Logger *slog.Logger

	// Notify, if non-nil, is called after every save attempt with
	// its result. Called from the timer goroutine; implementations
	// must not block.
	Notify func(SaveResult)
}

// Autosaver debounces snapshot writes: each Touch records the latest
// state and (re)arms a timer, and the state is saved once the
// configured interval passes without another Touch. Rapid state
// churn therefore costs one write, not one per change.
//
// Touch, Flush, and Close are safe to call concurrently.
type Autosaver struct {
	store    *Store
	session  string
	interval time.Duration
	clock    clock.Clock
	logger   *slog.Logger
	notify   func(SaveResult)

	mu     sync.Mutex
	latest any
	dirty  bool
	timer  *clock.Timer
	closed bool

	done chan struct{}
}

// NewAutosaver constructs an Autosaver. No timer runs until the
// first Touch.
func NewAutosaver(cfg AutosaverConfig) (*Autosaver, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("autosaver: Store is required")
	}
	if cfg.Session == "" {
		return nil, fmt.Errorf("autosaver: Session is required")
	}
	if cfg.Interval <= 0 {
		return nil, fmt.Errorf("autosaver: Interval must be positive, got %v", cfg.Interval)
	}
	if cfg.Clock == nil {
		return nil, fmt.Errorf("autosaver: Clock is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Autosaver{
		store:    cfg.Store,
		session:  cfg.Session,
		interval: cfg.Interval,
		clock:    cfg.Clock,
		logger:   logger,
		notify:   cfg.Notify,
		done:     make(chan struct{}),
	}, nil
}

// Touch records state as the latest snapshot candidate and restarts
// the debounce timer. The state value must not be mutated by the
// caller afterward; pass a fresh value per Touch.
//
// Touch after Close is a no-op.
func (a *Autosaver) Touch(state any) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	a.latest = state
	a.dirty = true
	if a.timer == nil {
		a.timer = a.clock.AfterFunc(a.interval, a.fire)
	} else {
		a.timer.Reset(a.interval)
	}
}

// fire runs on the timer goroutine when the debounce window elapses.
func (a *Autosaver) fire() {
	a.mu.Lock()
	if a.closed || !a.dirty {
		a.mu.Unlock()
		return
	}
	state := a.latest
	a.dirty = false
	a.mu.Unlock()

	a.save(context.Background(), state)
}

// Flush saves the pending state immediately if there is any,
// cancelling the debounce timer. No-op when nothing changed since
// the last save.
func (a *Autosaver) Flush(ctx context.Context) error {
	a.mu.Lock()
	if !a.dirty {
		a.mu.Unlock()
		return nil
	}
	state := a.latest
	a.dirty = false
	if a.timer != nil {
		a.timer.Stop()
	}
	a.mu.Unlock()

	return a.save(ctx, state)
}

// Close flushes any pending state and stops the autosaver. Touch
// calls after Close are ignored. The Done channel is closed once the
// final save completes.
func (a *Autosaver) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	state := a.latest
	dirty := a.dirty
	a.dirty = false
	if a.timer != nil {
		a.timer.Stop()
	}
	a.mu.Unlock()

	var err error
	if dirty {
		err = a.save(context.Background(), state)
	}
	close(a.done)
	return err
}

// Done returns a channel closed once Close has written the final
// snapshot. Useful for shutdown ordering: wait on Done before
// closing the store.
func (a *Autosaver) Done() <-chan struct{} {
	return a.done
}

// save writes one snapshot and reports the result to Notify.
func (a *Autosaver) save(ctx context.Context, state any) error {
	wrote, err := a.store.Save(ctx, a.session, state)
	if err != nil {
		a.logger.Error("autosave failed",
			"session", a.session,
			"error", err,
		)
	}
	if a.notify != nil {
		a.notify(SaveResult{Session: a.session, Wrote: wrote, Err: err})
	}
	return err
}
