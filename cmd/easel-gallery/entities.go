// Copyright 2026 The Easel Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"time"

	"github.com/easel-foundation/easel/lib/app"
	"github.com/easel-foundation/easel/lib/clock"
	"github.com/easel-foundation/easel/lib/widget"
)

// counterState is the gallery's domain model: a single integer the
// user adjusts from the keyboard. It lives in the runtime rather than
// the TUI model so the feed can react to it through subscriptions, the
// same way a real application's domain entities would.
type counterState struct {
	Count int
}

// counterEvent is emitted on every counter change.
type counterEvent struct {
	Action string // "incremented", "decremented", or "reset"
	Count  int    // value after the change
	Delta  int    // signed change amount
}

// newCounter creates the counter entity with a starting value,
// typically restored from the previous session.
func newCounter(runtime *app.App, initial int) app.Handle[counterState] {
	return app.NewEntity(runtime, func(ctx *app.Context[counterState]) counterState {
		return counterState{Count: initial}
	})
}

// adjustCounter applies a signed delta to the counter, notifying
// observers and emitting a counterEvent.
func adjustCounter(runtime *app.App, counter app.Handle[counterState], delta int) {
	counter.Update(runtime, func(state *counterState, ctx *app.Context[counterState]) {
		state.Count += delta
		action := "incremented"
		if delta < 0 {
			action = "decremented"
		}
		ctx.Notify()
		ctx.Emit(counterEvent{Action: action, Count: state.Count, Delta: delta})
	})
}

// resetCounter returns the counter to zero. Resetting an already-zero
// counter changes nothing, so no notification or event goes out.
func resetCounter(runtime *app.App, counter app.Handle[counterState]) {
	counter.Update(runtime, func(state *counterState, ctx *app.Context[counterState]) {
		if state.Count == 0 {
			return
		}
		delta := -state.Count
		state.Count = 0
		ctx.Notify()
		ctx.Emit(counterEvent{Action: "reset", Count: 0, Delta: delta})
	})
}

// feedItem is one activity feed entry.
type feedItem struct {
	When    time.Time
	Kind    widget.GlowKind
	Message string
}

// feedState is the activity feed entity: a bounded journal of
// messages describing what happened, newest last.
type feedState struct {
	items *widget.Journal[feedItem]
}

// newFeed creates the feed entity and subscribes it to counter events.
// Each event becomes a journal entry; resets are recorded as alerts so
// the glow animation tints them differently.
func newFeed(runtime *app.App, counter app.Handle[counterState], clk clock.Clock) app.Handle[feedState] {
	return app.NewEntity(runtime, func(ctx *app.Context[feedState]) feedState {
		items := widget.NewJournal[feedItem](widget.DefaultJournalSize)
		items.Append(feedItem{
			When:    clk.Now(),
			Kind:    widget.GlowChange,
			Message: "feed started",
		})

		app.OnEvent(ctx, counter, func(state *feedState, _ app.Handle[counterState], event counterEvent, ctx *app.Context[feedState]) {
			kind := widget.GlowChange
			if event.Action == "reset" {
				kind = widget.GlowAlert
			}
			state.items.Append(feedItem{
				When:    clk.Now(),
				Kind:    kind,
				Message: fmt.Sprintf("counter %s to %d (%+d)", event.Action, event.Count, event.Delta),
			})
			ctx.Notify()
		})

		return feedState{items: items}
	})
}
