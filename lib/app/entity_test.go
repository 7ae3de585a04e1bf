// Copyright 2026 The Easel Authors
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"fmt"
	"log/slog"
	"strings"
	"testing"
)

// counter is the minimal stateful entity used across the runtime
// tests.
type counter struct {
	value int
}

func newTestApp() *App {
	return New(slog.Default())
}

// expectPanic fails the test unless the function under test panicked
// with a message containing fragment.
func expectPanic(t *testing.T, fragment string) {
	t.Helper()
	recovered := recover()
	if recovered == nil {
		t.Fatalf("expected a panic mentioning %q", fragment)
	}
	if message := fmt.Sprint(recovered); !strings.Contains(message, fragment) {
		t.Fatalf("expected panic mentioning %q, got %q", fragment, message)
	}
}

// --- Arena lifecycle tests ---

func TestNewEntity_BuildProducesReadableState(t *testing.T) {
	a := newTestApp()

	handle := NewEntity(a, func(ctx *Context[counter]) counter {
		return counter{value: 7}
	})

	if handle.ID() == 0 {
		t.Fatal("expected a nonzero entity ID")
	}
	if !handle.Alive(a) {
		t.Fatal("expected entity to be alive after construction")
	}
	if got := handle.Read(a).value; got != 7 {
		t.Fatalf("expected built state 7, got %d", got)
	}
	if count := a.EntityCount(); count != 1 {
		t.Fatalf("expected 1 live entity, got %d", count)
	}
}

func TestNewEntity_NestedConstruction(t *testing.T) {
	a := newTestApp()

	var inner Handle[counter]
	outer := NewEntity(a, func(ctx *Context[counter]) counter {
		inner = NewEntity(ctx.App(), func(ctx *Context[counter]) counter {
			return counter{value: 1}
		})
		return counter{value: 2}
	})

	if inner.ID() == outer.ID() {
		t.Fatal("expected distinct IDs for nested construction")
	}
	if got := inner.Read(a).value; got != 1 {
		t.Fatalf("expected inner state 1, got %d", got)
	}
	if got := outer.Read(a).value; got != 2 {
		t.Fatalf("expected outer state 2, got %d", got)
	}
}

func TestUpdate_MutatesState(t *testing.T) {
	a := newTestApp()
	handle := NewEntity(a, func(ctx *Context[counter]) counter {
		return counter{}
	})

	handle.Update(a, func(state *counter, ctx *Context[counter]) {
		state.value++
	})

	if got := handle.Read(a).value; got != 1 {
		t.Fatalf("expected 1 after update, got %d", got)
	}
}

func TestUpdate_OtherEntityFromInsideUpdate_Allowed(t *testing.T) {
	a := newTestApp()
	first := NewEntity(a, func(ctx *Context[counter]) counter { return counter{} })
	second := NewEntity(a, func(ctx *Context[counter]) counter { return counter{} })

	first.Update(a, func(state *counter, ctx *Context[counter]) {
		second.Update(ctx.App(), func(state *counter, ctx *Context[counter]) {
			state.value = 5
		})
		state.value = second.Read(ctx.App()).value + 1
	})

	if got := first.Read(a).value; got != 6 {
		t.Fatalf("expected 6, got %d", got)
	}
}

// --- Lease discipline tests ---

func TestUpdate_SameEntityReentrant_Panics(t *testing.T) {
	a := newTestApp()
	handle := NewEntity(a, func(ctx *Context[counter]) counter { return counter{} })

	defer expectPanic(t, "re-entrant update")
	handle.Update(a, func(state *counter, ctx *Context[counter]) {
		handle.Update(a, func(*counter, *Context[counter]) {})
	})
}

func TestRead_DuringOwnUpdate_Panics(t *testing.T) {
	a := newTestApp()
	handle := NewEntity(a, func(ctx *Context[counter]) counter { return counter{} })

	defer expectPanic(t, "during its own update")
	handle.Update(a, func(state *counter, ctx *Context[counter]) {
		handle.Read(a)
	})
}

func TestUpdate_AfterRelease_Panics(t *testing.T) {
	a := newTestApp()
	handle := NewEntity(a, func(ctx *Context[counter]) counter { return counter{} })

	a.ReleaseEntity(handle.ID())
	if handle.Alive(a) {
		t.Fatal("expected entity to be gone after release flushed")
	}

	defer expectPanic(t, "released entity")
	handle.Update(a, func(*counter, *Context[counter]) {})
}

func TestRead_WrongStateType_Panics(t *testing.T) {
	a := newTestApp()
	handle := NewEntity(a, func(ctx *Context[counter]) counter { return counter{} })

	wrong := Handle[int]{id: handle.ID()}
	defer expectPanic(t, "holds")
	wrong.Read(a)
}

// --- Release timing tests ---

func TestReleaseEntity_DeferredUntilUpdateCompletes(t *testing.T) {
	a := newTestApp()
	handle := NewEntity(a, func(ctx *Context[counter]) counter { return counter{} })

	handle.Update(a, func(state *counter, ctx *Context[counter]) {
		ctx.App().ReleaseEntity(ctx.Handle().ID())
		if !ctx.Handle().Alive(ctx.App()) {
			t.Error("release must not land inside the update that scheduled it")
		}
	})

	if handle.Alive(a) {
		t.Fatal("expected entity released once the update's effects flushed")
	}
	if count := a.EntityCount(); count != 0 {
		t.Fatalf("expected empty arena, got %d", count)
	}
}

func TestReleaseEntity_UnknownID_NoOp(t *testing.T) {
	a := newTestApp()
	NewEntity(a, func(ctx *Context[counter]) counter { return counter{} })

	a.ReleaseEntity(9999)

	if count := a.EntityCount(); count != 1 {
		t.Fatalf("expected the live entity untouched, got %d", count)
	}
}
