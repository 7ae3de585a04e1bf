// Copyright 2026 The Easel Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/easel-foundation/easel/lib/clock"
	"github.com/easel-foundation/easel/lib/testutil"
)

var storeTestEpoch = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

// galleryState is a representative snapshot payload: the kind of
// widget state a gallery app would persist.
type galleryState struct {
	Counter  int            `cbor:"counter"`
	Selected string         `cbor:"selected"`
	Scroll   map[string]int `cbor:"scroll,omitempty"`
}

func testLogger(t *testing.T) *slog.Logger {
	t.Helper()
	return slog.New(slog.DiscardHandler)
}

func openTestStore(t *testing.T, historyLimit int) (*Store, *clock.FakeClock) {
	t.Helper()

	fakeClock := clock.Fake(storeTestEpoch)

	store, err := OpenStore(StoreConfig{
		Path:         filepath.Join(t.TempDir(), "sessions_test.db"),
		PoolSize:     2,
		HistoryLimit: historyLimit,
		Clock:        fakeClock,
		Logger:       testLogger(t),
	})
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("store.Close: %v", err)
		}
	})
	return store, fakeClock
}

func TestSaveAndLoadRoundtrip(t *testing.T) {
	store, _ := openTestStore(t, 0)
	ctx := context.Background()
	session := testutil.UniqueID("session")

	saved := galleryState{
		Counter:  42,
		Selected: "entry-7",
		Scroll:   map[string]int{"feed": 118},
	}
	wrote, err := store.Save(ctx, session, saved)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !wrote {
		t.Fatal("first Save should write a row")
	}

	var loaded galleryState
	if err := store.Load(ctx, session, &loaded); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Counter != saved.Counter || loaded.Selected != saved.Selected {
		t.Errorf("loaded %+v, want %+v", loaded, saved)
	}
	if loaded.Scroll["feed"] != 118 {
		t.Errorf("Scroll[feed] = %d, want 118", loaded.Scroll["feed"])
	}
}

func TestSaveSkipsUnchanged(t *testing.T) {
	store, _ := openTestStore(t, 0)
	ctx := context.Background()
	session := testutil.UniqueID("session")

	state := galleryState{Counter: 1, Selected: "a"}
	if _, err := store.Save(ctx, session, state); err != nil {
		t.Fatalf("Save: %v", err)
	}

	wrote, err := store.Save(ctx, session, state)
	if err != nil {
		t.Fatalf("second Save: %v", err)
	}
	if wrote {
		t.Error("Save of identical state should be skipped")
	}

	history, err := store.History(ctx, session)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 1 {
		t.Errorf("history has %d snapshots, want 1", len(history))
	}
}

func TestSaveWritesChangedState(t *testing.T) {
	store, fakeClock := openTestStore(t, 0)
	ctx := context.Background()
	session := testutil.UniqueID("session")

	if _, err := store.Save(ctx, session, galleryState{Counter: 1}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	fakeClock.Advance(time.Second)

	wrote, err := store.Save(ctx, session, galleryState{Counter: 2})
	if err != nil {
		t.Fatalf("second Save: %v", err)
	}
	if !wrote {
		t.Fatal("Save of changed state should write a row")
	}

	var loaded galleryState
	if err := store.Load(ctx, session, &loaded); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Counter != 2 {
		t.Errorf("Load returned Counter = %d, want the newest snapshot (2)", loaded.Counter)
	}

	history, err := store.History(ctx, session)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 2 {
		t.Errorf("history has %d snapshots, want 2", len(history))
	}
}

func TestLoadMissingSession(t *testing.T) {
	store, _ := openTestStore(t, 0)

	var state galleryState
	err := store.Load(context.Background(), "never-saved", &state)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Load of missing session: got %v, want ErrNotFound", err)
	}
}

func TestSaveTimestampsUseClock(t *testing.T) {
	store, fakeClock := openTestStore(t, 0)
	ctx := context.Background()
	session := testutil.UniqueID("session")

	fakeClock.Advance(3 * time.Minute)
	if _, err := store.Save(ctx, session, galleryState{Counter: 1}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	history, err := store.History(ctx, session)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	want := storeTestEpoch.Add(3 * time.Minute)
	if !history[0].SavedAt.Equal(want) {
		t.Errorf("SavedAt = %v, want %v", history[0].SavedAt, want)
	}
}

func TestHistoryNewestFirst(t *testing.T) {
	store, fakeClock := openTestStore(t, 0)
	ctx := context.Background()
	session := testutil.UniqueID("session")

	for i := 1; i <= 3; i++ {
		if _, err := store.Save(ctx, session, galleryState{Counter: i}); err != nil {
			t.Fatalf("Save %d: %v", i, err)
		}
		fakeClock.Advance(time.Second)
	}

	history, err := store.History(ctx, session)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("history has %d snapshots, want 3", len(history))
	}
	for i := 1; i < len(history); i++ {
		if history[i].SavedAt.After(history[i-1].SavedAt) {
			t.Errorf("history[%d] is newer than history[%d]; want newest first", i, i-1)
		}
		if history[i].ID >= history[i-1].ID {
			t.Errorf("history[%d].ID = %d not below history[%d].ID = %d",
				i, history[i].ID, i-1, history[i-1].ID)
		}
	}
	if history[0].RawSize <= 0 || history[0].StoredSize <= 0 {
		t.Errorf("history sizes not populated: %+v", history[0])
	}
}

func TestHistoryPruning(t *testing.T) {
	store, fakeClock := openTestStore(t, 3)
	ctx := context.Background()
	session := testutil.UniqueID("session")

	for i := 1; i <= 3; i++ {
		if _, err := store.Save(ctx, session, galleryState{Counter: i}); err != nil {
			t.Fatalf("Save %d: %v", i, err)
		}
		fakeClock.Advance(time.Second)
	}
	history, err := store.History(ctx, session)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	oldestID := history[len(history)-1].ID

	// Two more saves push the first snapshot past the limit.
	for i := 4; i <= 5; i++ {
		if _, err := store.Save(ctx, session, galleryState{Counter: i}); err != nil {
			t.Fatalf("Save %d: %v", i, err)
		}
		fakeClock.Advance(time.Second)
	}

	history, err = store.History(ctx, session)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("history has %d snapshots after pruning, want 3", len(history))
	}

	var pruned galleryState
	err = store.LoadVersion(ctx, oldestID, &pruned)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("LoadVersion of pruned snapshot: got %v, want ErrNotFound", err)
	}

	// Pruning is per session: another session's history is untouched.
	other := testutil.UniqueID("session")
	if _, err := store.Save(ctx, other, galleryState{Counter: 99}); err != nil {
		t.Fatalf("Save other: %v", err)
	}
	otherHistory, err := store.History(ctx, other)
	if err != nil {
		t.Fatalf("History other: %v", err)
	}
	if len(otherHistory) != 1 {
		t.Errorf("other session has %d snapshots, want 1", len(otherHistory))
	}
}

func TestLoadVersion(t *testing.T) {
	store, fakeClock := openTestStore(t, 0)
	ctx := context.Background()
	session := testutil.UniqueID("session")

	if _, err := store.Save(ctx, session, galleryState{Counter: 1, Selected: "old"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	fakeClock.Advance(time.Second)
	if _, err := store.Save(ctx, session, galleryState{Counter: 2, Selected: "new"}); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	history, err := store.History(ctx, session)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("history has %d snapshots, want 2", len(history))
	}

	var old galleryState
	if err := store.LoadVersion(ctx, history[1].ID, &old); err != nil {
		t.Fatalf("LoadVersion: %v", err)
	}
	if old.Selected != "old" {
		t.Errorf("LoadVersion returned Selected = %q, want %q", old.Selected, "old")
	}
}

func TestSessionsListsDistinctNames(t *testing.T) {
	store, _ := openTestStore(t, 0)
	ctx := context.Background()

	for _, name := range []string{"beta", "alpha", "beta"} {
		state := galleryState{Counter: len(name), Selected: name}
		if _, err := store.Save(ctx, name, state); err != nil {
			t.Fatalf("Save %q: %v", name, err)
		}
	}

	sessions, err := store.Sessions(ctx)
	if err != nil {
		t.Fatalf("Sessions: %v", err)
	}
	if len(sessions) != 2 || sessions[0] != "alpha" || sessions[1] != "beta" {
		t.Errorf("Sessions = %v, want [alpha beta]", sessions)
	}
}

func TestDeleteRemovesAllSnapshots(t *testing.T) {
	store, fakeClock := openTestStore(t, 0)
	ctx := context.Background()
	session := testutil.UniqueID("session")

	for i := 1; i <= 2; i++ {
		if _, err := store.Save(ctx, session, galleryState{Counter: i}); err != nil {
			t.Fatalf("Save %d: %v", i, err)
		}
		fakeClock.Advance(time.Second)
	}

	if err := store.Delete(ctx, session); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	var state galleryState
	err := store.Load(ctx, session, &state)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Load after Delete: got %v, want ErrNotFound", err)
	}

	// Deleting an absent session is a no-op.
	if err := store.Delete(ctx, session); err != nil {
		t.Errorf("second Delete: %v", err)
	}
}

func TestLargeSnapshotUsesZstd(t *testing.T) {
	store, _ := openTestStore(t, 0)
	ctx := context.Background()
	session := testutil.UniqueID("session")

	// Repetitive state well past the zstd threshold.
	state := galleryState{
		Counter:  1,
		Selected: strings.Repeat("entry-0017 ", 2*zstdThreshold/len("entry-0017 ")),
	}
	if _, err := store.Save(ctx, session, state); err != nil {
		t.Fatalf("Save: %v", err)
	}

	history, err := store.History(ctx, session)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	info := history[0]
	if info.Compression != CompressionZstd {
		t.Errorf("Compression = %s, want zstd for a large repetitive snapshot", info.Compression)
	}
	if info.StoredSize >= info.RawSize {
		t.Errorf("StoredSize %d not below RawSize %d", info.StoredSize, info.RawSize)
	}

	var loaded galleryState
	if err := store.Load(ctx, session, &loaded); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Selected != state.Selected {
		t.Error("large snapshot roundtrip mismatch")
	}
}

func TestOpenStoreRequiresClock(t *testing.T) {
	_, err := OpenStore(StoreConfig{
		Path: filepath.Join(t.TempDir(), "sessions_test.db"),
	})
	if err == nil {
		t.Fatal("OpenStore without Clock should fail")
	}
}
