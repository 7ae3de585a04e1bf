// Copyright 2026 The Easel Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/easel-foundation/easel/lib/clock"
	"github.com/easel-foundation/easel/lib/codec"
	"github.com/easel-foundation/easel/lib/sqlitepool"
)

// ErrNotFound is returned by Load and LoadVersion when no snapshot
// exists for the requested session or version.
var ErrNotFound = errors.New("snapshot not found")

// schema is the snapshot table. Each row is one complete snapshot;
// session histories are append-only and pruned to the history limit
// on save.
const schema = `
	CREATE TABLE IF NOT EXISTS snapshots (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		session      TEXT    NOT NULL,
		saved_at     INTEGER NOT NULL,
		content_hash BLOB    NOT NULL,
		compression  INTEGER NOT NULL,
		raw_size     INTEGER NOT NULL,
		payload      BLOB    NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_snapshots_session ON snapshots(session, id DESC);
`

// Store persists session snapshots to SQLite. Snapshots are
// CBOR-encoded with lib/codec, compressed, and deduplicated by
// content hash against the newest stored row.
//
// Store is safe for concurrent use; writes are serialized through
// IMMEDIATE transactions.
type Store struct {
	pool         *sqlitepool.Pool
	clock        clock.Clock
	logger       *slog.Logger
	historyLimit int
}

// StoreConfig holds the parameters for opening a snapshot store.
type StoreConfig struct {
	// Path is the filesystem path to the SQLite database file. The
	// parent directory must exist.
	Path string

	// PoolSize is the connection pool size. Defaults to 2 if zero or
	// negative (UI reads plus autosaver writes).
	PoolSize int

	// HistoryLimit is the number of snapshots retained per session.
	// Older snapshots are pruned on save. Defaults to 20 if zero or
	// negative.
	HistoryLimit int

	// Clock provides timestamps for saved snapshots. Required.
	Clock clock.Clock

	// Logger receives operational messages. If nil, a no-op logger
	// is used.
	Logger *slog.Logger
}

// OpenStore opens (creating if needed) a snapshot store at the given
// path. The caller must call Close when done.
func OpenStore(cfg StoreConfig) (*Store, error) {
	if cfg.Clock == nil {
		return nil, fmt.Errorf("session store: Clock is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	historyLimit := cfg.HistoryLimit
	if historyLimit <= 0 {
		historyLimit = 20
	}

	pool, err := sqlitepool.Open(sqlitepool.Config{
		Path:     cfg.Path,
		PoolSize: cfg.PoolSize,
		Logger:   logger,
		OnConnect: func(conn *sqlite.Conn) error {
			return sqlitex.ExecuteScript(conn, schema, nil)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("session store: %w", err)
	}

	return &Store{
		pool:         pool,
		clock:        cfg.Clock,
		logger:       logger,
		historyLimit: historyLimit,
	}, nil
}

// Close closes the underlying connection pool. Blocks until all
// borrowed connections are returned.
func (s *Store) Close() error {
	return s.pool.Close()
}

// Save encodes state, and appends it as the newest snapshot for the
// named session unless it is byte-identical to the current newest
// snapshot. Returns true if a row was written, false if the save was
// skipped as unchanged. History beyond the configured limit is pruned
// in the same transaction.
func (s *Store) Save(ctx context.Context, session string, state any) (wrote bool, err error) {
	payload, err := codec.Marshal(state)
	if err != nil {
		return false, fmt.Errorf("session store: encoding snapshot for %q: %w", session, err)
	}
	hash := snapshotHash(payload)

	conn, err := s.pool.Take(ctx)
	if err != nil {
		return false, fmt.Errorf("session store: save %q: %w", session, err)
	}
	defer s.pool.Put(conn)

	endTransaction, err := sqlitex.ImmediateTransaction(conn)
	if err != nil {
		return false, fmt.Errorf("session store: begin transaction: %w", err)
	}
	defer endTransaction(&err)

	// Dedupe against the newest stored snapshot. The deterministic
	// encoder guarantees identical state produces identical bytes.
	var lastHash [32]byte
	var haveLast bool
	err = sqlitex.Execute(conn,
		`SELECT content_hash FROM snapshots WHERE session = ? ORDER BY id DESC LIMIT 1`,
		&sqlitex.ExecOptions{
			Args: []any{session},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				if stmt.ColumnLen(0) == len(lastHash) {
					stmt.ColumnBytes(0, lastHash[:])
					haveLast = true
				}
				return nil
			},
		})
	if err != nil {
		return false, fmt.Errorf("session store: reading last hash for %q: %w", session, err)
	}
	if haveLast && lastHash == hash {
		s.logger.Debug("snapshot unchanged, skipping",
			"session", session,
			"raw_size", len(payload),
		)
		return false, nil
	}

	stored, tag, err := compressPayload(payload)
	if err != nil {
		return false, fmt.Errorf("session store: compressing snapshot for %q: %w", session, err)
	}

	err = sqlitex.Execute(conn,
		`INSERT INTO snapshots (session, saved_at, content_hash, compression, raw_size, payload)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		&sqlitex.ExecOptions{
			Args: []any{
				session,
				s.clock.Now().UnixNano(),
				hash[:],
				int(tag),
				len(payload),
				stored,
			},
		})
	if err != nil {
		return false, fmt.Errorf("session store: inserting snapshot for %q: %w", session, err)
	}

	// Prune history beyond the limit, oldest first.
	err = sqlitex.Execute(conn,
		`DELETE FROM snapshots WHERE session = ? AND id NOT IN (
			SELECT id FROM snapshots WHERE session = ? ORDER BY id DESC LIMIT ?)`,
		&sqlitex.ExecOptions{
			Args: []any{session, session, s.historyLimit},
		})
	if err != nil {
		return false, fmt.Errorf("session store: pruning history for %q: %w", session, err)
	}

	s.logger.Debug("snapshot saved",
		"session", session,
		"raw_size", len(payload),
		"stored_size", len(stored),
		"compression", tag.String(),
	)
	return true, nil
}

// Load decodes the newest snapshot for the named session into state.
// Returns an error wrapping ErrNotFound if the session has no
// snapshots.
func (s *Store) Load(ctx context.Context, session string, state any) error {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("session store: load %q: %w", session, err)
	}
	defer s.pool.Put(conn)

	row, found, err := s.readRow(conn,
		`SELECT compression, raw_size, payload FROM snapshots
		 WHERE session = ? ORDER BY id DESC LIMIT 1`,
		session)
	if err != nil {
		return fmt.Errorf("session store: load %q: %w", session, err)
	}
	if !found {
		return fmt.Errorf("session store: load %q: %w", session, ErrNotFound)
	}

	return s.decodeRow(row, session, state)
}

// LoadVersion decodes a specific snapshot, identified by the ID from
// History, into state. Returns an error wrapping ErrNotFound if no
// such snapshot exists.
func (s *Store) LoadVersion(ctx context.Context, id int64, state any) error {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("session store: load version %d: %w", id, err)
	}
	defer s.pool.Put(conn)

	row, found, err := s.readRow(conn,
		`SELECT compression, raw_size, payload FROM snapshots WHERE id = ?`,
		id)
	if err != nil {
		return fmt.Errorf("session store: load version %d: %w", id, err)
	}
	if !found {
		return fmt.Errorf("session store: load version %d: %w", id, ErrNotFound)
	}

	return s.decodeRow(row, fmt.Sprintf("version %d", id), state)
}

// snapshotRow is the stored form of one snapshot payload.
type snapshotRow struct {
	tag     CompressionTag
	rawSize int
	stored  []byte
}

// readRow runs a single-row payload query. The query must select
// compression, raw_size, payload in that order.
func (s *Store) readRow(conn *sqlite.Conn, query string, args ...any) (snapshotRow, bool, error) {
	var row snapshotRow
	var found bool
	err := sqlitex.Execute(conn, query, &sqlitex.ExecOptions{
		Args: args,
		ResultFunc: func(stmt *sqlite.Stmt) error {
			found = true
			row.tag = CompressionTag(stmt.ColumnInt(0))
			row.rawSize = stmt.ColumnInt(1)
			row.stored = make([]byte, stmt.ColumnLen(2))
			stmt.ColumnBytes(2, row.stored)
			return nil
		},
	})
	return row, found, err
}

// decodeRow decompresses and CBOR-decodes a stored row into state.
func (s *Store) decodeRow(row snapshotRow, what string, state any) error {
	payload, err := decompressPayload(row.stored, row.tag, row.rawSize)
	if err != nil {
		return fmt.Errorf("session store: %s: %w", what, err)
	}
	if err := codec.Unmarshal(payload, state); err != nil {
		return fmt.Errorf("session store: decoding %s: %w", what, err)
	}
	return nil
}

// SnapshotInfo describes one stored snapshot without its payload.
type SnapshotInfo struct {
	// ID identifies the snapshot for LoadVersion.
	ID int64

	// SavedAt is when the snapshot was written.
	SavedAt time.Time

	// RawSize is the encoded payload length before compression.
	RawSize int

	// StoredSize is the payload length as stored.
	StoredSize int

	// Compression is the algorithm the payload is stored with.
	Compression CompressionTag
}

// History lists the stored snapshots for a session, newest first.
// Returns nil if the session has no snapshots.
func (s *Store) History(ctx context.Context, session string) ([]SnapshotInfo, error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return nil, fmt.Errorf("session store: history %q: %w", session, err)
	}
	defer s.pool.Put(conn)

	var history []SnapshotInfo
	err = sqlitex.Execute(conn,
		`SELECT id, saved_at, raw_size, length(payload), compression
		 FROM snapshots WHERE session = ? ORDER BY id DESC`,
		&sqlitex.ExecOptions{
			Args: []any{session},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				history = append(history, SnapshotInfo{
					ID:          stmt.ColumnInt64(0),
					SavedAt:     time.Unix(0, stmt.ColumnInt64(1)),
					RawSize:     stmt.ColumnInt(2),
					StoredSize:  stmt.ColumnInt(3),
					Compression: CompressionTag(stmt.ColumnInt(4)),
				})
				return nil
			},
		})
	if err != nil {
		return nil, fmt.Errorf("session store: history %q: %w", session, err)
	}
	return history, nil
}

// Sessions lists the distinct session names with at least one stored
// snapshot, sorted.
func (s *Store) Sessions(ctx context.Context) ([]string, error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return nil, fmt.Errorf("session store: sessions: %w", err)
	}
	defer s.pool.Put(conn)

	var sessions []string
	err = sqlitex.Execute(conn,
		`SELECT DISTINCT session FROM snapshots ORDER BY session`,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				sessions = append(sessions, stmt.ColumnText(0))
				return nil
			},
		})
	if err != nil {
		return nil, fmt.Errorf("session store: sessions: %w", err)
	}
	return sessions, nil
}

// Delete removes all snapshots for a session. No-op if the session
// has none.
func (s *Store) Delete(ctx context.Context, session string) error {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("session store: delete %q: %w", session, err)
	}
	defer s.pool.Put(conn)

	err = sqlitex.Execute(conn,
		`DELETE FROM snapshots WHERE session = ?`,
		&sqlitex.ExecOptions{Args: []any{session}})
	if err != nil {
		return fmt.Errorf("session store: delete %q: %w", session, err)
	}
	return nil
}
