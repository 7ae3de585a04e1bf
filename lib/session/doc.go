// Copyright 2026 The Easel Authors
// SPDX-License-Identifier: Apache-2.0

// Package session persists application state snapshots to SQLite so an
// Easel application can be closed and reopened where it left off.
//
// A snapshot is any CBOR-serializable value the application chooses to
// represent its restorable state. [Store.Save] encodes the value with
// lib/codec's deterministic encoding, compresses it, and appends a row
// to the snapshots table; [Store.Load] decodes the newest row back.
// Each session name carries its own independent history, pruned to a
// configurable limit on every save.
//
// # Deduplication
//
// Because the encoding is deterministic, identical state produces
// identical bytes. Save hashes the encoded payload (keyed BLAKE3) and
// compares it against the newest stored snapshot's hash; an unchanged
// payload is skipped entirely. This is what makes a naive "save on
// every quiet period" autosave policy cheap: idle sessions write
// nothing.
//
// # Compression
//
// Payloads are compressed before storage. Small payloads (under 4 KiB)
// use LZ4 block compression, which costs almost nothing on the
// autosave path; larger payloads use zstd for the better ratio. A
// payload that does not shrink is stored uncompressed. The compression
// tag is stored per row, so the policy can change without migration.
//
// # Autosaving
//
// [Autosaver] debounces saves behind an injected clock.Clock: each
// [Autosaver.Touch] records the latest state and restarts the quiet
// timer, and the snapshot is written only when no change has arrived
// for the configured interval. [Autosaver.Flush] forces the pending
// write, for application exit.
package session
