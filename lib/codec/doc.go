// Copyright 2026 The Easel Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides Easel's standard CBOR encoding configuration.
//
// Easel uses two serialization formats with a clear boundary:
//
//   - JSON (with comments) for files humans edit: keymaps and the
//     YAML-adjacent configuration surface.
//   - CBOR for machine state: session snapshots persisted to SQLite
//     and any future on-disk caches.
//
// This package provides the shared CBOR encoding and decoding modes so
// that every Easel package encodes identically without duplicating
// configuration. The encoder uses Core Deterministic Encoding (RFC 8949
// §4.2): sorted map keys, smallest integer encoding, no
// indefinite-length items. Same logical data always produces identical
// bytes, which is what makes snapshot content hashing for dedupe
// meaningful.
//
// For buffer-oriented operations (snapshots, caches):
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
//
// For stream-oriented operations:
//
//	encoder := codec.NewEncoder(w)
//	decoder := codec.NewDecoder(r)
//
// # Struct Tag Rules
//
// The struct tag on a type documents its serialization format:
//
//   - `cbor` tag: this type is ONLY ever serialized as CBOR.
//     Examples: session snapshot payloads, snapshot envelope headers.
//   - `json` tag: this type may be serialized as BOTH JSON and CBOR.
//     fxamacker/cbor v2 reads `json` tags as fallback when `cbor`
//     tags are absent, so a single `json` tag controls field naming
//     and omitempty for both formats.
//
// Never use both `cbor` and `json` tags on the same field. The tag
// choice documents the contract — doubling up is noise that obscures
// whether a type participates in JSON serialization.
package codec
