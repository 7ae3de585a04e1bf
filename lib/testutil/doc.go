// Copyright 2026 The Easel Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for Easel packages.
//
// [RequireReceive], [RequireSend], and [RequireClosed] encapsulate the
// timeout safety valve pattern (select with time.After fallback) so
// that individual tests do not need direct time.After calls. These are
// the only place in the test suite where real wall-clock timeouts are
// used; everything else injects clock.Clock and advances a fake.
//
// [UniqueID] generates monotonically increasing identifiers for test
// disambiguation. Use it instead of time.Now() when tests need unique
// session names, snapshot keys, or event payloads distinguishable
// across subtests.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
//
// This package has no Easel-internal dependencies.
package testutil
