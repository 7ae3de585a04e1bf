// Copyright 2026 The Easel Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"fmt"
	"sync/atomic"
)

var uniqueCounter atomic.Uint64

// UniqueID returns a string of the form "prefix-N" where N is a
// monotonically increasing integer. Use this instead of time.Now()
// when tests need unique identifiers for session names, snapshot keys,
// or event payloads that must be distinguishable across subtests.
//
//	session := testutil.UniqueID("session") // "session-1", "session-2", ...
//	payload := testutil.UniqueID("event")   // "event-3", ...
func UniqueID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, uniqueCounter.Add(1))
}
