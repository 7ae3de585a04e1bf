// Copyright 2026 The Easel Authors
// SPDX-License-Identifier: Apache-2.0

//go:build easeldebug

package subscriber

// debugAssertions enables fail-fast checks for registry-internal
// invariant violations. These indicate a bug in the registry itself,
// never caller misuse, so release builds compile them out.
const debugAssertions = true
