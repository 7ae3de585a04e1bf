// Copyright 2026 The Easel Authors
// SPDX-License-Identifier: Apache-2.0

//go:build !easeldebug

package subscriber

const debugAssertions = false
