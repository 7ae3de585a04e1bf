// Copyright 2026 The Easel Authors
// SPDX-License-Identifier: Apache-2.0

package subscriber

// Subscription controls the lifetime of one registration in a Set.
// Holders sever the registration with Unsubscribe, usually from a
// defer or from their own teardown path, or call Detach to leave the
// registration in place for the emitter's remaining lifetime.
type Subscription struct {
	unsubscribe func()
}

// Unsubscribe severs the registration. Safe to call more than once;
// only the first call does anything. Calling it from inside the
// registration's own callback is allowed: the removal lands when the
// running pass completes, and the callback is never invoked again.
func (subscription *Subscription) Unsubscribe() {
	if subscription.unsubscribe == nil {
		return
	}
	severed := subscription.unsubscribe
	subscription.unsubscribe = nil
	severed()
}

// Detach abandons the handle's control over the registration without
// severing it. The subscriber then lives as long as its emitter and
// is cleaned up by Remove when the emitter is destroyed.
func (subscription *Subscription) Detach() {
	subscription.unsubscribe = nil
}

// Join merges two handles into one. Unsubscribing the joined handle
// severs both registrations exactly once; detaching it abandons both.
func Join(first, second *Subscription) *Subscription {
	return &Subscription{unsubscribe: func() {
		first.Unsubscribe()
		second.Unsubscribe()
	}}
}
