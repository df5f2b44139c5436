// Copyright 2025 The go-fixengine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package testutil

import (
	"context"
	"math/rand"
	"sync"
	"testing"
	"time"
)

// MessageTimer generates jittered intervals between test message sends, used
// by the gap-recovery and resend scenarios to avoid lock-step timing that
// would hide reordering bugs.
type MessageTimer struct {
	minInterval time.Duration
	maxInterval time.Duration
	rand        *rand.Rand
	mu          sync.Mutex
}

// NewMessageTimer creates a timer that yields intervals in [min, max), or
// exactly min when min == max.
func NewMessageTimer(seed int64, minInterval, maxInterval time.Duration) *MessageTimer {
	return &MessageTimer{
		minInterval: minInterval,
		maxInterval: maxInterval,
		rand:        rand.New(rand.NewSource(seed)),
	}
}

// NextInterval returns the next jittered interval.
func (mt *MessageTimer) NextInterval() time.Duration {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	if mt.minInterval == mt.maxInterval {
		return mt.minInterval
	}
	delta := mt.maxInterval - mt.minInterval
	return mt.minInterval + time.Duration(mt.rand.Int63n(int64(delta)))
}

// MessageTracker records the MsgSeqNum of every app message sent and
// delivered to an Application.FromApp callback, for the in-order-delivery
// and gap-recovery scenarios (spec.md §8 scenarios S2, S3).
type MessageTracker struct {
	mu       sync.Mutex
	sent     []int
	received []int
}

// NewMessageTracker returns an empty tracker.
func NewMessageTracker() *MessageTracker {
	return &MessageTracker{}
}

// MarkSent records a sent MsgSeqNum.
func (mt *MessageTracker) MarkSent(seqNum int) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.sent = append(mt.sent, seqNum)
}

// MarkReceived records a delivered MsgSeqNum.
func (mt *MessageTracker) MarkReceived(seqNum int) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.received = append(mt.received, seqNum)
}

// Received returns a snapshot of delivered MsgSeqNums in delivery order.
func (mt *MessageTracker) Received() []int {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	out := make([]int, len(mt.received))
	copy(out, mt.received)
	return out
}

// VerifyInOrderNoGaps fails t unless as many MsgSeqNums were received as
// were sent and the received ones run in strictly ascending order with no
// gaps. It does not compare the received values against the sent ones.
func (mt *MessageTracker) VerifyInOrderNoGaps(t testing.TB) {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	if len(mt.sent) != len(mt.received) {
		t.Errorf("delivery count mismatch: sent %d, received %d", len(mt.sent), len(mt.received))
	}
	for i := 1; i < len(mt.received); i++ {
		if mt.received[i] != mt.received[i-1]+1 {
			t.Errorf("gap or reorder in delivery: %d followed by %d", mt.received[i-1], mt.received[i])
		}
	}
}

// WaitWithTimeout polls condition until it returns true, or fails t after
// timeout elapses.
func WaitWithTimeout(t testing.TB, condition func() bool, timeout, checkInterval time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	ticker := time.NewTicker(checkInterval)
	defer ticker.Stop()

	if condition() {
		return
	}
	for {
		select {
		case <-ctx.Done():
			t.Fatalf("timeout after %v waiting for condition", timeout)
		case <-ticker.C:
			if condition() {
				return
			}
		}
	}
}
