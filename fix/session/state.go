// Copyright 2025 The go-fixengine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package session

import (
	"time"

	"github.com/destiny/fixengine/fix"
)

// ConnectionState is the byte-stream-level state a Session is in. It is
// layered under the logon-phase booleans in state rather than folded
// together with them — the teacher's original repo conflated "pending
// reconnect" with "logon in flight" in one enum, which made it impossible
// to represent "connected, byte stream up, logon not yet exchanged" without
// a magic extra value; keeping them as two orthogonal axes avoids that.
type ConnectionState int

const (
	Disconnected ConnectionState = iota
	Pending
	Connected
)

func (c ConnectionState) String() string {
	switch c {
	case Disconnected:
		return "disconnected"
	case Pending:
		return "pending"
	case Connected:
		return "connected"
	default:
		return "unknown"
	}
}

// resendRange is the outstanding gap-recovery window, spec.md §4.5.4/§4.5.5.
// A zero value means no resend is outstanding.
type resendRange struct {
	Begin, End, ChunkEnd int
}

func (r resendRange) active() bool { return r.Begin != 0 || r.End != 0 || r.ChunkEnd != 0 }

// state holds the per-session mutable data spec.md §3 calls SessionState,
// minus the sequence-number counters (those live in the MessageStore, which
// is the single source of truth both this state and resend servicing read
// from).
type state struct {
	connection ConnectionState

	sentLogon     bool
	receivedLogon bool
	sentLogout    bool
	sentReset     bool
	receivedReset bool
	enabled       bool

	lastSentTime     time.Time
	lastReceivedTime time.Time
	testRequestCount int

	resend resendRange
	queue  map[int]*fix.Message

	logonHeartBtInt int // peer's HeartBtInt, adopted by an acceptor at logon
}

func newState() *state {
	return &state{
		connection: Disconnected,
		enabled:    true,
		queue:      make(map[int]*fix.Message),
	}
}

// loggedOn reports SentLogon ∧ ReceivedLogon, per spec.md §4.5.1.
func (s *state) loggedOn() bool { return s.sentLogon && s.receivedLogon }

func (s *state) resetLogonFlags() {
	s.sentLogon = false
	s.receivedLogon = false
	s.sentLogout = false
	s.sentReset = false
	s.receivedReset = false
	s.testRequestCount = 0
	s.resend = resendRange{}
	s.queue = make(map[int]*fix.Message)
}
