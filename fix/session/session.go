// Copyright 2025 The go-fixengine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package session implements the session-level FIX protocol state machine:
// sequence number management, the logon/logout handshake, heartbeats and
// test requests, gap detection and resend servicing, and session-time
// scheduling, all serialized under one per-session mutex as spec.md §5
// requires.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/destiny/fixengine/fix"
	"github.com/destiny/fixengine/fix/internal/logx"
	"github.com/destiny/fixengine/fix/store"
)

// Session is the protocol engine for one SessionID. It owns its state and
// MessageStore exclusively; a transport adapter holds it only through a
// Responder handle (spec.md §3's "weak/back reference").
//
// Every exported method that mutates state acquires mu; mu is a plain
// sync.Mutex rather than a hand-rolled reentrant lock because spec.md §5
// calls for a "reentry-forbidding" critical section — which is exactly
// what sync.Mutex already refuses, by deadlocking on self-reentry rather
// than allowing it. No method here calls another exported method while
// holding mu.
type Session struct {
	mu sync.Mutex

	settings *Settings
	store    store.MessageStore
	app      Application
	log      *logx.Logger

	responder Responder
	st        *state
}

// New returns a Session for settings.ID, backed by st and driven by app.
// A nil app is replaced with NopApplication. OnCreate fires before New
// returns.
func New(settings *Settings, st store.MessageStore, app Application) *Session {
	if app == nil {
		app = NopApplication{}
	}
	s := &Session{
		settings: settings,
		store:    st,
		app:      app,
		log:      settings.Logger,
		st:       newState(),
	}
	if s.log == nil {
		s.log = logx.Default
	}
	app.OnCreate(settings.ID)
	return s
}

// ID returns the session's identity tuple.
func (s *Session) ID() fix.SessionID { return s.settings.ID }

// ValidateLengthAndChecksum reports whether a transport's Framer should
// treat a checksum mismatch as a fatal framing error for this session.
func (s *Session) ValidateLengthAndChecksum() bool { return s.settings.ValidateLengthAndChecksum }

// IsSessionTime reports whether now falls within this session's configured
// SessionSchedule, so a supervisor (e.g. registry.Initiator) can decide
// whether to dial a Disconnected session at all (spec.md §4.6).
func (s *Session) IsSessionTime() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings.Schedule.IsSessionTime(s.now())
}

// Details is a point-in-time, read-only snapshot for monitoring/inspection
// (spec.md §5's GetDetails).
type Details struct {
	ID                  fix.SessionID
	ConnectionState     ConnectionState
	LoggedOn            bool
	NextSenderMsgSeqNum int
	NextTargetMsgSeqNum int
	ResendActive        bool
}

// GetDetails returns a snapshot of the session's current state.
func (s *Session) GetDetails() Details {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Details{
		ID:                  s.settings.ID,
		ConnectionState:     s.st.connection,
		LoggedOn:            s.st.loggedOn(),
		NextSenderMsgSeqNum: s.store.NextSenderMsgSeqNum(),
		NextTargetMsgSeqNum: s.store.NextTargetMsgSeqNum(),
		ResendActive:        s.st.resend.active(),
	}
}

// SetResponder attaches r as the session's transport handle, transitioning
// ConnectionState to Connected and stamping LastReceivedTime, so the logon
// timeout runs from the moment the connection is attached. A session that
// already has a live responder refuses a second one (spec.md §8 invariant
// 6, at-most-one connection per SessionID).
func (s *Session) SetResponder(r Responder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.responder != nil {
		return fix.ErrDuplicateConnection
	}
	s.responder = r
	s.st.connection = Connected
	s.st.resetLogonFlags()
	s.st.lastReceivedTime = s.now()
	return nil
}

// clearResponder detaches the responder without disconnecting it again;
// callers that already closed the transport call this directly.
func (s *Session) clearResponder() {
	s.responder = nil
	s.st.connection = Disconnected
}

// Disconnect tears down the transport, if any, and marks the session
// Disconnected. It fires OnLogout if the session was logged on.
func (s *Session) Disconnect(reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disconnectLocked(reason)
}

func (s *Session) disconnectLocked(reason string) {
	wasLoggedOn := s.st.loggedOn()
	if s.responder != nil {
		s.responder.Disconnect()
	}
	s.clearResponder()
	if wasLoggedOn {
		s.app.OnLogout(s.settings.ID)
	}
	if reason != "" {
		s.log.Info("session %s disconnected: %s", s.settings.ID, reason)
	}
}

// Reset implements spec.md §4.5.6: log out if logged on, disconnect, zero
// both sequence numbers, clear the gap queue and resend range.
func (s *Session) Reset(reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resetLocked(reason)
}

func (s *Session) resetLocked(reason string) error {
	if s.st.loggedOn() && !s.st.sentLogout {
		s.sendLocked(s.buildLogout(reason), true)
	}
	s.disconnectLocked(reason)
	if err := s.store.Reset(); err != nil {
		return err
	}
	s.st.resetLogonFlags()
	s.log.Info("session %s reset: %s", s.settings.ID, reason)
	return nil
}

// Enable/Disable toggle SessionState.IsEnabled (spec.md §3); a disabled,
// logged-on session logs out on the next Tick (step 4 of §4.5.2).
func (s *Session) Enable() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.enabled = true
}

func (s *Session) Disable() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.enabled = false
}

func (s *Session) now() time.Time { return s.settings.Clock.Now() }

// Send implements spec.md §4.5.7. It returns false with a nil error if no
// responder is attached or if the application vetoed an application-level
// message with ErrDoNotSend; any other ToApp error is returned as is.
func (s *Session) Send(msg *fix.Message) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sendLocked(msg, true)
}

// sendLocked performs the send under mu. persist controls whether the
// message is written to the store (resends re-transmit already-stored
// bytes and must not persist themselves again).
func (s *Session) sendLocked(msg *fix.Message, persist bool) (bool, error) {
	msg.Header.Remove(fix.TagPossDupFlag)
	msg.Header.Remove(fix.TagOrigSendingTime)

	seqNum := s.store.NextSenderMsgSeqNum()
	s.initializeHeader(msg, seqNum)

	if msg.IsAdmin() {
		s.app.ToAdmin(msg, s.settings.ID)
	} else {
		if err := s.app.ToApp(msg, s.settings.ID); err != nil {
			if errors.Is(err, ErrDoNotSend) {
				return false, nil
			}
			return false, err
		}
	}

	if msg.MsgType() == fix.MsgTypeLogon {
		if v, _ := msg.Body.GetField(fix.TagResetSeqNumFlag); v == "Y" {
			if err := s.store.Reset(); err != nil {
				return false, err
			}
			s.st.resetLogonFlags()
			seqNum = 1
			s.initializeHeader(msg, seqNum)
		}
	}

	raw := msg.Build()

	if s.responder == nil {
		return false, nil
	}
	ok := s.responder.Send(raw)
	if !ok {
		return false, nil
	}

	if persist && s.settings.PersistMessages {
		if err := s.store.Set(seqNum, string(raw)); err != nil {
			return false, err
		}
	}
	s.store.IncrNextSenderMsgSeqNum()
	s.st.lastSentTime = s.now()

	switch msg.MsgType() {
	case fix.MsgTypeLogon:
		s.st.sentLogon = true
	case fix.MsgTypeLogout:
		s.st.sentLogout = true
	}
	return true, nil
}

// sendGapFillLocked sends a SequenceReset-GapFill whose MsgSeqNum is pinned
// to seqNum rather than drawn from the live NextSenderMsgSeqNum counter, and
// which is never persisted. Resend servicing (spec.md §4.5.5, §4.5.7's
// "caller-supplied" seqNum) anchors a GapFill's MsgSeqNum to the start of
// the gap it is filling; using sendLocked here would both misnumber the
// GapFill on the wire and corrupt the session's real outbound sequence.
func (s *Session) sendGapFillLocked(msg *fix.Message, seqNum int) bool {
	msg.Header.Remove(fix.TagPossDupFlag)
	msg.Header.Remove(fix.TagOrigSendingTime)
	s.initializeHeader(msg, seqNum)
	s.app.ToAdmin(msg, s.settings.ID)
	raw := msg.Build()
	if s.responder == nil {
		return false
	}
	return s.responder.Send(raw)
}

func (s *Session) initializeHeader(msg *fix.Message, seqNum int) {
	id := s.settings.ID
	msg.Header.Set(fix.TagBeginString, id.BeginString)
	msg.Header.Set(fix.TagSenderCompID, id.SenderCompID)
	msg.Header.Set(fix.TagTargetCompID, id.TargetCompID)
	msg.Header.SetInt(fix.TagMsgSeqNum, seqNum)
	msg.Header.Set(fix.TagSendingTime, fix.FormatSendingTime(s.now(), id.BeginString, s.settings.TimeStampPrecision))
	if s.settings.EnableLastMsgSeqNumProcessed {
		msg.Header.SetInt(fix.TagLastMsgSeqNumProcessed, s.store.NextTargetMsgSeqNum()-1)
	}
}
