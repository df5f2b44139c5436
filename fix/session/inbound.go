// Copyright 2025 The go-fixengine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package session

import (
	"github.com/destiny/fixengine/fix"
)

// OnMessage parses raw and drives it through the state machine. Parse
// failures are recoverable (spec.md §7): the framer upstream has already
// resynced, so OnMessage just logs and returns the error to the caller for
// visibility.
func (s *Session) OnMessage(raw []byte) error {
	msg, err := fix.ParseMessage(raw)
	if err != nil {
		s.log.Warn("session %s: parse error: %v", s.settings.ID, err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.onMessageLocked(msg)
}

func (s *Session) onMessageLocked(msg *fix.Message) error {
	beginString, _ := msg.Header.GetField(fix.TagBeginString)
	if beginString != s.settings.ID.BeginString {
		s.sendLocked(s.buildLogout("UnsupportedVersion"), true)
		s.disconnectLocked("unsupported BeginString " + beginString)
		return fix.NewProtocolFatalError("unsupported BeginString "+beginString, nil)
	}

	if s.settings.Dictionary != nil {
		if err := s.settings.Dictionary.Validate(msg); err != nil {
			return s.handleDictionaryError(msg, err)
		}
	}

	s.st.lastReceivedTime = s.now()
	s.st.testRequestCount = 0

	if msg.MsgType() == fix.MsgTypeLogon {
		return s.handleLogon(msg)
	}

	ok, err := s.verify(msg)
	if err != nil {
		return err
	}
	if !ok {
		return nil // queued by the gap procedure, or a PossDup duplicate dropped
	}

	s.store.IncrNextTargetMsgSeqNum()
	err = s.dispatchLocked(msg)
	s.drainQueue()
	return err
}

// dispatchLocked delivers one already-sequenced message: answer a
// TestRequest with a Heartbeat, service ResendRequest/SequenceReset/Logout
// in-band, and hand the message to FromAdmin (admin) or FromApp.
func (s *Session) dispatchLocked(msg *fix.Message) error {
	switch msg.MsgType() {
	case fix.MsgTypeHeartbeat:
		return s.app.FromAdmin(msg, s.settings.ID)
	case fix.MsgTypeTestRequest:
		testReqID, _ := msg.Body.GetField(fix.TagTestReqID)
		if _, sendErr := s.sendLocked(s.buildHeartbeat(testReqID), true); sendErr != nil {
			return sendErr
		}
		return s.app.FromAdmin(msg, s.settings.ID)
	case fix.MsgTypeResendRequest:
		if err := s.handleResendRequest(msg); err != nil {
			return err
		}
		return s.app.FromAdmin(msg, s.settings.ID)
	case fix.MsgTypeSequenceReset:
		return s.handleSequenceReset(msg)
	case fix.MsgTypeLogout:
		return s.handleLogout(msg)
	case fix.MsgTypeReject:
		return s.app.FromAdmin(msg, s.settings.ID)
	default:
		if msg.IsAdmin() {
			return s.app.FromAdmin(msg, s.settings.ID)
		}
		return s.app.FromApp(msg, s.settings.ID)
	}
}

// handleDictionaryError implements spec.md §7's dictionary-error handling:
// generate a session-level Reject, keep the session alive, and still
// advance the target sequence number (the message was well-formed enough
// to be counted).
func (s *Session) handleDictionaryError(msg *fix.Message, cause error) error {
	seqNum, _ := msg.Header.GetInt(fix.TagMsgSeqNum)
	s.sendLocked(s.buildReject(seqNum, fix.RejectOther, cause.Error()), true)
	s.store.IncrNextTargetMsgSeqNum()
	return cause
}

func (s *Session) compIDsMatch(msg *fix.Message) bool {
	sender, _ := msg.Header.GetField(fix.TagSenderCompID)
	target, _ := msg.Header.GetField(fix.TagTargetCompID)
	return sender == s.settings.ID.TargetCompID && target == s.settings.ID.SenderCompID
}

// checkSendingTime validates |now - SendingTime| against Settings.MaxLatency
// when Settings.CheckLatency is enabled.
func (s *Session) checkSendingTime(msg *fix.Message) error {
	if !s.settings.CheckLatency || s.settings.MaxLatency <= 0 {
		return nil
	}
	raw, err := msg.Header.GetField(fix.TagSendingTime)
	if err != nil {
		return nil
	}
	sendingTime, err := fix.ParseSendingTime(raw)
	if err != nil {
		return fix.NewProtocolFatalError("unparseable SendingTime", err)
	}
	delta := s.now().Sub(sendingTime)
	if delta < 0 {
		delta = -delta
	}
	if delta.Seconds() > float64(s.settings.MaxLatency) {
		return fix.NewProtocolFatalError("SendingTime accuracy problem", nil)
	}
	return nil
}

// handleLogon implements spec.md §4.5.3's Logon (A) handling.
func (s *Session) handleLogon(msg *fix.Message) error {
	resetSeqNumFlag := msg.Body.GetFieldDefault(fix.TagResetSeqNumFlag, "N") == "Y"
	if resetSeqNumFlag {
		s.resetLocked("peer Logon carried ResetSeqNumFlag=Y")
	}
	if !s.settings.Initiator && s.settings.ResetOnLogon {
		s.resetLocked("ResetOnLogon")
	}
	if s.settings.RefreshOnLogon {
		if err := s.store.Refresh(); err != nil {
			return err
		}
	}

	if s.settings.CheckCompID && !s.compIDsMatch(msg) {
		seqNum, _ := msg.Header.GetInt(fix.TagMsgSeqNum)
		s.sendLocked(s.buildReject(seqNum, fix.RejectCompIDProblem, "CompID problem"), true)
		s.sendLocked(s.buildLogout("CompID problem"), true)
		s.disconnectLocked("CompID problem")
		return fix.NewProtocolFatalError("CompID problem", nil)
	}
	if err := s.checkSendingTime(msg); err != nil {
		s.disconnectLocked("bad SendingTime at logon")
		return err
	}

	if err := s.app.FromAdmin(msg, s.settings.ID); err != nil {
		reason := err.Error()
		if rl, ok := err.(*ErrRejectLogon); ok {
			reason = rl.Reason
		}
		s.sendLocked(s.buildLogout(reason), true)
		s.disconnectLocked(reason)
		return err
	}

	s.st.receivedLogon = true

	if !s.settings.Initiator {
		if heartBtInt, err := msg.Body.GetInt(fix.TagHeartBtInt); err == nil {
			s.settings.HeartBtInt = heartBtInt
			s.st.logonHeartBtInt = heartBtInt
		}
		s.sendLocked(s.buildLogon(false), true)
	}

	seqNum, _ := msg.Header.GetInt(fix.TagMsgSeqNum)
	if seqNum > s.store.NextTargetMsgSeqNum() && !resetSeqNumFlag {
		s.beginGap(msg, seqNum)
	} else {
		s.store.IncrNextTargetMsgSeqNum()
	}

	s.app.OnLogon(s.settings.ID)
	return nil
}

// handleLogout implements the passive side of the Logout (5) exchange:
// acknowledge by disconnecting without re-sending our own Logout if we
// already sent one.
func (s *Session) handleLogout(msg *fix.Message) error {
	if !s.st.sentLogout {
		text, _ := msg.Body.GetField(fix.TagText)
		s.sendLocked(s.buildLogout(text), true)
	}
	s.disconnectLocked("logout received")
	return s.app.FromAdmin(msg, s.settings.ID)
}
