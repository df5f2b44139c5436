// Copyright 2025 The go-fixengine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package session

import (
	"github.com/destiny/fixengine/fix"
)

func newAdminMessage(msgType string) *fix.Message {
	m := fix.NewMessage()
	m.Header.Set(fix.TagMsgType, msgType)
	return m
}

func (s *Session) buildLogon(resetSeqNum bool) *fix.Message {
	m := newAdminMessage(fix.MsgTypeLogon)
	m.Body.Set(fix.TagEncryptMethod, "0")
	m.Body.SetInt(fix.TagHeartBtInt, s.settings.HeartBtInt)
	if resetSeqNum {
		m.Body.Set(fix.TagResetSeqNumFlag, "Y")
	}
	return m
}

func (s *Session) buildHeartbeat(testReqID string) *fix.Message {
	m := newAdminMessage(fix.MsgTypeHeartbeat)
	if testReqID != "" {
		m.Body.Set(fix.TagTestReqID, testReqID)
	}
	return m
}

func (s *Session) buildTestRequest(testReqID string) *fix.Message {
	m := newAdminMessage(fix.MsgTypeTestRequest)
	m.Body.Set(fix.TagTestReqID, testReqID)
	return m
}

func (s *Session) buildLogout(text string) *fix.Message {
	m := newAdminMessage(fix.MsgTypeLogout)
	if text != "" {
		m.Body.Set(fix.TagText, text)
	}
	return m
}

func (s *Session) buildResendRequest(begin, end int) *fix.Message {
	m := newAdminMessage(fix.MsgTypeResendRequest)
	m.Body.SetInt(fix.TagBeginSeqNo, begin)
	m.Body.SetInt(fix.TagEndSeqNo, end)
	return m
}

func (s *Session) buildSequenceReset(newSeqNo int, gapFill bool) *fix.Message {
	m := newAdminMessage(fix.MsgTypeSequenceReset)
	m.Body.SetInt(fix.TagNewSeqNo, newSeqNo)
	if gapFill {
		m.Body.Set(fix.TagGapFillFlag, "Y")
	}
	return m
}

func (s *Session) buildReject(refSeqNum int, reason fix.SessionRejectReason, text string) *fix.Message {
	m := newAdminMessage(fix.MsgTypeReject)
	m.Body.SetInt(fix.TagRefSeqNum, refSeqNum)
	m.Body.SetInt(fix.TagSessionRejectReason, int(reason))
	if text != "" {
		m.Body.Set(fix.TagText, text)
	}
	return m
}

// endSeqNoInfinite returns the "infinity" EndSeqNo sentinel for this
// session's BeginString, per spec.md §4.5.4.
func (s *Session) endSeqNoInfinite() int {
	if fix.UsesInfiniteEndSeqNo(s.settings.ID.BeginString) {
		return 0
	}
	return fix.LegacyInfiniteEndSeqNo
}
