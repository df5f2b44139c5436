// Copyright 2025 The go-fixengine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package session

import (
	"github.com/destiny/fixengine/fix"
)

// verify runs the five checks spec.md §4.5.3 lists, in order, against a
// non-Logon inbound message. It returns ok=false (no error) when the
// message was queued by the gap procedure, or was a PossDupFlag=Y
// duplicate below NextTargetMsgSeqNum and dropped, rather than delivered;
// the caller must not advance NextTargetMsgSeqNum or dispatch the message
// in that case.
func (s *Session) verify(msg *fix.Message) (bool, error) {
	seqNum, _ := msg.Header.GetInt(fix.TagMsgSeqNum)

	// 1. CompID check.
	if s.settings.CheckCompID && !s.compIDsMatch(msg) {
		s.sendLocked(s.buildReject(seqNum, fix.RejectCompIDProblem, "CompID problem"), true)
		s.sendLocked(s.buildLogout("CompID problem"), true)
		s.disconnectLocked("CompID problem")
		return false, fix.NewProtocolFatalError("CompID problem", nil)
	}

	next := s.store.NextTargetMsgSeqNum()

	// 2. Sequence number too high: gap procedure, queue, return false.
	if seqNum > next {
		s.beginGap(msg, seqNum)
		return false, nil
	}

	// 3. Sequence number too low.
	if seqNum < next {
		possDup := msg.Header.GetFieldDefault(fix.TagPossDupFlag, "N") == "Y"
		if possDup {
			if s.settings.RequiresOrigSendingTime {
				if _, err := msg.Header.GetField(fix.TagOrigSendingTime); err != nil {
					s.sendLocked(s.buildReject(seqNum, fix.RejectRequiredTagMissing, "OrigSendingTime required"), true)
					return false, fix.NewDictionaryError("OrigSendingTime required with PossDupFlag=Y", err)
				}
			}
			return false, nil // duplicate already delivered once; drop silently
		}
		s.sendLocked(s.buildLogout("MsgSeqNum too low"), true)
		s.disconnectLocked("MsgSeqNum too low without PossDupFlag")
		return false, fix.NewProtocolFatalError("MsgSeqNum too low without PossDupFlag", nil)
	}

	// 4. Outstanding resend range: advance it.
	if s.st.resend.active() {
		s.advanceResendRange(seqNum)
	}

	// 5. Sending-time latency.
	if err := s.checkSendingTime(msg); err != nil {
		s.sendLocked(s.buildReject(seqNum, fix.RejectSendingTimeAccuracyProblem, "SendingTime accuracy problem"), true)
		s.sendLocked(s.buildLogout("SendingTime accuracy problem"), true)
		s.disconnectLocked("SendingTime accuracy problem")
		return false, err
	}

	return true, nil
}

// advanceResendRange updates the outstanding ResendRange as messages within
// it arrive, issuing a follow-up ResendRequest if chunking left more of the
// range outstanding (spec.md §4.5.3 step 4).
func (s *Session) advanceResendRange(seqNum int) {
	r := &s.st.resend
	if r.ChunkEnd != 0 && seqNum >= r.ChunkEnd {
		if r.ChunkEnd < r.End {
			nextChunkEnd := r.End
			if s.settings.MaxMessagesInResendRequest > 0 {
				candidate := r.ChunkEnd + s.settings.MaxMessagesInResendRequest
				if candidate < r.End {
					nextChunkEnd = candidate
				}
			}
			s.sendLocked(s.buildResendRequest(r.ChunkEnd+1, nextChunkEnd), true)
			r.ChunkEnd = nextChunkEnd
		} else {
			s.st.resend = resendRange{}
		}
	}
}
