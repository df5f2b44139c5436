// Copyright 2025 The go-fixengine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package session

import (
	"github.com/destiny/fixengine/fix"
)

// beginGap implements spec.md §4.5.4: queue the out-of-order message and,
// unless a resend is already outstanding (and redundant requests are off),
// ask the peer to fill the gap.
func (s *Session) beginGap(msg *fix.Message, seqNum int) {
	s.st.queue[seqNum] = msg

	if s.st.resend.active() && !s.settings.SendRedundantResendRequests {
		return
	}

	begin := s.store.NextTargetMsgSeqNum()
	end := seqNum - 1
	chunkEnd := end
	if s.settings.MaxMessagesInResendRequest > 0 && end-begin+1 > s.settings.MaxMessagesInResendRequest {
		chunkEnd = begin + s.settings.MaxMessagesInResendRequest - 1
	}

	requestEnd := chunkEnd
	if chunkEnd == end {
		requestEnd = s.endSeqNoInfinite()
	}
	s.sendLocked(s.buildResendRequest(begin, requestEnd), true)
	s.st.resend = resendRange{Begin: begin, End: end, ChunkEnd: chunkEnd}
}

// drainQueue delivers queued out-of-order messages once NextTargetMsgSeqNum
// catches up to them, the "re-entrant process next queued by seq" loop
// spec.md §4.5.4 describes.
func (s *Session) drainQueue() {
	for {
		next := s.store.NextTargetMsgSeqNum()
		queued, ok := s.st.queue[next]
		if !ok {
			return
		}
		delete(s.st.queue, next)
		s.store.IncrNextTargetMsgSeqNum()
		s.dispatchLocked(queued)
	}
}

// handleResendRequest implements spec.md §4.5.5.
func (s *Session) handleResendRequest(msg *fix.Message) error {
	possDup := msg.Header.GetFieldDefault(fix.TagPossDupFlag, "N") == "Y"
	if s.settings.IgnorePossDupResendRequests && possDup {
		return nil
	}

	begin, _ := msg.Body.GetInt(fix.TagBeginSeqNo)
	end, _ := msg.Body.GetInt(fix.TagEndSeqNo)
	if end == 0 || end == fix.LegacyInfiniteEndSeqNo {
		end = s.store.NextSenderMsgSeqNum() - 1
	}

	if !s.settings.PersistMessages {
		upper := end + 1
		if upper > s.store.NextSenderMsgSeqNum() {
			upper = s.store.NextSenderMsgSeqNum()
		}
		s.sendGapFillLocked(s.buildSequenceReset(upper, true), begin)
		return nil
	}

	var stored []string
	if err := s.store.Get(begin, end, &stored); err != nil {
		return err
	}

	gapStart := 0
	flushGap := func(uptoExclusive int) {
		if gapStart == 0 {
			return
		}
		s.sendGapFillLocked(s.buildSequenceReset(uptoExclusive, true), gapStart)
		gapStart = 0
	}

	seq := begin
	for _, raw := range stored {
		resent, err := fix.ParseMessage([]byte(raw))
		if err != nil {
			seq++
			continue
		}
		msgSeqNum, _ := resent.Header.GetInt(fix.TagMsgSeqNum)
		for seq < msgSeqNum {
			if gapStart == 0 {
				gapStart = seq
			}
			seq++
		}

		isAdmin := resent.IsAdmin()
		collapsible := isAdmin && !(resent.MsgType() == fix.MsgTypeReject && s.settings.ResendSessionLevelRejects)
		if !isAdmin {
			if vetoErr := s.app.ToApp(resent, s.settings.ID); vetoErr != nil {
				if gapStart == 0 {
					gapStart = msgSeqNum
				}
				seq = msgSeqNum + 1
				continue
			}
		}
		if collapsible {
			if gapStart == 0 {
				gapStart = msgSeqNum
			}
			seq = msgSeqNum + 1
			continue
		}

		flushGap(msgSeqNum)
		origSendingTime, _ := resent.Header.GetField(fix.TagSendingTime)
		resent.Header.Set(fix.TagPossDupFlag, "Y")
		resent.Header.Set(fix.TagOrigSendingTime, origSendingTime)
		raw := resent.Build()
		if s.responder != nil {
			s.responder.Send(raw)
		}
		seq = msgSeqNum + 1
	}
	flushGap(end + 1)

	if s.store.NextSenderMsgSeqNum() > end+1 {
		s.sendGapFillLocked(s.buildSequenceReset(s.store.NextSenderMsgSeqNum(), true), end+1)
	}
	return nil
}

// handleSequenceReset implements the inbound side of SequenceReset (4):
// GapFill advances NextTargetMsgSeqNum to NewSeqNo without requiring the
// intervening messages to have been seen; Reset (non-gap-fill) sets it
// unconditionally, even backwards.
func (s *Session) handleSequenceReset(msg *fix.Message) error {
	newSeqNo, err := msg.Body.GetInt(fix.TagNewSeqNo)
	if err != nil {
		return err
	}
	gapFill := msg.Body.GetFieldDefault(fix.TagGapFillFlag, "N") == "Y"

	if gapFill && newSeqNo < s.store.NextTargetMsgSeqNum() {
		return nil // never move backwards via gap fill
	}
	s.store.SetNextTargetMsgSeqNum(newSeqNo)
	s.drainQueue()
	return s.app.FromAdmin(msg, s.settings.ID)
}
