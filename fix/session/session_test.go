// Copyright 2025 The go-fixengine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/destiny/fixengine/fix"
	"github.com/destiny/fixengine/fix/internal/clock"
	"github.com/destiny/fixengine/fix/store"
)

type fakeResponder struct {
	sent        [][]byte
	disconnects int
	refuse      bool
}

func (f *fakeResponder) Send(raw []byte) bool {
	if f.refuse {
		return false
	}
	f.sent = append(f.sent, append([]byte(nil), raw...))
	return true
}

func (f *fakeResponder) Disconnect() { f.disconnects++ }

func (f *fakeResponder) lastMsgType(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, f.sent)
	msg, err := fix.ParseMessage(f.sent[len(f.sent)-1])
	require.NoError(t, err)
	return msg.MsgType()
}

func testID() fix.SessionID {
	return fix.SessionID{BeginString: fix.BeginStringFIX44, SenderCompID: "SELL", TargetCompID: "BUY"}
}

func newTestSession(t *testing.T, opts ...Option) (*Session, *clock.Mock) {
	t.Helper()
	mock := clock.NewMock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	allOpts := append([]Option{WithClock(mock)}, opts...)
	settings := NewSettings(testID(), allOpts...)
	st := store.NewMemoryStore(mock.Now)
	return New(settings, st, nil), mock
}

func TestSetResponderRefusesSecondConnection(t *testing.T) {
	s, _ := newTestSession(t)
	require.NoError(t, s.SetResponder(&fakeResponder{}))
	err := s.SetResponder(&fakeResponder{})
	assert.ErrorIs(t, err, fix.ErrDuplicateConnection)
}

func TestSendIncrementsSeqNumAndPersists(t *testing.T) {
	s, _ := newTestSession(t)
	r := &fakeResponder{}
	require.NoError(t, s.SetResponder(r))

	msg := fix.NewMessage()
	msg.Header.Set(fix.TagMsgType, fix.MsgTypeHeartbeat)
	ok, err := s.Send(msg)
	require.NoError(t, err)
	assert.True(t, ok)

	details := s.GetDetails()
	assert.Equal(t, 2, details.NextSenderMsgSeqNum)
	require.Len(t, r.sent, 1)

	var stored []string
	require.NoError(t, s.store.Get(1, 1, &stored))
	assert.Equal(t, []string{string(r.sent[0])}, stored)
}

func TestSendWithoutResponderReturnsFalse(t *testing.T) {
	s, _ := newTestSession(t)
	msg := fix.NewMessage()
	msg.Header.Set(fix.TagMsgType, fix.MsgTypeHeartbeat)
	ok, err := s.Send(msg)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTickInitiatorSendsLogon(t *testing.T) {
	s, _ := newTestSession(t, WithInitiator(), WithHeartBtInt(30))
	r := &fakeResponder{}
	require.NoError(t, s.SetResponder(r))

	s.Tick()

	require.Len(t, r.sent, 1)
	assert.Equal(t, fix.MsgTypeLogon, r.lastMsgType(t))
}

// TestCleanLogonInitiator is scenario S1 from spec.md §8.
func TestCleanLogonInitiator(t *testing.T) {
	s, mock := newTestSession(t, WithInitiator(), WithHeartBtInt(30))
	r := &fakeResponder{}
	require.NoError(t, s.SetResponder(r))

	s.Tick()
	require.Len(t, r.sent, 1)

	peerLogon := fix.NewMessage()
	peerLogon.Header.Set(fix.TagBeginString, fix.BeginStringFIX44)
	peerLogon.Header.Set(fix.TagMsgType, fix.MsgTypeLogon)
	peerLogon.Header.Set(fix.TagSenderCompID, "BUY")
	peerLogon.Header.Set(fix.TagTargetCompID, "SELL")
	peerLogon.Header.SetInt(fix.TagMsgSeqNum, 1)
	peerLogon.Header.Set(fix.TagSendingTime, fix.FormatSendingTime(mock.Now(), fix.BeginStringFIX44, fix.PrecisionMilliseconds))
	peerLogon.Body.Set(fix.TagEncryptMethod, "0")
	peerLogon.Body.SetInt(fix.TagHeartBtInt, 30)

	require.NoError(t, s.OnMessage(peerLogon.Build()))

	details := s.GetDetails()
	assert.True(t, details.LoggedOn)
	assert.Equal(t, 2, details.NextTargetMsgSeqNum)
}

// TestGapRecovery is scenario S2 from spec.md §8: engine queues an
// out-of-order message, requests a resend, and drains the queue once the
// gap is filled.
func TestGapRecovery(t *testing.T) {
	s, mock := newTestSession(t, WithHeartBtInt(30))
	r := &fakeResponder{}
	require.NoError(t, s.SetResponder(r))

	send := func(seq int, msgType string) []byte {
		m := fix.NewMessage()
		m.Header.Set(fix.TagBeginString, fix.BeginStringFIX44)
		m.Header.Set(fix.TagMsgType, msgType)
		m.Header.Set(fix.TagSenderCompID, "BUY")
		m.Header.Set(fix.TagTargetCompID, "SELL")
		m.Header.SetInt(fix.TagMsgSeqNum, seq)
		m.Header.Set(fix.TagSendingTime, fix.FormatSendingTime(mock.Now(), fix.BeginStringFIX44, fix.PrecisionMilliseconds))
		if msgType == fix.MsgTypeLogon {
			m.Body.Set(fix.TagEncryptMethod, "0")
			m.Body.SetInt(fix.TagHeartBtInt, 30)
		}
		return m.Build()
	}

	require.NoError(t, s.OnMessage(send(1, fix.MsgTypeLogon)))
	assert.Equal(t, 2, s.GetDetails().NextTargetMsgSeqNum)

	// peer jumps straight to seq 5: engine should queue it and request a
	// resend of 2..4.
	require.NoError(t, s.OnMessage(send(5, fix.MsgTypeHeartbeat)))
	details := s.GetDetails()
	assert.Equal(t, 2, details.NextTargetMsgSeqNum, "gap message must not advance the target seq")
	assert.True(t, details.ResendActive)

	require.NoError(t, s.OnMessage(send(2, fix.MsgTypeHeartbeat)))
	require.NoError(t, s.OnMessage(send(3, fix.MsgTypeHeartbeat)))
	require.NoError(t, s.OnMessage(send(4, fix.MsgTypeHeartbeat)))

	assert.Equal(t, 6, s.GetDetails().NextTargetMsgSeqNum, "queued seq 5 must drain once the gap closes")
}

func TestResetZeroesSeqNumsAndDisconnects(t *testing.T) {
	s, _ := newTestSession(t)
	r := &fakeResponder{}
	require.NoError(t, s.SetResponder(r))

	require.NoError(t, s.Reset("test"))

	details := s.GetDetails()
	assert.Equal(t, 1, details.NextSenderMsgSeqNum)
	assert.Equal(t, 1, details.NextTargetMsgSeqNum)
	assert.Equal(t, Disconnected, details.ConnectionState)
}
