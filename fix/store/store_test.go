// Copyright 2025 The go-fixengine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestNewMemoryStoreStartsAtSeqOne(t *testing.T) {
	s := NewMemoryStore(nil)
	assert.Equal(t, 1, s.NextSenderMsgSeqNum())
	assert.Equal(t, 1, s.NextTargetMsgSeqNum())
}

func TestIncrAndSetSeqNums(t *testing.T) {
	s := NewMemoryStore(nil)
	s.IncrNextSenderMsgSeqNum()
	s.IncrNextSenderMsgSeqNum()
	assert.Equal(t, 3, s.NextSenderMsgSeqNum())

	s.SetNextTargetMsgSeqNum(10)
	assert.Equal(t, 10, s.NextTargetMsgSeqNum())
}

func TestSetAndGetRangeSkipsGaps(t *testing.T) {
	s := NewMemoryStore(nil)
	require.NoError(t, s.Set(1, "msg1"))
	require.NoError(t, s.Set(3, "msg3"))
	require.NoError(t, s.Set(5, "msg5"))

	var out []string
	require.NoError(t, s.Get(1, 5, &out))
	assert.Equal(t, []string{"msg1", "msg3", "msg5"}, out)
}

func TestResetClearsMessagesAndSeqNums(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewMemoryStore(fixedNow(now))
	require.NoError(t, s.Set(1, "msg1"))
	s.IncrNextSenderMsgSeqNum()

	later := now.Add(24 * time.Hour)
	s.now = fixedNow(later)
	require.NoError(t, s.Reset())

	assert.Equal(t, 1, s.NextSenderMsgSeqNum())
	assert.Equal(t, 1, s.NextTargetMsgSeqNum())
	assert.Equal(t, later, s.CreationTime())

	var out []string
	require.NoError(t, s.Get(1, 1, &out))
	assert.Empty(t, out)
}

func TestRefreshIsNoOpForMemoryStore(t *testing.T) {
	s := NewMemoryStore(nil)
	assert.NoError(t, s.Refresh())
}
