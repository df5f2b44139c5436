// Copyright 2025 The go-fixengine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildRawLogon(t *testing.T, seqNum int) []byte {
	t.Helper()
	m := NewMessage()
	m.Header.Set(TagBeginString, BeginStringFIX44)
	m.Header.Set(TagMsgType, MsgTypeLogon)
	m.Header.Set(TagSenderCompID, "SELL")
	m.Header.Set(TagTargetCompID, "BUY")
	m.Header.SetInt(TagMsgSeqNum, seqNum)
	m.Header.Set(TagSendingTime, "20260102-03:04:05")
	m.Body.Set(TagEncryptMethod, "0")
	m.Body.SetInt(TagHeartBtInt, 30)
	return m.Build()
}

func TestFramerSingleMessage(t *testing.T) {
	raw := buildRawLogon(t, 1)
	f := NewFramer()
	f.Feed(raw)

	got, err, needMore := f.Next()
	require.NoError(t, err)
	assert.False(t, needMore)
	assert.Equal(t, raw, got)

	_, err, needMore = f.Next()
	assert.NoError(t, err)
	assert.True(t, needMore)
}

func TestFramerIncrementalFeed(t *testing.T) {
	raw := buildRawLogon(t, 1)
	f := NewFramer()

	for i := 0; i < len(raw); i++ {
		f.Feed(raw[i : i+1])
		got, err, needMore := f.Next()
		require.NoError(t, err)
		if i < len(raw)-1 {
			assert.True(t, needMore, "should need more bytes at offset %d", i)
			assert.Nil(t, got)
			continue
		}
		assert.False(t, needMore)
		assert.Equal(t, raw, got)
	}
}

func TestFramerMultipleMessagesInOneFeed(t *testing.T) {
	raw1 := buildRawLogon(t, 1)
	raw2 := buildRawLogon(t, 2)

	f := NewFramer()
	f.Feed(append(append([]byte(nil), raw1...), raw2...))

	got1, err, needMore := f.Next()
	require.NoError(t, err)
	require.False(t, needMore)
	assert.Equal(t, raw1, got1)

	got2, err, needMore := f.Next()
	require.NoError(t, err)
	require.False(t, needMore)
	assert.Equal(t, raw2, got2)
}

func TestFramerResyncsAfterBadChecksum(t *testing.T) {
	raw1 := buildRawLogon(t, 1)
	raw2 := buildRawLogon(t, 2)

	corrupted := append([]byte(nil), raw1...)
	// flip the checksum's last digit to force a mismatch.
	corrupted[len(corrupted)-2] ^= 1

	f := NewFramer()
	f.Feed(append(corrupted, raw2...))

	_, err, needMore := f.Next()
	require.Error(t, err)
	assert.False(t, needMore)
	var fixErr *Error
	require.ErrorAs(t, err, &fixErr)
	assert.Equal(t, ErrKindParse, fixErr.Kind)

	got2, err, needMore := f.Next()
	require.NoError(t, err)
	require.False(t, needMore)
	assert.Equal(t, raw2, got2)
}

func TestFramerDiscardsGarbageBeforeFirstMessage(t *testing.T) {
	raw := buildRawLogon(t, 7)
	f := NewFramer()
	f.Feed(append([]byte("garbage-not-fix"), raw...))

	got, err, needMore := f.Next()
	require.NoError(t, err)
	assert.False(t, needMore)
	assert.Equal(t, raw, got)
}

func TestDetectMessageEnd(t *testing.T) {
	raw := buildRawLogon(t, 1)
	end, ok := DetectMessageEnd(raw)
	require.True(t, ok)
	assert.Equal(t, len(raw), end)
}
