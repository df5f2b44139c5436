// Copyright 2025 The go-fixengine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageBuildComputesBodyLengthAndCheckSum(t *testing.T) {
	m := NewMessage()
	m.Header.Set(TagBeginString, BeginStringFIX44)
	m.Header.Set(TagMsgType, MsgTypeLogon)
	m.Header.Set(TagSenderCompID, "SELL")
	m.Header.Set(TagTargetCompID, "BUY")
	m.Header.SetInt(TagMsgSeqNum, 1)
	m.Header.Set(TagSendingTime, "20260102-03:04:05")
	m.Body.Set(TagEncryptMethod, "0")
	m.Body.SetInt(TagHeartBtInt, 30)

	raw := m.Build()

	parsed, err := ParseMessage(raw)
	require.NoError(t, err)

	got, err := parsed.Trailer.GetField(TagCheckSum)
	require.NoError(t, err)

	checksumFieldLen := len("10=") + len(got) + 1 // tag=value<SOH>
	want := FormatCheckSum(CheckSum(raw[:len(raw)-checksumFieldLen]))
	assert.Equal(t, want, got)

	bodyLenStr, err := parsed.Header.GetField(TagBodyLength)
	require.NoError(t, err)
	assert.NotEmpty(t, bodyLenStr)

	assert.Equal(t, MsgTypeLogon, parsed.MsgType())
}

func TestMessageRoundTrip(t *testing.T) {
	m := NewMessage()
	m.Header.Set(TagBeginString, BeginStringFIX44)
	m.Header.Set(TagMsgType, "D")
	m.Header.Set(TagSenderCompID, "S")
	m.Header.Set(TagTargetCompID, "T")
	m.Header.SetInt(TagMsgSeqNum, 42)
	m.Body.Set(11, "ORDER-1")
	m.Body.Set(55, "AAPL")

	raw := m.Build()
	parsed, err := ParseMessage(raw)
	require.NoError(t, err)

	v, err := parsed.Body.GetField(11)
	require.NoError(t, err)
	assert.Equal(t, "ORDER-1", v)

	seq, err := parsed.Header.GetInt(TagMsgSeqNum)
	require.NoError(t, err)
	assert.Equal(t, 42, seq)
}

func TestFieldMapOverwrite(t *testing.T) {
	fm := NewFieldMap()
	fm.SetField(1, "a", true)
	fm.SetField(1, "b", false)
	v, err := fm.GetField(1)
	require.NoError(t, err)
	assert.Equal(t, "a", v)

	fm.SetField(1, "c", true)
	v, err = fm.GetField(1)
	require.NoError(t, err)
	assert.Equal(t, "c", v)
}

func TestFieldMapGroupOneBasedIndexing(t *testing.T) {
	fm := NewFieldMap()
	template := []Tag{54, 55}
	g1 := NewGroup(template)
	g1.Set(54, "1")
	g1.Set(55, "AAPL")
	g2 := NewGroup(template)
	g2.Set(54, "2")
	g2.Set(55, "MSFT")
	fm.AddGroup(73, g1)
	fm.AddGroup(73, g2)

	got, err := fm.GetGroup(1, 54)
	require.NoError(t, err)
	v, _ := got.GetField(55)
	assert.Equal(t, "AAPL", v)

	_, err = fm.GetGroup(0, 54)
	assert.ErrorIs(t, err, ErrFieldNotFound)
	_, err = fm.GetGroup(3, 54)
	assert.ErrorIs(t, err, ErrFieldNotFound)

	require.NoError(t, fm.RemoveGroup(1, 54))
	assert.Equal(t, 1, fm.GroupCount(54))
	remaining, err := fm.GetGroup(1, 54)
	require.NoError(t, err)
	v, _ = remaining.GetField(55)
	assert.Equal(t, "MSFT", v)
}

func TestBuildGroupAwareFieldMap(t *testing.T) {
	fields := []RawField{
		{Tag: 73, Value: "2"},
		{Tag: 11, Value: "should-stay"},
		{Tag: 54, Value: "1"},
		{Tag: 55, Value: "AAPL"},
		{Tag: 54, Value: "2"},
		{Tag: 55, Value: "MSFT"},
	}

	fm, err := BuildGroupAwareFieldMap(fields, []GroupSpec{{CountTag: 73, Template: []Tag{54, 55}}})
	require.NoError(t, err)
	assert.Equal(t, 2, fm.GroupCount(54))

	first, err := fm.GetGroup(1, 54)
	require.NoError(t, err)
	v, _ := first.GetField(55)
	assert.Equal(t, "AAPL", v)

	second, err := fm.GetGroup(2, 54)
	require.NoError(t, err)
	v, _ = second.GetField(55)
	assert.Equal(t, "MSFT", v)

	v, err = fm.GetField(11)
	require.NoError(t, err)
	assert.Equal(t, "should-stay", v)
}
