// Copyright 2025 The go-fixengine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fix

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatSendingTimePrecision(t *testing.T) {
	ts := time.Date(2026, 3, 4, 5, 6, 7, 123456789, time.UTC)

	assert.Equal(t, "20260304-05:06:07", FormatSendingTime(ts, BeginStringFIX44, PrecisionSeconds))
	assert.Equal(t, "20260304-05:06:07.123", FormatSendingTime(ts, BeginStringFIX44, PrecisionMilliseconds))
	assert.Equal(t, "20260304-05:06:07.123456", FormatSendingTime(ts, BeginStringFIX44, PrecisionMicroseconds))
	assert.Equal(t, "20260304-05:06:07.123456789", FormatSendingTime(ts, BeginStringFIX44, PrecisionNanoseconds))
}

func TestFormatSendingTimeClampsSubSecondBelowFIX42(t *testing.T) {
	ts := time.Date(2026, 3, 4, 5, 6, 7, 123456789, time.UTC)
	assert.Equal(t, "20260304-05:06:07", FormatSendingTime(ts, BeginStringFIX40, PrecisionMilliseconds))
	assert.Equal(t, "20260304-05:06:07", FormatSendingTime(ts, BeginStringFIX41, PrecisionNanoseconds))
}

func TestParseSendingTimeRoundTrip(t *testing.T) {
	for _, p := range []TimePrecision{PrecisionSeconds, PrecisionMilliseconds, PrecisionMicroseconds, PrecisionNanoseconds} {
		ts := time.Date(2026, 3, 4, 5, 6, 7, 123456000, time.UTC)
		s := FormatSendingTime(ts, BeginStringFIX44, p)
		got, err := ParseSendingTime(s)
		require.NoError(t, err)
		assert.Equal(t, s, FormatSendingTime(got, BeginStringFIX44, p))
	}
}

func TestCheckSum(t *testing.T) {
	assert.Equal(t, "000", FormatCheckSum(CheckSum(nil)))
	assert.Equal(t, 0, CheckSum(nil))
}

func TestUsesInfiniteEndSeqNo(t *testing.T) {
	assert.False(t, UsesInfiniteEndSeqNo(BeginStringFIX40))
	assert.False(t, UsesInfiniteEndSeqNo(BeginStringFIX41))
	assert.True(t, UsesInfiniteEndSeqNo(BeginStringFIX42))
	assert.True(t, UsesInfiniteEndSeqNo(BeginStringFIX44))
	assert.True(t, UsesInfiniteEndSeqNo(BeginStringFIXT11))
}
