// Copyright 2025 The go-fixengine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fix

import (
	"fmt"
	"time"
)

// SOH is the ASCII 0x01 field delimiter used between tag=value pairs.
const SOH = byte(0x01)

// TimePrecision selects the SendingTime/OrigSendingTime fractional-second
// precision used when formatting timestamps. Only BeginString >= FIX.4.2
// (and FIXT.1.1) may use anything other than PrecisionSeconds.
type TimePrecision int

const (
	PrecisionSeconds TimePrecision = iota
	PrecisionMilliseconds
	PrecisionMicroseconds
	PrecisionNanoseconds
)

const utcTimeLayout = "20060102-15:04:05"

// FormatSendingTime renders t in UTC using the FIX UTCTimestamp grammar
// YYYYMMDD-HH:MM:SS[.sss[sss[sss]]], honoring precision. precision is
// silently clamped to PrecisionSeconds when the BeginString predates
// FIX.4.2.
func FormatSendingTime(t time.Time, beginString string, precision TimePrecision) string {
	t = t.UTC()
	if !SupportsSubSecondTimestamps(beginString) {
		precision = PrecisionSeconds
	}
	base := t.Format(utcTimeLayout)
	switch precision {
	case PrecisionMilliseconds:
		return fmt.Sprintf("%s.%03d", base, t.Nanosecond()/1e6)
	case PrecisionMicroseconds:
		return fmt.Sprintf("%s.%06d", base, t.Nanosecond()/1e3)
	case PrecisionNanoseconds:
		return fmt.Sprintf("%s.%09d", base, t.Nanosecond())
	default:
		return base
	}
}

// ParseSendingTime parses a FIX UTCTimestamp value in any of the supported
// precisions, returning a UTC time.Time.
func ParseSendingTime(value string) (time.Time, error) {
	layouts := []string{
		"20060102-15:04:05.000000000",
		"20060102-15:04:05.000000",
		"20060102-15:04:05.000",
		"20060102-15:04:05",
	}
	var lastErr error
	for _, layout := range layouts {
		if len(value) != len(layout) {
			continue
		}
		t, err := time.Parse(layout, value)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("unrecognized timestamp %q", value)
	}
	return time.Time{}, NewParseError("parse SendingTime", lastErr)
}

// CheckSum computes the FIX checksum: the sum of all bytes modulo 256.
func CheckSum(data []byte) int {
	var sum int
	for _, b := range data {
		sum += int(b)
	}
	return sum % 256
}

// FormatCheckSum renders a checksum as the three-decimal-digit string FIX
// requires for tag 10.
func FormatCheckSum(sum int) string {
	return fmt.Sprintf("%03d", sum)
}
