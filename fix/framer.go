// Copyright 2025 The go-fixengine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fix

import (
	"strconv"
	"strings"
)

// Framer splits an incoming byte stream into complete, validated raw FIX
// message strings, per spec §4.1. It is incremental: Feed may be called
// with arbitrarily small chunks across arbitrary buffer boundaries, and
// Next is called in a loop to drain whatever complete messages are now
// available. On a malformed message it reports a recoverable parse error
// and resynchronizes by discarding bytes up to the next "8=".
type Framer struct {
	buf    []byte
	strict bool
}

// NewFramer returns an empty Framer that rejects a checksum mismatch as a
// parse error (ValidateLengthAndChecksum's default-true behavior).
func NewFramer() *Framer {
	return &Framer{strict: true}
}

// NewFramerWithValidation returns an empty Framer whose checksum handling
// is gated by validate, mirroring Settings.ValidateLengthAndChecksum: when
// false, a checksum mismatch is tolerated rather than treated as a framing
// error, since BodyLength must still be trusted to find the message
// boundary in either case.
func NewFramerWithValidation(validate bool) *Framer {
	return &Framer{strict: validate}
}

// Feed appends newly read bytes to the Framer's internal buffer.
func (f *Framer) Feed(data []byte) {
	f.buf = append(f.buf, data...)
}

// Next extracts the next complete message from the buffer, if any.
//
//   - (raw, nil, false): a complete, validated message was extracted.
//   - (nil, err, false): a malformed message was found and discarded; the
//     Framer has already resynchronized, so the caller should log err and
//     call Next again to keep draining the buffer.
//   - (nil, nil, true): no complete message is available yet; the caller
//     should Feed more bytes before calling Next again.
func (f *Framer) Next() (raw []byte, err error, needMore bool) {
	start := strings.Index(string(f.buf), "8=")
	if start < 0 {
		// keep at most one byte in case it's a partial "8" at the tail
		if len(f.buf) > 0 {
			f.buf = f.buf[len(f.buf)-1:]
		}
		return nil, nil, true
	}
	f.buf = f.buf[start:]

	// "9=" must immediately follow the "8=<BeginString><SOH>" field.
	firstSOH := indexByte(f.buf, SOH)
	if firstSOH < 0 {
		return nil, nil, true
	}
	const bodyLenPrefix = "9="
	if len(f.buf) < firstSOH+1+len(bodyLenPrefix) {
		return nil, nil, true
	}
	if string(f.buf[firstSOH+1:firstSOH+1+len(bodyLenPrefix)]) != bodyLenPrefix {
		f.resyncPastCurrentStart()
		return nil, NewParseError("expected 9=BodyLength immediately after BeginString", nil), false
	}

	secondSOH := indexByteFrom(f.buf, SOH, firstSOH+1)
	if secondSOH < 0 {
		if len(f.buf) > 4096 {
			f.resyncPastCurrentStart()
			return nil, NewParseError("BodyLength field too long", nil), false
		}
		return nil, nil, true
	}

	bodyLenStr := string(f.buf[firstSOH+1+len("9="):secondSOH])
	bodyLen, convErr := strconv.Atoi(bodyLenStr)
	if convErr != nil || bodyLen < 0 {
		f.resyncPastCurrentStart()
		return nil, NewParseError("malformed BodyLength "+bodyLenStr, convErr), false
	}

	bodyStart := secondSOH + 1
	bodyEnd := bodyStart + bodyLen
	if len(f.buf) < bodyEnd {
		return nil, nil, true
	}

	trailerStart := bodyEnd
	const trailerPrefix = "10="
	if len(f.buf) < trailerStart+len(trailerPrefix) {
		return nil, nil, true
	}
	if string(f.buf[trailerStart:trailerStart+len(trailerPrefix)]) != trailerPrefix {
		f.resyncPastCurrentStart()
		return nil, NewParseError("expected 10=CheckSum at computed BodyLength boundary", nil), false
	}

	checksumEnd := indexByteFrom(f.buf, SOH, trailerStart+len(trailerPrefix))
	if checksumEnd < 0 {
		if len(f.buf) > bodyEnd+16 {
			f.resyncPastCurrentStart()
			return nil, NewParseError("CheckSum field missing SOH terminator", nil), false
		}
		return nil, nil, true
	}

	msgEnd := checksumEnd + 1
	full := f.buf[:msgEnd]

	gotChecksumStr := string(f.buf[trailerStart+len(trailerPrefix) : checksumEnd])
	wantSum := CheckSum(f.buf[:trailerStart])
	if f.strict && gotChecksumStr != FormatCheckSum(wantSum) {
		f.buf = f.buf[msgEnd:]
		return nil, NewParseError("checksum mismatch: got "+gotChecksumStr+" want "+FormatCheckSum(wantSum), nil), false
	}

	out := append([]byte(nil), full...)
	f.buf = f.buf[msgEnd:]
	return out, nil, false
}

// resyncPastCurrentStart discards the current malformed candidate message
// by skipping its leading "8=" and searching for the next one.
func (f *Framer) resyncPastCurrentStart() {
	if len(f.buf) >= 2 {
		f.buf = f.buf[2:]
	}
}

func indexByte(b []byte, c byte) int {
	for i, v := range b {
		if v == c {
			return i
		}
	}
	return -1
}

func indexByteFrom(b []byte, c byte, from int) int {
	if from >= len(b) {
		return -1
	}
	rel := indexByte(b[from:], c)
	if rel < 0 {
		return -1
	}
	return from + rel
}

// DetectMessageEnd is the lightweight boundary scanner spec §4.1 describes
// separately from the full Framer: given a buffer known to start at a
// message's "8=", it locates "<SOH>10=" and consumes the four checksum
// bytes ("XXX" + SOH) without validating BodyLength or the checksum value,
// returning the exclusive end offset of the candidate message.
func DetectMessageEnd(buf []byte) (end int, ok bool) {
	marker := string(SOH) + "10="
	idx := strings.Index(string(buf), marker)
	if idx < 0 {
		return 0, false
	}
	csStart := idx + len(marker)
	if len(buf) < csStart+4 {
		return 0, false
	}
	if buf[csStart+3] != SOH {
		return 0, false
	}
	return csStart + 4, true
}
