// Copyright 2025 The go-fixengine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fix

import (
	"bytes"
	"strconv"
)

// headerOrder is the configured tag order spec §4.2 requires header fields
// to serialize in. BodyLength is written by Build itself, immediately
// after BeginString, once the body is known; it never comes from this list.
var headerOrder = []Tag{
	TagBeginString,
	TagMsgType,
	TagSenderCompID,
	TagTargetCompID,
	TagMsgSeqNum,
	TagSenderSubID,
	TagSenderLocationID,
	TagTargetSubID,
	TagTargetLocationID,
	TagPossDupFlag,
	TagPossResend,
	TagSendingTime,
	TagOrigSendingTime,
}

// Message is the ordered Header/Body/Trailer triple spec §3 describes. A
// freshly parsed Message also retains the exact raw bytes it came from
// (RawMessage). Resend servicing does not use them: it re-serializes the
// parsed message with Build.
type Message struct {
	Header  *FieldMap
	Body    *FieldMap
	Trailer *FieldMap

	raw []byte
}

// NewMessage returns an empty Message with initialized Header/Body/Trailer.
func NewMessage() *Message {
	return &Message{Header: NewFieldMap(), Body: NewFieldMap(), Trailer: NewFieldMap()}
}

// MsgType returns the value of header tag 35, or "" if absent.
func (m *Message) MsgType() string {
	return m.Header.GetFieldDefault(TagMsgType, "")
}

// IsAdmin reports whether this message's MsgType is one of the seven
// session-level types.
func (m *Message) IsAdmin() bool {
	return IsAdminMsgType(m.MsgType())
}

// RawMessage returns the exact bytes this Message was parsed from, or nil
// for a Message built in memory and never parsed.
func (m *Message) RawMessage() []byte {
	return m.raw
}

// Build serializes the message to wire bytes, computing BodyLength and
// CheckSum as specified in §3: BodyLength counts bytes from just after
// "9=<n><SOH>" through the SOH preceding "10="; CheckSum sums every
// preceding byte modulo 256.
func (m *Message) Build() []byte {
	beginString := m.Header.GetFieldDefault(TagBeginString, "")

	var rest bytes.Buffer
	writeFieldMap(&rest, m.Header, headerOrder, map[Tag]bool{TagBeginString: true, TagBodyLength: true})
	writeFieldMap(&rest, m.Body, nil, nil)
	writeFieldMap(&rest, m.Trailer, nil, map[Tag]bool{TagCheckSum: true})

	var out bytes.Buffer
	writeField(&out, TagBeginString, beginString)
	writeField(&out, TagBodyLength, strconv.Itoa(rest.Len()))
	out.Write(rest.Bytes())

	sum := CheckSum(out.Bytes())
	writeField(&out, TagCheckSum, FormatCheckSum(sum))

	return out.Bytes()
}

func writeField(buf *bytes.Buffer, tag Tag, value string) {
	buf.WriteString(strconv.Itoa(int(tag)))
	buf.WriteByte('=')
	buf.WriteString(value)
	buf.WriteByte(SOH)
}

// writeFieldMap appends fm's fields to buf: forcedOrder tags first (if
// present and not skipped), then the remainder of fm's entries (scalars and
// repeating groups) in insertion order.
func writeFieldMap(buf *bytes.Buffer, fm *FieldMap, forcedOrder []Tag, skip map[Tag]bool) {
	if fm == nil {
		return
	}
	written := make(map[Tag]bool, len(forcedOrder))
	for _, tag := range forcedOrder {
		if skip[tag] {
			continue
		}
		if v, ok := fm.values[tag]; ok {
			writeField(buf, tag, v)
			written[tag] = true
		}
	}
	for _, e := range fm.order {
		if e.isGroup {
			instances := fm.groups[e.tag]
			writeField(buf, e.tag, strconv.Itoa(len(instances)))
			for _, inst := range instances {
				writeFieldMap(buf, inst.FieldMap, nil, nil)
			}
			continue
		}
		if written[e.tag] || skip[e.tag] {
			continue
		}
		if v, ok := fm.values[e.tag]; ok {
			writeField(buf, e.tag, v)
		}
	}
}
