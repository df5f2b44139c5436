// Copyright 2025 The go-fixengine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fix

import (
	"strconv"
	"strings"
)

// headerTags classifies which tags belong in Header rather than Body when
// parsing a raw message. Tags for repeating groups and business content
// always land in Body as flat scalars; ParseMessage never nests them into
// Group instances (BuildGroupAwareFieldMap does, from a RawField sequence).
var headerTags = map[Tag]bool{
	TagBeginString:            true,
	TagBodyLength:             true,
	TagMsgType:                true,
	TagSenderCompID:           true,
	TagSenderSubID:            true,
	TagSenderLocationID:       true,
	TagTargetCompID:           true,
	TagTargetSubID:            true,
	TagTargetLocationID:       true,
	TagMsgSeqNum:              true,
	TagPossDupFlag:            true,
	TagPossResend:             true,
	TagSendingTime:            true,
	TagOrigSendingTime:        true,
	TagLastMsgSeqNumProcessed: true,
}

var trailerTags = map[Tag]bool{
	TagCheckSum: true,
}

// RawField is a single tag=value pair as it appeared on the wire, before
// any header/body/trailer or repeating-group classification.
type RawField struct {
	Tag   Tag
	Value string
}

// SplitFields scans an SOH-delimited tag=value byte stream into RawFields,
// in wire order. A FieldMap cannot hold a tag more than once outside a
// repeating group, so callers that need group-aware parsing must work from
// this raw sequence directly (see BuildGroupAwareFieldMap) rather than from
// an already-built FieldMap, which would have silently overwritten repeated
// tags.
func SplitFields(raw []byte) ([]RawField, error) {
	s := string(raw)
	var fields []RawField
	for len(s) > 0 {
		eq := strings.IndexByte(s, '=')
		if eq < 0 {
			return nil, NewParseError("field missing '='", nil)
		}
		tagStr := s[:eq]
		n, err := strconv.Atoi(tagStr)
		if err != nil {
			return nil, NewParseError("non-numeric tag "+tagStr, err)
		}
		rest := s[eq+1:]
		sohPos := strings.IndexByte(rest, SOH)
		if sohPos < 0 {
			return nil, NewParseError("field missing SOH terminator", nil)
		}
		fields = append(fields, RawField{Tag: Tag(n), Value: rest[:sohPos]})
		s = rest[sohPos+1:]
	}
	return fields, nil
}

// ParseMessage splits a single raw FIX message (as produced by the Framer)
// into tag=value pairs and partitions them into Header, Body and Trailer.
// It does not itself validate BodyLength/CheckSum — Framer.Next already
// did that — nor does it reconstruct repeating groups, which requires
// dictionary knowledge of each MsgType's group templates (see
// BuildGroupAwareFieldMap; neither ParseMessage nor the DataDictionary
// validator calls it).
func ParseMessage(raw []byte) (*Message, error) {
	m := NewMessage()
	m.raw = append([]byte(nil), raw...)

	fields, err := SplitFields(raw)
	if err != nil {
		return nil, err
	}
	for _, f := range fields {
		switch {
		case trailerTags[f.Tag]:
			m.Trailer.Set(f.Tag, f.Value)
		case headerTags[f.Tag]:
			m.Header.Set(f.Tag, f.Value)
		default:
			m.Body.Set(f.Tag, f.Value)
		}
	}
	return m, nil
}

// GroupSpec declares one repeating group a MsgType may carry: countTag is
// the NoXxx field, Template is the group's declared field order with the
// delimiter tag (the one that marks the start of each new instance) first.
type GroupSpec struct {
	CountTag Tag
	Template []Tag
}

// BuildGroupAwareFieldMap builds a FieldMap from a flat RawField sequence
// (typically a Message.Body's fields, re-split from Message.RawMessage via
// SplitFields and filtered to non-header/trailer tags), recognizing the
// declared groups and nesting their instances instead of overwriting
// repeated tags. Fields not covered by any group are set as plain scalars
// in their original order.
func BuildGroupAwareFieldMap(fields []RawField, groups []GroupSpec) (*FieldMap, error) {
	fm := NewFieldMap()

	delimToSpec := make(map[Tag]GroupSpec, len(groups))
	memberOf := make(map[Tag]Tag) // group member tag -> delimiter tag
	for _, g := range groups {
		delimToSpec[g.Template[0]] = g
		for _, t := range g.Template {
			memberOf[t] = g.Template[0]
		}
	}

	var activeDelim Tag
	var activeGroup *Group
	flushActive := func() {
		if activeGroup != nil {
			spec := delimToSpec[activeDelim]
			fm.AddGroup(spec.CountTag, activeGroup)
			activeGroup = nil
		}
	}

	for _, f := range fields {
		if spec, isDelim := delimToSpec[f.Tag]; isDelim {
			flushActive()
			activeDelim = f.Tag
			activeGroup = NewGroup(spec.Template)
			activeGroup.Set(f.Tag, f.Value)
			continue
		}
		if groupDelim, inGroup := memberOf[f.Tag]; inGroup {
			if activeGroup == nil || activeDelim != groupDelim {
				return nil, NewDictionaryError("group field out of order", nil)
			}
			activeGroup.Set(f.Tag, f.Value)
			continue
		}
		flushActive()
		fm.Set(f.Tag, f.Value)
	}
	flushActive()

	for _, g := range groups {
		if got := fm.GroupCount(g.Template[0]); got != countFieldValue(fields, g.CountTag) {
			return nil, NewDictionaryError("group count does not match declared NoXxx", nil)
		}
	}

	return fm, nil
}

func countFieldValue(fields []RawField, countTag Tag) int {
	for _, f := range fields {
		if f.Tag == countTag {
			n, err := strconv.Atoi(f.Value)
			if err != nil {
				return -1
			}
			return n
		}
	}
	return 0
}
