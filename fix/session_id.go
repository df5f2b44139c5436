// Copyright 2025 The go-fixengine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fix

import "strings"

// SessionID is the immutable identity tuple that routes inbound connections
// and outbound messages to a Session. Two SessionIDs are equal iff every
// field matches; empty optional fields participate in equality like any
// other field.
type SessionID struct {
	BeginString      string
	SenderCompID     string
	SenderSubID      string
	SenderLocationID string
	TargetCompID     string
	TargetSubID      string
	TargetLocationID string
	Qualifier        string
}

// String renders the SessionID as a colon-separated key, stable and
// suitable for use as a map key's String() form in logs.
func (id SessionID) String() string {
	var b strings.Builder
	b.WriteString(id.BeginString)
	b.WriteByte(':')
	b.WriteString(id.senderID())
	b.WriteString("->")
	b.WriteString(id.targetID())
	if id.Qualifier != "" {
		b.WriteByte(':')
		b.WriteString(id.Qualifier)
	}
	return b.String()
}

func (id SessionID) senderID() string {
	return compID(id.SenderCompID, id.SenderSubID, id.SenderLocationID)
}

func (id SessionID) targetID() string {
	return compID(id.TargetCompID, id.TargetSubID, id.TargetLocationID)
}

func compID(comp, sub, loc string) string {
	s := comp
	if sub != "" {
		s += "/" + sub
	}
	if loc != "" {
		s += "/" + loc
	}
	return s
}

// Reversed returns the SessionID as seen from the counterparty: sender and
// target fields are swapped. The acceptor uses this to derive the
// SessionID it should look up for an inbound connection from the peer's
// own Logon header.
func (id SessionID) Reversed() SessionID {
	return SessionID{
		BeginString:      id.BeginString,
		SenderCompID:     id.TargetCompID,
		SenderSubID:      id.TargetSubID,
		SenderLocationID: id.TargetLocationID,
		TargetCompID:     id.SenderCompID,
		TargetSubID:      id.SenderSubID,
		TargetLocationID: id.SenderLocationID,
		Qualifier:        id.Qualifier,
	}
}

// IsFIXT reports whether BeginString is the FIXT.1.1 transport version,
// which requires a DefaultApplVerID and an application dictionary distinct
// from the transport dictionary.
func (id SessionID) IsFIXT() bool {
	return id.BeginString == BeginStringFIXT11
}
