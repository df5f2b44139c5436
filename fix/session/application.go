// Copyright 2025 The go-fixengine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package session

import (
	"errors"

	"github.com/destiny/fixengine/fix"
)

// ErrDoNotSend is returned by Application.ToApp to veto a single outbound
// application message. It is not a failure: spec.md §7 classes it as
// "silently suppresses a single message; not an error".
var ErrDoNotSend = errors.New("fix/session: application vetoed send")

// ErrRejectLogon is returned by Application.FromAdmin while processing an
// inbound Logon to force a Logout-then-disconnect with the given reason,
// spec.md §6's "RejectLogon from FromAdmin during Logon".
type ErrRejectLogon struct{ Reason string }

func (e *ErrRejectLogon) Error() string { return "fix/session: logon rejected: " + e.Reason }

// Application is the user-code callback surface spec.md §6 names. A nil
// Application is valid: every callback is optional and no-ops when absent.
type Application interface {
	// OnCreate fires once, from New, when the Session is constructed.
	OnCreate(id fix.SessionID)
	// OnLogon fires when the logon handshake completes in both directions.
	OnLogon(id fix.SessionID)
	// OnLogout fires when the session drops out of the logged-on state.
	OnLogout(id fix.SessionID)
	// ToAdmin fires immediately before an administrative message is sent;
	// it may mutate msg in place (e.g. to add a custom tag).
	ToAdmin(msg *fix.Message, id fix.SessionID)
	// FromAdmin fires after Verify succeeds for an inbound administrative
	// message. Returning *ErrRejectLogon during Logon processing triggers
	// Logout-then-disconnect with that reason.
	FromAdmin(msg *fix.Message, id fix.SessionID) error
	// ToApp fires immediately before an application message is sent.
	// Returning ErrDoNotSend aborts the send without an error escaping the
	// caller.
	ToApp(msg *fix.Message, id fix.SessionID) error
	// FromApp fires after Verify succeeds for an inbound application
	// message.
	FromApp(msg *fix.Message, id fix.SessionID) error
}

// NopApplication implements Application with every callback a no-op; it is
// the zero value a Session falls back to when constructed with a nil
// Application.
type NopApplication struct{}

func (NopApplication) OnCreate(fix.SessionID)                        {}
func (NopApplication) OnLogon(fix.SessionID)                         {}
func (NopApplication) OnLogout(fix.SessionID)                        {}
func (NopApplication) ToAdmin(*fix.Message, fix.SessionID)           {}
func (NopApplication) FromAdmin(*fix.Message, fix.SessionID) error   { return nil }
func (NopApplication) ToApp(*fix.Message, fix.SessionID) error       { return nil }
func (NopApplication) FromApp(*fix.Message, fix.SessionID) error     { return nil }
