// Copyright 2025 The go-fixengine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package session

import (
	"time"

	"github.com/destiny/fixengine/fix"
	"github.com/destiny/fixengine/fix/internal/clock"
	"github.com/destiny/fixengine/fix/internal/logx"
	"github.com/destiny/fixengine/fix/schedule"
)

// Settings bundles the per-session configuration spec.md §4 names
// (SessionSettings). Everything here has a field in the struct rather than
// an INI-style key-value bag: no config-file parser ships with this
// package (spec.md Non-goals), so Settings is built with struct literals
// and Option values instead.
type Settings struct {
	ID SessionID

	HeartBtInt int // seconds; 0 means test mode (spec.md §4.5.2 step 6)

	Initiator bool // true: this side logs on first

	PersistMessages                       bool
	ValidateLengthAndChecksum             bool
	CheckCompID                           bool
	SendRedundantResendRequests           bool
	ResendSessionLevelRejects             bool
	IgnorePossDupResendRequests           bool
	RequiresOrigSendingTime               bool
	EnableLastMsgSeqNumProcessed          bool
	SendLogoutBeforeDisconnectFromTimeout bool
	TimeStampPrecision                    fix.TimePrecision
	MaxMessagesInResendRequest            int

	CheckLatency bool
	MaxLatency   int // seconds; spec.md §6, default 120

	ResetOnLogon   bool
	ResetSeqNumFlag bool // default outbound behavior; inbound overrides per-Logon
	RefreshOnLogon bool

	LogonTimeout  time.Duration
	LogoutTimeout time.Duration

	Schedule *schedule.Schedule

	Dictionary Validator

	Clock  clock.Clock
	Logger *logx.Logger
}

// Validator is the DataDictionary seam: session code depends on this
// interface, not the concrete dictionary package, so a session can run
// undictionaried (nil) when spec.md's UseDataDictionary is false.
type Validator interface {
	Validate(msg *fix.Message) error
}

// SessionID aliases fix.SessionID so callers of this package don't need a
// second import for the identity tuple.
type SessionID = fix.SessionID

// DefaultSettings returns a Settings with the FIX-convention defaults
// spec.md §4 lists: PersistMessages, ValidateLengthAndChecksum and
// CheckLatency true (MaxLatency 120s), everything else off, 30s heartbeat,
// 10s logon/logout timeouts.
func DefaultSettings(id SessionID) *Settings {
	return &Settings{
		ID:                        id,
		HeartBtInt:                30,
		PersistMessages:           true,
		ValidateLengthAndChecksum: true,
		CheckLatency:              true,
		MaxLatency:                120,
		TimeStampPrecision:        fix.PrecisionMilliseconds,
		LogonTimeout:              10 * time.Second,
		LogoutTimeout:             10 * time.Second,
		Schedule:                  schedule.New(time.UTC),
		Clock:                     clock.Real{},
		Logger:                    logx.Default,
	}
}

// Option configures a Settings value (the functional-option pattern).
type Option func(s *Settings)

// WithInitiator marks the session as the side that logs on first.
func WithInitiator() Option {
	return func(s *Settings) { s.Initiator = true }
}

// WithHeartBtInt sets the heartbeat interval in seconds.
func WithHeartBtInt(seconds int) Option {
	return func(s *Settings) { s.HeartBtInt = seconds }
}

// WithResetOnLogon enables ResetOnLogon (non-initiator reset-on-every-logon).
func WithResetOnLogon() Option {
	return func(s *Settings) { s.ResetOnLogon = true }
}

// WithResetSeqNumFlag makes outbound Logon carry ResetSeqNumFlag=Y.
func WithResetSeqNumFlag() Option {
	return func(s *Settings) { s.ResetSeqNumFlag = true }
}

// WithRefreshOnLogon enables a MessageStore.Refresh() call on every Logon.
func WithRefreshOnLogon() Option {
	return func(s *Settings) { s.RefreshOnLogon = true }
}

// WithCheckCompID enables CompID verification against the SessionID.
func WithCheckCompID() Option {
	return func(s *Settings) { s.CheckCompID = true }
}

// WithMaxMessagesInResendRequest caps the size of a single ResendRequest
// chunk; 0 (the default) means request the whole outstanding range at once.
func WithMaxMessagesInResendRequest(n int) Option {
	return func(s *Settings) { s.MaxMessagesInResendRequest = n }
}

// WithCheckLatency toggles SendingTime accuracy checking.
func WithCheckLatency(enabled bool) Option {
	return func(s *Settings) { s.CheckLatency = enabled }
}

// WithMaxLatency sets the SendingTime accuracy window, in seconds.
func WithMaxLatency(seconds int) Option {
	return func(s *Settings) { s.MaxLatency = seconds }
}

// WithSchedule sets the SessionSchedule governing IsSessionTime/IsNewSession.
func WithSchedule(sch *schedule.Schedule) Option {
	return func(s *Settings) { s.Schedule = sch }
}

// WithDictionary attaches a DataDictionary validator.
func WithDictionary(v Validator) Option {
	return func(s *Settings) { s.Dictionary = v }
}

// WithClock overrides the injectable time source; tests use this to install
// a clock.Mock.
func WithClock(c clock.Clock) Option {
	return func(s *Settings) { s.Clock = c }
}

// WithLogger overrides the session's logger.
func WithLogger(l *logx.Logger) Option {
	return func(s *Settings) { s.Logger = l }
}

// WithLogonTimeout overrides how long the engine waits for the peer's Logon
// response before disconnecting.
func WithLogonTimeout(d time.Duration) Option {
	return func(s *Settings) { s.LogonTimeout = d }
}

// WithLogoutTimeout overrides how long the engine waits for the transport
// to close after sending Logout before forcing a disconnect.
func WithLogoutTimeout(d time.Duration) Option {
	return func(s *Settings) { s.LogoutTimeout = d }
}

// NewSettings returns DefaultSettings(id) with opts applied.
func NewSettings(id SessionID, opts ...Option) *Settings {
	s := DefaultSettings(id)
	for _, opt := range opts {
		opt(s)
	}
	return s
}
