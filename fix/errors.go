// Copyright 2025 The go-fixengine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fix

import (
	"errors"
	"fmt"
)

// ErrKind discriminates the error kinds described in spec §7: some are
// recoverable/reportable (the session stays up), others are protocol-fatal
// (the session disconnects). Callers that need to branch on outcome should
// errors.As into *Error and switch on Kind rather than matching strings.
type ErrKind int

const (
	// ErrKindParse marks a recoverable framing/parse failure; the framer
	// resyncs and continues.
	ErrKindParse ErrKind = iota
	// ErrKindDictionary marks a tag/type/order validation failure; the
	// session emits a session-level Reject and stays connected.
	ErrKindDictionary
	// ErrKindProtocolFatal marks a violation that forces Logout+disconnect
	// (bad CompID, bad SendingTime, unsupported BeginString, sequence too
	// low without PossDupFlag).
	ErrKindProtocolFatal
	// ErrKindConfiguration marks a construction-time configuration error.
	ErrKindConfiguration
	// ErrKindDisposed marks an operation attempted against a removed or
	// shut-down session.
	ErrKindDisposed
	// ErrKindTransport marks an I/O failure on the underlying byte stream.
	ErrKindTransport
)

func (k ErrKind) String() string {
	switch k {
	case ErrKindParse:
		return "parse"
	case ErrKindDictionary:
		return "dictionary"
	case ErrKindProtocolFatal:
		return "protocol-fatal"
	case ErrKindConfiguration:
		return "configuration"
	case ErrKindDisposed:
		return "disposed"
	case ErrKindTransport:
		return "transport"
	default:
		return "unknown"
	}
}

// Error is the engine's tagged error type. Cause may be nil; when it is
// set, Unwrap exposes it so errors.Is/errors.As continue to work through it.
type Error struct {
	Kind  ErrKind
	Msg   string
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fix: %s: %s: %v", e.Kind, e.Msg, e.Cause)
	}
	return fmt.Sprintf("fix: %s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Cause }

// newError builds a *Error of the given kind, optionally wrapping cause.
func newError(kind ErrKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Msg: msg, Cause: cause}
}

// NewParseError reports a recoverable framing/parse failure.
func NewParseError(msg string, cause error) *Error {
	return newError(ErrKindParse, msg, cause)
}

// NewDictionaryError reports a tag/type/order validation failure.
func NewDictionaryError(msg string, cause error) *Error {
	return newError(ErrKindDictionary, msg, cause)
}

// NewProtocolFatalError reports a violation that forces Logout+disconnect.
func NewProtocolFatalError(msg string, cause error) *Error {
	return newError(ErrKindProtocolFatal, msg, cause)
}

// NewConfigurationError reports a construction-time configuration error.
func NewConfigurationError(msg string, cause error) *Error {
	return newError(ErrKindConfiguration, msg, cause)
}

// NewDisposedError reports an operation attempted against a removed session.
func NewDisposedError(msg string) *Error {
	return newError(ErrKindDisposed, msg, nil)
}

// NewTransportError reports an I/O failure on the underlying byte stream.
func NewTransportError(msg string, cause error) *Error {
	return newError(ErrKindTransport, msg, cause)
}

// Sentinel errors for conditions that do not carry extra context.
var (
	ErrFieldNotFound       = errors.New("fix: field not found")
	ErrSessionNotFound     = errors.New("fix: session not found")
	ErrDuplicateConnection = errors.New("fix: session already has a responder")
	ErrSessionDisposed     = errors.New("fix: session disposed")
	ErrNoResponder         = errors.New("fix: no responder attached")
)
