// Copyright 2025 The go-fixengine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fix

// Tag identifies a FIX field by its numeric tag.
type Tag int

// Header, trailer and commonly referenced session-layer tags.
const (
	TagBeginString            Tag = 8
	TagBodyLength             Tag = 9
	TagCheckSum               Tag = 10
	TagMsgType                Tag = 35
	TagMsgSeqNum              Tag = 34
	TagSenderCompID           Tag = 49
	TagSenderSubID            Tag = 50
	TagSenderLocationID       Tag = 142
	TagTargetCompID           Tag = 56
	TagTargetSubID            Tag = 57
	TagTargetLocationID       Tag = 143
	TagSendingTime            Tag = 52
	TagOrigSendingTime        Tag = 122
	TagPossDupFlag            Tag = 43
	TagPossResend             Tag = 97
	TagEncryptMethod          Tag = 98
	TagHeartBtInt             Tag = 108
	TagTestReqID              Tag = 112
	TagResetSeqNumFlag        Tag = 141
	TagBeginSeqNo             Tag = 7
	TagEndSeqNo               Tag = 16
	TagNewSeqNo               Tag = 36
	TagGapFillFlag            Tag = 123
	TagRefSeqNum              Tag = 45
	TagRefTagID               Tag = 371
	TagRefMsgType             Tag = 372
	TagSessionRejectReason    Tag = 373
	TagText                   Tag = 58
	TagDefaultApplVerID       Tag = 1137
	TagLastMsgSeqNumProcessed Tag = 369
)

// MsgType values for admin (session-level) messages.
const (
	MsgTypeHeartbeat     = "0"
	MsgTypeTestRequest   = "1"
	MsgTypeResendRequest = "2"
	MsgTypeReject        = "3"
	MsgTypeSequenceReset = "4"
	MsgTypeLogout        = "5"
	MsgTypeLogon         = "A"
)

// IsAdminMsgType reports whether msgType is one of the seven session-level
// (administrative) message types.
func IsAdminMsgType(msgType string) bool {
	switch msgType {
	case MsgTypeHeartbeat, MsgTypeTestRequest, MsgTypeResendRequest,
		MsgTypeReject, MsgTypeSequenceReset, MsgTypeLogout, MsgTypeLogon:
		return true
	default:
		return false
	}
}

// SessionRejectReason enumerates tag 373 values used by session-level
// Reject (MsgType 3) messages.
type SessionRejectReason int

const (
	RejectInvalidTagNumber           SessionRejectReason = 0
	RejectRequiredTagMissing         SessionRejectReason = 1
	RejectTagNotDefinedForMsgType    SessionRejectReason = 2
	RejectUndefinedTag               SessionRejectReason = 3
	RejectTagSpecifiedWithoutValue   SessionRejectReason = 4
	RejectValueIncorrect             SessionRejectReason = 5
	RejectIncorrectDataFormat        SessionRejectReason = 6
	RejectDecryptionProblem          SessionRejectReason = 7
	RejectSignatureProblem           SessionRejectReason = 8
	RejectCompIDProblem              SessionRejectReason = 9
	RejectSendingTimeAccuracyProblem SessionRejectReason = 10
	RejectInvalidMsgType             SessionRejectReason = 11
	RejectTagAppearsMoreThanOnce     SessionRejectReason = 13
	RejectTagOutOfOrder              SessionRejectReason = 14
	RejectRepeatingGroupFieldsOutOfOrder SessionRejectReason = 15
	RejectIncorrectNumInGroupCount   SessionRejectReason = 16
	RejectOther                      SessionRejectReason = 99
)

// BeginString values recognized by the engine.
const (
	BeginStringFIX40  = "FIX.4.0"
	BeginStringFIX41  = "FIX.4.1"
	BeginStringFIX42  = "FIX.4.2"
	BeginStringFIX43  = "FIX.4.3"
	BeginStringFIX44  = "FIX.4.4"
	BeginStringFIXT11 = "FIXT.1.1"
)

// SupportsSubSecondTimestamps reports whether beginString allows SendingTime
// precision finer than whole seconds (FIX >= 4.2, and FIXT.1.1).
func SupportsSubSecondTimestamps(beginString string) bool {
	switch beginString {
	case BeginStringFIX40, BeginStringFIX41:
		return false
	default:
		return true
	}
}

// UsesInfiniteEndSeqNo reports whether beginString represents an outstanding
// ResendRequest's open end with EndSeqNo=0 (>=4.2) or the legacy 999999
// sentinel (<=4.1).
func UsesInfiniteEndSeqNo(beginString string) bool {
	switch beginString {
	case BeginStringFIX40, BeginStringFIX41:
		return false
	default:
		return true
	}
}

// LegacyInfiniteEndSeqNo is the sentinel used by FIX.4.0/4.1 in place of
// EndSeqNo=0 to mean "resend through the current end of the stream".
const LegacyInfiniteEndSeqNo = 999999
