// Copyright 2025 The go-fixengine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package session

import "time"

// heartbeat-window constants. These are the FIX convention values
// spec.md §4.5.2 requires preserving verbatim: 2.4x for the hard timeout,
// 1.2x for the soft TestRequest-escalation threshold.
const (
	timeoutMultiplier     = 2.4
	testRequestMultiplier = 1.2
)

// Tick runs the periodic state check spec.md §4.5.2 describes, in the
// exact ten-step order given there. Callers (typically a supervisor
// goroutine on a ticker) invoke this once per cadence for every session
// they own.
func (s *Session) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tickLocked()
}

func (s *Session) tickLocked() {
	// 1. If not Connected (no responder), return.
	if s.st.connection != Connected || s.responder == nil {
		return
	}

	now := s.now()

	// 2. If outside session time: initiator resets; acceptor also logs out.
	if !s.settings.Schedule.IsSessionTime(now) {
		if s.settings.Initiator {
			s.resetLocked("out of SessionTime")
		} else if s.st.loggedOn() {
			s.sendLocked(s.buildLogout("out of SessionTime"), true)
			s.disconnectLocked("out of SessionTime")
		}
		return
	}

	// 3. If IsNewSession(creationTime, now), reset sequence numbers.
	if s.settings.Schedule.IsNewSession(s.store.CreationTime(), now) {
		s.resetLocked("new session period")
		return
	}

	// 4. If !IsEnabled and currently LoggedOn and no logout sent, logout.
	if !s.st.enabled && s.st.loggedOn() && !s.st.sentLogout {
		s.sendLocked(s.buildLogout("session disabled"), true)
		return
	}

	// 5. If logon not yet received.
	if !s.st.receivedLogon {
		if s.settings.Initiator && !s.st.sentLogon {
			s.sendLocked(s.buildLogon(s.settings.ResetSeqNumFlag), true)
		} else if s.st.sentLogon && now.Sub(s.st.lastReceivedTime) > s.settings.LogonTimeout {
			s.disconnectLocked("timed out waiting for logon response")
		}
		return
	}

	// 6. Test mode: HeartBtInt == 0 disables the heartbeat/timeout machinery.
	if s.settings.HeartBtInt == 0 {
		return
	}
	heartBtInt := time.Duration(s.settings.HeartBtInt) * time.Second

	// 7. Logout sent, logout-timeout elapsed since LastSentTime: disconnect.
	if s.st.sentLogout && now.Sub(s.st.lastSentTime) > s.settings.LogoutTimeout {
		s.disconnectLocked("timed out waiting for logout")
		return
	}

	elapsedSinceReceive := now.Sub(s.st.lastReceivedTime)
	elapsedSinceSend := now.Sub(s.st.lastSentTime)

	// 8. Within heartbeat window on both directions: nothing to do.
	if elapsedSinceReceive < heartBtInt && elapsedSinceSend < heartBtInt {
		return
	}

	// 9. Hard timeout: 2.4x heartbeat interval since last receive.
	hardTimeout := time.Duration(float64(heartBtInt) * timeoutMultiplier)
	if elapsedSinceReceive >= hardTimeout {
		if s.settings.SendLogoutBeforeDisconnectFromTimeout {
			s.sendLocked(s.buildLogout("timed out waiting for heartbeat"), true)
		}
		s.disconnectLocked("timed out waiting for heartbeat")
		return
	}

	// 10. Soft timeout: escalating TestRequest, else a plain Heartbeat.
	softTimeout := time.Duration(float64(heartBtInt) * testRequestMultiplier * float64(s.st.testRequestCount+1))
	if elapsedSinceReceive >= softTimeout {
		s.st.testRequestCount++
		s.sendLocked(s.buildTestRequest("TEST"), true)
		return
	}
	if elapsedSinceSend >= heartBtInt && s.st.testRequestCount == 0 {
		s.sendLocked(s.buildHeartbeat(""), true)
	}
}
