// Copyright 2025 The go-fixengine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package testutil provides test helpers for session and registry tests:
// loopback listeners/dialers for Initiator/Acceptor integration tests, and
// a jittered message generator/tracker for the gap-recovery and resend
// scenarios.
package testutil

import (
	"fmt"
	"net"
	"sync/atomic"
	"time"
)

var portCounter int64 = 20000

// GetAvailablePort returns a TCP port free for binding, starting from a
// rolling base so concurrent tests don't collide.
func GetAvailablePort() (int, error) {
	base := atomic.AddInt64(&portCounter, 1)
	for i := 0; i < 100; i++ {
		port := int(base) + i
		if port > 65535 {
			port = 20000 + (port % 45535)
		}
		if isPortAvailable(port) {
			return port, nil
		}
	}
	return 0, fmt.Errorf("no available ports found in range")
}

func isPortAvailable(port int) bool {
	l, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		return false
	}
	l.Close()
	return true
}

// GetTestEndpoint returns a "127.0.0.1:<port>" address on a free port.
func GetTestEndpoint() (string, error) {
	port, err := GetAvailablePort()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("127.0.0.1:%d", port), nil
}

// WaitForConnection polls addr until a TCP dial succeeds or timeout elapses.
func WaitForConnection(addr string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		conn, err := net.Dial("tcp", addr)
		if err == nil {
			conn.Close()
			return nil
		}
		time.Sleep(20 * time.Millisecond)
	}
	return fmt.Errorf("connection timeout for %s", addr)
}

// LoopbackListener starts a TCP listener on a free loopback port for use by
// an Acceptor under test. The caller is responsible for closing it.
func LoopbackListener() (net.Listener, error) {
	return net.Listen("tcp", "127.0.0.1:0")
}

// LoopbackPair returns two ends of an in-memory, full-duplex connection
// (via net.Pipe) for tests that want to drive a session's pump directly
// without going through a real TCP listener.
func LoopbackPair() (net.Conn, net.Conn) {
	return net.Pipe()
}
