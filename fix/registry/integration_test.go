// Copyright 2025 The go-fixengine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package registry

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/destiny/fixengine/fix"
	"github.com/destiny/fixengine/fix/session"
	"github.com/destiny/fixengine/fix/store"
	"github.com/destiny/fixengine/internal/testutil"
)

// TestInitiatorAcceptorLogonHandshake wires a real Initiator against a real
// Acceptor over a loopback TCP listener and confirms both sides reach a
// logged-on Connected state, exercising the full dial/accept/Tick/OnMessage
// path rather than driving Session methods directly.
func TestInitiatorAcceptorLogonHandshake(t *testing.T) {
	acceptorID := fix.SessionID{BeginString: fix.BeginStringFIX44, SenderCompID: "ACCEPTOR", TargetCompID: "INITIATOR"}
	initiatorID := acceptorID.Reversed()

	acceptorSession := session.New(
		session.NewSettings(acceptorID, session.WithHeartBtInt(1)),
		store.NewMemoryStore(time.Now),
		nil,
	)
	initiatorSession := session.New(
		session.NewSettings(initiatorID, session.WithInitiator(), session.WithHeartBtInt(1)),
		store.NewMemoryStore(time.Now),
		nil,
	)

	acceptorRegistry := New()
	acceptorRegistry.Add(acceptorSession)

	initiatorRegistry := New()
	initiatorRegistry.Add(initiatorSession)

	listener, err := testutil.LoopbackListener()
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := listener.Addr().String()

	acceptor := &Acceptor{Registry: acceptorRegistry, Listener: listener, TickInterval: 20 * time.Millisecond}
	initiator := &Initiator{
		Registry:          initiatorRegistry,
		TickInterval:      20 * time.Millisecond,
		ReconnectInterval: 20 * time.Millisecond,
		Dial: func(ctx context.Context, id fix.SessionID) (net.Conn, error) {
			return net.Dial("tcp", addr)
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go acceptor.Run(ctx)
	go initiator.Run(ctx)

	testutil.WaitWithTimeout(t, func() bool {
		return acceptorSession.GetDetails().LoggedOn && initiatorSession.GetDetails().LoggedOn
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, session.Connected, acceptorSession.GetDetails().ConnectionState)
	assert.Equal(t, session.Connected, initiatorSession.GetDetails().ConnectionState)
}
