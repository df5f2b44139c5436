// Copyright 2025 The go-fixengine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Example FIX initiator: dials a configured acceptor, logs on, and sends a
// heartbeat-only session with no application traffic.
package main

import (
	"context"
	"flag"
	"log"
	"net"
	"os"
	"os/signal"
	"time"

	"github.com/destiny/fixengine/fix"
	"github.com/destiny/fixengine/fix/registry"
	"github.com/destiny/fixengine/fix/session"
	"github.com/destiny/fixengine/fix/store"
)

type loggingApp struct{}

func (loggingApp) OnCreate(id fix.SessionID) { log.Printf("session %s created", id) }
func (loggingApp) OnLogon(id fix.SessionID)  { log.Printf("session %s logged on", id) }
func (loggingApp) OnLogout(id fix.SessionID) { log.Printf("session %s logged out", id) }
func (loggingApp) ToAdmin(*fix.Message, fix.SessionID) {}
func (loggingApp) FromAdmin(*fix.Message, fix.SessionID) error { return nil }
func (loggingApp) ToApp(*fix.Message, fix.SessionID) error     { return nil }
func (loggingApp) FromApp(msg *fix.Message, id fix.SessionID) error {
	log.Printf("session %s received app message: %s", id, msg.MsgType())
	return nil
}

func main() {
	addr := flag.String("addr", "127.0.0.1:5001", "acceptor address")
	senderCompID := flag.String("sender", "INITIATOR", "our CompID")
	targetCompID := flag.String("target", "ACCEPTOR", "peer CompID")
	heartBtInt := flag.Int("heartbeat", 30, "heartbeat interval in seconds")
	flag.Parse()

	id := fix.SessionID{BeginString: fix.BeginStringFIX44, SenderCompID: *senderCompID, TargetCompID: *targetCompID}
	sess := session.New(
		session.NewSettings(id, session.WithInitiator(), session.WithHeartBtInt(*heartBtInt), session.WithCheckCompID()),
		store.NewMemoryStore(time.Now),
		loggingApp{},
	)

	reg := registry.New()
	reg.Add(sess)

	initiator := &registry.Initiator{
		Registry:          reg,
		ReconnectInterval: 5 * time.Second,
		TickInterval:      time.Second,
		Dial: func(ctx context.Context, id fix.SessionID) (net.Conn, error) {
			var d net.Dialer
			return d.DialContext(ctx, "tcp", *addr)
		},
	}

	log.Printf("dialing %s for session %s", *addr, id)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := initiator.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatalf("initiator: %v", err)
	}
}
