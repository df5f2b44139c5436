// Copyright 2025 The go-fixengine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Example FIX acceptor: listens on a TCP port and logs every application
// message received on a single configured session.
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
	addr := flag.String("addr", "127.0.0.1:5001", "listen address")
	senderCompID := flag.String("sender", "ACCEPTOR", "our CompID")
	targetCompID := flag.String("target", "INITIATOR", "peer CompID")
	heartBtInt := flag.Int("heartbeat", 30, "heartbeat interval in seconds")
	flag.Parse()

	id := fix.SessionID{BeginString: fix.BeginStringFIX44, SenderCompID: *senderCompID, TargetCompID: *targetCompID}
	sess := session.New(
		session.NewSettings(id, session.WithHeartBtInt(*heartBtInt), session.WithCheckCompID()),
		store.NewMemoryStore(time.Now),
		loggingApp{},
	)

	reg := registry.New()
	reg.Add(sess)

	listener, err := net.Listen("tcp", *addr)
	if err != nil {
		log.Fatalf("listen %s: %v", *addr, err)
	}
	log.Printf("accepting connections for %s on %s", id, *addr)

	acceptor := &registry.Acceptor{Registry: reg, Listener: listener, TickInterval: time.Second}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := acceptor.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatalf("acceptor: %v", err)
	}
}
