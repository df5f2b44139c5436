// Copyright 2025 The go-fixengine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package registry

import (
	"context"
	"net"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/destiny/fixengine/fix"
	"github.com/destiny/fixengine/fix/internal/logx"
)

// Acceptor owns a listening endpoint. For each inbound connection it reads
// until the first well-formed message, derives the SessionID by reversing
// the peer's CompIDs, looks up an accepting session, and rejects the
// connection if none exists or if that session already has a responder
// (spec.md §4.6, and the at-most-one-connection invariant of §8).
type Acceptor struct {
	Registry     *Registry
	Listener     net.Listener
	TickInterval time.Duration
	Log          *logx.Logger
}

func (a *Acceptor) log() *logx.Logger {
	if a.Log != nil {
		return a.Log
	}
	return logx.Default
}

// Run blocks until ctx is cancelled or the listener returns a fatal error.
func (a *Acceptor) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return a.acceptLoop(ctx) })
	g.Go(func() error { return a.tickLoop(ctx) })
	return g.Wait()
}

func (a *Acceptor) acceptLoop(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			a.Listener.Close()
		case <-done:
		}
	}()

	for {
		conn, err := a.Listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		go a.handle(conn)
	}
}

func (a *Acceptor) tickLoop(ctx context.Context) error {
	ticker := time.NewTicker(a.TickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			for _, s := range a.Registry.All() {
				s.Tick()
			}
		}
	}
}

// handle reads the first message off conn, routes it to the accepting
// session, and then hands the connection to pump for the rest of its life.
func (a *Acceptor) handle(conn net.Conn) {
	framer := fix.NewFramer()
	buf := make([]byte, 4096)
	var raw []byte
	for raw == nil {
		n, err := conn.Read(buf)
		if n > 0 {
			framer.Feed(buf[:n])
			if r, ferr, needMore := framer.Next(); !needMore {
				if ferr != nil {
					a.log().Warn("acceptor: framing error on first message: %v", ferr)
					conn.Close()
					return
				}
				raw = r
			}
		}
		if err != nil {
			conn.Close()
			return
		}
	}

	msg, err := fix.ParseMessage(raw)
	if err != nil {
		a.log().Warn("acceptor: could not parse first message: %v", err)
		conn.Close()
		return
	}

	peerID := peerIdentityFromHeader(msg)
	id := peerID.Reversed()

	sess, ok := a.Registry.Get(id)
	if !ok {
		a.log().Warn("acceptor: no session configured for %s", id)
		conn.Close()
		return
	}

	if err := sess.SetResponder(&netResponder{conn: conn}); err != nil {
		a.log().Warn("acceptor: %s rejected duplicate connection: %v", id, err)
		conn.Close()
		return
	}

	if procErr := sess.OnMessage(raw); procErr != nil {
		a.log().Warn("session %s: %v", id, procErr)
	}
	pump(conn, sess, a.log())
}

// peerIdentityFromHeader builds the SessionID as the peer sees it (their
// Sender, our Target) straight from an inbound message's header tags.
func peerIdentityFromHeader(msg *fix.Message) fix.SessionID {
	beginString, _ := msg.Header.GetField(fix.TagBeginString)
	senderCompID, _ := msg.Header.GetField(fix.TagSenderCompID)
	targetCompID, _ := msg.Header.GetField(fix.TagTargetCompID)
	return fix.SessionID{
		BeginString:  beginString,
		SenderCompID: senderCompID,
		TargetCompID: targetCompID,
	}
}
