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
	"github.com/destiny/fixengine/fix/session"
)

// DialFunc dials a remote endpoint for a given session identity.
type DialFunc func(ctx context.Context, id fix.SessionID) (net.Conn, error)

// Initiator owns the reconnect loop spec.md §4.6 describes: every
// ReconnectInterval, it iterates the registry's Disconnected sessions that
// are within session time, dials them, and hands the resulting connection
// off as a Responder. It also drives each session's Tick on TickInterval.
//
// This replaces destiny-zmq4's socket.Dial retry loop (core_socket.go) with
// an errgroup-supervised pair of goroutines: one per concern (reconnect,
// tick) rather than one per connection, since a session's own Tick already
// serializes everything through its mutex.
type Initiator struct {
	Registry          *Registry
	Dial              DialFunc
	ReconnectInterval time.Duration
	TickInterval      time.Duration
	Log               *logx.Logger
}

func (in *Initiator) log() *logx.Logger {
	if in.Log != nil {
		return in.Log
	}
	return logx.Default
}

// Run blocks until ctx is cancelled or a supervised loop returns an error.
func (in *Initiator) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return in.reconnectLoop(ctx) })
	g.Go(func() error { return in.tickLoop(ctx) })
	return g.Wait()
}

func (in *Initiator) reconnectLoop(ctx context.Context) error {
	ticker := time.NewTicker(in.ReconnectInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			in.reconnectOnce(ctx)
		}
	}
}

func (in *Initiator) reconnectOnce(ctx context.Context) {
	for _, s := range in.Registry.All() {
		details := s.GetDetails()
		if details.ConnectionState != session.Disconnected {
			continue
		}
		if !s.IsSessionTime() {
			continue
		}
		conn, err := in.Dial(ctx, details.ID)
		if err != nil {
			in.log().Warn("initiator: dial %s: %v", details.ID, err)
			continue
		}
		if err := s.SetResponder(&netResponder{conn: conn}); err != nil {
			in.log().Warn("initiator: %s already connected: %v", details.ID, err)
			conn.Close()
			continue
		}
		go pump(conn, s, in.log())
	}
}

func (in *Initiator) tickLoop(ctx context.Context) error {
	ticker := time.NewTicker(in.TickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			for _, s := range in.Registry.All() {
				s.Tick()
			}
		}
	}
}
