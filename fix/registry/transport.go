// Copyright 2025 The go-fixengine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package registry

import (
	"net"
	"sync"

	"github.com/destiny/fixengine/fix"
	"github.com/destiny/fixengine/fix/internal/logx"
	"github.com/destiny/fixengine/fix/session"
)

// netResponder adapts a net.Conn to session.Responder. It is the
// replacement for the deleted protocol_conn.go's Conn: where that type
// combined ZMTP framing with the connection handle, responsibility here
// splits between this thin write-side adapter and the read-side pump
// below, with fix.Framer doing the framing.
type netResponder struct {
	conn net.Conn
	mu   sync.Mutex
}

func (n *netResponder) Send(raw []byte) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	_, err := n.conn.Write(raw)
	return err == nil
}

func (n *netResponder) Disconnect() {
	n.conn.Close()
}

// pump reads framed messages off conn and feeds them to sess until the
// connection errors out or is closed, then disconnects the session. It is
// meant to run in its own goroutine, one per live connection.
func pump(conn net.Conn, sess *session.Session, log *logx.Logger) {
	if log == nil {
		log = logx.Default
	}
	framer := fix.NewFramerWithValidation(sess.ValidateLengthAndChecksum())
	buf := make([]byte, 4096)
	for {
		n, err := conn.Read(buf)
		if n > 0 {
			framer.Feed(buf[:n])
			for {
				raw, ferr, needMore := framer.Next()
				if needMore {
					break
				}
				if ferr != nil {
					log.Warn("session %s: framing error: %v", sess.ID(), ferr)
					continue
				}
				if procErr := sess.OnMessage(raw); procErr != nil {
					log.Warn("session %s: %v", sess.ID(), procErr)
				}
			}
		}
		if err != nil {
			sess.Disconnect("transport closed: " + err.Error())
			return
		}
	}
}
