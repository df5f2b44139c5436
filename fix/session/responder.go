// Copyright 2025 The go-fixengine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package session

// Responder is the transport adapter's handle into a Session, spec.md §3's
// "weak/back reference used only to call send/disconnect and to deliver
// bytes". A Session never dials or accepts a connection itself; the
// registry/supervisor layer hands it a Responder once a byte stream exists,
// and clears it on disconnect.
type Responder interface {
	// Send pushes raw bytes to the peer. Returns false if the underlying
	// stream is no longer usable.
	Send(raw []byte) bool

	// Disconnect tears down the underlying byte stream.
	Disconnect()
}
