// Copyright 2025 The go-fixengine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package registry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/destiny/fixengine/fix"
	"github.com/destiny/fixengine/fix/internal/clock"
	"github.com/destiny/fixengine/fix/session"
	"github.com/destiny/fixengine/fix/store"
)

func newTestSession(id fix.SessionID) *session.Session {
	mock := clock.NewMock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	settings := session.NewSettings(id, session.WithClock(mock))
	st := store.NewMemoryStore(mock.Now)
	return session.New(settings, st, nil)
}

func TestRegistryAddGetRemove(t *testing.T) {
	r := New()
	id := fix.SessionID{BeginString: fix.BeginStringFIX44, SenderCompID: "SELL", TargetCompID: "BUY"}
	s := newTestSession(id)

	r.Add(s)
	got, ok := r.Get(id)
	require.True(t, ok)
	assert.Same(t, s, got)

	assert.Len(t, r.All(), 1)

	r.Remove(id)
	_, ok = r.Get(id)
	assert.False(t, ok)
}

func TestPeerIdentityFromHeaderIsReversed(t *testing.T) {
	m := fix.NewMessage()
	m.Header.Set(fix.TagBeginString, fix.BeginStringFIX44)
	m.Header.Set(fix.TagSenderCompID, "BUY")
	m.Header.Set(fix.TagTargetCompID, "SELL")

	peer := peerIdentityFromHeader(m)
	assert.Equal(t, "BUY", peer.SenderCompID)

	id := peer.Reversed()
	assert.Equal(t, "SELL", id.SenderCompID)
	assert.Equal(t, "BUY", id.TargetCompID)
}
