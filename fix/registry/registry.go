// Copyright 2025 The go-fixengine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package registry implements the session registry and the
// Initiator/Acceptor supervisors (spec.md §4.6): a process-wide,
// concurrently-readable mapping from SessionID to Session, a reconnect
// loop for sessions configured as initiators, and a listening endpoint
// that routes inbound connections to acceptor sessions by reversed CompID.
package registry

import (
	"sync"

	"github.com/destiny/fixengine/fix"
	"github.com/destiny/fixengine/fix/session"
)

// Registry is the concurrent SessionID -> Session map spec.md §4.6 and §5
// describe ("the session registry uses a concurrent map").
type Registry struct {
	mu       sync.RWMutex
	sessions map[fix.SessionID]*session.Session
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{sessions: make(map[fix.SessionID]*session.Session)}
}

// Add registers s under its SessionID, replacing any prior session with
// the same identity.
func (r *Registry) Add(s *session.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID()] = s
}

// Remove drops the session registered under id, if any.
func (r *Registry) Remove(id fix.SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Get looks up the session registered under id.
func (r *Registry) Get(id fix.SessionID) (*session.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// All returns a snapshot slice of every registered session, safe to range
// over without holding the registry's lock.
func (r *Registry) All() []*session.Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*session.Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	return out
}
