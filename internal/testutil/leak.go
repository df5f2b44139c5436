// Copyright 2025 The go-fixengine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package testutil

import (
	"testing"

	"go.uber.org/goleak"
)

// VerifyNoLeaks is called from a package's TestMain to confirm every
// Session.Tick goroutine, Initiator reconnect loop, and Acceptor accept
// loop started by that package's tests has exited by the time the test
// binary finishes.
func VerifyNoLeaks(m *testing.M) {
	goleak.VerifyTestMain(m)
}
