// Larder - Recipe Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/larder

package supervisor

import (
	"context"
	"errors"
	"sync/atomic"
	"time"
)

var errRunCrashed = errors.New("refresh run crashed")

// stubService stands in for the refresh and HTTP services. It crashes
// a fixed number of times and then blocks until its context ends.
type stubService struct {
	name    string
	crashes atomic.Int32
	serves  atomic.Int32
	exits   atomic.Int32
}

func newStubService(name string, crashes int) *stubService {
	s := &stubService{name: name}
	s.crashes.Store(int32(crashes))
	return s
}

func (s *stubService) Serve(ctx context.Context) error {
	s.serves.Add(1)
	defer s.exits.Add(1)

	if s.crashes.Add(-1) >= 0 {
		return errRunCrashed
	}
	<-ctx.Done()
	return ctx.Err()
}

func (s *stubService) String() string { return s.name }

func (s *stubService) waitServes(n int32) bool {
	return eventually(func() bool { return s.serves.Load() >= n })
}

func (s *stubService) waitExit() bool {
	return eventually(func() bool { return s.exits.Load() >= 1 })
}

func eventually(cond func() bool) bool {
	for i := 0; i < 25; i++ {
		if cond() {
			return true
		}
		time.Sleep(20 * time.Millisecond)
	}
	return false
}
