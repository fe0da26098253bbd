// Tilerouter - Adaptive Edge Routing for Map Tiles
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tilerouter

package supervisor

import (
	"context"
	"errors"
	"sync/atomic"
)

// mockService is a suture.Service that fails a fixed number of times and
// then runs until its context ends.
type mockService struct {
	name     string
	failures int32
	starts   atomic.Int32
	stops    atomic.Int32
}

func newMockService(name string, failures int32) *mockService {
	return &mockService{name: name, failures: failures}
}

func (m *mockService) Serve(ctx context.Context) error {
	n := m.starts.Add(1)
	defer m.stops.Add(1)

	if n <= m.failures {
		return errors.New("simulated failure")
	}
	<-ctx.Done()
	return ctx.Err()
}

func (m *mockService) String() string {
	return m.name
}
