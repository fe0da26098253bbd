// Tilerouter - Adaptive Edge Routing for Map Tiles
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tilerouter

package supervisor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func waitForStarts(t *testing.T, svc *mockService, n int32) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if svc.starts.Load() >= n {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("%s started %d times, want at least %d", svc.name, svc.starts.Load(), n)
}

func TestNewSupervisorTree_Defaults(t *testing.T) {
	tree, err := NewSupervisorTree(quietLogger(), TreeConfig{})
	if err != nil {
		t.Fatalf("NewSupervisorTree() error = %v", err)
	}

	want := DefaultTreeConfig()
	if tree.config != want {
		t.Errorf("config = %+v, want %+v", tree.config, want)
	}
	if tree.Root() == nil {
		t.Error("Root() is nil")
	}
}

func TestNewSupervisorTree_KeepsExplicitValues(t *testing.T) {
	cfg := TreeConfig{
		FailureThreshold: 2,
		FailureDecay:     5,
		FailureBackoff:   time.Second,
		ShutdownTimeout:  3 * time.Second,
	}
	tree, err := NewSupervisorTree(quietLogger(), cfg)
	if err != nil {
		t.Fatalf("NewSupervisorTree() error = %v", err)
	}
	if tree.config != cfg {
		t.Errorf("config = %+v, want %+v", tree.config, cfg)
	}
}

func TestSupervisorTree_StartsBothLayers(t *testing.T) {
	tree, _ := NewSupervisorTree(quietLogger(), TreeConfig{ShutdownTimeout: time.Second})

	routing := newMockService("routing", 0)
	api := newMockService("api", 0)
	tree.AddRoutingService(routing)
	tree.AddAPIService(api)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)

	waitForStarts(t, routing, 1)
	waitForStarts(t, api, 1)

	cancel()
	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("tree did not stop")
	}

	if routing.stops.Load() != 1 || api.stops.Load() != 1 {
		t.Errorf("stops = routing %d, api %d; want 1 each", routing.stops.Load(), api.stops.Load())
	}
	if report, err := tree.UnstoppedServiceReport(); err != nil || len(report) != 0 {
		t.Errorf("UnstoppedServiceReport() = %v, %v", report, err)
	}
}

func TestSupervisorTree_RestartIsolatedToLayer(t *testing.T) {
	tree, _ := NewSupervisorTree(quietLogger(), TreeConfig{
		FailureThreshold: 10,
		FailureBackoff:   10 * time.Millisecond,
		ShutdownTimeout:  time.Second,
	})

	flaky := newMockService("flaky-routing", 2)
	api := newMockService("api", 0)
	tree.AddRoutingService(flaky)
	tree.AddAPIService(api)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	tree.ServeBackground(ctx)

	waitForStarts(t, flaky, 3)
	waitForStarts(t, api, 1)

	if got := api.starts.Load(); got != 1 {
		t.Errorf("api restarted %d times, want 1 start", got)
	}
}

func TestSupervisorTree_RemoveRoutingService(t *testing.T) {
	tree, _ := NewSupervisorTree(quietLogger(), TreeConfig{ShutdownTimeout: time.Second})

	svc := newMockService("routing", 0)
	token := tree.AddRoutingService(svc)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	tree.ServeBackground(ctx)
	waitForStarts(t, svc, 1)

	if err := tree.RemoveRoutingService(token); err != nil {
		t.Fatalf("RemoveRoutingService() error = %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for svc.stops.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if svc.stops.Load() != 1 {
		t.Error("removed service was not stopped")
	}
}

func TestMockServiceImplementsService(t *testing.T) {
	var _ suture.Service = (*mockService)(nil)
}
