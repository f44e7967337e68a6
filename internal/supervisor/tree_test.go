// RentPredict - Rent Estimation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rentpredict

package supervisor

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestNewTree_Defaults(t *testing.T) {
	tree := NewTree(testLogger(), TreeConfig{})

	def := DefaultTreeConfig()
	if tree.config != def {
		t.Errorf("config = %+v, want %+v", tree.config, def)
	}
}

func TestTree_StartsBothLayers(t *testing.T) {
	tree := NewTree(testLogger(), TreeConfig{ShutdownTimeout: time.Second})

	data := newMockService("feedback-gc")
	api := newMockService("http-server")
	tree.AddDataService(data)
	tree.AddAPIService(api)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)

	deadline := time.Now().Add(time.Second)
	for (data.startCount.Load() == 0 || api.startCount.Load() == 0) && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			t.Errorf("unexpected error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("tree did not shut down in time")
	}

	if data.startCount.Load() < 1 || api.startCount.Load() < 1 {
		t.Errorf("starts: data=%d api=%d, want both >= 1", data.startCount.Load(), api.startCount.Load())
	}
}

func TestTree_RestartsFailingDataService(t *testing.T) {
	tree := NewTree(testLogger(), TreeConfig{
		FailureThreshold: 10,
		FailureBackoff:   10 * time.Millisecond,
		ShutdownTimeout:  time.Second,
	})

	failing := newMockService("flaky-gc")
	failing.maxFails = 2
	stable := newMockService("http-server")
	tree.AddDataService(failing)
	tree.AddAPIService(stable)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	errCh := tree.ServeBackground(ctx)

	<-ctx.Done()
	<-errCh

	if got := failing.startCount.Load(); got < 3 {
		t.Errorf("failing service started %d times, want >= 3", got)
	}
	if got := stable.startCount.Load(); got != 1 {
		t.Errorf("stable service started %d times, want 1", got)
	}
}

func TestTree_ServeBackgroundClosesChannel(t *testing.T) {
	tree := NewTree(testLogger(), TreeConfig{ShutdownTimeout: time.Second})
	tree.AddAPIService(newMockService("http-server"))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)
	cancel()

	drained := make(chan int)
	go func() {
		n := 0
		for range errCh {
			n++
		}
		drained <- n
	}()

	select {
	case n := <-drained:
		if n != 1 {
			t.Errorf("received %d results, want 1", n)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("result channel was not closed after shutdown")
	}
}
