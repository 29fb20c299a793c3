package app

import (
	"context"
	"testing"
	"time"

	"github.com/typemux/typemux/config"
	"github.com/typemux/typemux/core/message"
	"github.com/typemux/typemux/core/router"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Logging.SetDefaults()
	cfg.Metrics.SetDefaults()
	return cfg
}

func TestServiceNewWithoutBroker(t *testing.T) {
	svc, err := New(testConfig())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer func() {
		if err := svc.Close(); err != nil {
			t.Fatalf("close: %v", err)
		}
	}()
	if svc.Source() != nil {
		t.Fatalf("unexpected source without broker")
	}
	// built-in handlers are registered
	if !svc.Router.Dispatch(message.Raw{Topic: "t"}) {
		t.Fatalf("raw message not handled")
	}
	if !svc.Router.Dispatch(message.Heartbeat{Source: "test"}) {
		t.Fatalf("heartbeat not handled")
	}
}

func TestServiceRunStopsOnCancel(t *testing.T) {
	svc, err := New(testConfig())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer func() { _ = svc.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("run did not stop on cancel")
	}
}

func TestServiceRunStopsOnShutdownMessage(t *testing.T) {
	svc, err := New(testConfig())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer func() { _ = svc.Close() }()

	done := make(chan error, 1)
	go func() { done <- svc.Run(context.Background()) }()

	// wait for the shutdown handler to be registered
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if router.Handles[message.Shutdown](svc.Router) {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if !svc.Router.Dispatch(message.Shutdown{Reason: "test"}) {
		t.Fatalf("shutdown message not handled")
	}
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("run did not stop on shutdown message")
	}
}
