package main

import (
	"testing"
	"time"

	"github.com/openmenu/riderapp/internal/config"
)

func TestStopContextUsesShutdownTimeout(t *testing.T) {
	cfg := &config.Config{ShutdownTimeout: 5 * time.Second}

	ctx, cancel := stopContext(cfg)
	defer cancel()

	deadline, ok := ctx.Deadline()
	if !ok {
		t.Fatal("expected deadline on stop context")
	}
	if remaining := time.Until(deadline); remaining <= 0 || remaining > 5*time.Second {
		t.Fatalf("unexpected deadline, remaining %v", remaining)
	}
}

func TestStopContextWithoutConfig(t *testing.T) {
	ctx, cancel := stopContext(nil)
	defer cancel()

	if _, ok := ctx.Deadline(); ok {
		t.Fatal("expected no deadline without config")
	}
}
