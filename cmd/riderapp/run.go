package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/fx"

	"github.com/openmenu/riderapp/internal/config"
)

// run starts the app, waits for a shutdown signal or an fx-initiated exit,
// and stops the app within the configured shutdown timeout.
func run(ctx context.Context, app *fx.App, cfg *config.Config) {
	if err := app.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "failed to start application: %v\n", err)
		os.Exit(1)
	}

	select {
	case <-ctx.Done():
	case <-app.Done():
	}

	stopCtx, cancel := stopContext(cfg)
	defer cancel()
	if err := app.Stop(stopCtx); err != nil {
		fmt.Fprintf(os.Stderr, "failed to stop application: %v\n", err)
		os.Exit(1)
	}
}

// stopContext bounds shutdown by cfg.ShutdownTimeout when it is set.
func stopContext(cfg *config.Config) (context.Context, context.CancelFunc) {
	if cfg != nil && cfg.ShutdownTimeout > 0 {
		return context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	}
	return context.WithCancel(context.Background())
}
