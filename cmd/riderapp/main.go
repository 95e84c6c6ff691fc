package main

import (
	"context"
	"os/signal"
	"syscall"

	"go.uber.org/fx"

	"github.com/openmenu/riderapp/internal/config"
	"github.com/openmenu/riderapp/internal/di"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var cfg *config.Config
	app := fx.New(
		fx.Provide(func() context.Context { return ctx }),
		di.Module(),
		fx.Populate(&cfg),
	)

	run(ctx, app, cfg)
}
