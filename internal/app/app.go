package app

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/openmenu/riderapp/internal/adapter/backend"
	"github.com/openmenu/riderapp/internal/config"
	"github.com/openmenu/riderapp/internal/session"
	"github.com/openmenu/riderapp/internal/store"
	"github.com/openmenu/riderapp/internal/worker"
)

// Module wires application services, runtime components, and lifecycle hooks.
var Module = fx.Options(
	fx.Provide(
		NewRiderFacade,
		NewPositionFeed,
		newNotificationPoller,
		newLocationReporter,
	),
	fx.Invoke(registerLifecycle),
)

type pollerParams struct {
	fx.In

	Notifications *store.NotificationStore
	Sessions      *session.Manager
	Config        *config.Config
	Logger        *slog.Logger
}

func newNotificationPoller(p pollerParams) *worker.NotificationPoller {
	return worker.NewNotificationPoller(
		p.Notifications,
		p.Sessions,
		p.Config.NotificationPollInterval,
		p.Logger,
	)
}

type reporterParams struct {
	fx.In

	Client    backend.Client
	Positions *PositionFeed
	Sessions  *session.Manager
	Config    *config.Config
	Logger    *slog.Logger
}

func newLocationReporter(p reporterParams) *worker.LocationReporter {
	return worker.NewLocationReporter(
		p.Client,
		p.Positions,
		p.Sessions,
		p.Config.LocationReportInterval,
		p.Logger,
	)
}

type lifecycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Logger    *slog.Logger
	Facade    *RiderFacade
	Poller    *worker.NotificationPoller
	Reporter  *worker.LocationReporter
}

func registerLifecycle(p lifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			restored, err := p.Facade.RestoreSession()
			if err != nil {
				return err
			}
			p.Logger.Info("riderapp started", slog.Bool("session_restored", restored))
			p.Poller.Start(ctx)
			p.Reporter.Start(ctx)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			p.Poller.Stop()
			p.Reporter.Stop()
			p.Logger.Info("riderapp stopped")
			return nil
		},
	})
}
