package backend

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/openmenu/riderapp/internal/config"
	"github.com/openmenu/riderapp/internal/session"
)

// Module exposes the rider API client to the fx graph.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config   *config.Config
	Sessions *session.Manager
	Logger   *slog.Logger
}

func newClient(p clientParams) (Client, error) {
	return NewHTTPClient(p.Config.BackendAddress, p.Config.DeviceName, p.Sessions, p.Sessions.ForceLogout, p.Logger)
}
