package lifecycle

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/openmenu/riderapp/internal/config"
)

// Module exposes the lifecycle controller to the fx graph.
var Module = fx.Provide(newController)

type controllerParams struct {
	fx.In

	Orders OrderCommander
	Config *config.Config
	Logger *slog.Logger
}

func newController(p controllerParams) *Controller {
	return NewController(p.Orders, p.Config.CancelReasons, p.Logger)
}
