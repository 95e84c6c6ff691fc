package di

import (
	"go.uber.org/fx"

	"github.com/openmenu/riderapp/internal/adapter/backend"
	"github.com/openmenu/riderapp/internal/app"
	"github.com/openmenu/riderapp/internal/config"
	"github.com/openmenu/riderapp/internal/lifecycle"
	"github.com/openmenu/riderapp/internal/logger"
	"github.com/openmenu/riderapp/internal/session"
	"github.com/openmenu/riderapp/internal/store"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		session.Module,
		backend.Module,
		store.Module,
		lifecycle.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
