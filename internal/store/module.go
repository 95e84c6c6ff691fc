package store

import (
	"go.uber.org/fx"

	"github.com/openmenu/riderapp/internal/adapter/backend"
	"github.com/openmenu/riderapp/internal/lifecycle"
)

// Module wires the order and notification stores.
var Module = fx.Options(
	fx.Provide(
		NewOrderStore,
		NewNotificationStore,
	),
	fx.Provide(
		func(c backend.Client) OrderBackend { return c },
		func(c backend.Client) NotificationBackend { return c },
		func(s *OrderStore) lifecycle.OrderCommander { return s },
	),
)
