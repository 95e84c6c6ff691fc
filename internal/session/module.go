package session

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/openmenu/riderapp/internal/config"
)

// Module wires the SQLite credential store and session manager.
var Module = fx.Options(
	fx.Provide(newStore, newManager),
	fx.Provide(func(s *Store) CredentialStore { return s }),
)

func newStore(cfg *config.Config, lc fx.Lifecycle) (*Store, error) {
	store, err := Open(cfg.SessionDBPath)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.StopHook(store.Close))
	return store, nil
}

func newManager(store CredentialStore, logger *slog.Logger) *Manager {
	return NewManager(store, logger)
}
