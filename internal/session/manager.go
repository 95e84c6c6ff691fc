package session

import (
	"errors"
	"log/slog"
	"sync"

	domainErrors "github.com/openmenu/riderapp/internal/domain/errors"
	"github.com/openmenu/riderapp/internal/domain/model"
)

// CredentialStore abstracts the persistent device storage behind the manager.
type CredentialStore interface {
	Save(token string, rider *model.Rider) error
	Load() (string, *model.Rider, error)
	Clear() error
}

// Manager holds the authenticated session: bearer token, rider profile, and
// the global authenticated flag every screen observes. A 401 from any
// backend call funnels into ForceLogout.
type Manager struct {
	mu          sync.RWMutex
	store       CredentialStore
	logger      *slog.Logger
	token       string
	rider       *model.Rider
	subscribers map[int]func(authenticated bool)
	nextSubID   int
}

// NewManager constructs a session manager over the given credential store.
func NewManager(store CredentialStore, logger *slog.Logger) *Manager {
	return &Manager{
		store:       store,
		logger:      logger,
		subscribers: make(map[int]func(bool)),
	}
}

// LoadStored restores a previously saved session from device storage.
// Returns false without error when no session is stored.
func (m *Manager) LoadStored() (bool, error) {
	token, rider, err := m.store.Load()
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	m.mu.Lock()
	m.token = token
	m.rider = rider
	m.mu.Unlock()

	m.notify(true)
	return true, nil
}

// SetSession installs a fresh session after a successful login and persists
// it for the next app start.
func (m *Manager) SetSession(token string, rider *model.Rider) error {
	if err := m.store.Save(token, rider); err != nil {
		return err
	}

	m.mu.Lock()
	m.token = token
	m.rider = rider
	m.mu.Unlock()

	m.notify(true)
	return nil
}

// Token implements the backend client's TokenSource.
func (m *Manager) Token() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token, m.token != ""
}

// Rider returns the authenticated rider profile, nil when logged out.
func (m *Manager) Rider() *model.Rider {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rider
}

// UpdateRider replaces the cached profile after a profile edit and persists
// it alongside the existing token.
func (m *Manager) UpdateRider(rider *model.Rider) error {
	m.mu.Lock()
	token := m.token
	m.rider = rider
	m.mu.Unlock()

	if token == "" {
		return nil
	}
	return m.store.Save(token, rider)
}

// Authenticated reports whether a session is active.
func (m *Manager) Authenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token != ""
}

// Clear ends the session and wipes stored credentials. Used by both the
// explicit logout flow and ForceLogout.
func (m *Manager) Clear() {
	m.mu.Lock()
	m.token = ""
	m.rider = nil
	m.mu.Unlock()

	if err := m.store.Clear(); err != nil {
		m.logger.Error("failed to clear stored credentials", slog.String("error", err.Error()))
	}
	m.notify(false)
}

// ForceLogout is the global unauthorized handler: any backend call that sees
// a 401 drops the session without asking the user.
func (m *Manager) ForceLogout() {
	if !m.Authenticated() {
		return
	}
	m.logger.Warn("session token rejected by backend, logging out")
	m.Clear()
}

// Subscribe registers a callback for authenticated-state changes and returns
// an unsubscribe function.
func (m *Manager) Subscribe(fn func(authenticated bool)) func() {
	m.mu.Lock()
	id := m.nextSubID
	m.nextSubID++
	m.subscribers[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subscribers, id)
		m.mu.Unlock()
	}
}

func (m *Manager) notify(authenticated bool) {
	m.mu.RLock()
	subs := make([]func(bool), 0, len(m.subscribers))
	for _, fn := range m.subscribers {
		subs = append(subs, fn)
	}
	m.mu.RUnlock()

	for _, fn := range subs {
		fn(authenticated)
	}
}
