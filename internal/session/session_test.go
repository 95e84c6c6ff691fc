package session

import (
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	domainErrors "github.com/openmenu/riderapp/internal/domain/errors"
	"github.com/openmenu/riderapp/internal/domain/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "session.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStoreRoundTrip(t *testing.T) {
	store := openTestStore(t)

	if _, _, err := store.Load(); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found on empty store, got %v", err)
	}

	rider := &model.Rider{ID: 5, Name: "Ahmed", PhoneNumber: "+923001234567", VehicleType: model.VehicleMotorcycle}
	if err := store.Save("token-1", rider); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	token, loaded, err := store.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if token != "token-1" || loaded.ID != 5 || loaded.Name != "Ahmed" {
		t.Fatalf("unexpected loaded session: %q %+v", token, loaded)
	}

	// Saving again replaces the previous credentials.
	if err := store.Save("token-2", rider); err != nil {
		t.Fatalf("second save failed: %v", err)
	}
	token, _, err = store.Load()
	if err != nil || token != "token-2" {
		t.Fatalf("expected replaced token, got %q err %v", token, err)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if _, _, err := store.Load(); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found after clear, got %v", err)
	}
}

type memoryStore struct {
	token string
	rider *model.Rider
	saved int
}

func (m *memoryStore) Save(token string, rider *model.Rider) error {
	m.token, m.rider = token, rider
	m.saved++
	return nil
}

func (m *memoryStore) Load() (string, *model.Rider, error) {
	if m.token == "" {
		return "", nil, domainErrors.ErrNotFound
	}
	return m.token, m.rider, nil
}

func (m *memoryStore) Clear() error {
	m.token, m.rider = "", nil
	return nil
}

func TestManagerLoginLogoutCycle(t *testing.T) {
	store := &memoryStore{}
	manager := NewManager(store, testLogger())

	var events []bool
	unsubscribe := manager.Subscribe(func(authenticated bool) {
		events = append(events, authenticated)
	})
	defer unsubscribe()

	if manager.Authenticated() {
		t.Fatal("expected unauthenticated start")
	}

	rider := &model.Rider{ID: 1, Name: "Bilal"}
	if err := manager.SetSession("tok", rider); err != nil {
		t.Fatalf("set session failed: %v", err)
	}
	if !manager.Authenticated() {
		t.Fatal("expected authenticated after login")
	}
	if token, ok := manager.Token(); !ok || token != "tok" {
		t.Fatalf("unexpected token: %q %v", token, ok)
	}
	if manager.Rider().Name != "Bilal" {
		t.Fatalf("unexpected rider: %+v", manager.Rider())
	}

	manager.Clear()
	if manager.Authenticated() || manager.Rider() != nil {
		t.Fatal("expected session dropped after clear")
	}
	if store.token != "" {
		t.Fatal("expected stored credentials wiped")
	}
	if len(events) != 2 || events[0] != true || events[1] != false {
		t.Fatalf("unexpected event sequence: %v", events)
	}
}

func TestManagerLoadStored(t *testing.T) {
	store := &memoryStore{token: "stored", rider: &model.Rider{ID: 9}}
	manager := NewManager(store, testLogger())

	ok, err := manager.LoadStored()
	if err != nil || !ok {
		t.Fatalf("expected restored session, got ok=%v err=%v", ok, err)
	}
	if !manager.Authenticated() || manager.Rider().ID != 9 {
		t.Fatal("expected session restored from storage")
	}

	empty := NewManager(&memoryStore{}, testLogger())
	ok, err = empty.LoadStored()
	if err != nil || ok {
		t.Fatalf("expected no stored session, got ok=%v err=%v", ok, err)
	}
}

func TestManagerForceLogout(t *testing.T) {
	store := &memoryStore{token: "stored", rider: &model.Rider{ID: 9}}
	manager := NewManager(store, testLogger())
	if _, err := manager.LoadStored(); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	manager.ForceLogout()
	if manager.Authenticated() {
		t.Fatal("expected unauthenticated after forced logout")
	}

	// Idempotent when already logged out.
	manager.ForceLogout()
	if store.token != "" {
		t.Fatal("expected credentials cleared")
	}
}
