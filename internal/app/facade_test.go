package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/openmenu/riderapp/internal/adapter/backend"
	domainErrors "github.com/openmenu/riderapp/internal/domain/errors"
	"github.com/openmenu/riderapp/internal/domain/model"
	"github.com/openmenu/riderapp/internal/lifecycle"
	"github.com/openmenu/riderapp/internal/sandbox"
	"github.com/openmenu/riderapp/internal/session"
	"github.com/openmenu/riderapp/internal/store"
)

const (
	testPhone    = "+920000000001"
	testPassword = "secret1"
)

type harness struct {
	facade  *RiderFacade
	box     *sandbox.Sandbox
	riderID int64
	dbPath  string
	baseURL string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	box := sandbox.New("test-secret", log)
	riderID, err := box.AddRider("Test Rider", testPhone, testPassword)
	if err != nil {
		t.Fatalf("AddRider: %v", err)
	}
	srv := httptest.NewServer(box.Router())
	t.Cleanup(srv.Close)

	dbPath := filepath.Join(t.TempDir(), "session.db")
	h := &harness{box: box, riderID: riderID, dbPath: dbPath, baseURL: srv.URL}
	h.facade = h.buildFacade(t, log)
	return h
}

// buildFacade wires the full client stack the way the fx modules do, so the
// tests exercise the same object graph the app runs.
func (h *harness) buildFacade(t *testing.T, log *slog.Logger) *RiderFacade {
	t.Helper()

	st, err := session.Open(h.dbPath)
	if err != nil {
		t.Fatalf("open session store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	sessions := session.NewManager(st, log)

	client, err := backend.NewHTTPClient(h.baseURL, "riderApp", sessions, sessions.ForceLogout, log)
	if err != nil {
		t.Fatalf("new backend client: %v", err)
	}

	orders := store.NewOrderStore(client, log)
	notifications := store.NewNotificationStore(client, log)
	controller := lifecycle.NewController(orders, nil, log)

	return NewRiderFacade(client, sessions, orders, notifications, controller, NewPositionFeed())
}

func (h *harness) login(t *testing.T) {
	t.Helper()
	if _, err := h.facade.Login(context.Background(), testPhone, testPassword); err != nil {
		t.Fatalf("Login: %v", err)
	}
}

func TestLoginTranslatesBackendRejection(t *testing.T) {
	h := newHarness(t)

	_, err := h.facade.Login(context.Background(), testPhone, "wrong")
	if err == nil {
		t.Fatal("expected login error")
	}
	if err.Error() != "Wrong phone number or password" {
		t.Fatalf("error = %q", err.Error())
	}
	if h.facade.Authenticated() {
		t.Fatal("session installed after failed login")
	}
}

func TestSessionSurvivesRestart(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	restarted := h.buildFacade(t, slog.New(slog.NewTextHandler(io.Discard, nil)))
	restored, err := restarted.RestoreSession()
	if err != nil {
		t.Fatalf("RestoreSession: %v", err)
	}
	if !restored || !restarted.Authenticated() {
		t.Fatal("stored session not restored")
	}
	if rider := restarted.Rider(); rider == nil || rider.PhoneNumber != testPhone {
		t.Fatalf("restored rider = %+v", rider)
	}

	// The restored token must be accepted by the backend.
	if _, err := restarted.Orders(context.Background()); err != nil {
		t.Fatalf("Orders with restored session: %v", err)
	}
}

func TestDeliveryConfirmationFlow(t *testing.T) {
	h := newHarness(t)
	orderID := h.box.AddOrder(h.riderID, model.OrderStatusOnTheWay, "9081")
	h.login(t)

	ctx := context.Background()
	if _, err := h.facade.Orders(ctx); err != nil {
		t.Fatalf("Orders: %v", err)
	}

	// Malformed passcodes are rejected locally, before any request.
	err := h.facade.ConfirmDelivery(ctx, orderID, "12")
	if !errors.Is(err, domainErrors.ErrInvalidPasscode) {
		t.Fatalf("short passcode error = %v", err)
	}

	// A well-formed but wrong passcode is rejected by the backend and the
	// order stays on_the_way so the rider can retry.
	err = h.facade.ConfirmDelivery(ctx, orderID, "0000")
	if err == nil {
		t.Fatal("expected rejection for wrong passcode")
	}
	if err.Error() != "Invalid delivery passcode" {
		t.Fatalf("rejection message = %q", err.Error())
	}
	if order, ok := h.facade.OrderStore().OrderByID(orderID); !ok || order.Status != model.OrderStatusOnTheWay {
		t.Fatalf("order after rejection = %+v", order)
	}

	if err := h.facade.ConfirmDelivery(ctx, orderID, "9081"); err != nil {
		t.Fatalf("ConfirmDelivery: %v", err)
	}
	if order, ok := h.facade.OrderStore().OrderByID(orderID); !ok || order.Status != model.OrderStatusDelivered {
		t.Fatalf("local order after delivery = %+v", order)
	}
	if order, _ := h.box.Order(orderID); order.Status != model.OrderStatusDelivered {
		t.Fatalf("backend order after delivery = %s", order.Status)
	}
}

func TestCancellationFlow(t *testing.T) {
	h := newHarness(t)
	orderID := h.box.AddOrder(h.riderID, model.OrderStatusReady, "1234")
	h.login(t)

	ctx := context.Background()
	if _, err := h.facade.Orders(ctx); err != nil {
		t.Fatalf("Orders: %v", err)
	}

	targets := h.facade.AvailableTransitions(orderID)
	want := map[model.OrderStatus]bool{model.OrderStatusOnTheWay: true, model.OrderStatusCancelled: true}
	if len(targets) != len(want) {
		t.Fatalf("AvailableTransitions = %v", targets)
	}
	for _, target := range targets {
		if !want[target] {
			t.Fatalf("unexpected transition %s", target)
		}
	}

	// An empty "Other" reason never reaches the backend.
	err := h.facade.CancelOrder(ctx, orderID, lifecycle.CustomReason("   "))
	if !errors.Is(err, domainErrors.ErrReasonRequired) {
		t.Fatalf("empty reason error = %v", err)
	}
	if order, _ := h.box.Order(orderID); order.Status != model.OrderStatusReady {
		t.Fatalf("backend order after rejected cancel = %s", order.Status)
	}

	reasons := h.facade.CancelReasons()
	if len(reasons) == 0 {
		t.Fatal("no preset cancel reasons")
	}
	if err := h.facade.CancelOrder(ctx, orderID, lifecycle.PresetReason(reasons[0])); err != nil {
		t.Fatalf("CancelOrder: %v", err)
	}
	if order, ok := h.facade.OrderStore().OrderByID(orderID); !ok || order.Status != model.OrderStatusCancelled {
		t.Fatalf("local order after cancel = %+v", order)
	}
	if order, _ := h.box.Order(orderID); order.Status != model.OrderStatusCancelled {
		t.Fatalf("backend order after cancel = %s", order.Status)
	}
}

func TestStartDeliveryFlow(t *testing.T) {
	h := newHarness(t)
	orderID := h.box.AddOrder(h.riderID, model.OrderStatusReady, "1234")
	h.login(t)

	ctx := context.Background()
	if _, err := h.facade.Orders(ctx); err != nil {
		t.Fatalf("Orders: %v", err)
	}
	if err := h.facade.StartDelivery(ctx, orderID); err != nil {
		t.Fatalf("StartDelivery: %v", err)
	}
	if order, _ := h.box.Order(orderID); order.Status != model.OrderStatusOnTheWay {
		t.Fatalf("backend order = %s, want on_the_way", order.Status)
	}

	// delivered is not reachable for a pending order.
	pendingID := h.box.AddOrder(h.riderID, model.OrderStatusPending, "4321")
	if _, err := h.facade.Orders(ctx); err != nil {
		t.Fatalf("Orders: %v", err)
	}
	if err := h.facade.ConfirmDelivery(ctx, pendingID, "4321"); !errors.Is(err, domainErrors.ErrInvalidTransition) {
		t.Fatalf("pending delivery error = %v", err)
	}
}

func TestDashboardCounters(t *testing.T) {
	h := newHarness(t)
	readyID := h.box.AddOrder(h.riderID, model.OrderStatusReady, "1111")
	h.box.AddOrder(h.riderID, model.OrderStatusPending, "2222")
	deliveredID := h.box.AddOrder(h.riderID, model.OrderStatusOnTheWay, "3333")
	h.box.AddNotification(h.riderID, model.NotificationOrderAssigned, "New order", "An order was assigned")
	h.login(t)

	ctx := context.Background()
	if err := h.facade.ConfirmDelivery(ctx, deliveredID, "3333"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("ConfirmDelivery before first fetch = %v", err)
	}
	if _, err := h.facade.Orders(ctx); err != nil {
		t.Fatalf("Orders: %v", err)
	}
	if _, err := h.facade.Notifications(ctx); err != nil {
		t.Fatalf("Notifications: %v", err)
	}
	if err := h.facade.ConfirmDelivery(ctx, deliveredID, "3333"); err != nil {
		t.Fatalf("ConfirmDelivery: %v", err)
	}

	dash := h.facade.Dashboard(time.Now())
	if dash.DeliveredToday != 1 {
		t.Fatalf("DeliveredToday = %d", dash.DeliveredToday)
	}
	if dash.PendingToday != 1 {
		t.Fatalf("PendingToday = %d", dash.PendingToday)
	}
	if dash.UnreadCount != 1 {
		t.Fatalf("UnreadCount = %d", dash.UnreadCount)
	}
	active := map[int64]bool{}
	for _, order := range dash.ActiveOrders {
		active[order.ID] = true
	}
	if !active[readyID] || active[deliveredID] {
		t.Fatalf("ActiveOrders = %+v", dash.ActiveOrders)
	}
}

func TestLogoutDropsSessionEvenWhenTokenDead(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	ctx := context.Background()
	if err := h.facade.Logout(ctx); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if h.facade.Authenticated() {
		t.Fatal("session still active after logout")
	}

	// Second logout hits the backend with no token; the local session is
	// already gone and the call still reports success.
	if err := h.facade.Logout(ctx); err != nil {
		t.Fatalf("repeated Logout: %v", err)
	}
}
