package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/openmenu/riderapp/internal/adapter/backend"
	domainErrors "github.com/openmenu/riderapp/internal/domain/errors"
	"github.com/openmenu/riderapp/internal/domain/model"
	"github.com/openmenu/riderapp/internal/lifecycle"
	"github.com/openmenu/riderapp/internal/session"
	"github.com/openmenu/riderapp/internal/store"
)

// Dashboard is the aggregate view backing the home screen tiles.
type Dashboard struct {
	ActiveOrders   []model.Order
	DeliveredToday int
	PendingToday   int
	UnreadCount    int
}

// RiderFacade is the single entry point the UI binds to: session, orders,
// lifecycle transitions, notifications, and profile.
type RiderFacade struct {
	client        backend.Client
	sessions      *session.Manager
	orders        *store.OrderStore
	notifications *store.NotificationStore
	controller    *lifecycle.Controller
	positions     *PositionFeed
}

// NewRiderFacade constructs the facade.
func NewRiderFacade(
	client backend.Client,
	sessions *session.Manager,
	orders *store.OrderStore,
	notifications *store.NotificationStore,
	controller *lifecycle.Controller,
	positions *PositionFeed,
) *RiderFacade {
	return &RiderFacade{
		client:        client,
		sessions:      sessions,
		orders:        orders,
		notifications: notifications,
		controller:    controller,
		positions:     positions,
	}
}

// RestoreSession loads a previously saved session from device storage.
func (f *RiderFacade) RestoreSession() (bool, error) {
	return f.sessions.LoadStored()
}

// Login authenticates against the backend and installs the session. Backend
// error text is translated to the mobile-friendly messages the login screen
// shows.
func (f *RiderFacade) Login(ctx context.Context, phone, password string) (*model.Rider, error) {
	rider, token, err := f.client.Login(ctx, phone, password)
	if err != nil {
		return nil, friendlyLoginError(err)
	}
	if err := f.sessions.SetSession(token, rider); err != nil {
		return nil, err
	}
	return rider, nil
}

// Logout invalidates the token server-side and always drops the local
// session, even when the backend call fails.
func (f *RiderFacade) Logout(ctx context.Context) error {
	err := f.client.Logout(ctx)
	f.sessions.Clear()
	if err != nil && !errors.Is(err, domainErrors.ErrUnauthorized) {
		return err
	}
	return nil
}

// Authenticated reports whether a session is active.
func (f *RiderFacade) Authenticated() bool {
	return f.sessions.Authenticated()
}

// Rider returns the logged-in rider profile, nil when logged out.
func (f *RiderFacade) Rider() *model.Rider {
	return f.sessions.Rider()
}

// Orders refreshes and returns the rider's order list.
func (f *RiderFacade) Orders(ctx context.Context) ([]model.Order, error) {
	return f.orders.FetchOrders(ctx)
}

// OrderDetails refreshes and returns one order for the detail screen.
func (f *RiderFacade) OrderDetails(ctx context.Context, orderID int64) (*model.Order, error) {
	return f.orders.FetchOrderDetails(ctx, orderID)
}

// OrderStore exposes the observable store for screens that subscribe.
func (f *RiderFacade) OrderStore() *store.OrderStore {
	return f.orders
}

// AvailableTransitions lists the actions the detail screen may offer.
func (f *RiderFacade) AvailableTransitions(orderID int64) []model.OrderStatus {
	return f.controller.AvailableTransitions(orderID)
}

// CancelReasons returns the preset menu for the cancellation dialog.
func (f *RiderFacade) CancelReasons() []string {
	return f.controller.CancelReasons()
}

// StartDelivery moves a ready order out for delivery.
func (f *RiderFacade) StartDelivery(ctx context.Context, orderID int64) error {
	return f.controller.StartDelivery(ctx, orderID)
}

// CancelOrder cancels an order with the given reason.
func (f *RiderFacade) CancelOrder(ctx context.Context, orderID int64, reason lifecycle.Reason) error {
	return f.controller.Cancel(ctx, orderID, reason)
}

// ConfirmDelivery completes an order with the customer's passcode.
func (f *RiderFacade) ConfirmDelivery(ctx context.Context, orderID int64, passcode string) error {
	return f.controller.ConfirmDelivery(ctx, orderID, passcode)
}

// Notifications refreshes and returns the notification list.
func (f *RiderFacade) Notifications(ctx context.Context) ([]model.Notification, error) {
	return f.notifications.Fetch(ctx)
}

// MarkNotificationRead marks one notification as read.
func (f *RiderFacade) MarkNotificationRead(ctx context.Context, notificationID int64) error {
	return f.notifications.MarkRead(ctx, notificationID)
}

// Dashboard aggregates the home screen counters from current store state.
func (f *RiderFacade) Dashboard(now time.Time) Dashboard {
	snapshot := f.orders.Snapshot()
	return Dashboard{
		ActiveOrders:   model.FilterActive(snapshot.Orders),
		DeliveredToday: model.CountWithStatusOn(snapshot.Orders, model.OrderStatusDelivered, now),
		PendingToday:   model.CountWithStatusOn(snapshot.Orders, model.OrderStatusPending, now),
		UnreadCount:    f.notifications.Unread(),
	}
}

// UpdateProfile persists profile edits and refreshes the cached rider.
func (f *RiderFacade) UpdateProfile(ctx context.Context, update backend.ProfileUpdate) (*model.Rider, error) {
	rider, err := f.client.UpdateProfile(ctx, update)
	if err != nil {
		return nil, err
	}
	if err := f.sessions.UpdateRider(rider); err != nil {
		return nil, err
	}
	return rider, nil
}

// Earnings fetches the earnings summary for the given period.
func (f *RiderFacade) Earnings(ctx context.Context, period, date string) (*model.Earnings, error) {
	return f.client.Earnings(ctx, period, date)
}

// Performance fetches the rider's all-time delivery statistics.
func (f *RiderFacade) Performance(ctx context.Context) (*model.Performance, error) {
	return f.client.Performance(ctx)
}

// ReportPosition feeds a device position into the background location
// reporter.
func (f *RiderFacade) ReportPosition(location model.Location) {
	f.positions.Set(location)
}

// friendlyLoginError converts backend login failures to the messages the
// login screen shows.
func friendlyLoginError(err error) error {
	var apiErr *backend.APIError
	if !errors.As(err, &apiErr) {
		return errors.New("No internet connection")
	}

	message := apiErr.Message
	switch {
	case strings.Contains(message, "Invalid credentials"):
		return errors.New("Wrong phone number or password")
	case strings.Contains(message, "Invalid phone number"):
		return errors.New("Phone number not found")
	case strings.Contains(message, "not authorized"):
		return errors.New("This account is not for riders")
	case strings.Contains(message, "not found"):
		return errors.New("Account not found")
	case message != "":
		return errors.New(message)
	}
	return errors.New("Login failed")
}
