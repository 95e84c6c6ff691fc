// Package sandbox is an in-memory stand-in for the platform backend. It
// implements the rider API surface with an authoritative order state machine
// so the client can be developed and tested without the real platform.
package sandbox

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/openmenu/riderapp/internal/domain/model"
	pkgAuth "github.com/openmenu/riderapp/internal/pkg/auth"
)

type riderAccount struct {
	rider        model.Rider
	passwordHash string
}

// Sandbox holds the fake platform state: rider accounts, orders with their
// delivery passcodes, notifications, and issued tokens.
type Sandbox struct {
	mu     sync.RWMutex
	hasher pkgAuth.PasswordHasher
	tokens pkgAuth.Strategy
	logger *slog.Logger

	riders        map[int64]*riderAccount
	byPhone       map[string]int64
	orders        map[int64]*model.Order
	passcodes     map[int64]string
	orderRider    map[int64]int64
	notifications map[int64][]model.Notification
	active        map[string]int64

	nextRiderID        int64
	nextOrderID        int64
	nextNotificationID int64
}

// New constructs an empty sandbox.
func New(secret string, logger *slog.Logger) *Sandbox {
	return &Sandbox{
		hasher:             pkgAuth.NewBcryptHasher(0),
		tokens:             pkgAuth.NewHMACStrategy(secret, pkgAuth.Options{}),
		logger:             logger,
		riders:             make(map[int64]*riderAccount),
		byPhone:            make(map[string]int64),
		orders:             make(map[int64]*model.Order),
		passcodes:          make(map[int64]string),
		orderRider:         make(map[int64]int64),
		notifications:      make(map[int64][]model.Notification),
		active:             make(map[string]int64),
		nextRiderID:        1,
		nextOrderID:        1,
		nextNotificationID: 1,
	}
}

// AddRider registers a rider account and returns its id.
func (s *Sandbox) AddRider(name, phone, password string) (int64, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextRiderID
	s.nextRiderID++
	now := time.Now()
	s.riders[id] = &riderAccount{
		rider: model.Rider{
			ID:          id,
			Name:        name,
			PhoneNumber: phone,
			VehicleType: model.VehicleMotorcycle,
			IsActive:    true,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		passwordHash: hash,
	}
	s.byPhone[phone] = id
	return id, nil
}

// AddOrder seeds an order for a rider with the given status and delivery
// passcode, returning the order id.
func (s *Sandbox) AddOrder(riderID int64, status model.OrderStatus, passcode string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextOrderID
	s.nextOrderID++
	now := time.Now()
	order := &model.Order{
		ID:          id,
		OrderNumber: newOrderNumber(),
		Status:      status,
		RiderID:     &riderID,
		Subtotal:    1200,
		DeliveryFee: 150,
		Total:       1350,
		DeliveryDetails: model.DeliveryDetails{
			Name:           "Test Customer",
			Phone:          "+923009998877",
			Address:        "House 12, Street 4",
			City:           "Karachi",
			DeliveryMethod: "standard",
		},
		PaymentDetails: model.PaymentDetails{
			Method:        "cash_on_delivery",
			TransactionID: uuid.NewString(),
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.orders[id] = order
	s.passcodes[id] = passcode
	s.orderRider[id] = riderID
	return id
}

// AddNotification seeds a notification for a rider.
func (s *Sandbox) AddNotification(riderID int64, kind model.NotificationType, title, message string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextNotificationID
	s.nextNotificationID++
	s.notifications[riderID] = append(s.notifications[riderID], model.Notification{
		ID:        id,
		Type:      kind,
		Title:     title,
		Message:   message,
		CreatedAt: time.Now(),
	})
	return id
}

// Order returns a copy of a seeded order, for test assertions.
func (s *Sandbox) Order(orderID int64) (model.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	order, ok := s.orders[orderID]
	if !ok {
		return model.Order{}, false
	}
	return *order, true
}

func (s *Sandbox) authenticate(phone, password string) (*model.Rider, string, bool) {
	s.mu.RLock()
	id, ok := s.byPhone[phone]
	var account *riderAccount
	if ok {
		account = s.riders[id]
	}
	s.mu.RUnlock()

	if account == nil {
		return nil, "", false
	}
	if err := s.hasher.Compare(account.passwordHash, password); err != nil {
		return nil, "", false
	}

	token, err := s.tokens.IssueToken(id)
	if err != nil {
		return nil, "", false
	}

	s.mu.Lock()
	s.active[token] = id
	rider := account.rider
	s.mu.Unlock()
	return &rider, token, true
}

// riderForToken resolves an issued, not-yet-revoked token.
func (s *Sandbox) riderForToken(token string) (int64, bool) {
	if _, err := s.tokens.ParseToken(token); err != nil {
		return 0, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.active[token]
	return id, ok
}

func (s *Sandbox) revoke(token string) {
	s.mu.Lock()
	delete(s.active, token)
	s.mu.Unlock()
}

// transition applies a rider-requested status change, enforcing the same
// machine the platform does. It returns a user-facing message on rejection.
func (s *Sandbox) transition(riderID, orderID int64, target model.OrderStatus, reason, passcode string) (int, string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[orderID]
	if !ok || s.orderRider[orderID] != riderID {
		return 404, "order not found"
	}
	if !order.Status.CanTransition(target) {
		return 422, fmt.Sprintf("cannot move order from %s to %s", order.Status, target)
	}

	switch target {
	case model.OrderStatusCancelled:
		if strings.TrimSpace(reason) == "" {
			return 422, "cancellation reason is required"
		}
	case model.OrderStatusDelivered:
		if passcode != s.passcodes[orderID] {
			return 422, "Invalid delivery passcode"
		}
	}

	order.Status = target
	order.UpdatedAt = time.Now()
	return 200, ""
}

// advance performs one kitchen-side step (pending→preparing→ready). The
// client never requests these; tests and local dev drive them through the
// /sim endpoint.
func (s *Sandbox) advance(orderID int64) (model.OrderStatus, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[orderID]
	if !ok {
		return "", false
	}
	switch order.Status {
	case model.OrderStatusPending:
		order.Status = model.OrderStatusPreparing
	case model.OrderStatusPreparing:
		order.Status = model.OrderStatusReady
	default:
		return order.Status, false
	}
	order.UpdatedAt = time.Now()
	return order.Status, true
}

func (s *Sandbox) ridersOrders(riderID int64) []model.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Order, 0)
	for id, order := range s.orders {
		if s.orderRider[id] == riderID {
			out = append(out, *order)
		}
	}
	model.SortNewestFirst(out)
	return out
}

func newOrderNumber() string {
	return "OM-" + strings.ToUpper(uuid.NewString()[:8])
}
