package store

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/openmenu/riderapp/internal/adapter/backend"
	"github.com/openmenu/riderapp/internal/domain/model"
)

// OrderBackend is the slice of the rider API the order store consumes.
type OrderBackend interface {
	Orders(ctx context.Context) ([]model.Order, error)
	OrderDetails(ctx context.Context, orderID int64) (*model.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID int64, status model.OrderStatus, reason, passcode string) error
}

// OrderSnapshot is a read-only view of the store handed to subscribers.
type OrderSnapshot struct {
	Orders  []model.Order
	Current *model.Order
	Loading bool
	Err     string
}

// StatusApplied runs after the backend accepts a status change. The default
// applies the new status in place (optimistic, no re-fetch); installing a
// different hook swaps that for a full re-fetch without touching the
// transition-legality logic.
type StatusApplied func(ctx context.Context, orderID int64, target model.OrderStatus)

// OrderStore is the single point of truth for order data visible to the
// rider. It owns the loading/error flags every order screen consumes and is
// the sole mutation path for order status.
type OrderStore struct {
	mu      sync.RWMutex
	backend OrderBackend
	logger  *slog.Logger

	orders  []model.Order
	current *model.Order
	loading bool
	errMsg  string

	onStatusApplied StatusApplied
	subscribers     map[int]func(OrderSnapshot)
	nextSubID       int
}

// NewOrderStore constructs an order store over the given backend.
func NewOrderStore(b OrderBackend, logger *slog.Logger) *OrderStore {
	s := &OrderStore{
		backend:     b,
		logger:      logger,
		subscribers: make(map[int]func(OrderSnapshot)),
	}
	s.onStatusApplied = s.applyOptimistic
	return s
}

// SetStatusAppliedHook replaces the post-success apply step.
func (s *OrderStore) SetStatusAppliedHook(hook StatusApplied) {
	s.mu.Lock()
	s.onStatusApplied = hook
	s.mu.Unlock()
}

// Subscribe registers a callback invoked with a snapshot after every state
// change. Returns an unsubscribe function.
func (s *OrderStore) Subscribe(fn func(OrderSnapshot)) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

// Snapshot returns a copy of the current state.
func (s *OrderStore) Snapshot() OrderSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Loading reports whether a request is in flight. The UI uses it to disable
// duplicate trigger actions; the store itself does not deduplicate.
func (s *OrderStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Err returns the last failure message, empty after a success.
func (s *OrderStore) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errMsg
}

// OrderByID looks an order up in the detail entry or the list.
func (s *OrderStore) OrderByID(orderID int64) (model.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current != nil && s.current.ID == orderID {
		return *s.current, true
	}
	for _, o := range s.orders {
		if o.ID == orderID {
			return o, true
		}
	}
	return model.Order{}, false
}

// FetchOrders retrieves the rider's full order list, replacing the previous
// list wholesale on success. Overlapping calls are last-write-wins.
func (s *OrderStore) FetchOrders(ctx context.Context) ([]model.Order, error) {
	s.begin()

	orders, err := s.backend.Orders(ctx)
	if err != nil {
		s.fail(err, "Failed to fetch orders")
		return nil, err
	}

	s.mu.Lock()
	s.orders = orders
	s.loading = false
	s.errMsg = ""
	out := make([]model.Order, len(orders))
	copy(out, orders)
	s.mu.Unlock()
	s.notify()
	return out, nil
}

// FetchOrderDetails retrieves one order for detail viewing, replacing the
// current order wholesale on success. A missing order surfaces as a
// not-found error distinct from the loading state.
func (s *OrderStore) FetchOrderDetails(ctx context.Context, orderID int64) (*model.Order, error) {
	s.begin()

	order, err := s.backend.OrderDetails(ctx, orderID)
	if err != nil {
		s.fail(err, "Failed to fetch order details")
		return nil, err
	}

	s.mu.Lock()
	s.current = order
	s.loading = false
	s.errMsg = ""
	out := *order
	s.mu.Unlock()
	s.notify()
	return &out, nil
}

// UpdateOrderStatus is the sole mutation entry point, invoked only through
// the lifecycle controller's validated inputs. On success the new status is
// applied via the status-applied hook; on failure prior state is untouched
// and the failure message is recorded.
func (s *OrderStore) UpdateOrderStatus(ctx context.Context, orderID int64, target model.OrderStatus, reason, passcode string) error {
	s.begin()

	if err := s.backend.UpdateOrderStatus(ctx, orderID, target, reason, passcode); err != nil {
		s.fail(err, "Failed to update order status")
		return err
	}

	s.mu.RLock()
	hook := s.onStatusApplied
	s.mu.RUnlock()
	if hook != nil {
		hook(ctx, orderID, target)
	}

	s.mu.Lock()
	s.loading = false
	s.errMsg = ""
	s.mu.Unlock()
	s.notify()
	return nil
}

// applyOptimistic mutates the matching entries in both the list and the
// detail view in place, avoiding a round-trip.
func (s *OrderStore) applyOptimistic(_ context.Context, orderID int64, target model.OrderStatus) {
	s.mu.Lock()
	now := time.Now()
	for i := range s.orders {
		if s.orders[i].ID == orderID {
			s.orders[i].Status = target
			s.orders[i].UpdatedAt = now
		}
	}
	if s.current != nil && s.current.ID == orderID {
		s.current.Status = target
		s.current.UpdatedAt = now
	}
	s.mu.Unlock()
}

func (s *OrderStore) begin() {
	s.mu.Lock()
	s.loading = true
	s.errMsg = ""
	s.mu.Unlock()
	s.notify()
}

func (s *OrderStore) fail(err error, fallback string) {
	message := messageOrFallback(err, fallback)
	s.mu.Lock()
	s.loading = false
	s.errMsg = message
	s.mu.Unlock()
	s.logger.Error(fallback, slog.String("error", err.Error()))
	s.notify()
}

func (s *OrderStore) snapshotLocked() OrderSnapshot {
	orders := make([]model.Order, len(s.orders))
	copy(orders, s.orders)
	var current *model.Order
	if s.current != nil {
		c := *s.current
		current = &c
	}
	return OrderSnapshot{Orders: orders, Current: current, Loading: s.loading, Err: s.errMsg}
}

func (s *OrderStore) notify() {
	s.mu.RLock()
	snapshot := s.snapshotLocked()
	subs := make([]func(OrderSnapshot), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.mu.RUnlock()

	for _, fn := range subs {
		fn(snapshot)
	}
}

// messageOrFallback prefers the backend-provided message and falls back to a
// generic one for transport-level failures.
func messageOrFallback(err error, fallback string) string {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
