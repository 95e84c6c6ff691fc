package model

import (
	"sort"
	"time"

	domainErrors "github.com/openmenu/riderapp/internal/domain/errors"
)

// OrderStatus describes the delivery lifecycle of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusOnTheWay  OrderStatus = "on_the_way"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// riderTransitions lists the status changes a rider may request. The
// kitchen-side moves (pending→preparing, preparing→ready) happen on the
// backend and are only ever observed through a fetch.
var riderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusReady:    {OrderStatusOnTheWay, OrderStatusCancelled},
	OrderStatusOnTheWay: {OrderStatusDelivered, OrderStatusCancelled},
}

var validStatuses = map[OrderStatus]struct{}{
	OrderStatusPending:   {},
	OrderStatusPreparing: {},
	OrderStatusReady:     {},
	OrderStatusOnTheWay:  {},
	OrderStatusDelivered: {},
	OrderStatusCancelled: {},
}

// ParseOrderStatus validates a raw status value from an external source.
func ParseOrderStatus(raw string) (OrderStatus, error) {
	s := OrderStatus(raw)
	if _, ok := validStatuses[s]; !ok {
		return "", domainErrors.ErrInvalidStatus
	}
	return s, nil
}

// CanTransition reports whether a rider may move an order from s to target.
func (s OrderStatus) CanTransition(target OrderStatus) bool {
	for _, t := range riderTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// RiderTargets returns the statuses a rider may request from s, in the order
// the UI presents them. Nil for statuses with no rider-side action.
func (s OrderStatus) RiderTargets() []OrderStatus {
	targets := riderTransitions[s]
	if len(targets) == 0 {
		return nil
	}
	out := make([]OrderStatus, len(targets))
	copy(out, targets)
	return out
}

// Terminal reports whether no further transitions exist from s.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// Active reports whether the order still needs rider attention.
func (s OrderStatus) Active() bool {
	switch s {
	case OrderStatusPending, OrderStatusPreparing, OrderStatusReady, OrderStatusOnTheWay:
		return true
	}
	return false
}

func (s OrderStatus) String() string { return string(s) }

// DeliveryDetails identifies the recipient of an order.
type DeliveryDetails struct {
	Name           string `json:"name"`
	Phone          string `json:"phone"`
	Address        string `json:"address"`
	City           string `json:"city"`
	Instructions   string `json:"instructions,omitempty"`
	DeliveryMethod string `json:"delivery_method"`
}

// PaymentDetails carries read-only payment display data.
type PaymentDetails struct {
	Method        string   `json:"method"`
	Status        string   `json:"status,omitempty"`
	TransactionID string   `json:"transaction_id,omitempty"`
	Provider      string   `json:"provider,omitempty"`
	Amount        *float64 `json:"amount,omitempty"`
}

// OrderItem is one line of an order.
type OrderItem struct {
	ID                  int64   `json:"id"`
	MenuItemID          int64   `json:"menu_item_id"`
	Name                string  `json:"name,omitempty"`
	Quantity            int     `json:"quantity"`
	UnitPrice           float64 `json:"unit_price"`
	TotalPrice          float64 `json:"total_price"`
	SpecialInstructions string  `json:"special_instructions,omitempty"`
}

// Order identifies one delivery job assigned to a rider. All fields other
// than Status are read-only display data sourced from the backend.
type Order struct {
	ID              int64           `json:"id"`
	OrderNumber     string          `json:"order_number"`
	Status          OrderStatus     `json:"status"`
	RestaurantID    int64           `json:"restaurant_id"`
	RiderID         *int64          `json:"rider_id,omitempty"`
	Subtotal        float64         `json:"subtotal"`
	DeliveryFee     float64         `json:"delivery_fee"`
	Total           float64         `json:"total"`
	DeliveryDetails DeliveryDetails `json:"delivery_details"`
	PaymentDetails  PaymentDetails  `json:"payment_details"`
	Restaurant      *Restaurant     `json:"restaurant,omitempty"`
	Items           []OrderItem     `json:"items,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// FilterActive returns the orders that still need rider attention.
func FilterActive(orders []Order) []Order {
	active := make([]Order, 0, len(orders))
	for _, o := range orders {
		if o.Status.Active() {
			active = append(active, o)
		}
	}
	return active
}

// CountWithStatusOn counts orders created the same calendar day as day and
// currently in the given status. Backs the dashboard's "today" tiles.
func CountWithStatusOn(orders []Order, status OrderStatus, day time.Time) int {
	y, m, d := day.Date()
	count := 0
	for _, o := range orders {
		oy, om, od := o.CreatedAt.Date()
		if o.Status == status && oy == y && om == m && od == d {
			count++
		}
	}
	return count
}

// SortNewestFirst orders history entries by creation time, newest first.
func SortNewestFirst(orders []Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}
