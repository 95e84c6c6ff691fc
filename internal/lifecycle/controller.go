package lifecycle

import (
	"context"
	"log/slog"

	domainErrors "github.com/openmenu/riderapp/internal/domain/errors"
	"github.com/openmenu/riderapp/internal/domain/model"
)

// RequiredInput names the confirmation data a transition must carry.
type RequiredInput int

const (
	InputNone RequiredInput = iota
	InputReason
	InputPasscode
)

// RequirementFor returns the confirmation input required to move an order
// from one status to another, or ErrInvalidTransition when the pair is not a
// rider-side transition.
func RequirementFor(from, to model.OrderStatus) (RequiredInput, error) {
	if !from.CanTransition(to) {
		return InputNone, domainErrors.ErrInvalidTransition
	}
	switch to {
	case model.OrderStatusCancelled:
		return InputReason, nil
	case model.OrderStatusDelivered:
		return InputPasscode, nil
	default:
		return InputNone, nil
	}
}

// OrderCommander is the slice of the order store the controller drives.
type OrderCommander interface {
	OrderByID(orderID int64) (model.Order, bool)
	UpdateOrderStatus(ctx context.Context, orderID int64, target model.OrderStatus, reason, passcode string) error
}

// Controller owns the rider-side transition rules: which status changes are
// legal, what confirmation each requires, and the single command issued to
// the store once inputs validate.
type Controller struct {
	orders        OrderCommander
	cancelReasons []string
	logger        *slog.Logger
}

// NewController constructs the lifecycle controller. An empty presets slice
// falls back to DefaultCancelReasons.
func NewController(orders OrderCommander, cancelReasons []string, logger *slog.Logger) *Controller {
	if len(cancelReasons) == 0 {
		cancelReasons = DefaultCancelReasons
	}
	return &Controller{orders: orders, cancelReasons: cancelReasons, logger: logger}
}

// CancelReasons returns the preset reason menu for the cancellation dialog.
// "Other" is a UI affordance on top of this list, not an entry in it.
func (c *Controller) CancelReasons() []string {
	out := make([]string, len(c.cancelReasons))
	copy(out, c.cancelReasons)
	return out
}

// AvailableTransitions returns the targets the UI may offer for an order.
func (c *Controller) AvailableTransitions(orderID int64) []model.OrderStatus {
	order, ok := c.orders.OrderByID(orderID)
	if !ok {
		return nil
	}
	return order.Status.RiderTargets()
}

// StartDelivery moves a ready order out for delivery. No confirmation data
// is required beyond the caller's yes/no prompt.
func (c *Controller) StartDelivery(ctx context.Context, orderID int64) error {
	return c.execute(ctx, orderID, model.OrderStatusOnTheWay, "", "")
}

// Cancel exits an order from ready or on_the_way with a reason. The reason
// is resolved and validated before any command is issued.
func (c *Controller) Cancel(ctx context.Context, orderID int64, reason Reason) error {
	text, err := reason.Effective()
	if err != nil {
		return err
	}
	return c.execute(ctx, orderID, model.OrderStatusCancelled, text, "")
}

// ConfirmDelivery completes an on_the_way order with the customer's 4-digit
// passcode. Shape errors are caught client-side; a backend rejection comes
// back unchanged so the dialog can show it inline and keep its fields.
func (c *Controller) ConfirmDelivery(ctx context.Context, orderID int64, passcode string) error {
	if err := ValidatePasscode(passcode); err != nil {
		return err
	}
	return c.execute(ctx, orderID, model.OrderStatusDelivered, "", passcode)
}

func (c *Controller) execute(ctx context.Context, orderID int64, target model.OrderStatus, reason, passcode string) error {
	order, ok := c.orders.OrderByID(orderID)
	if !ok {
		return domainErrors.ErrNotFound
	}
	if !order.Status.CanTransition(target) {
		return domainErrors.ErrInvalidTransition
	}

	if err := c.orders.UpdateOrderStatus(ctx, orderID, target, reason, passcode); err != nil {
		return err
	}

	c.logger.Info("order status updated",
		slog.Int64("order_id", orderID),
		slog.String("from", order.Status.String()),
		slog.String("to", target.String()),
	)
	return nil
}
