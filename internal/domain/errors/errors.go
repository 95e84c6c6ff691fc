package errors

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidTransition  = errors.New("status transition not allowed")
	ErrReasonRequired     = errors.New("cancellation reason required")
	ErrInvalidPasscode    = errors.New("delivery passcode must be 4 digits")
	ErrInvalidStatus      = errors.New("invalid order status")
)
