package services

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUserInactive       = errors.New("user account is deactivated")
	ErrOrderNotFound      = errors.New("order not found")
	ErrListingNotFound    = errors.New("listing not found")
	ErrForbidden          = errors.New("insufficient permissions")
	ErrInvalidTransition  = errors.New("status transition not allowed")
	ErrNotTerminal        = errors.New("only completed or cancelled orders can be removed")
	ErrInvalidQuantity    = errors.New("quantity must be at least 1 for product orders")
)
