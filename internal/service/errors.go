package service

import "errors"

var (
	ErrInvalidQuantity       = errors.New("quantity must be at least 1")
	ErrNotAuthenticated      = errors.New("no authenticated identity")
	ErrEmptyCart             = errors.New("cart has no items")
	ErrNoShippingAddress     = errors.New("no shipping address selected")
	ErrNoBillingAddress      = errors.New("no billing address selected")
	ErrTooManyPreferredDates = errors.New("at most three preferred dates are allowed")
)
