package domain

import "errors"

// Every error leaving a use case wraps exactly one of these. The message of
// each sentinel is chosen so that wrapped errors still read naturally, e.g.
// fmt.Errorf("product with id %d %w", id, ErrNotFound).
var (
	ErrUnauthenticated  = errors.New("could not validate user")
	ErrExpired          = errors.New("token expired")
	ErrForbidden        = errors.New("you must be an admin user for this")
	ErrNotFound         = errors.New("not found")
	ErrInvalidOperation = errors.New("invalid operation")
	ErrInvalidParent    = errors.New("invalid parent category")
	ErrConflict         = errors.New("already exists")
	ErrEmptyCart        = errors.New("cart is empty")
	ErrCheckoutFailed   = errors.New("checkout failed")
	ErrInvalidInput     = errors.New("invalid input")
)
