package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness constraint was violated.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidArgument marks caller input that failed validation.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnauthenticated is returned when no valid identity token was presented.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden is returned when the caller does not own the resource.
	ErrForbidden = errors.New("forbidden")
	// ErrEmptyCart is returned when checkout is attempted on a cart with no lines.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrOutOfStock is returned when a product with no stock is added to a cart.
	ErrOutOfStock = errors.New("product out of stock")
	// ErrInsufficientStock is returned when checkout cannot decrement stock for a line.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrCheckoutFailed hides store failures that aborted a checkout.
	ErrCheckoutFailed = errors.New("checkout failed")
)
