package cart

import (
	"context"

	"github.com/shopspring/decimal"

	"pawpals/internal/domain"
)

// Store runs cart and checkout work as one unit. If fn returns an error
// nothing it wrote is kept.
type Store interface {
	InTx(ctx context.Context, fn func(tx Tx) error) error
}

// Tx exposes the store primitives available inside a unit of work.
type Tx interface {
	// CartID returns the client's cart id or domain.ErrNotFound. The cart row
	// stays locked until the unit of work ends, so work on one cart is serialized
	// before any line or product row is touched.
	CartID(ctx context.Context, clientID int64) (int64, error)
	// EnsureCart returns the client's cart id, creating the cart if needed.
	// Like CartID it locks the cart row.
	EnsureCart(ctx context.Context, clientID int64) (int64, error)
	// Lines returns the cart lines joined with their products, oldest first.
	Lines(ctx context.Context, cartID int64) ([]domain.CartLine, error)
	// LockLines is Lines ordered by product id with the lines and products
	// locked until the unit of work ends.
	LockLines(ctx context.Context, cartID int64) ([]domain.CartLine, error)
	// Product returns the product or domain.ErrNotFound. Its stock cannot
	// change until the unit of work ends.
	Product(ctx context.Context, productID int64) (*domain.Product, error)
	// LineQuantity returns the stored quantity or domain.ErrNotFound.
	LineQuantity(ctx context.Context, cartID, productID int64) (int, error)
	// AddLineQuantity merges delta into the line, creating it if needed, and
	// caps the result at ceiling. It returns the stored quantity and whether
	// the cap was applied.
	AddLineQuantity(ctx context.Context, cartID, productID int64, delta, ceiling int) (int, bool, error)
	// SetLineQuantity overwrites an existing line or returns domain.ErrNotFound.
	SetLineQuantity(ctx context.Context, cartID, productID int64, quantity int) error
	// DeleteLine removes a line. Missing lines are not an error.
	DeleteLine(ctx context.Context, cartID, productID int64) error
	ClearLines(ctx context.Context, cartID int64) error

	CreateOrder(ctx context.Context, clientID int64, total decimal.Decimal) (domain.Order, error)
	AddOrderLine(ctx context.Context, line domain.OrderLine) error
	// DecrementStock subtracts quantity from the product stock, or returns
	// domain.ErrInsufficientStock when that would go below zero.
	DecrementStock(ctx context.Context, productID int64, quantity int) error
}
