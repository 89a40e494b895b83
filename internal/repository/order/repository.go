package order

import (
	"context"

	"pawpals/internal/domain"
)

// Repository reads order history. Orders are written by the cart store
// during checkout.
type Repository interface {
	ListOrders(ctx context.Context, clientID int64) ([]domain.Order, error)
	GetOrder(ctx context.Context, clientID, orderID int64) (*domain.Order, error)
}
