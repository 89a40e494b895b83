package product

import (
	"context"

	"pawpals/internal/domain"
)

// Repository reads and maintains the catalog.
type Repository interface {
	List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	// Upsert inserts or updates a product matched by name.
	Upsert(ctx context.Context, p domain.Product) (*domain.Product, error)
}
