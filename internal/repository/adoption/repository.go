package adoption

import (
	"context"

	"pawpals/internal/domain"
)

type Repository interface {
	Create(ctx context.Context, p domain.AdoptionPost) (*domain.AdoptionPost, error)
	List(ctx context.Context, filter domain.PetFilter) ([]domain.AdoptionPost, error)
	GetByID(ctx context.Context, id int64) (*domain.AdoptionPost, error)
	// ImageURLsByClient returns the non-empty image urls of clientID's posts.
	ImageURLsByClient(ctx context.Context, clientID int64) ([]string, error)
	// Delete removes the post only when it belongs to clientID.
	Delete(ctx context.Context, id, clientID int64) error
}
