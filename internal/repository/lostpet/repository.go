package lostpet

import (
	"context"

	"pawpals/internal/domain"
)

type Repository interface {
	Create(ctx context.Context, p domain.LostPetPost) (*domain.LostPetPost, error)
	List(ctx context.Context, filter domain.PetFilter) ([]domain.LostPetPost, error)
	GetByID(ctx context.Context, id int64) (*domain.LostPetPost, error)
	// ImageURLsByClient returns the non-empty image urls of clientID's notices.
	ImageURLsByClient(ctx context.Context, clientID int64) ([]string, error)
	// Delete removes the notice only when it belongs to clientID.
	Delete(ctx context.Context, id, clientID int64) error
}
