package client

import (
	"context"

	"pawpals/internal/domain"
)

// Profile is the editable part of a client account.
type Profile struct {
	Name    string
	Address string
	Phone   string
	Region  string
}

// Repository persists and fetches client accounts.
type Repository interface {
	// Create stores the client together with its empty cart.
	Create(ctx context.Context, c domain.Client) (*domain.Client, error)
	GetByEmail(ctx context.Context, email string) (*domain.Client, error)
	GetByID(ctx context.Context, id int64) (*domain.Client, error)
	UpdateProfile(ctx context.Context, id int64, p Profile) (*domain.Client, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	// Delete removes the client; dependent rows go with it.
	Delete(ctx context.Context, id int64) error
}
