package product

import (
	"context"
	"fmt"

	"pawpals/internal/domain"
)

type catalog interface {
	List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
}

type Service struct {
	repo catalog
}

// New accepts the product repository or the cache in front of it.
func New(repo catalog) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	if filter.MaxPrice != nil && filter.MaxPrice.IsNegative() {
		return nil, fmt.Errorf("%w: maxPrice must not be negative", domain.ErrInvalidArgument)
	}
	return s.repo.List(ctx, filter)
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Product, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid product id", domain.ErrInvalidArgument)
	}
	return s.repo.GetByID(ctx, id)
}
