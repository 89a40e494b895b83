package category

import (
	"context"
	"fmt"
	"strings"

	"pawpals/internal/domain"
	"pawpals/internal/repository/category"
)

type Service struct {
	repo category.Repository
}

func New(repo category.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]domain.Category, error) {
	return s.repo.List(ctx)
}

func (s *Service) Upsert(ctx context.Context, c domain.Category) (*domain.Category, error) {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return nil, fmt.Errorf("%w: category name is required", domain.ErrInvalidArgument)
	}
	return s.repo.Upsert(ctx, c)
}
