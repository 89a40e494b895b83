package reset

import (
	"context"

	"pawpals/internal/domain"
)

// Repository stores password reset codes.
type Repository interface {
	Create(ctx context.Context, r domain.PasswordReset) error
	// Consume deletes a matching, unexpired code. It returns ErrNotFound
	// when no such code exists.
	Consume(ctx context.Context, clientID int64, code string) error
	DeleteExpired(ctx context.Context) (int64, error)
}
