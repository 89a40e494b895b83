package client

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"pawpals/internal/domain"
	resetrepo "pawpals/internal/repository/reset"
)

const resetCodeTTL = 15 * time.Minute

type codeManager struct {
	repo resetrepo.Repository
	now  func() time.Time
}

func newCodeManager(repo resetrepo.Repository) *codeManager {
	return &codeManager{repo: repo, now: time.Now}
}

// Issue stores a fresh 8-digit code for the client.
func (m *codeManager) Issue(ctx context.Context, clientID int64) (string, error) {
	expiresAt := m.now().Add(resetCodeTTL)
	for i := 0; i < 5; i++ {
		code, err := randomCode()
		if err != nil {
			return "", err
		}
		err = m.repo.Create(ctx, domain.PasswordReset{
			Code:      code,
			ClientID:  clientID,
			ExpiresAt: expiresAt,
		})
		if err == nil {
			return code, nil
		}
		if errors.Is(err, domain.ErrAlreadyExists) {
			continue
		}
		return "", err
	}
	return "", errors.New("reset code collision")
}

// Consume accepts a code once, and only before it expires.
func (m *codeManager) Consume(ctx context.Context, clientID int64, code string) error {
	if len(code) != 8 {
		return fmt.Errorf("%w: invalid or expired code", domain.ErrInvalidArgument)
	}
	if err := m.repo.Consume(ctx, clientID, code); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: invalid or expired code", domain.ErrInvalidArgument)
		}
		return err
	}
	return nil
}

func randomCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(100_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%08d", n.Int64()), nil
}
