package client

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"pawpals/internal/domain"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

const clientColumns = `id, name, email, password_hash, address, phone, region, created_at`

func (r *postgresRepo) Create(ctx context.Context, c domain.Client) (*domain.Client, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	const q = `
INSERT INTO client (name, email, password_hash, address, phone, region)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + clientColumns
	created, err := r.scanClient(tx.QueryRow(ctx, q,
		c.Name,
		strings.ToLower(c.Email),
		c.PasswordHash,
		c.Address,
		c.Phone,
		c.Region,
	))
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, `INSERT INTO panier (client_id) VALUES ($1)`, created.ID); err != nil {
		r.logger.Printf("client repo: create cart client_id=%d error=%v", created.ID, err)
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

func (r *postgresRepo) GetByEmail(ctx context.Context, email string) (*domain.Client, error) {
	const q = `SELECT ` + clientColumns + ` FROM client WHERE lower(email) = lower($1) LIMIT 1`
	return r.scanClient(r.pool.QueryRow(ctx, q, strings.TrimSpace(email)))
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.Client, error) {
	const q = `SELECT ` + clientColumns + ` FROM client WHERE id = $1`
	return r.scanClient(r.pool.QueryRow(ctx, q, id))
}

func (r *postgresRepo) UpdateProfile(ctx context.Context, id int64, p Profile) (*domain.Client, error) {
	const q = `
UPDATE client
SET name = $2, address = $3, phone = $4, region = $5
WHERE id = $1
RETURNING ` + clientColumns
	return r.scanClient(r.pool.QueryRow(ctx, q, id, p.Name, p.Address, p.Phone, p.Region))
}

func (r *postgresRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE client SET password_hash = $2 WHERE id = $1`, id, passwordHash)
	if err != nil {
		r.logger.Printf("client repo: update password id=%d error=%v", id, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM client WHERE id = $1`, id)
	if err != nil {
		r.logger.Printf("client repo: delete id=%d error=%v", id, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) scanClient(row pgx.Row) (*domain.Client, error) {
	var c domain.Client
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Email,
		&c.PasswordHash,
		&c.Address,
		&c.Phone,
		&c.Region,
		&c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Printf("client repo: scan error=%v", err)
		return nil, err
	}
	return &c, nil
}
