package lostpet

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pawpals/internal/domain"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

const selectNotice = `
SELECT l.id, l.client_id, l.pet_name, l.breed, l.age, l.type, l.image_url, l.date_lost, l.location,
       l.description, l.posted_at, c.name, c.email, c.phone
FROM lostpet l
JOIN client c ON c.id = l.client_id
`

func (r *postgresRepo) Create(ctx context.Context, p domain.LostPetPost) (*domain.LostPetPost, error) {
	const q = `
INSERT INTO lostpet (client_id, pet_name, breed, age, type, image_url, date_lost, location, description)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id
`
	var id int64
	err := r.pool.QueryRow(ctx, q, p.ClientID, p.PetName, p.Breed, p.Age, p.Type, p.ImageURL, p.DateLost,
		p.Location, p.Description).Scan(&id)
	if err != nil {
		r.logger.Printf("lostpet repo: create client_id=%d error=%v", p.ClientID, err)
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *postgresRepo) List(ctx context.Context, filter domain.PetFilter) ([]domain.LostPetPost, error) {
	var (
		where []string
		args  []any
	)
	if filter.Location != "" {
		args = append(args, filter.Location)
		where = append(where, fmt.Sprintf("l.location = $%d", len(args)))
	}
	if len(filter.Types) > 0 {
		args = append(args, filter.Types)
		where = append(where, fmt.Sprintf("l.type = ANY($%d)", len(args)))
	}
	if filter.MaxAge != nil {
		args = append(args, *filter.MaxAge)
		where = append(where, fmt.Sprintf("l.age < $%d", len(args)))
	}
	q := selectNotice
	if len(where) > 0 {
		q += "WHERE " + strings.Join(where, " AND ") + "\n"
	}
	q += "ORDER BY l.posted_at DESC, l.id DESC"

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		r.logger.Printf("lostpet repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	out := []domain.LostPetPost{}
	for rows.Next() {
		p, err := scanNotice(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.LostPetPost, error) {
	p, err := scanNotice(r.pool.QueryRow(ctx, selectNotice+"WHERE l.id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id, clientID int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM lostpet WHERE id = $1 AND client_id = $2`, id, clientID)
	if err != nil {
		r.logger.Printf("lostpet repo: delete id=%d error=%v", id, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) ImageURLsByClient(ctx context.Context, clientID int64) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT image_url FROM lostpet WHERE client_id = $1 AND image_url <> ''`, clientID)
	if err != nil {
		r.logger.Printf("lostpet repo: image urls client_id=%d error=%v", clientID, err)
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

func scanNotice(row pgx.Row) (*domain.LostPetPost, error) {
	var p domain.LostPetPost
	err := row.Scan(&p.ID, &p.ClientID, &p.PetName, &p.Breed, &p.Age, &p.Type, &p.ImageURL, &p.DateLost,
		&p.Location, &p.Description, &p.PostedAt, &p.Owner.Name, &p.Owner.Email, &p.Owner.Phone)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
