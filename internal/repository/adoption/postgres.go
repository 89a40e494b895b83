package adoption

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

const selectPost = `
SELECT a.id, a.client_id, a.pet_name, a.breed, a.age, a.type, a.gender, a.image_url, a.location,
       a.shelter, a.description, a.good_with_kids, a.good_with_other_pets, a.house_trained,
       a.special_needs, a.posted_at, c.name, c.email, c.phone
FROM adoptionpet a
JOIN client c ON c.id = a.client_id
`

func (r *postgresRepo) Create(ctx context.Context, p domain.AdoptionPost) (*domain.AdoptionPost, error) {
	const q = `
INSERT INTO adoptionpet (client_id, pet_name, breed, age, type, gender, image_url, location, shelter,
    description, good_with_kids, good_with_other_pets, house_trained, special_needs)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
RETURNING id
`
	var id int64
	err := r.pool.QueryRow(ctx, q, p.ClientID, p.PetName, p.Breed, p.Age, p.Type, p.Gender, p.ImageURL,
		p.Location, p.Shelter, p.Description, p.GoodWithKids, p.GoodWithOtherPets, p.HouseTrained,
		p.SpecialNeeds).Scan(&id)
	if err != nil {
		r.logger.Printf("adoption repo: create client_id=%d error=%v", p.ClientID, err)
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *postgresRepo) List(ctx context.Context, filter domain.PetFilter) ([]domain.AdoptionPost, error) {
	var (
		where []string
		args  []any
	)
	if filter.Location != "" {
		args = append(args, filter.Location)
		where = append(where, fmt.Sprintf("a.location = $%d", len(args)))
	}
	if len(filter.Types) > 0 {
		args = append(args, filter.Types)
		where = append(where, fmt.Sprintf("a.type = ANY($%d)", len(args)))
	}
	if filter.MaxAge != nil {
		args = append(args, *filter.MaxAge)
		where = append(where, fmt.Sprintf("a.age < $%d", len(args)))
	}
	q := selectPost
	if len(where) > 0 {
		q += "WHERE " + strings.Join(where, " AND ") + "\n"
	}
	q += "ORDER BY a.posted_at DESC, a.id DESC"

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		r.logger.Printf("adoption repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	out := []domain.AdoptionPost{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.AdoptionPost, error) {
	p, err := scanPost(r.pool.QueryRow(ctx, selectPost+"WHERE a.id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id, clientID int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM adoptionpet WHERE id = $1 AND client_id = $2`, id, clientID)
	if err != nil {
		r.logger.Printf("adoption repo: delete id=%d error=%v", id, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) ImageURLsByClient(ctx context.Context, clientID int64) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT image_url FROM adoptionpet WHERE client_id = $1 AND image_url <> ''`, clientID)
	if err != nil {
		r.logger.Printf("adoption repo: image urls client_id=%d error=%v", clientID, err)
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

func scanPost(row pgx.Row) (*domain.AdoptionPost, error) {
	var p domain.AdoptionPost
	err := row.Scan(&p.ID, &p.ClientID, &p.PetName, &p.Breed, &p.Age, &p.Type, &p.Gender, &p.ImageURL,
		&p.Location, &p.Shelter, &p.Description, &p.GoodWithKids, &p.GoodWithOtherPets, &p.HouseTrained,
		&p.SpecialNeeds, &p.PostedAt, &p.Owner.Name, &p.Owner.Email, &p.Owner.Phone)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
