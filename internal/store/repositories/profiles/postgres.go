package profiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/toxidity-18/Veritas/internal/common"
	"github.com/toxidity-18/Veritas/internal/dbx"
	"github.com/toxidity-18/Veritas/internal/models"
	"github.com/toxidity-18/Veritas/internal/store"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Profile, error) {
	query :=
		`SELECT id, email, full_name, phone, anonymous_mode, created_at, updated_at
		 FROM profiles
		 WHERE id = $1
		 `

	p := &models.Profile{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Email, &p.FullName, &p.Phone, &p.AnonymousMode, &p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return p, nil
}

func (r *PostgresRepository) Insert(ctx context.Context, p *models.Profile) error {
	query :=
		`INSERT INTO profiles (id, email, full_name, phone, anonymous_mode)
		 VALUES ($1, $2, $3, $4, $5)
		 `

	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.Email, p.FullName, p.Phone, p.AnonymousMode)

	if err != nil {
		if store.IsUniqueViolation(err) {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) UpdateEmail(ctx context.Context, id string, email string) error {
	query :=
		`UPDATE profiles SET email = $2, updated_at = now()
		 WHERE id = $1
		 `

	if _, err := r.db.ExecContext(ctx, query, id, email); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, p *models.Profile) error {
	query :=
		`UPDATE profiles
		 SET full_name = $2, phone = $3, anonymous_mode = $4, updated_at = now()
		 WHERE id = $1
		 `

	if _, err := r.db.ExecContext(ctx, query, p.ID, p.FullName, p.Phone, p.AnonymousMode); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM profiles WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}
