package casefiles

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/toxidity-18/Veritas/internal/dbx"
	"github.com/toxidity-18/Veritas/internal/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]models.CaseFile, error) {
	query :=
		`SELECT id, user_id, title, description, status, social_media_platforms, created_at, updated_at
		 FROM case_files
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.CaseFile
	for rows.Next() {
		var c models.CaseFile
		var platforms []byte
		if err := rows.Scan(&c.ID, &c.UserID, &c.Title, &c.Description, &c.Status,
			&platforms, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if len(platforms) > 0 {
			if err := json.Unmarshal(platforms, &c.SocialMediaPlatforms); err != nil {
				return nil, fmt.Errorf("platforms decode error: %w", err)
			}
		}
		result = append(result, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) InsertBatch(ctx context.Context, cases []*models.CaseFile) error {
	query :=
		`INSERT INTO case_files (id, user_id, title, description, status, social_media_platforms)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 `

	for _, c := range cases {
		platforms, err := json.Marshal(c.SocialMediaPlatforms)
		if err != nil {
			return fmt.Errorf("platforms encode error: %w", err)
		}
		if _, err := r.db.ExecContext(ctx, query,
			c.ID, c.UserID, c.Title, c.Description, c.Status, platforms); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
	}

	return nil
}
