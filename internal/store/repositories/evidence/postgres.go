package evidence

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

// ListByOwner joins through case_files: evidence has no ownership field of
// its own.
func (r *PostgresRepository) ListByOwner(ctx context.Context, userID string) ([]models.EvidenceItem, error) {
	query :=
		`SELECT e.id, e.case_id, e.file_url, e.file_type, e.extracted_text,
		        e.metadata, e.harm_detected, e.threat_level, e.uploaded_at
		 FROM evidence_items e
		 JOIN case_files c ON c.id = e.case_id
		 WHERE c.user_id = $1
		 ORDER BY e.uploaded_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.EvidenceItem
	for rows.Next() {
		var e models.EvidenceItem
		var metadata []byte
		if err := rows.Scan(&e.ID, &e.CaseID, &e.FileURL, &e.FileType, &e.ExtractedText,
			&metadata, &e.HarmDetected, &e.ThreatLevel, &e.UploadedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &e.Metadata); err != nil {
				return nil, fmt.Errorf("metadata decode error: %w", err)
			}
		}
		result = append(result, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Insert(ctx context.Context, item *models.EvidenceItem) error {
	query :=
		`INSERT INTO evidence_items
		   (id, case_id, file_url, file_type, extracted_text, metadata, harm_detected, threat_level)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 `

	metadata, err := json.Marshal(item.Metadata)
	if err != nil {
		return fmt.Errorf("metadata encode error: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query,
		item.ID, item.CaseID, item.FileURL, item.FileType, item.ExtractedText,
		metadata, item.HarmDetected, item.ThreatLevel); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}
