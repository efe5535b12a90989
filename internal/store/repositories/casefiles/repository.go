package casefiles

import (
	"context"

	"github.com/toxidity-18/Veritas/internal/models"
)

// Repository gives the portability engine its read-only export traversal and
// insert-only import path over case files. The case lifecycle itself belongs
// to the case-management core.
type Repository interface {
	// ListByUser returns every case owned by the user, newest first.
	ListByUser(ctx context.Context, userID string) ([]models.CaseFile, error)

	// InsertBatch inserts all cases or none. Import relies on it being
	// insert-only: existing records are never updated or removed.
	InsertBatch(ctx context.Context, cases []*models.CaseFile) error
}
