package evidence

import (
	"context"

	"github.com/toxidity-18/Veritas/internal/models"
)

// Repository exposes evidence items for export traversal. Ownership is
// derived through the parent case, not stored on the item itself.
type Repository interface {
	// ListByOwner returns every evidence item reachable through cases owned
	// by the user.
	ListByOwner(ctx context.Context, userID string) ([]models.EvidenceItem, error)

	// Insert stores a single item. Used by the case-management core and by
	// tests seeding export fixtures; import never calls it.
	Insert(ctx context.Context, item *models.EvidenceItem) error
}
