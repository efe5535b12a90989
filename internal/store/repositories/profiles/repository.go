package profiles

import (
	"context"

	"github.com/toxidity-18/Veritas/internal/models"
)

// Repository provides keyed access to profile records. One profile exists
// per principal; the profile id is the principal id.
type Repository interface {
	// Get returns the profile for the given principal id, or
	// common.ErrorNotFound.
	Get(ctx context.Context, id string) (*models.Profile, error)

	// Insert creates a profile. A concurrent insert for the same id fails
	// with common.ErrorAlreadyExists; provisioning treats that as success
	// by another actor.
	Insert(ctx context.Context, p *models.Profile) error

	// UpdateEmail mirrors an email rotation performed by the authentication
	// service into the profile record.
	UpdateEmail(ctx context.Context, id string, email string) error

	// Update applies user-initiated edits (full name, phone, anonymous mode).
	Update(ctx context.Context, p *models.Profile) error

	// Delete removes the profile. Deleting an absent profile is a no-op.
	Delete(ctx context.Context, id string) error
}
