package preferences

import (
	"context"

	"github.com/toxidity-18/Veritas/internal/models"
)

// Repository provides access to the single user_preferences row per user.
// The unique constraint on user_id, not client-side locking, guarantees that
// concurrent upserts never produce two rows.
//
// Theme and notification settings live in the same record but are written
// through independent upserts so one group never clobbers the other.
type Repository interface {
	// GetByUser returns the preferences row for the user, or
	// common.ErrorNotFound if it was never created.
	GetByUser(ctx context.Context, userID string) (*models.UserPreferences, error)

	// Insert creates the lazily-initialized first row. A lost race against a
	// concurrent creator fails with common.ErrorAlreadyExists.
	Insert(ctx context.Context, p *models.UserPreferences) error

	// UpsertTheme writes the theme, creating the row with defaults for the
	// remaining fields when absent. Conflict key: user_id.
	UpsertTheme(ctx context.Context, userID string, theme models.Theme) error

	// UpsertNotifications writes the notification group, creating the row
	// when absent. Conflict key: user_id.
	UpsertNotifications(ctx context.Context, userID string, email, sms bool, freq models.NotificationFrequency) error
}
