package preferences

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

func (r *PostgresRepository) GetByUser(ctx context.Context, userID string) (*models.UserPreferences, error) {
	query :=
		`SELECT id, user_id, theme, email_notifications, sms_notifications,
		        notification_frequency, created_at, updated_at
		 FROM user_preferences
		 WHERE user_id = $1
		 `

	p := &models.UserPreferences{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&p.ID, &p.UserID, &p.Theme, &p.EmailNotifications, &p.SmsNotifications,
		&p.NotificationFrequency, &p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return p, nil
}

func (r *PostgresRepository) Insert(ctx context.Context, p *models.UserPreferences) error {
	query :=
		`INSERT INTO user_preferences
		   (user_id, theme, email_notifications, sms_notifications, notification_frequency)
		 VALUES ($1, $2, $3, $4, $5)
		 `

	_, err := r.db.ExecContext(ctx, query,
		p.UserID, p.Theme, p.EmailNotifications, p.SmsNotifications, p.NotificationFrequency)

	if err != nil {
		if store.IsUniqueViolation(err) {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) UpsertTheme(ctx context.Context, userID string, theme models.Theme) error {
	query :=
		`INSERT INTO user_preferences (user_id, theme)
		 VALUES ($1, $2)
		 ON CONFLICT (user_id) DO UPDATE SET theme = excluded.theme, updated_at = now()
		 `

	if _, err := r.db.ExecContext(ctx, query, userID, theme); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) UpsertNotifications(ctx context.Context, userID string, email, sms bool, freq models.NotificationFrequency) error {
	query :=
		`INSERT INTO user_preferences
		   (user_id, email_notifications, sms_notifications, notification_frequency)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id) DO UPDATE
		 SET email_notifications = excluded.email_notifications,
		     sms_notifications = excluded.sms_notifications,
		     notification_frequency = excluded.notification_frequency,
		     updated_at = now()
		 `

	if _, err := r.db.ExecContext(ctx, query, userID, email, sms, freq); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}
