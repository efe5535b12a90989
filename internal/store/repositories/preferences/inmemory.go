package preferences

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/toxidity-18/Veritas/internal/common"
	"github.com/toxidity-18/Veritas/internal/models"
)

// InMemoryRepository keys rows by user_id, mirroring the unique constraint
// the Postgres implementation relies on.
type InMemoryRepository struct {
	mu     sync.Mutex
	byUser map[string]models.UserPreferences
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{byUser: make(map[string]models.UserPreferences)}
}

func (r *InMemoryRepository) GetByUser(ctx context.Context, userID string) (*models.UserPreferences, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byUser[userID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := p
	return &cp, nil
}

func (r *InMemoryRepository) Insert(ctx context.Context, p *models.UserPreferences) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byUser[p.UserID]; ok {
		return common.ErrorAlreadyExists
	}

	now := time.Now().UTC()
	cp := *p
	cp.ID = uuid.NewString()
	cp.CreatedAt = now
	cp.UpdatedAt = now
	r.byUser[p.UserID] = cp
	return nil
}

func (r *InMemoryRepository) UpsertTheme(ctx context.Context, userID string, theme models.Theme) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byUser[userID]
	if !ok {
		p = *models.DefaultPreferences(userID)
		p.ID = uuid.NewString()
		p.CreatedAt = time.Now().UTC()
	}
	p.Theme = theme
	p.UpdatedAt = time.Now().UTC()
	r.byUser[userID] = p
	return nil
}

func (r *InMemoryRepository) UpsertNotifications(ctx context.Context, userID string, email, sms bool, freq models.NotificationFrequency) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byUser[userID]
	if !ok {
		p = *models.DefaultPreferences(userID)
		p.ID = uuid.NewString()
		p.CreatedAt = time.Now().UTC()
	}
	p.EmailNotifications = email
	p.SmsNotifications = sms
	p.NotificationFrequency = freq
	p.UpdatedAt = time.Now().UTC()
	r.byUser[userID] = p
	return nil
}

// Len reports the number of stored rows. Tests use it to assert the
// one-row-per-user invariant.
func (r *InMemoryRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byUser)
}
