package profiles

import (
	"context"
	"sync"
	"time"

	"github.com/toxidity-18/Veritas/internal/common"
	"github.com/toxidity-18/Veritas/internal/models"
)

// InMemoryRepository is a map-backed Repository used in tests and as a
// stand-in store. The uniqueness of the id key is enforced the same way the
// Postgres implementation does it, so race handling can be exercised
// without a database.
type InMemoryRepository struct {
	mu       sync.Mutex
	profiles map[string]models.Profile
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{profiles: make(map[string]models.Profile)}
}

func (r *InMemoryRepository) Get(ctx context.Context, id string) (*models.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.profiles[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := p
	return &cp, nil
}

func (r *InMemoryRepository) Insert(ctx context.Context, p *models.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.profiles[p.ID]; ok {
		return common.ErrorAlreadyExists
	}

	now := time.Now().UTC()
	cp := *p
	cp.CreatedAt = now
	cp.UpdatedAt = now
	r.profiles[p.ID] = cp
	return nil
}

func (r *InMemoryRepository) UpdateEmail(ctx context.Context, id string, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.profiles[id]
	if !ok {
		return nil
	}
	p.Email = email
	p.UpdatedAt = time.Now().UTC()
	r.profiles[id] = p
	return nil
}

func (r *InMemoryRepository) Update(ctx context.Context, in *models.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.profiles[in.ID]
	if !ok {
		return nil
	}
	p.FullName = in.FullName
	p.Phone = in.Phone
	p.AnonymousMode = in.AnonymousMode
	p.UpdatedAt = time.Now().UTC()
	r.profiles[in.ID] = p
	return nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.profiles, id)
	return nil
}
