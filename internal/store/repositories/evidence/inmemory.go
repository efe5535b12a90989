package evidence

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/toxidity-18/Veritas/internal/models"
)

type InMemoryRepository struct {
	mu    sync.Mutex
	items map[string]models.EvidenceItem

	// ownerOf maps case id to owning user id; set via SetCaseOwner so the
	// join-through-cases semantics hold without a real case table.
	ownerOf map[string]string

	// ListErr, when set, is returned by ListByOwner.
	ListErr error
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		items:   make(map[string]models.EvidenceItem),
		ownerOf: make(map[string]string),
	}
}

// SetCaseOwner registers the owning user for a case id, standing in for the
// case_files join of the Postgres implementation.
func (r *InMemoryRepository) SetCaseOwner(caseID, userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ownerOf[caseID] = userID
}

func (r *InMemoryRepository) ListByOwner(ctx context.Context, userID string) ([]models.EvidenceItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ListErr != nil {
		return nil, r.ListErr
	}

	var result []models.EvidenceItem
	for _, e := range r.items {
		if r.ownerOf[e.CaseID] == userID {
			result = append(result, e)
		}
	}
	return result, nil
}

func (r *InMemoryRepository) Insert(ctx context.Context, item *models.EvidenceItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *item
	if cp.ID == "" {
		cp.ID = uuid.NewString()
	}
	cp.UploadedAt = time.Now().UTC()
	r.items[cp.ID] = cp
	return nil
}
