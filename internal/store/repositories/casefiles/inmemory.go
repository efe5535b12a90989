package casefiles

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/toxidity-18/Veritas/internal/models"
)

type InMemoryRepository struct {
	mu    sync.Mutex
	cases map[string]models.CaseFile

	// ListErr, when set, is returned by ListByUser. Lets tests exercise the
	// export path's default-to-empty behavior.
	ListErr error
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{cases: make(map[string]models.CaseFile)}
}

func (r *InMemoryRepository) ListByUser(ctx context.Context, userID string) ([]models.CaseFile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ListErr != nil {
		return nil, r.ListErr
	}

	var result []models.CaseFile
	for _, c := range r.cases {
		if c.UserID == userID {
			result = append(result, c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (r *InMemoryRepository) InsertBatch(ctx context.Context, cases []*models.CaseFile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	for _, c := range cases {
		cp := *c
		if cp.ID == "" {
			cp.ID = uuid.NewString()
		}
		cp.CreatedAt = now
		cp.UpdatedAt = now
		r.cases[cp.ID] = cp
	}
	return nil
}
