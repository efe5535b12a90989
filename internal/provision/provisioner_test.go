package provision

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/toxidity-18/Veritas/internal/common"
	"github.com/toxidity-18/Veritas/internal/logging"
	"github.com/toxidity-18/Veritas/internal/models"
	"github.com/toxidity-18/Veritas/internal/store/repositories/profiles"
)

// flakyRepo injects failures around the in-memory repository.
type flakyRepo struct {
	*profiles.InMemoryRepository
	getErr    error
	insertErr error

	insertCalls int
}

func (f *flakyRepo) Get(ctx context.Context, id string) (*models.Profile, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.InMemoryRepository.Get(ctx, id)
}

func (f *flakyRepo) Insert(ctx context.Context, p *models.Profile) error {
	f.insertCalls++
	if f.insertErr != nil {
		return f.insertErr
	}
	return f.InMemoryRepository.Insert(ctx, p)
}

func newTestProvisioner() (*Provisioner, *flakyRepo) {
	repo := &flakyRepo{InMemoryRepository: profiles.NewInMemoryRepository()}
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return NewProvisioner(repo, logger), repo
}

func TestEnsureProfile_CreatesOnFirstSession(t *testing.T) {
	p, repo := newTestProvisioner()
	sess := &models.Session{PrincipalID: "u-1", Email: "alice@example.com"}

	require.NoError(t, p.EnsureProfile(context.Background(), sess))

	got, err := repo.Get(context.Background(), "u-1")
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", got.Email)
	require.False(t, got.AnonymousMode)
}

func TestEnsureProfile_Idempotent(t *testing.T) {
	p, repo := newTestProvisioner()
	sess := &models.Session{PrincipalID: "u-1", Email: "alice@example.com"}

	require.NoError(t, p.EnsureProfile(context.Background(), sess))
	require.NoError(t, p.EnsureProfile(context.Background(), sess))

	require.Equal(t, 1, repo.insertCalls)
}

func TestEnsureProfile_NilSession(t *testing.T) {
	p, repo := newTestProvisioner()

	require.NoError(t, p.EnsureProfile(context.Background(), nil))
	require.Equal(t, 0, repo.insertCalls)
}

func TestEnsureProfile_ConflictIsSuccess(t *testing.T) {
	p, repo := newTestProvisioner()
	repo.insertErr = common.ErrorAlreadyExists

	sess := &models.Session{PrincipalID: "u-1", Email: "alice@example.com"}
	require.NoError(t, p.EnsureProfile(context.Background(), sess))
}

func TestEnsureProfile_LookupFailureSurfaces(t *testing.T) {
	p, repo := newTestProvisioner()
	repo.getErr = errors.New("store down")

	sess := &models.Session{PrincipalID: "u-1", Email: "alice@example.com"}
	err := p.EnsureProfile(context.Background(), sess)
	require.ErrorContains(t, err, "profile lookup error")
}

func TestEnsureProfile_InsertFailureSurfaces(t *testing.T) {
	p, repo := newTestProvisioner()
	repo.insertErr = errors.New("store down")

	sess := &models.Session{PrincipalID: "u-1", Email: "alice@example.com"}
	err := p.EnsureProfile(context.Background(), sess)
	require.ErrorContains(t, err, "profile creation error")
}
