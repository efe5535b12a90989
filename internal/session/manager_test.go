package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/toxidity-18/Veritas/internal/common"
	"github.com/toxidity-18/Veritas/internal/logging"
	"github.com/toxidity-18/Veritas/internal/models"
	"github.com/toxidity-18/Veritas/internal/provision"
	"github.com/toxidity-18/Veritas/internal/store/repositories/profiles"
)

// fakeProvider records calls and lets tests inject failures per operation.
// principalID overrides the id assigned to new sessions; empty means "u-1".
type fakeProvider struct {
	mu          sync.Mutex
	current     *models.Session
	principalID string

	signUpCalls         int
	updatePasswordCalls int
	removeCalls         int
	removed             []string

	signUpErr         error
	confirmErr        error
	signInErr         error
	signOutErr        error
	updateEmailErr    error
	updatePasswordErr error
	removeErr         error

	subscribers []func(models.SessionEvent)
}

func (f *fakeProvider) SignUp(ctx context.Context, email string, password []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signUpCalls++
	if f.signUpErr != nil {
		return "", f.signUpErr
	}
	return "confirm-token", nil
}

func (f *fakeProvider) ConfirmSignUp(ctx context.Context, token string) (*models.Session, error) {
	if f.confirmErr != nil {
		return nil, f.confirmErr
	}
	sess := &models.Session{PrincipalID: f.pid(), Email: "alice@example.com", IssuedAt: time.Now()}
	f.mu.Lock()
	f.current = sess
	f.mu.Unlock()
	return sess, nil
}

func (f *fakeProvider) SignIn(ctx context.Context, email string, password []byte) (*models.Session, error) {
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	sess := &models.Session{PrincipalID: f.pid(), Email: email, IssuedAt: time.Now()}
	f.mu.Lock()
	f.current = sess
	f.mu.Unlock()
	return sess, nil
}

func (f *fakeProvider) SignOut(ctx context.Context) error {
	if f.signOutErr != nil {
		return f.signOutErr
	}
	f.mu.Lock()
	f.current = nil
	f.mu.Unlock()
	return nil
}

func (f *fakeProvider) UpdateEmail(ctx context.Context, newEmail string) error {
	if f.updateEmailErr != nil {
		return f.updateEmailErr
	}
	f.mu.Lock()
	if f.current != nil {
		cp := *f.current
		cp.Email = newEmail
		f.current = &cp
	}
	f.mu.Unlock()
	return nil
}

func (f *fakeProvider) UpdatePassword(ctx context.Context, newPassword []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updatePasswordCalls++
	return f.updatePasswordErr
}

func (f *fakeProvider) RemovePrincipal(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removeCalls++
	if f.removeErr != nil {
		return f.removeErr
	}
	f.removed = append(f.removed, id)
	return nil
}

func (f *fakeProvider) Current() *models.Session {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

func (f *fakeProvider) Subscribe(fn func(models.SessionEvent)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subscribers = append(f.subscribers, fn)
	return func() {}
}

func (f *fakeProvider) pid() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.principalID == "" {
		return "u-1"
	}
	return f.principalID
}

func (f *fakeProvider) emit(ev models.SessionEvent) {
	f.mu.Lock()
	subs := append([]func(models.SessionEvent){}, f.subscribers...)
	f.mu.Unlock()
	for _, fn := range subs {
		fn(ev)
	}
}

// countingProfiles wraps the in-memory repository to count deletions and
// inject per-operation failures.
type countingProfiles struct {
	*profiles.InMemoryRepository
	deleteCalls    int
	deleteErr      error
	updateEmailErr error
}

func (c *countingProfiles) Delete(ctx context.Context, id string) error {
	c.deleteCalls++
	if c.deleteErr != nil {
		return c.deleteErr
	}
	return c.InMemoryRepository.Delete(ctx, id)
}

func (c *countingProfiles) UpdateEmail(ctx context.Context, id string, email string) error {
	if c.updateEmailErr != nil {
		return c.updateEmailErr
	}
	return c.InMemoryRepository.UpdateEmail(ctx, id, email)
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newTestManager(t *testing.T) (*Manager, *fakeProvider, *countingProfiles) {
	t.Helper()
	provider := &fakeProvider{}
	repo := &countingProfiles{InMemoryRepository: profiles.NewInMemoryRepository()}
	logger := testLogger()
	m := NewManager(provider, repo, provision.NewProvisioner(repo, logger), logger)
	return m, provider, repo
}

func TestSignUp_ShortPasswordNoRemoteCall(t *testing.T) {
	m, provider, _ := newTestManager(t)

	_, err := m.SignUp(context.Background(), "alice@example.com", []byte("abc"))
	require.ErrorIs(t, err, common.ErrorCredentials)
	require.Equal(t, 0, provider.signUpCalls)
}

func TestSignUp_NeverEstablishesSession(t *testing.T) {
	m, _, _ := newTestManager(t)

	token, err := m.SignUp(context.Background(), "alice@example.com", []byte("secret1"))
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.Nil(t, m.Current())
	require.Equal(t, StateUnauthenticated, m.State())
}

func TestConfirmSignUp_EstablishesSessionAndProvisions(t *testing.T) {
	m, _, repo := newTestManager(t)

	require.NoError(t, m.ConfirmSignUp(context.Background(), "confirm-token"))
	require.Equal(t, StateAuthenticated, m.State())

	p, err := repo.Get(context.Background(), "u-1")
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", p.Email)
}

func TestSignIn_ProvisionsProfile(t *testing.T) {
	m, _, repo := newTestManager(t)

	require.NoError(t, m.SignIn(context.Background(), "alice@example.com", []byte("secret1")))
	require.Equal(t, StateAuthenticated, m.State())

	_, err := repo.Get(context.Background(), "u-1")
	require.NoError(t, err)
}

func TestSignIn_FailureResetsState(t *testing.T) {
	m, provider, _ := newTestManager(t)
	provider.signInErr = common.ErrorCredentials

	err := m.SignIn(context.Background(), "alice@example.com", []byte("wrongpw"))
	require.ErrorIs(t, err, common.ErrorCredentials)
	require.Equal(t, StateUnauthenticated, m.State())
}

func TestSignIn_ProvisioningIsIdempotent(t *testing.T) {
	m, _, repo := newTestManager(t)

	require.NoError(t, repo.Insert(context.Background(), &models.Profile{
		ID: "u-1", Email: "alice@example.com", FullName: "Alice",
	}))

	require.NoError(t, m.SignIn(context.Background(), "alice@example.com", []byte("secret1")))

	p, err := repo.Get(context.Background(), "u-1")
	require.NoError(t, err)
	require.Equal(t, "Alice", p.FullName)
}

func TestSignOut_NoSessionIsNoop(t *testing.T) {
	m, _, _ := newTestManager(t)

	require.NoError(t, m.SignOut(context.Background()))
	require.Equal(t, StateUnauthenticated, m.State())
}

func TestUpdateEmail_Unauthenticated(t *testing.T) {
	m, _, _ := newTestManager(t)

	err := m.UpdateEmail(context.Background(), "new@example.com")
	require.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestUpdateEmail_MirrorsIntoProfile(t *testing.T) {
	m, _, repo := newTestManager(t)
	require.NoError(t, m.SignIn(context.Background(), "alice@example.com", []byte("secret1")))

	require.NoError(t, m.UpdateEmail(context.Background(), "new@example.com"))

	p, err := repo.Get(context.Background(), "u-1")
	require.NoError(t, err)
	require.Equal(t, "new@example.com", p.Email)
}

func TestUpdateEmail_PartialFailure(t *testing.T) {
	m, provider, repo := newTestManager(t)
	require.NoError(t, m.SignIn(context.Background(), "alice@example.com", []byte("secret1")))

	repo.updateEmailErr = errors.New("profiles down")

	err := m.UpdateEmail(context.Background(), "new@example.com")

	var partial *common.PartialUpdateError
	require.ErrorAs(t, err, &partial)
	require.Equal(t, "email rotation", partial.Op)

	// The rotation itself stands even though the mirror failed.
	require.Equal(t, "new@example.com", provider.Current().Email)
}

func TestUpdatePassword_ShortNoRemoteCall(t *testing.T) {
	m, provider, _ := newTestManager(t)
	require.NoError(t, m.SignIn(context.Background(), "alice@example.com", []byte("secret1")))

	err := m.UpdatePassword(context.Background(), []byte("abc"))
	require.ErrorIs(t, err, common.ErrorValidation)
	require.Equal(t, 0, provider.updatePasswordCalls)
}

func TestDeleteAccount_Success(t *testing.T) {
	m, provider, repo := newTestManager(t)
	require.NoError(t, m.SignIn(context.Background(), "alice@example.com", []byte("secret1")))

	require.NoError(t, m.DeleteAccount(context.Background()))

	require.Equal(t, StateUnauthenticated, m.State())
	require.Equal(t, StepNone, m.Checkpoint())
	require.Equal(t, []string{"u-1"}, provider.removed)

	_, err := repo.Get(context.Background(), "u-1")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestDeleteAccount_PartialFailureResumes(t *testing.T) {
	m, provider, repo := newTestManager(t)
	require.NoError(t, m.SignIn(context.Background(), "alice@example.com", []byte("secret1")))

	provider.removeErr = errors.New("store down")

	err := m.DeleteAccount(context.Background())

	var dErr *DeletionError
	require.ErrorAs(t, err, &dErr)
	require.Equal(t, StepPrincipalRemoved, dErr.Step)

	// Still authenticated, checkpoint recorded past the profile step.
	require.Equal(t, StateAuthenticated, m.State())
	require.Equal(t, StepProfileDeleted, m.Checkpoint())
	require.Equal(t, 1, repo.deleteCalls)

	// Retry resumes after the checkpoint: the profile step is not repeated.
	provider.removeErr = nil
	require.NoError(t, m.DeleteAccount(context.Background()))
	require.Equal(t, 1, repo.deleteCalls)
	require.Equal(t, StepNone, m.Checkpoint())
	require.Equal(t, StateUnauthenticated, m.State())
}

func TestDeleteAccount_CheckpointIsPerPrincipal(t *testing.T) {
	ctx := context.Background()
	m, provider, repo := newTestManager(t)
	require.NoError(t, m.SignIn(ctx, "alice@example.com", []byte("secret1")))

	provider.removeErr = errors.New("store down")
	var dErr *DeletionError
	require.ErrorAs(t, m.DeleteAccount(ctx), &dErr)
	require.Equal(t, 1, repo.deleteCalls)

	// A second account takes over the manager without an intervening
	// sign-out. Its deletion must run every step from the start; the first
	// account's checkpoint must not let it skip profile deletion.
	provider.removeErr = nil
	provider.mu.Lock()
	provider.principalID = "u-2"
	provider.mu.Unlock()
	require.NoError(t, m.SignIn(ctx, "bob@example.com", []byte("secret1")))

	require.NoError(t, m.DeleteAccount(ctx))
	require.Equal(t, 2, repo.deleteCalls)
	require.Equal(t, []string{"u-2"}, provider.removed)

	_, err := repo.Get(ctx, "u-2")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestDeleteAccount_SignOutClearsCheckpoint(t *testing.T) {
	ctx := context.Background()
	m, provider, repo := newTestManager(t)
	require.NoError(t, m.SignIn(ctx, "alice@example.com", []byte("secret1")))

	provider.removeErr = errors.New("store down")
	var dErr *DeletionError
	require.ErrorAs(t, m.DeleteAccount(ctx), &dErr)
	require.Equal(t, 1, repo.deleteCalls)

	// Signing out abandons the saga. The next sign-in re-provisions the
	// profile, so a later deletion must delete it again rather than resume
	// from the stale checkpoint.
	require.NoError(t, m.SignOut(ctx))
	require.Equal(t, StepNone, m.Checkpoint())

	provider.removeErr = nil
	require.NoError(t, m.SignIn(ctx, "alice@example.com", []byte("secret1")))

	require.NoError(t, m.DeleteAccount(ctx))
	require.Equal(t, 2, repo.deleteCalls)

	_, err := repo.Get(ctx, "u-1")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestDeleteAccount_Unauthenticated(t *testing.T) {
	m, _, _ := newTestManager(t)

	err := m.DeleteAccount(context.Background())
	require.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestOnSessionChange_RefreshKeepsAuthenticated(t *testing.T) {
	m, provider, repo := newTestManager(t)
	m.Init(context.Background())
	defer m.Close()

	sess := &models.Session{PrincipalID: "u-9", Email: "bob@example.com"}
	provider.mu.Lock()
	provider.current = sess
	provider.mu.Unlock()

	provider.emit(models.SessionEvent{Type: models.SessionTokenRefreshed, Session: sess})

	require.Equal(t, StateAuthenticated, m.State())

	// Provisioning piggybacks on the refresh event.
	_, err := repo.Get(context.Background(), "u-9")
	require.NoError(t, err)
}

func TestOnSessionChange_SignedOut(t *testing.T) {
	m, provider, _ := newTestManager(t)
	m.Init(context.Background())
	defer m.Close()

	require.NoError(t, m.SignIn(context.Background(), "alice@example.com", []byte("secret1")))

	provider.emit(models.SessionEvent{Type: models.SessionSignedOut})
	require.Equal(t, StateUnauthenticated, m.State())
}

func TestDeletionError_Message(t *testing.T) {
	err := &DeletionError{Step: StepProfileDeleted, Err: errors.New("boom")}
	require.Contains(t, err.Error(), "profile deletion")
	require.ErrorContains(t, err, "boom")
}
