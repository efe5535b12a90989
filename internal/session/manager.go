// Package session owns the authentication state machine: sign-up, sign-in,
// sign-out, credential rotation, and the account-deletion saga. It reacts to
// out-of-band session-change notifications (e.g. a token refresh) and
// triggers profile provisioning on every session-established event.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/toxidity-18/Veritas/internal/common"
	"github.com/toxidity-18/Veritas/internal/logging"
	"github.com/toxidity-18/Veritas/internal/models"
	"github.com/toxidity-18/Veritas/internal/provision"
	"github.com/toxidity-18/Veritas/internal/store/auth"
	"github.com/toxidity-18/Veritas/internal/store/repositories/profiles"
)

type State string

const (
	StateUnauthenticated State = "unauthenticated"
	StateAuthenticating  State = "authenticating"
	StateAuthenticated   State = "authenticated"
	StateDeleting        State = "deleting"
)

// MinPasswordLength is the local password policy, checked before any remote
// call.
const MinPasswordLength = 6

type Manager struct {
	auth        auth.Provider
	profiles    profiles.Repository
	provisioner *provision.Provisioner
	logger      logging.Logger

	mu            sync.Mutex
	state         State
	checkpoint    DeletionStep
	checkpointFor string

	baseCtx     context.Context
	unsubscribe func()
}

func NewManager(provider auth.Provider, repo profiles.Repository, p *provision.Provisioner, logger logging.Logger) *Manager {
	return &Manager{
		auth:        provider,
		profiles:    repo,
		provisioner: p,
		logger:      logger,
		state:       StateUnauthenticated,
	}
}

// Init subscribes to session-change notifications and provisions the profile
// for an already-restored session, if any. The composition root owns the
// Init/Close lifecycle.
func (m *Manager) Init(ctx context.Context) {
	m.baseCtx = ctx
	m.unsubscribe = m.auth.Subscribe(m.onSessionChange)

	if sess := m.auth.Current(); sess != nil {
		m.setState(StateAuthenticated)
		if err := m.provisioner.EnsureProfile(ctx, sess); err != nil {
			m.logger.Error(ctx, "provisioning on restore failed", "error", err)
		}
	}
}

// Close unsubscribes from session-change notifications.
func (m *Manager) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

// onSessionChange handles out-of-band transitions, which may arrive from a
// background goroutine and race with UI-driven writes. Provisioning errors
// here are logged, not surfaced: there is no caller to report to.
func (m *Manager) onSessionChange(ev models.SessionEvent) {
	ctx := m.baseCtx
	if ctx == nil {
		ctx = context.Background()
	}

	switch ev.Type {
	case models.SessionSignedIn, models.SessionTokenRefreshed:
		m.setState(StateAuthenticated)
		if err := m.provisioner.EnsureProfile(ctx, ev.Session); err != nil {
			m.logger.Error(ctx, "provisioning on session change failed", "error", err)
		}
	case models.SessionSignedOut:
		m.setState(StateUnauthenticated)
	}
}

// SignUp requests account creation. It never establishes a session:
// authentication completes only after the service confirms, observed via the
// session-change subscription. Weak passwords and duplicate emails fail with
// common.ErrorCredentials.
func (m *Manager) SignUp(ctx context.Context, email string, password []byte) (string, error) {
	if len(password) < MinPasswordLength {
		return "", fmt.Errorf("%w: password must be at least %d characters", common.ErrorCredentials, MinPasswordLength)
	}

	token, err := m.auth.SignUp(ctx, email, password)
	if err != nil {
		return "", err
	}
	return token, nil
}

// ConfirmSignUp completes sign-up with the confirmation token, establishing
// the first session.
func (m *Manager) ConfirmSignUp(ctx context.Context, token string) error {
	sess, err := m.auth.ConfirmSignUp(ctx, token)
	if err != nil {
		return err
	}

	m.setState(StateAuthenticated)
	return m.provisionEstablished(ctx, sess)
}

// SignIn establishes a session and triggers profile provisioning as a side
// effect. Failures do not reveal whether the email exists.
func (m *Manager) SignIn(ctx context.Context, email string, password []byte) error {
	m.setState(StateAuthenticating)

	sess, err := m.auth.SignIn(ctx, email, password)
	if err != nil {
		m.setState(StateUnauthenticated)
		return err
	}

	m.setState(StateAuthenticated)
	return m.provisionEstablished(ctx, sess)
}

// SignOut terminates the session. Idempotent: with no active session it is a
// no-op, never an error. Any deletion checkpoint is discarded: the next
// sign-in re-provisions the profile, so a resumed saga must start over.
func (m *Manager) SignOut(ctx context.Context) error {
	if err := m.auth.SignOut(ctx); err != nil {
		return err
	}
	m.setState(StateUnauthenticated)
	m.setCheckpoint("", StepNone)
	return nil
}

// UpdateEmail rotates the principal's email, then mirrors it into the
// profile. The two stores are not transactional together: if the mirror
// fails after the rotation succeeded, a PartialUpdateError is returned and
// the rotation stands. The next profile read does not self-heal this; the
// caller retries.
func (m *Manager) UpdateEmail(ctx context.Context, newEmail string) error {
	sess := m.auth.Current()
	if sess == nil {
		return common.ErrorUnauthorized
	}

	if err := m.auth.UpdateEmail(ctx, newEmail); err != nil {
		return err
	}

	if err := m.profiles.UpdateEmail(ctx, sess.PrincipalID, newEmail); err != nil {
		return &common.PartialUpdateError{
			Op:      "email rotation",
			Pending: "profile email mirror",
			Err:     err,
		}
	}

	return nil
}

// UpdatePassword rotates the password. The minimum-length policy is checked
// locally; a violation issues no remote call.
func (m *Manager) UpdatePassword(ctx context.Context, newPassword []byte) error {
	if len(newPassword) < MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", common.ErrorValidation, MinPasswordLength)
	}

	return m.auth.UpdatePassword(ctx, newPassword)
}

// DeleteAccount runs the deletion saga: delete the profile, invoke the
// store's atomic principal removal, then sign out. The sequence is
// best-effort, not a transaction. Profile deletion goes first so a failure
// in step two leaves no profile pointing at a dead principal. On any
// failure the user remains authenticated and the checkpoint lets a retry
// skip completed steps.
func (m *Manager) DeleteAccount(ctx context.Context) error {
	sess := m.auth.Current()
	if sess == nil {
		return common.ErrorUnauthorized
	}

	m.setState(StateDeleting)

	if m.checkpointOf(sess.PrincipalID) < StepProfileDeleted {
		if err := m.profiles.Delete(ctx, sess.PrincipalID); err != nil {
			m.setState(StateAuthenticated)
			return &DeletionError{Step: StepProfileDeleted, Err: err}
		}
		m.setCheckpoint(sess.PrincipalID, StepProfileDeleted)
	}

	if m.checkpointOf(sess.PrincipalID) < StepPrincipalRemoved {
		if err := m.auth.RemovePrincipal(ctx, sess.PrincipalID); err != nil {
			m.setState(StateAuthenticated)
			return &DeletionError{Step: StepPrincipalRemoved, Err: err}
		}
		m.setCheckpoint(sess.PrincipalID, StepPrincipalRemoved)
	}

	if err := m.SignOut(ctx); err != nil {
		return &DeletionError{Step: StepSignedOut, Err: err}
	}
	m.logger.Info(ctx, "account deleted", "principal", sess.PrincipalID)
	return nil
}

// Current returns the session cache, nil when unauthenticated.
func (m *Manager) Current() *models.Session {
	return m.auth.Current()
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Checkpoint reports the last completed deletion-saga step.
func (m *Manager) Checkpoint() DeletionStep {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.checkpoint
}

func (m *Manager) setState(s State) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
}

// checkpointOf returns the recorded step only when it was recorded for this
// principal. A checkpoint left behind by a different account must not let the
// current one skip deletion steps.
func (m *Manager) checkpointOf(principalID string) DeletionStep {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.checkpointFor != principalID {
		return StepNone
	}
	return m.checkpoint
}

func (m *Manager) setCheckpoint(principalID string, s DeletionStep) {
	m.mu.Lock()
	m.checkpoint = s
	m.checkpointFor = principalID
	m.mu.Unlock()
}

// provisionEstablished runs provisioning for a session this manager just
// established itself. The subscription callback may also fire for the same
// event; provisioning is idempotent so the double invocation is harmless.
func (m *Manager) provisionEstablished(ctx context.Context, sess *models.Session) error {
	if err := m.provisioner.EnsureProfile(ctx, sess); err != nil {
		m.logger.Error(ctx, "provisioning failed", "error", err)
		return err
	}
	return nil
}
