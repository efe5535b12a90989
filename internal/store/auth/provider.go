// Package auth defines the authentication-provider side of the store
// contract and a PostgreSQL-backed implementation. The provider owns the
// single authentication principal per session and delivers out-of-band
// session-change notifications to subscribers.
package auth

import (
	"context"

	"github.com/toxidity-18/Veritas/internal/models"
)

// Provider is the authentication capability of the remote store.
//
// Contract:
//   - SignUp creates an account but never establishes a session; the first
//     session appears only after ConfirmSignUp, observed via Subscribe.
//   - SignIn establishes a session or fails with common.ErrorCredentials
//     without revealing whether the email exists.
//   - SignOut is idempotent: with no active session it is a no-op.
//   - RemovePrincipal is the store's atomic user-removal procedure; the
//     store cascades deletion of every owned record.
//
// All methods must honor context cancellation/timeouts.
type Provider interface {
	SignUp(ctx context.Context, email string, password []byte) (confirmToken string, err error)
	ConfirmSignUp(ctx context.Context, token string) (*models.Session, error)
	SignIn(ctx context.Context, email string, password []byte) (*models.Session, error)
	SignOut(ctx context.Context) error
	UpdateEmail(ctx context.Context, newEmail string) error
	UpdatePassword(ctx context.Context, newPassword []byte) error
	RemovePrincipal(ctx context.Context, id string) error

	// Current returns the read-through session cache, or nil when
	// unauthenticated.
	Current() *models.Session

	// Subscribe registers a session-change callback and returns its
	// unsubscribe handle. Callbacks may fire from a background goroutine
	// (e.g. a token refresh) and race with in-flight writes; correctness is
	// delegated to store-side per-row constraints.
	Subscribe(fn func(models.SessionEvent)) (unsubscribe func())
}
