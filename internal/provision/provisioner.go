// Package provision guarantees that a profile record exists for every
// authenticated principal. It runs on every session-established event and is
// idempotent under concurrent invocation.
package provision

import (
	"context"
	"errors"
	"fmt"

	"github.com/toxidity-18/Veritas/internal/common"
	"github.com/toxidity-18/Veritas/internal/logging"
	"github.com/toxidity-18/Veritas/internal/models"
	"github.com/toxidity-18/Veritas/internal/store/repositories/profiles"
)

type Provisioner struct {
	profiles profiles.Repository
	logger   logging.Logger
}

func NewProvisioner(repo profiles.Repository, logger logging.Logger) *Provisioner {
	return &Provisioner{profiles: repo, logger: logger}
}

// EnsureProfile creates the principal's profile if it does not exist yet.
// The read-then-insert gap is an accepted race: two sessions reacting to the
// same event may both reach the insert, and the store's uniqueness
// constraint arbitrates. The loser's conflict signals success by another
// actor and is logged, not surfaced.
func (p *Provisioner) EnsureProfile(ctx context.Context, sess *models.Session) error {
	if sess == nil {
		return nil
	}

	_, err := p.profiles.Get(ctx, sess.PrincipalID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return fmt.Errorf("profile lookup error: %w", err)
	}

	profile := &models.Profile{
		ID:            sess.PrincipalID,
		Email:         sess.Email,
		AnonymousMode: false,
	}

	if err := p.profiles.Insert(ctx, profile); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			p.logger.Warn(ctx, "profile already provisioned by a concurrent session",
				"principal", sess.PrincipalID)
			return nil
		}
		return fmt.Errorf("profile creation error: %w", err)
	}

	p.logger.Info(ctx, "profile provisioned", "principal", sess.PrincipalID)
	return nil
}
