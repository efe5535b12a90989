package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/toxidity-18/Veritas/internal/common"
	"github.com/toxidity-18/Veritas/internal/logging"
	"github.com/toxidity-18/Veritas/internal/models"
	"github.com/toxidity-18/Veritas/internal/store"
)

// PostgresProvider implements Provider against the principals table.
// It keeps the current session as a read-through cache and fans session
// events out to subscribers.
type PostgresProvider struct {
	db            *sql.DB
	secretKey     []byte
	tokenValidity time.Duration
	logger        logging.Logger

	mu          sync.Mutex
	current     *models.Session
	subscribers map[int]func(models.SessionEvent)
	nextSubID   int
}

func NewPostgresProvider(db *sql.DB, secretKey []byte, tokenValidity time.Duration, logger logging.Logger) *PostgresProvider {
	return &PostgresProvider{
		db:            db,
		secretKey:     secretKey,
		tokenValidity: tokenValidity,
		logger:        logger,
		subscribers:   make(map[int]func(models.SessionEvent)),
	}
}

func (p *PostgresProvider) SignUp(ctx context.Context, email string, password []byte) (string, error) {
	salt := common.GenerateRandByteArray(32)
	verifier := makeVerifier(deriveKey(password, salt))

	token, err := common.MakeRandHexString(16)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrorService, err)
	}

	query :=
		`INSERT INTO principals (email, salt, verifier, confirm_token)
		 VALUES ($1, $2, $3, $4)
		 `

	if _, err := p.db.ExecContext(ctx, query, email, salt, verifier, token); err != nil {
		if store.IsUniqueViolation(err) {
			return "", common.ErrorCredentials
		}
		return "", fmt.Errorf("%w: %v", common.ErrorService, err)
	}

	return token, nil
}

func (p *PostgresProvider) ConfirmSignUp(ctx context.Context, token string) (*models.Session, error) {
	query :=
		`UPDATE principals SET confirmed = true, confirm_token = NULL
		 WHERE confirm_token = $1
		 RETURNING id, email
		 `

	var id, email string
	err := p.db.QueryRowContext(ctx, query, token).Scan(&id, &email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrInvalidToken
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorService, err)
	}

	return p.establishSession(ctx, id, email)
}

func (p *PostgresProvider) SignIn(ctx context.Context, email string, password []byte) (*models.Session, error) {
	query :=
		`SELECT id, email, salt, verifier, confirmed FROM principals
		 WHERE email = $1
		 `

	var (
		id, storedEmail string
		salt, verifier  []byte
		confirmed       bool
	)
	err := p.db.QueryRowContext(ctx, query, email).Scan(&id, &storedEmail, &salt, &verifier, &confirmed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorCredentials
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorService, err)
	}

	if !checkPassword(password, salt, verifier) {
		return nil, common.ErrorCredentials
	}
	if !confirmed {
		return nil, common.ErrNotConfirmed
	}

	return p.establishSession(ctx, id, storedEmail)
}

func (p *PostgresProvider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	if p.current == nil {
		p.mu.Unlock()
		return nil
	}
	p.current = nil
	p.mu.Unlock()

	p.broadcast(models.SessionEvent{Type: models.SessionSignedOut})
	return nil
}

func (p *PostgresProvider) UpdateEmail(ctx context.Context, newEmail string) error {
	sess := p.Current()
	if sess == nil {
		return common.ErrorUnauthorized
	}

	query := `UPDATE principals SET email = $2 WHERE id = $1`
	if _, err := p.db.ExecContext(ctx, query, sess.PrincipalID, newEmail); err != nil {
		if store.IsUniqueViolation(err) {
			return common.ErrorCredentials
		}
		return fmt.Errorf("%w: %v", common.ErrorService, err)
	}

	p.mu.Lock()
	if p.current != nil {
		p.current.Email = newEmail
	}
	p.mu.Unlock()
	return nil
}

func (p *PostgresProvider) UpdatePassword(ctx context.Context, newPassword []byte) error {
	sess := p.Current()
	if sess == nil {
		return common.ErrorUnauthorized
	}

	salt := common.GenerateRandByteArray(32)
	verifier := makeVerifier(deriveKey(newPassword, salt))

	query := `UPDATE principals SET salt = $2, verifier = $3 WHERE id = $1`
	if _, err := p.db.ExecContext(ctx, query, sess.PrincipalID, salt, verifier); err != nil {
		return fmt.Errorf("%w: %v", common.ErrorService, err)
	}

	return nil
}

// RemovePrincipal deletes the principal row. Foreign keys cascade, so every
// record owned by the principal goes with it in one atomic statement.
func (p *PostgresProvider) RemovePrincipal(ctx context.Context, id string) error {
	query := `DELETE FROM principals WHERE id = $1`
	if _, err := p.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("%w: %v", common.ErrorService, err)
	}
	return nil
}

func (p *PostgresProvider) Current() *models.Session {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current == nil {
		return nil
	}
	cp := *p.current
	return &cp
}

func (p *PostgresProvider) Subscribe(fn func(models.SessionEvent)) func() {
	p.mu.Lock()
	defer p.mu.Unlock()

	id := p.nextSubID
	p.nextSubID++
	p.subscribers[id] = fn

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.subscribers, id)
	}
}

// StartAutoRefresh re-mints the access token on a fixed interval until ctx
// is done, emitting SessionTokenRefreshed events. Refresh notifications may
// race with in-flight writes; that is accepted, see Subscribe.
func (p *PostgresProvider) StartAutoRefresh(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := p.refresh(ctx); err != nil {
				p.logger.Warn(ctx, "token refresh failed", "error", err)
			}
		case <-ctx.Done():
			return
		}
	}
}

func (p *PostgresProvider) refresh(ctx context.Context) error {
	p.mu.Lock()
	sess := p.current
	if sess == nil {
		p.mu.Unlock()
		return nil
	}

	token, err := GenerateToken(sess.PrincipalID, p.secretKey, p.tokenValidity)
	if err != nil {
		p.mu.Unlock()
		return err
	}
	sess.AccessToken = token
	cp := *sess
	p.mu.Unlock()

	p.broadcast(models.SessionEvent{Type: models.SessionTokenRefreshed, Session: &cp})
	return nil
}

func (p *PostgresProvider) establishSession(ctx context.Context, principalID, email string) (*models.Session, error) {
	token, err := GenerateToken(principalID, p.secretKey, p.tokenValidity)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorService, err)
	}

	sess := &models.Session{
		PrincipalID: principalID,
		Email:       email,
		AccessToken: token,
		IssuedAt:    time.Now().UTC(),
	}

	p.mu.Lock()
	p.current = sess
	cp := *sess
	p.mu.Unlock()

	p.broadcast(models.SessionEvent{Type: models.SessionSignedIn, Session: &cp})
	return &cp, nil
}

// broadcast invokes subscribers outside the provider lock so a callback can
// safely call back into the provider.
func (p *PostgresProvider) broadcast(ev models.SessionEvent) {
	p.mu.Lock()
	fns := make([]func(models.SessionEvent), 0, len(p.subscribers))
	for _, fn := range p.subscribers {
		fns = append(fns, fn)
	}
	p.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

var _ Provider = (*PostgresProvider)(nil)
