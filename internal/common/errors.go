// Package common defines shared constants and sentinel errors used across
// the account-lifecycle subsystem. Callers should use errors.Is to match
// these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// ErrorCredentials covers bad or duplicate credentials. User-correctable.
	// Sign-in failures deliberately do not reveal whether the email exists.
	ErrorCredentials = errors.New("invalid credentials")

	// ErrorValidation marks a local policy violation, caught before any
	// remote call is issued.
	ErrorValidation = errors.New("validation error")

	// ErrorBadFormat marks a malformed import document, rejected before any
	// store mutation.
	ErrorBadFormat = errors.New("invalid document format")

	// ErrorService marks a transport or remote failure, surfaced verbatim
	// to the caller.
	ErrorService = errors.New("service error")

	// Auth errors.
	ErrorUnauthorized = errors.New("unauthorized")
	ErrInvalidToken   = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token expired")
	ErrNotConfirmed   = errors.New("account not confirmed")
	ErrorInternal     = errors.New("internal error")
)

// PartialUpdateError reports a multi-call operation that partially succeeded
// across two stores with no shared transaction. The completed part is not
// rolled back; the error names what is left inconsistent.
type PartialUpdateError struct {
	Op      string // operation that partially succeeded
	Pending string // what remains out of sync
	Err     error  // failure of the pending part
}

func (e *PartialUpdateError) Error() string {
	return fmt.Sprintf("%s partially applied, %s still pending: %v", e.Op, e.Pending, e.Err)
}

func (e *PartialUpdateError) Unwrap() error { return e.Err }
