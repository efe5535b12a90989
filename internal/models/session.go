// Package models defines the data types of the account-lifecycle and
// data-portability subsystem. JSON tags follow the snake_case file-boundary
// format used by export documents.
package models

import "time"

// Principal is the authenticated identity held by the remote authentication
// service. Maps 1:1 to a Profile.
type Principal struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Confirmed bool      `json:"confirmed"`
	CreatedAt time.Time `json:"created_at"`
}

// Session is the read-through view of the remote session. Absent (nil) means
// unauthenticated.
type Session struct {
	PrincipalID string    `json:"principal_id"`
	Email       string    `json:"email"`
	AccessToken string    `json:"-"`
	IssuedAt    time.Time `json:"issued_at"`
}

// SessionEventType classifies out-of-band session-change notifications.
type SessionEventType string

const (
	SessionSignedIn       SessionEventType = "signed_in"
	SessionSignedOut      SessionEventType = "signed_out"
	SessionTokenRefreshed SessionEventType = "token_refreshed"
)

// SessionEvent is delivered to session-change subscribers. Session is nil
// for SessionSignedOut.
type SessionEvent struct {
	Type    SessionEventType
	Session *Session
}
