package models

import "time"

// Profile is the per-principal record provisioned on first session
// establishment. ID doubles as the foreign key to the principal.
type Profile struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	FullName      string    `json:"full_name"`
	Phone         string    `json:"phone"`
	AnonymousMode bool      `json:"anonymous_mode"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
