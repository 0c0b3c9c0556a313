package models

import "time"

// User captures application-facing fields for a registered identity.
// IsAdmin and IsPrivate are persisted and serialized but never consulted
// by any authentication or authorization decision.
type User struct {
	ID                 int64     `json:"id"`
	Email              string    `json:"email"`
	PasswordHash       string    `json:"-"`
	IsAdmin            bool      `json:"is_admin"`
	IsPrivate          bool      `json:"is_private"`
	CreatedAt          time.Time `json:"created_at"`
	LastPasswordChange time.Time `json:"-"`
}
