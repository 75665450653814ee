package models

import "time"

// Role scopes which portal an account may sign in through.
type Role string

const (
	RoleWorker Role = "worker"
	RoleAdmin  Role = "admin"
)

// IsValid reports whether the role is a known portal role.
func (r Role) IsValid() bool {
	return r == RoleWorker || r == RoleAdmin
}

// UserAccount is a login-capable account. PasswordHash holds a bcrypt hash;
// the plaintext is never stored.
type UserAccount struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Role         Role      `json:"role" db:"role"`
	Mobile       string    `json:"mobile" db:"mobile"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Active       bool      `json:"active" db:"active"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}
