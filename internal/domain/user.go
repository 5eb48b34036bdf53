// internal/domain/user.go
package domain

import (
	"regexp"
	"time"

	"github.com/google/uuid"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// User represents a registered account in the expense ledger.
type User struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// NewUser creates a new User instance with a generated ID.
// The password hash is set separately by the auth layer.
func NewUser(name, email string) *User {
	now := time.Now().UTC()
	return &User{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ValidEmail reports whether the user's email has a plausible shape.
func (u *User) ValidEmail() bool {
	return emailPattern.MatchString(u.Email)
}
