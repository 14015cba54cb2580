package model

import (
	"errors"
	"time"
)

// User is a member of the sharing community.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserPatch holds the fields of a partial user update. Nil fields are left
// unchanged.
type UserPatch struct {
	Name  *string
	Email *string
}

// MinPasswordLength is the shortest password accepted for login accounts.
const MinPasswordLength = 8

// ErrPasswordTooShort is returned by ValidatePassword.
var ErrPasswordTooShort = errors.New("password must be at least 8 characters")

// ValidatePassword checks a plaintext password against the login policy.
func ValidatePassword(password string) error {
	if len([]rune(password)) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}
