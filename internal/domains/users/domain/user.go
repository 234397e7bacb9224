package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidEmail  = errors.New("email must contain '@'")
	ErrEmptyName     = errors.New("name is required")
	ErrEmptyPassword = errors.New("password is required")
	ErrWeakPassword  = errors.New("password must be at least 6 characters")
)

// User is a registered account. Password material is stored only as a
// bcrypt hash; the plaintext never leaves the application service.
type User struct {
	ID           int64
	Email        string
	FullName     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser builds a user from an already-hashed password, enforcing the
// identity invariants.
func NewUser(email, fullName, passwordHash string) (*User, error) {
	user := &User{PasswordHash: passwordHash}
	if err := user.SetEmail(email); err != nil {
		return nil, err
	}
	if err := user.SetFullName(fullName); err != nil {
		return nil, err
	}
	return user, nil
}

// SetEmail trims and validates the email address.
func (u *User) SetEmail(email string) error {
	email = strings.TrimSpace(email)
	if !strings.Contains(email, "@") {
		return ErrInvalidEmail
	}
	u.Email = email
	return nil
}

// SetFullName trims and validates the display name.
func (u *User) SetFullName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	u.FullName = name
	return nil
}

// ValidatePassword checks a candidate plaintext password against the
// registration policy. Hashing is the caller's concern.
func ValidatePassword(password string) error {
	if strings.TrimSpace(password) == "" {
		return ErrEmptyPassword
	}
	if len(password) < 6 {
		return ErrWeakPassword
	}
	return nil
}
