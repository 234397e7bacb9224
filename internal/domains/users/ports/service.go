package ports

import (
	"context"
	"errors"

	"github.com/itay19101973/E-commerce-system/internal/domains/users/domain"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidToken covers malformed, expired, revoked, and wrong-use
	// tokens; callers deliberately cannot distinguish which.
	ErrInvalidToken = errors.New("invalid token")
)

// TokenPair is the result of a successful login: a short-lived access token
// and a longer-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Service exposes the identity use cases to adapters.
type Service interface {
	Register(ctx context.Context, email, fullName, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*TokenPair, error)
	// Refresh exchanges a valid, unrevoked refresh token for a new access
	// token.
	Refresh(ctx context.Context, refreshToken string) (string, error)
	// Logout revokes the refresh token; subsequent Refresh calls with it
	// fail with ErrInvalidToken.
	Logout(ctx context.Context, refreshToken string) error
	// Authenticate verifies an access token and returns the caller's id.
	Authenticate(ctx context.Context, accessToken string) (int64, error)
}
