package application

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/itay19101973/E-commerce-system/internal/domains/users/domain"
	"github.com/itay19101973/E-commerce-system/internal/domains/users/ports"
)

// Service exposes the identity use cases: registration, login, token
// refresh, and logout with persisted revocation.
type Service struct {
	repo    ports.Repository
	revoked ports.TokenStore
	tokens  *TokenManager
}

// NewService wires the identity service.
func NewService(repo ports.Repository, revoked ports.TokenStore, tokens *TokenManager) *Service {
	return &Service{repo: repo, revoked: revoked, tokens: tokens}
}

// Register creates an account with a bcrypt-hashed password. A duplicate
// email surfaces as ports.ErrEmailTaken.
func (s *Service) Register(ctx context.Context, email, fullName, password string) (*domain.User, error) {
	if err := domain.ValidatePassword(password); err != nil {
		return nil, mapError(err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user, err := domain.NewUser(email, fullName, string(hash))
	if err != nil {
		return nil, mapError(err)
	}
	return s.repo.Save(ctx, user)
}

// Login verifies the credentials and issues an access/refresh token pair.
// A missing user and a wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*ports.TokenPair, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, ports.ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ports.ErrInvalidCredentials
	}
	access, err := s.tokens.issueAccess(user.ID)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.issueRefresh(user.ID)
	if err != nil {
		return nil, err
	}
	return &ports.TokenPair{AccessToken: access.signed, RefreshToken: refresh.signed}, nil
}

// Refresh exchanges a valid, unrevoked refresh token for a new access
// token.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.verifyRefresh(ctx, refreshToken)
	if err != nil {
		return "", err
	}
	userID, err := claims.userID()
	if err != nil {
		return "", err
	}
	access, err := s.tokens.issueAccess(userID)
	if err != nil {
		return "", err
	}
	return access.signed, nil
}

// Logout revokes the refresh token's jti until the token would have
// expired anyway; the revocation store purges it after that.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.verifyRefresh(ctx, refreshToken)
	if err != nil {
		return err
	}
	return s.revoked.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
}

// Authenticate verifies an access token and returns the caller's user id.
func (s *Service) Authenticate(_ context.Context, accessToken string) (int64, error) {
	claims, err := s.tokens.verify(accessToken, tokenUseAccess)
	if err != nil {
		return 0, err
	}
	return claims.userID()
}

func (s *Service) verifyRefresh(ctx context.Context, refreshToken string) (*tokenClaims, error) {
	claims, err := s.tokens.verify(refreshToken, tokenUseRefresh)
	if err != nil {
		return nil, err
	}
	revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, errInvalidToken(errors.New("token revoked"))
	}
	return claims, nil
}

var _ ports.Service = (*Service)(nil)
