package ports

import (
	"context"
	"errors"

	"github.com/itay19101973/E-commerce-system/internal/domains/users/domain"
)

var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email already registered")
)

// Repository abstracts user persistence.
type Repository interface {
	// Save inserts or updates a user; a duplicate email yields
	// ErrEmailTaken.
	Save(ctx context.Context, user *domain.User) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}
