package application

import (
	"errors"
	"fmt"

	"github.com/itay19101973/E-commerce-system/internal/domains/users/domain"
	"github.com/itay19101973/E-commerce-system/internal/domains/users/ports"
)

// ErrInvalidInput signals the request violated a domain invariant.
var ErrInvalidInput = errors.New("invalid user input")

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrInvalidEmail) ||
		errors.Is(err, domain.ErrEmptyName) ||
		errors.Is(err, domain.ErrEmptyPassword) ||
		errors.Is(err, domain.ErrWeakPassword) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}

// errInvalidToken folds the detailed parse failure into the single opaque
// sentinel exposed to callers.
func errInvalidToken(cause error) error {
	if cause == nil {
		return ports.ErrInvalidToken
	}
	return fmt.Errorf("%w: %v", ports.ErrInvalidToken, cause)
}
