package application

import (
	"errors"
	"fmt"

	"github.com/itay19101973/E-commerce-system/internal/domains/catalog/domain"
)

// ErrInvalidInput signals the request violated a catalog domain invariant.
var ErrInvalidInput = errors.New("invalid catalog input")

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyName) ||
		errors.Is(err, domain.ErrInvalidQuantity) ||
		errors.Is(err, domain.ErrInvalidPrice) ||
		errors.Is(err, domain.ErrMissingCategory) ||
		errors.Is(err, domain.ErrEmptyCategoryName) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
