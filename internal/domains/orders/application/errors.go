package application

import (
	"errors"
	"fmt"

	"github.com/itay19101973/E-commerce-system/internal/domains/orders/domain"
)

var (
	// ErrInvalidInput marks request payloads the domain rejects.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotOwned is returned when the caller is not the order's owner.
	ErrNotOwned = errors.New("order does not belong to caller")
	// ErrFulfillment marks a stock deduction that failed after the order
	// was already committed as executed.
	ErrFulfillment = errors.New("fulfillment failed")
)

// mapError folds domain validation sentinels into ErrInvalidInput so
// transports can classify without importing the domain package. Everything
// else passes through untouched.
func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrNoItems),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInvalidProductID),
		errors.Is(err, domain.ErrDuplicateItem):
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	default:
		return err
	}
}
