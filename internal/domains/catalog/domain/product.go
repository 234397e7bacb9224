package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrEmptyName       = errors.New("product name is required")
	ErrInvalidQuantity = errors.New("quantity must be zero or greater")
	ErrInvalidPrice    = errors.New("price must be greater than zero")
	ErrMissingCategory = errors.New("product requires a category")
)

// Product is the catalog aggregate carrying the live stock counter.
type Product struct {
	ID         int64
	Name       string
	Quantity   int64
	Price      float64
	CategoryID int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewProduct validates invariants and builds a new Product aggregate.
func NewProduct(id int64, name string, quantity int64, price float64, categoryID int64) (*Product, error) {
	p := &Product{ID: id, CategoryID: categoryID}
	if err := p.Rename(name); err != nil {
		return nil, err
	}
	if err := p.SetQuantity(quantity); err != nil {
		return nil, err
	}
	if err := p.SetPrice(price); err != nil {
		return nil, err
	}
	if categoryID <= 0 {
		return nil, ErrMissingCategory
	}
	return p, nil
}

// Rename mutates the product name ensuring it is non-empty.
func (p *Product) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	p.Name = name
	return nil
}

// SetQuantity replaces the stock counter. Stock never goes negative.
func (p *Product) SetQuantity(quantity int64) error {
	if quantity < 0 {
		return ErrInvalidQuantity
	}
	p.Quantity = quantity
	return nil
}

// SetPrice replaces the unit price.
func (p *Product) SetPrice(price float64) error {
	if price <= 0 {
		return ErrInvalidPrice
	}
	p.Price = price
	return nil
}

// Deduct removes up to requested units from stock, clamping at zero,
// and returns the quantity actually deducted.
func (p *Product) Deduct(requested int64) int64 {
	if requested <= 0 {
		return 0
	}
	deducted := requested
	if p.Quantity < deducted {
		deducted = p.Quantity
	}
	p.Quantity -= deducted
	return deducted
}
