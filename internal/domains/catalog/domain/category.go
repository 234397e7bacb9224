package domain

import (
	"errors"
	"strings"
)

var ErrEmptyCategoryName = errors.New("category name is required")

// Category groups products. Deleting a category cascades to its products.
type Category struct {
	ID   int64
	Name string
}

// NewCategory validates and constructs a Category.
func NewCategory(id int64, name string) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyCategoryName
	}
	return &Category{ID: id, Name: name}, nil
}
