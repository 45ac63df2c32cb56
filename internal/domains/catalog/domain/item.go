package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyName     = errors.New("item name is required")
	ErrEmptyCode     = errors.New("item code is required")
	ErrNegativePrice = errors.New("item price must be greater or equal to zero")
)

// MenuItem is an orderable entry of the catalog.
type MenuItem struct {
	ID       string
	Name     string
	Code     string
	Price    decimal.Decimal
	Category string
}

// ItemFields carries the editable attributes of a menu item.
type ItemFields struct {
	Name     string
	Code     string
	Price    decimal.Decimal
	Category string
}

// Normalize trims the textual fields.
func (f ItemFields) Normalize() ItemFields {
	f.Name = strings.TrimSpace(f.Name)
	f.Code = strings.TrimSpace(f.Code)
	f.Category = strings.TrimSpace(f.Category)
	return f
}

// Validate enforces the item invariants on a create/update payload.
func (f ItemFields) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(f.Code) == "" {
		return ErrEmptyCode
	}
	if f.Price.IsNegative() {
		return ErrNegativePrice
	}
	return nil
}

// NewMenuItem validates the fields and builds a menu item.
func NewMenuItem(id string, fields ItemFields) (*MenuItem, error) {
	fields = fields.Normalize()
	if err := fields.Validate(); err != nil {
		return nil, err
	}
	item := &MenuItem{ID: id}
	item.Apply(fields)
	return item, nil
}

// Apply overwrites the editable attributes. Callers validate first.
func (m *MenuItem) Apply(fields ItemFields) {
	m.Name = fields.Name
	m.Code = fields.Code
	m.Price = fields.Price
	m.Category = fields.Category
}
