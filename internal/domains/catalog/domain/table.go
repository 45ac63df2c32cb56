package domain

import "errors"

// TableStatus is the persisted reflection of whether a table has a running order.
type TableStatus string

const (
	TableIdle   TableStatus = "idle"
	TableActive TableStatus = "active"
)

var (
	ErrInvalidTableNumber = errors.New("table number must be greater than zero")
	ErrInvalidStatus      = errors.New("table status is invalid")
)

// Table is a seat group in the dining room.
type Table struct {
	ID     string
	Number int
	Status TableStatus
}

// TableFields carries the attributes accepted when creating a table.
type TableFields struct {
	Number int
}

// Validate enforces the table invariants.
func (f TableFields) Validate() error {
	if f.Number <= 0 {
		return ErrInvalidTableNumber
	}
	return nil
}

// NewTable builds an idle table.
func NewTable(id string, fields TableFields) (*Table, error) {
	if err := fields.Validate(); err != nil {
		return nil, err
	}
	return &Table{ID: id, Number: fields.Number, Status: TableIdle}, nil
}

// ParseTableStatus maps a persisted value onto a known status; empty means idle.
func ParseTableStatus(raw string) (TableStatus, error) {
	switch TableStatus(raw) {
	case "", TableIdle:
		return TableIdle, nil
	case TableActive:
		return TableActive, nil
	default:
		return "", ErrInvalidStatus
	}
}

// IsActive reports whether the backend considers the table occupied.
func (t Table) IsActive() bool {
	return t.Status == TableActive
}
