package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Snapshot is an immutable view of the catalog between two refreshes.
// Readers must not mutate the slices it exposes.
type Snapshot struct {
	Items       []MenuItem
	Tables      []Table
	Generation  uint64
	RefreshedAt time.Time

	itemsByID   map[string]int
	itemsByCode map[string]int
	tablesByID  map[string]int
}

// NewSnapshot copies the sequences and indexes them. Nil sequences become empty.
func NewSnapshot(items []MenuItem, tables []Table, generation uint64, refreshedAt time.Time) *Snapshot {
	s := &Snapshot{
		Items:       append([]MenuItem{}, items...),
		Tables:      append([]Table{}, tables...),
		Generation:  generation,
		RefreshedAt: refreshedAt,
		itemsByID:   make(map[string]int, len(items)),
		itemsByCode: make(map[string]int, len(items)),
		tablesByID:  make(map[string]int, len(tables)),
	}
	for i, item := range s.Items {
		s.itemsByID[item.ID] = i
		s.itemsByCode[item.Code] = i
	}
	for i, table := range s.Tables {
		s.tablesByID[table.ID] = i
	}
	return s
}

// EmptySnapshot is the state before the first successful refresh.
func EmptySnapshot() *Snapshot {
	return NewSnapshot(nil, nil, 0, time.Time{})
}

// Item looks up a menu item by id.
func (s *Snapshot) Item(id string) (MenuItem, bool) {
	if s == nil {
		return MenuItem{}, false
	}
	idx, ok := s.itemsByID[id]
	if !ok {
		return MenuItem{}, false
	}
	return s.Items[idx], true
}

// ItemByCode looks up a menu item by its display code.
func (s *Snapshot) ItemByCode(code string) (MenuItem, bool) {
	if s == nil {
		return MenuItem{}, false
	}
	idx, ok := s.itemsByCode[code]
	if !ok {
		return MenuItem{}, false
	}
	return s.Items[idx], true
}

// Table looks up a table by id.
func (s *Snapshot) Table(id string) (Table, bool) {
	if s == nil {
		return Table{}, false
	}
	idx, ok := s.tablesByID[id]
	if !ok {
		return Table{}, false
	}
	return s.Tables[idx], true
}

// Price returns the current price of an item.
func (s *Snapshot) Price(itemID string) (decimal.Decimal, bool) {
	item, ok := s.Item(itemID)
	if !ok {
		return decimal.Zero, false
	}
	return item.Price, true
}
