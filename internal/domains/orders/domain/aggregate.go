package domain

import (
	"errors"
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrUnknownItem      = errors.New("menu item is not in the catalog")
	ErrUnknownTable     = errors.New("table is not in the catalog")
	ErrQuantityOverflow = errors.New("line quantity overflows")
	ErrEmptyOrder       = errors.New("order has no lines")
)

// PriceLookup resolves the current price of a menu item.
type PriceLookup interface {
	Price(itemID string) (decimal.Decimal, bool)
}

// Line is one item and its quantity within an aggregate.
type Line struct {
	ItemID   string
	Quantity int
}

// Aggregate is the running order of one table. Lines only ever hold positive
// quantities and Total is the sum of quantity times price at the last mutation.
type Aggregate struct {
	TableID   string
	Lines     map[string]int
	Total     decimal.Decimal
	Version   uint64
	UpdatedAt time.Time
}

// Empty returns the canonical aggregate of a table without an order.
func Empty(tableID string) *Aggregate {
	return &Aggregate{TableID: tableID, Lines: map[string]int{}, Total: decimal.Zero}
}

// Clone returns a deep copy.
func (a *Aggregate) Clone() *Aggregate {
	if a == nil {
		return nil
	}
	clone := *a
	clone.Lines = make(map[string]int, len(a.Lines))
	for id, qty := range a.Lines {
		clone.Lines[id] = qty
	}
	return &clone
}

// IsEmpty reports whether the aggregate has no lines.
func (a *Aggregate) IsEmpty() bool {
	return a == nil || len(a.Lines) == 0
}

// Quantity returns the quantity of an item, zero when absent.
func (a *Aggregate) Quantity(itemID string) int {
	if a == nil {
		return 0
	}
	return a.Lines[itemID]
}

// SortedLines returns the lines ordered by item id.
func (a *Aggregate) SortedLines() []Line {
	if a == nil {
		return nil
	}
	lines := make([]Line, 0, len(a.Lines))
	for id, qty := range a.Lines {
		lines = append(lines, Line{ItemID: id, Quantity: qty})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].ItemID < lines[j].ItemID })
	return lines
}

// Adjust moves the quantity of itemID by delta, clamping at zero and dropping
// the line when it reaches zero, then reprices every line. On error the
// aggregate is left exactly as it was.
func (a *Aggregate) Adjust(itemID string, delta int, prices PriceLookup, at time.Time) error {
	if _, ok := prices.Price(itemID); !ok {
		return ErrUnknownItem
	}
	current := a.Lines[itemID]
	if delta > 0 && current > math.MaxInt-delta {
		return ErrQuantityOverflow
	}
	next := current + delta
	if next < 0 {
		next = 0
	}

	lines := make(map[string]int, len(a.Lines)+1)
	for id, qty := range a.Lines {
		lines[id] = qty
	}
	if next == 0 {
		delete(lines, itemID)
	} else {
		lines[itemID] = next
	}
	total, err := RecomputeTotal(lines, prices)
	if err != nil {
		return err
	}
	a.Lines = lines
	a.Total = total
	a.Version++
	a.UpdatedAt = at
	return nil
}

// Subtract removes committed quantities, dropping lines that reach zero, and
// reprices what is left. Items missing from the price lookup are dropped.
func (a *Aggregate) Subtract(committed []Line, prices PriceLookup, at time.Time) {
	lines := make(map[string]int, len(a.Lines))
	for id, qty := range a.Lines {
		lines[id] = qty
	}
	for _, line := range committed {
		if left := lines[line.ItemID] - line.Quantity; left > 0 {
			lines[line.ItemID] = left
		} else {
			delete(lines, line.ItemID)
		}
	}
	a.replaceLines(lines, prices, at)
}

// Retain drops lines whose items are no longer priced and reports whether
// anything changed.
func (a *Aggregate) Retain(prices PriceLookup, at time.Time) bool {
	lines := make(map[string]int, len(a.Lines))
	for id, qty := range a.Lines {
		if _, ok := prices.Price(id); ok {
			lines[id] = qty
		}
	}
	if len(lines) == len(a.Lines) {
		return false
	}
	a.replaceLines(lines, prices, at)
	return true
}

func (a *Aggregate) replaceLines(lines map[string]int, prices PriceLookup, at time.Time) {
	for id := range lines {
		if _, ok := prices.Price(id); !ok {
			delete(lines, id)
		}
	}
	// every remaining id is priced, so the fold cannot fail
	total, _ := RecomputeTotal(lines, prices)
	a.Lines = lines
	a.Total = total
	a.Version++
	a.UpdatedAt = at
}

// RecomputeTotal folds quantity times current price over the lines.
func RecomputeTotal(lines map[string]int, prices PriceLookup) (decimal.Decimal, error) {
	total := decimal.Zero
	for id, qty := range lines {
		price, ok := prices.Price(id)
		if !ok {
			return decimal.Zero, ErrUnknownItem
		}
		total = total.Add(price.Mul(decimal.NewFromInt(int64(qty))))
	}
	return total, nil
}
