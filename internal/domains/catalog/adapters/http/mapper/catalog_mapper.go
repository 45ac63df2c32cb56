package mapper

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Apurer/go-gin-pos-server/internal/domains/catalog/domain"
)

// Item is the HTTP representation of a menu item.
type Item struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Code     string          `json:"code"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category,omitempty"`
}

// ItemInput captures create/update payloads while preserving field presence.
// Price accepts both JSON numbers and numeric strings.
type ItemInput struct {
	Name     *string          `json:"name"`
	Code     *string          `json:"code"`
	Price    *decimal.Decimal `json:"price"`
	Category *string          `json:"category,omitempty"`
}

// Table is the HTTP representation of a dining table.
type Table struct {
	ID     string `json:"id"`
	Number int    `json:"number"`
	Status string `json:"status"`
}

// TableInput captures the create-table payload.
type TableInput struct {
	Number *int `json:"number"`
}

// Catalog is the HTTP representation of a catalog snapshot.
type Catalog struct {
	Items       []Item    `json:"items"`
	Tables      []Table   `json:"tables"`
	Generation  uint64    `json:"generation"`
	RefreshedAt time.Time `json:"refreshedAt"`
}

var (
	errMissingName   = errors.New("name is required")
	errMissingCode   = errors.New("code is required")
	errMissingPrice  = errors.New("price is required")
	errMissingNumber = errors.New("number is required")
)

// ToItemFields converts a payload into domain fields. Every field except
// category must be present.
func ToItemFields(input ItemInput) (domain.ItemFields, error) {
	switch {
	case input.Name == nil:
		return domain.ItemFields{}, errMissingName
	case input.Code == nil:
		return domain.ItemFields{}, errMissingCode
	case input.Price == nil:
		return domain.ItemFields{}, errMissingPrice
	}
	fields := domain.ItemFields{Name: *input.Name, Code: *input.Code, Price: *input.Price}
	if input.Category != nil {
		fields.Category = *input.Category
	}
	return fields, nil
}

// ToTableFields converts a payload into domain fields.
func ToTableFields(input TableInput) (domain.TableFields, error) {
	if input.Number == nil {
		return domain.TableFields{}, errMissingNumber
	}
	return domain.TableFields{Number: *input.Number}, nil
}

// FromDomainItem maps a menu item into its transport form.
func FromDomainItem(item domain.MenuItem) Item {
	return Item{ID: item.ID, Name: item.Name, Code: item.Code, Price: item.Price, Category: item.Category}
}

// FromDomainTable maps a table into its transport form.
func FromDomainTable(table domain.Table) Table {
	return Table{ID: table.ID, Number: table.Number, Status: string(table.Status)}
}

// FromDomainItems maps a list, never returning nil.
func FromDomainItems(items []domain.MenuItem) []Item {
	out := make([]Item, 0, len(items))
	for _, item := range items {
		out = append(out, FromDomainItem(item))
	}
	return out
}

// FromDomainTables maps a list, never returning nil.
func FromDomainTables(tables []domain.Table) []Table {
	out := make([]Table, 0, len(tables))
	for _, table := range tables {
		out = append(out, FromDomainTable(table))
	}
	return out
}

// FromSnapshot maps a catalog snapshot.
func FromSnapshot(snapshot *domain.Snapshot) Catalog {
	if snapshot == nil {
		snapshot = domain.EmptySnapshot()
	}
	return Catalog{
		Items:       FromDomainItems(snapshot.Items),
		Tables:      FromDomainTables(snapshot.Tables),
		Generation:  snapshot.Generation,
		RefreshedAt: snapshot.RefreshedAt,
	}
}
