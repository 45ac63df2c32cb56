package migrations

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run applies the schema for the bounded contexts. Adapters never automigrate on their own.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&itemRecord{},
		&tableRecord{},
		&orderRecord{},
		&orderItemRecord{},
	)
}

// Item schema mirrors the catalog Postgres adapter.
type itemRecord struct {
	ID        string          `gorm:"primaryKey;column:id;type:varchar(36)"`
	Name      string          `gorm:"column:name;not null;index"`
	Code      string          `gorm:"column:code;not null;uniqueIndex"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Category  string          `gorm:"column:category"`
	CreatedAt time.Time       `gorm:"column:created_at"`
	UpdatedAt time.Time       `gorm:"column:updated_at"`
}

func (itemRecord) TableName() string { return "items" }

// Table schema mirrors the catalog Postgres adapter.
type tableRecord struct {
	ID        string    `gorm:"primaryKey;column:id;type:varchar(36)"`
	Number    int       `gorm:"column:number;not null;uniqueIndex"`
	Status    string    `gorm:"column:status;type:varchar(16);not null;default:idle;index"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (tableRecord) TableName() string { return "tables" }

// Order schema mirrors the orders Postgres adapter. table_id carries no foreign
// key so committed orders outlive a deleted table.
type orderRecord struct {
	ID          string            `gorm:"primaryKey;column:id;type:varchar(36)"`
	TableID     string            `gorm:"column:table_id;type:varchar(36);not null;index"`
	TotalAmount decimal.Decimal   `gorm:"column:total_amount;type:numeric(12,2);not null"`
	Status      string            `gorm:"column:status;type:varchar(16);not null;index"`
	CreatedAt   time.Time         `gorm:"column:created_at;index"`
	Lines       []orderItemRecord `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (orderRecord) TableName() string { return "orders" }

// Order line schema; price_at_time freezes the item price at commit.
type orderItemRecord struct {
	ID          int64           `gorm:"primaryKey;column:id;autoIncrement"`
	OrderID     string          `gorm:"column:order_id;type:varchar(36);not null;index"`
	ItemID      string          `gorm:"column:item_id;type:varchar(36);not null;index"`
	Item        itemRecord      `gorm:"foreignKey:ItemID;constraint:OnDelete:RESTRICT"`
	Quantity    int             `gorm:"column:quantity;not null"`
	PriceAtTime decimal.Decimal `gorm:"column:price_at_time;type:numeric(12,2);not null"`
}

func (orderItemRecord) TableName() string { return "order_items" }
