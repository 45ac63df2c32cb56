package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	catalogdomain "github.com/Apurer/go-gin-pos-server/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-pos-server/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-pos-server/internal/domains/orders/ports"
)

var _ ports.Gateway = (*Repository)(nil)

// Repository commits orders in PostgreSQL using GORM.
type Repository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewRepository wires a PostgreSQL-backed gateway. Caller manages DB lifecycle
// and schema (see platform/migrations).
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db, now: time.Now}
}

type orderRecord struct {
	ID          string            `gorm:"primaryKey;column:id"`
	TableID     string            `gorm:"column:table_id"`
	TotalAmount decimal.Decimal   `gorm:"column:total_amount"`
	Status      string            `gorm:"column:status"`
	CreatedAt   time.Time         `gorm:"column:created_at"`
	Lines       []orderItemRecord `gorm:"foreignKey:OrderID"`
}

func (orderRecord) TableName() string { return "orders" }

type orderItemRecord struct {
	ID          int64           `gorm:"primaryKey;column:id"`
	OrderID     string          `gorm:"column:order_id"`
	ItemID      string          `gorm:"column:item_id"`
	Quantity    int             `gorm:"column:quantity"`
	PriceAtTime decimal.Decimal `gorm:"column:price_at_time"`
}

func (orderItemRecord) TableName() string { return "order_items" }

// CommitOrder writes the order header, its lines and the table status in one
// transaction. A draft id that was already committed returns the stored order.
func (r *Repository) CommitOrder(ctx context.Context, draft domain.OrderDraft) (*domain.OrderRecord, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	var committed orderRecord
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		header := orderRecord{
			ID:          draft.ID,
			TableID:     draft.TableID,
			TotalAmount: draft.Total,
			Status:      string(domain.StatusPending),
			CreatedAt:   r.now().UTC(),
		}
		result := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoNothing: true,
		}).Omit("Lines").Create(&header)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return tx.Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
				First(&committed, "id = ?", draft.ID).Error
		}

		lines := make([]orderItemRecord, 0, len(draft.Lines))
		for _, line := range draft.Lines {
			lines = append(lines, orderItemRecord{
				OrderID:     draft.ID,
				ItemID:      line.ItemID,
				Quantity:    line.Quantity,
				PriceAtTime: line.PriceAtTime,
			})
		}
		if err := tx.Create(&lines).Error; err != nil {
			return err
		}
		if err := setStatus(tx, draft.TableID, catalogdomain.TableActive); err != nil {
			return err
		}
		header.Lines = lines
		committed = header
		return nil
	})
	if err != nil {
		return nil, err
	}
	return committed.toDomain(), nil
}

// ClearTable flips the table back to idle.
func (r *Repository) ClearTable(ctx context.Context, tableID string) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	return setStatus(r.db.WithContext(ctx), tableID, catalogdomain.TableIdle)
}

func setStatus(tx *gorm.DB, tableID string, status catalogdomain.TableStatus) error {
	result := tx.Table("tables").Where("id = ?", tableID).
		Updates(map[string]any{"status": string(status), "updated_at": gorm.Expr("NOW()")})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrTableNotFound
	}
	return nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func (r orderRecord) toDomain() *domain.OrderRecord {
	lines := make([]domain.OrderLine, 0, len(r.Lines))
	for _, line := range r.Lines {
		lines = append(lines, domain.OrderLine{ItemID: line.ItemID, Quantity: line.Quantity, PriceAtTime: line.PriceAtTime})
	}
	return &domain.OrderRecord{
		ID:        r.ID,
		TableID:   r.TableID,
		Total:     r.TotalAmount,
		Status:    domain.OrderStatus(r.Status),
		Lines:     lines,
		CreatedAt: r.CreatedAt,
	}
}
