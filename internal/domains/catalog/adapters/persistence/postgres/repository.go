package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Apurer/go-gin-pos-server/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-pos-server/internal/domains/catalog/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists menu items and tables in PostgreSQL using GORM.
type Repository struct {
	db    *gorm.DB
	newID func() string
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle
// and schema (see platform/migrations).
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db, newID: uuid.NewString}
}

type itemRecord struct {
	ID        string          `gorm:"primaryKey;column:id"`
	Name      string          `gorm:"column:name"`
	Code      string          `gorm:"column:code"`
	Price     decimal.Decimal `gorm:"column:price"`
	Category  string          `gorm:"column:category"`
	CreatedAt time.Time       `gorm:"column:created_at"`
	UpdatedAt time.Time       `gorm:"column:updated_at"`
}

func (itemRecord) TableName() string { return "items" }

type tableRecord struct {
	ID        string    `gorm:"primaryKey;column:id"`
	Number    int       `gorm:"column:number"`
	Status    string    `gorm:"column:status"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (tableRecord) TableName() string { return "tables" }

// ListItems returns items ordered by name.
func (r *Repository) ListItems(ctx context.Context) ([]domain.MenuItem, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []itemRecord
	if err := r.db.WithContext(ctx).Order("name").Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	items := make([]domain.MenuItem, 0, len(records))
	for i := range records {
		items = append(items, records[i].toDomain())
	}
	return items, nil
}

// ListTables returns tables ordered by number.
func (r *Repository) ListTables(ctx context.Context) ([]domain.Table, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []tableRecord
	if err := r.db.WithContext(ctx).Order("number").Find(&records).Error; err != nil {
		return nil, err
	}
	tables := make([]domain.Table, 0, len(records))
	for i := range records {
		tables = append(tables, records[i].toDomain())
	}
	return tables, nil
}

func (r *Repository) CreateItem(ctx context.Context, fields domain.ItemFields) (*domain.MenuItem, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	item, err := domain.NewMenuItem(r.newID(), fields)
	if err != nil {
		return nil, err
	}
	record := toItemRecord(*item)
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, translate(err)
	}
	saved := record.toDomain()
	return &saved, nil
}

func (r *Repository) UpdateItem(ctx context.Context, id string, fields domain.ItemFields) (*domain.MenuItem, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	fields = fields.Normalize()
	if err := fields.Validate(); err != nil {
		return nil, err
	}
	result := r.db.WithContext(ctx).Model(&itemRecord{}).Where("id = ?", id).Updates(map[string]any{
		"name":       fields.Name,
		"code":       fields.Code,
		"price":      fields.Price,
		"category":   fields.Category,
		"updated_at": gorm.Expr("NOW()"),
	})
	if result.Error != nil {
		return nil, translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrNotFound
	}
	var record itemRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	item := record.toDomain()
	return &item, nil
}

func (r *Repository) DeleteItem(ctx context.Context, id string) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&itemRecord{}, "id = ?", id)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *Repository) CreateTable(ctx context.Context, fields domain.TableFields) (*domain.Table, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	table, err := domain.NewTable(r.newID(), fields)
	if err != nil {
		return nil, err
	}
	record := tableRecord{ID: table.ID, Number: table.Number, Status: string(table.Status)}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, translate(err)
	}
	return table, nil
}

func (r *Repository) DeleteTable(ctx context.Context, id string) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&tableRecord{}, "id = ?", id)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// ResetActiveTables flips every active table back to idle and reports how many changed.
func (r *Repository) ResetActiveTables(ctx context.Context) (int64, error) {
	if err := r.ensureDB(); err != nil {
		return 0, err
	}
	result := r.db.WithContext(ctx).Model(&tableRecord{}).
		Where("status = ?", string(domain.TableActive)).
		Updates(map[string]any{"status": string(domain.TableIdle), "updated_at": gorm.Expr("NOW()")})
	return result.RowsAffected, result.Error
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres catalog repository not configured")
	}
	return nil
}

func translate(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ports.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ports.ErrDuplicate
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ports.ErrInUse
	default:
		return err
	}
}

func toItemRecord(item domain.MenuItem) itemRecord {
	return itemRecord{
		ID:       item.ID,
		Name:     item.Name,
		Code:     item.Code,
		Price:    item.Price,
		Category: item.Category,
	}
}

func (r itemRecord) toDomain() domain.MenuItem {
	return domain.MenuItem{
		ID:       r.ID,
		Name:     r.Name,
		Code:     r.Code,
		Price:    r.Price,
		Category: r.Category,
	}
}

// toDomain reads unknown persisted statuses as idle.
func (r tableRecord) toDomain() domain.Table {
	status, err := domain.ParseTableStatus(r.Status)
	if err != nil {
		status = domain.TableIdle
	}
	return domain.Table{ID: r.ID, Number: r.Number, Status: status}
}
