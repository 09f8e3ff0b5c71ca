package repository

import (
	"context"

	"github.com/nb2912/inventory/internal/dto"
	"github.com/nb2912/inventory/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ItemRepository defines the data access contract for items.
// Services depend on this interface, not on the concrete GORM implementation,
// so they can be unit tested against in-memory fakes.
type ItemRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Item, error)
	FindBySerialNo(ctx context.Context, serialNo string) (*model.Item, error)
	List(ctx context.Context, filter dto.ItemFilter) ([]model.Item, int64, error)
	ListAll(ctx context.Context) ([]model.Item, error)
	ListByCategory(ctx context.Context, category string) ([]model.Item, error)
	Categories(ctx context.Context) ([]string, error)
	Update(ctx context.Context, it *model.Item) error
	UpdateAlertThreshold(ctx context.Context, id uuid.UUID, threshold *int) error
	CountBySupplier(ctx context.Context, supplierID uuid.UUID) (int64, error)
	CountByIDs(ctx context.Context, ids []uuid.UUID) (int64, error)

	// Alerts
	ListBelowQuantity(ctx context.Context, threshold int) ([]model.Item, error)
	ListBelowOwnThreshold(ctx context.Context) ([]model.Item, error)

	// Used inside transactions; callers must pass the tx instance
	CreateTx(tx *gorm.DB, it *model.Item) error
	// FindForUpdateTx locks the rows in id order so concurrent orders
	// touching the same items cannot deadlock.
	FindForUpdateTx(tx *gorm.DB, ids []uuid.UUID) ([]model.Item, error)
	FindBySerialForUpdateTx(tx *gorm.DB, serialNo string) (*model.Item, error)
	SetQuantityTx(tx *gorm.DB, id uuid.UUID, quantity int) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

// sortColumns maps the accepted sort keys to column names.
var sortColumns = map[string]string{
	"name":       "name",
	"serial_no":  "serial_no",
	"quantity":   "quantity",
	"price":      "price",
	"category":   "category",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

type itemRepo struct{ db *gorm.DB }

func NewItemRepository(db *gorm.DB) ItemRepository { return &itemRepo{db: db} }

func (r *itemRepo) DB() *gorm.DB { return r.db }

func (r *itemRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Item, error) {
	var it model.Item
	err := r.db.WithContext(ctx).First(&it, "id = ?", id).Error
	return &it, err
}

func (r *itemRepo) FindBySerialNo(ctx context.Context, serialNo string) (*model.Item, error) {
	var it model.Item
	err := r.db.WithContext(ctx).Where("serial_no = ?", serialNo).First(&it).Error
	return &it, err
}

func (r *itemRepo) List(ctx context.Context, filter dto.ItemFilter) ([]model.Item, int64, error) {
	var items []model.Item
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Item{})

	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.SupplierID != "" {
		q = q.Where("supplier_id = ?", filter.SupplierID)
	}
	if filter.MinQuantity != nil {
		q = q.Where("quantity >= ?", *filter.MinQuantity)
	}
	if filter.MaxQuantity != nil {
		q = q.Where("quantity <= ?", *filter.MaxQuantity)
	}
	if filter.MinPrice != nil {
		q = q.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		q = q.Where("price <= ?", *filter.MaxPrice)
	}
	if filter.Q != "" {
		like := "%" + filter.Q + "%"
		q = q.Where("name ILIKE ? OR serial_no ILIKE ? OR description ILIKE ?", like, like, like)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	col, ok := sortColumns[filter.Sort]
	if !ok {
		col = "name"
	}
	desc := filter.Order == "desc"

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order(clause.OrderByColumn{Column: clause.Column{Name: col}, Desc: desc}).
		Order("id").
		Limit(filter.Limit).Offset(offset).
		Find(&items).Error
	return items, total, err
}

func (r *itemRepo) ListAll(ctx context.Context) ([]model.Item, error) {
	var items []model.Item
	err := r.db.WithContext(ctx).Order("name ASC").Find(&items).Error
	return items, err
}

func (r *itemRepo) ListByCategory(ctx context.Context, category string) ([]model.Item, error) {
	var items []model.Item
	err := r.db.WithContext(ctx).Where("category = ?", category).Order("name ASC").Find(&items).Error
	return items, err
}

func (r *itemRepo) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).Model(&model.Item{}).
		Where("category IS NOT NULL").
		Distinct("category").
		Order("category ASC").
		Pluck("category", &categories).Error
	return categories, err
}

// Update writes the editable columns only; quantity changes go through SetQuantityTx.
func (r *itemRepo) Update(ctx context.Context, it *model.Item) error {
	res := r.db.WithContext(ctx).Model(it).
		Select("serial_no", "name", "price", "category", "description", "supplier_id").
		Updates(it)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *itemRepo) UpdateAlertThreshold(ctx context.Context, id uuid.UUID, threshold *int) error {
	res := r.db.WithContext(ctx).Model(&model.Item{}).Where("id = ?", id).Update("alert_threshold", threshold)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *itemRepo) CountBySupplier(ctx context.Context, supplierID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Item{}).Where("supplier_id = ?", supplierID).Count(&n).Error
	return n, err
}

func (r *itemRepo) CountByIDs(ctx context.Context, ids []uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Item{}).Where("id IN ?", ids).Count(&n).Error
	return n, err
}

func (r *itemRepo) ListBelowQuantity(ctx context.Context, threshold int) ([]model.Item, error) {
	var items []model.Item
	err := r.db.WithContext(ctx).Where("quantity < ?", threshold).
		Order("quantity ASC").Order("name ASC").
		Find(&items).Error
	return items, err
}

func (r *itemRepo) ListBelowOwnThreshold(ctx context.Context) ([]model.Item, error) {
	var items []model.Item
	err := r.db.WithContext(ctx).
		Where("alert_threshold IS NOT NULL AND quantity < alert_threshold").
		Order("(alert_threshold - quantity) DESC").Order("name ASC").
		Find(&items).Error
	return items, err
}

func (r *itemRepo) CreateTx(tx *gorm.DB, it *model.Item) error {
	return tx.Omit(clause.Associations).Create(it).Error
}

func (r *itemRepo) FindForUpdateTx(tx *gorm.DB, ids []uuid.UUID) ([]model.Item, error) {
	var items []model.Item
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("id").
		Find(&items).Error
	return items, err
}

func (r *itemRepo) FindBySerialForUpdateTx(tx *gorm.DB, serialNo string) (*model.Item, error) {
	var it model.Item
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("serial_no = ?", serialNo).
		First(&it).Error
	return &it, err
}

func (r *itemRepo) SetQuantityTx(tx *gorm.DB, id uuid.UUID, quantity int) error {
	return tx.Model(&model.Item{}).Where("id = ?", id).Update("quantity", quantity).Error
}
