package repository

import (
	"context"
	"time"

	"github.com/nb2912/inventory/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MovementFilter bounds a movement listing. Zero From/To mean unbounded;
// Limit <= 0 means no limit.
type MovementFilter struct {
	From  time.Time
	To    time.Time
	Limit int
}

type MovementRepository interface {
	CreateTx(tx *gorm.DB, m *model.InventoryMovement) error
	List(ctx context.Context, filter MovementFilter) ([]model.InventoryMovement, error)
}

type movementRepo struct{ db *gorm.DB }

func NewMovementRepository(db *gorm.DB) MovementRepository { return &movementRepo{db: db} }

func (r *movementRepo) CreateTx(tx *gorm.DB, m *model.InventoryMovement) error {
	return tx.Omit(clause.Associations).Create(m).Error
}

func (r *movementRepo) List(ctx context.Context, filter MovementFilter) ([]model.InventoryMovement, error) {
	q := r.db.WithContext(ctx).Model(&model.InventoryMovement{}).Preload("Item")
	if !filter.From.IsZero() {
		q = q.Where("created_at >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		q = q.Where("created_at < ?", filter.To)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	var movements []model.InventoryMovement
	err := q.Order("created_at DESC").Find(&movements).Error
	return movements, err
}
