package repository

import (
	"context"

	"github.com/nb2912/inventory/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SalesOrderRepository interface {
	CreateTx(tx *gorm.DB, so *model.SalesOrder) error
	List(ctx context.Context) ([]model.SalesOrder, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.SalesOrder, error)
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type salesOrderRepo struct{ db *gorm.DB }

func NewSalesOrderRepository(db *gorm.DB) SalesOrderRepository { return &salesOrderRepo{db: db} }

func (r *salesOrderRepo) DB() *gorm.DB { return r.db }

func (r *salesOrderRepo) CreateTx(tx *gorm.DB, so *model.SalesOrder) error {
	if err := tx.Omit(clause.Associations).Create(so).Error; err != nil {
		return err
	}
	for i := range so.Items {
		so.Items[i].SalesOrderID = so.ID
	}
	return tx.Omit(clause.Associations).Create(&so.Items).Error
}

func (r *salesOrderRepo) List(ctx context.Context) ([]model.SalesOrder, error) {
	var orders []model.SalesOrder
	err := r.db.WithContext(ctx).
		Order("order_date DESC").Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

func (r *salesOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.SalesOrder, error) {
	var so model.SalesOrder
	err := r.db.WithContext(ctx).Preload("Items.Item").First(&so, "id = ?", id).Error
	return &so, err
}
