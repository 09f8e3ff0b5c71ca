package repository

import (
	"context"
	"time"

	"github.com/nb2912/inventory/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PurchaseOrderRepository interface {
	// CreateTx inserts the header, then every line in one batch.
	CreateTx(tx *gorm.DB, po *model.PurchaseOrder) error
	List(ctx context.Context) ([]model.PurchaseOrder, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error)
	// FindForUpdateTx locks the header row and loads its lines.
	FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.PurchaseOrder, error)
	UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status string, receivedAt *time.Time) error
	DB() *gorm.DB
}

type purchaseOrderRepo struct{ db *gorm.DB }

func NewPurchaseOrderRepository(db *gorm.DB) PurchaseOrderRepository {
	return &purchaseOrderRepo{db: db}
}

func (r *purchaseOrderRepo) DB() *gorm.DB { return r.db }

func (r *purchaseOrderRepo) CreateTx(tx *gorm.DB, po *model.PurchaseOrder) error {
	if err := tx.Omit(clause.Associations).Create(po).Error; err != nil {
		return err
	}
	for i := range po.Items {
		po.Items[i].PurchaseOrderID = po.ID
	}
	return tx.Omit(clause.Associations).Create(&po.Items).Error
}

func (r *purchaseOrderRepo) List(ctx context.Context) ([]model.PurchaseOrder, error) {
	var orders []model.PurchaseOrder
	err := r.db.WithContext(ctx).Preload("Supplier").
		Order("order_date DESC").Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

func (r *purchaseOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error) {
	var po model.PurchaseOrder
	err := r.db.WithContext(ctx).Preload("Supplier").Preload("Items.Item").First(&po, "id = ?", id).Error
	return &po, err
}

func (r *purchaseOrderRepo) FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.PurchaseOrder, error) {
	var po model.PurchaseOrder
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&po, "id = ?", id).Error; err != nil {
		return &po, err
	}
	err := tx.Where("purchase_order_id = ?", po.ID).Order("item_id").Find(&po.Items).Error
	return &po, err
}

func (r *purchaseOrderRepo) UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status string, receivedAt *time.Time) error {
	updates := map[string]interface{}{"status": status}
	if receivedAt != nil {
		updates["received_at"] = *receivedAt
	}
	return tx.Model(&model.PurchaseOrder{}).Where("id = ?", id).Updates(updates).Error
}
