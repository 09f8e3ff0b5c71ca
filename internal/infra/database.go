package infra

import (
	"fmt"
	"time"

	"github.com/nb2912/inventory/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens a GORM connection backed by pgx. TranslateError is on so
// unique violations surface as gorm.ErrDuplicatedKey.
func NewDatabase(dsn string, debug bool) (*gorm.DB, error) {
	logMode := logger.Silent
	if debug {
		logMode = logger.Info
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logMode),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}

// RunMigrations creates or updates every table, then applies the idempotent
// SQL patches AutoMigrate cannot express.
func RunMigrations(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		return fmt.Errorf("pgcrypto: %w", err)
	}
	if err := db.AutoMigrate(
		&model.User{},
		&model.Supplier{},
		&model.Item{},
		&model.PurchaseOrder{},
		&model.PurchaseOrderItem{},
		&model.SalesOrder{},
		&model.SalesOrderItem{},
		&model.InventoryMovement{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs DDL that is safe to re-run on an already-patched DB.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// emails are stored lowercased; this keeps mixed-case duplicates out too
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email_lower ON users (LOWER(email))`,
		// custom alerts scan only items that have a threshold
		`CREATE INDEX IF NOT EXISTS idx_items_alert_threshold
		    ON items (alert_threshold) WHERE alert_threshold IS NOT NULL`,
		// movement report filters by date, newest first
		`CREATE INDEX IF NOT EXISTS idx_inventory_movements_item_created
		    ON inventory_movements (item_id, created_at DESC)`,
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_purchase_order_items_quantity') THEN
		    ALTER TABLE purchase_order_items
		      ADD CONSTRAINT chk_purchase_order_items_quantity CHECK (quantity > 0);
		  END IF;
		  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_sales_order_items_quantity') THEN
		    ALTER TABLE sales_order_items
		      ADD CONSTRAINT chk_sales_order_items_quantity CHECK (quantity > 0);
		  END IF;
		END $$`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}
