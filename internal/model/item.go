package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item is one stock-keeping unit identified by its serial number (also its barcode).
type Item struct {
	ID       uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SerialNo string          `gorm:"uniqueIndex;not null"`
	Name     string          `gorm:"index;not null"`
	Quantity int             `gorm:"not null;default:0;check:chk_items_quantity,quantity >= 0"`
	Price    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Category *string         `gorm:"index"`
	// AlertThreshold is the per-item floor for custom low-stock alerts; nil = no alert
	AlertThreshold *int
	Description    *string
	SupplierID     *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Supplier *Supplier `gorm:"foreignKey:SupplierID"`
}

// BelowThreshold reports whether the item is under its own alert threshold.
func (i *Item) BelowThreshold() bool {
	return i.AlertThreshold != nil && i.Quantity < *i.AlertThreshold
}
