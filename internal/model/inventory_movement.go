package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	MovementInitialStock    = "initial_stock"
	MovementSale            = "sale"
	MovementPurchaseReceipt = "purchase_receipt"
	MovementManualAdd       = "manual_add"
	MovementManualSubtract  = "manual_subtract"
	MovementManualSet       = "manual_set"
)

// InventoryMovement records one stock change of an item.
// Written in the same transaction as the change itself; never updated.
type InventoryMovement struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ItemID         uuid.UUID `gorm:"type:uuid;not null;index"`
	MovementType   string    `gorm:"type:varchar(30);not null"`
	QuantityChange int       `gorm:"not null"` // positive = in, negative = out
	QuantityBefore int       `gorm:"not null"`
	QuantityAfter  int       `gorm:"not null"`
	Reason         string
	// ReferenceID links to the originating purchase or sales order, if any
	ReferenceID *uuid.UUID `gorm:"type:uuid"`
	CreatedBy   *uuid.UUID `gorm:"type:uuid"`
	CreatedAt   time.Time  `gorm:"index"`

	Item *Item `gorm:"foreignKey:ItemID"`
}
