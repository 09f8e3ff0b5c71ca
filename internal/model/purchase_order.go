package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	POStatusPending           = "Pending"
	POStatusSent              = "Sent"
	POStatusPartiallyReceived = "Partially Received"
	POStatusReceived          = "Received"
)

// PurchaseOrderStatuses lists every valid purchase order status.
var PurchaseOrderStatuses = []string{
	POStatusPending, POStatusSent, POStatusPartiallyReceived, POStatusReceived,
}

// PurchaseOrder records inventory expected from a supplier.
// Moving to "Received" adds every line's quantity to stock, exactly once.
type PurchaseOrder struct {
	ID                   uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SupplierID           uuid.UUID  `gorm:"type:uuid;not null;index"`
	OrderDate            time.Time  `gorm:"type:date;not null"`
	ExpectedDeliveryDate *time.Time `gorm:"type:date"`
	Status               string     `gorm:"type:varchar(30);not null;default:'Pending'"`
	ReceivedAt           *time.Time
	CreatedBy            *uuid.UUID `gorm:"type:uuid"`
	CreatedAt            time.Time
	UpdatedAt            time.Time

	Supplier *Supplier          `gorm:"foreignKey:SupplierID"`
	Items    []PurchaseOrderItem `gorm:"foreignKey:PurchaseOrderID"`
}

type PurchaseOrderItem struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PurchaseOrderID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity        int             `gorm:"not null"`
	Price           decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Item *Item `gorm:"foreignKey:ItemID"`
}
