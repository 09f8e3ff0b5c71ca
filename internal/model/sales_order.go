package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const SOStatusFulfilled = "Fulfilled"

// SalesOrder records inventory sold to a customer. Stock is deducted on creation.
type SalesOrder struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CustomerName string     `gorm:"not null"`
	OrderDate    time.Time  `gorm:"type:date;not null"`
	Status       string     `gorm:"type:varchar(30);not null;default:'Fulfilled'"`
	CreatedBy    *uuid.UUID `gorm:"type:uuid"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Items []SalesOrderItem `gorm:"foreignKey:SalesOrderID"`
}

type SalesOrderItem struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SalesOrderID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity     int             `gorm:"not null"`
	Price        decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Item *Item `gorm:"foreignKey:ItemID"`
}
