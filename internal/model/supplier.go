package model

import (
	"time"

	"github.com/google/uuid"
)

// Supplier represents a vendor that items are bought from.
type Supplier struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name          string    `gorm:"index;not null"`
	ContactPerson *string
	Email         *string
	Phone         *string
	Address       *string
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Items []Item `gorm:"foreignKey:SupplierID"`
}
