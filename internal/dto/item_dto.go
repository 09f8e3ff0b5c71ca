package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

// CreateItemRequest uses pointers for quantity and price so that an explicit 0
// is accepted while a missing field is still reported.
type CreateItemRequest struct {
	SerialNo       string           `json:"serial_no"       validate:"required,max=64"`
	Name           string           `json:"name"            validate:"required,max=200"`
	Quantity       *int             `json:"quantity"        validate:"required,min=0"`
	Price          *decimal.Decimal `json:"price"           validate:"required,min=0"`
	Category       *string          `json:"category"        validate:"omitempty,max=100"`
	Description    *string          `json:"description"`
	AlertThreshold *int             `json:"alert_threshold" validate:"omitempty,min=0"`
	SupplierID     *string          `json:"supplier_id"     validate:"omitempty,uuid"`
}

type UpdateItemRequest struct {
	SerialNo    *string          `json:"serial_no"   validate:"omitempty,min=1,max=64"`
	Name        *string          `json:"name"        validate:"omitempty,min=1,max=200"`
	Price       *decimal.Decimal `json:"price"       validate:"omitempty,min=0"`
	Category    *string          `json:"category"    validate:"omitempty,max=100"`
	Description *string          `json:"description"`
	SupplierID  *string          `json:"supplier_id" validate:"omitempty,uuid"`
}

const (
	QuantityAdd      = "add"
	QuantitySubtract = "subtract"
	QuantitySet      = "set"
)

type UpdateQuantityRequest struct {
	Quantity  *int   `json:"quantity"  validate:"required,min=0"`
	Operation string `json:"operation" validate:"required,oneof=add subtract set"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

// ItemFilter is bound from the query string of GET /api/items.
// Sort is restricted to a whitelist so it can be used as a column name.
type ItemFilter struct {
	Q           string   `form:"q"`
	Category    string   `form:"category"`
	SupplierID  string   `form:"supplier_id"  validate:"omitempty,uuid"`
	MinQuantity *int     `form:"min_quantity" validate:"omitempty,min=0"`
	MaxQuantity *int     `form:"max_quantity" validate:"omitempty,min=0"`
	MinPrice    *float64 `form:"min_price"    validate:"omitempty,min=0"`
	MaxPrice    *float64 `form:"max_price"    validate:"omitempty,min=0"`
	Sort        string   `form:"sort"         validate:"omitempty,oneof=name serial_no quantity price category created_at updated_at"`
	Order       string   `form:"order"        validate:"omitempty,oneof=asc desc"`
	Page        int      `form:"page,default=1"   validate:"min=1"`
	Limit       int      `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemResponse struct {
	ID             string          `json:"id"`
	SerialNo       string          `json:"serial_no"`
	Name           string          `json:"name"`
	Quantity       int             `json:"quantity"`
	Price          decimal.Decimal `json:"price"`
	Category       *string         `json:"category"`
	Description    *string         `json:"description"`
	AlertThreshold *int            `json:"alert_threshold"`
	SupplierID     *string         `json:"supplier_id"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Page
}

type QuantityChangeResponse struct {
	SerialNo         string `json:"serial_no"`
	PreviousQuantity int    `json:"previousQuantity"`
	NewQuantity      int    `json:"newQuantity"`
}
