package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the wire format of order dates.
const DateLayout = "2006-01-02"

// ─── Purchase orders ─────────────────────────────────────────────────────────

type PurchaseOrderLineRequest struct {
	ItemID   string           `json:"item_id"  validate:"required,uuid"`
	Quantity int              `json:"quantity" validate:"required,min=1"`
	Price    *decimal.Decimal `json:"price"    validate:"required,min=0"`
}

type CreatePurchaseOrderRequest struct {
	SupplierID           string                     `json:"supplier_id"            validate:"required,uuid"`
	OrderDate            string                     `json:"order_date"             validate:"required,datetime=2006-01-02"`
	ExpectedDeliveryDate *string                    `json:"expected_delivery_date" validate:"omitempty,datetime=2006-01-02"`
	Items                []PurchaseOrderLineRequest `json:"items"                  validate:"required,min=1,dive"`
}

type UpdatePurchaseOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof='Pending' 'Sent' 'Partially Received' 'Received'"`
}

type PurchaseOrderSummary struct {
	ID           string `json:"id"`
	SupplierName string `json:"supplier_name"`
	OrderDate    string `json:"order_date"`
	Status       string `json:"status"`
}

type PurchaseOrderResponse struct {
	ID                   string              `json:"id"`
	SupplierID           string              `json:"supplier_id"`
	SupplierName         string              `json:"supplier_name"`
	OrderDate            string              `json:"order_date"`
	ExpectedDeliveryDate *string             `json:"expected_delivery_date"`
	Status               string              `json:"status"`
	ReceivedAt           *time.Time          `json:"received_at"`
	CreatedAt            time.Time           `json:"created_at"`
	Items                []OrderLineResponse `json:"items"`
}

// ─── Sales orders ────────────────────────────────────────────────────────────

type SalesOrderLineRequest struct {
	ItemID   string `json:"item_id"  validate:"required,uuid"`
	Quantity int    `json:"quantity" validate:"required,min=1"`
	// Price defaults to the item's current price when omitted
	Price *decimal.Decimal `json:"price" validate:"omitempty,min=0"`
}

type CreateSalesOrderRequest struct {
	CustomerName string                  `json:"customer_name" validate:"required,max=200"`
	OrderDate    string                  `json:"order_date"    validate:"required,datetime=2006-01-02"`
	Items        []SalesOrderLineRequest `json:"items"         validate:"required,min=1,dive"`
}

type SalesOrderSummary struct {
	ID           string `json:"id"`
	CustomerName string `json:"customer_name"`
	OrderDate    string `json:"order_date"`
	Status       string `json:"status"`
}

type SalesOrderResponse struct {
	ID           string              `json:"id"`
	CustomerName string              `json:"customer_name"`
	OrderDate    string              `json:"order_date"`
	Status       string              `json:"status"`
	CreatedAt    time.Time           `json:"created_at"`
	Items        []OrderLineResponse `json:"items"`
}

// ─── Shared ──────────────────────────────────────────────────────────────────

type OrderLineResponse struct {
	ItemID   string          `json:"item_id"`
	Name     string          `json:"name"`
	SerialNo string          `json:"serial_no"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

type CreatedResponse struct {
	ID string `json:"id"`
}
