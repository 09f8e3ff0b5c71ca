package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type ValueReport struct {
	TotalValue   decimal.Decimal `json:"total_value"`
	TotalItems   int64           `json:"total_items"`
	AveragePrice decimal.Decimal `json:"average_price"`
	HighestPrice decimal.Decimal `json:"highest_price"`
	LowestPrice  decimal.Decimal `json:"lowest_price"`
}

type CategoryReportRow struct {
	Category      *string         `json:"category"`
	ItemCount     int64           `json:"item_count"`
	TotalQuantity int64           `json:"total_quantity"`
	CategoryValue decimal.Decimal `json:"category_value"`
}

// MovementFilter is bound from GET /api/reports/movement.
type MovementFilter struct {
	StartDate string `form:"startDate" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `form:"endDate"   validate:"omitempty,datetime=2006-01-02"`
}

type MovementResponse struct {
	ID             string    `json:"id"`
	ItemID         string    `json:"item_id"`
	Name           string    `json:"name"`
	SerialNo       string    `json:"serial_no"`
	MovementType   string    `json:"movement_type"`
	QuantityChange int       `json:"quantity_change"`
	QuantityBefore int       `json:"quantity_before"`
	QuantityAfter  int       `json:"quantity_after"`
	Reason         string    `json:"reason"`
	ReferenceID    *string   `json:"reference_id"`
	CreatedAt      time.Time `json:"created_at"`
}

type CategoryCount struct {
	Category *string `json:"category"`
	Count    int64   `json:"count"`
}

type ValuedItem struct {
	ItemResponse
	TotalValue decimal.Decimal `json:"total_value"`
}

type DashboardStats struct {
	TotalItems      int64           `json:"totalItems"`
	InventoryValue  decimal.Decimal `json:"inventoryValue"`
	LowStockItems   int64           `json:"lowStockItems"`
	ItemsByCategory []CategoryCount `json:"itemsByCategory"`
	RecentItems     []ItemResponse  `json:"recentItems"`
	ValuableItems   []ValuedItem    `json:"valuableItems"`
}

type DashboardActivity struct {
	Activities []ItemResponse     `json:"activities"`
	Movements  []MovementResponse `json:"movements"`
}

// ExportFile is a rendered report ready to be sent as an attachment.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}
