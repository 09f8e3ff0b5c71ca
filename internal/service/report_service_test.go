package service_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"

	"github.com/nb2912/inventory/internal/dto"
	"github.com/nb2912/inventory/internal/model"
	"github.com/nb2912/inventory/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Alerts ────────────────────────────────────────────────────────────────────

func TestLowStock_DefaultAndExplicitThreshold(t *testing.T) {
	e := newEnv()
	e.addItem("A", "Alpha", 3, "1")
	e.addItem("B", "Beta", 9, "1")
	e.addItem("C", "Gamma", 10, "1")

	items, err := e.alerts.LowStock(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "A", items[0].SerialNo, "lowest quantity first")

	items, err = e.alerts.LowStock(context.Background(), intPtr(4))
	require.NoError(t, err)
	assert.Len(t, items, 1)

	_, err = e.alerts.LowStock(context.Background(), intPtr(-1))
	assertKind(t, err, service.KindValidation)
}

func TestCustomAlerts_BelowOwnThreshold(t *testing.T) {
	e := newEnv()
	e.store.AddItem(model.Item{SerialNo: "A", Name: "a", Quantity: 1, Price: decimal.Zero, AlertThreshold: intPtr(3)})
	e.store.AddItem(model.Item{SerialNo: "B", Name: "b", Quantity: 5, Price: decimal.Zero, AlertThreshold: intPtr(3)})
	e.store.AddItem(model.Item{SerialNo: "C", Name: "c", Quantity: 0, Price: decimal.Zero})

	items, err := e.alerts.Custom(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "A", items[0].SerialNo)
}

func TestSetThreshold_SetsAndClears(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	it := e.addItem("SN", "Thing", 1, "1")

	resp, err := e.alerts.SetThreshold(ctx, it.ID, intPtr(4))
	require.NoError(t, err)
	require.NotNil(t, resp.AlertThreshold)
	assert.Equal(t, 4, *resp.AlertThreshold)

	resp, err = e.alerts.SetThreshold(ctx, it.ID, nil)
	require.NoError(t, err)
	assert.Nil(t, resp.AlertThreshold)

	_, err = e.alerts.SetThreshold(ctx, uuid.New(), intPtr(1))
	assertKind(t, err, service.KindNotFound)
}

// ── Reports ───────────────────────────────────────────────────────────────────

func TestValueReport(t *testing.T) {
	e := newEnv()
	e.addItem("A", "Alpha", 2, "10.00")
	e.addItem("B", "Beta", 1, "5.00")

	r, err := e.reports.Value(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), r.TotalItems)
	assert.True(t, decimal.RequireFromString("25").Equal(r.TotalValue))
	assert.True(t, decimal.RequireFromString("7.5").Equal(r.AveragePrice))
	assert.True(t, decimal.RequireFromString("10").Equal(r.HighestPrice))
	assert.True(t, decimal.RequireFromString("5").Equal(r.LowestPrice))
}

func TestValueReport_Empty(t *testing.T) {
	e := newEnv()
	r, err := e.reports.Value(context.Background())
	require.NoError(t, err)
	assert.Zero(t, r.TotalItems)
	assert.True(t, r.TotalValue.IsZero())
}

func TestMovementReport_RangeAndValidation(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	_, err := e.items.Create(ctx, actor, createReq("SN", 3, "1"))
	require.NoError(t, err)

	// Store timestamps start at 2024-01-01
	movements, err := e.reports.Movement(ctx, dto.MovementFilter{StartDate: "2024-01-01", EndDate: "2024-01-01"})
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, "SN", movements[0].SerialNo)

	movements, err = e.reports.Movement(ctx, dto.MovementFilter{StartDate: "2024-01-02"})
	require.NoError(t, err)
	assert.Empty(t, movements)

	movements, err = e.reports.Movement(ctx, dto.MovementFilter{})
	require.NoError(t, err)
	assert.Len(t, movements, 1)

	_, err = e.reports.Movement(ctx, dto.MovementFilter{StartDate: "2024-02-01", EndDate: "2024-01-01"})
	assertKind(t, err, service.KindValidation)

	_, err = e.reports.Movement(ctx, dto.MovementFilter{StartDate: "01/02/2024"})
	assertKind(t, err, service.KindValidation)
}

func TestCategoryReport_OrderedByValue(t *testing.T) {
	e := newEnv()
	e.store.AddItem(model.Item{SerialNo: "1", Name: "a", Quantity: 1, Price: decimal.NewFromInt(5), Category: strPtr("cheap")})
	e.store.AddItem(model.Item{SerialNo: "2", Name: "b", Quantity: 2, Price: decimal.NewFromInt(50), Category: strPtr("dear")})

	rows, err := e.reports.Categories(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "dear", *rows[0].Category)
	assert.Equal(t, int64(2), rows[0].TotalQuantity)
}

func TestExport_CSVQuotesFields(t *testing.T) {
	e := newEnv()
	e.store.AddItem(model.Item{SerialNo: "SN-1", Name: `Bolt, "large"`, Quantity: 4, Price: decimal.RequireFromString("1.5")})

	file, err := e.reports.Export(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "inventory_export.csv", file.Filename)
	assert.Equal(t, "text/csv", file.ContentType)

	records, err := csv.NewReader(bytes.NewReader(file.Body)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "serial_no", records[0][1])
	assert.Equal(t, `Bolt, "large"`, records[1][2])
	assert.Equal(t, "1.50", records[1][4])
}

func TestExport_PDF(t *testing.T) {
	e := newEnv()
	e.addItem("SN", "Thing", 1, "1")

	file, err := e.reports.Export(context.Background(), service.ExportPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, bytes.HasPrefix(file.Body, []byte("%PDF")))
}

func TestExport_UnknownFormat(t *testing.T) {
	e := newEnv()
	_, err := e.reports.Export(context.Background(), "xlsx")
	assertKind(t, err, service.KindValidation)
}

// ── Dashboard ─────────────────────────────────────────────────────────────────

func TestDashboardStats(t *testing.T) {
	e := newEnv()
	e.store.AddItem(model.Item{SerialNo: "1", Name: "a", Quantity: 1, Price: decimal.NewFromInt(100), Category: strPtr("x")})
	e.store.AddItem(model.Item{SerialNo: "2", Name: "b", Quantity: 50, Price: decimal.NewFromInt(1), Category: strPtr("x")})
	e.store.AddItem(model.Item{SerialNo: "3", Name: "c", Quantity: 20, Price: decimal.NewFromInt(2)})

	stats, err := e.dashboard.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalItems)
	assert.True(t, decimal.NewFromInt(190).Equal(stats.InventoryValue))
	assert.Equal(t, int64(1), stats.LowStockItems)
	require.Len(t, stats.ItemsByCategory, 2)
	assert.Equal(t, int64(2), stats.ItemsByCategory[0].Count)
	require.Len(t, stats.ValuableItems, 3)
	assert.Equal(t, "1", stats.ValuableItems[0].SerialNo)
	assert.Equal(t, "3", stats.RecentItems[0].SerialNo)
}

func TestDashboardStats_Empty(t *testing.T) {
	e := newEnv()
	stats, err := e.dashboard.Stats(context.Background())
	require.NoError(t, err)
	assert.True(t, stats.InventoryValue.IsZero())
	assert.Empty(t, stats.RecentItems)
}

func TestDashboardActivity(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	_, err := e.items.Create(ctx, actor, createReq("SN", 3, "1"))
	require.NoError(t, err)
	_, err = e.items.UpdateQuantity(ctx, actor, "SN", dto.UpdateQuantityRequest{Quantity: intPtr(1), Operation: dto.QuantityAdd})
	require.NoError(t, err)

	activity, err := e.dashboard.Activity(ctx)
	require.NoError(t, err)
	require.Len(t, activity.Activities, 1)
	require.Len(t, activity.Movements, 2)
	assert.Equal(t, model.MovementManualAdd, activity.Movements[0].MovementType, "newest first")
}
