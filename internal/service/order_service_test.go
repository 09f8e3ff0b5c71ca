package service_test

import (
	"context"
	"testing"

	"github.com/nb2912/inventory/internal/dto"
	"github.com/nb2912/inventory/internal/model"
	"github.com/nb2912/inventory/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Suppliers ─────────────────────────────────────────────────────────────────

func TestSupplierCRUD(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	created, err := e.suppliers.Create(ctx, dto.SupplierRequest{Name: "Acme", Email: strPtr("sales@acme.test")})
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)

	updated, err := e.suppliers.Update(ctx, id, dto.SupplierRequest{Name: "Acme Corp"})
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", updated.Name)
	assert.Nil(t, updated.Email)

	require.NoError(t, e.suppliers.Delete(ctx, id))
	_, err = e.suppliers.Get(ctx, id)
	assertKind(t, err, service.KindNotFound)
}

func TestDeleteSupplier_WithItems_Refused(t *testing.T) {
	e := newEnv()
	sup := e.store.AddSupplier(model.Supplier{Name: "Acme"})
	e.store.AddItem(model.Item{SerialNo: "SN", Name: "Thing", Price: decimal.NewFromInt(1), SupplierID: &sup.ID})

	err := e.suppliers.Delete(context.Background(), sup.ID)
	assertKind(t, err, service.KindValidation)
	assert.Contains(t, e.store.Suppliers, sup.ID)
}

func TestDeleteSupplier_WithPurchaseOrders_Refused(t *testing.T) {
	e := newEnv()
	sup := e.store.AddSupplier(model.Supplier{Name: "Acme"})
	it := e.addItem("SN", "Thing", 1, "1")
	newPurchaseOrder(t, e, sup.ID, dto.PurchaseOrderLineRequest{ItemID: it.ID.String(), Quantity: 2, Price: decPtr("1")})

	err := e.suppliers.Delete(context.Background(), sup.ID)
	assertKind(t, err, service.KindValidation)
	assert.Contains(t, err.Error(), "Purchase orders reference this supplier.")
	assert.Contains(t, e.store.Suppliers, sup.ID)
}

func TestDeleteSupplier_Missing_NotFound(t *testing.T) {
	e := newEnv()
	err := e.suppliers.Delete(context.Background(), uuid.New())
	assertKind(t, err, service.KindNotFound)
}

// ── Purchase orders ───────────────────────────────────────────────────────────

func newPurchaseOrder(t *testing.T, e *env, supplierID uuid.UUID, lines ...dto.PurchaseOrderLineRequest) uuid.UUID {
	t.Helper()
	created, err := e.purchases.Create(context.Background(), actor, dto.CreatePurchaseOrderRequest{
		SupplierID: supplierID.String(),
		OrderDate:  "2024-03-01",
		Items:      lines,
	})
	require.NoError(t, err)
	return uuid.MustParse(created.ID)
}

func TestCreatePurchaseOrder_Pending(t *testing.T) {
	e := newEnv()
	sup := e.store.AddSupplier(model.Supplier{Name: "Acme"})
	it := e.addItem("SN", "Thing", 1, "1")

	id := newPurchaseOrder(t, e, sup.ID, dto.PurchaseOrderLineRequest{ItemID: it.ID.String(), Quantity: 3, Price: decPtr("2.50")})

	po, err := e.purchases.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, model.POStatusPending, po.Status)
	assert.Equal(t, "Acme", po.SupplierName)
	assert.Equal(t, "2024-03-01", po.OrderDate)
	require.Len(t, po.Items, 1)
	assert.Equal(t, "SN", po.Items[0].SerialNo)
	assert.Equal(t, 1, e.store.Quantity(it.ID), "creating an order does not touch stock")
}

func TestCreatePurchaseOrder_UnknownSupplier(t *testing.T) {
	e := newEnv()
	it := e.addItem("SN", "Thing", 1, "1")
	_, err := e.purchases.Create(context.Background(), actor, dto.CreatePurchaseOrderRequest{
		SupplierID: uuid.NewString(),
		OrderDate:  "2024-03-01",
		Items:      []dto.PurchaseOrderLineRequest{{ItemID: it.ID.String(), Quantity: 1, Price: decPtr("1")}},
	})
	assertKind(t, err, service.KindNotFound)
}

func TestCreatePurchaseOrder_UnknownItem(t *testing.T) {
	e := newEnv()
	sup := e.store.AddSupplier(model.Supplier{Name: "Acme"})
	_, err := e.purchases.Create(context.Background(), actor, dto.CreatePurchaseOrderRequest{
		SupplierID: sup.ID.String(),
		OrderDate:  "2024-03-01",
		Items:      []dto.PurchaseOrderLineRequest{{ItemID: uuid.NewString(), Quantity: 1, Price: decPtr("1")}},
	})
	assertKind(t, err, service.KindValidation)
	assert.Empty(t, e.store.PurchaseOrders)
}

func TestReceivePurchaseOrder_AddsOrderedQuantitiesOnce(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	sup := e.store.AddSupplier(model.Supplier{Name: "Acme"})
	a := e.addItem("A", "Alpha", 2, "1")
	b := e.addItem("B", "Beta", 0, "1")
	id := newPurchaseOrder(t, e, sup.ID,
		dto.PurchaseOrderLineRequest{ItemID: a.ID.String(), Quantity: 5, Price: decPtr("1")},
		dto.PurchaseOrderLineRequest{ItemID: b.ID.String(), Quantity: 7, Price: decPtr("1")},
	)

	po, err := e.purchases.UpdateStatus(ctx, actor, id, model.POStatusReceived)
	require.NoError(t, err)
	assert.Equal(t, model.POStatusReceived, po.Status)
	assert.NotNil(t, po.ReceivedAt)
	assert.Equal(t, 7, e.store.Quantity(a.ID))
	assert.Equal(t, 7, e.store.Quantity(b.ID))
	assert.Equal(t, 2, e.store.MovementCount())

	_, err = e.purchases.UpdateStatus(ctx, actor, id, model.POStatusReceived)
	assertKind(t, err, service.KindConflict)
	assert.Equal(t, 7, e.store.Quantity(a.ID))
	assert.Equal(t, 2, e.store.MovementCount())
}

func TestUpdatePurchaseOrderStatus_NonReceiving(t *testing.T) {
	e := newEnv()
	sup := e.store.AddSupplier(model.Supplier{Name: "Acme"})
	it := e.addItem("SN", "Thing", 1, "1")
	id := newPurchaseOrder(t, e, sup.ID, dto.PurchaseOrderLineRequest{ItemID: it.ID.String(), Quantity: 3, Price: decPtr("1")})

	po, err := e.purchases.UpdateStatus(context.Background(), actor, id, model.POStatusSent)
	require.NoError(t, err)
	assert.Equal(t, model.POStatusSent, po.Status)
	assert.Nil(t, po.ReceivedAt)
	assert.Equal(t, 1, e.store.Quantity(it.ID))
}

func TestUpdatePurchaseOrderStatus_InvalidAndMissing(t *testing.T) {
	e := newEnv()
	_, err := e.purchases.UpdateStatus(context.Background(), actor, uuid.New(), "Lost")
	assertKind(t, err, service.KindValidation)

	_, err = e.purchases.UpdateStatus(context.Background(), actor, uuid.New(), model.POStatusSent)
	assertKind(t, err, service.KindNotFound)
}

// ── Sales orders ──────────────────────────────────────────────────────────────

func TestCreateSalesOrder_DecrementsStock(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	it := e.addItem("SN", "Thing", 10, "4.00")

	created, err := e.sales.Create(ctx, actor, dto.CreateSalesOrderRequest{
		CustomerName: "Jane",
		OrderDate:    "2024-04-02",
		Items: []dto.SalesOrderLineRequest{
			{ItemID: it.ID.String(), Quantity: 3},
			{ItemID: it.ID.String(), Quantity: 2, Price: decPtr("3.50")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 5, e.store.Quantity(it.ID))
	assert.Equal(t, 2, e.store.MovementCount())

	so, err := e.sales.Get(ctx, uuid.MustParse(created.ID))
	require.NoError(t, err)
	assert.Equal(t, model.SOStatusFulfilled, so.Status)
	require.Len(t, so.Items, 2)
	assert.True(t, decimal.RequireFromString("4").Equal(so.Items[0].Price), "price defaults to the item price")
	assert.True(t, decimal.RequireFromString("3.5").Equal(so.Items[1].Price))
}

func TestCreateSalesOrder_StaleLookupNotLeftCached(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	it := e.addItem("SN", "Thing", 10, "1")

	evictions := 0
	e.cache.OnDel = func([]string) {
		evictions++
		if evictions == 1 {
			_, _ = e.items.GetBySerial(ctx, "SN")
		}
	}

	_, err := e.sales.Create(ctx, actor, dto.CreateSalesOrderRequest{
		CustomerName: "Jane",
		OrderDate:    "2024-04-02",
		Items:        []dto.SalesOrderLineRequest{{ItemID: it.ID.String(), Quantity: 4}},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, evictions)

	e.cache.OnDel = nil
	got, err := e.items.GetBySerial(ctx, "SN")
	require.NoError(t, err)
	assert.Equal(t, 6, got.Quantity)
}

func TestCreateSalesOrder_Oversell_LeavesStockUnchanged(t *testing.T) {
	e := newEnv()
	a := e.addItem("A", "Alpha", 10, "1")
	b := e.addItem("B", "Beta", 2, "1")

	_, err := e.sales.Create(context.Background(), actor, dto.CreateSalesOrderRequest{
		CustomerName: "Jane",
		OrderDate:    "2024-04-02",
		Items: []dto.SalesOrderLineRequest{
			{ItemID: a.ID.String(), Quantity: 1},
			{ItemID: b.ID.String(), Quantity: 2},
			{ItemID: b.ID.String(), Quantity: 1},
		},
	})
	assertKind(t, err, service.KindValidation)
	assert.Contains(t, err.Error(), "Not enough stock for item B (Beta).")
	assert.Equal(t, 10, e.store.Quantity(a.ID))
	assert.Equal(t, 2, e.store.Quantity(b.ID))
	assert.Empty(t, e.store.SalesOrders)
	assert.Zero(t, e.store.MovementCount())
}

func TestCreateSalesOrder_MissingFields(t *testing.T) {
	e := newEnv()
	_, err := e.sales.Create(context.Background(), actor, dto.CreateSalesOrderRequest{OrderDate: "2024-04-02"})
	assertKind(t, err, service.KindValidation)
	assert.Equal(t, "Please provide all required fields.", err.Error())
}

func TestCreateSalesOrder_NotifiesLowStock(t *testing.T) {
	e := newEnv()
	it := e.store.AddItem(model.Item{SerialNo: "SN", Name: "Thing", Quantity: 6, Price: decimal.NewFromInt(1), AlertThreshold: intPtr(5)})

	_, err := e.sales.Create(context.Background(), actor, dto.CreateSalesOrderRequest{
		CustomerName: "Jane",
		OrderDate:    "2024-04-02",
		Items:        []dto.SalesOrderLineRequest{{ItemID: it.ID.String(), Quantity: 2}},
	})
	require.NoError(t, err)
	require.Equal(t, 1, e.notifier.Count())
	assert.Equal(t, "SN", e.notifier.Events[0].SerialNo)
	assert.Equal(t, 4, e.notifier.Events[0].Quantity)
}

func TestGetSalesOrder_NotFound(t *testing.T) {
	e := newEnv()
	_, err := e.sales.Get(context.Background(), uuid.New())
	assertKind(t, err, service.KindNotFound)
}
