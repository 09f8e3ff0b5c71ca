// Package repotest provides in-memory repository implementations for unit tests.
// They mimic the gorm error contract: gorm.ErrRecordNotFound for missing rows
// and gorm.ErrDuplicatedKey for unique violations. Transactional methods ignore
// the tx argument, which is nil when services run without a database.
package repotest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/nb2912/inventory/internal/dto"
	"github.com/nb2912/inventory/internal/model"
	"github.com/nb2912/inventory/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Store holds every table. Repositories built from the same Store share data.
type Store struct {
	mu             sync.Mutex
	Users          map[uuid.UUID]*model.User
	Items          map[uuid.UUID]*model.Item
	Suppliers      map[uuid.UUID]*model.Supplier
	PurchaseOrders map[uuid.UUID]*model.PurchaseOrder
	SalesOrders    map[uuid.UUID]*model.SalesOrder
	Movements      []model.InventoryMovement

	clock time.Time
}

func NewStore() *Store {
	return &Store{
		Users:          map[uuid.UUID]*model.User{},
		Items:          map[uuid.UUID]*model.Item{},
		Suppliers:      map[uuid.UUID]*model.Supplier{},
		PurchaseOrders: map[uuid.UUID]*model.PurchaseOrder{},
		SalesOrders:    map[uuid.UUID]*model.SalesOrder{},
		clock:          time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// now returns a strictly increasing timestamp so ordering by time is stable.
func (s *Store) now() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *Store) UserRepo() repository.UserRepository                   { return &userRepo{s} }
func (s *Store) ItemRepo() repository.ItemRepository                   { return &itemRepo{s} }
func (s *Store) SupplierRepo() repository.SupplierRepository           { return &supplierRepo{s} }
func (s *Store) PurchaseOrderRepo() repository.PurchaseOrderRepository { return &purchaseOrderRepo{s} }
func (s *Store) SalesOrderRepo() repository.SalesOrderRepository       { return &salesOrderRepo{s} }
func (s *Store) MovementRepo() repository.MovementRepository           { return &movementRepo{s} }
func (s *Store) ReportRepo() repository.ReportRepository               { return &reportRepo{s} }

// AddItem inserts an item directly, bypassing services.
func (s *Store) AddItem(it model.Item) *model.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	if it.ID == uuid.Nil {
		it.ID = uuid.New()
	}
	if it.CreatedAt.IsZero() {
		it.CreatedAt = s.now()
		it.UpdatedAt = it.CreatedAt
	}
	s.Items[it.ID] = &it
	cp := it
	return &cp
}

// AddSupplier inserts a supplier directly, bypassing services.
func (s *Store) AddSupplier(sup model.Supplier) *model.Supplier {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sup.ID == uuid.Nil {
		sup.ID = uuid.New()
	}
	sup.CreatedAt = s.now()
	sup.UpdatedAt = sup.CreatedAt
	s.Suppliers[sup.ID] = &sup
	cp := sup
	return &cp
}

// Quantity returns the stored quantity of an item, or -1 when it is missing.
func (s *Store) Quantity(id uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if it, ok := s.Items[id]; ok {
		return it.Quantity
	}
	return -1
}

// MovementCount returns the number of recorded inventory movements.
func (s *Store) MovementCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Movements)
}

// ── users ────────────────────────────────────────────────────────────────────

type userRepo struct{ s *Store }

func (r *userRepo) Create(_ context.Context, u *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.Users {
		if strings.EqualFold(existing.Email, u.Email) {
			return gorm.ErrDuplicatedKey
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = model.RoleUser
	}
	u.CreatedAt = r.s.now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	r.s.Users[u.ID] = &cp
	return nil
}

func (r *userRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.Users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return &model.User{}, gorm.ErrRecordNotFound
}

func (r *userRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.Users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return &model.User{}, gorm.ErrRecordNotFound
}

func (r *userRepo) List(_ context.Context) ([]model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	users := make([]model.User, 0, len(r.s.Users))
	for _, u := range r.s.Users {
		users = append(users, *u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.Before(users[j].CreatedAt) })
	return users, nil
}

func (r *userRepo) UpdateRole(_ context.Context, id uuid.UUID, role string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.Users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Role = role
	return nil
}

// ── items ────────────────────────────────────────────────────────────────────

type itemRepo struct{ s *Store }

func (r *itemRepo) DB() *gorm.DB { return nil }

func (r *itemRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if it, ok := r.s.Items[id]; ok {
		cp := *it
		return &cp, nil
	}
	return &model.Item{}, gorm.ErrRecordNotFound
}

func (r *itemRepo) FindBySerialNo(_ context.Context, serialNo string) (*model.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.bySerial(serialNo)
}

func (r *itemRepo) bySerial(serialNo string) (*model.Item, error) {
	for _, it := range r.s.Items {
		if it.SerialNo == serialNo {
			cp := *it
			return &cp, nil
		}
	}
	return &model.Item{}, gorm.ErrRecordNotFound
}

func (r *itemRepo) all(keep func(*model.Item) bool) []model.Item {
	items := []model.Item{}
	for _, it := range r.s.Items {
		if keep == nil || keep(it) {
			items = append(items, *it)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items
}

func (r *itemRepo) List(_ context.Context, f dto.ItemFilter) ([]model.Item, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	q := strings.ToLower(f.Q)
	items := r.all(func(it *model.Item) bool {
		if f.Category != "" && (it.Category == nil || *it.Category != f.Category) {
			return false
		}
		if f.SupplierID != "" && (it.SupplierID == nil || it.SupplierID.String() != f.SupplierID) {
			return false
		}
		if f.MinQuantity != nil && it.Quantity < *f.MinQuantity {
			return false
		}
		if f.MaxQuantity != nil && it.Quantity > *f.MaxQuantity {
			return false
		}
		if f.MinPrice != nil && it.Price.LessThan(decimal.NewFromFloat(*f.MinPrice)) {
			return false
		}
		if f.MaxPrice != nil && it.Price.GreaterThan(decimal.NewFromFloat(*f.MaxPrice)) {
			return false
		}
		if q != "" {
			desc := ""
			if it.Description != nil {
				desc = *it.Description
			}
			hay := strings.ToLower(it.Name + "\x00" + it.SerialNo + "\x00" + desc)
			if !strings.Contains(hay, q) {
				return false
			}
		}
		return true
	})

	less := func(a, b model.Item) bool { return a.Name < b.Name }
	switch f.Sort {
	case "quantity":
		less = func(a, b model.Item) bool { return a.Quantity < b.Quantity }
	case "price":
		less = func(a, b model.Item) bool { return a.Price.LessThan(b.Price) }
	case "serial_no":
		less = func(a, b model.Item) bool { return a.SerialNo < b.SerialNo }
	case "created_at":
		less = func(a, b model.Item) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case "updated_at":
		less = func(a, b model.Item) bool { return a.UpdatedAt.Before(b.UpdatedAt) }
	}
	sort.SliceStable(items, func(i, j int) bool {
		if f.Order == "desc" {
			return less(items[j], items[i])
		}
		return less(items[i], items[j])
	})

	total := int64(len(items))
	start := (f.Page - 1) * f.Limit
	if start > len(items) {
		start = len(items)
	}
	end := start + f.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], total, nil
}

func (r *itemRepo) ListAll(_ context.Context) ([]model.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.all(nil), nil
}

func (r *itemRepo) ListByCategory(_ context.Context, category string) ([]model.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.all(func(it *model.Item) bool { return it.Category != nil && *it.Category == category }), nil
}

func (r *itemRepo) Categories(_ context.Context) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	seen := map[string]bool{}
	categories := []string{}
	for _, it := range r.s.Items {
		if it.Category != nil && !seen[*it.Category] {
			seen[*it.Category] = true
			categories = append(categories, *it.Category)
		}
	}
	sort.Strings(categories)
	return categories, nil
}

func (r *itemRepo) Update(_ context.Context, it *model.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.Items[it.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for id, other := range r.s.Items {
		if id != it.ID && other.SerialNo == it.SerialNo {
			return gorm.ErrDuplicatedKey
		}
	}
	stored.SerialNo = it.SerialNo
	stored.Name = it.Name
	stored.Price = it.Price
	stored.Category = it.Category
	stored.Description = it.Description
	stored.SupplierID = it.SupplierID
	stored.UpdatedAt = r.s.now()
	return nil
}

func (r *itemRepo) UpdateAlertThreshold(_ context.Context, id uuid.UUID, threshold *int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.Items[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.AlertThreshold = threshold
	stored.UpdatedAt = r.s.now()
	return nil
}

func (r *itemRepo) CountBySupplier(_ context.Context, supplierID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.all(func(it *model.Item) bool {
		return it.SupplierID != nil && *it.SupplierID == supplierID
	}))), nil
}

func (r *itemRepo) CountByIDs(_ context.Context, ids []uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, id := range ids {
		if _, ok := r.s.Items[id]; ok {
			n++
		}
	}
	return n, nil
}

func (r *itemRepo) ListBelowQuantity(_ context.Context, threshold int) ([]model.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	items := r.all(func(it *model.Item) bool { return it.Quantity < threshold })
	sort.SliceStable(items, func(i, j int) bool { return items[i].Quantity < items[j].Quantity })
	return items, nil
}

func (r *itemRepo) ListBelowOwnThreshold(_ context.Context) ([]model.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	items := r.all(func(it *model.Item) bool { return it.BelowThreshold() })
	shortfall := func(it model.Item) int { return *it.AlertThreshold - it.Quantity }
	sort.SliceStable(items, func(i, j int) bool { return shortfall(items[i]) > shortfall(items[j]) })
	return items, nil
}

func (r *itemRepo) CreateTx(_ *gorm.DB, it *model.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, err := r.bySerial(it.SerialNo); err == nil {
		return gorm.ErrDuplicatedKey
	}
	if it.ID == uuid.Nil {
		it.ID = uuid.New()
	}
	it.CreatedAt = r.s.now()
	it.UpdatedAt = it.CreatedAt
	cp := *it
	r.s.Items[it.ID] = &cp
	return nil
}

func (r *itemRepo) FindForUpdateTx(_ *gorm.DB, ids []uuid.UUID) ([]model.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	items := []model.Item{}
	for _, id := range ids {
		if it, ok := r.s.Items[id]; ok {
			items = append(items, *it)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID.String() < items[j].ID.String() })
	return items, nil
}

func (r *itemRepo) FindBySerialForUpdateTx(_ *gorm.DB, serialNo string) (*model.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.bySerial(serialNo)
}

func (r *itemRepo) SetQuantityTx(_ *gorm.DB, id uuid.UUID, quantity int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.Items[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Quantity = quantity
	stored.UpdatedAt = r.s.now()
	return nil
}

// ── suppliers ────────────────────────────────────────────────────────────────

type supplierRepo struct{ s *Store }

func (r *supplierRepo) Create(_ context.Context, sup *model.Supplier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if sup.ID == uuid.Nil {
		sup.ID = uuid.New()
	}
	sup.CreatedAt = r.s.now()
	sup.UpdatedAt = sup.CreatedAt
	cp := *sup
	r.s.Suppliers[sup.ID] = &cp
	return nil
}

func (r *supplierRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Supplier, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if sup, ok := r.s.Suppliers[id]; ok {
		cp := *sup
		return &cp, nil
	}
	return &model.Supplier{}, gorm.ErrRecordNotFound
}

func (r *supplierRepo) List(_ context.Context) ([]model.Supplier, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	suppliers := []model.Supplier{}
	for _, sup := range r.s.Suppliers {
		suppliers = append(suppliers, *sup)
	}
	sort.Slice(suppliers, func(i, j int) bool { return suppliers[i].Name < suppliers[j].Name })
	return suppliers, nil
}

func (r *supplierRepo) Update(_ context.Context, sup *model.Supplier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.Suppliers[sup.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	sup.CreatedAt = stored.CreatedAt
	sup.UpdatedAt = r.s.now()
	cp := *sup
	r.s.Suppliers[sup.ID] = &cp
	return nil
}

func (r *supplierRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.Suppliers[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	// purchase_orders.supplier_id is a foreign key
	for _, po := range r.s.PurchaseOrders {
		if po.SupplierID == id {
			return gorm.ErrForeignKeyViolated
		}
	}
	delete(r.s.Suppliers, id)
	return nil
}

// ── purchase orders ──────────────────────────────────────────────────────────

type purchaseOrderRepo struct{ s *Store }

func (r *purchaseOrderRepo) DB() *gorm.DB { return nil }

func (r *purchaseOrderRepo) CreateTx(_ *gorm.DB, po *model.PurchaseOrder) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if po.ID == uuid.Nil {
		po.ID = uuid.New()
	}
	if po.Status == "" {
		po.Status = model.POStatusPending
	}
	po.CreatedAt = r.s.now()
	po.UpdatedAt = po.CreatedAt
	for i := range po.Items {
		po.Items[i].ID = uuid.New()
		po.Items[i].PurchaseOrderID = po.ID
	}
	cp := *po
	cp.Items = append([]model.PurchaseOrderItem(nil), po.Items...)
	r.s.PurchaseOrders[po.ID] = &cp
	return nil
}

func (r *purchaseOrderRepo) List(_ context.Context) ([]model.PurchaseOrder, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	orders := []model.PurchaseOrder{}
	for _, po := range r.s.PurchaseOrders {
		cp := *po
		if sup, ok := r.s.Suppliers[po.SupplierID]; ok {
			s := *sup
			cp.Supplier = &s
		}
		orders = append(orders, cp)
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })
	return orders, nil
}

func (r *purchaseOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*model.PurchaseOrder, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	po, ok := r.s.PurchaseOrders[id]
	if !ok {
		return &model.PurchaseOrder{}, gorm.ErrRecordNotFound
	}
	cp := *po
	if sup, ok := r.s.Suppliers[po.SupplierID]; ok {
		s := *sup
		cp.Supplier = &s
	}
	cp.Items = make([]model.PurchaseOrderItem, len(po.Items))
	for i, line := range po.Items {
		if it, ok := r.s.Items[line.ItemID]; ok {
			item := *it
			line.Item = &item
		}
		cp.Items[i] = line
	}
	return &cp, nil
}

func (r *purchaseOrderRepo) FindForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.PurchaseOrder, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	po, ok := r.s.PurchaseOrders[id]
	if !ok {
		return &model.PurchaseOrder{}, gorm.ErrRecordNotFound
	}
	cp := *po
	cp.Items = append([]model.PurchaseOrderItem(nil), po.Items...)
	sort.Slice(cp.Items, func(i, j int) bool { return cp.Items[i].ItemID.String() < cp.Items[j].ItemID.String() })
	return &cp, nil
}

func (r *purchaseOrderRepo) UpdateStatusTx(_ *gorm.DB, id uuid.UUID, status string, receivedAt *time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	po, ok := r.s.PurchaseOrders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	po.Status = status
	if receivedAt != nil {
		t := *receivedAt
		po.ReceivedAt = &t
	}
	po.UpdatedAt = r.s.now()
	return nil
}

// ── sales orders ─────────────────────────────────────────────────────────────

type salesOrderRepo struct{ s *Store }

func (r *salesOrderRepo) DB() *gorm.DB { return nil }

func (r *salesOrderRepo) CreateTx(_ *gorm.DB, so *model.SalesOrder) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if so.ID == uuid.Nil {
		so.ID = uuid.New()
	}
	if so.Status == "" {
		so.Status = model.SOStatusFulfilled
	}
	so.CreatedAt = r.s.now()
	so.UpdatedAt = so.CreatedAt
	for i := range so.Items {
		so.Items[i].ID = uuid.New()
		so.Items[i].SalesOrderID = so.ID
	}
	cp := *so
	cp.Items = append([]model.SalesOrderItem(nil), so.Items...)
	r.s.SalesOrders[so.ID] = &cp
	return nil
}

func (r *salesOrderRepo) List(_ context.Context) ([]model.SalesOrder, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	orders := []model.SalesOrder{}
	for _, so := range r.s.SalesOrders {
		orders = append(orders, *so)
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })
	return orders, nil
}

func (r *salesOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*model.SalesOrder, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	so, ok := r.s.SalesOrders[id]
	if !ok {
		return &model.SalesOrder{}, gorm.ErrRecordNotFound
	}
	cp := *so
	cp.Items = make([]model.SalesOrderItem, len(so.Items))
	for i, line := range so.Items {
		if it, ok := r.s.Items[line.ItemID]; ok {
			item := *it
			line.Item = &item
		}
		cp.Items[i] = line
	}
	return &cp, nil
}

// ── movements ────────────────────────────────────────────────────────────────

type movementRepo struct{ s *Store }

func (r *movementRepo) CreateTx(_ *gorm.DB, m *model.InventoryMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = r.s.now()
	}
	r.s.Movements = append(r.s.Movements, *m)
	return nil
}

func (r *movementRepo) List(_ context.Context, f repository.MovementFilter) ([]model.InventoryMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []model.InventoryMovement{}
	for i := len(r.s.Movements) - 1; i >= 0; i-- {
		m := r.s.Movements[i]
		if !f.From.IsZero() && m.CreatedAt.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && !m.CreatedAt.Before(f.To) {
			continue
		}
		if it, ok := r.s.Items[m.ItemID]; ok {
			item := *it
			m.Item = &item
		}
		out = append(out, m)
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out, nil
}

// ── reports ──────────────────────────────────────────────────────────────────

type reportRepo struct{ s *Store }

func (r *reportRepo) ValueSummary(_ context.Context) (*repository.ValueSummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sum := repository.ValueSummary{}
	priceSum := decimal.Zero
	first := true
	for _, it := range r.s.Items {
		sum.TotalItems++
		sum.TotalValue = sum.TotalValue.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
		priceSum = priceSum.Add(it.Price)
		if first || it.Price.GreaterThan(sum.HighestPrice) {
			sum.HighestPrice = it.Price
		}
		if first || it.Price.LessThan(sum.LowestPrice) {
			sum.LowestPrice = it.Price
		}
		first = false
	}
	if sum.TotalItems > 0 {
		sum.AveragePrice = priceSum.Div(decimal.NewFromInt(sum.TotalItems)).Round(2)
	}
	return &sum, nil
}

func categoryKey(c *string) string {
	if c == nil {
		return "\x00"
	}
	return *c
}

func (r *reportRepo) CategorySummary(_ context.Context) ([]repository.CategorySummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	byKey := map[string]*repository.CategorySummary{}
	for _, it := range r.s.Items {
		k := categoryKey(it.Category)
		row, ok := byKey[k]
		if !ok {
			row = &repository.CategorySummary{Category: it.Category}
			byKey[k] = row
		}
		row.ItemCount++
		row.TotalQuantity += int64(it.Quantity)
		row.CategoryValue = row.CategoryValue.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	rows := []repository.CategorySummary{}
	for _, row := range byKey {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].CategoryValue.GreaterThan(rows[j].CategoryValue) })
	return rows, nil
}

func (r *reportRepo) CountByCategory(_ context.Context) ([]repository.CategoryCount, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	byKey := map[string]*repository.CategoryCount{}
	for _, it := range r.s.Items {
		k := categoryKey(it.Category)
		row, ok := byKey[k]
		if !ok {
			row = &repository.CategoryCount{Category: it.Category}
			byKey[k] = row
		}
		row.Count++
	}
	rows := []repository.CategoryCount{}
	for _, row := range byKey {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Count > rows[j].Count })
	return rows, nil
}

func (r *reportRepo) CountBelowQuantity(_ context.Context, threshold int) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, it := range r.s.Items {
		if it.Quantity < threshold {
			n++
		}
	}
	return n, nil
}

func (r *reportRepo) sorted(less func(a, b model.Item) bool, limit int) []model.Item {
	items := []model.Item{}
	for _, it := range r.s.Items {
		items = append(items, *it)
	}
	sort.SliceStable(items, func(i, j int) bool { return less(items[i], items[j]) })
	if len(items) > limit {
		items = items[:limit]
	}
	return items
}

func (r *reportRepo) RecentlyCreated(_ context.Context, limit int) ([]model.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.sorted(func(a, b model.Item) bool { return a.CreatedAt.After(b.CreatedAt) }, limit), nil
}

func (r *reportRepo) RecentlyUpdated(_ context.Context, limit int) ([]model.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.sorted(func(a, b model.Item) bool { return a.UpdatedAt.After(b.UpdatedAt) }, limit), nil
}

func (r *reportRepo) MostValuable(_ context.Context, limit int) ([]model.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	value := func(it model.Item) decimal.Decimal { return it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))) }
	return r.sorted(func(a, b model.Item) bool { return value(a).GreaterThan(value(b)) }, limit), nil
}
