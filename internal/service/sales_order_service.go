package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/nb2912/inventory/internal/dto"
	"github.com/nb2912/inventory/internal/model"
	"github.com/nb2912/inventory/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SalesOrderService interface {
	Create(ctx context.Context, actor uuid.UUID, req dto.CreateSalesOrderRequest) (*dto.CreatedResponse, error)
	List(ctx context.Context) ([]dto.SalesOrderSummary, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.SalesOrderResponse, error)
}

type salesOrderService struct {
	repo         repository.SalesOrderRepository
	itemRepo     repository.ItemRepository
	movementRepo repository.MovementRepository
	cache        itemCache
	alerts       lowStockAlerts
}

func NewSalesOrderService(
	repo repository.SalesOrderRepository,
	itemRepo repository.ItemRepository,
	movementRepo repository.MovementRepository,
	cache Cache,
	notifier LowStockNotifier,
) SalesOrderService {
	return &salesOrderService{
		repo:         repo,
		itemRepo:     itemRepo,
		movementRepo: movementRepo,
		cache:        itemCache{c: cache},
		alerts:       lowStockAlerts{n: notifier},
	}
}

// ── Create ────────────────────────────────────────────────────────────────────
// One transaction:
//   1. Lock every referenced item FOR UPDATE, in id order
//   2. Check stock for the summed quantity of each item; fail before any write
//   3. Insert header and lines
//   4. Decrement stock and record a sale movement per line

func (s *salesOrderService) Create(ctx context.Context, actor uuid.UUID, req dto.CreateSalesOrderRequest) (*dto.CreatedResponse, error) {
	if req.CustomerName == "" || len(req.Items) == 0 {
		return nil, Validation("Please provide all required fields.")
	}
	orderDate, err := parseDate("order_date", req.OrderDate)
	if err != nil {
		return nil, err
	}

	type line struct {
		itemID   uuid.UUID
		quantity int
		price    *decimal.Decimal // nil = current item price
	}
	lines := make([]line, 0, len(req.Items))
	requested := map[uuid.UUID]int{}
	ids := []uuid.UUID{}
	for _, l := range req.Items {
		itemID, err := parseID("item_id", l.ItemID)
		if err != nil {
			return nil, err
		}
		if l.Quantity < 1 {
			return nil, Validation("Each line needs a positive quantity.")
		}
		if _, seen := requested[itemID]; !seen {
			ids = append(ids, itemID)
		}
		requested[itemID] += l.Quantity
		lines = append(lines, line{itemID: itemID, quantity: l.Quantity, price: l.Price})
	}

	type change struct {
		before int
		item   *model.Item
	}
	var changes []change
	so := &model.SalesOrder{
		CustomerName: req.CustomerName,
		OrderDate:    orderDate,
		Status:       model.SOStatusFulfilled,
		CreatedBy:    actorRef(actor),
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		locked, err := s.itemRepo.FindForUpdateTx(tx, ids)
		if err != nil {
			return err
		}
		byID := make(map[uuid.UUID]*model.Item, len(locked))
		for i := range locked {
			byID[locked[i].ID] = &locked[i]
		}

		for _, id := range ids {
			item, ok := byID[id]
			if !ok {
				return Validation(fmt.Sprintf("Item %s does not exist.", id))
			}
			if item.Quantity < requested[id] {
				return Validation(fmt.Sprintf("Not enough stock for item %s (%s).", item.SerialNo, item.Name))
			}
		}
		serials := make([]string, 0, len(locked))
		for _, item := range byID {
			serials = append(serials, item.SerialNo)
		}
		s.cache.evict(ctx, serials...)

		for _, l := range lines {
			price := byID[l.itemID].Price
			if l.price != nil {
				price = l.price.Round(2)
			}
			so.Items = append(so.Items, model.SalesOrderItem{ItemID: l.itemID, Quantity: l.quantity, Price: price})
		}
		if err := s.repo.CreateTx(tx, so); err != nil {
			return err
		}

		for _, l := range lines {
			item := byID[l.itemID]
			before := item.Quantity
			item.Quantity -= l.quantity
			if err := s.movementRepo.CreateTx(tx, &model.InventoryMovement{
				ItemID:         item.ID,
				MovementType:   model.MovementSale,
				QuantityChange: -l.quantity,
				QuantityBefore: before,
				QuantityAfter:  item.Quantity,
				Reason:         "Sales order for " + so.CustomerName,
				ReferenceID:    &so.ID,
				CreatedBy:      actorRef(actor),
			}); err != nil {
				return err
			}
		}

		for _, id := range ids {
			item := byID[id]
			if err := s.itemRepo.SetQuantityTx(tx, id, item.Quantity); err != nil {
				return err
			}
			changes = append(changes, change{before: item.Quantity + requested[id], item: item})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, c := range changes {
		s.cache.evict(ctx, c.item.SerialNo)
		s.alerts.crossed(ctx, c.before, c.item)
	}
	return &dto.CreatedResponse{ID: so.ID.String()}, nil
}

func (s *salesOrderService) List(ctx context.Context) ([]dto.SalesOrderSummary, error) {
	orders, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.SalesOrderSummary, len(orders))
	for i, so := range orders {
		resp[i] = dto.SalesOrderSummary{
			ID:           so.ID.String(),
			CustomerName: so.CustomerName,
			OrderDate:    formatDate(so.OrderDate),
			Status:       so.Status,
		}
	}
	return resp, nil
}

func (s *salesOrderService) Get(ctx context.Context, id uuid.UUID) (*dto.SalesOrderResponse, error) {
	so, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("Sales order not found")
		}
		return nil, err
	}
	resp := &dto.SalesOrderResponse{
		ID:           so.ID.String(),
		CustomerName: so.CustomerName,
		OrderDate:    formatDate(so.OrderDate),
		Status:       so.Status,
		CreatedAt:    so.CreatedAt,
		Items:        make([]dto.OrderLineResponse, len(so.Items)),
	}
	for i, line := range so.Items {
		resp.Items[i] = dto.OrderLineResponse{ItemID: line.ItemID.String(), Quantity: line.Quantity, Price: line.Price}
		if line.Item != nil {
			resp.Items[i].Name = line.Item.Name
			resp.Items[i].SerialNo = line.Item.SerialNo
		}
	}
	return resp, nil
}
