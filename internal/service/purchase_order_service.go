package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/nb2912/inventory/internal/dto"
	"github.com/nb2912/inventory/internal/model"
	"github.com/nb2912/inventory/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PurchaseOrderService interface {
	Create(ctx context.Context, actor uuid.UUID, req dto.CreatePurchaseOrderRequest) (*dto.CreatedResponse, error)
	List(ctx context.Context) ([]dto.PurchaseOrderSummary, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.PurchaseOrderResponse, error)
	UpdateStatus(ctx context.Context, actor uuid.UUID, id uuid.UUID, status string) (*dto.PurchaseOrderResponse, error)
}

type purchaseOrderService struct {
	repo         repository.PurchaseOrderRepository
	supplierRepo repository.SupplierRepository
	itemRepo     repository.ItemRepository
	movementRepo repository.MovementRepository
	cache        itemCache
}

func NewPurchaseOrderService(
	repo repository.PurchaseOrderRepository,
	supplierRepo repository.SupplierRepository,
	itemRepo repository.ItemRepository,
	movementRepo repository.MovementRepository,
	cache Cache,
) PurchaseOrderService {
	return &purchaseOrderService{
		repo:         repo,
		supplierRepo: supplierRepo,
		itemRepo:     itemRepo,
		movementRepo: movementRepo,
		cache:        itemCache{c: cache},
	}
}

var errPurchaseOrderNotFound = NotFound("Purchase order not found.")

func (s *purchaseOrderService) Create(ctx context.Context, actor uuid.UUID, req dto.CreatePurchaseOrderRequest) (*dto.CreatedResponse, error) {
	if len(req.Items) == 0 {
		return nil, Validation("Please provide all required fields.")
	}
	supplierID, err := parseID("supplier_id", req.SupplierID)
	if err != nil {
		return nil, err
	}
	orderDate, err := parseDate("order_date", req.OrderDate)
	if err != nil {
		return nil, err
	}
	var expected *time.Time
	if req.ExpectedDeliveryDate != nil && *req.ExpectedDeliveryDate != "" {
		d, err := parseDate("expected_delivery_date", *req.ExpectedDeliveryDate)
		if err != nil {
			return nil, err
		}
		expected = &d
	}

	if _, err := s.supplierRepo.FindByID(ctx, supplierID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errSupplierNotFound
		}
		return nil, err
	}

	po := &model.PurchaseOrder{
		SupplierID:           supplierID,
		OrderDate:            orderDate,
		ExpectedDeliveryDate: expected,
		Status:               model.POStatusPending,
		CreatedBy:            actorRef(actor),
	}
	ids := make([]uuid.UUID, 0, len(req.Items))
	for _, line := range req.Items {
		itemID, err := parseID("item_id", line.ItemID)
		if err != nil {
			return nil, err
		}
		if line.Quantity < 1 || line.Price == nil || line.Price.IsNegative() {
			return nil, Validation("Each line needs a positive quantity and a non-negative price.")
		}
		if !slices.Contains(ids, itemID) {
			ids = append(ids, itemID)
		}
		po.Items = append(po.Items, model.PurchaseOrderItem{
			ItemID:   itemID,
			Quantity: line.Quantity,
			Price:    line.Price.Round(2),
		})
	}

	n, err := s.itemRepo.CountByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if n != int64(len(ids)) {
		return nil, Validation("One or more items do not exist.")
	}

	if err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.CreateTx(tx, po)
	}); err != nil {
		return nil, err
	}
	return &dto.CreatedResponse{ID: po.ID.String()}, nil
}

func (s *purchaseOrderService) List(ctx context.Context) ([]dto.PurchaseOrderSummary, error) {
	orders, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.PurchaseOrderSummary, len(orders))
	for i, po := range orders {
		resp[i] = dto.PurchaseOrderSummary{
			ID:        po.ID.String(),
			OrderDate: formatDate(po.OrderDate),
			Status:    po.Status,
		}
		if po.Supplier != nil {
			resp[i].SupplierName = po.Supplier.Name
		}
	}
	return resp, nil
}

func (s *purchaseOrderService) Get(ctx context.Context, id uuid.UUID) (*dto.PurchaseOrderResponse, error) {
	po, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("Purchase order not found")
		}
		return nil, err
	}
	resp := &dto.PurchaseOrderResponse{
		ID:                   po.ID.String(),
		SupplierID:           po.SupplierID.String(),
		OrderDate:            formatDate(po.OrderDate),
		ExpectedDeliveryDate: formatDatePtr(po.ExpectedDeliveryDate),
		Status:               po.Status,
		ReceivedAt:           po.ReceivedAt,
		CreatedAt:            po.CreatedAt,
		Items:                make([]dto.OrderLineResponse, len(po.Items)),
	}
	if po.Supplier != nil {
		resp.SupplierName = po.Supplier.Name
	}
	for i, line := range po.Items {
		resp.Items[i] = dto.OrderLineResponse{ItemID: line.ItemID.String(), Quantity: line.Quantity, Price: line.Price}
		if line.Item != nil {
			resp.Items[i].Name = line.Item.Name
			resp.Items[i].SerialNo = line.Item.SerialNo
		}
	}
	return resp, nil
}

// UpdateStatus changes the order status under a row lock. Moving to Received
// adds every line to stock; a Received order is final, so stock is added once.
func (s *purchaseOrderService) UpdateStatus(ctx context.Context, actor uuid.UUID, id uuid.UUID, status string) (*dto.PurchaseOrderResponse, error) {
	if !slices.Contains(model.PurchaseOrderStatuses, status) {
		return nil, Validation("Invalid status provided.")
	}

	var touched []string
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		po, err := s.repo.FindForUpdateTx(tx, id)
		if err != nil {
			return err
		}
		if po.Status == model.POStatusReceived {
			return Conflict("Purchase order has already been received.")
		}
		if status != model.POStatusReceived {
			return s.repo.UpdateStatusTx(tx, id, status, nil)
		}

		touched, err = s.receive(ctx, tx, actor, po)
		if err != nil {
			return err
		}
		now := time.Now()
		return s.repo.UpdateStatusTx(tx, id, status, &now)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errPurchaseOrderNotFound
		}
		return nil, err
	}

	s.cache.evict(ctx, touched...)
	return s.Get(ctx, id)
}

// receive adds each line's quantity to its locked item and records a movement
// per line. It returns the serial numbers of the items it changed.
func (s *purchaseOrderService) receive(ctx context.Context, tx *gorm.DB, actor uuid.UUID, po *model.PurchaseOrder) ([]string, error) {
	ids := make([]uuid.UUID, 0, len(po.Items))
	for _, line := range po.Items {
		if !slices.Contains(ids, line.ItemID) {
			ids = append(ids, line.ItemID)
		}
	}
	locked, err := s.itemRepo.FindForUpdateTx(tx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*model.Item, len(locked))
	serials := make([]string, len(locked))
	for i := range locked {
		byID[locked[i].ID] = &locked[i]
		serials[i] = locked[i].SerialNo
	}
	s.cache.evict(ctx, serials...)

	for _, line := range po.Items {
		item, ok := byID[line.ItemID]
		if !ok {
			return nil, fmt.Errorf("purchase order %s references missing item %s", po.ID, line.ItemID)
		}
		before := item.Quantity
		item.Quantity += line.Quantity
		if err := s.movementRepo.CreateTx(tx, &model.InventoryMovement{
			ItemID:         item.ID,
			MovementType:   model.MovementPurchaseReceipt,
			QuantityChange: line.Quantity,
			QuantityBefore: before,
			QuantityAfter:  item.Quantity,
			Reason:         "Purchase order received",
			ReferenceID:    &po.ID,
			CreatedBy:      actorRef(actor),
		}); err != nil {
			return nil, err
		}
	}

	serials = make([]string, 0, len(locked))
	for _, item := range locked {
		if err := s.itemRepo.SetQuantityTx(tx, item.ID, item.Quantity); err != nil {
			return nil, err
		}
		serials = append(serials, item.SerialNo)
	}
	return serials, nil
}
