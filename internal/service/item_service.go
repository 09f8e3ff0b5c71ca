package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/nb2912/inventory/internal/dto"
	"github.com/nb2912/inventory/internal/model"
	"github.com/nb2912/inventory/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ItemService interface {
	Create(ctx context.Context, actor uuid.UUID, req dto.CreateItemRequest) (*dto.ItemResponse, error)
	List(ctx context.Context, filter dto.ItemFilter) (*dto.ItemListResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.ItemResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateItemRequest) (*dto.ItemResponse, error)

	// Barcode operations; the barcode is the item's serial number
	GetBySerial(ctx context.Context, serialNo string) (*dto.ItemResponse, error)
	UpdateQuantity(ctx context.Context, actor uuid.UUID, serialNo string, req dto.UpdateQuantityRequest) (*dto.QuantityChangeResponse, error)
}

type itemService struct {
	repo         repository.ItemRepository
	supplierRepo repository.SupplierRepository
	movementRepo repository.MovementRepository
	cache        itemCache
	alerts       lowStockAlerts
}

// NewItemService builds the item service. cache and notifier may be nil.
func NewItemService(
	repo repository.ItemRepository,
	supplierRepo repository.SupplierRepository,
	movementRepo repository.MovementRepository,
	cache Cache,
	notifier LowStockNotifier,
) ItemService {
	return &itemService{
		repo:         repo,
		supplierRepo: supplierRepo,
		movementRepo: movementRepo,
		cache:        itemCache{c: cache},
		alerts:       lowStockAlerts{n: notifier},
	}
}

var (
	errItemNotFound    = NotFound("Item not found.")
	errBarcodeNotFound = NotFound("No item found with this barcode/serial number.")
	errSerialExists    = Conflict("Serial number already exists.")
)

func (s *itemService) Create(ctx context.Context, actor uuid.UUID, req dto.CreateItemRequest) (*dto.ItemResponse, error) {
	supplierID, err := s.resolveSupplier(ctx, req.SupplierID)
	if err != nil {
		return nil, err
	}

	item := &model.Item{
		SerialNo:       req.SerialNo,
		Name:           req.Name,
		Quantity:       *req.Quantity,
		Price:          req.Price.Round(2),
		Category:       nonEmpty(req.Category),
		Description:    req.Description,
		AlertThreshold: req.AlertThreshold,
		SupplierID:     supplierID,
	}

	// Item and initial stock movement commit together; a duplicate serial leaves nothing behind
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, item); err != nil {
			return err
		}
		if item.Quantity == 0 {
			return nil
		}
		return s.movementRepo.CreateTx(tx, &model.InventoryMovement{
			ItemID:         item.ID,
			MovementType:   model.MovementInitialStock,
			QuantityChange: item.Quantity,
			QuantityBefore: 0,
			QuantityAfter:  item.Quantity,
			Reason:         "Initial stock",
			CreatedBy:      actorRef(actor),
		})
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errSerialExists
		}
		return nil, err
	}

	s.cache.evict(ctx, item.SerialNo)
	resp := itemToResponse(item)
	return &resp, nil
}

func (s *itemService) List(ctx context.Context, filter dto.ItemFilter) (*dto.ItemListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	if filter.MinQuantity != nil && filter.MaxQuantity != nil && *filter.MinQuantity > *filter.MaxQuantity {
		return nil, Validation("min_quantity must not exceed max_quantity.")
	}
	if filter.MinPrice != nil && filter.MaxPrice != nil && *filter.MinPrice > *filter.MaxPrice {
		return nil, Validation("min_price must not exceed max_price.")
	}

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &dto.ItemListResponse{
		Items: itemsToResponse(items),
		Page:  dto.NewPage(total, filter.Page, filter.Limit),
	}, nil
}

func (s *itemService) Get(ctx context.Context, id uuid.UUID) (*dto.ItemResponse, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errItemNotFound
		}
		return nil, err
	}
	resp := itemToResponse(item)
	return &resp, nil
}

func (s *itemService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errItemNotFound
		}
		return nil, err
	}
	oldSerial := item.SerialNo

	if req.SerialNo != nil {
		item.SerialNo = *req.SerialNo
	}
	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Price != nil {
		item.Price = req.Price.Round(2)
	}
	if req.Category != nil {
		item.Category = nonEmpty(req.Category)
	}
	if req.Description != nil {
		item.Description = req.Description
	}
	if req.SupplierID != nil {
		if *req.SupplierID == "" {
			item.SupplierID = nil
		} else if item.SupplierID, err = s.resolveSupplier(ctx, req.SupplierID); err != nil {
			return nil, err
		}
	}

	s.cache.evict(ctx, oldSerial, item.SerialNo)
	if err := s.repo.Update(ctx, item); err != nil {
		switch {
		case errors.Is(err, gorm.ErrDuplicatedKey):
			return nil, errSerialExists
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, errItemNotFound
		}
		return nil, err
	}

	s.cache.evict(ctx, oldSerial, item.SerialNo)
	return s.Get(ctx, id)
}

func (s *itemService) GetBySerial(ctx context.Context, serialNo string) (*dto.ItemResponse, error) {
	if cached, ok := s.cache.get(ctx, serialNo); ok {
		return cached, nil
	}
	item, err := s.repo.FindBySerialNo(ctx, serialNo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errBarcodeNotFound
		}
		return nil, err
	}
	resp := itemToResponse(item)
	s.cache.put(ctx, &resp)
	return &resp, nil
}

// UpdateQuantity applies add/subtract/set to the locked item row.
// Subtract clamps at zero.
func (s *itemService) UpdateQuantity(ctx context.Context, actor uuid.UUID, serialNo string, req dto.UpdateQuantityRequest) (*dto.QuantityChangeResponse, error) {
	if req.Quantity == nil || *req.Quantity < 0 {
		return nil, Validation("Valid quantity value is required.")
	}
	amount := *req.Quantity

	var item *model.Item
	var before int
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var err error
		item, err = s.repo.FindBySerialForUpdateTx(tx, serialNo)
		if err != nil {
			return err
		}
		before = item.Quantity
		s.cache.evict(ctx, item.SerialNo)

		var after int
		var movementType string
		switch req.Operation {
		case dto.QuantityAdd:
			after, movementType = before+amount, model.MovementManualAdd
		case dto.QuantitySubtract:
			after, movementType = max(before-amount, 0), model.MovementManualSubtract
		case dto.QuantitySet:
			after, movementType = amount, model.MovementManualSet
		default:
			return Validation(`Invalid operation. Use "add", "subtract", or "set".`)
		}

		if err := s.repo.SetQuantityTx(tx, item.ID, after); err != nil {
			return err
		}
		item.Quantity = after
		return s.movementRepo.CreateTx(tx, &model.InventoryMovement{
			ItemID:         item.ID,
			MovementType:   movementType,
			QuantityChange: after - before,
			QuantityBefore: before,
			QuantityAfter:  after,
			Reason:         fmt.Sprintf("Barcode %s %d", req.Operation, amount),
			CreatedBy:      actorRef(actor),
		})
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errBarcodeNotFound
		}
		return nil, err
	}

	s.cache.evict(ctx, item.SerialNo)
	s.alerts.crossed(ctx, before, item)

	return &dto.QuantityChangeResponse{
		SerialNo:         item.SerialNo,
		PreviousQuantity: before,
		NewQuantity:      item.Quantity,
	}, nil
}

func (s *itemService) resolveSupplier(ctx context.Context, raw *string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := parseID("supplier_id", *raw)
	if err != nil {
		return nil, err
	}
	if _, err := s.supplierRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("Supplier not found.")
		}
		return nil, err
	}
	return &id, nil
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
