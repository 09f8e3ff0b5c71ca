package service

import (
	"context"
	"errors"

	"github.com/nb2912/inventory/internal/dto"
	"github.com/nb2912/inventory/internal/model"
	"github.com/nb2912/inventory/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SupplierService interface {
	Create(ctx context.Context, req dto.SupplierRequest) (*dto.SupplierResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.SupplierResponse, error)
	List(ctx context.Context) ([]dto.SupplierResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.SupplierRequest) (*dto.SupplierResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type supplierService struct {
	repo     repository.SupplierRepository
	itemRepo repository.ItemRepository
}

func NewSupplierService(repo repository.SupplierRepository, itemRepo repository.ItemRepository) SupplierService {
	return &supplierService{repo: repo, itemRepo: itemRepo}
}

var errSupplierNotFound = NotFound("Supplier not found")

func (s *supplierService) Create(ctx context.Context, req dto.SupplierRequest) (*dto.SupplierResponse, error) {
	sup := supplierFromRequest(req)
	if err := s.repo.Create(ctx, sup); err != nil {
		return nil, err
	}
	resp := supplierToResponse(sup)
	return &resp, nil
}

func (s *supplierService) Get(ctx context.Context, id uuid.UUID) (*dto.SupplierResponse, error) {
	sup, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errSupplierNotFound
		}
		return nil, err
	}
	resp := supplierToResponse(sup)
	return &resp, nil
}

func (s *supplierService) List(ctx context.Context) ([]dto.SupplierResponse, error) {
	suppliers, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.SupplierResponse, len(suppliers))
	for i := range suppliers {
		resp[i] = supplierToResponse(&suppliers[i])
	}
	return resp, nil
}

func (s *supplierService) Update(ctx context.Context, id uuid.UUID, req dto.SupplierRequest) (*dto.SupplierResponse, error) {
	sup := supplierFromRequest(req)
	sup.ID = id
	if err := s.repo.Update(ctx, sup); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errSupplierNotFound
		}
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete refuses while any item or purchase order still references the supplier.
func (s *supplierService) Delete(ctx context.Context, id uuid.UUID) error {
	linked, err := s.itemRepo.CountBySupplier(ctx, id)
	if err != nil {
		return err
	}
	if linked > 0 {
		return Validation("Cannot delete supplier. Reassign items linked to this supplier first.")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return errSupplierNotFound
		case errors.Is(err, gorm.ErrForeignKeyViolated):
			return Validation("Cannot delete supplier. Purchase orders reference this supplier.")
		}
		return err
	}
	return nil
}

func supplierFromRequest(req dto.SupplierRequest) *model.Supplier {
	return &model.Supplier{
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
	}
}
