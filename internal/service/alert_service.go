package service

import (
	"context"
	"errors"

	"github.com/nb2912/inventory/internal/dto"
	"github.com/nb2912/inventory/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AlertService interface {
	// LowStock lists items under threshold; nil uses the configured default.
	LowStock(ctx context.Context, threshold *int) ([]dto.ItemResponse, error)
	Custom(ctx context.Context) ([]dto.ItemResponse, error)
	SetThreshold(ctx context.Context, itemID uuid.UUID, threshold *int) (*dto.ItemResponse, error)
}

type alertService struct {
	repo             repository.ItemRepository
	cache            itemCache
	defaultThreshold int
}

func NewAlertService(repo repository.ItemRepository, cache Cache, defaultThreshold int) AlertService {
	return &alertService{repo: repo, cache: itemCache{c: cache}, defaultThreshold: defaultThreshold}
}

func (s *alertService) LowStock(ctx context.Context, threshold *int) ([]dto.ItemResponse, error) {
	t := s.defaultThreshold
	if threshold != nil {
		if *threshold < 0 {
			return nil, Validation("threshold must be a non-negative integer.")
		}
		t = *threshold
	}
	items, err := s.repo.ListBelowQuantity(ctx, t)
	if err != nil {
		return nil, err
	}
	return itemsToResponse(items), nil
}

func (s *alertService) Custom(ctx context.Context) ([]dto.ItemResponse, error) {
	items, err := s.repo.ListBelowOwnThreshold(ctx)
	if err != nil {
		return nil, err
	}
	return itemsToResponse(items), nil
}

func (s *alertService) SetThreshold(ctx context.Context, itemID uuid.UUID, threshold *int) (*dto.ItemResponse, error) {
	if threshold != nil && *threshold < 0 {
		return nil, Validation("threshold must be a non-negative integer.")
	}
	item, err := s.repo.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errItemNotFound
		}
		return nil, err
	}
	s.cache.evict(ctx, item.SerialNo)
	if err := s.repo.UpdateAlertThreshold(ctx, itemID, threshold); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errItemNotFound
		}
		return nil, err
	}
	s.cache.evict(ctx, item.SerialNo)
	item.AlertThreshold = threshold
	resp := itemToResponse(item)
	return &resp, nil
}
