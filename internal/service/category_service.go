package service

import (
	"context"

	"github.com/nb2912/inventory/internal/dto"
	"github.com/nb2912/inventory/internal/repository"
)

type CategoryService interface {
	List(ctx context.Context) ([]string, error)
	Items(ctx context.Context, category string) ([]dto.ItemResponse, error)
}

type categoryService struct {
	repo repository.ItemRepository
}

func NewCategoryService(repo repository.ItemRepository) CategoryService {
	return &categoryService{repo: repo}
}

func (s *categoryService) List(ctx context.Context) ([]string, error) {
	return s.repo.Categories(ctx)
}

func (s *categoryService) Items(ctx context.Context, category string) ([]dto.ItemResponse, error) {
	items, err := s.repo.ListByCategory(ctx, category)
	if err != nil {
		return nil, err
	}
	return itemsToResponse(items), nil
}
