package service

import (
	"context"

	"github.com/nb2912/inventory/internal/dto"
	"github.com/nb2912/inventory/internal/repository"

	"github.com/shopspring/decimal"
)

const (
	dashboardRecentItems   = 5
	dashboardValuableItems = 5
	dashboardActivityLimit = 10
)

type DashboardService interface {
	Stats(ctx context.Context) (*dto.DashboardStats, error)
	Activity(ctx context.Context) (*dto.DashboardActivity, error)
}

type dashboardService struct {
	repo              repository.ReportRepository
	movementRepo      repository.MovementRepository
	lowStockThreshold int
}

func NewDashboardService(repo repository.ReportRepository, movementRepo repository.MovementRepository, lowStockThreshold int) DashboardService {
	return &dashboardService{repo: repo, movementRepo: movementRepo, lowStockThreshold: lowStockThreshold}
}

func (s *dashboardService) Stats(ctx context.Context) (*dto.DashboardStats, error) {
	sum, err := s.repo.ValueSummary(ctx)
	if err != nil {
		return nil, err
	}
	low, err := s.repo.CountBelowQuantity(ctx, s.lowStockThreshold)
	if err != nil {
		return nil, err
	}
	counts, err := s.repo.CountByCategory(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := s.repo.RecentlyCreated(ctx, dashboardRecentItems)
	if err != nil {
		return nil, err
	}
	valuable, err := s.repo.MostValuable(ctx, dashboardValuableItems)
	if err != nil {
		return nil, err
	}

	stats := &dto.DashboardStats{
		TotalItems:      sum.TotalItems,
		InventoryValue:  sum.TotalValue,
		LowStockItems:   low,
		ItemsByCategory: make([]dto.CategoryCount, len(counts)),
		RecentItems:     itemsToResponse(recent),
		ValuableItems:   make([]dto.ValuedItem, len(valuable)),
	}
	for i, c := range counts {
		stats.ItemsByCategory[i] = dto.CategoryCount{Category: c.Category, Count: c.Count}
	}
	for i := range valuable {
		it := &valuable[i]
		stats.ValuableItems[i] = dto.ValuedItem{
			ItemResponse: itemToResponse(it),
			TotalValue:   it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))),
		}
	}
	return stats, nil
}

func (s *dashboardService) Activity(ctx context.Context) (*dto.DashboardActivity, error) {
	updated, err := s.repo.RecentlyUpdated(ctx, dashboardActivityLimit)
	if err != nil {
		return nil, err
	}
	movements, err := s.movementRepo.List(ctx, repository.MovementFilter{Limit: dashboardActivityLimit})
	if err != nil {
		return nil, err
	}
	return &dto.DashboardActivity{
		Activities: itemsToResponse(updated),
		Movements:  movementsToResponse(movements),
	}, nil
}
