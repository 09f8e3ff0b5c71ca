package repository

import (
	"context"

	"github.com/nb2912/inventory/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ValueSummary aggregates the whole items table.
type ValueSummary struct {
	TotalValue   decimal.Decimal
	TotalItems   int64
	AveragePrice decimal.Decimal
	HighestPrice decimal.Decimal
	LowestPrice  decimal.Decimal
}

type CategorySummary struct {
	Category      *string
	ItemCount     int64
	TotalQuantity int64
	CategoryValue decimal.Decimal
}

type CategoryCount struct {
	Category *string
	Count    int64
}

// ReportRepository runs the read-only aggregates behind reports and the dashboard.
type ReportRepository interface {
	ValueSummary(ctx context.Context) (*ValueSummary, error)
	CategorySummary(ctx context.Context) ([]CategorySummary, error)
	CountByCategory(ctx context.Context) ([]CategoryCount, error)
	CountBelowQuantity(ctx context.Context, threshold int) (int64, error)
	RecentlyCreated(ctx context.Context, limit int) ([]model.Item, error)
	RecentlyUpdated(ctx context.Context, limit int) ([]model.Item, error)
	MostValuable(ctx context.Context, limit int) ([]model.Item, error)
}

type reportRepo struct{ db *gorm.DB }

func NewReportRepository(db *gorm.DB) ReportRepository { return &reportRepo{db: db} }

func (r *reportRepo) ValueSummary(ctx context.Context) (*ValueSummary, error) {
	var s ValueSummary
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(quantity * price), 0) AS total_value,
		       COUNT(*)                          AS total_items,
		       COALESCE(ROUND(AVG(price), 2), 0) AS average_price,
		       COALESCE(MAX(price), 0)           AS highest_price,
		       COALESCE(MIN(price), 0)           AS lowest_price
		FROM items`).Scan(&s).Error
	return &s, err
}

func (r *reportRepo) CategorySummary(ctx context.Context) ([]CategorySummary, error) {
	var rows []CategorySummary
	err := r.db.WithContext(ctx).Model(&model.Item{}).
		Select("category, COUNT(*) AS item_count, COALESCE(SUM(quantity), 0) AS total_quantity, " +
			"COALESCE(SUM(quantity * price), 0) AS category_value").
		Group("category").
		Order("category_value DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *reportRepo) CountByCategory(ctx context.Context) ([]CategoryCount, error) {
	var rows []CategoryCount
	err := r.db.WithContext(ctx).Model(&model.Item{}).
		Select("category, COUNT(*) AS count").
		Group("category").
		Order("count DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *reportRepo) CountBelowQuantity(ctx context.Context, threshold int) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Item{}).Where("quantity < ?", threshold).Count(&n).Error
	return n, err
}

func (r *reportRepo) RecentlyCreated(ctx context.Context, limit int) ([]model.Item, error) {
	var items []model.Item
	err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&items).Error
	return items, err
}

func (r *reportRepo) RecentlyUpdated(ctx context.Context, limit int) ([]model.Item, error) {
	var items []model.Item
	err := r.db.WithContext(ctx).Order("updated_at DESC").Limit(limit).Find(&items).Error
	return items, err
}

func (r *reportRepo) MostValuable(ctx context.Context, limit int) ([]model.Item, error) {
	var items []model.Item
	err := r.db.WithContext(ctx).Order("quantity * price DESC").Limit(limit).Find(&items).Error
	return items, err
}
