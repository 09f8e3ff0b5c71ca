package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"strconv"
	"time"

	"github.com/nb2912/inventory/internal/dto"
	"github.com/nb2912/inventory/internal/infra"
	"github.com/nb2912/inventory/internal/model"
	"github.com/nb2912/inventory/internal/repository"
)

const (
	ExportCSV = "csv"
	ExportPDF = "pdf"
)

type ReportService interface {
	Value(ctx context.Context) (*dto.ValueReport, error)
	Movement(ctx context.Context, filter dto.MovementFilter) ([]dto.MovementResponse, error)
	Categories(ctx context.Context) ([]dto.CategoryReportRow, error)
	Export(ctx context.Context, format string) (*dto.ExportFile, error)
}

type reportService struct {
	repo         repository.ReportRepository
	itemRepo     repository.ItemRepository
	movementRepo repository.MovementRepository
	now          func() time.Time
}

func NewReportService(repo repository.ReportRepository, itemRepo repository.ItemRepository, movementRepo repository.MovementRepository) ReportService {
	return &reportService{repo: repo, itemRepo: itemRepo, movementRepo: movementRepo, now: time.Now}
}

func (s *reportService) Value(ctx context.Context) (*dto.ValueReport, error) {
	sum, err := s.repo.ValueSummary(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.ValueReport{
		TotalValue:   sum.TotalValue,
		TotalItems:   sum.TotalItems,
		AveragePrice: sum.AveragePrice,
		HighestPrice: sum.HighestPrice,
		LowestPrice:  sum.LowestPrice,
	}, nil
}

// Movement lists movements between startDate and endDate, both inclusive.
// Missing bounds default to 1970-01-01 and today.
func (s *reportService) Movement(ctx context.Context, filter dto.MovementFilter) ([]dto.MovementResponse, error) {
	start := time.Unix(0, 0).UTC()
	if filter.StartDate != "" {
		d, err := parseDate("startDate", filter.StartDate)
		if err != nil {
			return nil, err
		}
		start = d
	}
	now := s.now().UTC()
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if filter.EndDate != "" {
		d, err := parseDate("endDate", filter.EndDate)
		if err != nil {
			return nil, err
		}
		end = d
	}
	if end.Before(start) {
		return nil, Validation("endDate must not be before startDate.")
	}

	movements, err := s.movementRepo.List(ctx, repository.MovementFilter{
		From: start,
		To:   end.AddDate(0, 0, 1),
	})
	if err != nil {
		return nil, err
	}
	return movementsToResponse(movements), nil
}

func (s *reportService) Categories(ctx context.Context) ([]dto.CategoryReportRow, error) {
	rows, err := s.repo.CategorySummary(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.CategoryReportRow, len(rows))
	for i, r := range rows {
		resp[i] = dto.CategoryReportRow{
			Category:      r.Category,
			ItemCount:     r.ItemCount,
			TotalQuantity: r.TotalQuantity,
			CategoryValue: r.CategoryValue,
		}
	}
	return resp, nil
}

func (s *reportService) Export(ctx context.Context, format string) (*dto.ExportFile, error) {
	if format == "" {
		format = ExportCSV
	}
	if format != ExportCSV && format != ExportPDF {
		return nil, Validation(`Invalid format. Use "csv" or "pdf".`)
	}

	items, err := s.itemRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	if format == ExportPDF {
		body, err := infra.GenerateInventoryPDF(items, s.now())
		if err != nil {
			return nil, err
		}
		return &dto.ExportFile{Filename: "inventory_export.pdf", ContentType: "application/pdf", Body: body}, nil
	}

	body, err := itemsCSV(items)
	if err != nil {
		return nil, err
	}
	return &dto.ExportFile{Filename: "inventory_export.csv", ContentType: "text/csv", Body: body}, nil
}

var csvHeader = []string{
	"id", "serial_no", "name", "quantity", "price", "category",
	"description", "alert_threshold", "supplier_id", "created_at", "updated_at",
}

func itemsCSV(items []model.Item) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, it := range items {
		threshold := ""
		if it.AlertThreshold != nil {
			threshold = strconv.Itoa(*it.AlertThreshold)
		}
		supplier := ""
		if it.SupplierID != nil {
			supplier = it.SupplierID.String()
		}
		if err := w.Write([]string{
			it.ID.String(),
			it.SerialNo,
			it.Name,
			strconv.Itoa(it.Quantity),
			it.Price.StringFixed(2),
			deref(it.Category),
			deref(it.Description),
			threshold,
			supplier,
			it.CreatedAt.UTC().Format(time.RFC3339),
			it.UpdatedAt.UTC().Format(time.RFC3339),
		}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
