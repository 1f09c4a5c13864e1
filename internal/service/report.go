package service

import (
	"context"
	"math"
	"time"

	"github.com/Elie-50/allo-gaz-lebanon/internal/models"
	"github.com/Elie-50/allo-gaz-lebanon/internal/repository"
)

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}

// TotalProfit sums the profit of delivered orders in the inclusive date
// range, optionally scoped to one address. A window with no matching orders
// yields 0.0.
func (s *service) TotalProfit(ctx context.Context, startDate, endDate string, addressID uint) (float64, error) {
	start, end, err := s.rangeWindow(startDate, endDate)
	if err != nil {
		return 0, err
	}

	profit, err := s.repo.TotalProfit(ctx, repository.OrderWindowQuery{
		Start:     start,
		End:       end,
		AddressID: addressID,
	})
	if err != nil {
		return 0, err
	}
	return round2(profit), nil
}

// yearWindow is the UTC interval covering a business-local calendar year
func (s *service) yearWindow(year int) (time.Time, time.Time) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, s.loc).UTC()
	end := time.Date(year+1, time.January, 1, 0, 0, 0, 0, s.loc).UTC()
	return start, end
}

// SalesSummary aggregates the quantities and sales per item over a calendar
// year, optionally restricted by the item's VAT flag.
func (s *service) SalesSummary(ctx context.Context, year int, tva *bool) ([]models.SalesSummaryRow, error) {
	start, end := s.yearWindow(year)
	rows, err := s.repo.SalesSummary(ctx, start, end, tva)
	if err != nil {
		return nil, err
	}

	for i := range rows {
		rows[i].TotalSales = round2(rows[i].TotalSales)
	}
	return rows, nil
}

// SalesSummaryPDF renders the yearly summary as a printable report. A year
// without sales reads as not found.
func (s *service) SalesSummaryPDF(ctx context.Context, year int, tva *bool) ([]byte, error) {
	rows, err := s.SalesSummary(ctx, year, tva)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return s.renderer.SalesSummary(year, rows)
}
