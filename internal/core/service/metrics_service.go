package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/storefront/commerce-api/internal/core/domain"
	"github.com/storefront/commerce-api/internal/core/ports"
)

// earningsWindow is the number of days in the dashboard chart.
const earningsWindow = 7

type SellerMetricsService struct {
	products ports.ProductRepository
	earnings ports.EarningsSource
	now      func() time.Time
}

func NewSellerMetricsService(products ports.ProductRepository, earnings ports.EarningsSource) *SellerMetricsService {
	return &SellerMetricsService{products: products, earnings: earnings, now: time.Now}
}

func (s *SellerMetricsService) GetSellerMetrics(ctx context.Context, sellerID string) (*domain.SellerMetrics, error) {
	products, err := s.products.ListBySeller(ctx, sellerID)
	if err != nil {
		return nil, fmt.Errorf("seller metrics: %w", err)
	}

	m := &domain.SellerMetrics{
		TotalProducts: len(products),
		SalesList:     make([]domain.ProductSales, 0, len(products)),
	}
	for _, p := range products {
		m.TotalProductsSold += p.SoldCount
		m.TotalEarnings += p.Earnings()
		m.SalesList = append(m.SalesList, domain.ProductSales{
			Name:         p.Title,
			Image:        p.Image,
			QuantitySold: p.SoldCount,
		})
	}

	m.EarningsByDay, err = s.earnings.EarningsByDay(ctx, sellerID, s.now(), earningsWindow)
	if err != nil {
		return nil, fmt.Errorf("seller metrics: %w", err)
	}
	return m, nil
}

// SyntheticEarnings fills the earnings chart with placeholder values in
// [1000, 6000). It does not look at sales data; there is no order history
// to aggregate yet.
type SyntheticEarnings struct {
	intN func(n int) int
}

func NewSyntheticEarnings() *SyntheticEarnings {
	return &SyntheticEarnings{intN: rand.IntN}
}

func (g *SyntheticEarnings) EarningsByDay(_ context.Context, _ string, now time.Time, days int) ([]domain.DailyEarning, error) {
	today := now.UTC()
	out := make([]domain.DailyEarning, 0, days)
	for i := days - 1; i >= 0; i-- {
		out = append(out, domain.DailyEarning{
			Date:     today.AddDate(0, 0, -i).Format(time.DateOnly),
			Earnings: 1000 + g.intN(5000),
		})
	}
	return out, nil
}
