package ports

import (
	"context"
	"time"

	"github.com/storefront/commerce-api/internal/core/domain"
)

// SellerMetricsService builds the seller dashboard.
type SellerMetricsService interface {
	GetSellerMetrics(ctx context.Context, sellerID string) (*domain.SellerMetrics, error)
}

// EarningsSource produces the daily earnings chart for a seller. It must
// return exactly days entries, oldest first, ending on the day of now.
type EarningsSource interface {
	EarningsByDay(ctx context.Context, sellerID string, now time.Time, days int) ([]domain.DailyEarning, error)
}
