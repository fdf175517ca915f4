package ports

import (
	"context"

	"github.com/storefront/commerce-api/internal/core/domain"
)

// PaymentGateway talks to the external payment processor.
type PaymentGateway interface {
	CreatePaymentIntent(ctx context.Context, amount int64, currency string) (*domain.PaymentIntent, error)
}

// PaymentService starts a checkout.
type PaymentService interface {
	CreatePaymentIntent(ctx context.Context, amount int64) (*domain.PaymentIntent, error)
}
