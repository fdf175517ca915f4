package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/storefront/commerce-api/internal/core/domain"
	"github.com/storefront/commerce-api/internal/core/ports"
)

const DefaultCurrency = "inr"

type PaymentService struct {
	gateway  ports.PaymentGateway
	currency string
	log      zerolog.Logger
}

func NewPaymentService(gateway ports.PaymentGateway, currency string, log zerolog.Logger) *PaymentService {
	if currency == "" {
		currency = DefaultCurrency
	}
	return &PaymentService{gateway: gateway, currency: currency, log: log}
}

// CreatePaymentIntent asks the processor for an intent of amount, expressed
// in the smallest currency unit.
func (s *PaymentService) CreatePaymentIntent(ctx context.Context, amount int64) (*domain.PaymentIntent, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	intent, err := s.gateway.CreatePaymentIntent(ctx, amount, s.currency)
	if err != nil {
		s.log.Error().Err(err).Int64("amount", amount).Msg("payment intent failed")
		return nil, fmt.Errorf("create payment intent: %w", err)
	}

	s.log.Info().Str("intent_id", intent.ID).Int64("amount", amount).Str("currency", s.currency).Msg("payment intent created")
	return intent, nil
}
