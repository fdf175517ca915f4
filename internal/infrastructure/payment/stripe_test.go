package payment

import (
	"context"
	"errors"
	"testing"

	"github.com/stripe/stripe-go/v76"
)

type fakeIntents struct {
	params *stripe.PaymentIntentParams
	err    error
}

func (f *fakeIntents) New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
	f.params = params
	if f.err != nil {
		return nil, f.err
	}
	return &stripe.PaymentIntent{
		ID:           "pi_123",
		ClientSecret: "pi_123_secret_abc",
		Amount:       *params.Amount,
		Currency:     stripe.Currency(*params.Currency),
	}, nil
}

func TestStripeGateway_CreatePaymentIntent(t *testing.T) {
	fake := &fakeIntents{}
	g := &StripeGateway{intents: fake}

	pi, err := g.CreatePaymentIntent(context.Background(), 2599, "inr")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pi.ClientSecret != "pi_123_secret_abc" || pi.Amount != 2599 || pi.Currency != "inr" {
		t.Fatalf("unexpected intent: %+v", pi)
	}
	if fake.params.AutomaticPaymentMethods == nil || !*fake.params.AutomaticPaymentMethods.Enabled {
		t.Error("automatic payment methods must be enabled")
	}
	if fake.params.Context == nil {
		t.Error("request context must be forwarded")
	}
}

func TestStripeGateway_Error(t *testing.T) {
	g := &StripeGateway{intents: &fakeIntents{err: errors.New("invalid api key")}}

	if _, err := g.CreatePaymentIntent(context.Background(), 100, "inr"); err == nil {
		t.Fatal("expected error")
	}
}
