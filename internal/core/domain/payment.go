package domain

// PaymentIntent is what the client needs to confirm a payment with the processor.
type PaymentIntent struct {
	ID           string
	ClientSecret string
	Amount       int64
	Currency     string
}
