package gateway

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
)

// PaymentClient creates payment intents denominated in integral minor
// currency units. The returned client secret is handed to the frontend
// unmodified; payment confirmation happens out of band.
type PaymentClient interface {
	CreateIntent(ctx context.Context, amountMinorUnits int64, currency string) (string, error)
}

// StripePaymentClient talks to the Stripe PaymentIntents API.
type StripePaymentClient struct{}

func NewStripePaymentClient(secretKey string) *StripePaymentClient {
	stripe.Key = secretKey
	return &StripePaymentClient{}
}

func (c *StripePaymentClient) CreateIntent(ctx context.Context, amountMinorUnits int64, currency string) (string, error) {
	params := &stripe.PaymentIntentParams{
		Params:             stripe.Params{Context: ctx},
		Amount:             stripe.Int64(amountMinorUnits),
		Currency:           stripe.String(currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.SetIdempotencyKey(uuid.NewString())

	intent, err := paymentintent.New(params)
	if err != nil {
		return "", fmt.Errorf("cannot create payment intent: %v", err)
	}
	return intent.ClientSecret, nil
}
