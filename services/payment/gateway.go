package payment

import (
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
)

// Gateway creates hosted checkout sessions.
type Gateway interface {
	NewCheckoutSession(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

type stripeGateway struct {
	sc *session.Client
}

// NewStripeGateway returns nil when key is empty, which disables checkout.
func NewStripeGateway(key string) Gateway {
	if key == "" {
		return nil
	}
	return &stripeGateway{sc: &session.Client{B: stripe.GetBackend(stripe.APIBackend), Key: key}}
}

func (g *stripeGateway) NewCheckoutSession(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	return g.sc.New(params)
}
