package models

// Service is a premium offering purchasable through checkout.
type Service struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	PriceCents    int64  `json:"priceCents"`
	Currency      string `json:"currency"`
	StripePriceID string `json:"stripePriceId,omitempty"`
	Active        bool   `json:"active"`
}
