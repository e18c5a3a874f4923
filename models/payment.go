package models

import "time"

// PaymentStatus tracks a checkout from creation to settlement.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
	PaymentExpired PaymentStatus = "expired"
)

// Payment records one Stripe checkout session.
type Payment struct {
	ID              string        `json:"id"`
	UserID          string        `json:"userId"`
	ServiceID       string        `json:"serviceId"`
	StripeSessionID string        `json:"stripeSessionId"`
	AmountCents     int64         `json:"amountCents"`
	Currency        string        `json:"currency"`
	Status          PaymentStatus `json:"status"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

// CheckoutRequest is the body of POST /api/checkout.
type CheckoutRequest struct {
	ServiceID  string `json:"serviceId" binding:"required"`
	SuccessURL string `json:"successUrl" binding:"required,url"`
	CancelURL  string `json:"cancelUrl" binding:"required,url"`
}
