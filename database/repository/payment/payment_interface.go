package paymentRepo

import (
	"context"
	"errors"

	"towgo/models"
)

// ErrNotFound is returned when no payment matches the Stripe session.
var ErrNotFound = errors.New("payment not found")

// PaymentRepository persists checkout records.
type PaymentRepository interface {
	Create(ctx context.Context, p *models.Payment) error
	UpdateStatusBySession(ctx context.Context, sessionID string, status models.PaymentStatus) error
	GetBySession(ctx context.Context, sessionID string) (*models.Payment, error)
}
