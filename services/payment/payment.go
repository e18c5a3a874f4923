// Package payment sells catalog services through Stripe Checkout.
package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	catalogRepo "towgo/database/repository/catalog"
	paymentRepo "towgo/database/repository/payment"
	"towgo/models"
	"towgo/observability"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.uber.org/zap"
)

var (
	ErrPaymentsUnavailable = errors.New("payments are not configured")
	ErrServiceNotFound     = errors.New("service not found")
	ErrInvalidRedirectURL  = errors.New("successUrl and cancelUrl must be absolute http(s) URLs")
	ErrInvalidSignature    = errors.New("invalid webhook signature")
)

// CheckoutResult is returned to the client, which redirects to URL.
type CheckoutResult struct {
	URL       string `json:"url"`
	SessionID string `json:"sessionId"`
}

// Service implements the catalog and checkout operations.
type Service struct {
	catalog       catalogRepo.CatalogRepository
	payments      paymentRepo.PaymentRepository
	gateway       Gateway
	webhookSecret string
	logger        *zap.Logger
	now           func() time.Time
}

// NewService creates the payment service. A nil gateway disables checkout.
func NewService(catalog catalogRepo.CatalogRepository, payments paymentRepo.PaymentRepository,
	gateway Gateway, webhookSecret string, logger *zap.Logger) *Service {
	return &Service{
		catalog:       catalog,
		payments:      payments,
		gateway:       gateway,
		webhookSecret: webhookSecret,
		logger:        logger,
		now:           time.Now,
	}
}

// ListServices returns the active catalog.
func (s *Service) ListServices(ctx context.Context) ([]models.Service, error) {
	return s.catalog.ListActive(ctx)
}

// GetService returns one active service.
func (s *Service) GetService(ctx context.Context, id string) (*models.Service, error) {
	svc, err := s.catalog.GetByID(ctx, id)
	if errors.Is(err, catalogRepo.ErrNotFound) {
		return nil, ErrServiceNotFound
	}
	return svc, err
}

// CreateCheckout opens a one-shot payment session for a service and records
// it as pending.
func (s *Service) CreateCheckout(ctx context.Context, userID string, req models.CheckoutRequest) (*CheckoutResult, error) {
	if s.gateway == nil {
		return nil, ErrPaymentsUnavailable
	}
	if !validRedirect(req.SuccessURL) || !validRedirect(req.CancelURL) {
		return nil, ErrInvalidRedirectURL
	}

	svc, err := s.GetService(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}

	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(req.SuccessURL),
		CancelURL:         stripe.String(req.CancelURL),
		ClientReferenceID: stripe.String(userID),
		LineItems:         []*stripe.CheckoutSessionLineItemParams{lineItem(svc)},
	}
	params.Context = ctx
	params.AddMetadata("serviceId", svc.ID)
	params.AddMetadata("userId", userID)

	sess, err := s.gateway.NewCheckoutSession(params)
	observability.RecordUpstream("stripe", err)
	if err != nil {
		s.logger.Error("Stripe checkout session creation failed",
			zap.String("serviceId", svc.ID), zap.Error(err))
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	now := s.now().UTC()
	p := &models.Payment{
		ID:              uuid.NewString(),
		UserID:          userID,
		ServiceID:       svc.ID,
		StripeSessionID: sess.ID,
		AmountCents:     svc.PriceCents,
		Currency:        svc.Currency,
		Status:          models.PaymentPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.payments.Create(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info("Checkout session created",
		zap.String("sessionId", sess.ID),
		zap.String("serviceId", svc.ID),
		zap.String("userID", userID))
	return &CheckoutResult{URL: sess.URL, SessionID: sess.ID}, nil
}

func lineItem(svc *models.Service) *stripe.CheckoutSessionLineItemParams {
	if svc.StripePriceID != "" {
		return &stripe.CheckoutSessionLineItemParams{
			Price:    stripe.String(svc.StripePriceID),
			Quantity: stripe.Int64(1),
		}
	}
	currency := svc.Currency
	if currency == "" {
		currency = string(stripe.CurrencyUSD)
	}
	return &stripe.CheckoutSessionLineItemParams{
		Quantity: stripe.Int64(1),
		PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
			Currency:   stripe.String(currency),
			UnitAmount: stripe.Int64(svc.PriceCents),
			ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
				Name:        stripe.String(svc.Name),
				Description: stripe.String(svc.Description),
			},
		},
	}
}

func validRedirect(raw string) bool {
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// HandleWebhook verifies and applies one Stripe event. Unknown event types
// and unknown sessions are acknowledged without error.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	if s.webhookSecret == "" {
		return ErrPaymentsUnavailable
	}
	event, err := webhook.ConstructEventWithOptions(payload, signature, s.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		s.logger.Warn("Rejected Stripe webhook", zap.Error(err))
		return ErrInvalidSignature
	}

	var status models.PaymentStatus
	switch event.Type {
	case "checkout.session.completed", "checkout.session.async_payment_succeeded":
		status = models.PaymentPaid
	case "checkout.session.expired":
		status = models.PaymentExpired
	case "checkout.session.async_payment_failed":
		status = models.PaymentFailed
	default:
		s.logger.Debug("Ignoring Stripe event", zap.String("type", string(event.Type)))
		return nil
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return fmt.Errorf("failed to decode checkout session: %w", err)
	}
	// Delayed payment methods complete the session before the money arrives.
	if event.Type == "checkout.session.completed" && sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusUnpaid {
		return nil
	}

	err = s.payments.UpdateStatusBySession(ctx, sess.ID, status)
	if errors.Is(err, paymentRepo.ErrNotFound) {
		s.logger.Warn("Stripe webhook for unknown session", zap.String("sessionId", sess.ID))
		return nil
	}
	if err != nil {
		return err
	}
	s.logger.Info("Payment status updated",
		zap.String("sessionId", sess.ID), zap.String("status", string(status)))
	return nil
}
