package handlers

import (
	"errors"
	"io"
	"net/http"

	"towgo/models"
	"towgo/services/payment"
	"towgo/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Stripe caps event payloads well below this.
const maxWebhookBytes = int64(65536)

// CheckoutHandler serves the premium catalog and Stripe checkout.
type CheckoutHandler struct {
	Payments PaymentService
}

// NewCheckoutHandler wires the catalog and checkout endpoints.
func NewCheckoutHandler(p PaymentService) *CheckoutHandler {
	return &CheckoutHandler{Payments: p}
}

// ListServices handles GET /api/services.
func (h *CheckoutHandler) ListServices(c *gin.Context) {
	services, err := h.Payments.ListServices(c.Request.Context())
	if err != nil {
		getLogger(c).Error("Failed to list services", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to load services", "")
		return
	}
	if services == nil {
		services = []models.Service{}
	}
	c.JSON(http.StatusOK, services)
}

// GetService handles GET /api/services/:id.
func (h *CheckoutHandler) GetService(c *gin.Context) {
	id := c.Param("id")
	svc, err := h.Payments.GetService(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, payment.ErrServiceNotFound) {
			utils.JSONError(c, http.StatusNotFound, "Service not found", id)
			return
		}
		getLogger(c).Error("Failed to load service", zap.String("serviceId", id), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to load service", "")
		return
	}
	c.JSON(http.StatusOK, svc)
}

// CreateCheckout handles POST /api/checkout.
func (h *CheckoutHandler) CreateCheckout(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid checkout request", err.Error())
		return
	}

	res, err := h.Payments.CreateCheckout(c.Request.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, payment.ErrInvalidRedirectURL):
			utils.JSONError(c, http.StatusBadRequest, "Invalid checkout request", err.Error())
		case errors.Is(err, payment.ErrServiceNotFound):
			utils.JSONError(c, http.StatusNotFound, "Service not found", req.ServiceID)
		case errors.Is(err, payment.ErrPaymentsUnavailable):
			utils.JSONError(c, http.StatusServiceUnavailable, "Payments are unavailable", "")
		default:
			getLogger(c).Error("Checkout failed", zap.String("userID", userID), zap.Error(err))
			utils.JSONError(c, http.StatusBadGateway, "Checkout failed", "Please try again later")
		}
		return
	}
	c.JSON(http.StatusOK, res)
}

// StripeWebhook handles POST /api/stripe/webhook.
func (h *CheckoutHandler) StripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBytes))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Unreadable webhook body", err.Error())
		return
	}

	err = h.Payments.HandleWebhook(c.Request.Context(), payload, c.GetHeader("Stripe-Signature"))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"received": true})
	case errors.Is(err, payment.ErrInvalidSignature):
		utils.JSONError(c, http.StatusBadRequest, "Invalid webhook signature", "")
	case errors.Is(err, payment.ErrPaymentsUnavailable):
		utils.JSONError(c, http.StatusServiceUnavailable, "Payments are unavailable", "")
	default:
		getLogger(c).Error("Webhook processing failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Webhook processing failed", "")
	}
}
