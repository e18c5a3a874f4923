package handlers

import (
	"errors"
	"net/http"

	"towgo/models"
	"towgo/services/share"
	"towgo/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ShareHandler serves location shares.
type ShareHandler struct {
	Shares ShareService
}

// NewShareHandler wires the location-share endpoints.
func NewShareHandler(s ShareService) *ShareHandler {
	return &ShareHandler{Shares: s}
}

// CreateShare handles POST /api/location-share.
func (h *ShareHandler) CreateShare(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.ShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid share payload", err.Error())
		return
	}

	created, err := h.Shares.Create(c.Request.Context(), userID, req)
	if err != nil {
		if errors.Is(err, share.ErrInvalidExpiry) || errors.Is(err, share.ErrInvalidPayload) {
			utils.JSONError(c, http.StatusBadRequest, "Invalid share payload", err.Error())
			return
		}
		getLogger(c).Error("Failed to create location share", zap.String("userID", userID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to create location share", "")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"shareId": created.ShareID, "expiresAt": created.ExpiresAt})
}

// GetShare handles GET /api/location-share/:shareId. No auth.
func (h *ShareHandler) GetShare(c *gin.Context) {
	shareID := c.Param("shareId")
	found, err := h.Shares.Get(c.Request.Context(), shareID)
	if err != nil {
		if errors.Is(err, share.ErrShareNotFound) {
			utils.JSONError(c, http.StatusNotFound, "Location share not found or expired", shareID)
			return
		}
		getLogger(c).Error("Failed to load location share", zap.String("shareId", shareID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to load location share", "")
		return
	}
	c.JSON(http.StatusOK, found)
}
